package sheet

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePNG creates a test image with a transparent background so the
// flattening path is exercised too.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestResolveMissingFile(t *testing.T) {
	r := NewResolver(96, 82)
	assert.Nil(t, r.Resolve(filepath.Join(t.TempDir(), "nope.png")))
	assert.Nil(t, r.Resolve(""))
}

func TestResolveUndecodableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	r := NewResolver(96, 82)
	assert.Nil(t, r.Resolve(path))
}

func TestResolveBoundsThumbnail(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver(96, 82)

	for _, tc := range []struct{ w, h int }{
		{400, 200},
		{200, 400},
		{500, 500},
		{40, 30}, // already inside the bound, kept as is
	} {
		path := writePNG(t, dir, "img.png", tc.w, tc.h)
		thumb := r.Resolve(path)
		require.NotNil(t, thumb)
		assert.LessOrEqual(t, thumb.Width, 96)
		assert.LessOrEqual(t, thumb.Height, 96)

		// the recorded size matches the encoded JPEG
		cfg, format, err := image.DecodeConfig(bytes.NewReader(thumb.Data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, thumb.Width, cfg.Width)
		assert.Equal(t, thumb.Height, cfg.Height)
	}
}

func TestResolveKeepsAspectRatio(t *testing.T) {
	path := writePNG(t, t.TempDir(), "wide.png", 400, 100)
	thumb := NewResolver(96, 82).Resolve(path)
	require.NotNil(t, thumb)
	assert.Equal(t, 96, thumb.Width)
	assert.Equal(t, 24, thumb.Height)
}

func TestResolveIsIdempotent(t *testing.T) {
	path := writePNG(t, t.TempDir(), "img.png", 300, 300)
	r := NewResolver(96, 82)

	a := r.Resolve(path)
	b := r.Resolve(path)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, a.Data, b.Data)
}
