package sheet

import (
	"bytes"
	"image"
	"image/draw"
	"image/jpeg"
	"os"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// Thumb is a bounded, print-ready thumbnail: opaque JPEG bytes plus the
// pixel size after downscaling.
type Thumb struct {
	Data   []byte
	Width  int
	Height int
}

// Resolver turns image files into embeddable thumbnails. Missing or
// undecodable files resolve to nil; one broken photo must never sink a
// whole document.
type Resolver struct {
	MaxPx   int
	Quality int
}

func NewResolver(maxPx, quality int) *Resolver {
	if maxPx <= 0 {
		maxPx = 96
	}
	if quality <= 0 {
		quality = 82
	}
	return &Resolver{MaxPx: maxPx, Quality: quality}
}

// Resolve reads, downscales and re-encodes the image at path. Neither
// output dimension exceeds MaxPx; images already inside the bound keep
// their size. Transparency is flattened against white, the consumers
// are all opaque print contexts.
func (r *Resolver) Resolve(path string) *Thumb {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	tw, th := w, h
	if w > r.MaxPx || h > r.MaxPx {
		if w >= h {
			tw = r.MaxPx
			th = h * r.MaxPx / w
		} else {
			th = r.MaxPx
			tw = w * r.MaxPx / h
		}
		if tw < 1 {
			tw = 1
		}
		if th < 1 {
			th = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: r.Quality}); err != nil {
		return nil
	}
	return &Thumb{Data: buf.Bytes(), Width: tw, Height: th}
}
