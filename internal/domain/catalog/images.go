package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ImageStore manages the directory of product photos. Files are stored
// under "{code}_{original filename}" so re-uploads never collide across
// products.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ImageStore{dir: dir}, nil
}

func (s *ImageStore) Dir() string { return s.dir }

// Save writes an uploaded photo and returns the stored filename to keep
// on the product row.
func (s *ImageStore) Save(code, filename string, r io.Reader) (string, error) {
	// code comes from user input; Base keeps the file inside the dir
	name := filepath.Base(fmt.Sprintf("%s_%s", code, filepath.Base(filename)))
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}

// Path maps a stored image name to a filesystem path; empty for the
// no-image sentinel.
func (s *ImageStore) Path(name string) string {
	if name == "" || name == NoImage {
		return ""
	}
	return filepath.Join(s.dir, filepath.Base(name))
}

// LogoPath returns the organization logo path, or "" when no logo was
// uploaded. Rendering without a logo is a valid state.
func (s *ImageStore) LogoPath() string {
	p := filepath.Join(s.dir, LogoFile)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}
