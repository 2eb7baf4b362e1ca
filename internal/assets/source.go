package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// ErrNotFound reports an asset no source could open.
var ErrNotFound = errors.New("asset not found")

// Source opens assets by slash-separated path.
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

// DirSource reads assets from a directory on disk.
type DirSource struct {
	Root string
}

// Open opens name below Root. Paths cannot escape Root.
func (d DirSource) Open(name string) (io.ReadCloser, error) {
	clean := path.Clean("/" + name)
	f, err := os.Open(filepath.Join(d.Root, filepath.FromSlash(clean)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return f, err
}

// FSSource reads assets from an fs.FS, such as an embedded tree.
type FSSource struct {
	FS fs.FS
}

// Open opens name in the file system.
func (s FSSource) Open(name string) (io.ReadCloser, error) {
	f, err := s.FS.Open(path.Clean(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return f, err
}
