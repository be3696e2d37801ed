package storage

import (
	"context"
	"io"
	"mime"
	"path"

	"github.com/coltranesx/Project-Area/application/ports"
)

// StoredFile is a FileHandle over a file already in a FileStore, such as a
// previous export. The media type comes from the file extension.
type StoredFile struct {
	store ports.FileStore
	path  string
}

// NewStoredFile creates a handle for path in store
func NewStoredFile(store ports.FileStore, p string) StoredFile {
	return StoredFile{store: store, path: p}
}

// Name returns the base name of the file
func (f StoredFile) Name() string {
	return path.Base(f.path)
}

// MediaType returns the media type registered for the file extension
func (f StoredFile) MediaType() string {
	return mime.TypeByExtension(path.Ext(f.path))
}

// Open reads the file from the store
func (f StoredFile) Open(ctx context.Context) (io.ReadCloser, error) {
	return f.store.Read(ctx, f.path)
}
