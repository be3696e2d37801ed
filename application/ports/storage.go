package ports

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrNotFound is returned by KeyValueStore.Get when a key does not exist.
var ErrNotFound = errors.New("kv: not found")

// Key is a hierarchical path such as Key{"workspace", "default", "proje-area-data-v5"}.
// Segments must not contain ':'.
type Key []string

// String returns the key joined with ':'
func (k Key) String() string {
	return strings.Join(k, ":")
}

// KeyValueStore is the local-storage channel: one opaque value per key.
// This is a port in hexagonal architecture; badger, DynamoDB and an
// in-memory map implement it.
type KeyValueStore interface {
	// Get retrieves the value for a key. Returns ErrNotFound if not present.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a value, overwriting any existing one.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key Key) error

	// Close releases any resources held by the store.
	Close() error
}

// FileStore is the destination of exported files.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file. Missing files yield an error wrapping os.ErrNotExist.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing, truncating it. The caller must
	// close the writer to flush data.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// FileHandle is a file the user picked for import. Its contents are only
// read when Open is called.
type FileHandle interface {
	// Name is the file name shown to the user.
	Name() string

	// MediaType is the declared type, for example "application/json".
	MediaType() string

	// Open starts reading the file.
	Open(ctx context.Context) (io.ReadCloser, error)
}
