package storage

import (
	"context"
	"os"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when there is no object at the requested key.
	ErrNotFound = errors.New("Object not found")
)

// Storage is implemented by bucket-style document stores. Keys are
// slash-separated paths and values are opaque byte blobs.
type Storage interface {
	Write(ctx context.Context, key string, body []byte, options *Options) error
	Read(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
	List(ctx context.Context, path string) ([]string, error)
}

// Options alters the behavior of a write.
type Options struct {
	TTL     int64 // Seconds. Zero means no expiry. Only honored by S3.
	Mode    os.FileMode
	DirMode os.FileMode
}

// NewOptions returns Options with default file modes.
func NewOptions() Options {
	return Options{
		Mode:    0644,
		DirMode: 0755,
	}
}

// New selects a storage backend based on the bucket name. The reserved
// bucket name "standalone" selects local filesystem storage.
func New(config Config) Storage {
	if config.IsStandalone() {
		return NewFilesystemStorage(config)
	}
	return NewS3Storage(config)
}
