package storage

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FilesystemStorage implements the Storage interface against the local
// filesystem. It is intended for standalone deployments and tests.
type FilesystemStorage struct {
	Config Config
}

// NewFilesystemStorage returns a Storage backed by the local filesystem.
func NewFilesystemStorage(config Config) FilesystemStorage {
	return FilesystemStorage{
		Config: config,
	}
}

// Write writes the data to the key under the configured root.
func (f FilesystemStorage) Write(ctx context.Context, key string, body []byte,
	options *Options) error {

	if options == nil {
		opts := NewOptions()
		options = &opts
	}

	filename := f.buildPath(key)

	if err := f.ensureExists(path.Dir(filename), options); err != nil {
		return err
	}

	var mode os.FileMode = 0644
	if options.Mode != 0 {
		mode = options.Mode
	}

	return os.WriteFile(filename, body, mode)
}

// Read reads the data stored at key.
func (f FilesystemStorage) Read(ctx context.Context, key string) ([]byte, error) {
	filename := f.buildPath(key)

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, ErrNotFound
	}

	return os.ReadFile(filename)
}

// Remove removes the object stored at key.
func (f FilesystemStorage) Remove(ctx context.Context, key string) error {
	if err := os.Remove(f.buildPath(key)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// List returns the keys of all objects stored directly under path.
func (f FilesystemStorage) List(ctx context.Context, dirKey string) ([]string, error) {
	dir := f.buildPath(dirKey)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		keys = append(keys, strings.Join([]string{dirKey, entry.Name()}, "/"))
	}

	return keys, nil
}

func (f FilesystemStorage) buildPath(key string) string {
	parts := []string{
		f.Config.Root,
		f.Config.Bucket,
	}

	if len(key) > 0 {
		parts = append(parts, key)
	}

	return filepath.FromSlash(strings.Join(parts, "/"))
}

func (f FilesystemStorage) ensureExists(dir string, options *Options) error {
	if options == nil {
		opts := NewOptions()
		options = &opts
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, options.DirMode); err != nil {
			return err
		}
	}

	return nil
}
