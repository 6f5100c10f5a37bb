package storage

import (
	"bytes"
	"context"
	"testing"
)

func newTestStorage(t *testing.T) FilesystemStorage {
	t.Helper()
	return NewFilesystemStorage(NewConfig("standalone", t.TempDir()))
}

func TestFilesystemReadWrite(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	key := "supply/project_1"
	body := []byte(`{"available_supply":800}`)

	if err := store.Write(ctx, key, body, nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	got, err := store.Read(ctx, key)
	if err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	if !bytes.Equal(got, body) {
		t.Errorf("Got %s, want %s", got, body)
	}
}

func TestFilesystemRead_notFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	if _, err := store.Read(ctx, "missing/key"); err != ErrNotFound {
		t.Errorf("Got %v, want %v", err, ErrNotFound)
	}
}

func TestFilesystemRemove(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	key := "projects/project_1"

	if err := store.Write(ctx, key, []byte("{}"), nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	if _, err := store.Read(ctx, key); err != ErrNotFound {
		t.Errorf("Got %v, want %v", err, ErrNotFound)
	}

	if err := store.Remove(ctx, key); err != ErrNotFound {
		t.Errorf("Got %v, want %v", err, ErrNotFound)
	}
}

func TestFilesystemList(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	for _, key := range []string{"projects/a", "projects/b", "supply/a"} {
		if err := store.Write(ctx, key, []byte("{}"), nil); err != nil {
			t.Fatalf("want nil, got %v", err)
		}
	}

	keys, err := store.List(ctx, "projects")
	if err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	if len(keys) != 2 {
		t.Fatalf("Got %v keys, want 2", len(keys))
	}
	for _, key := range keys {
		if key != "projects/a" && key != "projects/b" {
			t.Errorf("Unexpected key %v", key)
		}
	}

	// Listing a path with no objects is empty, not an error.
	keys, err = store.List(ctx, "nothing")
	if err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Got %v keys, want 0", len(keys))
	}
}

func TestNewSelectsBackend(t *testing.T) {
	if _, ok := New(NewConfig("standalone", t.TempDir())).(FilesystemStorage); !ok {
		t.Error("Expected filesystem backend for the standalone bucket")
	}

	if _, ok := New(NewConfig("tokend-data", "")).(S3Storage); !ok {
		t.Error("Expected S3 backend for a named bucket")
	}
}
