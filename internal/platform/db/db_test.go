package db

import (
	"bytes"
	"context"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	dbConn, err := New(&StorageConfig{
		Bucket: "standalone",
		Root:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	return dbConn
}

func TestPutFetch(t *testing.T) {
	ctx := context.Background()
	dbConn := newTestDB(t)

	key := "projects/project_1"
	body := []byte(`{"id":"project_1"}`)

	if err := dbConn.Put(ctx, key, body); err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	got, err := dbConn.Fetch(ctx, key)
	if err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("Got %s, want %s", got, body)
	}

	if _, err := dbConn.Fetch(ctx, "projects/missing"); err != ErrNotFound {
		t.Errorf("Got %v, want %v", err, ErrNotFound)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	dbConn := newTestDB(t)

	key := "supply/project_1"

	if err := dbConn.Put(ctx, key, []byte("{}")); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := dbConn.Remove(ctx, key); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if _, err := dbConn.Fetch(ctx, key); err != ErrNotFound {
		t.Errorf("Got %v, want %v", err, ErrNotFound)
	}
}

func TestStatusCheck(t *testing.T) {
	ctx := context.Background()
	dbConn := newTestDB(t)

	if err := dbConn.StatusCheck(ctx); err != nil {
		t.Errorf("want nil, got %v", err)
	}
}

func TestClosedDB(t *testing.T) {
	ctx := context.Background()
	dbConn := newTestDB(t)
	dbConn.Close()

	if err := dbConn.Put(ctx, "k", []byte("v")); err == nil {
		t.Error("want error, got nil")
	}
	if _, err := dbConn.Fetch(ctx, "k"); err == nil {
		t.Error("want error, got nil")
	}
}
