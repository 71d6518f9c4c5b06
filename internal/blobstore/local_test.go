package blobstore

import (
	"context"
	"errors"
	"testing"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), CollectionRaw)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

func TestLocalStore_RoundTrip(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	id, err := store.Put(ctx, Blob{
		Data:        []byte(`{"invoice_no":"INV-1"}`),
		Filename:    "invoice.json",
		ContentType: "application/json",
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty blob ID")
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got.Data) != `{"invoice_no":"INV-1"}` {
		t.Errorf("unexpected data: %s", got.Data)
	}
	if got.Filename != "invoice.json" {
		t.Errorf("expected filename invoice.json, got %q", got.Filename)
	}
	if got.ContentType != "application/json" {
		t.Errorf("expected content type application/json, got %q", got.ContentType)
	}
}

func TestLocalStore_UniqueIDs(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	id1, err := store.Put(ctx, Blob{Data: []byte("a")})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	id2, err := store.Put(ctx, Blob{Data: []byte("a")})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if id1 == id2 {
		t.Error("expected distinct IDs for separate puts")
	}
}

func TestLocalStore_GetMissing(t *testing.T) {
	store := newTestLocalStore(t)

	_, err := store.Get(context.Background(), "no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalStore_Delete(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	id, err := store.Put(ctx, Blob{Data: []byte("x"), Filename: "x.bin"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, id); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}
}

func TestLocalStore_CollectionsIsolated(t *testing.T) {
	base := t.TempDir()
	raw, err := NewLocalStore(base, CollectionRaw)
	if err != nil {
		t.Fatalf("create raw store: %v", err)
	}
	processed, err := NewLocalStore(base, CollectionProcessed)
	if err != nil {
		t.Fatalf("create processed store: %v", err)
	}

	ctx := context.Background()
	id, err := raw.Put(ctx, Blob{Data: []byte("raw bytes")})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, err := processed.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected collections to be isolated, got %v", err)
	}
}
