package blobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore keeps blobs as files under <basePath>/<collection>. Each blob
// is a data file named by its identifier plus a small JSON sidecar carrying
// the display metadata. Intended for development and tests.
type LocalStore struct {
	dir string
}

type localMeta struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// NewLocalStore creates a LocalStore rooted at basePath/collection,
// creating the directory if needed.
func NewLocalStore(basePath, collection string) (*LocalStore, error) {
	dir := filepath.Join(basePath, collection)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("blobstore: create directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Put writes the blob under a generated identifier using a temp-file-then-
// rename pattern so concurrent readers never observe a half-written object.
func (s *LocalStore) Put(_ context.Context, blob Blob) (string, error) {
	id := uuid.New().String()

	meta, err := json.Marshal(localMeta{Filename: blob.Filename, ContentType: blob.ContentType})
	if err != nil {
		return "", fmt.Errorf("blobstore: marshal metadata: %w", err)
	}
	if err := s.writeAtomic(id+".meta", meta); err != nil {
		return "", err
	}
	if err := s.writeAtomic(id, blob.Data); err != nil {
		os.Remove(filepath.Join(s.dir, id+".meta"))
		return "", err
	}
	return id, nil
}

func (s *LocalStore) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-"+name+"-*")
	if err != nil {
		return fmt.Errorf("blobstore: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("blobstore: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("blobstore: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("blobstore: rename temp file: %w", err)
	}
	return nil
}

// Get reads a blob and its metadata. Returns ErrNotFound when absent.
func (s *LocalStore) Get(_ context.Context, id string) (Blob, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Blob{}, ErrNotFound
		}
		return Blob{}, fmt.Errorf("blobstore: read file: %w", err)
	}

	blob := Blob{Data: data}

	// A missing sidecar is tolerated: the blob is still readable, only the
	// display metadata is lost.
	if metaData, err := os.ReadFile(filepath.Join(s.dir, id+".meta")); err == nil {
		var meta localMeta
		if err := json.Unmarshal(metaData, &meta); err == nil {
			blob.Filename = meta.Filename
			blob.ContentType = meta.ContentType
		}
	}
	return blob, nil
}

// Delete removes a blob and its sidecar. Deleting an absent blob is a no-op.
func (s *LocalStore) Delete(_ context.Context, id string) error {
	if err := os.Remove(filepath.Join(s.dir, id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("blobstore: remove file: %w", err)
	}
	if err := os.Remove(filepath.Join(s.dir, id+".meta")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("blobstore: remove metadata: %w", err)
	}
	return nil
}
