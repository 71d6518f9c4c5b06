// Package blobstore provides the content-addressable byte stores backing the
// pipeline's "raw" and "processed" collections.
package blobstore

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a requested blob does not exist.
var ErrNotFound = errors.New("blobstore: blob not found")

// Collection names used by the pipeline.
const (
	CollectionRaw       = "raw"
	CollectionProcessed = "processed"
)

// Blob is a stored object: opaque bytes plus display metadata.
type Blob struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Store is a write-once byte store keyed by generated identifiers. Put
// generates and returns the identifier; blobs are never updated in place.
type Store interface {
	Put(ctx context.Context, blob Blob) (string, error)
	Get(ctx context.Context, id string) (Blob, error)
	Delete(ctx context.Context, id string) error
}

// Config holds configuration for creating a Store.
type Config struct {
	Type       string `mapstructure:"type"` // "local" or "s3"
	Path       string `mapstructure:"path"` // base directory for local store
	S3Bucket   string `mapstructure:"s3_bucket"`
	S3Endpoint string `mapstructure:"s3_endpoint"`
	S3Region   string `mapstructure:"s3_region"`
}

// New creates a Store for one logical collection. An empty or unsupported
// type falls back to local storage with a warning.
func New(cfg Config, collection string, log zerolog.Logger) (Store, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStore(cfg.Path, collection)
	case "s3":
		return NewS3StoreFromConfig(cfg, collection)
	default:
		log.Warn().
			Str("type", cfg.Type).
			Str("collection", collection).
			Msg("unsupported or empty blob store type, defaulting to local")
		return NewLocalStore(cfg.Path, collection)
	}
}
