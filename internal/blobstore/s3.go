package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// metadata key carrying the display filename on stored objects.
const filenameMetaKey = "filename"

// s3API is the subset of the S3 client used by S3Store.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps blobs in an S3-compatible object store. One S3Store serves
// one logical collection; the collection name prefixes every object key.
type S3Store struct {
	client     s3API
	bucket     string
	collection string
}

// NewS3Store creates an S3Store with the given client, bucket, and collection.
func NewS3Store(client s3API, bucket, collection string) *S3Store {
	return &S3Store{client: client, bucket: bucket, collection: collection}
}

// NewS3StoreFromConfig builds a real AWS S3 client from the Config. A custom
// endpoint (e.g. MinIO) switches the client to path-style addressing.
func NewS3StoreFromConfig(cfg Config, collection string) (*S3Store, error) {
	ctx := context.Background()

	optFns := []func(*awsconfig.LoadOptions) error{}
	if cfg.S3Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(cfg.S3Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("blobstore: load aws config: %w", err)
	}

	s3OptFns := []func(*s3.Options){}
	if cfg.S3Endpoint != "" {
		s3OptFns = append(s3OptFns, func(o *s3.Options) {
			o.BaseEndpoint = &cfg.S3Endpoint
			o.UsePathStyle = true
		})
	}

	return &S3Store{
		client:     s3.NewFromConfig(awsCfg, s3OptFns...),
		bucket:     cfg.S3Bucket,
		collection: collection,
	}, nil
}

func (s *S3Store) key(id string) string {
	return s.collection + "/" + id
}

// Put uploads the blob under a freshly generated identifier and returns it.
func (s *S3Store) Put(ctx context.Context, blob Blob) (string, error) {
	id := uuid.New().String()
	k := s.key(id)

	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &k,
		Body:   bytes.NewReader(blob.Data),
	}
	if blob.ContentType != "" {
		input.ContentType = &blob.ContentType
	}
	if blob.Filename != "" {
		input.Metadata = map[string]string{filenameMetaKey: blob.Filename}
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("blobstore: s3 put: %w", err)
	}
	return id, nil
}

// Get downloads a blob. Returns ErrNotFound when the object does not exist.
func (s *S3Store) Get(ctx context.Context, id string) (Blob, error) {
	k := s.key(id)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &k,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return Blob{}, ErrNotFound
		}
		return Blob{}, fmt.Errorf("blobstore: s3 get: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return Blob{}, fmt.Errorf("blobstore: s3 read body: %w", err)
	}

	blob := Blob{Data: data, Filename: out.Metadata[filenameMetaKey]}
	if out.ContentType != nil {
		blob.ContentType = *out.ContentType
	}
	return blob, nil
}

// Delete removes a blob. S3 DeleteObject is idempotent, so deleting an
// absent object is not an error.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	k := s.key(id)
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &k,
	}); err != nil {
		return fmt.Errorf("blobstore: s3 delete: %w", err)
	}
	return nil
}
