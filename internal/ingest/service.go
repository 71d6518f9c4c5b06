// Package ingest accepts raw invoice documents into the pipeline: it
// persists the upload and enqueues a conversion request for the workers.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sehoon/invoice-pipeline/internal/blobstore"
	"github.com/sehoon/invoice-pipeline/internal/invoice"
	"github.com/sehoon/invoice-pipeline/internal/metrics"
	"github.com/sehoon/invoice-pipeline/internal/queue"
)

// Service stores uploads in the raw collection and publishes conversion
// requests. The blob write happens before the publish; if the publish
// fails the blob is deleted again so that no orphaned upload survives a
// failed enqueue.
type Service struct {
	store     blobstore.Store
	publisher queue.Publisher
	log       zerolog.Logger
}

// NewService creates an ingest Service.
func NewService(store blobstore.Store, publisher queue.Publisher, log zerolog.Logger) *Service {
	return &Service{store: store, publisher: publisher, log: log}
}

// Accept stores the uploaded document and enqueues a conversion request
// for it. It returns the blob ID assigned to the stored upload.
func (s *Service) Accept(ctx context.Context, blob blobstore.Blob, format invoice.Format, requester string) (string, error) {
	blobID, err := s.store.Put(ctx, blob)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	req := invoice.ConversionRequest{
		InvoiceBlobID: blobID,
		Requester:     requester,
		Format:        string(format),
	}
	body, err := json.Marshal(req)
	if err != nil {
		s.compensate(ctx, blobID)
		return "", fmt.Errorf("encode conversion request: %w", err)
	}

	msgID, err := s.publisher.Publish(ctx, body)
	if err != nil {
		s.compensate(ctx, blobID)
		return "", fmt.Errorf("publish conversion request: %w", err)
	}

	metrics.InvoicesAcceptedTotal.WithLabelValues(string(format)).Inc()

	s.log.Info().
		Str("blob_id", blobID).
		Str("message_id", msgID).
		Str("format", string(format)).
		Str("requester", requester).
		Msg("invoice accepted")

	return blobID, nil
}

// compensate removes a stored upload whose conversion request could not
// be enqueued.
func (s *Service) compensate(ctx context.Context, blobID string) {
	if err := s.store.Delete(context.WithoutCancel(ctx), blobID); err != nil {
		s.log.Error().Err(err).Str("blob_id", blobID).Msg("failed to delete orphaned upload")
	}
}
