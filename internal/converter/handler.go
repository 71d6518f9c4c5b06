// Package converter implements the conversion worker: it consumes
// conversion requests, renders the requested document, stores the result,
// and hands off to the notification stage.
package converter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sehoon/invoice-pipeline/internal/blobstore"
	"github.com/sehoon/invoice-pipeline/internal/invoice"
	"github.com/sehoon/invoice-pipeline/internal/metrics"
	"github.com/sehoon/invoice-pipeline/internal/queue"
	"github.com/sehoon/invoice-pipeline/internal/render"
)

// Handler processes conversion requests. A returned error leaves the
// message on the queue for redelivery; nil acknowledges it. The processed
// artifact is written before the delivery notice is published, and deleted
// again if the publish fails, so an acked request always has exactly one
// stored artifact and one notice.
type Handler struct {
	raw       blobstore.Store
	processed blobstore.Store
	publisher queue.Publisher
	log       zerolog.Logger
}

// NewHandler creates a conversion Handler.
func NewHandler(raw, processed blobstore.Store, publisher queue.Publisher, log zerolog.Logger) *Handler {
	return &Handler{raw: raw, processed: processed, publisher: publisher, log: log}
}

// Handle implements queue.Handler.
func (h *Handler) Handle(ctx context.Context, body []byte) error {
	req, err := invoice.DecodeConversionRequest(body)
	if err != nil {
		return err
	}

	log := h.log.With().
		Str("invoice_fid", req.InvoiceBlobID).
		Str("requester", req.Requester).
		Str("format", req.Format).
		Logger()

	format, err := invoice.ParseFormat(req.Format)
	if err != nil {
		// An unsupported format can never succeed on retry; drop the
		// request instead of redelivering it forever.
		log.Error().Err(err).Msg("unsupported format in conversion request, dropping")
		return nil
	}

	rawBlob, err := h.raw.Get(ctx, req.InvoiceBlobID)
	if err != nil {
		return fmt.Errorf("fetch raw invoice %s: %w", req.InvoiceBlobID, err)
	}

	inv, err := invoice.Decode(rawBlob.Data)
	if err != nil {
		return err
	}

	renderer, err := render.ForFormat(format)
	if err != nil {
		var unsupported *invoice.ErrUnsupportedFormat
		if errors.As(err, &unsupported) {
			log.Error().Err(err).Msg("no renderer for format, dropping")
			return nil
		}
		return err
	}

	start := time.Now()
	output, err := renderer.Render(inv)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	processedID, err := h.processed.Put(ctx, blobstore.Blob{
		Data:        output,
		Filename:    fmt.Sprintf("invoice_%s.%s", req.InvoiceBlobID, format.Extension()),
		ContentType: format.ContentType(),
	})
	if err != nil {
		return fmt.Errorf("store processed invoice: %w", err)
	}

	notice := invoice.DeliveryNotice{
		InvoiceBlobID:   req.InvoiceBlobID,
		ProcessedBlobID: processedID,
		Requester:       req.Requester,
		Format:          string(format),
		OutputExtension: format.Extension(),
	}
	noticeBody, err := json.Marshal(notice)
	if err != nil {
		h.compensate(ctx, processedID)
		return fmt.Errorf("encode delivery notice: %w", err)
	}

	msgID, err := h.publisher.Publish(ctx, noticeBody)
	if err != nil {
		h.compensate(ctx, processedID)
		return fmt.Errorf("publish delivery notice: %w", err)
	}

	metrics.InvoicesConvertedTotal.WithLabelValues(string(format)).Inc()
	metrics.ConversionDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())

	log.Info().
		Str("processed_fid", processedID).
		Str("message_id", msgID).
		Msg("invoice converted")

	return nil
}

// compensate removes a processed artifact whose delivery notice could not
// be published. The request will be redelivered and re-rendered; leaving
// the artifact behind would orphan it.
func (h *Handler) compensate(ctx context.Context, processedID string) {
	if err := h.processed.Delete(context.WithoutCancel(ctx), processedID); err != nil {
		h.log.Error().Err(err).Str("processed_fid", processedID).Msg("failed to delete orphaned artifact")
	}
}
