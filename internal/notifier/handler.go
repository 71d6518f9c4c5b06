// Package notifier implements the notification worker: it consumes
// delivery notices and emails the requester a download reference.
package notifier

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sehoon/invoice-pipeline/internal/invoice"
	"github.com/sehoon/invoice-pipeline/internal/metrics"
)

const noticeSubject = "Invoice Ready for Download"

// Handler processes delivery notices. A returned error leaves the notice
// on the queue for redelivery; delivery is therefore at-least-once and the
// requester may receive duplicate emails after a partial failure.
type Handler struct {
	mailer Mailer
	log    zerolog.Logger
}

// NewHandler creates a notification Handler.
func NewHandler(mailer Mailer, log zerolog.Logger) *Handler {
	return &Handler{mailer: mailer, log: log}
}

// Handle implements queue.Handler.
func (h *Handler) Handle(ctx context.Context, body []byte) error {
	notice, err := invoice.DecodeDeliveryNotice(body)
	if err != nil {
		return err
	}

	emailBody := fmt.Sprintf("Your invoice is ready! Download it using ID: %s", notice.ProcessedBlobID)

	if err := h.mailer.Send(ctx, notice.Requester, noticeSubject, emailBody); err != nil {
		return fmt.Errorf("notify %s: %w", notice.Requester, err)
	}

	metrics.NotificationsSentTotal.Inc()

	h.log.Info().
		Str("requester", notice.Requester).
		Str("processed_fid", notice.ProcessedBlobID).
		Msg("requester notified")

	return nil
}
