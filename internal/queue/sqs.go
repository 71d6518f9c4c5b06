package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SQSPublisher publishes messages to one AWS SQS queue. SQS persists every
// accepted message, so durability needs no per-message flag.
type SQSPublisher struct {
	client   sqsAPI
	queueURL string
}

// NewSQSPublisher creates an SQSPublisher targeting the given queue URL.
func NewSQSPublisher(client sqsAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{client: client, queueURL: queueURL}
}

// Publish sends the body via SQS SendMessage and returns the SQS message ID.
func (p *SQSPublisher) Publish(ctx context.Context, body []byte) (string, error) {
	out, err := p.client.SendMessage(ctx, &sqsSendInput{
		QueueURL:    p.queueURL,
		MessageBody: string(body),
	})
	if err != nil {
		return "", fmt.Errorf("sqs send message: %w", err)
	}

	MessagesPublishedTotal.WithLabelValues(p.queueURL).Inc()

	return out.MessageID, nil
}

// SQSConsumer long-polls one SQS queue with a pool of sequential worker
// goroutines. A handler error nacks the message by shrinking its visibility
// timeout to the configured nack delay, after which SQS redelivers it.
type SQSConsumer struct {
	client          sqsAPI
	queueURL        string
	handler         Handler
	log             zerolog.Logger
	workerCount     int
	waitTime        int32
	nackDelay       time.Duration
	processTimeout  time.Duration
	shutdownTimeout time.Duration
	wg              sync.WaitGroup
	cancel          context.CancelFunc
}

// NewSQSConsumer creates an SQSConsumer configured from the given Config.
func NewSQSConsumer(client sqsAPI, queueURL string, handler Handler, cfg Config, log zerolog.Logger) *SQSConsumer {
	cfg = cfg.withDefaults()

	waitTime := int32(cfg.BlockTimeout / time.Second)
	if waitTime < 1 {
		waitTime = 1
	}
	if waitTime > 20 {
		waitTime = 20 // SQS long-poll maximum
	}

	return &SQSConsumer{
		client:          client,
		queueURL:        queueURL,
		handler:         handler,
		log:             log,
		workerCount:     cfg.WorkerCount,
		waitTime:        waitTime,
		nackDelay:       cfg.NackDelay,
		processTimeout:  cfg.ProcessTimeout,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Start launches the worker goroutines.
func (c *SQSConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	for i := range c.workerCount {
		c.wg.Add(1)
		go c.runWorker(ctx, fmt.Sprintf("sqs-worker-%d", i))
	}

	c.log.Info().
		Int("worker_count", c.workerCount).
		Str("queue_url", c.queueURL).
		Msg("sqs consumer started")

	return nil
}

// Stop cancels the workers and waits up to the shutdown timeout. Workers
// finish the ack/nack decision for their in-flight message before exiting.
func (c *SQSConsumer) Stop(_ context.Context) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.log.Info().Msg("sqs consumer stopped gracefully")
		return nil
	case <-time.After(c.shutdownTimeout):
		c.log.Warn().Msg("sqs consumer shutdown timed out")
		return fmt.Errorf("shutdown timed out after %s", c.shutdownTimeout)
	}
}

// runWorker long-polls SQS and processes received messages one at a time.
func (c *SQSConsumer) runWorker(ctx context.Context, workerName string) {
	defer c.wg.Done()

	c.log.Info().Str("worker", workerName).Msg("sqs worker started")

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Str("worker", workerName).Msg("sqs worker stopping")
			return
		default:
		}

		out, err := c.client.ReceiveMessage(ctx, &sqsReceiveInput{
			QueueURL:            c.queueURL,
			MaxNumberOfMessages: 1,
			WaitTimeSeconds:     c.waitTime,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error().Err(err).Str("worker", workerName).Msg("sqs receive error")
			continue
		}

		for _, sqsMsg := range out.Messages {
			c.processMessage(ctx, sqsMsg)
		}
	}
}

// processMessage invokes the handler and commits the ack/nack decision.
// The decision is committed even when ctx has been cancelled meanwhile:
// an in-flight message must not be abandoned in an ambiguous state.
func (c *SQSConsumer) processMessage(ctx context.Context, sqsMsg sqsReceivedMessage) {
	start := time.Now()

	processCtx, cancel := context.WithTimeout(ctx, c.processTimeout)
	defer cancel()

	err := c.handler.Handle(processCtx, []byte(sqsMsg.Body))

	MessageProcessingDuration.WithLabelValues(c.queueURL).Observe(time.Since(start).Seconds())

	ackCtx := context.WithoutCancel(ctx)

	if err != nil {
		c.log.Error().
			Err(err).
			Str("sqs_message_id", sqsMsg.MessageID).
			Dur("nack_delay", c.nackDelay).
			Msg("message handling failed, nacking for redelivery")

		if visErr := c.client.ChangeMessageVisibility(ackCtx, &sqsChangeVisibilityInput{
			QueueURL:          c.queueURL,
			ReceiptHandle:     sqsMsg.ReceiptHandle,
			VisibilityTimeout: int32(c.nackDelay / time.Second),
		}); visErr != nil {
			// The message still redelivers once the original visibility
			// timeout lapses, just later than the configured delay.
			c.log.Error().Err(visErr).
				Str("sqs_message_id", sqsMsg.MessageID).
				Msg("failed to change message visibility")
		}

		MessagesNackedTotal.WithLabelValues(c.queueURL).Inc()
		return
	}

	if delErr := c.client.DeleteMessage(ackCtx, &sqsDeleteInput{
		QueueURL:      c.queueURL,
		ReceiptHandle: sqsMsg.ReceiptHandle,
	}); delErr != nil {
		// Delete failure means the broker may redeliver an already handled
		// message; handlers are required to tolerate that.
		c.log.Error().Err(delErr).
			Str("sqs_message_id", sqsMsg.MessageID).
			Msg("failed to delete sqs message")
		return
	}

	MessagesAckedTotal.WithLabelValues(c.queueURL).Inc()
}
