package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// The Redis backend maps the ack/nack contract onto streams with consumer
// groups: a delivered message sits in the pending entries list until XACK.
// Acked messages leave the list; nacked (or crashed-on) messages stay
// pending and are reclaimed with XAUTOCLAIM once idle longer than the nack
// delay, which is this backend's redelivery mechanism. Stream entries are
// persisted per the Redis server's durability configuration.

// ConnectRedis dials Redis and pings it with a bounded retry: cfg
// ConnectAttempts tries, ConnectInterval apart. Exhausting the attempts
// returns an error the caller should treat as fatal.
func ConnectRedis(ctx context.Context, cfg Config, log zerolog.Logger) (*redis.Client, error) {
	cfg = cfg.withDefaults()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	var lastErr error
	for attempt := 1; attempt <= cfg.ConnectAttempts; attempt++ {
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}

		log.Warn().Err(lastErr).
			Int("attempt", attempt).
			Int("max_attempts", cfg.ConnectAttempts).
			Msg("redis connection failed, retrying")

		select {
		case <-ctx.Done():
			client.Close()
			return nil, ctx.Err()
		case <-time.After(cfg.ConnectInterval):
		}
	}

	client.Close()
	return nil, fmt.Errorf("connect to redis after %d attempts: %w", cfg.ConnectAttempts, lastErr)
}

// RedisPublisher publishes messages to one Redis stream.
type RedisPublisher struct {
	client *redis.Client
	stream string
}

// NewRedisPublisher creates a RedisPublisher targeting the given stream.
func NewRedisPublisher(client *redis.Client, stream string) *RedisPublisher {
	return &RedisPublisher{client: client, stream: stream}
}

// Publish adds the body to the stream using XADD and returns the entry ID.
func (p *RedisPublisher) Publish(ctx context.Context, body []byte) (string, error) {
	entryID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{"data": string(body)},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd to stream %s: %w", p.stream, err)
	}

	MessagesPublishedTotal.WithLabelValues(p.stream).Inc()

	return entryID, nil
}

// RedisConsumer consumes one stream through a consumer group with a pool of
// sequential worker goroutines.
type RedisConsumer struct {
	client    *redis.Client
	stream    string
	group     string
	handler   Handler
	config    Config
	log       zerolog.Logger
	wg        sync.WaitGroup
	cancel    context.CancelFunc
}

// NewRedisConsumer creates a RedisConsumer for the given stream and group.
func NewRedisConsumer(client *redis.Client, stream, group string, handler Handler, cfg Config, log zerolog.Logger) *RedisConsumer {
	return &RedisConsumer{
		client:  client,
		stream:  stream,
		group:   group,
		handler: handler,
		config:  cfg.withDefaults(),
		log:     log,
	}
}

// Start creates the consumer group if needed and launches the workers.
func (c *RedisConsumer) Start(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group %s on stream %s: %w", c.group, c.stream, err)
	}

	ctx, c.cancel = context.WithCancel(ctx)

	for i := range c.config.WorkerCount {
		c.wg.Add(1)
		go c.runWorker(ctx, fmt.Sprintf("worker-%d", i))
	}

	c.log.Info().
		Int("worker_count", c.config.WorkerCount).
		Str("stream", c.stream).
		Str("group", c.group).
		Msg("redis consumer started")

	return nil
}

// Stop cancels the workers and waits up to the shutdown timeout.
func (c *RedisConsumer) Stop(_ context.Context) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.log.Info().Msg("redis consumer stopped gracefully")
		return nil
	case <-time.After(c.config.ShutdownTimeout):
		c.log.Warn().Msg("redis consumer shutdown timed out")
		return fmt.Errorf("shutdown timed out after %s", c.config.ShutdownTimeout)
	}
}

// runWorker alternates between reclaiming nacked messages (pending longer
// than the nack delay) and reading new ones, processing each sequentially.
func (c *RedisConsumer) runWorker(ctx context.Context, consumerName string) {
	defer c.wg.Done()

	c.log.Info().Str("consumer", consumerName).Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Str("consumer", consumerName).Msg("worker stopping")
			return
		default:
		}

		claimed, _, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   c.stream,
			Group:    c.group,
			Consumer: consumerName,
			MinIdle:  c.config.NackDelay,
			Start:    "0-0",
			Count:    1,
		}).Result()
		if err != nil && err != redis.Nil && ctx.Err() == nil {
			c.log.Error().Err(err).Str("consumer", consumerName).Msg("xautoclaim error")
		}
		if len(claimed) > 0 {
			c.processMessage(ctx, claimed[0])
			continue
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    c.config.BlockTimeout,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			c.log.Error().Err(err).Str("consumer", consumerName).Msg("xreadgroup error")
			continue
		}

		for _, stream := range streams {
			for _, xMsg := range stream.Messages {
				c.processMessage(ctx, xMsg)
			}
		}
	}
}

// processMessage invokes the handler and commits the ack/nack decision:
// XACK on success, nothing on failure (the entry stays pending and is
// reclaimed after the nack delay).
func (c *RedisConsumer) processMessage(ctx context.Context, xMsg redis.XMessage) {
	data, ok := xMsg.Values["data"].(string)
	if !ok {
		// Not a pipeline message at the transport level; parking it would
		// wedge the stream, so drop it.
		c.log.Error().Str("entry_id", xMsg.ID).Msg("stream entry missing data field, dropping")
		_ = c.ack(context.WithoutCancel(ctx), xMsg.ID)
		return
	}

	start := time.Now()

	processCtx, cancel := context.WithTimeout(ctx, c.config.ProcessTimeout)
	defer cancel()

	err := c.handler.Handle(processCtx, []byte(data))

	MessageProcessingDuration.WithLabelValues(c.stream).Observe(time.Since(start).Seconds())

	if err != nil {
		c.log.Error().
			Err(err).
			Str("entry_id", xMsg.ID).
			Dur("nack_delay", c.config.NackDelay).
			Msg("message handling failed, leaving pending for redelivery")
		MessagesNackedTotal.WithLabelValues(c.stream).Inc()
		return
	}

	if ackErr := c.ack(context.WithoutCancel(ctx), xMsg.ID); ackErr != nil {
		c.log.Error().Err(ackErr).Str("entry_id", xMsg.ID).Msg("failed to acknowledge message")
		return
	}

	MessagesAckedTotal.WithLabelValues(c.stream).Inc()
}

func (c *RedisConsumer) ack(ctx context.Context, entryID string) error {
	if err := c.client.XAck(ctx, c.stream, c.group, entryID).Err(); err != nil {
		return fmt.Errorf("xack message %s on stream %s: %w", entryID, c.stream, err)
	}
	return nil
}
