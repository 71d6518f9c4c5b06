package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Clients bundles the broker clients for one process. Close releases the
// underlying connection when the backend has one.
type Clients struct {
	cfg         Config
	redisClient *redis.Client
	sqsClient   sqsAPI
	log         zerolog.Logger
}

// Connect establishes the broker connection for the configured backend.
// Redis is dialed with the bounded startup retry; SQS needs only local
// credential resolution.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*Clients, error) {
	cfg = cfg.withDefaults()

	switch cfg.Type {
	case "redis", "":
		client, err := ConnectRedis(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Clients{cfg: cfg, redisClient: client, log: log}, nil

	case "sqs":
		client, err := newAWSSQSClient(cfg.SQSRegion)
		if err != nil {
			return nil, fmt.Errorf("create sqs client: %w", err)
		}
		return &Clients{cfg: cfg, sqsClient: client, log: log}, nil

	default:
		return nil, fmt.Errorf("unknown queue type: %s", cfg.Type)
	}
}

// Publisher returns a Publisher for the named queue (Redis stream key or
// SQS queue URL).
func (c *Clients) Publisher(queueName string) Publisher {
	if c.sqsClient != nil {
		return NewSQSPublisher(c.sqsClient, queueName)
	}
	return NewRedisPublisher(c.redisClient, queueName)
}

// Consumer returns a Consumer for the named queue running the given
// handler. The group names the competing-consumer set for Redis Streams;
// SQS distributes across consumers natively and ignores it.
func (c *Clients) Consumer(queueName, group string, handler Handler) Consumer {
	if c.sqsClient != nil {
		return NewSQSConsumer(c.sqsClient, queueName, handler, c.cfg, c.log)
	}
	return NewRedisConsumer(c.redisClient, queueName, group, handler, c.cfg, c.log)
}

// Ping verifies the broker connection. SQS has no standing connection, so
// the SQS backend always reports healthy.
func (c *Clients) Ping(ctx context.Context) error {
	if c.redisClient != nil {
		return c.redisClient.Ping(ctx).Err()
	}
	return nil
}

// Close releases the broker connection.
func (c *Clients) Close() error {
	if c.redisClient != nil {
		return c.redisClient.Close()
	}
	return nil
}
