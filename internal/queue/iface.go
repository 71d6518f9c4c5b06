// Package queue wraps the durable message brokers (AWS SQS or Redis
// Streams) behind publish/consume interfaces with explicit ack/nack
// semantics: a handler returning nil acknowledges the message, a non-nil
// error leaves it for redelivery after the configured nack delay.
package queue

import "context"

// Publisher publishes messages to one queue with persistent delivery.
// Publish returns only after the broker has accepted the message.
type Publisher interface {
	Publish(ctx context.Context, body []byte) (string, error)
}

// Consumer runs worker loops consuming one queue.
// Start launches the loops in background goroutines; Stop shuts them down,
// letting each finish its in-flight message first.
type Consumer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Handler processes a single message body. A nil return acknowledges the
// message; an error nacks it, making it visible again after the nack delay.
// Handlers must tolerate redelivery: the brokers guarantee at-least-once,
// not exactly-once.
type Handler interface {
	Handle(ctx context.Context, body []byte) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, body []byte) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, body []byte) error {
	return f(ctx, body)
}
