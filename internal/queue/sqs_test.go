package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeSQS is an in-memory sqsAPI implementation recording all calls.
type fakeSQS struct {
	mu         sync.Mutex
	sent       []sqsSendInput
	sendErr    error
	pending    []sqsReceivedMessage
	deleted    []string
	visibility []sqsChangeVisibilityInput
	deleteErr  error
}

func (f *fakeSQS) SendMessage(_ context.Context, input *sqsSendInput) (*sqsSendOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, *input)
	return &sqsSendOutput{MessageID: "msg-1"}, nil
}

func (f *fakeSQS) ReceiveMessage(_ context.Context, _ *sqsReceiveInput) (*sqsReceiveOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.pending
	f.pending = nil
	return &sqsReceiveOutput{Messages: msgs}, nil
}

func (f *fakeSQS) DeleteMessage(_ context.Context, input *sqsDeleteInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, input.ReceiptHandle)
	return nil
}

func (f *fakeSQS) ChangeMessageVisibility(_ context.Context, input *sqsChangeVisibilityInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visibility = append(f.visibility, *input)
	return nil
}

func TestSQSPublisher_Publish(t *testing.T) {
	client := &fakeSQS{}
	pub := NewSQSPublisher(client, "https://sqs.example/queue-a")

	msgID, err := pub.Publish(context.Background(), []byte(`{"invoice_fid":"x"}`))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if msgID != "msg-1" {
		t.Errorf("expected message ID msg-1, got %q", msgID)
	}
	if len(client.sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(client.sent))
	}
	if client.sent[0].MessageBody != `{"invoice_fid":"x"}` {
		t.Errorf("unexpected body: %s", client.sent[0].MessageBody)
	}
	if client.sent[0].QueueURL != "https://sqs.example/queue-a" {
		t.Errorf("unexpected queue URL: %s", client.sent[0].QueueURL)
	}
}

func TestSQSPublisher_PublishError(t *testing.T) {
	client := &fakeSQS{sendErr: errors.New("throttled")}
	pub := NewSQSPublisher(client, "q")

	if _, err := pub.Publish(context.Background(), []byte("x")); err == nil {
		t.Error("expected publish error")
	}
}

func TestSQSConsumer_AckDeletesMessage(t *testing.T) {
	client := &fakeSQS{}
	consumer := NewSQSConsumer(client, "q", HandlerFunc(func(ctx context.Context, body []byte) error {
		return nil
	}), DefaultConfig(), zerolog.Nop())

	consumer.processMessage(context.Background(), sqsReceivedMessage{
		MessageID:     "m1",
		ReceiptHandle: "rh1",
		Body:          "payload",
	})

	if len(client.deleted) != 1 || client.deleted[0] != "rh1" {
		t.Errorf("expected message rh1 to be deleted, got %v", client.deleted)
	}
	if len(client.visibility) != 0 {
		t.Errorf("expected no visibility changes, got %v", client.visibility)
	}
}

func TestSQSConsumer_NackChangesVisibility(t *testing.T) {
	client := &fakeSQS{}
	cfg := DefaultConfig()
	cfg.NackDelay = 7 * time.Second

	consumer := NewSQSConsumer(client, "q", HandlerFunc(func(ctx context.Context, body []byte) error {
		return errors.New("render failed")
	}), cfg, zerolog.Nop())

	consumer.processMessage(context.Background(), sqsReceivedMessage{
		MessageID:     "m1",
		ReceiptHandle: "rh1",
		Body:          "payload",
	})

	if len(client.deleted) != 0 {
		t.Errorf("expected no deletes on handler failure, got %v", client.deleted)
	}
	if len(client.visibility) != 1 {
		t.Fatalf("expected 1 visibility change, got %d", len(client.visibility))
	}
	if client.visibility[0].VisibilityTimeout != 7 {
		t.Errorf("expected visibility timeout 7s, got %d", client.visibility[0].VisibilityTimeout)
	}
	if client.visibility[0].ReceiptHandle != "rh1" {
		t.Errorf("expected receipt handle rh1, got %q", client.visibility[0].ReceiptHandle)
	}
}

func TestSQSConsumer_HandlerReceivesBody(t *testing.T) {
	client := &fakeSQS{}
	var got []byte
	consumer := NewSQSConsumer(client, "q", HandlerFunc(func(ctx context.Context, body []byte) error {
		got = body
		return nil
	}), DefaultConfig(), zerolog.Nop())

	consumer.processMessage(context.Background(), sqsReceivedMessage{
		ReceiptHandle: "rh1",
		Body:          `{"username":"u"}`,
	})

	if string(got) != `{"username":"u"}` {
		t.Errorf("handler got %q", got)
	}
}

func TestSQSConsumer_StartStop(t *testing.T) {
	client := &fakeSQS{
		pending: []sqsReceivedMessage{{MessageID: "m1", ReceiptHandle: "rh1", Body: "b"}},
	}

	handled := make(chan string, 1)
	cfg := DefaultConfig()
	cfg.WorkerCount = 1

	consumer := NewSQSConsumer(client, "q", HandlerFunc(func(ctx context.Context, body []byte) error {
		select {
		case handled <- string(body):
		default:
		}
		return nil
	}), cfg, zerolog.Nop())

	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case body := <-handled:
		if body != "b" {
			t.Errorf("expected body b, got %q", body)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}

	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
