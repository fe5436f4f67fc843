package mq

import (
	"context"
	"time"
)

// Message is a single received queue message. ReceiptHandle is required to
// delete (acknowledge) the message; until deleted the message becomes
// visible again after the queue's visibility timeout.
type Message struct {
	ID            string
	ReceiptHandle string
	Body          []byte
}

// Queue is an at-least-once message queue.
type Queue interface {
	// Send publishes one message with the given body.
	Send(ctx context.Context, body []byte) error

	// Receive fetches up to maxMessages messages, long-polling up to wait
	// for at least one to arrive. An empty slice means the wait elapsed
	// without messages.
	Receive(ctx context.Context, maxMessages int32, wait time.Duration) ([]Message, error)

	// DeleteBatch acknowledges the given messages in a single call,
	// preventing redelivery.
	DeleteBatch(ctx context.Context, msgs []Message) error
}
