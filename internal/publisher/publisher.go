package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/minhpv/product-events/internal/event"
	"github.com/minhpv/product-events/internal/storage/mq"
)

// Publisher sends product events to the queue. Publishing is best-effort:
// there is no batching and no retry, a transport failure propagates to the
// caller and the event is lost.
type Publisher interface {
	Publish(ctx context.Context, ev event.ProductEvent) error
}

var _ Publisher = (*QueuePublisher)(nil)

type QueuePublisher struct {
	queue  mq.Queue
	logger *slog.Logger
}

func New(queue mq.Queue, logger *slog.Logger) *QueuePublisher {
	return &QueuePublisher{
		queue:  queue,
		logger: logger.With(slog.String("service", "publisher")),
	}
}

func (p *QueuePublisher) Publish(ctx context.Context, ev event.ProductEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal product event: %w", err)
	}

	if err := p.queue.Send(ctx, body); err != nil {
		return fmt.Errorf("send product event: %w", err)
	}

	p.logger.InfoContext(ctx, "event published",
		slog.String("type", ev.Type),
		slog.Int64("product_id", ev.ProductID),
	)

	return nil
}
