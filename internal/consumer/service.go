package consumer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/minhpv/product-events/internal/config"
	"github.com/minhpv/product-events/internal/event"
	"github.com/minhpv/product-events/internal/metric"
	"github.com/minhpv/product-events/internal/storage/mq"
)

// Service is the queue poll loop. It alternates between exactly two states:
// polling, and stopped once shutdown is requested. Shutdown is observed
// between cycles only, so an in-flight receive/process/delete cycle is
// allowed to complete.
type Service struct {
	cfg     config.Consumer
	logger  *slog.Logger
	queue   mq.Queue
	metrics *metric.ConsumerMetrics

	stopChan chan struct{}
}

func NewService(
	cfg config.Consumer,
	logger *slog.Logger,
	queue mq.Queue,
	metrics *metric.ConsumerMetrics,
) *Service {
	return &Service{
		cfg:      cfg,
		logger:   logger.With(slog.String("service", "consumer")),
		queue:    queue,
		metrics:  metrics,
		stopChan: make(chan struct{}),
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) CleanupFunc {
	ctx, cancel := context.WithCancel(ctx)

	stoppedChan := make(chan struct{})
	go func() {
		defer close(stoppedChan)
		s.run(ctx)
	}()

	return func() {
		close(s.stopChan)
		select {
		case <-stoppedChan:
		case <-time.After(5 * time.Second):
			cancel()
			<-stoppedChan
		}
	}
}

func (s *Service) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		default:
		}

		if err := s.pollOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				continue
			}

			s.logger.ErrorContext(ctx, "poll cycle failed", slog.Any("error", err))
			s.sleep(ctx, s.cfg.ErrorBackoff)
		}
	}
}

// pollOnce runs one receive/process/delete cycle. Every received message
// counts as consumed even when its body does not decode, and the whole
// batch is deleted afterwards so malformed messages are never redelivered.
func (s *Service) pollOnce(ctx context.Context) error {
	msgs, err := s.queue.Receive(ctx, s.cfg.MaxMessages, s.cfg.WaitTime)
	if err != nil {
		return err
	}

	if len(msgs) == 0 {
		return nil
	}

	for _, msg := range msgs {
		s.metrics.MessagesConsumed.Inc()

		ev, err := event.Decode(msg.Body)
		if err != nil {
			s.logger.WarnContext(ctx, "message received (unparsed)",
				slog.String("body", string(msg.Body)),
				slog.Any("error", err),
			)
			continue
		}

		s.logger.InfoContext(ctx, "message received",
			slog.String("type", ev.Type),
			slog.Int64("product_id", ev.ProductID),
		)
	}

	return s.queue.DeleteBatch(ctx, msgs)
}

func (s *Service) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-s.stopChan:
	case <-time.After(d):
	}
}
