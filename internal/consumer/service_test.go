package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhpv/product-events/internal/config"
	"github.com/minhpv/product-events/internal/event"
	"github.com/minhpv/product-events/internal/metric"
	"github.com/minhpv/product-events/internal/storage/mq"
)

type fakeQueue struct {
	receiveFunc func(ctx context.Context) ([]mq.Message, error)

	receiveCalls int
	deleted      [][]mq.Message
	deleteErr    error
}

func (f *fakeQueue) Send(context.Context, []byte) error {
	return errors.New("not implemented")
}

func (f *fakeQueue) Receive(ctx context.Context, _ int32, _ time.Duration) ([]mq.Message, error) {
	f.receiveCalls++
	return f.receiveFunc(ctx)
}

func (f *fakeQueue) DeleteBatch(_ context.Context, msgs []mq.Message) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, msgs)
	return nil
}

func newTestService(queue mq.Queue) (*Service, *metric.ConsumerMetrics) {
	metrics := metric.NewConsumerMetrics(prometheus.NewRegistry())
	cfg := config.Consumer{
		MaxMessages:  10,
		WaitTime:     10 * time.Second,
		ErrorBackoff: time.Millisecond,
	}
	return NewService(cfg, slog.Default(), queue, metrics), metrics
}

func eventBody(t *testing.T, ev event.ProductEvent) []byte {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return body
}

func TestPollOnceProcessesAndDeletesBatch(t *testing.T) {
	msgs := []mq.Message{
		{ID: "m1", ReceiptHandle: "rh1", Body: eventBody(t, event.NewProductCreated(1, "a", 1.50, time.Now()))},
		{ID: "m2", ReceiptHandle: "rh2", Body: eventBody(t, event.NewProductDeleted(1, time.Now()))},
	}
	queue := &fakeQueue{
		receiveFunc: func(context.Context) ([]mq.Message, error) {
			return msgs, nil
		},
	}
	svc, metrics := newTestService(queue)

	require.NoError(t, svc.pollOnce(context.Background()))

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.MessagesConsumed))
	require.Len(t, queue.deleted, 1)
	assert.Equal(t, msgs, queue.deleted[0])
}

func TestPollOnceMalformedMessageStillDeleted(t *testing.T) {
	msgs := []mq.Message{
		{ID: "m1", ReceiptHandle: "rh1", Body: []byte("not an event")},
	}
	queue := &fakeQueue{
		receiveFunc: func(context.Context) ([]mq.Message, error) {
			return msgs, nil
		},
	}
	svc, metrics := newTestService(queue)

	require.NoError(t, svc.pollOnce(context.Background()))

	// Counted once and acknowledged anyway, never redelivered.
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.MessagesConsumed))
	require.Len(t, queue.deleted, 1)
	assert.Equal(t, msgs, queue.deleted[0])
}

func TestPollOnceEmptyReceiveSkipsDelete(t *testing.T) {
	queue := &fakeQueue{
		receiveFunc: func(context.Context) ([]mq.Message, error) {
			return nil, nil
		},
	}
	svc, metrics := newTestService(queue)

	require.NoError(t, svc.pollOnce(context.Background()))

	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.MessagesConsumed))
	assert.Empty(t, queue.deleted)
}

func TestPollOnceReceiveErrorPropagates(t *testing.T) {
	queue := &fakeQueue{
		receiveFunc: func(context.Context) ([]mq.Message, error) {
			return nil, errors.New("queue unreachable")
		},
	}
	svc, _ := newTestService(queue)

	assert.Error(t, svc.pollOnce(context.Background()))
}

func TestRunBacksOffAfterErrorAndStops(t *testing.T) {
	received := make(chan struct{}, 1)
	queue := &fakeQueue{
		receiveFunc: func(context.Context) ([]mq.Message, error) {
			select {
			case received <- struct{}{}:
			default:
			}
			return nil, errors.New("queue unreachable")
		},
	}
	svc, _ := newTestService(queue)

	cleanup := svc.Run(context.Background())

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("consumer never polled the queue")
	}

	cleanup()

	// The loop is stopped; no more cycles happen.
	calls := queue.receiveCalls
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, queue.receiveCalls)
}
