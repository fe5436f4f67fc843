package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// NewRegistry creates a metrics registry preloaded with the standard Go and
// process collectors. Every component receives it explicitly; nothing uses
// the prometheus default registry.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProductMetrics counts product mutations in the products service.
type ProductMetrics struct {
	Created prometheus.Counter
	Deleted prometheus.Counter
}

func NewProductMetrics(reg prometheus.Registerer) *ProductMetrics {
	m := &ProductMetrics{
		Created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "products_created_total",
			Help: "Number of products created",
		}),
		Deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "products_deleted_total",
			Help: "Number of products deleted",
		}),
	}
	reg.MustRegister(m.Created, m.Deleted)
	return m
}

// ConsumerMetrics counts queue messages processed by the notifier.
type ConsumerMetrics struct {
	MessagesConsumed prometheus.Counter
}

func NewConsumerMetrics(reg prometheus.Registerer) *ConsumerMetrics {
	m := &ConsumerMetrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notification_messages_consumed_total",
			Help: "Number of SQS messages processed",
		}),
	}
	reg.MustRegister(m.MessagesConsumed)
	return m
}

// HTTPMetrics instruments the HTTP request path.
type HTTPMetrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	InflightRequests prometheus.Gauge
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests",
		}, []string{"method", "path"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		InflightRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of in-flight HTTP requests",
		}),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.InflightRequests)
	return m
}
