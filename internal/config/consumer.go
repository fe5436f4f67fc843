package config

import "time"

type Consumer struct {
	// MaxMessages is the maximum number of messages fetched per receive call.
	MaxMessages int32 `env:"CONSUMER_MAX_MESSAGES" envDefault:"10"`
	// WaitTime is the long-poll bound of a single receive call.
	WaitTime time.Duration `env:"CONSUMER_WAIT_TIME" envDefault:"10s"`
	// ErrorBackoff is the fixed delay after a failed poll cycle.
	ErrorBackoff time.Duration `env:"CONSUMER_ERROR_BACKOFF" envDefault:"2s"`

	// MetricsPort is the port of the notifier's metrics HTTP server.
	MetricsPort uint32 `env:"NOTIFICATIONS_PORT" envDefault:"3001"`
}
