package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhpv/product-events/internal/config"
)

// unsetenv clears a variable for the duration of the test so an
// ambient value from the host cannot shadow the envDefault under
// assertion. t.Setenv records the original value for restoration.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestDefaultsSupportLocalOperation(t *testing.T) {
	unsetenv(t,
		"POSTGRES_HOST", "POSTGRES_PORT",
		"APP_PORT",
		"SQS_QUEUE_URL", "AWS_REGION",
		"CONSUMER_MAX_MESSAGES", "CONSUMER_WAIT_TIME", "CONSUMER_ERROR_BACKOFF",
	)

	type Config struct {
		Postgres config.Postgres
		HTTP     config.HTTP
		SQS      config.SQS
		Consumer config.Consumer
	}

	cfg, err := config.New[Config]()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5433, cfg.Postgres.Port)
	assert.Equal(t, uint32(3000), cfg.HTTP.Port)
	assert.Equal(t, "http://localhost:4566/000000000000/products-events", cfg.SQS.QueueURL)
	assert.Equal(t, "us-east-1", cfg.SQS.Region)
	assert.Equal(t, int32(10), cfg.Consumer.MaxMessages)
	assert.Equal(t, 10*time.Second, cfg.Consumer.WaitTime)
	assert.Equal(t, 2*time.Second, cfg.Consumer.ErrorBackoff)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("CONSUMER_ERROR_BACKOFF", "500ms")

	type Config struct {
		Postgres config.Postgres
		HTTP     config.HTTP
		Consumer config.Consumer
	}

	cfg, err := config.New[Config]()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, uint32(8080), cfg.HTTP.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Consumer.ErrorBackoff)
}
