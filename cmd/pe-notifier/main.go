package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minhpv/product-events/internal/config"
	"github.com/minhpv/product-events/internal/consumer"
	"github.com/minhpv/product-events/internal/log"
	"github.com/minhpv/product-events/internal/metric"
	"github.com/minhpv/product-events/internal/storage/mq"
	"github.com/minhpv/product-events/internal/telemetry"
	"github.com/minhpv/product-events/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running notifier application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		SQS      config.SQS
		Consumer config.Consumer
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	queue, err := mq.NewSQSQueue(ctx, cfg.SQS)
	if err != nil {
		return fmt.Errorf("error creating sqs queue: %w", err)
	}

	registry := metric.NewRegistry()
	consumerMetrics := metric.NewConsumerMetrics(registry)

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := consumer.NewService(cfg.Consumer, logger, queue, consumerMetrics)
		cleanup := svc.Run(ctx)
		logger.InfoContext(ctx, "consumer service started")

		<-interruptChan

		logger.InfoContext(ctx, "consumer service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "consumer service is stopped")
	})

	wg.Go(func() {
		r := chi.NewRouter()
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Consumer.MetricsPort),
			Handler:           r,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				panic(fmt.Errorf("error running metrics server: %w", err))
			}
		}()

		logger.InfoContext(ctx, "metrics server started", slog.String("address", srv.Addr))

		<-interruptChan

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.ErrorContext(ctx, "error shutting down metrics server", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "metrics server is stopped")
	})

	wg.Wait()

	return nil
}
