package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/minhpv/product-events/internal/config"
	"github.com/minhpv/product-events/internal/http"
	"github.com/minhpv/product-events/internal/log"
	"github.com/minhpv/product-events/internal/metric"
	"github.com/minhpv/product-events/internal/publisher"
	"github.com/minhpv/product-events/internal/repository"
	"github.com/minhpv/product-events/internal/service"
	"github.com/minhpv/product-events/internal/storage/db"
	"github.com/minhpv/product-events/internal/storage/mq"
	"github.com/minhpv/product-events/internal/telemetry"
	"github.com/minhpv/product-events/pkg/cmdutil"
	"github.com/minhpv/product-events/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running products application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		HTTP     config.HTTP
		SQS      config.SQS
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

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	queue, err := mq.NewSQSQueue(ctx, cfg.SQS)
	if err != nil {
		return fmt.Errorf("error creating sqs queue: %w", err)
	}

	registry := metric.NewRegistry()
	productMetrics := metric.NewProductMetrics(registry)
	httpMetrics := metric.NewHTTPMetrics(registry)

	productRepository := repository.NewProductRepository(dbClient)
	eventPublisher := publisher.New(queue, logger)
	productService := service.NewProductService(productRepository, eventPublisher, productMetrics)

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := http.New(cfg.HTTP, logger, httpMetrics, registry, productService, validator.NewDefaultValidator(), dbClient)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Wait()

	return nil
}
