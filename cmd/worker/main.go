package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/ifan/go-mall-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/ifan/go-mall-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/ifan/go-mall-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/ifan/go-mall-api/internal/domains/catalog/application"
	catalogports "github.com/ifan/go-mall-api/internal/domains/catalog/ports"
	ordersmemory "github.com/ifan/go-mall-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/ifan/go-mall-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/ifan/go-mall-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/ifan/go-mall-api/internal/domains/orders/application"
	ordersports "github.com/ifan/go-mall-api/internal/domains/orders/ports"
	orderactivities "github.com/ifan/go-mall-api/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/ifan/go-mall-api/internal/durable/temporal/workflows/orders"
	"github.com/ifan/go-mall-api/internal/platform/migrations"
	platformobservability "github.com/ifan/go-mall-api/internal/platform/observability"
	platformpostgres "github.com/ifan/go-mall-api/internal/platform/postgres"
)

func main() {
	ctx := context.Background()
	const serviceName = "mall-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	var catalogRepo catalogports.Repository = catalogmemory.NewRepository()
	var orderRepo ordersports.Repository = ordersmemory.NewRepository()
	if db != nil {
		catalogRepo = catalogpostgres.NewRepository(db)
		orderRepo = orderspostgres.NewRepository(db)
		logger.Info("worker repositories configured with postgres")
	}

	catalogService := catalogobs.New(
		catalogapp.NewService(catalogRepo),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	orderService := ordersobs.New(
		ordersapp.NewService(orderRepo, catalogService),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	activities := orderactivities.NewActivities(orderService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
