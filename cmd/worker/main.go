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

	catalogmemory "github.com/warelane/go-fulfillment-server/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/warelane/go-fulfillment-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/warelane/go-fulfillment-server/internal/domains/catalog/application"
	catalogports "github.com/warelane/go-fulfillment-server/internal/domains/catalog/ports"
	inventorymemory "github.com/warelane/go-fulfillment-server/internal/domains/inventory/adapters/memory"
	inventorypostgres "github.com/warelane/go-fulfillment-server/internal/domains/inventory/adapters/persistence/postgres"
	inventoryapp "github.com/warelane/go-fulfillment-server/internal/domains/inventory/application"
	inventoryports "github.com/warelane/go-fulfillment-server/internal/domains/inventory/ports"
	invoicememory "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/adapters/memory"
	invoiceobs "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/adapters/observability"
	invoicepostgres "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/adapters/persistence/postgres"
	invoiceapp "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/application"
	invoiceports "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/ports"
	"github.com/warelane/go-fulfillment-server/internal/platform/migrations"
	platformobservability "github.com/warelane/go-fulfillment-server/internal/platform/observability"
	platformpostgres "github.com/warelane/go-fulfillment-server/internal/platform/postgres"
	fulfillmentactivities "github.com/warelane/go-fulfillment-server/internal/platform/temporal/activities/fulfillment"
	fulfillmentworkflows "github.com/warelane/go-fulfillment-server/internal/platform/temporal/workflows/fulfillment"
)

func main() {
	ctx := context.Background()
	const serviceName = "fulfillment-worker"
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

	var productRepo catalogports.Repository = catalogmemory.NewRepository()
	var inventoryRepo inventoryports.Repository = inventorymemory.NewRepository()
	var invoiceRepo invoiceports.Repository = invoicememory.NewRepository()
	if db != nil {
		productRepo = catalogpostgres.NewRepository(db)
		inventoryRepo = inventorypostgres.NewRepository(db)
		invoiceRepo = invoicepostgres.NewRepository(db)
	}

	catalogService := catalogapp.NewService(productRepo)
	inventoryService := inventoryapp.NewService(inventoryRepo)
	invoiceService := invoiceobs.New(
		invoiceapp.NewService(invoiceRepo, catalogService, inventoryService),
		invoiceobs.WithLogger(logger),
		invoiceobs.WithTracer(instruments.Tracer("internal.invoicing.application")),
		invoiceobs.WithMeter(instruments.Meter("internal.invoicing.application")),
	)
	activities := fulfillmentactivities.NewActivities(invoiceService)

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

	w := worker.New(temporalClient, fulfillmentworkflows.FulfillmentTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(fulfillmentworkflows.FulfillmentWorkflow, workflow.RegisterOptions{Name: fulfillmentworkflows.FulfillmentWorkflowName})
	w.RegisterActivityWithOptions(activities.FulfillOrder, activity.RegisterOptions{Name: fulfillmentactivities.FulfillOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", fulfillmentworkflows.FulfillmentTaskQueue), slog.String("namespace", clientOptions.Namespace))
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
