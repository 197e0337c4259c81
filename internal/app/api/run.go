package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	fulfillmentserver "github.com/warelane/go-fulfillment-server/server"

	catalogmemory "github.com/warelane/go-fulfillment-server/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/warelane/go-fulfillment-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/warelane/go-fulfillment-server/internal/domains/catalog/application"
	catalogports "github.com/warelane/go-fulfillment-server/internal/domains/catalog/ports"
	inventorymemory "github.com/warelane/go-fulfillment-server/internal/domains/inventory/adapters/memory"
	inventorypostgres "github.com/warelane/go-fulfillment-server/internal/domains/inventory/adapters/persistence/postgres"
	redisledger "github.com/warelane/go-fulfillment-server/internal/domains/inventory/adapters/redis"
	inventoryapp "github.com/warelane/go-fulfillment-server/internal/domains/inventory/application"
	inventoryports "github.com/warelane/go-fulfillment-server/internal/domains/inventory/ports"
	invoicememory "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/adapters/memory"
	invoiceobs "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/adapters/observability"
	invoicepostgres "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/adapters/persistence/postgres"
	invoiceworkflows "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/adapters/workflows"
	invoiceapp "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/application"
	invoiceports "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/ports"
	"github.com/warelane/go-fulfillment-server/internal/platform/migrations"
	platformobservability "github.com/warelane/go-fulfillment-server/internal/platform/observability"
	platformpostgres "github.com/warelane/go-fulfillment-server/internal/platform/postgres"
	platformredis "github.com/warelane/go-fulfillment-server/internal/platform/redis"
)

// Run boots the fulfillment HTTP API with observability, repositories, the
// stock ledger, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "fulfillment-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	cfg := LoadConfig()

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
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

	// The stock ledger serves the hot decrement path. When Redis is available
	// it fronts the relational inventory as a fast gate; every movement still
	// writes through to the database, which stays authoritative for reads and
	// for re-priming after a restart.
	var ledger invoiceports.StockLedger = inventoryService
	redisClient, cleanupRedis := platformredis.ConnectFromEnv(ctx, logger)
	defer cleanupRedis()
	if redisClient != nil {
		redisStock := redisledger.NewLedger(redisClient)
		if err := primeStockLedger(ctx, inventoryService, redisStock); err != nil {
			logger.Warn("failed to prime redis stock gate, staying on the database", slog.String("error", err.Error()))
		} else {
			ledger = redisledger.NewWriteThrough(redisStock, inventoryService)
			logger.Info("redis stock gate primed")
		}
	}

	coreInvoiceService := invoiceapp.NewService(invoiceRepo, catalogService, ledger)
	invoiceService := invoiceobs.New(
		coreInvoiceService,
		invoiceobs.WithLogger(logger),
		invoiceobs.WithTracer(instruments.Tracer("internal.invoicing.application")),
		invoiceobs.WithMeter(instruments.Meter("internal.invoicing.application")),
	)

	var orchestrator invoiceports.FulfillmentOrchestrator = invoiceworkflows.NewInlineFulfillmentOrchestrator(invoiceService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, fulfilling orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orchestrator = invoiceworkflows.NewTemporalFulfillmentOrchestrator(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := fulfillmentserver.ApiHandleFunctions{
		ProductAPI:   fulfillmentserver.NewProductAPI(catalogService),
		InventoryAPI: fulfillmentserver.NewInventoryAPI(inventoryService),
		InvoiceAPI:   fulfillmentserver.NewInvoiceAPI(invoiceService, orchestrator),
	}
	router := fulfillmentserver.NewRouter(handlers, fulfillmentserver.AuthMiddleware(cfg.JWTSecret))
	router.Use(otelgin.Middleware(serviceName))

	addr := ":" + cfg.Port
	logger.Info("fulfillment API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("fulfillment API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// primeStockLedger copies tracked quantities into Redis so the Lua decrement
// path observes the same stock the database holds at boot.
func primeStockLedger(ctx context.Context, inventory inventoryports.Service, ledger *redisledger.Ledger) error {
	records, err := inventory.List(ctx)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err := ledger.SetStock(ctx, record.ProductID, record.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
