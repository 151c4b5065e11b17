package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	cataloghttp "github.com/ifan/go-mall-api/internal/domains/catalog/adapters/http"
	catalogmemory "github.com/ifan/go-mall-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/ifan/go-mall-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/ifan/go-mall-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/ifan/go-mall-api/internal/domains/catalog/application"
	catalogports "github.com/ifan/go-mall-api/internal/domains/catalog/ports"

	ordershttp "github.com/ifan/go-mall-api/internal/domains/orders/adapters/http"
	ordersmemory "github.com/ifan/go-mall-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/ifan/go-mall-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/ifan/go-mall-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/ifan/go-mall-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/ifan/go-mall-api/internal/domains/orders/application"
	ordersports "github.com/ifan/go-mall-api/internal/domains/orders/ports"

	userhttp "github.com/ifan/go-mall-api/internal/domains/users/adapters/http"
	usermemory "github.com/ifan/go-mall-api/internal/domains/users/adapters/memory"
	userobs "github.com/ifan/go-mall-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/ifan/go-mall-api/internal/domains/users/adapters/persistence/postgres"
	userapp "github.com/ifan/go-mall-api/internal/domains/users/application"
	userports "github.com/ifan/go-mall-api/internal/domains/users/ports"

	"github.com/ifan/go-mall-api/internal/platform/migrations"
	platformobservability "github.com/ifan/go-mall-api/internal/platform/observability"
	platformpostgres "github.com/ifan/go-mall-api/internal/platform/postgres"
	sharederrors "github.com/ifan/go-mall-api/internal/shared/errors"
)

// Run boots the mall HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "mall-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	if cfg.ProblemBaseURI != "" {
		sharederrors.DefaultResponder = sharederrors.NewResponder(cfg.ProblemBaseURI)
	}

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

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	catalogRepo := buildCatalogRepository(db, logger)
	catalogService := catalogobs.New(
		catalogapp.NewService(catalogRepo),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)

	orderRepo := buildOrderRepository(db, logger)
	var engineOpts []ordersapp.Option
	if cfg.OrderDeleteRestocks {
		engineOpts = append(engineOpts, ordersapp.WithStockRestoreOnDelete(true))
	}
	orderService := ordersobs.New(
		ordersapp.NewService(orderRepo, catalogService, engineOpts...),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	userRepo, sessionStore := buildUserStores(db, cfg, logger)
	userService := userobs.New(
		userapp.NewService(userRepo, sessionStore),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := newRouter(serviceName, logger, catalogService, orderService, userService, orderWorkflows)

	addr := ":" + cfg.Port
	logger.Info("mall API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("mall API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func newRouter(
	serviceName string,
	logger *slog.Logger,
	catalogService catalogports.Service,
	orderService ordersports.Service,
	userService userports.Service,
	orderWorkflows ordersports.WorkflowOrchestrator,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))

	v1 := router.Group("/api/v1")
	cataloghttp.NewHandler(catalogService).RegisterRoutes(v1)
	userHandler := userhttp.NewHandler(userService)
	userHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(userhttp.AuthMiddleware(userService))
	userHandler.RegisterProtectedRoutes(protected)
	ordershttp.NewHandler(orderService, orderWorkflows, ordershttp.WithLogger(logger)).RegisterRoutes(protected)

	return router
}

func buildCatalogRepository(db *gorm.DB, logger *slog.Logger) catalogports.Repository {
	if db == nil {
		return catalogmemory.NewRepository()
	}
	logger.Info("catalog repository configured with postgres")
	return catalogpostgres.NewRepository(db)
}

func buildOrderRepository(db *gorm.DB, logger *slog.Logger) ordersports.Repository {
	if db == nil {
		return ordersmemory.NewRepository()
	}
	logger.Info("order repository configured with postgres")
	return orderspostgres.NewRepository(db)
}

func buildUserStores(db *gorm.DB, cfg Config, logger *slog.Logger) (userports.Repository, userports.SessionStore) {
	if db == nil {
		return usermemory.NewRepository(), usermemory.NewSessionStore(cfg.SessionTTL)
	}
	logger.Info("user stores configured with postgres")
	return userpostgres.NewRepository(db), userpostgres.NewSessionStore(db, cfg.SessionTTL)
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
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
