package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"sinag/internal/broker"
	"sinag/internal/config"
	"sinag/internal/constants"
	"sinag/internal/indicator"
	"sinag/internal/logger"
	"sinag/pkg/bootstrap"
	"sinag/pkg/health"
	"sinag/pkg/metrics"
	"sinag/pkg/middleware"
	"sinag/pkg/ratelimit"
	"sinag/pkg/tracing"
)

const serviceName = "indicator-service"

type App struct {
	*bootstrap.Base
	dbConnector    *bootstrap.DatabaseConnector
	db             *sql.DB
	server         *http.Server
	router         *gin.Engine
	tracerProvider *tracing.TracerProvider
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		Base:        bootstrap.NewBase(cfg, log, serviceName),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	ctx = a.Context(ctx)

	tp, err := tracing.Init(a.Config.Tracing, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	if err := a.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	a.initProducer(ctx)

	if err := a.initRouter(ctx); err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.Config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(a.Config.Server.WriteTimeoutSeconds) * time.Second,
	}

	return nil
}

func (a *App) initDatabase(ctx context.Context) error {
	db, err := a.dbConnector.InitPostgreSQL(ctx)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("database.postgres.host is required")
	}
	a.db = db
	return nil
}

// initProducer is best effort: without a broker the service still serves the
// API, validation services just fall back to their periodic reload.
func (a *App) initProducer(ctx context.Context) {
	if a.Config.Broker.Type == "" {
		return
	}

	producer, err := broker.NewProducer(a.Config.Broker, serviceName, a.Logger)
	if err != nil {
		a.Logger.WarnwCtx(ctx, "Failed to create config event producer, config events will be disabled", "error", err)
		return
	}
	a.Producer = producer
	metrics.RegisterBrokerMetrics()
	a.Logger.InfowCtx(ctx, "Config event producer initialized", "topic", a.configTopic())
}

func (a *App) configTopic() string {
	if topic := a.Config.Broker.Kafka.ConfigUpdateTopic; topic != "" {
		return topic
	}
	return constants.DefaultConfigTopic
}

func (a *App) initRouter(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.Config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(serviceName))
	}

	router.Use(middleware.RecoveryMiddleware(a.Logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(a.Logger))

	if a.Config.Management.RateLimit.Enabled {
		rateLimitConfig := ratelimit.FromConfig(a.Config.Management.RateLimit)
		router.Use(ratelimit.RateLimitMiddleware(ctx, rateLimitConfig))
		a.Logger.InfowCtx(ctx, "Rate limiting enabled", "rps", rateLimitConfig.RPS, "burst", rateLimitConfig.Burst)
	}

	ruleSet, err := bootstrap.NewRules(a.Config.Engine)
	if err != nil {
		return err
	}

	opts := []indicator.ServiceOption{
		indicator.WithLogger(a.Logger),
		indicator.WithVersioning(indicator.NewVersioningRepository(a.db)),
		indicator.WithSchemaValidator(ruleSet.Validator),
	}
	if a.Producer != nil {
		opts = append(opts, indicator.WithConfigEvents(indicator.NewConfigEventProducer(a.Producer, a.configTopic())))
	}

	svc := indicator.NewService(indicator.NewRepository(a.db), opts...)
	indicator.NewHandler(svc, a.Logger).RegisterRoutes(router)

	metrics.RegisterManagementMetrics()
	if a.Config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewPostgreSQLChecker(a.db))

	router.GET("/health", healthRegistry.Handler())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	a.router = router
	return nil
}

func (a *App) Run(ctx context.Context) error {
	ctx = a.Context(ctx)

	errChan := make(chan error, 1)
	go func() {
		a.Logger.InfowCtx(ctx, "Server listening", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return a.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	additionalShutdown := func(ctx context.Context) []error {
		var errs []error

		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if a.server != nil {
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
			}
		}

		if a.tracerProvider != nil {
			if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
			}
		}

		errs = append(errs, a.dbConnector.ShutdownDatabases(shutdownCtx, nil, a.db, nil)...)
		return errs
	}

	return a.Base.Shutdown(ctx, additionalShutdown)
}
