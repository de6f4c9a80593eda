package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"sinag/internal/assessment"
	"sinag/internal/broker"
	"sinag/internal/config"
	"sinag/internal/constants"
	"sinag/internal/idempotency"
	"sinag/internal/indicator"
	"sinag/internal/logger"
	"sinag/pkg/bootstrap"
	"sinag/pkg/checklist"
	"sinag/pkg/health"
	"sinag/pkg/metrics"
	"sinag/pkg/middleware"
	"sinag/pkg/rules"
	"sinag/pkg/tracing"
)

const serviceName = "validation-service"

type App struct {
	*bootstrap.Base
	dbConnector    *bootstrap.DatabaseConnector
	db             *sql.DB
	redisClient    *redis.Client
	mongoClient    *mongo.Client
	catalog        *assessment.Catalog
	service        *assessment.Service
	health         *health.CheckerRegistry
	tracerProvider *tracing.TracerProvider
	server         *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		Base:        bootstrap.NewBase(cfg, log, serviceName),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
		health:      health.NewCheckerRegistry(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	ctx = a.Context(ctx)

	tp, err := tracing.Init(a.Config.Tracing, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	if err := a.initDatabases(ctx); err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	if err := a.InitBroker(); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	if err := a.initService(ctx); err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}

	metrics.RegisterEvaluationMetrics()
	metrics.RegisterBrokerMetrics()
	if a.Config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	a.initHTTPServer()
	return nil
}

func (a *App) initDatabases(ctx context.Context) error {
	db, err := a.dbConnector.InitPostgreSQL(ctx)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("database.postgres.host is required")
	}
	a.db = db
	a.health.Register(health.NewPostgreSQLChecker(db))

	if a.Config.Idempotency.Enabled {
		rdb, err := a.dbConnector.InitRedis(ctx)
		if err != nil {
			return err
		}
		if rdb == nil {
			return fmt.Errorf("idempotency requires database.redis.host")
		}
		a.redisClient = rdb
		a.health.RegisterOptional(health.NewRedisChecker(rdb))
	}

	mongoClient, err := a.dbConnector.InitMongoDB(ctx)
	if err != nil {
		return err
	}
	if mongoClient != nil {
		a.mongoClient = mongoClient
		a.health.RegisterOptional(health.NewMongoDBChecker(mongoClient))
	}

	return nil
}

func (a *App) initService(ctx context.Context) error {
	ruleSet, err := bootstrap.NewRules(a.Config.Engine, rules.WithLogger(a.Logger))
	if err != nil {
		return err
	}

	a.catalog = assessment.NewCatalog(
		indicator.NewRepository(a.db),
		ruleSet.Validator,
		a.Config.Evaluation.Reload,
		a.Logger,
	)

	opts := []assessment.Option{
		assessment.WithLogger(a.Logger),
		assessment.WithSchemaErrorFallback(a.Config.Evaluation.Fallback.OnSchemaError),
		assessment.WithResultPublisher(a.Producer, a.Config.Broker.Kafka.OutputTopic),
	}

	if a.redisClient != nil {
		repo := idempotency.NewCircuitBreakerRepository(idempotency.NewRepository(a.redisClient), a.Config.CircuitBreaker)
		opts = append(opts, assessment.WithIdempotency(idempotency.NewService(repo, a.Config.Idempotency, a.Logger)))
	}

	if a.mongoClient != nil {
		mongoDB, err := a.dbConnector.MongoDatabase(ctx, a.mongoClient)
		if err != nil {
			return err
		}
		opts = append(opts, assessment.WithResultStore(assessment.NewResultStore(mongoDB, a.Config.CircuitBreaker)))
	} else {
		a.Logger.WarnwCtx(ctx, "MongoDB is not configured, evaluation results will not be stored")
	}

	a.service = assessment.NewService(a.catalog, ruleSet.Engine, checklist.NewValidator(), opts...)

	a.health.RegisterOptional(health.NewCheckFunc("indicators", func(context.Context) error {
		if a.catalog.Len() == 0 {
			return fmt.Errorf("no indicators loaded")
		}
		return nil
	}))
	return nil
}

func (a *App) initHTTPServer() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.Config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(serviceName))
	}
	router.Use(middleware.RecoveryMiddleware(a.Logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(a.Logger))

	assessment.NewHandler(a.service, a.Logger).RegisterRoutes(router)

	router.GET("/health", a.health.Handler())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(a.Config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(a.Config.Server.WriteTimeoutSeconds) * time.Second,
	}
}

func (a *App) Run(ctx context.Context) error {
	ctx = a.Context(ctx)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		return a.Shutdown(ctx)
	})

	g.Go(func() error {
		return a.catalog.StartReloader(gCtx)
	})

	configConsumer, err := broker.NewConsumer(configBrokerConfig(a.Config.Broker), serviceName, a.Logger)
	if err != nil {
		a.Logger.WarnwCtx(ctx, "Failed to create config event consumer, event-driven reload disabled",
			"error", err,
		)
	} else {
		defer configConsumer.Close()
		configEventHandler := assessment.NewConfigEventHandler(a.service, a.Logger)

		configTopic := a.Config.Broker.Kafka.ConfigUpdateTopic
		if configTopic == "" {
			configTopic = constants.DefaultConfigTopic
		}
		g.Go(func() error {
			a.Logger.InfowCtx(gCtx, "Starting config update event consumer", "topic", configTopic)
			return configConsumer.Consume(gCtx, configTopic, configEventHandler.HandleConfigUpdateEvent)
		})
	}

	inputTopic := a.Config.Broker.Kafka.InputTopic
	if inputTopic == "" {
		inputTopic = constants.DefaultSubmissionsTopic
	}
	submissions := assessment.NewHandler(a.service, a.Logger)
	g.Go(func() error {
		return a.Consumer.Consume(gCtx, inputTopic, submissions.HandleSubmission)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// configBrokerConfig gives every replica its own consumer group for indicator
// change events, so each one reloads its catalog.
func configBrokerConfig(cfg config.BrokerConfig) config.BrokerConfig {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = uuid.New().String()
	}
	cfg.Kafka.GroupID = fmt.Sprintf("%s-config-%s", cfg.Kafka.GroupID, host)
	return cfg
}

func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.InfowCtx(ctx, "Shutting down validation service")

	additionalShutdown := func(ctx context.Context) []error {
		var errs []error

		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if a.server != nil {
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("HTTP server shutdown error: %w", err))
			}
		}

		if a.tracerProvider != nil {
			if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
			}
		}

		errs = append(errs, a.dbConnector.ShutdownDatabases(shutdownCtx, a.redisClient, a.db, a.mongoClient)...)
		return errs
	}

	return a.Base.Shutdown(ctx, additionalShutdown)
}
