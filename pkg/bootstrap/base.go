package bootstrap

import (
	"context"
	"fmt"

	"sinag/internal/broker"
	"sinag/internal/config"
	"sinag/internal/logger"
	"sinag/pkg/logging"
)

// Base holds what every service binary shares: configuration, the logger
// and the broker clients.
type Base struct {
	Config      *config.Config
	Logger      logger.Logger
	Producer    broker.Producer
	Consumer    broker.Consumer
	ServiceName string
}

func NewBase(cfg *config.Config, log logger.Logger, serviceName string) *Base {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName(serviceName)
	}
	return &Base{
		Config:      cfg,
		Logger:      log,
		ServiceName: serviceName,
	}
}

// Context tags ctx with the service name for logging.
func (b *Base) Context(ctx context.Context) context.Context {
	return logging.WithServiceName(ctx, b.ServiceName)
}

func (b *Base) InitBroker() error {
	producer, err := broker.NewProducer(b.Config.Broker, b.ServiceName, b.Logger)
	if err != nil {
		return fmt.Errorf("failed to create producer: %w", err)
	}

	consumer, err := broker.NewConsumer(b.Config.Broker, b.ServiceName, b.Logger)
	if err != nil {
		producer.Close()
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	b.Producer = producer
	b.Consumer = consumer
	return nil
}

func (b *Base) ShutdownBroker() []error {
	var errs []error

	if b.Producer != nil {
		if err := b.Producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("producer close error: %w", err))
		}
	}

	if b.Consumer != nil {
		if err := b.Consumer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("consumer close error: %w", err))
		}
	}

	return errs
}

func (b *Base) Shutdown(ctx context.Context, additionalShutdown func(ctx context.Context) []error) error {
	ctx = b.Context(ctx)
	b.Logger.InfowCtx(ctx, "Shutting down application")

	var errs []error

	errs = append(errs, b.ShutdownBroker()...)

	if additionalShutdown != nil {
		errs = append(errs, additionalShutdown(ctx)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	b.Logger.InfowCtx(ctx, "Application exited successfully")
	return nil
}
