package broker

import (
	"fmt"

	"sinag/internal/config"
	"sinag/internal/logger"
)

const TypeKafka = "kafka"

// NewProducer returns the producer for cfg.Type. serviceName labels its
// metrics.
func NewProducer(cfg config.BrokerConfig, serviceName string, log logger.Logger) (Producer, error) {
	switch cfg.Type {
	case TypeKafka:
		producer := NewKafkaProducer(cfg.Kafka, log)
		producer.SetServiceName(serviceName)
		return producer, nil
	default:
		return nil, fmt.Errorf("unknown broker type: %s", cfg.Type)
	}
}

func NewConsumer(cfg config.BrokerConfig, serviceName string, log logger.Logger) (Consumer, error) {
	switch cfg.Type {
	case TypeKafka:
		consumer := NewKafkaConsumer(cfg.Kafka, log)
		consumer.SetServiceName(serviceName)
		return consumer, nil
	default:
		return nil, fmt.Errorf("unknown broker type: %s", cfg.Type)
	}
}
