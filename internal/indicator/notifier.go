package indicator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sinag/internal/broker"
	"sinag/pkg/logging"
	"sinag/pkg/models"
)

// EventPublisher announces indicator changes to evaluation services.
type EventPublisher interface {
	PublishIndicatorEvent(ctx context.Context, action, indicatorID, changedBy string) error
}

type ConfigEventProducer struct {
	producer broker.Producer
	topic    string
	source   string
}

func NewConfigEventProducer(producer broker.Producer, topic string) *ConfigEventProducer {
	return &ConfigEventProducer{
		producer: producer,
		topic:    topic,
		source:   "indicator-service",
	}
}

func (p *ConfigEventProducer) PublishIndicatorEvent(ctx context.Context, action, indicatorID, changedBy string) error {
	event := models.ConfigUpdateEvent{
		EventType:   models.EventTypeIndicatorUpdated,
		ServiceType: models.ServiceTypeEvaluation,
		IndicatorID: indicatorID,
		Action:      action,
		Timestamp:   time.Now(),
		ChangedBy:   changedBy,
	}
	return p.publishEvent(ctx, event)
}

func (p *ConfigEventProducer) publishEvent(ctx context.Context, event models.ConfigUpdateEvent) error {
	if p.producer == nil || p.topic == "" {
		return nil
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal config event: %w", err)
	}

	var eventData map[string]interface{}
	if err := json.Unmarshal(eventJSON, &eventData); err != nil {
		return fmt.Errorf("failed to unmarshal event data: %w", err)
	}

	envelope := models.NewMessageEnvelopeBuilder().
		WithID(uuid.New().String()).
		WithSource(p.source).
		WithPayload(eventData).
		WithTraceID(logging.GetTraceID(ctx)).
		Build()

	return p.producer.Publish(ctx, p.topic, *envelope)
}
