package config_handler

import (
	"context"
	"encoding/json"

	"sinag/internal/logger"
	"sinag/pkg/models"
)

type ConfigReloader interface {
	ReloadRules(ctx context.Context) error
}

// Handler reacts to config update events addressed to one service type.
// Events of other types are ignored.
type Handler struct {
	expectedEventType   string
	expectedServiceType string
	reloader            ConfigReloader
	logger              logger.Logger
}

func NewHandler(expectedEventType, expectedServiceType string, log logger.Logger) *Handler {
	return &Handler{
		expectedEventType:   expectedEventType,
		expectedServiceType: expectedServiceType,
		logger:              log,
	}
}

func NewHandlerWithReloader(expectedEventType, expectedServiceType string, reloader ConfigReloader, log logger.Logger) *Handler {
	return NewHandler(expectedEventType, expectedServiceType, log).WithReloader(reloader)
}

func (h *Handler) WithReloader(reloader ConfigReloader) *Handler {
	h.reloader = reloader
	return h
}

func (h *Handler) HandleConfigUpdateEvent(ctx context.Context, envelope models.MessageEnvelope) error {
	eventType, ok := envelope.Payload["event_type"].(string)
	if !ok {
		h.logger.WarnwCtx(ctx, "Config event missing event_type", "id", envelope.ID)
		return nil
	}
	if eventType != h.expectedEventType {
		return nil
	}

	serviceType, ok := envelope.Payload["service_type"].(string)
	if !ok {
		h.logger.WarnwCtx(ctx, "Config event missing service_type", "id", envelope.ID)
		return nil
	}
	if serviceType != h.expectedServiceType {
		return nil
	}

	var event models.ConfigUpdateEvent
	eventJSON, err := json.Marshal(envelope.Payload)
	if err != nil {
		h.logger.ErrorwCtx(ctx, "Failed to marshal event payload", "error", err, "id", envelope.ID)
		return err
	}
	if err := json.Unmarshal(eventJSON, &event); err != nil {
		h.logger.ErrorwCtx(ctx, "Failed to unmarshal config event", "error", err, "id", envelope.ID)
		return err
	}

	h.logger.InfowCtx(ctx, "Received config update event",
		"event_type", event.EventType,
		"action", event.Action,
		"indicator_id", event.IndicatorID,
		"changed_by", event.ChangedBy,
	)

	if h.reloader == nil {
		return nil
	}
	if err := h.reloader.ReloadRules(ctx); err != nil {
		h.logger.ErrorwCtx(ctx, "Failed to reload indicators after config update", "error", err)
		return err
	}
	h.logger.InfowCtx(ctx, "Indicators reloaded after config update", "action", event.Action)
	return nil
}
