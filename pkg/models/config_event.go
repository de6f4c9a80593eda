package models

import "time"

type ConfigUpdateEvent struct {
	EventType   string                 `json:"event_type"`   // "indicator_updated"
	ServiceType string                 `json:"service_type"` // "evaluation"
	IndicatorID string                 `json:"indicator_id,omitempty"`
	Action      string                 `json:"action"` // "create", "update", "delete", "toggle"
	Timestamp   time.Time              `json:"timestamp"`
	ChangedBy   string                 `json:"changed_by,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

const (
	EventTypeIndicatorUpdated = "indicator_updated"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionToggle = "toggle"
	ActionReload = "reload"
)

const (
	ServiceTypeEvaluation = "evaluation"
)
