package models

import "time"

type MessageEnvelope struct {
	ID        string                 `json:"id"`
	Source    string                 `json:"source"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`  // Submission or evaluation result
	Metadata  Metadata               `json:"metadata"` // Pipeline metadata (trace_id, processing_info)
}

type Metadata struct {
	TraceID     string                 `json:"trace_id,omitempty"`
	Evaluation  *EvaluationInfo        `json:"evaluation,omitempty"`
	Idempotency *IdempotencyInfo       `json:"idempotency,omitempty"`
	DLQ         map[string]interface{} `json:"dlq,omitempty"`
}

type EvaluationInfo struct {
	EvaluatedAt time.Time `json:"evaluated_at"`
	IndicatorID string    `json:"indicator_id"`
	Status      string    `json:"status"`
}

type IdempotencyInfo struct {
	IsUnique  bool      `json:"is_unique"`
	CheckedAt time.Time `json:"checked_at"`
}
