package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	evaluatedAt := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	msg := NewMessageEnvelopeBuilder().
		WithID("msg-1").
		WithSource("validation-service").
		WithPayload(map[string]interface{}{"submission_id": "sub-1"}).
		WithTraceID("trace-1").
		WithEvaluation(EvaluationInfo{EvaluatedAt: evaluatedAt, IndicatorID: "ind-1", Status: "PASS"}).
		WithIdempotency(true, evaluatedAt).
		Build()

	assert.False(t, msg.Timestamp.IsZero())
	require.NoError(t, ValidateMessageEnvelope(msg, "submission_id"))

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "msg-1",
		"source": "validation-service",
		"timestamp": "`+msg.Timestamp.Format(time.RFC3339Nano)+`",
		"payload": {"submission_id": "sub-1"},
		"metadata": {
			"trace_id": "trace-1",
			"evaluation": {"evaluated_at": "2025-03-01T08:00:00Z", "indicator_id": "ind-1", "status": "PASS"},
			"idempotency": {"is_unique": true, "checked_at": "2025-03-01T08:00:00Z"}
		}
	}`, string(raw))
}

func TestValidateMessageEnvelope(t *testing.T) {
	valid := func() *MessageEnvelope {
		return NewMessageEnvelopeBuilder().
			WithID("msg-1").
			WithPayload(map[string]interface{}{"submission_id": "sub-1", "indicator_code": nil}).
			Build()
	}

	tests := []struct {
		name      string
		msg       *MessageEnvelope
		required  []string
		wantField string
	}{
		{name: "nil", msg: nil, wantField: "envelope"},
		{name: "missing id", msg: func() *MessageEnvelope { m := valid(); m.ID = " "; return m }(), wantField: "id"},
		{name: "zero timestamp", msg: func() *MessageEnvelope { m := valid(); m.Timestamp = time.Time{}; return m }(), wantField: "timestamp"},
		{name: "nil payload", msg: func() *MessageEnvelope { m := valid(); m.Payload = nil; return m }(), wantField: "payload"},
		{name: "missing payload field", msg: valid(), required: []string{"response_data"}, wantField: "payload.response_data"},
		{name: "null payload field", msg: valid(), required: []string{"indicator_code"}, wantField: "payload.indicator_code"},
		{name: "valid", msg: valid(), required: []string{"submission_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessageEnvelope(tt.msg, tt.required...)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}
