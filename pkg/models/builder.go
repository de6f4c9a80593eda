package models

import "time"

type MessageEnvelopeBuilder struct {
	envelope *MessageEnvelope
}

func NewMessageEnvelopeBuilder() *MessageEnvelopeBuilder {
	return &MessageEnvelopeBuilder{
		envelope: &MessageEnvelope{
			Payload:  make(map[string]interface{}),
			Metadata: Metadata{},
		},
	}
}

func (b *MessageEnvelopeBuilder) WithID(id string) *MessageEnvelopeBuilder {
	b.envelope.ID = id
	return b
}

func (b *MessageEnvelopeBuilder) WithSource(source string) *MessageEnvelopeBuilder {
	b.envelope.Source = source
	return b
}

func (b *MessageEnvelopeBuilder) WithTimestamp(timestamp time.Time) *MessageEnvelopeBuilder {
	b.envelope.Timestamp = timestamp
	return b
}

func (b *MessageEnvelopeBuilder) WithPayload(payload map[string]interface{}) *MessageEnvelopeBuilder {
	b.envelope.Payload = payload
	return b
}

func (b *MessageEnvelopeBuilder) WithTraceID(traceID string) *MessageEnvelopeBuilder {
	b.envelope.Metadata.TraceID = traceID
	return b
}

// WithEvaluation marks the envelope as carrying an evaluation result.
func (b *MessageEnvelopeBuilder) WithEvaluation(info EvaluationInfo) *MessageEnvelopeBuilder {
	b.envelope.Metadata.Evaluation = &info
	return b
}

// WithIdempotency records that the submission was checked for duplicates.
func (b *MessageEnvelopeBuilder) WithIdempotency(unique bool, checkedAt time.Time) *MessageEnvelopeBuilder {
	b.envelope.Metadata.Idempotency = &IdempotencyInfo{IsUnique: unique, CheckedAt: checkedAt}
	return b
}

// Build stamps the current time when no timestamp was set.
func (b *MessageEnvelopeBuilder) Build() *MessageEnvelope {
	if b.envelope.Timestamp.IsZero() {
		b.envelope.Timestamp = time.Now().UTC()
	}
	return b.envelope
}
