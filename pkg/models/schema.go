package models

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid message field '%s': %s", e.Field, e.Message)
}

// ValidateMessageEnvelope checks the envelope fields every consumer relies on
// and that the payload carries the required keys.
func ValidateMessageEnvelope(msg *MessageEnvelope, requiredPayload ...string) error {
	if msg == nil {
		return &ValidationError{Field: "envelope", Message: "message envelope cannot be nil"}
	}
	if strings.TrimSpace(msg.ID) == "" {
		return &ValidationError{Field: "id", Message: "message ID is required"}
	}
	if msg.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Message: "message timestamp is required"}
	}
	if msg.Payload == nil {
		return &ValidationError{Field: "payload", Message: "message payload cannot be nil"}
	}

	for _, field := range requiredPayload {
		value, ok := msg.Payload[field]
		if !ok || value == nil {
			return &ValidationError{Field: "payload." + field, Message: "field is required"}
		}
	}
	return nil
}
