package broker

import (
	"context"

	"sinag/pkg/models"
)

type Producer interface {
	Publish(ctx context.Context, topic string, msg models.MessageEnvelope) error
	Close() error
}

type Consumer interface {
	Consume(ctx context.Context, topic string, handler HandlerFunc) error
	Close() error
	SetServiceName(name string)
}

// HandlerFunc processes one message. Returning an error whose IsFatal reports
// true skips the remaining retries.
type HandlerFunc func(ctx context.Context, msg models.MessageEnvelope) error
