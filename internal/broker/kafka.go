package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"sinag/internal/config"
	"sinag/internal/constants"
	"sinag/internal/logger"
	"sinag/pkg/errors"
	"sinag/pkg/logging"
	"sinag/pkg/metrics"
	"sinag/pkg/models"
	"sinag/pkg/retry"
	"sinag/pkg/tracing"
)

const (
	dlqReasonRetriesExhausted = "max_retries_exceeded"
	dlqReasonFatal            = "fatal_error"
	dlqReasonUndecodable      = "undecodable"
)

type KafkaProducer struct {
	writer      *kafka.Writer
	logger      logger.Logger
	serviceName string
}

func NewKafkaProducer(cfg config.KafkaConfig, log logger.Logger) *KafkaProducer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           constants.KafkaBatchTimeout,
		WriteTimeout:           constants.KafkaWriteTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &KafkaProducer{writer: w, logger: log, serviceName: "unknown"}
}

func (p *KafkaProducer) SetServiceName(name string) {
	p.serviceName = name
}

// Publish writes msg keyed by its ID, so every message for one submission
// lands on the same partition.
func (p *KafkaProducer) Publish(ctx context.Context, topic string, msg models.MessageEnvelope) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	start := time.Now()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic:   topic,
		Key:     []byte(msg.ID),
		Value:   body,
		Headers: tracing.InjectTraceContext(ctx, nil),
		Time:    start,
	})
	if err != nil {
		return fmt.Errorf("failed to write kafka message to %s: %w", topic, err)
	}

	metrics.IncKafkaMessagesWritten(p.serviceName, topic)
	metrics.ObserveKafkaWriteDuration(p.serviceName, topic, time.Since(start))
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

type KafkaConsumer struct {
	cfg         config.KafkaConfig
	wg          sync.WaitGroup
	mu          sync.Mutex
	readers     []*kafka.Reader
	logger      logger.Logger
	dlqProducer Producer
	serviceName string
}

func NewKafkaConsumer(cfg config.KafkaConfig, log logger.Logger) *KafkaConsumer {
	consumer := &KafkaConsumer{
		cfg:         cfg,
		logger:      log,
		serviceName: "unknown",
	}

	if cfg.DLQTopic != "" {
		consumer.dlqProducer = NewKafkaProducer(cfg, log)
	}

	return consumer
}

func (c *KafkaConsumer) SetServiceName(name string) {
	c.serviceName = name
	if named, ok := c.dlqProducer.(interface{ SetServiceName(string) }); ok {
		named.SetServiceName(name)
	}
}

// Consume reads topic until ctx is done. Each message is handled with retries;
// messages that still fail, or fail fatally, go to the DLQ and are committed
// so one bad submission never blocks the partition.
func (c *KafkaConsumer) Consume(ctx context.Context, topic string, handler HandlerFunc) error {
	consumeCtx := logging.WithServiceName(ctx, c.serviceName)
	c.logger.InfowCtx(consumeCtx, "Creating Kafka reader",
		"topic", topic,
		"brokers", c.cfg.Brokers,
		"group_id", c.cfg.GroupID,
	)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.cfg.Brokers,
		GroupID:  c.cfg.GroupID,
		Topic:    topic,
		MinBytes: constants.KafkaMinBytes,
		MaxBytes: constants.KafkaMaxBytes,
	})
	c.mu.Lock()
	c.readers = append(c.readers, reader)
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.logger.InfowCtx(consumeCtx, "Started consuming", "topic", topic)

		for {
			m, err := reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.logger.InfowCtx(consumeCtx, "Stopped consuming",
						"topic", topic,
						"reason", "context canceled",
					)
					return
				}
				c.logger.ErrorwCtx(consumeCtx, "Error fetching kafka message",
					"error", err,
					"topic", topic,
				)
				time.Sleep(time.Second)
				continue
			}

			metrics.IncKafkaMessagesRead(c.serviceName, topic)
			c.handleMessage(ctx, m, handler, topic)

			if err := reader.CommitMessages(ctx, m); err != nil {
				c.logger.ErrorwCtx(consumeCtx, "Failed to commit message",
					"error", err,
					"topic", topic,
					"offset", m.Offset,
				)
			}
		}
	}()

	<-ctx.Done()
	return ctx.Err()
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, m kafka.Message, handler HandlerFunc, topic string) {
	msgCtx, span := tracing.StartConsumerSpan(ctx, topic, m)
	defer span.End()
	msgCtx = logging.WithServiceName(msgCtx, c.serviceName)

	var envelope models.MessageEnvelope
	if err := json.Unmarshal(m.Value, &envelope); err != nil {
		c.logger.ErrorwCtx(msgCtx, "Failed to unmarshal message",
			"error", err,
			"topic", topic,
			"offset", m.Offset,
		)
		undecodable := *models.NewMessageEnvelopeBuilder().
			WithID(string(m.Key)).
			WithSource(topic).
			WithPayload(map[string]interface{}{"raw": string(m.Value)}).
			Build()
		c.deadLetter(msgCtx, undecodable, err, topic, dlqReasonUndecodable)
		return
	}

	if envelope.Metadata.TraceID != "" {
		msgCtx = logging.WithTraceID(msgCtx, envelope.Metadata.TraceID)
	}
	msgCtx = logging.WithMessageID(msgCtx, envelope.ID)
	if id, ok := envelope.Payload["submission_id"].(string); ok && id != "" {
		msgCtx = logging.WithSubmissionID(msgCtx, id)
	}
	if code, ok := envelope.Payload["indicator_code"].(string); ok && code != "" {
		msgCtx = logging.WithIndicatorCode(msgCtx, code)
	}

	if err := c.processMessageWithRetry(msgCtx, envelope, handler, topic); err != nil {
		tracing.RecordError(span, err)
		reason := dlqReasonRetriesExhausted
		if errors.IsFatal(err) {
			reason = dlqReasonFatal
		}
		c.logger.ErrorwCtx(msgCtx, "Failed to process message",
			"error", err,
			"topic", topic,
			"reason", reason,
		)
		c.deadLetter(msgCtx, envelope, err, topic, reason)
	}
}

func (c *KafkaConsumer) deadLetter(ctx context.Context, envelope models.MessageEnvelope, cause error, topic, reason string) {
	if c.dlqProducer == nil || c.cfg.DLQTopic == "" {
		c.logger.WarnwCtx(ctx, "No DLQ configured, dropping message", "topic", topic)
		return
	}
	if err := c.sendToDLQ(ctx, envelope, cause, topic, reason); err != nil {
		c.logger.ErrorwCtx(ctx, "Failed to send message to DLQ",
			"error", err,
			"topic", topic,
		)
	}
}

func (c *KafkaConsumer) Close() error {
	c.mu.Lock()
	readers := c.readers
	c.readers = nil
	c.mu.Unlock()

	var err error
	for _, reader := range readers {
		if closeErr := reader.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	if c.dlqProducer != nil {
		if closeErr := c.dlqProducer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	c.wg.Wait()
	return err
}

// retryPolicy overlays the configured retry settings on retry.DefaultPolicy.
func retryPolicy(cfg config.RetryConfig) retry.Policy {
	policy := retry.DefaultPolicy()
	if cfg.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.InitialInterval > 0 {
		policy.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		policy.MaxInterval = cfg.MaxInterval
	}
	if cfg.Multiplier > 0 {
		policy.Multiplier = cfg.Multiplier
	}
	if cfg.MaxElapsedTime > 0 {
		policy.MaxElapsedTime = cfg.MaxElapsedTime
	}
	return policy
}

func (c *KafkaConsumer) processMessageWithRetry(ctx context.Context, envelope models.MessageEnvelope, handler HandlerFunc, topic string) error {
	policy := retryPolicy(c.cfg.Retry)

	return retry.RetryWithCallback(ctx, policy, func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.RecoverPanic(ctx, r)
				c.logger.ErrorwCtx(ctx, "Panic recovered during message processing",
					"error", err,
					"topic", topic,
				)
			}
		}()
		return handler(ctx, envelope)
	}, func(attempt int, err error, nextDelay time.Duration) {
		metrics.RetryAttemptsTotal.WithLabelValues(c.serviceName, topic).Inc()
		c.logger.WarnwCtx(ctx, "Retrying message processing",
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"next_delay", nextDelay,
			"error", err,
			"topic", topic,
		)
	})
}

func (c *KafkaConsumer) sendToDLQ(ctx context.Context, envelope models.MessageEnvelope, originalErr error, sourceTopic, reason string) error {
	dlq := make(map[string]interface{}, len(envelope.Metadata.DLQ)+4)
	for k, v := range envelope.Metadata.DLQ {
		dlq[k] = v
	}
	dlq["reason"] = reason
	dlq["error"] = originalErr.Error()
	dlq["source_topic"] = sourceTopic
	dlq["timestamp"] = time.Now().UTC()
	envelope.Metadata.DLQ = dlq

	if err := c.dlqProducer.Publish(ctx, c.cfg.DLQTopic, envelope); err != nil {
		return fmt.Errorf("failed to publish to DLQ: %w", err)
	}

	metrics.DLQMessagesTotal.WithLabelValues(c.serviceName, sourceTopic, reason).Inc()
	c.logger.InfowCtx(ctx, "Message sent to DLQ",
		"source_topic", sourceTopic,
		"dlq_topic", c.cfg.DLQTopic,
		"reason", reason,
	)
	return nil
}
