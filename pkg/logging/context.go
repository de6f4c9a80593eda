package logging

import (
	"context"
)

type contextKey string

const (
	TraceIDKey       = "trace_id"
	MessageIDKey     = "message_id"
	ServiceNameKey   = "service_name"
	SubmissionIDKey  = "submission_id"
	IndicatorCodeKey = "indicator_code"
)

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, contextKey(TraceIDKey), traceID)
}

func WithMessageID(ctx context.Context, messageID string) context.Context {
	return context.WithValue(ctx, contextKey(MessageIDKey), messageID)
}

func WithServiceName(ctx context.Context, serviceName string) context.Context {
	return context.WithValue(ctx, contextKey(ServiceNameKey), serviceName)
}

func WithSubmissionID(ctx context.Context, submissionID string) context.Context {
	return context.WithValue(ctx, contextKey(SubmissionIDKey), submissionID)
}

func WithIndicatorCode(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, contextKey(IndicatorCodeKey), code)
}

func GetTraceID(ctx context.Context) string {
	return stringValue(ctx, TraceIDKey)
}

func GetMessageID(ctx context.Context) string {
	return stringValue(ctx, MessageIDKey)
}

func GetServiceName(ctx context.Context) string {
	return stringValue(ctx, ServiceNameKey)
}

func GetSubmissionID(ctx context.Context) string {
	return stringValue(ctx, SubmissionIDKey)
}

func GetIndicatorCode(ctx context.Context) string {
	return stringValue(ctx, IndicatorCodeKey)
}

func stringValue(ctx context.Context, key string) string {
	if v, ok := ctx.Value(contextKey(key)).(string); ok {
		return v
	}
	return ""
}

// GetLogFields returns the transport fields set on ctx (trace, message and
// service) as key/value pairs.
func GetLogFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0, 10)

	for _, key := range []string{TraceIDKey, MessageIDKey, ServiceNameKey} {
		if v := stringValue(ctx, key); v != "" {
			fields = append(fields, key, v)
		}
	}

	return fields
}

// GetEvaluationFields returns the submission and indicator being evaluated.
func GetEvaluationFields(ctx context.Context) []interface{} {
	var fields []interface{}
	if id := GetSubmissionID(ctx); id != "" {
		fields = append(fields, SubmissionIDKey, id)
	}
	if code := GetIndicatorCode(ctx); code != "" {
		fields = append(fields, IndicatorCodeKey, code)
	}
	return fields
}
