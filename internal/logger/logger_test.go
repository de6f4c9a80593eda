package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"sinag/pkg/logging"
)

func TestSugaredLogger_ContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := newWithCore(core, "validation-service")

	ctx := logging.WithTraceID(context.Background(), "trace-1")
	ctx = logging.WithSubmissionID(ctx, "sub-1")
	ctx = logging.WithIndicatorCode(ctx, "1.1.1")

	log.WarnwCtx(ctx, "Checklist item fails", "item_id", "budget")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, map[string]interface{}{
		"trace_id":       "trace-1",
		"service_name":   "validation-service",
		"submission_id":  "sub-1",
		"indicator_code": "1.1.1",
		"item_id":        "budget",
	}, entry.ContextMap())
}

func TestSugaredLogger_ContextServiceNameWins(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := newWithCore(core, "validation-service")

	ctx := logging.WithServiceName(context.Background(), "indicator-service")
	log.InfowCtx(ctx, "Indicator created")
	log.DebugwCtx(ctx, "below level")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "indicator-service", logs.All()[0].ContextMap()["service_name"])
}

func TestSugaredLogger_NoContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := newWithCore(core, "")

	log.ErrorwCtx(context.Background(), "Failed to publish evaluation result", "error", "broker down")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, map[string]interface{}{"error": "broker down"}, logs.All()[0].ContextMap())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{level: "debug", want: zapcore.DebugLevel},
		{level: "warn", want: zapcore.WarnLevel},
		{level: "error", want: zapcore.ErrorLevel},
		{level: "info", want: zapcore.InfoLevel},
		{level: "", want: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.level))
		})
	}
}

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		log, err := New("debug", format)
		require.NoError(t, err)
		assert.NotNil(t, log)
	}
}
