package cel

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvaluator(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)
	assert.NotNil(t, eval)
}

func TestValidateExpression(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	tests := []struct {
		name      string
		expr      string
		wantError bool
	}{
		{
			name:      "valid comparison",
			expr:      `data.status == "compliant"`,
			wantError: false,
		},
		{
			name:      "valid numeric comparison",
			expr:      `data.utilization_rate >= 75.0`,
			wantError: false,
		},
		{
			name:      "dyn field access",
			expr:      `data.has_ordinance`,
			wantError: false,
		},
		{
			name:      "non-bool expression",
			expr:      `"compliant"`,
			wantError: true,
		},
		{
			name:      "invalid syntax",
			expr:      `invalid syntax here!!!`,
			wantError: true,
		},
		{
			name:      "undefined variable",
			expr:      `payload.status == "x"`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := eval.ValidateExpression(tt.expr)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	ctx := context.Background()
	data := map[string]interface{}{
		"status":           "compliant",
		"utilization_rate": 80.0,
		"members":          []interface{}{"a", "b", "c"},
	}

	tests := []struct {
		name      string
		expr      string
		want      bool
		wantError bool
	}{
		{name: "string match", expr: `data.status == "compliant"`, want: true},
		{name: "threshold", expr: `data.utilization_rate >= 75.0`, want: true},
		{name: "threshold not met", expr: `data.utilization_rate > 90.0`, want: false},
		{name: "size", expr: `size(data.members) >= 3`, want: true},
		{name: "has guard on missing field", expr: `has(data.missing) && data.missing == 1`, want: false},
		{name: "missing field errors", expr: `data.missing == 1`, wantError: true},
		{name: "non-bool dyn result", expr: `data.status`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.Evaluate(ctx, tt.expr, data)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_CachesPrograms(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	ctx := context.Background()
	expr := `data.count > 1`

	for i := 0; i < 3; i++ {
		got, err := eval.Evaluate(ctx, expr, map[string]interface{}{"count": i})
		require.NoError(t, err)
		assert.Equal(t, i > 1, got)
	}

	assert.Equal(t, 1, eval.CachedPrograms())
}

func TestEvaluate_NilData(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	got, err := eval.Evaluate(context.Background(), `!has(data.status)`, nil)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEvaluate_CacheIsBounded(t *testing.T) {
	eval, err := NewEvaluator(WithCacheSize(2))
	require.NoError(t, err)

	ctx := context.Background()
	data := map[string]interface{}{"count": 5}

	for i := 0; i < 10; i++ {
		got, err := eval.Evaluate(ctx, fmt.Sprintf("data.count > %d", i), data)
		require.NoError(t, err)
		assert.Equal(t, 5 > i, got)
		assert.LessOrEqual(t, eval.CachedPrograms(), 2)
	}
	assert.Equal(t, 2, eval.CachedPrograms())
}

func TestEvaluate_EvictsLeastRecentlyUsed(t *testing.T) {
	eval, err := NewEvaluator(WithCacheSize(2))
	require.NoError(t, err)

	ctx := context.Background()
	data := map[string]interface{}{"count": 1}

	_, err = eval.Evaluate(ctx, `data.count == 1`, data)
	require.NoError(t, err)
	_, err = eval.Evaluate(ctx, `data.count == 2`, data)
	require.NoError(t, err)
	_, err = eval.Evaluate(ctx, `data.count == 1`, data)
	require.NoError(t, err)
	_, err = eval.Evaluate(ctx, `data.count == 3`, data)
	require.NoError(t, err)

	eval.mu.Lock()
	_, keptRecent := eval.programs[`data.count == 1`]
	_, keptStale := eval.programs[`data.count == 2`]
	eval.mu.Unlock()
	assert.True(t, keptRecent)
	assert.False(t, keptStale)
}

func TestCompileExpression(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	program, err := eval.CompileExpression(`data.count > 1`)
	require.NoError(t, err)
	assert.NotNil(t, program)

	_, err = eval.CompileExpression(`"text"`)
	assert.ErrorContains(t, err, "expression must return bool")

	_, err = eval.CompileExpression(`data.count >`)
	assert.ErrorContains(t, err, "validation failed")
	assert.Equal(t, 0, eval.CachedPrograms(), "compiling does not populate the cache")
}
