package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) Policy {
	return Policy{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2,
	}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastPolicy(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastPolicy(2), func() error {
		calls++
		return errors.New("always")
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetry_FatalErrorIsNotRetried(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastPolicy(5), func() error {
		calls++
		return NewFatalError(errors.New("bad schema"))
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithCallback_ReportsAttempts(t *testing.T) {
	var attempts []int
	_ = RetryWithCallback(context.Background(), fastPolicy(3), func() error {
		return errors.New("always")
	}, func(attempt int, err error, nextDelay time.Duration) {
		attempts = append(attempts, attempt)
		assert.LessOrEqual(t, nextDelay, 5*time.Millisecond)
	})

	assert.Equal(t, []int{1, 2}, attempts)
}

func TestPolicy_NextDelay(t *testing.T) {
	policy := Policy{InitialInterval: time.Second, MaxInterval: 5 * time.Second, Multiplier: 2}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 4*time.Second, policy.NextDelay(3))
	assert.Equal(t, 5*time.Second, policy.NextDelay(10))
	assert.Equal(t, time.Second, policy.NextDelay(0))
}

func TestPolicy_WithDefaults(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   Policy
	}{
		{
			name:   "zero policy",
			policy: Policy{},
			want:   Policy{MaxAttempts: 3, InitialInterval: time.Second, MaxInterval: 30 * time.Second, Multiplier: 2},
		},
		{
			name:   "max below initial",
			policy: Policy{MaxAttempts: 4, InitialInterval: time.Minute, MaxInterval: time.Second, Multiplier: 3},
			want:   Policy{MaxAttempts: 4, InitialInterval: time.Minute, MaxInterval: time.Minute, Multiplier: 3},
		},
		{
			name:   "shrinking multiplier",
			policy: Policy{MaxAttempts: 2, InitialInterval: time.Millisecond, MaxInterval: time.Second, Multiplier: 0.5},
			want:   Policy{MaxAttempts: 2, InitialInterval: time.Millisecond, MaxInterval: time.Second, Multiplier: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.withDefaults())
		})
	}
}

func TestRetry_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, Policy{MaxAttempts: 10, InitialInterval: time.Hour, MaxInterval: time.Hour, Multiplier: 2}, func() error {
		calls++
		cancel()
		return errors.New("broker unavailable")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
