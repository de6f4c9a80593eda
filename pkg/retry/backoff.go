package retry

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// withDefaults fills zero or negative fields from DefaultPolicy. MaxElapsedTime
// stays zero when unset, meaning only MaxAttempts bounds the retries.
func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = def.InitialInterval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = def.MaxInterval
	}
	if p.MaxInterval < p.InitialInterval {
		p.MaxInterval = p.InitialInterval
	}
	if p.Multiplier < 1 {
		p.Multiplier = def.Multiplier
	}
	if p.MaxElapsedTime < 0 {
		p.MaxElapsedTime = 0
	}
	return p
}

// backOff builds the jittered exponential schedule for p, stopped by ctx and
// by MaxAttempts.
func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.MaxInterval = p.MaxInterval
	exp.Multiplier = p.Multiplier
	exp.MaxElapsedTime = p.MaxElapsedTime
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(p.MaxAttempts-1)), ctx)
}

// NextDelay is the nominal wait after the given failed attempt, before jitter.
func (p Policy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	duration := float64(p.InitialInterval) * math.Pow(p.Multiplier, float64(attempt-1))
	if duration > float64(p.MaxInterval) {
		return p.MaxInterval
	}
	return time.Duration(duration)
}
