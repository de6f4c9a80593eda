package errors

import (
	"context"
	"fmt"
	"runtime/debug"

	"sinag/pkg/logging"
)

// RecoverPanic converts a recovered panic value into a fatal ErrInternal with
// the stack trace. The submission and indicator under evaluation, when ctx
// carries them, are attached so the dead-lettered message can be traced back.
func RecoverPanic(ctx context.Context, r interface{}) error {
	if r == nil {
		return nil
	}

	var cause error
	switch v := r.(type) {
	case error:
		cause = fmt.Errorf("panic: %w", v)
	default:
		cause = fmt.Errorf("panic: %v", v)
	}

	err := ErrInternal.
		WithCause(cause).
		WithDetail("panic", true).
		WithDetail("stack_trace", string(debug.Stack()))
	if id := logging.GetSubmissionID(ctx); id != "" {
		err = err.WithDetail(logging.SubmissionIDKey, id)
	}
	if code := logging.GetIndicatorCode(ctx); code != "" {
		err = err.WithDetail(logging.IndicatorCodeKey, code)
	}
	return err.AsFatal()
}
