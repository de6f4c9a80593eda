package rules

import (
	"errors"
	"fmt"
)

// CalculationEngineError reports a malformed calculation schema. Malformed
// response data never produces one.
type CalculationEngineError struct {
	Path    string
	Message string
}

func (e *CalculationEngineError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("calculation schema error: %s", e.Message)
	}
	return fmt.Sprintf("calculation schema error at %s: %s", e.Path, e.Message)
}

func schemaErrorf(path, format string, args ...interface{}) *CalculationEngineError {
	return &CalculationEngineError{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}

func IsCalculationEngineError(err error) bool {
	var engineErr *CalculationEngineError
	return errors.As(err, &engineErr)
}
