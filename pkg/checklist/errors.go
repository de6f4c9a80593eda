package checklist

import (
	"errors"
	"fmt"
)

// ConfigError reports a malformed checklist configuration.
type ConfigError struct {
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("checklist config error: %s", e.Message)
	}
	return fmt.Sprintf("checklist config error at %s: %s", e.Path, e.Message)
}

func configErrorf(path, format string, args ...interface{}) *ConfigError {
	return &ConfigError{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}

func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}
