package types

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every configuration error
var ErrInvalidConfig = errors.New("invalid query configuration")

// ConfigError reports a schema or configuration mistake: an undeclared
// field, an operator that does not apply to a field type, a bad page size.
// These are programming errors and are raised when a configuration is
// compiled, never while evaluating records.
type ConfigError struct {
	Component string // filter, sort, pagination, search, field, column, view
	Field     string
	Msg       string
	Err       error
}

// NewConfigError builds a ConfigError with a formatted message
func NewConfigError(component, field, format string, args ...any) *ConfigError {
	return &ConfigError{
		Component: component,
		Field:     field,
		Msg:       fmt.Sprintf(format, args...),
	}
}

func (e *ConfigError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = ErrInvalidConfig.Error()
	}

	switch {
	case e.Component != "" && e.Field != "":
		return fmt.Sprintf("%s: field %q: %s", e.Component, e.Field, msg)
	case e.Component != "":
		return fmt.Sprintf("%s: %s", e.Component, msg)
	case e.Field != "":
		return fmt.Sprintf("field %q: %s", e.Field, msg)
	default:
		return msg
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidConfig) hold for every ConfigError
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// IsConfigError reports whether err is, or wraps, a configuration error
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}
