package sim

import (
	"errors"
	"fmt"
)

// ErrRunComplete is returned by Tick when every admitted process has
// already terminated.
var ErrRunComplete = errors.New("simulation already complete")

// A ValidationError reports malformed simulation input, such as a bad
// execution pattern or a duplicated PID. It is always raised before any
// engine state is mutated.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Reason
}

// NewValidationError formats a reason into a ValidationError.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// A ConfigurationError reports an out-of-range engine parameter.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

// NewConfigurationError formats a reason into a ConfigurationError.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
