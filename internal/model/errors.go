package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for setup-time failures.
var (
	// ErrInvalidConfiguration is returned for malformed input: bad dimensions,
	// unknown or duplicate components, non-finite weights, unbounded budgets.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInfeasibleInput is returned when the configuration is well formed but
	// no layout can possibly satisfy the hard constraints.
	ErrInfeasibleInput = errors.New("infeasible input")
)

// ValidationError pins an invalid configuration to the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfiguration, e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InfeasibleError wraps ErrInfeasibleInput with the reason.
func InfeasibleError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInfeasibleInput, fmt.Sprintf(format, args...))
}
