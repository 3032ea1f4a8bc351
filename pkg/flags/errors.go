package flags

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey is returned when a key is registered twice.
	ErrDuplicateKey = errors.New("duplicate flag key")
	// ErrNotFound is returned by Lookup for keys that were never registered.
	ErrNotFound = errors.New("flag not found")
	// ErrInvalidDefinition is returned for definitions that cannot hold any value.
	ErrInvalidDefinition = errors.New("invalid flag definition")

	// ErrUnknownFlag marks a managed key missing from the schema.
	ErrUnknownFlag = errors.New("unknown flag")
	// ErrRange marks a value outside the flag's domain.
	ErrRange = errors.New("out of range")
	// ErrType marks a value of the wrong type for the flag's kind.
	ErrType = errors.New("wrong type")
)

// ValidationError represents a single flag usage that violates the schema.
type ValidationError struct {
	Key    string // Flag key
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
	Err    error  // One of ErrUnknownFlag, ErrRange, ErrType
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("flag %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("flag %q: %s (got %v)", e.Key, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d flag violations:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Join wraps errs in an AggregateError, or returns nil when errs is empty.
func Join(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
