package macro

import "errors"

var (
	// ErrUnknownMacro is returned when a scenario names a macro kind that is not registered.
	ErrUnknownMacro = errors.New("unknown macro")
	// ErrInvalidInput is returned when a macro definition is missing required fields.
	ErrInvalidInput = errors.New("invalid macro input")
)
