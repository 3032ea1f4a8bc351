package domain

import "errors"

// ErrDuplicateStep is raised when a step name is opened twice and the builder rejects duplicates.
var ErrDuplicateStep = errors.New("duplicate step")

// ErrMalformedDispatch is returned when a dispatch parameter cannot be parsed.
var ErrMalformedDispatch = errors.New("malformed dispatch")

// ErrSheetNotFound is returned by sinks when a sheet has never been written.
var ErrSheetNotFound = errors.New("sheet not found")
