package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventBuild EventType = "build"
	EventWrite EventType = "write"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Graph     string    `json:"graph"`
}

// BuildEvent reports a finalized graph.
type BuildEvent struct {
	EventBase
	EntryStep  string        `json:"entry_step,omitempty"`
	Rows       int           `json:"rows"`
	Warnings   []Warning     `json:"warnings,omitempty"`
	Violations int           `json:"violations"`
	Duration   time.Duration `json:"duration"`
}

// WriteEvent reports one sink write.
type WriteEvent struct {
	EventBase
	Sink string `json:"sink"`
	// Changes is the number of rows that differ from the stored sheet, or -1 when unknown.
	Changes int `json:"changes"`
	// Skipped is set when the stored sheet was already identical.
	Skipped  bool          `json:"skipped,omitempty"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for compiler observability.
type LifecycleHooks struct {
	OnBuild func(context.Context, *BuildEvent)
	OnWrite func(context.Context, *WriteEvent)
}
