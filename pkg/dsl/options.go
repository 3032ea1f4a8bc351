package dsl

import (
	"log/slog"

	"github.com/aretw0/drama/pkg/flags"
	"github.com/aretw0/drama/pkg/table"
)

// DuplicatePolicy decides what happens when a step name is opened twice.
type DuplicatePolicy int

const (
	// AllowDuplicates keeps both steps and lets the validator report them.
	AllowDuplicates DuplicatePolicy = iota
	// RejectDuplicates panics with domain.ErrDuplicateStep at the second Step call.
	RejectDuplicates
)

// Option defines a functional option for configuring the Builder.
type Option func(*Builder)

// WithRegistry sets the flag schema mutations and conditions are checked against.
func WithRegistry(reg *flags.Registry) Option {
	return func(b *Builder) {
		b.registry = reg
	}
}

// WithLogger sets a custom structured logger for schema violations and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithLayout sets the table layout (text locales and data offset).
func WithLayout(layout table.Layout) Option {
	return func(b *Builder) {
		b.layout = layout
	}
}

// WithEntryStep configures the step the engine enters first (default: "main").
func WithEntryStep(name string) Option {
	return func(b *Builder) {
		b.entryStep = name
	}
}

// WithBuiltinTargets whitelists additional engine-native targets.
func WithBuiltinTargets(names ...string) Option {
	return func(b *Builder) {
		b.builtins = append(b.builtins, names...)
	}
}

// WithDuplicateSteps sets the duplicate step policy.
func WithDuplicateSteps(policy DuplicatePolicy) Option {
	return func(b *Builder) {
		b.policy = policy
	}
}
