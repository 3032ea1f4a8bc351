package dsl

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/drama/internal/validator"
	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/flags"
	"github.com/aretw0/drama/pkg/table"
)

// Builder manages the construction of one drama graph.
// It is not safe for concurrent use; the flag registry it reads may be shared.
type Builder struct {
	name      string
	registry  *flags.Registry
	logger    *slog.Logger
	layout    table.Layout
	entryStep string
	builtins  []string
	policy    DuplicatePolicy

	steps      []*StepScope
	declared   map[domain.Label]bool
	labels     map[domain.Label]bool
	violations []error
}

// New creates a new graph builder. The name identifies the graph in logs
// and is used as the sheet name when the table is written.
func New(name string, opts ...Option) *Builder {
	b := &Builder{
		name:      name,
		layout:    table.DefaultLayout(),
		entryStep: domain.DefaultEntryStep,
		builtins:  domain.DefaultBuiltinTargets(),
		declared:  make(map[domain.Label]bool),
		labels:    make(map[domain.Label]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.registry == nil {
		b.registry = flags.NewRegistry(flags.DefaultNamespace)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b.logger = b.logger.With("graph", name)
	return b
}

// Name returns the graph name.
func (b *Builder) Name() string {
	return b.name
}

// Registry returns the flag schema used for validation.
func (b *Builder) Registry() *flags.Registry {
	return b.registry
}

// EntryStep returns the step the engine enters first.
func (b *Builder) EntryStep() domain.Label {
	return domain.Label(b.entryStep)
}

// Label declares a forward reference to a step that may be opened later.
func (b *Builder) Label(name string) domain.Label {
	l := domain.Label(name)
	b.labels[l] = true
	return l
}

// Has reports whether a step with this name was opened.
func (b *Builder) Has(l domain.Label) bool {
	return b.declared[l]
}

// Step closes the previous step and opens a new one.
// The returned scope is the only way to emit rows into the step. Scopes stay
// writable after a later Step call: their rows are grouped under their own
// marker, so call order is preserved within a step and steps keep opening order.
// Macros rely on this to fill a dispatcher after building the steps it targets.
// Opening an existing name either duplicates it (AllowDuplicates, reported by
// the validator) or panics with domain.ErrDuplicateStep (RejectDuplicates).
func (b *Builder) Step(l domain.Label) *StepScope {
	if b.declared[l] && b.policy == RejectDuplicates {
		panic(fmt.Errorf("%w: %s", domain.ErrDuplicateStep, l))
	}
	b.declared[l] = true

	s := &StepScope{
		b:       b,
		name:    l,
		entries: []domain.Entry{{Step: string(l)}},
	}
	b.steps = append(b.steps, s)
	return s
}

// Entries returns the accumulated rows: steps in opening order, rows in call order within each step.
// Rows written to an earlier scope are grouped under that scope's marker.
func (b *Builder) Entries() []domain.Entry {
	n := 0
	for _, s := range b.steps {
		n += len(s.entries)
	}
	out := make([]domain.Entry, 0, n)
	for _, s := range b.steps {
		out = append(out, s.entries...)
	}
	return out
}

// Violations returns the flag-schema and malformed-dispatch violations recorded so far.
func (b *Builder) Violations() []error {
	return append([]error(nil), b.violations...)
}

// Finalize validates the graph and returns the result.
// It never fails: structural defects and schema violations are reported in the Result.
func (b *Builder) Finalize() *Result {
	entries := b.Entries()
	warnings := validator.Validate(entries, validator.Options{
		EntryStep: b.entryStep,
		Builtins:  b.builtins,
	})

	for _, w := range warnings {
		b.logger.Warn("Structural defect", "kind", w.Kind, "subject", w.Subject(), "row", w.Row)
	}
	for l := range b.labels {
		if !b.declared[l] {
			b.logger.Debug("Label never opened", "label", l)
		}
	}
	b.logger.Debug("Graph finalized", "steps", len(b.steps), "rows", len(entries), "warnings", len(warnings), "violations", len(b.violations))

	return &Result{
		Graph:      b.name,
		Entries:    entries,
		Warnings:   warnings,
		Violations: b.Violations(),
		Layout:     b.layout,
	}
}

// dispatch renders d, recording a violation when its operands would not read back.
func (b *Builder) dispatch(step domain.Label, d domain.Dispatch) string {
	if err := d.Check(); err != nil {
		b.logger.Warn("Malformed dispatch", "step", step, "error", err)
		b.violations = append(b.violations, fmt.Errorf("step %s: %w", step, err))
	}
	return d.String()
}

// check validates a flag instruction; violations are logged and recorded, never fatal.
func (b *Builder) check(step domain.Label, m domain.Mutation) {
	for _, err := range b.registry.ValidateMutation(m) {
		b.logger.Warn("Flag schema violation", "step", step, "flag", m.Flag, "op", m.Op, "error", err)
		b.violations = append(b.violations, err)
	}
}
