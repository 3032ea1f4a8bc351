package dsl

import (
	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/flags"
	"github.com/aretw0/drama/pkg/table"
)

// Result is a finalized graph: its rows and everything worth reporting about them.
// Warnings and violations never prevent serialization.
type Result struct {
	Graph      string
	Entries    []domain.Entry
	Warnings   []domain.Warning
	Violations []error
	Layout     table.Layout
}

// Table serializes the entries with the builder's layout.
func (r *Result) Table() *table.Table {
	return table.Encode(r.Entries, r.Layout)
}

// Clean reports whether the graph has neither warnings nor violations.
func (r *Result) Clean() bool {
	return len(r.Warnings) == 0 && len(r.Violations) == 0
}

// Err aggregates schema violations, or returns nil.
func (r *Result) Err() error {
	return flags.Join(r.Violations)
}

// WarningsOf filters warnings by kind.
func (r *Result) WarningsOf(kind domain.WarningKind) []domain.Warning {
	var out []domain.Warning
	for _, w := range r.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}
