// Package validator statically checks a finalized drama for structural defects.
//
// Every finding is a warning: the graph is still serialized so authors can keep
// iterating, and the calling layer decides whether warnings fail a build.
package validator

import (
	"github.com/aretw0/drama/pkg/domain"
)

// Options configures the structural checks.
type Options struct {
	// EntryStep is never reported as an orphan. Defaults to domain.DefaultEntryStep.
	EntryStep string
	// Builtins are engine-native targets that are never reported as undefined.
	// Defaults to domain.DefaultBuiltinTargets.
	Builtins []string
}

type stepState struct {
	name       string
	row        int
	terminated bool // jump, choice, cancel or end seen
	fallback   bool // exclusive dispatch with a fallback seen
	closed     bool // later rows in the step can never run
	cancels    int
	unreached  bool // unreachable rows already reported
}

type reference struct {
	target string
	step   string
	row    int
}

// Validate walks entries once, in order, then aggregates references.
// Warnings are ordered: per-step findings in row order, then orphan steps in
// declaration order, then undefined targets in first-reference order.
func Validate(entries []domain.Entry, opts Options) []domain.Warning {
	if opts.EntryStep == "" {
		opts.EntryStep = domain.DefaultEntryStep
	}
	if opts.Builtins == nil {
		opts.Builtins = domain.DefaultBuiltinTargets()
	}

	var warnings []domain.Warning
	declared := make(map[string]int)
	var declOrder []string
	referenced := make(map[string]bool)
	var refs []reference

	var cur *stepState
	finish := func() {
		if cur != nil && !cur.terminated && !cur.fallback {
			warnings = append(warnings, domain.Warning{Kind: domain.WarningNoTerminator, Step: cur.name, Row: cur.row})
		}
	}

	// 1. Linear pass
	for i, e := range entries {
		kind := e.Kind()

		if kind == domain.KindMarker {
			finish()
			if _, dup := declared[e.Step]; dup {
				warnings = append(warnings, domain.Warning{Kind: domain.WarningDuplicateStep, Step: e.Step, Row: i})
			} else {
				declared[e.Step] = i
				declOrder = append(declOrder, e.Step)
			}
			cur = &stepState{name: e.Step, row: i}
			continue
		}

		stepName := ""
		if cur == nil {
			// Rows before the first marker belong to no step.
			warnings = append(warnings, domain.Warning{Kind: domain.WarningUnreachableEntry, Row: i})
		} else {
			stepName = cur.name
			if cur.closed && !cur.unreached {
				cur.unreached = true
				warnings = append(warnings, domain.Warning{Kind: domain.WarningUnreachableEntry, Step: cur.name, Row: i})
			}
			inspect(cur, e, kind, i, &warnings)
		}

		for _, t := range e.Targets() {
			if !referenced[t] {
				referenced[t] = true
				refs = append(refs, reference{target: t, step: stepName, row: i})
			}
		}
	}
	finish()

	// 2. Aggregation
	for _, name := range declOrder {
		if name == opts.EntryStep || domain.Label(name).IsChild() || referenced[name] {
			continue
		}
		warnings = append(warnings, domain.Warning{Kind: domain.WarningOrphanStep, Step: name, Row: declared[name]})
	}

	builtins := make(map[string]bool, len(opts.Builtins))
	for _, b := range opts.Builtins {
		builtins[b] = true
	}
	for _, ref := range refs {
		if _, ok := declared[ref.target]; ok || builtins[ref.target] {
			continue
		}
		warnings = append(warnings, domain.Warning{Kind: domain.WarningUndefinedTarget, Step: ref.step, Target: ref.target, Row: ref.row})
	}

	return warnings
}

// inspect updates the termination state of the current step for one row.
func inspect(cur *stepState, e domain.Entry, kind domain.EntryKind, row int, warnings *[]domain.Warning) {
	switch kind {
	case domain.KindJump, domain.KindEnd:
		cur.terminated = true
		cur.closed = true
	case domain.KindChoice:
		cur.terminated = true
	case domain.KindCancel:
		cur.terminated = true
		cur.cancels++
		if cur.cancels == 2 {
			*warnings = append(*warnings, domain.Warning{Kind: domain.WarningDuplicateCancel, Step: cur.name, Row: row})
		}
	case domain.KindDispatch:
		d, err := domain.ParseDispatch(e.Param)
		if err != nil {
			// Its targets are unknown, so reference checks cannot cover this row.
			*warnings = append(*warnings, domain.Warning{Kind: domain.WarningMalformedDispatch, Step: cur.name, Row: row})
			return
		}
		if d.HasFallback() {
			cur.fallback = true
			cur.closed = true
		}
	}
}

// Count groups warnings by kind.
func Count(warnings []domain.Warning) map[domain.WarningKind]int {
	out := make(map[domain.WarningKind]int)
	for _, w := range warnings {
		out[w.Kind]++
	}
	return out
}
