package dsl

import "github.com/aretw0/drama/pkg/domain"

// Condition is a predicate written into the if/if2 columns.
type Condition struct {
	expr     string
	mutation *domain.Mutation
}

// Flag builds a schema-checked condition "<key> <op> <value>".
// Enum variant names are resolved to ordinals when the condition is attached to a row.
func Flag(key string, op domain.Operator, value any) Condition {
	m := domain.Mutation{Flag: key, Op: domain.MutationCompare, Operator: op, Operand: value}
	return Condition{
		expr:     domain.IfFlag(key, op, value, "").String(),
		mutation: &m,
	}
}

// Raw passes an engine expression through unchecked (e.g. "hasItem(key_red)").
func Raw(expr string) Condition {
	return Condition{expr: expr}
}

// String returns the cell text.
func (c Condition) String() string {
	return c.expr
}

// IsZero reports whether the condition is empty.
func (c Condition) IsZero() bool {
	return c.expr == ""
}

// Text holds the localized variants of one line, in layout locale order.
type Text []string

// T builds a Text from variants in locale order.
func T(variants ...string) Text {
	return Text(variants)
}

type line struct {
	actor string
	id    string
	cond  Condition
	cond2 Condition
}

// LineOption configures a line or a choice.
type LineOption func(*line)

// As tags the line with a speaker.
func As(actor domain.Actor) LineOption {
	return func(l *line) {
		l.actor = actor.ID
	}
}

// ID sets the stable text id of a choice.
func ID(textID string) LineOption {
	return func(l *line) {
		l.id = textID
	}
}

// When shows the row only if c holds.
func When(c Condition) LineOption {
	return func(l *line) {
		l.cond = c
	}
}

// And adds a second, independently evaluated predicate.
func And(c Condition) LineOption {
	return func(l *line) {
		l.cond2 = c
	}
}
