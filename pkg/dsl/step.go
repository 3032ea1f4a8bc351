package dsl

import (
	"fmt"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/table"
)

// StepScope emits rows into one step. All methods return the scope for chaining.
type StepScope struct {
	b       *Builder
	name    domain.Label
	version string
	entries []domain.Entry
}

// Name returns the step's label.
func (s *StepScope) Name() domain.Label {
	return s.name
}

// Child derives the label of an auto-generated child step ("parent/suffix").
// Child steps are exempt from orphan detection.
func (s *StepScope) Child(suffix string) domain.Label {
	return s.b.Label(string(s.name.Child(suffix)))
}

// Version tags the following rows of this step with a content version.
func (s *StepScope) Version(tag string) *StepScope {
	s.version = tag
	return s
}

// Say emits a line of dialogue. It never transfers control.
func (s *StepScope) Say(textID string, text Text, opts ...LineOption) *StepScope {
	l := s.line(opts)
	s.add(domain.Entry{
		ID:    textID,
		Actor: l.actor,
		If:    l.cond.String(),
		If2:   l.cond2.String(),
		Text:  s.text(text),
	})
	return s
}

// Choice emits an option leading to target. Choices of one step are siblings
// shown together, not alternatives evaluated in sequence.
func (s *StepScope) Choice(target domain.Label, prompt Text, opts ...LineOption) *StepScope {
	l := s.line(opts)
	s.add(domain.Entry{
		Action: domain.ActionChoice,
		Jump:   string(target),
		ID:     l.id,
		Actor:  l.actor,
		If:     l.cond.String(),
		If2:    l.cond2.String(),
		Text:   s.text(prompt),
	})
	return s
}

// Jump transfers control unconditionally. Rows after it in the same step never run.
func (s *StepScope) Jump(target domain.Label) *StepScope {
	s.add(domain.Entry{Jump: string(target)})
	return s
}

// OnCancel sets the edge taken when the choice set is dismissed.
// A second handler in the same step is kept and reported by the validator.
func (s *StepScope) OnCancel(target domain.Label) *StepScope {
	s.add(domain.Entry{Action: domain.ActionCancel, Jump: string(target)})
	return s
}

// BranchIf emits a conditional jump. Consecutive calls form an if/else-if chain
// because the engine evaluates rows in order and takes the first match.
func (s *StepScope) BranchIf(flag string, op domain.Operator, value any, target domain.Label) *StepScope {
	s.b.check(s.name, domain.Mutation{Flag: flag, Op: domain.MutationCompare, Operator: op, Operand: value})
	d := domain.IfFlag(flag, op, s.b.registry.Normalize(flag, value), string(target))
	s.add(domain.Entry{
		Action: domain.ActionDispatch,
		Param:  s.b.dispatch(s.name, d),
	})
	return s
}

// SwitchFlag emits an exclusive dispatch: jump to targets[value], or to fallback
// when the value has no case. With a fallback the step is considered terminated.
func (s *StepScope) SwitchFlag(flag string, targets []domain.Label, fallback domain.Label) *StepScope {
	if len(targets) > 0 {
		// The highest case must be a legal value of the flag.
		s.b.check(s.name, domain.Mutation{Flag: flag, Op: domain.MutationCompare, Operator: domain.OpEq, Operand: len(targets) - 1})
	}
	cases := make([]string, len(targets))
	for i, t := range targets {
		cases[i] = string(t)
	}
	s.add(domain.Entry{
		Action: domain.ActionDispatch,
		Param:  s.b.dispatch(s.name, domain.SwitchFlag(flag, cases, string(fallback))),
	})
	return s
}

// SetFlag assigns a flag. Enum variants may be given by name; they are written as ordinals.
func (s *StepScope) SetFlag(key string, value any) *StepScope {
	m := domain.Mutation{Flag: key, Op: domain.MutationSet, Operand: value}
	s.b.check(s.name, m)
	m.Operand = s.b.registry.Normalize(key, value)
	s.add(domain.Entry{Action: domain.ActionSetFlag, Param: m.Param()})
	return s
}

// IncrementFlag modifies an int flag by amount; op is domain.OpAdd or domain.OpSub.
func (s *StepScope) IncrementFlag(key string, op domain.Operator, amount int) *StepScope {
	m := domain.Mutation{Flag: key, Op: domain.MutationIncrement, Operator: op, Operand: amount}
	s.b.check(s.name, m)
	s.add(domain.Entry{Action: domain.ActionModFlag, Param: m.Param()})
	return s
}

// Invoke emits an engine action that does not affect control flow (e.g. "playBGM").
func (s *StepScope) Invoke(action, param string) *StepScope {
	s.add(domain.Entry{Action: action, Param: param})
	return s
}

// Finish ends the conversation.
func (s *StepScope) Finish() *StepScope {
	s.add(domain.Entry{Action: domain.ActionEnd})
	return s
}

func (s *StepScope) add(e domain.Entry) {
	if last := s.b.steps[len(s.b.steps)-1]; last != s {
		s.b.logger.Debug("Row added to an earlier step", "step", s.name, "open", last.name)
	}
	e.Version = s.version
	s.entries = append(s.entries, e)
}

// line applies opts and renders flag conditions with normalized operands.
func (s *StepScope) line(opts []LineOption) line {
	var l line
	for _, opt := range opts {
		opt(&l)
	}
	for _, c := range []*Condition{&l.cond, &l.cond2} {
		if c.mutation == nil {
			continue
		}
		m := *c.mutation
		s.b.check(s.name, m)
		d := domain.IfFlag(m.Flag, m.Operator, s.b.registry.Normalize(m.Flag, m.Operand), "")
		c.expr = s.b.dispatch(s.name, d)
	}
	return l
}

// text panics on more variants than locales: the extra text would be silently lost.
func (s *StepScope) text(t Text) []string {
	if len(t) > len(s.b.layout.Locales) {
		panic(fmt.Sprintf("dsl: step %s: %d text variants for %d locales", s.name, len(t), len(s.b.layout.Locales)))
	}
	return table.TrimText(append([]string(nil), t...))
}
