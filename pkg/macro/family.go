package macro

import (
	"fmt"
	"strings"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/dsl"
)

// Generated describes what a macro emitted.
type Generated struct {
	// Entry is the step to jump to in order to run the family.
	Entry domain.Label
	// Targets is the dispatch table, when the macro emits one.
	Targets []domain.Label
}

// Family builds one sub-step family per item and returns the dispatch table:
// targets[0] is reserved, targets[i] is the label gen returned for items[i-1].
func Family[T any](reserved domain.Label, items []T, gen func(i int, item T) domain.Label) []domain.Label {
	targets := make([]domain.Label, 0, len(items)+1)
	targets = append(targets, reserved)
	for i, item := range items {
		targets = append(targets, gen(i, item))
	}
	return targets
}

// checkIDs rejects record ids that are empty, repeated, or equal to a child
// step the macro reserves for itself; each would collapse two dispatch slots
// onto one step.
func checkIDs(macro string, ids []string, reserved ...string) error {
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		switch {
		case id == "":
			return fmt.Errorf("%w: %s record %d has no id", ErrInvalidInput, macro, i)
		case seen[id]:
			return fmt.Errorf("%w: %s id %q is used twice", ErrInvalidInput, macro, id)
		}
		for _, r := range reserved {
			if id == r {
				return fmt.Errorf("%w: %s id %q is reserved", ErrInvalidInput, macro, id)
			}
		}
		seen[id] = true
	}
	return nil
}

// say emits a line only when there is text for it.
func say(s *dsl.StepScope, id string, text dsl.Text, opts ...dsl.LineOption) {
	if len(text) > 0 {
		s.Say(id, text, opts...)
	}
}

func actorOpts(actor string) []dsl.LineOption {
	if actor == "" {
		return nil
	}
	return []dsl.LineOption{dsl.As(domain.Actor{ID: actor})}
}

func textID(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "_")
}
