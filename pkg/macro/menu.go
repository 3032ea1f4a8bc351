package macro

import (
	"fmt"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/dsl"
)

// Gate restricts an option to a flag condition.
type Gate struct {
	Flag  string `mapstructure:"flag"`
	Op    string `mapstructure:"op"`
	Value any    `mapstructure:"value"`
}

func (g *Gate) options() []dsl.LineOption {
	if g == nil || g.Flag == "" {
		return nil
	}
	op := domain.Operator(g.Op)
	if op == "" {
		op = domain.OpEq
	}
	return []dsl.LineOption{dsl.When(dsl.Flag(g.Flag, op, g.Value))}
}

// MenuItem is one option of a menu.
type MenuItem struct {
	ID     string   `mapstructure:"id"`
	Target string   `mapstructure:"target"`
	Text   dsl.Text `mapstructure:"text"`
	Gate   *Gate    `mapstructure:"gate"`
}

// Menu is a prompt followed by sibling choices.
type Menu struct {
	Name   string     `mapstructure:"name"`
	Actor  string     `mapstructure:"actor"`
	Prompt dsl.Text   `mapstructure:"prompt"`
	Items  []MenuItem `mapstructure:"items"`
	// Cancel defaults to "_bye".
	Cancel string `mapstructure:"cancel"`
}

// BuildMenu emits a single step with one choice per item, in order.
func BuildMenu(b *dsl.Builder, def Menu) (Generated, error) {
	if def.Name == "" {
		return Generated{}, fmt.Errorf("%w: menu needs a name", ErrInvalidInput)
	}
	if len(def.Items) == 0 {
		return Generated{}, fmt.Errorf("%w: menu %s has no items", ErrInvalidInput, def.Name)
	}
	cancel := def.Cancel
	if cancel == "" {
		cancel = "_bye"
	}

	s := b.Step(b.Label(def.Name))
	say(s, textID(def.Name, "prompt"), def.Prompt, actorOpts(def.Actor)...)

	targets := make([]domain.Label, 0, len(def.Items))
	for i, item := range def.Items {
		if item.Target == "" {
			return Generated{}, fmt.Errorf("%w: menu %s item %d has no target", ErrInvalidInput, def.Name, i)
		}
		target := b.Label(item.Target)
		opts := append([]dsl.LineOption{dsl.ID(textID(def.Name, item.ID))}, item.Gate.options()...)
		s.Choice(target, item.Text, opts...)
		targets = append(targets, target)
	}
	s.OnCancel(b.Label(cancel))

	return Generated{Entry: s.Name(), Targets: targets}, nil
}
