package macro

import (
	"fmt"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/dsl"
)

// Reward increments an int flag when a rank is reached.
type Reward struct {
	Flag   string `mapstructure:"flag"`
	Amount int    `mapstructure:"amount"`
}

// Rank is one outcome of a trial, from lowest to highest.
type Rank struct {
	ID     string   `mapstructure:"id"`
	Text   dsl.Text `mapstructure:"text"`
	Reward *Reward  `mapstructure:"reward"`
}

// RankedTrial describes a graded outcome: the engine evaluates the trial,
// writes the reached rank (1-based, 0 on failure) into Result, and the
// dialogue branches on it.
type RankedTrial struct {
	Name     string   `mapstructure:"name"`
	Actor    string   `mapstructure:"actor"`
	Result   string   `mapstructure:"result"`
	Evaluate string   `mapstructure:"evaluate"`
	Fail     dsl.Text `mapstructure:"fail"`
	Ranks    []Rank   `mapstructure:"ranks"`
}

// BuildRankedTrial emits the result step, a fail step and one step per rank.
func BuildRankedTrial(b *dsl.Builder, def RankedTrial) (Generated, error) {
	if def.Name == "" || def.Result == "" {
		return Generated{}, fmt.Errorf("%w: ranked trial needs name and result", ErrInvalidInput)
	}
	if len(def.Ranks) == 0 {
		return Generated{}, fmt.Errorf("%w: ranked trial %s has no ranks", ErrInvalidInput, def.Name)
	}
	ids := make([]string, len(def.Ranks))
	for i, r := range def.Ranks {
		ids[i] = r.ID
	}
	if err := checkIDs("ranked trial "+def.Name, ids, "fail"); err != nil {
		return Generated{}, err
	}
	actor := actorOpts(def.Actor)

	result := b.Step(b.Label(def.Name))
	fail := result.Child("fail")

	targets := Family(fail, def.Ranks, func(_ int, r Rank) domain.Label {
		rank := result.Child(r.ID)
		s := b.Step(rank)
		say(s, textID(def.Name, r.ID), r.Text, actor...)
		if r.Reward != nil {
			op := domain.OpAdd
			amount := r.Reward.Amount
			if amount < 0 {
				op, amount = domain.OpSub, -amount
			}
			s.IncrementFlag(r.Reward.Flag, op, amount)
		}
		s.Finish()
		return rank
	})

	if def.Evaluate != "" {
		result.Invoke(def.Evaluate, def.Result)
	}
	result.SwitchFlag(def.Result, targets, fail)

	failStep := b.Step(fail)
	say(failStep, textID(def.Name, "fail"), def.Fail, actor...)
	failStep.Finish()

	return Generated{Entry: result.Name(), Targets: targets}, nil
}
