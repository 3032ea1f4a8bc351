package macro

import (
	"fmt"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/dsl"
)

// DefaultQuestCheck is the engine action that writes the index of the first
// available quest (1-based, 0 when none) into the board's index flag.
const DefaultQuestCheck = "checkQuests"

// DefaultQuestStart is the engine action that starts a quest by id.
const DefaultQuestStart = "startQuest"

// Quest is one optional quest offered by a board. Order of the board's list is priority order.
type Quest struct {
	ID      string   `mapstructure:"id"`
	Offer   dsl.Text `mapstructure:"offer"`
	Accept  dsl.Text `mapstructure:"accept"`
	Decline dsl.Text `mapstructure:"decline"`
	// Declined is said after the player turns the quest down.
	Declined dsl.Text `mapstructure:"declined"`
	// Flag, when set, is assigned Value on acceptance.
	Flag  string `mapstructure:"flag"`
	Value any    `mapstructure:"value"`
}

// QuestBoard describes a dispatcher over priority-ordered optional quests.
type QuestBoard struct {
	Name  string `mapstructure:"name"`
	Actor string `mapstructure:"actor"`
	// Index is the flag the availability check writes.
	Index  string   `mapstructure:"index"`
	Check  string   `mapstructure:"check"`
	Start  string   `mapstructure:"start"`
	None   dsl.Text `mapstructure:"none"`
	Quests []Quest  `mapstructure:"quests"`
}

// BuildQuestBoard emits the dispatcher step, a shared "none" step and, per quest,
// an offer step with start and decline children.
//
//	<name>                 invoke check; switch_flag(index, none|q1|...|qN, none)
//	<name>/none            nothing available
//	<name>/<id>            offer: accept / decline choices, cancel = decline
//	<name>/<id>/start      set flag, start quest, end
//	<name>/<id>/decline    declined line, end
func BuildQuestBoard(b *dsl.Builder, def QuestBoard) (Generated, error) {
	if def.Name == "" || def.Index == "" {
		return Generated{}, fmt.Errorf("%w: quest board needs name and index", ErrInvalidInput)
	}
	if len(def.Quests) == 0 {
		return Generated{}, fmt.Errorf("%w: quest board %s has no quests", ErrInvalidInput, def.Name)
	}
	ids := make([]string, len(def.Quests))
	for i, q := range def.Quests {
		ids[i] = q.ID
	}
	if err := checkIDs("quest board "+def.Name, ids, "none"); err != nil {
		return Generated{}, err
	}
	check := def.Check
	if check == "" {
		check = DefaultQuestCheck
	}
	start := def.Start
	if start == "" {
		start = DefaultQuestStart
	}
	actor := actorOpts(def.Actor)

	// 1. Dispatcher first so it leads the sheet
	board := b.Step(b.Label(def.Name))
	none := board.Child("none")

	// 2. One family per quest, dispatch table built in the same loop
	targets := Family(none, def.Quests, func(_ int, q Quest) domain.Label {
		offer := board.Child(q.ID)
		offerStep := b.Step(offer)
		accept := offerStep.Child("start")
		decline := offerStep.Child("decline")

		say(offerStep, textID(def.Name, q.ID, "offer"), q.Offer, actor...)
		offerStep.
			Choice(accept, q.Accept, dsl.ID(textID(def.Name, q.ID, "accept"))).
			Choice(decline, q.Decline, dsl.ID(textID(def.Name, q.ID, "decline"))).
			OnCancel(decline)

		startStep := b.Step(accept)
		if q.Flag != "" {
			startStep.SetFlag(q.Flag, q.Value)
		}
		startStep.Invoke(start, q.ID).Finish()

		declineStep := b.Step(decline)
		say(declineStep, textID(def.Name, q.ID, "declined"), q.Declined, actor...)
		declineStep.Finish()

		return offer
	})

	board.
		Invoke(check, def.Index).
		SwitchFlag(def.Index, targets, none)

	noneStep := b.Step(none)
	say(noneStep, textID(def.Name, "none"), def.None, actor...)
	noneStep.Finish()

	return Generated{Entry: board.Name(), Targets: targets}, nil
}
