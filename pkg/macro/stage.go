package macro

import (
	"fmt"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/dsl"
)

// DefaultBattleAction is the engine action that loads a battle stage.
const DefaultBattleAction = "startBattle"

// Stage is one selectable battle.
type Stage struct {
	ID   string   `mapstructure:"id"`
	Text dsl.Text `mapstructure:"text"`
	// Unlock, when set, is a bool flag that must hold for the stage to be listed.
	Unlock string `mapstructure:"unlock"`
	Battle string `mapstructure:"battle"`
}

// StageSelect is a menu of battle stages.
type StageSelect struct {
	Name   string   `mapstructure:"name"`
	Actor  string   `mapstructure:"actor"`
	Prompt dsl.Text `mapstructure:"prompt"`
	// StageFlag receives the 1-based index of the chosen stage.
	StageFlag string  `mapstructure:"stage_flag"`
	Action    string  `mapstructure:"action"`
	Cancel    string  `mapstructure:"cancel"`
	Stages    []Stage `mapstructure:"stages"`
}

// BuildStageSelect emits the selection step and one launch step per stage.
// Targets follows the dispatch convention: Targets[i] launches Stages[i-1]
// and StageFlag is set to i, so index 0 keeps meaning "no stage".
func BuildStageSelect(b *dsl.Builder, def StageSelect) (Generated, error) {
	if def.Name == "" || def.StageFlag == "" {
		return Generated{}, fmt.Errorf("%w: stage select needs name and stage_flag", ErrInvalidInput)
	}
	if len(def.Stages) == 0 {
		return Generated{}, fmt.Errorf("%w: stage select %s has no stages", ErrInvalidInput, def.Name)
	}
	ids := make([]string, len(def.Stages))
	for i, st := range def.Stages {
		ids[i] = st.ID
	}
	if err := checkIDs("stage select "+def.Name, ids); err != nil {
		return Generated{}, err
	}
	action := def.Action
	if action == "" {
		action = DefaultBattleAction
	}
	cancel := def.Cancel
	if cancel == "" {
		cancel = "_bye"
	}

	sel := b.Step(b.Label(def.Name))
	say(sel, textID(def.Name, "prompt"), def.Prompt, actorOpts(def.Actor)...)

	targets := Family(b.Label(cancel), def.Stages, func(i int, st Stage) domain.Label {
		launch := sel.Child(st.ID)

		var opts []dsl.LineOption
		opts = append(opts, dsl.ID(textID(def.Name, st.ID)))
		if st.Unlock != "" {
			opts = append(opts, dsl.When(dsl.Flag(st.Unlock, domain.OpEq, true)))
		}
		sel.Choice(launch, st.Text, opts...)

		battle := st.Battle
		if battle == "" {
			battle = st.ID
		}
		b.Step(launch).
			SetFlag(def.StageFlag, i+1).
			Invoke(action, battle).
			Finish()
		return launch
	})
	sel.OnCancel(targets[0])

	return Generated{Entry: sel.Name(), Targets: targets}, nil
}
