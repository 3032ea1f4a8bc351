package domain

// Action names understood by the engine's table loader.
const (
	// ActionChoice presents the row's text as an option leading to Jump.
	ActionChoice = "choice"
	// ActionCancel is the edge taken when the choice set is dismissed.
	ActionCancel = "cancel"
	// ActionEnd terminates the conversation.
	ActionEnd = "end"
	// ActionSetFlag assigns a flag. Param: "<flag>,<value>".
	ActionSetFlag = "setFlag"
	// ActionModFlag increments a flag. Param: "<flag>,<op><amount>".
	ActionModFlag = "modFlag"
	// ActionDispatch evaluates a branch construct. Param: see Dispatch.
	ActionDispatch = "dispatch"
)

// Dispatch constructs.
const (
	ConstructIfFlag     = "if_flag"
	ConstructSwitchFlag = "switch_flag"
)

// DefaultEntryStep is the step the engine enters first.
const DefaultEntryStep = "main"

// BuiltinPrefix marks engine-native flows that are never declared locally.
const BuiltinPrefix = "_"

// ChildSeparator joins a parent step name and the suffix of an auto-generated child step.
const ChildSeparator = "/"

// UnsetOrdinal is the enum value meaning "no variant selected".
const UnsetOrdinal = -1

// DefaultBuiltinTargets returns the engine-native flows a graph may jump to.
func DefaultBuiltinTargets() []string {
	return []string{
		"_trade",
		"_buy",
		"_sell",
		"_identify",
		"_joinParty",
		"_leaveParty",
		"_train",
		"_heal",
		"_rumor",
		"_bye",
	}
}
