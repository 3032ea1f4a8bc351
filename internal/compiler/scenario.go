package compiler

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is one scenario file: a graph and its steps in sheet order.
type Document struct {
	Graph    string   `yaml:"graph"`
	Entry    string   `yaml:"entry"`
	Builtins []string `yaml:"builtins"`
	Steps    []Node   `yaml:"steps"`
}

// Node is either a hand-written step or a macro invocation.
type Node struct {
	Step    string `yaml:"step"`
	Version string `yaml:"version"`
	Ops     []Op   `yaml:"ops"`

	Macro string         `yaml:"macro"`
	With  map[string]any `yaml:"with"`
}

// Op is a single builder call. Exactly one field is set.
type Op struct {
	Say        *SayOp    `yaml:"say"`
	Choice     *ChoiceOp `yaml:"choice"`
	Jump       *string   `yaml:"jump"`
	Cancel     *string   `yaml:"cancel"`
	BranchIf   *BranchOp `yaml:"branch_if"`
	SwitchFlag *SwitchOp `yaml:"switch_flag"`
	SetFlag    *SetOp    `yaml:"set_flag"`
	IncFlag    *IncOp    `yaml:"inc_flag"`
	Invoke     *InvokeOp `yaml:"invoke"`
	Finish     *bool     `yaml:"finish"`
	Version    *string   `yaml:"version"`
}

// Text accepts a single string or a list of locale variants.
type Text []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Text) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*t = Text{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return fmt.Errorf("text: %w", err)
	}
	*t = list
	return nil
}

// Cond is a flag comparison, or a raw engine expression when Raw is set.
type Cond struct {
	Flag  string `yaml:"flag"`
	Op    string `yaml:"op"`
	Value any    `yaml:"value"`
	Raw   string `yaml:"raw"`
}

// Line carries the options shared by spoken rows.
type Line struct {
	ID    string `yaml:"id"`
	Text  Text   `yaml:"text"`
	Actor string `yaml:"actor"`
	When  *Cond  `yaml:"when"`
	And   *Cond  `yaml:"and"`
}

type SayOp struct {
	Line `yaml:",inline"`
}

type ChoiceOp struct {
	Line   `yaml:",inline"`
	Target string `yaml:"target"`
}

type BranchOp struct {
	Flag   string `yaml:"flag"`
	Op     string `yaml:"op"`
	Value  any    `yaml:"value"`
	Target string `yaml:"target"`
}

type SwitchOp struct {
	Flag     string   `yaml:"flag"`
	Cases    []string `yaml:"cases"`
	Fallback string   `yaml:"fallback"`
}

type SetOp struct {
	Flag  string `yaml:"flag"`
	Value any    `yaml:"value"`
}

// IncOp adds Amount to an int flag; a negative amount subtracts.
type IncOp struct {
	Flag   string `yaml:"flag"`
	Amount int    `yaml:"amount"`
}

type InvokeOp struct {
	Action string `yaml:"action"`
	Param  string `yaml:"param"`
}

// UnmarshalYAML accepts the bare scalar "finish" as shorthand for "finish: true".
func (o *Op) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		if value.Value != "finish" {
			return fmt.Errorf("line %d: unknown op %q", value.Line, value.Value)
		}
		done := true
		*o = Op{Finish: &done}
		return nil
	}
	type plain Op
	return value.Decode((*plain)(o))
}

func (o Op) count() int {
	n := 0
	for _, set := range []bool{
		o.Say != nil, o.Choice != nil, o.Jump != nil, o.Cancel != nil,
		o.BranchIf != nil, o.SwitchFlag != nil, o.SetFlag != nil,
		o.IncFlag != nil, o.Invoke != nil, o.Finish != nil, o.Version != nil,
	} {
		if set {
			n++
		}
	}
	return n
}
