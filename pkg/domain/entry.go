package domain

import "slices"

// EntryKind classifies a row by the columns it carries.
type EntryKind string

const (
	KindMarker   EntryKind = "marker"
	KindLine     EntryKind = "line"
	KindChoice   EntryKind = "choice"
	KindCancel   EntryKind = "cancel"
	KindJump     EntryKind = "jump"
	KindEnd      EntryKind = "end"
	KindSetFlag  EntryKind = "set_flag"
	KindModFlag  EntryKind = "mod_flag"
	KindDispatch EntryKind = "dispatch"
	KindAction   EntryKind = "action"
	KindEmpty    EntryKind = "empty"
)

// Entry is one row of a drama table.
// Every field maps to exactly one column, so a row can be rebuilt from the table alone.
type Entry struct {
	Step    string   `json:"step,omitempty" yaml:"step,omitempty"`
	Jump    string   `json:"jump,omitempty" yaml:"jump,omitempty"`
	If      string   `json:"if,omitempty" yaml:"if,omitempty"`
	If2     string   `json:"if2,omitempty" yaml:"if2,omitempty"`
	Action  string   `json:"action,omitempty" yaml:"action,omitempty"`
	Param   string   `json:"param,omitempty" yaml:"param,omitempty"`
	Actor   string   `json:"actor,omitempty" yaml:"actor,omitempty"`
	Version string   `json:"version,omitempty" yaml:"version,omitempty"`
	ID      string   `json:"id,omitempty" yaml:"id,omitempty"`
	Text    []string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Kind derives the row kind from its columns.
func (e Entry) Kind() EntryKind {
	switch {
	case e.Step != "":
		return KindMarker
	case e.Action == ActionChoice:
		return KindChoice
	case e.Action == ActionCancel:
		return KindCancel
	case e.Action == ActionEnd:
		return KindEnd
	case e.Action == ActionSetFlag:
		return KindSetFlag
	case e.Action == ActionModFlag:
		return KindModFlag
	case e.Action == ActionDispatch:
		return KindDispatch
	case e.Action != "":
		return KindAction
	case e.Jump != "":
		return KindJump
	case e.HasText() || e.ID != "":
		return KindLine
	}
	return KindEmpty
}

// HasText reports whether any localized text cell is filled.
func (e Entry) HasText() bool {
	for _, t := range e.Text {
		if t != "" {
			return true
		}
	}
	return false
}

// Targets returns every step name this row may transfer control to.
// Dispatch rows with an unparsable param report no targets.
func (e Entry) Targets() []string {
	switch e.Kind() {
	case KindChoice, KindCancel, KindJump:
		if e.Jump == "" {
			return nil
		}
		return []string{e.Jump}
	case KindDispatch:
		d, err := ParseDispatch(e.Param)
		if err != nil {
			return nil
		}
		return d.Targets()
	}
	return nil
}

// Equal reports whether two rows carry the same cells.
// Trailing empty text cells are ignored.
func (e Entry) Equal(o Entry) bool {
	return e.Step == o.Step &&
		e.Jump == o.Jump &&
		e.If == o.If &&
		e.If2 == o.If2 &&
		e.Action == o.Action &&
		e.Param == o.Param &&
		e.Actor == o.Actor &&
		e.Version == o.Version &&
		e.ID == o.ID &&
		slices.Equal(trimText(e.Text), trimText(o.Text))
}

func trimText(text []string) []string {
	n := len(text)
	for n > 0 && text[n-1] == "" {
		n--
	}
	return text[:n]
}
