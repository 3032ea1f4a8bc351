package domain

import "fmt"

// WarningKind names a structural finding.
type WarningKind string

const (
	WarningNoTerminator      WarningKind = "no terminator"
	WarningOrphanStep        WarningKind = "orphan step"
	WarningUndefinedTarget   WarningKind = "undefined jump target"
	WarningDuplicateStep     WarningKind = "duplicate step"
	WarningDuplicateCancel   WarningKind = "duplicate cancel handler"
	WarningUnreachableEntry  WarningKind = "unreachable entry"
	WarningMalformedDispatch WarningKind = "malformed dispatch"
)

// Warning is a non-fatal structural defect found in a finalized graph.
// The graph is still serialized; callers decide whether warnings fail a build.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Step   string      `json:"step,omitempty"`
	Target string      `json:"target,omitempty"`
	// Row is the 0-based index of the offending entry, or -1 when the finding is graph-wide.
	Row int `json:"row"`
}

// Subject is the name the warning is about: the target for undefined jumps, the step otherwise.
func (w Warning) Subject() string {
	if w.Kind == WarningUndefinedTarget {
		return w.Target
	}
	return w.Step
}

func (w Warning) String() string {
	if w.Kind == WarningUnreachableEntry || w.Kind == WarningMalformedDispatch {
		return fmt.Sprintf("%s: %s (row %d)", w.Kind, w.Step, w.Row)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Subject())
}
