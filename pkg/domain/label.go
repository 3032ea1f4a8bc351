package domain

import "strings"

// Label names a step. It can be created before the step exists so that earlier
// rows may jump forward; once the step is opened both denote the same node.
type Label string

// String returns the step name.
func (l Label) String() string { return string(l) }

// Child derives the label of an auto-generated child step.
func (l Label) Child(suffix string) Label {
	return Label(string(l) + ChildSeparator + suffix)
}

// IsChild reports whether the label follows the auto-generated child naming convention.
func (l Label) IsChild() bool {
	return strings.Contains(string(l), ChildSeparator)
}

// IsBuiltin reports whether the label uses the reserved engine-native prefix.
func (l Label) IsBuiltin() bool {
	return strings.HasPrefix(string(l), BuiltinPrefix)
}
