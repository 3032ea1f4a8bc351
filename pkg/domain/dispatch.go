package domain

import (
	"fmt"
	"strings"
)

// Dispatch is the branch construct carried in the param cell of a dispatch row
// (and, without a target, in the if/if2 columns).
//
// Wire format, reproduced exactly by String:
//
//	if_flag(<flag>, <op><value>[, <target>])
//	switch_flag(<flag>, <case0>|<case1>|...[, <fallback>])
type Dispatch struct {
	Construct string
	Flag      string

	// if_flag
	Op     Operator
	Value  string
	Target string

	// switch_flag; Cases[i] is taken when the flag holds i.
	Cases    []string
	Fallback string
}

// IfFlag builds a conditional jump taken when "<flag> <op> <value>" holds.
func IfFlag(flag string, op Operator, value any, target string) Dispatch {
	return Dispatch{
		Construct: ConstructIfFlag,
		Flag:      flag,
		Op:        op,
		Value:     FormatValue(value),
		Target:    target,
	}
}

// SwitchFlag builds an exclusive dispatch indexed by the value of flag.
func SwitchFlag(flag string, cases []string, fallback string) Dispatch {
	return Dispatch{
		Construct: ConstructSwitchFlag,
		Flag:      flag,
		Cases:     cases,
		Fallback:  fallback,
	}
}

func (d Dispatch) String() string {
	var sb strings.Builder
	sb.WriteString(d.Construct)
	sb.WriteString("(")
	sb.WriteString(d.Flag)
	sb.WriteString(", ")
	if d.Construct == ConstructSwitchFlag {
		sb.WriteString(strings.Join(d.Cases, "|"))
		if d.Fallback != "" {
			sb.WriteString(", ")
			sb.WriteString(d.Fallback)
		}
	} else {
		sb.WriteString(string(d.Op))
		sb.WriteString(d.Value)
		if d.Target != "" {
			sb.WriteString(", ")
			sb.WriteString(d.Target)
		}
	}
	sb.WriteString(")")
	return sb.String()
}

// Targets lists the step names the construct can jump to, in case order.
func (d Dispatch) Targets() []string {
	var out []string
	if d.Construct == ConstructSwitchFlag {
		for _, c := range d.Cases {
			if c != "" {
				out = append(out, c)
			}
		}
		if d.Fallback != "" {
			out = append(out, d.Fallback)
		}
		return out
	}
	if d.Target != "" {
		out = append(out, d.Target)
	}
	return out
}

// HasFallback reports whether the engine always takes a branch from this construct.
func (d Dispatch) HasFallback() bool {
	return d.Construct == ConstructSwitchFlag && d.Fallback != ""
}

// reservedTokens separate dispatch fields and may not appear inside one.
var reservedTokens = []string{", ", "|", "(", ")"}

// Check reports fields that contain a separator, which would make the
// rendered construct parse differently or not at all.
func (d Dispatch) Check() error {
	fields := []string{d.Flag, d.Value, d.Target, d.Fallback}
	fields = append(fields, d.Cases...)
	for _, f := range fields {
		for _, tok := range reservedTokens {
			if strings.Contains(f, tok) {
				return fmt.Errorf("%w: %q contains %q", ErrMalformedDispatch, f, tok)
			}
		}
	}
	if d.Flag == "" {
		return fmt.Errorf("%w: empty flag", ErrMalformedDispatch)
	}
	return nil
}

// ParseDispatch reads a construct back from its wire format.
func ParseDispatch(s string) (Dispatch, error) {
	open := strings.Index(s, "(")
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return Dispatch{}, fmt.Errorf("%w: %q", ErrMalformedDispatch, s)
	}
	d := Dispatch{Construct: s[:open]}
	parts := strings.Split(s[open+1:len(s)-1], ", ")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return Dispatch{}, fmt.Errorf("%w: %q", ErrMalformedDispatch, s)
	}
	d.Flag = parts[0]

	switch d.Construct {
	case ConstructSwitchFlag:
		if parts[1] != "" {
			d.Cases = strings.Split(parts[1], "|")
		}
		if len(parts) == 3 {
			d.Fallback = parts[2]
		}
	case ConstructIfFlag:
		op, value, ok := splitOperator(parts[1])
		if !ok {
			return Dispatch{}, fmt.Errorf("%w: missing operator in %q", ErrMalformedDispatch, s)
		}
		d.Op, d.Value = op, value
		if len(parts) == 3 {
			d.Target = parts[2]
		}
	default:
		return Dispatch{}, fmt.Errorf("%w: unknown construct %q", ErrMalformedDispatch, d.Construct)
	}
	return d, nil
}

func splitOperator(s string) (Operator, string, bool) {
	for _, op := range comparisonOps {
		if strings.HasPrefix(s, string(op)) {
			return op, s[len(op):], true
		}
	}
	return "", "", false
}
