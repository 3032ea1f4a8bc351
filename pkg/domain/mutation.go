package domain

import (
	"fmt"
	"strconv"
)

// Operator is the textual operator written into dispatch and mutation params.
type Operator string

const (
	OpEq  Operator = "=="
	OpNe  Operator = "!="
	OpGt  Operator = ">"
	OpGe  Operator = ">="
	OpLt  Operator = "<"
	OpLe  Operator = "<="
	OpAdd Operator = "+"
	OpSub Operator = "-"
)

// comparisonOps is ordered longest first so prefix matching is unambiguous.
var comparisonOps = []Operator{OpGe, OpLe, OpEq, OpNe, OpGt, OpLt}

// IsComparison reports whether op can be used in a condition.
func (op Operator) IsComparison() bool {
	for _, c := range comparisonOps {
		if op == c {
			return true
		}
	}
	return false
}

// IsIncrement reports whether op can be used to modify an int flag.
func (op Operator) IsIncrement() bool {
	return op == OpAdd || op == OpSub
}

// MutationOp is the kind of flag instruction.
type MutationOp int

const (
	MutationSet MutationOp = iota
	MutationIncrement
	MutationCompare
)

func (m MutationOp) String() string {
	switch m {
	case MutationSet:
		return "set"
	case MutationIncrement:
		return "increment"
	case MutationCompare:
		return "compare"
	}
	return fmt.Sprintf("MutationOp(%d)", int(m))
}

// Mutation is a flag instruction embedded in a row.
// It is validated against the flag schema when the row is built.
type Mutation struct {
	Flag     string
	Op       MutationOp
	Operator Operator
	Operand  any
}

// Param renders the mutation as the engine's param cell.
func (m Mutation) Param() string {
	switch m.Op {
	case MutationIncrement:
		return m.Flag + "," + string(m.Operator) + FormatValue(m.Operand)
	default:
		return m.Flag + "," + FormatValue(m.Operand)
	}
}

// FormatValue renders a flag operand the way the engine reads it.
// Booleans are written as 1/0.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", x)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return FormatValue(float64(x))
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
