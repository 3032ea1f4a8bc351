package flags

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/drama/pkg/domain"
)

// Kind is the value domain of a flag.
type Kind int

const (
	KindEnum Kind = iota
	KindInt
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a kind name ("enum", "int", "bool", "string") to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "enum":
		return KindEnum, nil
	case "int":
		return KindInt, nil
	case "bool":
		return KindBool, nil
	case "string":
		return KindString, nil
	}
	return 0, fmt.Errorf("unsupported flag kind: %q", s)
}

// Definition describes one typed flag.
type Definition struct {
	Key      string   `json:"key" yaml:"key"`
	Kind     Kind     `json:"kind" yaml:"kind"`
	Variants []string `json:"variants,omitempty" yaml:"variants,omitempty"`
	Min      *int     `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *int     `json:"max,omitempty" yaml:"max,omitempty"`
	Doc      string   `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// --- Factory Functions ---

// Enum declares an enum flag; variants are addressed by ordinal.
func Enum(key string, variants ...string) Definition {
	return Definition{Key: key, Kind: KindEnum, Variants: variants}
}

// Int declares an unbounded int flag.
func Int(key string) Definition {
	return Definition{Key: key, Kind: KindInt}
}

// IntRange declares an int flag restricted to [min, max].
func IntRange(key string, min, max int) Definition {
	return Definition{Key: key, Kind: KindInt, Min: &min, Max: &max}
}

// Bool declares a boolean flag.
func Bool(key string) Definition {
	return Definition{Key: key, Kind: KindBool}
}

// String declares an open-domain string flag.
func String(key string) Definition {
	return Definition{Key: key, Kind: KindString}
}

// check reports definitions that could never hold a value.
func (d Definition) check() error {
	if d.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidDefinition)
	}
	switch d.Kind {
	case KindEnum:
		if len(d.Variants) == 0 {
			return fmt.Errorf("%w: enum %q has no variants", ErrInvalidDefinition, d.Key)
		}
	case KindInt:
		if d.Min != nil && d.Max != nil && *d.Min > *d.Max {
			return fmt.Errorf("%w: int %q has min %d > max %d", ErrInvalidDefinition, d.Key, *d.Min, *d.Max)
		}
	case KindBool, KindString:
	default:
		return fmt.Errorf("%w: %q has unknown kind %v", ErrInvalidDefinition, d.Key, d.Kind)
	}
	return nil
}

// Ordinal resolves an enum variant name.
func (d Definition) Ordinal(variant string) (int, bool) {
	for i, v := range d.Variants {
		if v == variant {
			return i, true
		}
	}
	return 0, false
}

// validate checks a value against the definition's domain.
// The returned error wraps ErrRange or ErrType.
func (d Definition) validate(value any) error {
	switch d.Kind {
	case KindEnum:
		if s, ok := value.(string); ok {
			if _, found := d.Ordinal(s); found {
				return nil
			}
			return fmt.Errorf("%w: unknown variant %q", ErrRange, s)
		}
		n, ok := toInt(value)
		if !ok {
			return fmt.Errorf("%w: expected ordinal, got %T", ErrType, value)
		}
		if n == domain.UnsetOrdinal {
			return nil
		}
		if n < 0 || n >= int64(len(d.Variants)) {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrRange, n, len(d.Variants))
		}
	case KindInt:
		n, ok := toInt(value)
		if !ok {
			return fmt.Errorf("%w: expected int, got %T", ErrType, value)
		}
		if d.Min != nil && n < int64(*d.Min) || d.Max != nil && n > int64(*d.Max) {
			return fmt.Errorf("%w: %d not in [%s, %s]", ErrRange, n, bound(d.Min, "-inf"), bound(d.Max, "+inf"))
		}
	case KindBool:
		if !isBool(value) {
			return fmt.Errorf("%w: expected 0/1 or true/false, got %v", ErrType, value)
		}
	case KindString:
	}
	return nil
}

func bound(b *int, open string) string {
	if b == nil {
		return open
	}
	return fmt.Sprint(*b)
}

// toInt accepts every Go integer type and whole float64 values (from YAML/JSON decoding).
func toInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int64(v), true
		}
	}
	return 0, false
}

func isBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return true
	case string:
		switch v {
		case "0", "1", "true", "false":
			return true
		}
		return false
	}
	n, ok := toInt(value)
	return ok && (n == 0 || n == 1)
}
