package flags

import (
	"errors"
	"testing"

	"github.com/aretw0/drama/pkg/domain"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry(DefaultNamespace)
	reg.MustRegister(
		Enum("drama.quest.rank", "none", "bronze", "silver", "gold"),
		IntRange("drama.gold", 0, 100),
		Int("drama.visits"),
		Bool("drama.met_guide"),
		String("drama.player_title"),
	)
	return reg
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	reg := newTestRegistry(t)

	err := reg.Register(Bool("drama.met_guide"))
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("Register() error = %v, want ErrDuplicateKey", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustRegister() should panic on duplicate key")
		}
	}()
	reg.MustRegister(Int("drama.gold"))
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	reg := NewRegistry(DefaultNamespace)

	tests := []Definition{
		{Key: "", Kind: KindBool},
		Enum("drama.empty"),
		IntRange("drama.inverted", 10, 1),
		{Key: "drama.weird", Kind: Kind(42)},
	}
	for _, def := range tests {
		if err := reg.Register(def); !errors.Is(err, ErrInvalidDefinition) {
			t.Errorf("Register(%+v) error = %v, want ErrInvalidDefinition", def, err)
		}
	}
}

func TestRegistry_Lookup(t *testing.T) {
	reg := newTestRegistry(t)

	def, err := reg.Lookup("drama.quest.rank")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if def.Kind != KindEnum || len(def.Variants) != 4 {
		t.Errorf("Lookup() = %+v", def)
	}

	if _, err := reg.Lookup("drama.missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRegistry_ValidateValue(t *testing.T) {
	reg := newTestRegistry(t)

	tests := []struct {
		key     string
		value   any
		wantErr error
	}{
		// Enum
		{"drama.quest.rank", 0, nil},
		{"drama.quest.rank", 3, nil},
		{"drama.quest.rank", -1, nil}, // unset sentinel
		{"drama.quest.rank", "silver", nil},
		{"drama.quest.rank", 4, ErrRange},
		{"drama.quest.rank", -2, ErrRange},
		{"drama.quest.rank", "platinum", ErrRange},
		{"drama.quest.rank", true, ErrType},
		// Int
		{"drama.gold", 0, nil},
		{"drama.gold", 100, nil},
		{"drama.gold", float64(50), nil},
		{"drama.gold", 101, ErrRange},
		{"drama.gold", -1, ErrRange},
		{"drama.gold", 1.5, ErrType},
		{"drama.gold", "10", ErrType},
		{"drama.visits", int64(1 << 40), nil},
		// Bool
		{"drama.met_guide", true, nil},
		{"drama.met_guide", 0, nil},
		{"drama.met_guide", 1, nil},
		{"drama.met_guide", "false", nil},
		{"drama.met_guide", 2, ErrType},
		{"drama.met_guide", "yes", ErrType},
		// String
		{"drama.player_title", "Hero", nil},
		{"drama.player_title", 7, nil},
		// Unknown managed key
		{"drama.missing", 1, ErrUnknownFlag},
		// Legacy key outside the namespace
		{"oldQuestFlag", "anything", nil},
	}

	for _, tt := range tests {
		errs := reg.ValidateValue(tt.key, tt.value)
		if tt.wantErr == nil {
			if len(errs) != 0 {
				t.Errorf("ValidateValue(%q, %v) = %v, want none", tt.key, tt.value, errs)
			}
			continue
		}
		if len(errs) != 1 {
			t.Errorf("ValidateValue(%q, %v) returned %d errors, want 1", tt.key, tt.value, len(errs))
			continue
		}
		if !errors.Is(errs[0], tt.wantErr) {
			t.Errorf("ValidateValue(%q, %v) = %v, want %v", tt.key, tt.value, errs[0], tt.wantErr)
		}
		var vErr *ValidationError
		if !errors.As(errs[0], &vErr) || vErr.Key != tt.key {
			t.Errorf("ValidateValue(%q) error should be *ValidationError for the key, got %T", tt.key, errs[0])
		}
	}
}

func TestRegistry_ValidateMutation(t *testing.T) {
	reg := newTestRegistry(t)

	tests := []struct {
		name    string
		m       domain.Mutation
		wantLen int
	}{
		{"Set OK", domain.Mutation{Flag: "drama.gold", Op: domain.MutationSet, Operand: 10}, 0},
		{"Set Out Of Range", domain.Mutation{Flag: "drama.gold", Op: domain.MutationSet, Operand: 1000}, 1},
		{"Increment OK", domain.Mutation{Flag: "drama.gold", Op: domain.MutationIncrement, Operator: domain.OpAdd, Operand: 500}, 0},
		{"Increment Enum", domain.Mutation{Flag: "drama.quest.rank", Op: domain.MutationIncrement, Operator: domain.OpAdd, Operand: 1}, 1},
		{"Increment Bad Operator And Amount", domain.Mutation{Flag: "drama.gold", Op: domain.MutationIncrement, Operator: domain.OpGe, Operand: "x"}, 2},
		{"Increment Unknown", domain.Mutation{Flag: "drama.nope", Op: domain.MutationIncrement, Operator: domain.OpAdd, Operand: 1}, 1},
		{"Increment Legacy", domain.Mutation{Flag: "legacy", Op: domain.MutationIncrement, Operator: domain.OpAdd, Operand: 1}, 0},
		{"Compare OK", domain.Mutation{Flag: "drama.quest.rank", Op: domain.MutationCompare, Operator: domain.OpGe, Operand: 2}, 0},
		{"Compare Bad Operator", domain.Mutation{Flag: "drama.quest.rank", Op: domain.MutationCompare, Operator: domain.OpAdd, Operand: 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := reg.ValidateMutation(tt.m)
			if len(errs) != tt.wantLen {
				t.Errorf("ValidateMutation() = %v, want %d errors", errs, tt.wantLen)
			}
		})
	}
}

func TestRegistry_Ordinal(t *testing.T) {
	reg := newTestRegistry(t)

	n, err := reg.Ordinal("drama.quest.rank", "gold")
	if err != nil || n != 3 {
		t.Errorf("Ordinal(gold) = %d, %v; want 3, nil", n, err)
	}
	if _, err := reg.Ordinal("drama.gold", "x"); !errors.Is(err, ErrType) {
		t.Errorf("Ordinal(int flag) error = %v, want ErrType", err)
	}
	if _, err := reg.Ordinal("drama.quest.rank", "x"); !errors.Is(err, ErrRange) {
		t.Errorf("Ordinal(unknown variant) error = %v, want ErrRange", err)
	}
}

func TestRegistry_Normalize(t *testing.T) {
	reg := newTestRegistry(t)

	tests := []struct {
		key   string
		value any
		want  any
	}{
		{"drama.quest.rank", "silver", 2},
		{"drama.quest.rank", 3, 3},
		{"drama.quest.rank", "platinum", "platinum"},
		{"drama.met_guide", "true", 1},
		{"drama.met_guide", "false", 0},
		{"drama.met_guide", "1", "1"},
		{"drama.player_title", "true", "true"},
		{"drama.undeclared", "gold", "gold"},
		{"other.flag", "true", "true"},
	}
	for _, tt := range tests {
		if got := reg.Normalize(tt.key, tt.value); got != tt.want {
			t.Errorf("Normalize(%s, %v) = %v, want %v", tt.key, tt.value, got, tt.want)
		}
	}
}

func TestAggregateError(t *testing.T) {
	if Join(nil) != nil {
		t.Fatal("Join(nil) should be nil")
	}
	reg := newTestRegistry(t)
	errs := append(reg.ValidateValue("drama.gold", 999), reg.ValidateValue("drama.missing", 1)...)
	err := Join(errs)

	if got := ValidationErrors(err); len(got) != 2 {
		t.Fatalf("ValidationErrors() len = %d, want 2", len(got))
	}
	if !errors.Is(err, ErrUnknownFlag) || !errors.Is(err, ErrRange) {
		t.Errorf("AggregateError should unwrap to both causes: %v", err)
	}
}
