package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/drama/pkg/domain"
)

// DefaultNamespace is the key prefix managed by the registry unless configured otherwise.
const DefaultNamespace = "drama."

// Registry is the process-wide catalog of flag definitions.
// Definitions are read-only once registered; the registry may be shared by
// builders running on different goroutines.
type Registry struct {
	mu        sync.RWMutex
	namespace string
	defs      map[string]Definition
	order     []string
}

// NewRegistry creates an empty registry managing keys under namespace.
// An empty namespace manages every key.
func NewRegistry(namespace string) *Registry {
	return &Registry{
		namespace: namespace,
		defs:      make(map[string]Definition),
	}
}

// Namespace returns the managed key prefix.
func (r *Registry) Namespace() string {
	return r.namespace
}

// Register adds a definition.
// It returns ErrDuplicateKey if the key already exists.
func (r *Registry) Register(def Definition) error {
	if err := def.check(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, def.Key)
	}
	def.Variants = append([]string(nil), def.Variants...)
	r.defs[def.Key] = def
	r.order = append(r.order, def.Key)
	return nil
}

// MustRegister registers every definition and panics on the first failure.
// It is intended for package-level schema tables.
func (r *Registry) MustRegister(defs ...Definition) {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the definition for key or ErrNotFound.
func (r *Registry) Lookup(key string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[key]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return def, nil
}

// Definitions returns all definitions in registration order.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.defs[key])
	}
	return out
}

// Managed reports whether key falls under the registry's namespace.
func (r *Registry) Managed(key string) bool {
	return strings.HasPrefix(key, r.namespace)
}

// Ordinal resolves the ordinal of an enum variant.
func (r *Registry) Ordinal(key, variant string) (int, error) {
	def, err := r.Lookup(key)
	if err != nil {
		return 0, err
	}
	if def.Kind != KindEnum {
		return 0, fmt.Errorf("%w: %s is %s, not enum", ErrType, key, def.Kind)
	}
	n, ok := def.Ordinal(variant)
	if !ok {
		return 0, fmt.Errorf("%w: %s has no variant %q", ErrRange, key, variant)
	}
	return n, nil
}

// Normalize converts a value to the form the engine reads: enum variant names
// become ordinals and "true"/"false" on bool flags become 1/0.
// Anything else, including values of undeclared keys, is returned unchanged.
func (r *Registry) Normalize(key string, value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	def, err := r.Lookup(key)
	if err != nil {
		return value
	}
	switch def.Kind {
	case KindEnum:
		if n, found := def.Ordinal(s); found {
			return n
		}
	case KindBool:
		switch s {
		case "true":
			return 1
		case "false":
			return 0
		}
	}
	return value
}

// ValidateValue checks value against the definition of key.
// Keys outside the namespace are unmanaged and always pass.
// String flags accept any value.
func (r *Registry) ValidateValue(key string, value any) []error {
	if !r.Managed(key) {
		return nil
	}
	def, err := r.Lookup(key)
	if err != nil {
		return []error{&ValidationError{Key: key, Reason: "not declared in schema", Err: ErrUnknownFlag}}
	}
	if err := def.validate(value); err != nil {
		return []error{&ValidationError{Key: key, Reason: err.Error(), Value: value, Err: err}}
	}
	return nil
}

// ValidateMutation checks a flag instruction against the schema.
func (r *Registry) ValidateMutation(m domain.Mutation) []error {
	switch m.Op {
	case domain.MutationSet:
		return r.ValidateValue(m.Flag, m.Operand)
	case domain.MutationCompare:
		if !m.Operator.IsComparison() {
			return []error{&ValidationError{Key: m.Flag, Reason: fmt.Sprintf("%q is not a comparison", m.Operator), Err: ErrType}}
		}
		return r.ValidateValue(m.Flag, m.Operand)
	case domain.MutationIncrement:
		return r.validateIncrement(m)
	}
	return []error{&ValidationError{Key: m.Flag, Reason: fmt.Sprintf("unsupported operation %v", m.Op), Err: ErrType}}
}

// validateIncrement only checks kind and operand: the resulting value depends on runtime state.
func (r *Registry) validateIncrement(m domain.Mutation) []error {
	if !r.Managed(m.Flag) {
		return nil
	}
	def, err := r.Lookup(m.Flag)
	if err != nil {
		return []error{&ValidationError{Key: m.Flag, Reason: "not declared in schema", Err: ErrUnknownFlag}}
	}

	var errs []error
	if def.Kind != KindInt {
		errs = append(errs, &ValidationError{Key: m.Flag, Reason: fmt.Sprintf("cannot increment %s flag", def.Kind), Err: ErrType})
	}
	if !m.Operator.IsIncrement() {
		errs = append(errs, &ValidationError{Key: m.Flag, Reason: fmt.Sprintf("%q is not an increment operator", m.Operator), Err: ErrType})
	}
	if _, ok := toInt(m.Operand); !ok {
		errs = append(errs, &ValidationError{Key: m.Flag, Reason: "increment amount must be an integer", Value: m.Operand, Err: ErrType})
	}
	return errs
}
