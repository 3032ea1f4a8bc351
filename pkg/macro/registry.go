package macro

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/drama/pkg/dsl"
	"github.com/mitchellh/mapstructure"
)

// Expander expands one declarative macro record into builder calls.
type Expander func(b *dsl.Builder, raw map[string]any) (Generated, error)

// Registry maps macro kinds to expanders.
type Registry struct {
	mu        sync.RWMutex
	expanders map[string]Expander
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		expanders: make(map[string]Expander),
	}
}

// DefaultRegistry returns a registry with the built-in macros.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("quest_board", Typed(BuildQuestBoard))
	r.Register("ranked_trial", Typed(BuildRankedTrial))
	r.Register("menu", Typed(BuildMenu))
	r.Register("stage_select", Typed(BuildStageSelect))
	return r
}

// Register adds an expander.
// If a macro with the same kind exists, it is overwritten.
func (r *Registry) Register(kind string, fn Expander) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expanders[kind] = fn
}

// Kinds lists registered macro kinds, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.expanders))
	for k := range r.expanders {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Expand looks up a macro by kind and runs it against the builder.
// Returns ErrUnknownMacro if the kind is not registered.
func (r *Registry) Expand(b *dsl.Builder, kind string, raw map[string]any) (Generated, error) {
	r.mu.RLock()
	fn, ok := r.expanders[kind]
	r.mu.RUnlock()

	if !ok {
		return Generated{}, fmt.Errorf("%w: %s", ErrUnknownMacro, kind)
	}
	return fn(b, raw)
}

// Typed adapts a macro taking a typed definition into an Expander.
func Typed[T any](build func(*dsl.Builder, T) (Generated, error)) Expander {
	return func(b *dsl.Builder, raw map[string]any) (Generated, error) {
		def, err := Decode[T](raw)
		if err != nil {
			return Generated{}, err
		}
		return build(b, def)
	}
}

// Decode converts a raw record into a definition.
// Unknown keys are rejected.
func Decode[T any](raw map[string]any) (T, error) {
	var def T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &def,
	})
	if err != nil {
		return def, err
	}
	if err := dec.Decode(raw); err != nil {
		return def, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return def, nil
}
