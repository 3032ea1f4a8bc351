package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/dsl"
	"github.com/aretw0/drama/pkg/macro"
)

// ErrInvalidScenario is returned when a scenario document cannot be turned into builder calls.
var ErrInvalidScenario = errors.New("invalid scenario")

// Parser converts scenario documents into graph builders.
type Parser struct {
	macros  *macro.Registry
	options []dsl.Option
	logger  *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithMacros replaces the macro registry (default: macro.DefaultRegistry()).
func WithMacros(r *macro.Registry) Option {
	return func(p *Parser) {
		p.macros = r
	}
}

// WithBuilderOptions passes options to every builder the parser creates.
func WithBuilderOptions(opts ...dsl.Option) Option {
	return func(p *Parser) {
		p.options = append(p.options, opts...)
	}
}

// WithLogger sets the parser logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a new parser instance.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	if p.macros == nil {
		p.macros = macro.DefaultRegistry()
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p
}

// Parse decodes one scenario document and replays it into a new builder.
// fallbackName names the graph when the document does not.
func (p *Parser) Parse(data []byte, fallbackName string) (*dsl.Builder, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if doc.Graph == "" {
		doc.Graph = fallbackName
	}
	if doc.Graph == "" {
		return nil, fmt.Errorf("%w: graph name is required", ErrInvalidScenario)
	}
	return p.Build(doc)
}

// ParseFile parses a scenario file; the graph name defaults to the file's base name.
func (p *Parser) ParseFile(path string) (*dsl.Builder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	b, err := p.Parse(data, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// ParsePaths parses every scenario in paths. Directories contribute their
// *.yaml and *.yml files in lexical order.
func (p *Parser) ParsePaths(paths []string) ([]*dsl.Builder, error) {
	files, err := Collect(paths)
	if err != nil {
		return nil, err
	}
	builders := make([]*dsl.Builder, 0, len(files))
	for _, f := range files {
		b, err := p.ParseFile(f)
		if err != nil {
			return nil, err
		}
		builders = append(builders, b)
	}
	return builders, nil
}

// Collect expands directories into scenario files.
func Collect(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat scenario: %w", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read scenario dir: %w", err)
		}
		var found []string
		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
				found = append(found, filepath.Join(path, e.Name()))
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// Build replays a decoded document into a new builder.
// Builder panics (strict duplicate steps, too many text variants) are returned as errors.
func (p *Parser) Build(doc Document) (b *dsl.Builder, err error) {
	opts := append([]dsl.Option(nil), p.options...)
	if doc.Entry != "" {
		opts = append(opts, dsl.WithEntryStep(doc.Entry))
	}
	if len(doc.Builtins) > 0 {
		opts = append(opts, dsl.WithBuiltinTargets(doc.Builtins...))
	}
	b = dsl.New(doc.Graph, opts...)

	defer func() {
		if r := recover(); r != nil {
			b = nil
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", ErrInvalidScenario, e)
				return
			}
			err = fmt.Errorf("%w: %v", ErrInvalidScenario, r)
		}
	}()

	for i, n := range doc.Steps {
		switch {
		case n.Step != "" && n.Macro != "":
			return nil, fmt.Errorf("%w: node %d has both step and macro", ErrInvalidScenario, i)
		case n.Macro != "":
			gen, err := p.macros.Expand(b, n.Macro, n.With)
			if err != nil {
				return nil, fmt.Errorf("node %d (%s): %w", i, n.Macro, err)
			}
			p.logger.Debug("Macro expanded", "graph", doc.Graph, "kind", n.Macro, "entry", gen.Entry, "targets", len(gen.Targets))
		case n.Step != "":
			if err := p.step(b, n); err != nil {
				return nil, fmt.Errorf("step %s: %w", n.Step, err)
			}
		default:
			return nil, fmt.Errorf("%w: node %d has neither step nor macro", ErrInvalidScenario, i)
		}
	}
	return b, nil
}

func (p *Parser) step(b *dsl.Builder, n Node) error {
	s := b.Step(b.Label(n.Step))
	if n.Version != "" {
		s.Version(n.Version)
	}
	for i, op := range n.Ops {
		if c := op.count(); c != 1 {
			return fmt.Errorf("%w: op %d sets %d instructions", ErrInvalidScenario, i, c)
		}
		if err := apply(b, s, op); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
	}
	return nil
}

func apply(b *dsl.Builder, s *dsl.StepScope, op Op) error {
	switch {
	case op.Say != nil:
		opts, err := lineOptions(op.Say.Line)
		if err != nil {
			return err
		}
		s.Say(op.Say.ID, dsl.Text(op.Say.Text), opts...)
	case op.Choice != nil:
		if op.Choice.Target == "" {
			return fmt.Errorf("%w: choice without target", ErrInvalidScenario)
		}
		opts, err := lineOptions(op.Choice.Line)
		if err != nil {
			return err
		}
		if op.Choice.ID != "" {
			opts = append(opts, dsl.ID(op.Choice.ID))
		}
		s.Choice(b.Label(op.Choice.Target), dsl.Text(op.Choice.Text), opts...)
	case op.Jump != nil:
		s.Jump(b.Label(*op.Jump))
	case op.Cancel != nil:
		s.OnCancel(b.Label(*op.Cancel))
	case op.BranchIf != nil:
		o, err := comparison(op.BranchIf.Op)
		if err != nil {
			return err
		}
		s.BranchIf(op.BranchIf.Flag, o, op.BranchIf.Value, b.Label(op.BranchIf.Target))
	case op.SwitchFlag != nil:
		targets := make([]domain.Label, len(op.SwitchFlag.Cases))
		for i, c := range op.SwitchFlag.Cases {
			targets[i] = b.Label(c)
		}
		var fallback domain.Label
		if op.SwitchFlag.Fallback != "" {
			fallback = b.Label(op.SwitchFlag.Fallback)
		}
		s.SwitchFlag(op.SwitchFlag.Flag, targets, fallback)
	case op.SetFlag != nil:
		s.SetFlag(op.SetFlag.Flag, op.SetFlag.Value)
	case op.IncFlag != nil:
		amount, o := op.IncFlag.Amount, domain.OpAdd
		if amount < 0 {
			amount, o = -amount, domain.OpSub
		}
		s.IncrementFlag(op.IncFlag.Flag, o, amount)
	case op.Invoke != nil:
		s.Invoke(op.Invoke.Action, op.Invoke.Param)
	case op.Finish != nil:
		if *op.Finish {
			s.Finish()
		}
	case op.Version != nil:
		s.Version(*op.Version)
	}
	return nil
}

// lineOptions maps actor and conditions; the text id of a say is passed positionally.
func lineOptions(l Line) ([]dsl.LineOption, error) {
	var opts []dsl.LineOption
	if l.Actor != "" {
		opts = append(opts, dsl.As(domain.Actor{ID: l.Actor}))
	}
	if l.When != nil {
		c, err := condition(*l.When)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dsl.When(c))
	}
	if l.And != nil {
		c, err := condition(*l.And)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dsl.And(c))
	}
	return opts, nil
}

func condition(c Cond) (dsl.Condition, error) {
	if c.Raw != "" {
		return dsl.Raw(c.Raw), nil
	}
	op, err := comparison(c.Op)
	if err != nil {
		return dsl.Condition{}, err
	}
	return dsl.Flag(c.Flag, op, c.Value), nil
}

func comparison(s string) (domain.Operator, error) {
	op := domain.Operator(s)
	if !op.IsComparison() {
		return "", fmt.Errorf("%w: %q is not a comparison operator", ErrInvalidScenario, s)
	}
	return op, nil
}
