package drama

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/dsl"
	"github.com/aretw0/drama/pkg/ports"
	"github.com/aretw0/drama/pkg/table"
)

// DefaultLockTTL bounds how long a sheet stays locked if the writer dies mid-publish.
const DefaultLockTTL = 30 * time.Second

// Compiler finalizes graphs and publishes their tables to the configured sinks.
type Compiler struct {
	sinks   []namedSink
	hooks   []domain.LifecycleHooks
	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
	force   bool
}

type namedSink struct {
	name string
	sink ports.Sink
}

// Option defines a functional option for configuring the Compiler.
type Option func(*Compiler)

// WithSink adds an output. Sinks are written in the order they were added.
func WithSink(name string, s ports.Sink) Option {
	return func(c *Compiler) {
		c.sinks = append(c.sinks, namedSink{name: name, sink: s})
	}
}

// WithLifecycleHooks registers observability hooks.
// It can be given several times; hooks fire in registration order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Compiler) {
		c.hooks = append(c.hooks, hooks)
	}
}

// WithLocker serializes publishing of a sheet across processes.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(c *Compiler) {
		c.locker = l
		c.lockTTL = ttl
	}
}

// WithLogger sets a custom structured logger for the compiler.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithForceWrite writes every sheet even when the stored copy is identical.
func WithForceWrite(force bool) Option {
	return func(c *Compiler) {
		c.force = force
	}
}

// New creates a compiler. Without sinks Compile only validates.
func New(opts ...Option) *Compiler {
	c := &Compiler{lockTTL: DefaultLockTTL}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Compile finalizes the graph and writes its table to every sink.
// Warnings and schema violations never fail a compile; they are reported in the Result.
// The returned error joins the failures of individual sinks; the Result is always set.
func (c *Compiler) Compile(ctx context.Context, b *dsl.Builder) (*dsl.Result, error) {
	start := time.Now()
	res := b.Finalize()

	built := &domain.BuildEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventBuild,
			Graph:     res.Graph,
		},
		EntryStep:  string(b.EntryStep()),
		Rows:       len(res.Entries),
		Warnings:   res.Warnings,
		Violations: len(res.Violations),
		Duration:   time.Since(start),
	}
	for _, h := range c.hooks {
		if h.OnBuild != nil {
			h.OnBuild(ctx, built)
		}
	}
	c.logger.Info("Graph compiled", "graph", res.Graph, "rows", len(res.Entries), "warnings", len(res.Warnings), "violations", len(res.Violations))

	tbl := res.Table()
	var errs []error
	for _, s := range c.sinks {
		if err := c.publish(ctx, s, res, tbl); err != nil {
			errs = append(errs, fmt.Errorf("sink %s: %w", s.name, err))
		}
	}
	return res, errors.Join(errs...)
}

// CompileAll compiles every builder, continuing past sink failures.
func (c *Compiler) CompileAll(ctx context.Context, builders []*dsl.Builder) ([]*dsl.Result, error) {
	results := make([]*dsl.Result, 0, len(builders))
	var errs []error
	for _, b := range builders {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := c.Compile(ctx, b)
		results = append(results, res)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return results, errors.Join(errs...)
}

func (c *Compiler) publish(ctx context.Context, s namedSink, res *dsl.Result, tbl *table.Table) (err error) {
	start := time.Now()
	event := &domain.WriteEvent{
		EventBase: domain.EventBase{Type: domain.EventWrite, Graph: res.Graph},
		Sink:      s.name,
		Changes:   -1,
	}
	defer func() {
		event.Err = err
		event.Timestamp = time.Now()
		event.Duration = time.Since(start)
		for _, h := range c.hooks {
			if h.OnWrite != nil {
				h.OnWrite(ctx, event)
			}
		}
	}()

	// 1. Serialize writers of the same sheet
	if c.locker != nil {
		unlock, err := c.locker.Lock(ctx, res.Graph, c.lockTTL)
		if err != nil {
			return fmt.Errorf("lock sheet: %w", err)
		}
		defer func() {
			if uerr := unlock(context.WithoutCancel(ctx)); uerr != nil {
				c.logger.Warn("Failed to release sheet lock", "graph", res.Graph, "error", uerr)
			}
		}()
	}

	// 2. Compare with the stored copy when the sink can read it back
	if store, ok := s.sink.(ports.SheetStore); ok {
		event.Changes = c.changes(ctx, store, res, tbl)
		if event.Changes == 0 && !c.force {
			event.Skipped = true
			c.logger.Debug("Sheet unchanged", "graph", res.Graph, "sink", s.name)
			return nil
		}
	}

	// 3. Write
	if err := s.sink.Write(ctx, res.Graph, tbl); err != nil {
		return err
	}
	c.logger.Debug("Sheet written", "graph", res.Graph, "sink", s.name, "changes", event.Changes)
	return nil
}

// changes returns the number of differing rows, or -1 when the stored copy cannot be read.
func (c *Compiler) changes(ctx context.Context, store ports.SheetStore, res *dsl.Result, tbl *table.Table) int {
	old, err := store.Read(ctx, res.Graph)
	if err != nil {
		if !errors.Is(err, domain.ErrSheetNotFound) {
			c.logger.Warn("Failed to read stored sheet", "graph", res.Graph, "error", err)
		}
		return -1
	}
	if old.Offset != tbl.Offset || !slices.Equal(old.Header, tbl.Header) {
		return -1
	}
	entries, err := table.Decode(old)
	if err != nil {
		return -1
	}
	return len(domain.Diff(entries, res.Entries))
}
