package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/drama"
	"github.com/aretw0/drama/internal/compiler"
	"github.com/aretw0/drama/internal/config"
	"github.com/aretw0/drama/internal/presentation/tui"
	"github.com/aretw0/drama/pkg/adapters/file"
	"github.com/aretw0/drama/pkg/adapters/redis"
	"github.com/aretw0/drama/pkg/adapters/xlsx"
	"github.com/aretw0/drama/pkg/dsl"
	"github.com/aretw0/drama/pkg/flags"
)

// loadSchema returns the configured flag schema, or an empty one.
func loadSchema(ctx context.Context, c *config.Config) (*flags.Registry, error) {
	if c.Schema == "" {
		return flags.NewRegistry(flags.DefaultNamespace), nil
	}
	reg, err := flags.FileSource{Path: c.Schema}.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return reg, nil
}

// builderOptions maps configuration onto every graph builder.
func builderOptions(c *config.Config, reg *flags.Registry) ([]dsl.Option, error) {
	layout, err := c.Layout()
	if err != nil {
		return nil, err
	}
	opts := []dsl.Option{
		dsl.WithRegistry(reg),
		dsl.WithLayout(layout),
		dsl.WithLogger(logger),
	}
	if c.EntryStep != "" {
		opts = append(opts, dsl.WithEntryStep(c.EntryStep))
	}
	if len(c.Builtins) > 0 {
		opts = append(opts, dsl.WithBuiltinTargets(c.Builtins...))
	}
	if c.RejectDuplicates {
		opts = append(opts, dsl.WithDuplicateSteps(dsl.RejectDuplicates))
	}
	return opts, nil
}

// parseScenarios loads the schema and parses the scenarios named by args,
// falling back to the configured scenario paths.
func parseScenarios(ctx context.Context, c *config.Config, args []string) ([]*dsl.Builder, *flags.Registry, error) {
	paths := args
	if len(paths) == 0 {
		paths = c.Scenarios
	}
	if len(paths) == 0 {
		return nil, nil, errors.New("no scenarios given: pass paths or set scenarios in the config")
	}

	reg, err := loadSchema(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	opts, err := builderOptions(c, reg)
	if err != nil {
		return nil, nil, err
	}
	p := compiler.NewParser(
		compiler.WithBuilderOptions(opts...),
		compiler.WithLogger(logger),
	)
	builders, err := p.ParsePaths(paths)
	if err != nil {
		return nil, nil, err
	}
	return builders, reg, nil
}

// sinkOptions opens the configured outputs. The returned closer releases network clients.
func sinkOptions(c *config.Config) ([]drama.Option, io.Closer, error) {
	var opts []drama.Option
	var closers multiCloser
	for _, name := range c.Output.Sinks {
		switch name {
		case config.SinkFile:
			s := file.New(c.Output.Dir)
			s.Offset = c.Offset
			opts = append(opts, drama.WithSink(name, s))
		case config.SinkXLSX:
			if c.Output.Workbook == "" {
				return nil, nil, errors.New("xlsx sink needs output.workbook")
			}
			s := xlsx.New(c.Output.Workbook)
			s.Offset = c.Offset
			opts = append(opts, drama.WithSink(name, s))
		case config.SinkRedis:
			s := redis.New(c.Redis.Addr, c.Redis.Password, c.Redis.DB,
				redis.WithPrefix(c.Redis.Prefix),
				redis.WithTTL(c.Redis.TTL),
			)
			closers = append(closers, s)
			opts = append(opts,
				drama.WithSink(name, s),
				drama.WithLocker(redis.NewLocker(s.Client(), c.Redis.Prefix), drama.DefaultLockTTL),
			)
		default:
			return nil, nil, fmt.Errorf("unknown sink %q", name)
		}
	}
	return opts, closers, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var errs []error
	for _, c := range m {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func reports(results []*dsl.Result) []tui.Report {
	out := make([]tui.Report, 0, len(results))
	for _, r := range results {
		out = append(out, tui.Report{
			Graph:      r.Graph,
			Rows:       len(r.Entries),
			Warnings:   r.Warnings,
			Violations: r.Violations,
		})
	}
	return out
}

// printReport writes the summary and, when anything was found, the findings table.
// On a terminal the table is rendered with glamour.
func printReport(w io.Writer, rs []tui.Report) {
	fmt.Fprint(w, tui.Summary(rs))

	clean := true
	for _, r := range rs {
		clean = clean && r.Clean()
	}
	if clean {
		return
	}

	md := tui.Markdown(rs)
	if f, ok := w.(*os.File); ok && tui.IsTerminal(f) {
		if out, err := tui.NewRenderer()(md); err == nil {
			md = out
		}
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, md)
}

// findings reports whether any result should fail a strict run.
func findings(results []*dsl.Result) bool {
	for _, r := range results {
		if !r.Clean() {
			return true
		}
	}
	return false
}
