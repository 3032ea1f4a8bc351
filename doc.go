/*
Package drama compiles branching dialogue graphs ("dramas") into the flat,
fixed-column tables a game engine's data-driven loader consumes.

A graph is built with the fluent API in pkg/dsl, or generated in bulk by the
macros in pkg/macro, or parsed from YAML scenario files by the drama CLI.
Finalizing a graph runs the structural validator; flag mutations are checked
against the schema in pkg/flags as they are written. Neither kind of finding
blocks output: the Compiler always serializes the rows and leaves pass/fail
decisions to the caller.

# Usage

	reg := flags.NewRegistry(flags.DefaultNamespace)
	reg.MustRegister(flags.IntRange("drama.trust", 0, 10))

	b := dsl.New("guide", dsl.WithRegistry(reg))
	b.Step(b.Label("main")).
		Say("greet", dsl.T("ようこそ", "Welcome")).
		Choice(b.Label("tour"), dsl.T("案内して", "Show me around")).
		OnCancel(b.Label("_bye"))
	b.Step(b.Label("tour")).
		IncrementFlag("drama.trust", domain.OpAdd, 1).
		Finish()

	c := drama.New(drama.WithSink("file", file.New("build/drama")))
	res, err := c.Compile(ctx, b)

# Sinks

Tables can be written as TSV files (pkg/adapters/file), spreadsheet sheets
(pkg/adapters/xlsx), redis lists for hot-reload tooling (pkg/adapters/redis)
or kept in memory (pkg/adapters/memory). Sinks that can read their sheets back
are diffed first and identical sheets are not rewritten.
*/
package drama
