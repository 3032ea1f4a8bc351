package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/drama"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [scenario...]",
	Short: "Compile scenarios and write their tables",
	Long: `Parses every scenario (files or directories of *.yaml), validates the graphs
and writes one table per graph to the configured sinks. Warnings never block output;
use --strict to exit 1 when any graph has findings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("out") {
			cfg.Output.Dir, _ = cmd.Flags().GetString("out")
		}
		if cmd.Flags().Changed("sink") {
			cfg.Output.Sinks, _ = cmd.Flags().GetStringSlice("sink")
		}
		if cmd.Flags().Changed("workbook") {
			cfg.Output.Workbook, _ = cmd.Flags().GetString("workbook")
		}
		strict, _ := cmd.Flags().GetBool("strict")
		force, _ := cmd.Flags().GetBool("force")
		return runBuild(cmd.Context(), args, strict, force)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("out", "o", "", "Output directory for the file sink")
	buildCmd.Flags().StringSlice("sink", nil, "Sinks to write: file, xlsx, redis")
	buildCmd.Flags().String("workbook", "", "Workbook path for the xlsx sink")
	buildCmd.Flags().Bool("strict", false, "Exit 1 when any graph has warnings or schema violations")
	buildCmd.Flags().Bool("force", false, "Rewrite sheets even when unchanged")
}

func runBuild(ctx context.Context, args []string, strict, force bool) error {

	// 1. Parse
	builders, _, err := parseScenarios(ctx, cfg, args)
	if err != nil {
		return err
	}

	// 2. Open sinks
	sinks, closer, err := sinkOptions(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	// 3. Compile and publish
	opts := append(sinks, drama.WithLogger(logger), drama.WithForceWrite(force))
	results, err := drama.New(opts...).CompileAll(ctx, builders)

	printReport(os.Stdout, reports(results))
	if err != nil {
		return err
	}
	if strict && findings(results) {
		return errFindings
	}
	fmt.Fprintf(os.Stderr, "Wrote %d graphs to %v\n", len(results), cfg.Output.Sinks)
	return nil
}
