package main

import (
	"context"
	"os"

	"github.com/aretw0/drama"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [scenario...]",
	Short: "Check scenarios for structural defects and schema violations",
	Long: `Compiles every scenario without writing any table and reports undefined jump
targets, orphan and unterminated steps, duplicates and unreachable rows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		return runValidate(cmd.Context(), args, strict)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Exit 1 when any graph has warnings or schema violations")
}

func runValidate(ctx context.Context, args []string, strict bool) error {
	builders, _, err := parseScenarios(ctx, cfg, args)
	if err != nil {
		return err
	}

	results, err := drama.New(drama.WithLogger(logger)).CompileAll(ctx, builders)
	if err != nil {
		return err
	}

	printReport(os.Stdout, reports(results))
	if strict && findings(results) {
		return errFindings
	}
	return nil
}
