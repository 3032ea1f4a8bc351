package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/drama/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <scenario>",
	Short: "Export a graph as a Mermaid diagram",
	Long: `Compiles the scenario and outputs a Mermaid flowchart of its steps, with
warnings highlighted and undefined targets drawn as missing nodes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("graph")
		return runGraph(cmd.Context(), args[0], name)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("graph", "", "Graph to export when the path holds several scenarios")
}

func runGraph(ctx context.Context, path, name string) error {
	builders, _, err := parseScenarios(ctx, cfg, []string{path})
	if err != nil {
		return err
	}

	for _, b := range builders {
		if name != "" && b.Name() != name {
			continue
		}
		res := b.Finalize()
		fmt.Fprint(os.Stdout, graph.GenerateMermaid(res.Entries, &graph.Overlay{
			EntryStep: string(b.EntryStep()),
			Warnings:  res.Warnings,
		}))
		return nil
	}
	return fmt.Errorf("graph %q not found in %s", name, path)
}
