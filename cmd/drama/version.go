package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/drama"
	"github.com/aretw0/drama/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of drama",
	Run: func(cmd *cobra.Command, args []string) {
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(cmd.OutOrStdout(), strings.TrimSpace(drama.Version))
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "drama version %s\n", strings.TrimSpace(drama.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print the banner")
}
