package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/drama/internal/config"
	"github.com/aretw0/drama/internal/logging"
	"github.com/spf13/cobra"
)

// errFindings makes the process exit 1 after the report was printed.
var errFindings = errors.New("graph has findings")

var (
	cfgFile string
	cfg     *config.Config
	logger  = logging.NewNop()
	closer  io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "drama",
	Short: "drama compiles dialogue graphs into engine tables",
	Long: `drama turns YAML scenarios and flag schemas into the fixed-column dialogue
tables the game engine loads, reporting structural defects and schema violations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closer != nil {
			closer.Close()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default: drama.yaml if present)")
	rootCmd.PersistentFlags().String("schema", "", "Flag schema YAML file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON")
	rootCmd.PersistentFlags().Bool("reject-duplicates", false, "Fail when a step name is opened twice")
}

// setup resolves configuration (defaults, file, env, flags) and the logger.
func setup(cmd *cobra.Command) error {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("drama.yaml"); err == nil {
			path = "drama.yaml"
		}
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("schema") {
		c.Schema, _ = flags.GetString("schema")
	}
	if flags.Changed("log-level") {
		c.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-json") {
		c.Log.JSON, _ = flags.GetBool("log-json")
	}
	if flags.Changed("reject-duplicates") {
		c.RejectDuplicates, _ = flags.GetBool("reject-duplicates")
	}

	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	opts := []logging.Option{}
	if c.Log.JSON {
		opts = append(opts, logging.WithJSON())
	}
	if c.Log.File != "" {
		opts = append(opts, logging.WithFile(c.Log.File))
	}
	var l *slog.Logger
	l, closer = logging.NewWithCloser(level, opts...)

	cfg, logger = c, l
	logger.Debug("Configuration loaded", "file", path, "sinks", cfg.Output.Sinks)
	return nil
}
