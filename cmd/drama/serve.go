package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/drama"
	"github.com/aretw0/drama/internal/metrics"
	"github.com/aretw0/drama/internal/validator"
	"github.com/aretw0/drama/internal/watch"
	httpAdapter "github.com/aretw0/drama/pkg/adapters/http"
	"github.com/aretw0/drama/pkg/adapters/memory"
	"github.com/aretw0/drama/pkg/domain"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [scenario...]",
	Short: "Start the preview server",
	Long: `Compiles the scenarios into memory and serves them over HTTP: sheets as TSV or
JSON, warnings, Mermaid graphs, the flag schema and Prometheus metrics. With --watch
scenarios are recompiled on save and subscribers of /events are notified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Serve.Addr, _ = cmd.Flags().GetString("addr")
		}
		watchMode, _ := cmd.Flags().GetBool("watch")
		return runServe(cmd.Context(), args, watchMode)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Listen address (default :8080)")
	serveCmd.Flags().BoolP("watch", "w", false, "Recompile scenarios when they change")
}

func runServe(ctx context.Context, args []string, watchMode bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := args
	if len(paths) == 0 {
		paths = cfg.Scenarios
	}

	// 1. Initial compile into the preview store
	builders, reg, err := parseScenarios(ctx, cfg, paths)
	if err != nil {
		return err
	}
	collector := metrics.New()
	entry := cfg.EntryStep
	if entry == "" {
		entry = domain.DefaultEntryStep
	}
	server := httpAdapter.NewServer(memory.NewStore(),
		httpAdapter.WithSchema(reg),
		httpAdapter.WithMetrics(collector.Handler()),
		httpAdapter.WithLogger(logger),
		httpAdapter.WithValidation(validator.Options{
			EntryStep: entry,
			Builtins:  append(domain.DefaultBuiltinTargets(), cfg.Builtins...),
		}),
	)
	c := drama.New(
		drama.WithSink("preview", server),
		drama.WithLifecycleHooks(collector.Hooks()),
		drama.WithLifecycleHooks(server.Hooks()),
		drama.WithLogger(logger),
	)
	if _, err := c.CompileAll(ctx, builders); err != nil {
		return err
	}

	// 2. Recompile on change
	if watchMode {
		watched := append([]string(nil), paths...)
		if cfg.Schema != "" {
			watched = append(watched, cfg.Schema)
		}
		changes, err := watch.Watch(ctx, watched)
		if err != nil {
			return err
		}
		go recompileOnChange(ctx, changes, paths, c, server)
	}

	// 3. Serve until interrupted
	srv := &http.Server{
		Addr:    cfg.Serve.Addr,
		Handler: server.Handler(),
	}
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting preview server", "addr", srv.Addr, "graphs", len(builders), "watch", watchMode)
		fmt.Fprintf(os.Stderr, "Serving %d graphs on %s\n", len(builders), srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down preview server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		return nil
	}
}

// recompileOnChange re-parses every scenario after each burst of edits.
// A broken edit is logged and the previous sheets stay served.
func recompileOnChange(ctx context.Context, changes <-chan string, paths []string, c *drama.Compiler, server *httpAdapter.Server) {
	for name := range changes {
		logger.Info("Change detected, recompiling", "file", name)
		builders, reg, err := parseScenarios(ctx, cfg, paths)
		if err != nil {
			logger.Error("Recompile failed", "error", err)
			continue
		}
		server.SetSchema(reg)
		if _, err := c.CompileAll(ctx, builders); err != nil {
			logger.Error("Publish failed", "error", err)
		}
	}
}
