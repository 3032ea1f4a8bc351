package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Option configures the logger.
type Option func(*config)

type config struct {
	out    io.Writer
	json   bool
	file   string
	closer io.Closer
}

// WithOutput replaces Stderr as the console destination.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.out = w
	}
}

// WithJSON switches the console handler to JSON.
func WithJSON() Option {
	return func(c *config) {
		c.json = true
	}
}

// WithFile also writes JSON records to a rotating file.
func WithFile(path string) Option {
	return func(c *config) {
		c.file = path
	}
}

// New creates a configured application logger.
// It writes to Stderr (to separate from Stdout tables and reports).
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level, opts ...Option) *slog.Logger {
	l, _ := NewWithCloser(level, opts...)
	return l
}

// NewWithCloser is New, also returning a closer for the rotating file (no-op without one).
func NewWithCloser(level slog.Level, opts ...Option) (*slog.Logger, io.Closer) {
	c := &config{out: os.Stderr}
	for _, opt := range opts {
		opt(c)
	}

	hopts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Standardize 'error' key to 'err'
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}

	var console slog.Handler = slog.NewTextHandler(c.out, hopts)
	if c.json {
		console = slog.NewJSONHandler(c.out, hopts)
	}
	if c.file == "" {
		return slog.New(console), nopCloser{}
	}

	rotating := &lumberjack.Logger{
		Filename:   c.file,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return slog.New(fanout{console, slog.NewJSONHandler(rotating, hopts)}), rotating
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel accepts debug, info, warn and error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	err := l.UnmarshalText([]byte(s))
	return l, err
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
