// Package watch reports edits to scenario and schema files.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 150 * time.Millisecond

type config struct {
	debounce   time.Duration
	extensions []string
}

// Option configures Watch.
type Option func(*config)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(c *config) {
		c.debounce = d
	}
}

// WithExtensions limits directory watches to files with these extensions.
func WithExtensions(exts ...string) Option {
	return func(c *config) {
		c.extensions = exts
	}
}

// Watch emits the path of the last changed file after each burst of changes.
// Directories are watched non-recursively; single files are watched through
// their parent directory so atomic replace-on-save is seen.
// The channel is closed when ctx is done.
func Watch(ctx context.Context, paths []string, opts ...Option) (<-chan string, error) {
	cfg := config{
		debounce:   DefaultDebounce,
		extensions: []string{".yaml", ".yml"},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	dirs := make(map[string]bool)
	files := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		dir := p
		if info.IsDir() {
			dirs[p] = true
		} else {
			files[p] = true
			dir = filepath.Dir(p)
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	match := func(name string) bool {
		name = filepath.Clean(name)
		if files[name] {
			return true
		}
		return dirs[filepath.Dir(name)] && slices.Contains(cfg.extensions, filepath.Ext(name))
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		defer w.Close()

		timer := time.NewTimer(cfg.debounce)
		timer.Stop()
		var pending string

		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-w.Events:
				if !ok {
					return
				}
				if evt.Op == fsnotify.Chmod || !match(evt.Name) {
					continue
				}
				pending = evt.Name
				timer.Reset(cfg.debounce)
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			case <-timer.C:
				select {
				case ch <- pending:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
