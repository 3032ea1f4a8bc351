// Package config loads compiler settings: defaults, then an optional YAML file,
// then DRAMA_* environment variables. Command-line flags are applied last by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/drama/pkg/table"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "DRAMA_"

// Sink names accepted in Output.Sinks.
const (
	SinkFile  = "file"
	SinkXLSX  = "xlsx"
	SinkRedis = "redis"
)

// Config is the full compiler configuration.
type Config struct {
	// Schema is the flag schema YAML file.
	Schema string `yaml:"schema" env:"SCHEMA"`
	// Scenarios are scenario files or directories of *.yaml files.
	Scenarios []string `yaml:"scenarios" env:"SCENARIOS"`

	Locales   []string `yaml:"locales" env:"LOCALES"`
	Offset    int      `yaml:"offset" env:"OFFSET"`
	EntryStep string   `yaml:"entry_step" env:"ENTRY_STEP"`
	Builtins  []string `yaml:"builtins" env:"BUILTINS"`
	// RejectDuplicates makes reopening a step name fatal.
	RejectDuplicates bool `yaml:"reject_duplicates" env:"REJECT_DUPLICATES"`

	Output Output `yaml:"output" envPrefix:"OUTPUT_"`
	Redis  Redis  `yaml:"redis" envPrefix:"REDIS_"`
	Log    Log    `yaml:"log" envPrefix:"LOG_"`
	Serve  Serve  `yaml:"serve" envPrefix:"SERVE_"`
}

// Output selects where tables are written.
type Output struct {
	Sinks    []string `yaml:"sinks" env:"SINKS"`
	Dir      string   `yaml:"dir" env:"DIR"`
	Workbook string   `yaml:"workbook" env:"WORKBOOK"`
}

// Redis configures the redis sink and publish lock.
type Redis struct {
	Addr     string        `yaml:"addr" env:"ADDR"`
	Password string        `yaml:"password" env:"PASSWORD"`
	DB       int           `yaml:"db" env:"DB"`
	Prefix   string        `yaml:"prefix" env:"PREFIX"`
	TTL      time.Duration `yaml:"ttl" env:"TTL"`
}

// Log configures the logger.
type Log struct {
	Level string `yaml:"level" env:"LEVEL"`
	JSON  bool   `yaml:"json" env:"JSON"`
	File  string `yaml:"file" env:"FILE"`
}

// Serve configures the preview server.
type Serve struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Locales: []string{"ja=JP", "en=EN"},
		Offset:  table.DefaultOffset,
		Output: Output{
			Sinks: []string{SinkFile},
			Dir:   "build/drama",
		},
		Redis: Redis{
			Addr:   "localhost:6379",
			Prefix: "drama:sheet:",
		},
		Log:   Log{Level: "info"},
		Serve: Serve{Addr: ":8080"},
	}
}

// Load builds the configuration. A missing path is only an error when it was given explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := decodeYAML(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// Validate checks values that cannot be expressed by the types alone.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Layout(); err != nil {
		errs = append(errs, err)
	}
	if c.Offset < 1 {
		errs = append(errs, fmt.Errorf("offset must be at least 1, got %d", c.Offset))
	}
	for _, s := range c.Output.Sinks {
		switch s {
		case SinkFile, SinkXLSX, SinkRedis:
		default:
			errs = append(errs, fmt.Errorf("unknown sink %q", s))
		}
	}
	return errors.Join(errs...)
}

// Layout returns the table layout described by Locales and Offset.
func (c *Config) Layout() (table.Layout, error) {
	locales, err := table.ParseLocales(c.Locales)
	if err != nil {
		return table.Layout{}, fmt.Errorf("locales: %w", err)
	}
	return table.Layout{Locales: locales, Offset: c.Offset}, nil
}
