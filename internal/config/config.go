// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

// Package config defines the collector configuration and its koanf-based
// loader. Configuration is layered, highest priority last:
//
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or COLLECTOR_CONFIG_PATH)
//  3. Environment variables with the COLLECTOR_ prefix
//
// Example: COLLECTOR_WAREHOUSE_PATH overrides warehouse.path.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for one collector process.
type Config struct {
	Run       RunConfig       `koanf:"run"`
	Source    SourceConfig    `koanf:"source"`
	Pipeline  PipelineConfig  `koanf:"pipeline"`
	Warehouse WarehouseConfig `koanf:"warehouse"`
	Logging   LoggingConfig   `koanf:"logging"`
	Server    ServerConfig    `koanf:"server"`
}

// RunConfig carries the date range the invoking scheduler supplies.
// Both dates are inclusive, YYYY-MM-DD. When both are empty the collector
// processes the current date.
type RunConfig struct {
	StartDate string `koanf:"start_date"`
	EndDate   string `koanf:"end_date"`
	Season    int    `koanf:"season"`
}

// SourceConfig configures the upstream MLB Stats API client.
type SourceConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	// Budgets maps a source name (schedule, game, playbyplay, stats,
	// transactions, rosters, standings) to its request budget. A source
	// without an entry falls back to Default.
	Budgets map[string]RateBudget `koanf:"budgets"`
	Default RateBudget            `koanf:"default_budget"`

	// Cooldown is the forced wait imposed on a source after it signals a
	// rate-limit rejection (HTTP 429).
	Cooldown time.Duration `koanf:"cooldown"`
}

// RateBudget is a per-source requests-per-interval budget.
type RateBudget struct {
	Requests int           `koanf:"requests"`
	Interval time.Duration `koanf:"interval"`
	Burst    int           `koanf:"burst"`
}

// PipelineConfig tunes concurrency and retry behavior for one run.
type PipelineConfig struct {
	// GameWorkers bounds concurrent per-game work units.
	GameWorkers int `koanf:"game_workers"`

	// MaxAttempts bounds retries per logical request for transient and
	// rate-limited failures; exhausting it dead-letters the unit.
	MaxAttempts int `koanf:"max_attempts"`

	// InitialBackoff/MaxBackoff bound the exponential backoff curve.
	InitialBackoff time.Duration `koanf:"initial_backoff"`
	MaxBackoff     time.Duration `koanf:"max_backoff"`

	// JitterFraction randomizes each backoff delay (0.0-1.0).
	JitterFraction float64 `koanf:"jitter_fraction"`

	// MinRosterSize is the validation floor below which a roster snapshot
	// is flagged incomplete.
	MinRosterSize int `koanf:"min_roster_size"`
}

// WarehouseConfig configures the embedded DuckDB warehouse.
type WarehouseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// LoggingConfig configures the global zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ServerConfig configures the read-only operator surface
// (/healthz, /metrics, dead-letter inspection).
type ServerConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// Validate checks invariants the loader cannot express through types.
func (c *Config) Validate() error {
	if c.Source.BaseURL == "" {
		return fmt.Errorf("source.base_url must not be empty")
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive, got %s", c.Source.Timeout)
	}
	if err := c.Source.Default.validate("source.default_budget"); err != nil {
		return err
	}
	for name, b := range c.Source.Budgets {
		if err := b.validate("source.budgets." + name); err != nil {
			return err
		}
	}
	if c.Pipeline.GameWorkers <= 0 {
		return fmt.Errorf("pipeline.game_workers must be positive, got %d", c.Pipeline.GameWorkers)
	}
	if c.Pipeline.MaxAttempts <= 0 {
		return fmt.Errorf("pipeline.max_attempts must be positive, got %d", c.Pipeline.MaxAttempts)
	}
	if c.Pipeline.InitialBackoff <= 0 || c.Pipeline.MaxBackoff < c.Pipeline.InitialBackoff {
		return fmt.Errorf("pipeline backoff bounds invalid: initial=%s max=%s",
			c.Pipeline.InitialBackoff, c.Pipeline.MaxBackoff)
	}
	if c.Pipeline.JitterFraction < 0 || c.Pipeline.JitterFraction > 1 {
		return fmt.Errorf("pipeline.jitter_fraction must be in [0,1], got %f", c.Pipeline.JitterFraction)
	}
	if c.Warehouse.Path == "" {
		return fmt.Errorf("warehouse.path must not be empty")
	}
	if c.Run.StartDate != "" {
		if _, err := time.Parse("2006-01-02", c.Run.StartDate); err != nil {
			return fmt.Errorf("run.start_date invalid: %w", err)
		}
	}
	if c.Run.EndDate != "" {
		if _, err := time.Parse("2006-01-02", c.Run.EndDate); err != nil {
			return fmt.Errorf("run.end_date invalid: %w", err)
		}
	}
	if c.Run.StartDate != "" && c.Run.EndDate != "" && c.Run.EndDate < c.Run.StartDate {
		return fmt.Errorf("run.end_date %s precedes run.start_date %s", c.Run.EndDate, c.Run.StartDate)
	}
	return nil
}

func (b RateBudget) validate(path string) error {
	if b.Requests <= 0 {
		return fmt.Errorf("%s.requests must be positive, got %d", path, b.Requests)
	}
	if b.Interval <= 0 {
		return fmt.Errorf("%s.interval must be positive, got %s", path, b.Interval)
	}
	if b.Burst < 0 {
		return fmt.Errorf("%s.burst must be non-negative, got %d", path, b.Burst)
	}
	return nil
}
