// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/hanks-tank/config.yaml",
	"/etc/hanks-tank/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "COLLECTOR_CONFIG_PATH"

// envPrefix is stripped from environment variables before path mapping.
const envPrefix = "COLLECTOR_"

// sections are the known top-level config sections; the env transform uses
// them to split COLLECTOR_PIPELINE_MAX_ATTEMPTS into pipeline.max_attempts.
var sections = []string{"run", "source", "pipeline", "warehouse", "logging", "server"}

// defaultConfig returns a Config with production defaults. The Stats API
// is unauthenticated but informally throttled; the default budgets stay
// well under its tolerance.
func defaultConfig() *Config {
	return &Config{
		Run: RunConfig{
			StartDate: "",
			EndDate:   "",
			Season:    time.Now().Year(),
		},
		Source: SourceConfig{
			BaseURL: "https://statsapi.mlb.com/api/v1",
			Timeout: 30 * time.Second,
			Default: RateBudget{
				Requests: 10,
				Interval: time.Second,
				Burst:    5,
			},
			Budgets: map[string]RateBudget{
				"playbyplay": {Requests: 5, Interval: time.Second, Burst: 2},
				"stats":      {Requests: 5, Interval: time.Second, Burst: 2},
			},
			Cooldown: 60 * time.Second,
		},
		Pipeline: PipelineConfig{
			GameWorkers:    4,
			MaxAttempts:    3,
			InitialBackoff: time.Second,
			MaxBackoff:     time.Minute,
			JitterFraction: 0.1,
			MinRosterSize:  26,
		},
		Warehouse: WarehouseConfig{
			Path:      "/data/hanks-tank.duckdb",
			MaxMemory: "2GB",
			Threads:   0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Enabled: true,
			Addr:    ":8787",
		},
	}
}

// Load builds the configuration from defaults, optional YAML file, and
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps environment variable names to koanf config paths:
//
//	COLLECTOR_WAREHOUSE_PATH         -> warehouse.path
//	COLLECTOR_PIPELINE_MAX_ATTEMPTS  -> pipeline.max_attempts
//	COLLECTOR_RUN_START_DATE         -> run.start_date
//
// The first token selects the section; the remainder is the key.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	for _, s := range sections {
		if strings.HasPrefix(key, s+"_") {
			return s + "." + strings.TrimPrefix(key, s+"_")
		}
	}
	// Unknown prefix: leave as-is so it cannot silently shadow a section.
	return key
}
