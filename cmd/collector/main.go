// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

// Command collector runs one MLB data collection pass over a date range
// and lands it in the embedded DuckDB warehouse.
//
// The range comes from config (run.start_date / run.end_date, inclusive);
// with neither set, the collector processes the current date. While the
// run is active, an optional operator API serves health, metrics, run
// history, and dead-letter inspection.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/api"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/config"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/logging"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/pipeline"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/sources"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/warehouse"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := warehouse.New(&cfg.Warehouse)
	if err != nil {
		logging.Error().Err(err).Str("path", cfg.Warehouse.Path).Msg("Failed to open warehouse")
		return 1
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logging.Error().Err(cerr).Msg("Failed to close warehouse")
		}
	}()

	var srv *api.Server
	if cfg.Server.Enabled {
		srv = api.NewServer(&cfg.Server, db)
		go func() {
			if serr := srv.Start(); serr != nil {
				logging.Error().Err(serr).Msg("Operator API failed")
			}
		}()
	}

	client := sources.NewBreakerClient(&cfg.Source)
	p := pipeline.New(cfg, client, db)

	start, end := resolveDates(&cfg.Run)
	summary, err := p.Run(ctx, start, end)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			logging.Error().Err(serr).Msg("Operator API shutdown failed")
		}
	}

	if err != nil {
		logging.Error().Err(err).Msg("Collection run failed")
		return 1
	}
	if summary.Cancelled {
		logging.Warn().Str("run_id", summary.RunID.String()).Msg("Collection run interrupted")
		return 130
	}
	if summary.UnitsDead > 0 {
		// Partial success: data landed, but dead letters need attention.
		return 2
	}
	return 0
}

// resolveDates fills in the configured range, defaulting both ends to
// today (UTC) and an empty end date to the start date.
func resolveDates(cfg *config.RunConfig) (string, string) {
	start := cfg.StartDate
	if start == "" {
		start = time.Now().UTC().Format("2006-01-02")
	}
	end := cfg.EndDate
	if end == "" {
		end = start
	}
	return start, end
}
