// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

// Package sources fetches and normalizes MLB Stats API feeds.
//
// StatsClient owns HTTP transport and failure classification; BreakerClient
// adds circuit breaker protection. Both satisfy Client, which the pipeline
// consumes so tests can substitute fakes.
package sources

import (
	"context"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/models"
)

// Client is the fetch surface the pipeline depends on. Implemented by
// StatsClient for direct access and BreakerClient for production use.
type Client interface {
	Schedule(ctx context.Context, start, end string) ([]models.ScheduleEntry, error)
	Game(ctx context.Context, gameID int64) (*models.GameRecord, error)
	PlayByPlay(ctx context.Context, gameID int64) ([]models.PitchEvent, error)
	PlayerStats(ctx context.Context, date string) ([]models.PlayerDateStat, error)
	TeamStats(ctx context.Context, date string) ([]models.TeamDateStat, error)
	Transactions(ctx context.Context, start, end string) ([]models.TransactionRecord, error)
	Roster(ctx context.Context, teamID int, date string) (*models.RosterSnapshot, error)
	Standings(ctx context.Context, date string) ([]models.StandingsSnapshot, error)
}

var (
	_ Client = (*StatsClient)(nil)
	_ Client = (*BreakerClient)(nil)
)
