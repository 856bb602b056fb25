// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WorkState tracks a WorkUnit through its lifecycle within one run.
//
// Happy path:   pending → fetching → validating → staged → committed
// Failure path: pending → fetching → failed → {retryable | dead}
type WorkState string

const (
	UnitPending    WorkState = "pending"
	UnitFetching   WorkState = "fetching"
	UnitValidating WorkState = "validating"
	UnitStaged     WorkState = "staged"
	UnitCommitted  WorkState = "committed"
	UnitFailed     WorkState = "failed"
	UnitRetryable  WorkState = "retryable"
	UnitDead       WorkState = "dead"
)

// Terminal reports whether the state ends the unit's lifecycle for this run.
func (s WorkState) Terminal() bool {
	return s == UnitCommitted || s == UnitDead
}

// WorkUnit is the pipeline's schedulable unit: one (date, game) pair, or a
// date-scoped unit (stats, transactions, rosters, standings) when GameID
// is zero. A WorkUnit lives for one run; retry state that must survive a
// run is persisted through the dead-letter store, not here.
type WorkUnit struct {
	Date     string    `json:"date"`
	GameID   int64     `json:"game_id,omitempty"` // 0 for date-scoped units
	Kind     string    `json:"kind"`              // "game", "stats", "transactions", "rosters", "standings"
	State    WorkState `json:"state"`
	Attempts int       `json:"attempts"`
	LastErr  string    `json:"last_error,omitempty"`
}

// Key returns the unit's stable identity within a run.
func (u *WorkUnit) Key() string {
	if u.GameID != 0 {
		return fmt.Sprintf("%s/%s/%d", u.Date, u.Kind, u.GameID)
	}
	return fmt.Sprintf("%s/%s", u.Date, u.Kind)
}

// RunLog is the persisted summary of one pipeline run over a date range.
type RunLog struct {
	RunID        uuid.UUID `json:"run_id"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	GamesDone    int       `json:"games_committed"`
	GamesPartial int       `json:"games_partial"`
	EventsDone   int       `json:"events_committed"`
	StatsDone    int       `json:"stats_committed"`
	UnitsDead    int       `json:"units_dead"`
	UnitsSkipped int       `json:"units_skipped"` // already complete per oracle
	Cancelled    bool      `json:"cancelled"`
}
