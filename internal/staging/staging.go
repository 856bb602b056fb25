// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

// Package staging buffers one work unit's fetched entities between
// validation and commit. Nothing in a buffer is visible to the warehouse
// until the buffer is taken and handed to the loader; a failed unit's
// buffer is discarded whole, so half-fetched units never leak rows.
package staging

import (
	"sync"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/models"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/warehouse"
)

// Buffer accumulates entities for one work unit. Safe for concurrent use,
// though a unit is normally staged by a single worker.
type Buffer struct {
	mu    sync.Mutex
	batch *warehouse.Batch
	taken bool
}

// NewGameBuffer creates a buffer for a game-scoped unit.
func NewGameBuffer(gameID int64) *Buffer {
	return &Buffer{batch: &warehouse.Batch{GameID: gameID}}
}

// NewDateBuffer creates a buffer for a date-scoped unit (stats,
// transactions, rosters, standings).
func NewDateBuffer() *Buffer {
	return &Buffer{batch: &warehouse.Batch{}}
}

// AddSchedule stages schedule entries.
func (b *Buffer) AddSchedule(entries ...models.ScheduleEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batch.Schedule = append(b.batch.Schedule, entries...)
}

// AddGame stages the unit's game record.
func (b *Buffer) AddGame(g *models.GameRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batch.Game = g
}

// AddEvents stages the game's pitch events.
func (b *Buffer) AddEvents(events ...models.PitchEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batch.Events = append(b.batch.Events, events...)
}

// AddPlayerStats stages player stat lines.
func (b *Buffer) AddPlayerStats(stats ...models.PlayerDateStat) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batch.PlayerStats = append(b.batch.PlayerStats, stats...)
}

// AddTeamStats stages team stat lines.
func (b *Buffer) AddTeamStats(stats ...models.TeamDateStat) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batch.TeamStats = append(b.batch.TeamStats, stats...)
}

// AddTransactions stages transaction records.
func (b *Buffer) AddTransactions(records ...models.TransactionRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batch.Transactions = append(b.batch.Transactions, records...)
}

// AddRoster stages one roster snapshot.
func (b *Buffer) AddRoster(snap *models.RosterSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batch.Rosters = append(b.batch.Rosters, snap)
}

// AddStandings stages standings lines.
func (b *Buffer) AddStandings(lines ...models.StandingsSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batch.Standings = append(b.batch.Standings, lines...)
}

// MarkPartial flags the staged batch as known-incomplete. The first
// reason recorded wins; later flags keep the original reason.
func (b *Buffer) MarkPartial(reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.batch.Partial {
		b.batch.Partial = true
		b.batch.PartialReason = reason
	}
}

// Partial reports whether the buffer has been flagged incomplete.
func (b *Buffer) Partial() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.batch.Partial
}

// Len returns the number of staged entities.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.batch.Schedule) + len(b.batch.Events) + len(b.batch.PlayerStats) +
		len(b.batch.TeamStats) + len(b.batch.Transactions) + len(b.batch.Rosters) +
		len(b.batch.Standings)
	if b.batch.Game != nil {
		n++
	}
	return n
}

// Take hands the staged batch to the caller and empties the buffer. The
// handoff happens at most once: a second Take returns nil, so a unit can
// never double-commit.
func (b *Buffer) Take() *warehouse.Batch {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.taken {
		return nil
	}
	b.taken = true
	batch := b.batch
	b.batch = &warehouse.Batch{GameID: batch.GameID}
	return batch
}

// Discard drops everything staged. The buffer stays usable for a retry.
func (b *Buffer) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batch = &warehouse.Batch{GameID: b.batch.GameID}
	b.taken = false
}
