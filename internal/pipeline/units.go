// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

/*
units.go - Per-unit collection logic

One function per unit kind. Every unit follows the same shape: fetch under
retry, validate, stage, commit. A unit that cannot produce a committable
batch is dead-lettered; validation rejections are permanent and skip the
retry loop entirely.
*/

//nolint:staticcheck // File documentation, not package doc
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/dlq"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/logging"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/metrics"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/models"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/staging"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/validation"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/warehouse"
)

// collectSchedule fetches, validates, and commits the day's schedule, and
// returns the surviving entries as the fan-out list. A dead schedule unit
// aborts the date: without it there is nothing to fan out.
func (p *Pipeline) collectSchedule(ctx context.Context, date string, t *tally) ([]models.ScheduleEntry, error) {
	unit := &models.WorkUnit{Date: date, Kind: "schedule", State: models.UnitFetching}

	var entries []models.ScheduleEntry
	err := p.fetchWithRetry(ctx, unit, "schedule", func(ctx context.Context) error {
		var ferr error
		entries, ferr = p.client.Schedule(ctx, date, date)
		return ferr
	})
	if err != nil {
		if isCancellation(err) {
			return nil, err
		}
		p.buryUnit(ctx, unit, err, t)
		return nil, fmt.Errorf("schedule unit dead for %s: %w", date, err)
	}

	unit.State = models.UnitValidating
	valid := entries[:0]
	for i := range entries {
		if rep := validation.CheckSchedule(&entries[i]); rep.Rejected() {
			logging.Warn().
				Int64("game_id", entries[i].GameID).
				Str("date", date).
				Str("reason", rep.Reason()).
				Msg("Dropping rejected schedule entry")
			continue
		}
		valid = append(valid, entries[i])
	}

	if len(valid) > 0 {
		if err := p.db.CommitBatch(ctx, &warehouse.Batch{Schedule: valid}); err != nil {
			if isCancellation(err) {
				return nil, err
			}
			p.buryUnit(ctx, unit, err, t)
			return nil, fmt.Errorf("schedule commit failed for %s: %w", date, err)
		}
	}
	unit.State = models.UnitCommitted
	metrics.UnitsProcessed.WithLabelValues(unit.Kind, string(models.UnitCommitted)).Inc()
	logging.Info().Str("date", date).Int("games", len(valid)).Msg("Schedule committed")
	return valid, nil
}

// processGameUnit collects one game: the full record plus play-by-play.
//
// When any piece of the game is permanently unavailable the unit still
// commits whatever it can as a partial batch, so the warehouse keeps at
// least the schedule-level GameRecord, and the unit is dead-lettered for a
// later run. Only validation rejection of the record itself discards the
// whole batch.
func (p *Pipeline) processGameUnit(ctx context.Context, entry models.ScheduleEntry, t *tally) error {
	unit := &models.WorkUnit{
		Date:   entry.Date,
		GameID: entry.GameID,
		Kind:   "game",
		State:  models.UnitFetching,
	}
	buf := staging.NewGameBuffer(entry.GameID)

	var deadErr error

	var game *models.GameRecord
	err := p.fetchWithRetry(ctx, unit, "game", func(ctx context.Context) error {
		var ferr error
		game, ferr = p.client.Game(ctx, entry.GameID)
		return ferr
	})
	if err != nil {
		if isCancellation(err) {
			return err
		}
		deadErr = err
		game = scheduleOnlyRecord(&entry)
		buf.MarkPartial("game feed unavailable: " + err.Error())
	}

	unit.State = models.UnitValidating
	rep := validation.CheckGame(game)
	if rep.Rejected() {
		verr := fmt.Errorf("%w: %s", dlq.ErrValidationRejected, rep.Reason())
		buf.Discard()
		p.buryUnit(ctx, unit, verr, t)
		return nil
	}
	if !rep.Passed() {
		buf.MarkPartial(rep.Reason())
	}
	buf.AddGame(game)

	// Play-by-play is only worth asking for when the feed itself answered.
	if deadErr == nil {
		var events []models.PitchEvent
		err := p.fetchWithRetry(ctx, unit, "playbyplay", func(ctx context.Context) error {
			var ferr error
			events, ferr = p.client.PlayByPlay(ctx, entry.GameID)
			return ferr
		})
		switch {
		case err != nil && isCancellation(err):
			buf.Discard()
			return err
		case err != nil:
			deadErr = err
			buf.MarkPartial("play-by-play unavailable: " + err.Error())
		default:
			erep := validation.CheckEvents(entry.GameID, events)
			switch {
			case erep.Rejected():
				deadErr = fmt.Errorf("%w: %s", dlq.ErrValidationRejected, erep.Reason())
				buf.MarkPartial("events rejected: " + erep.Reason())
			case !erep.Passed():
				buf.MarkPartial(erep.Reason())
				buf.AddEvents(events...)
			default:
				buf.AddEvents(events...)
			}
		}
	}

	unit.State = models.UnitStaged
	batch := buf.Take()
	if err := p.db.CommitBatch(ctx, batch); err != nil {
		switch {
		case isCancellation(err):
			return err
		case errors.Is(err, warehouse.ErrLoaderConflict):
			// Complete data already in the warehouse; nothing to save here.
			unit.State = models.UnitFailed
			unit.LastErr = err.Error()
			metrics.UnitsProcessed.WithLabelValues(unit.Kind, string(models.UnitFailed)).Inc()
			logging.Warn().
				Int64("game_id", entry.GameID).
				Msg("Partial batch refused, complete data already committed")
			return nil
		default:
			p.buryUnit(ctx, unit, err, t)
			return nil
		}
	}
	t.gameDone(batch.Partial, len(batch.Events))

	if deadErr != nil {
		p.buryUnit(ctx, unit, deadErr, t)
		return nil
	}
	unit.State = models.UnitCommitted
	metrics.UnitsProcessed.WithLabelValues(unit.Kind, string(models.UnitCommitted)).Inc()
	return nil
}

// scheduleOnlyRecord degrades a schedule entry into the minimal GameRecord
// committed when the live feed never answers.
func scheduleOnlyRecord(e *models.ScheduleEntry) *models.GameRecord {
	season := time.Now().UTC().Year()
	if y, err := strconv.Atoi(e.Date[:4]); err == nil {
		season = y
	}
	return &models.GameRecord{
		GameID:      e.GameID,
		Date:        e.Date,
		Season:      season,
		GameType:    e.GameType,
		Status:      e.Status,
		HomeID:      e.HomeID,
		AwayID:      e.AwayID,
		VenueName:   e.Venue,
		PartialData: true,
		CollectedAt: time.Now().UTC(),
	}
}

// runDateUnit drives one date-scoped unit through the common lifecycle.
// collect fetches and stages into buf; a nil return with an empty buffer
// is a quiet off-day, not a failure.
func (p *Pipeline) runDateUnit(ctx context.Context, unit *models.WorkUnit, t *tally, collect func(ctx context.Context, buf *staging.Buffer) error) error {
	buf := staging.NewDateBuffer()

	unit.State = models.UnitFetching
	if err := collect(ctx, buf); err != nil {
		if isCancellation(err) {
			buf.Discard()
			return err
		}
		buf.Discard()
		p.buryUnit(ctx, unit, err, t)
		return nil
	}

	unit.State = models.UnitStaged
	batch := buf.Take()
	if batch.Empty() {
		unit.State = models.UnitCommitted
		metrics.UnitsProcessed.WithLabelValues(unit.Kind, string(models.UnitCommitted)).Inc()
		return nil
	}
	if err := p.db.CommitBatch(ctx, batch); err != nil {
		if isCancellation(err) {
			return err
		}
		p.buryUnit(ctx, unit, err, t)
		return nil
	}

	unit.State = models.UnitCommitted
	metrics.UnitsProcessed.WithLabelValues(unit.Kind, string(models.UnitCommitted)).Inc()
	t.stats(batchRecords(batch))
	return nil
}

func batchRecords(b *warehouse.Batch) int {
	return len(b.PlayerStats) + len(b.TeamStats) + len(b.Transactions) +
		len(b.Rosters) + len(b.Standings)
}

// processStatsUnit collects the date's player and team stat lines.
func (p *Pipeline) processStatsUnit(ctx context.Context, date string, t *tally) error {
	unit := &models.WorkUnit{Date: date, Kind: "stats", State: models.UnitPending}
	return p.runDateUnit(ctx, unit, t, func(ctx context.Context, buf *staging.Buffer) error {
		var players []models.PlayerDateStat
		err := p.fetchWithRetry(ctx, unit, "stats", func(ctx context.Context) error {
			var ferr error
			players, ferr = p.client.PlayerStats(ctx, date)
			return ferr
		})
		if err != nil {
			return err
		}

		var teams []models.TeamDateStat
		err = p.fetchWithRetry(ctx, unit, "stats", func(ctx context.Context) error {
			var ferr error
			teams, ferr = p.client.TeamStats(ctx, date)
			return ferr
		})
		if err != nil {
			return err
		}

		dropped := 0
		for i := range players {
			if rep := validation.CheckPlayerStat(&players[i]); rep.Rejected() {
				dropped++
				continue
			}
			buf.AddPlayerStats(players[i])
		}
		for i := range teams {
			if rep := validation.CheckTeamStat(&teams[i]); rep.Rejected() {
				dropped++
				continue
			}
			buf.AddTeamStats(teams[i])
		}
		if dropped > 0 {
			buf.MarkPartial(fmt.Sprintf("%d stat lines rejected", dropped))
			logging.Warn().Str("date", date).Int("dropped", dropped).Msg("Dropped implausible stat lines")
		}
		return nil
	})
}

// processTransactionsUnit collects the date's roster transactions.
func (p *Pipeline) processTransactionsUnit(ctx context.Context, date string, t *tally) error {
	unit := &models.WorkUnit{Date: date, Kind: "transactions", State: models.UnitPending}
	return p.runDateUnit(ctx, unit, t, func(ctx context.Context, buf *staging.Buffer) error {
		var records []models.TransactionRecord
		err := p.fetchWithRetry(ctx, unit, "transactions", func(ctx context.Context) error {
			var ferr error
			records, ferr = p.client.Transactions(ctx, date, date)
			return ferr
		})
		if err != nil {
			return err
		}
		for i := range records {
			if rep := validation.CheckTransaction(&records[i]); rep.Rejected() {
				continue
			}
			buf.AddTransactions(records[i])
		}
		return nil
	})
}

// processRostersUnit snapshots the active roster of every team playing on
// the date. A single team's failure degrades the unit to partial instead
// of killing it; the unit dies only when no roster at all could be
// fetched.
func (p *Pipeline) processRostersUnit(ctx context.Context, date string, teams []int, t *tally) error {
	if len(teams) == 0 {
		return nil
	}
	unit := &models.WorkUnit{Date: date, Kind: "rosters", State: models.UnitPending}
	return p.runDateUnit(ctx, unit, t, func(ctx context.Context, buf *staging.Buffer) error {
		var lastErr error
		fetched := 0
		for _, teamID := range teams {
			var snap *models.RosterSnapshot
			err := p.fetchWithRetry(ctx, unit, "rosters", func(ctx context.Context) error {
				var ferr error
				snap, ferr = p.client.Roster(ctx, teamID, date)
				return ferr
			})
			if err != nil {
				if isCancellation(err) {
					return err
				}
				lastErr = err
				buf.MarkPartial(fmt.Sprintf("roster unavailable for team %d", teamID))
				continue
			}
			if rep := validation.CheckRoster(snap, p.cfg.Pipeline.MinRosterSize); !rep.Passed() {
				buf.MarkPartial(rep.Reason())
			}
			buf.AddRoster(snap)
			fetched++
		}
		if fetched == 0 && lastErr != nil {
			return lastErr
		}
		return nil
	})
}

// processStandingsUnit snapshots the division standings as of the date.
func (p *Pipeline) processStandingsUnit(ctx context.Context, date string, t *tally) error {
	unit := &models.WorkUnit{Date: date, Kind: "standings", State: models.UnitPending}
	return p.runDateUnit(ctx, unit, t, func(ctx context.Context, buf *staging.Buffer) error {
		var lines []models.StandingsSnapshot
		err := p.fetchWithRetry(ctx, unit, "standings", func(ctx context.Context) error {
			var ferr error
			lines, ferr = p.client.Standings(ctx, date)
			return ferr
		})
		if err != nil {
			return err
		}
		for i := range lines {
			if rep := validation.CheckStandings(&lines[i]); rep.Rejected() {
				continue
			}
			buf.AddStandings(lines[i])
		}
		return nil
	})
}
