// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

/*
loader.go - Reconciling batch loader

CommitBatch lands one work unit's staged entities in a single transaction.
Merge policy per entity:

  - schedule, games:            upsert by game_id
  - game_events:                whole-game replace (delete + insert); a
                                game's event set is immutable once complete
  - player/team date stats:     supersede by key, late corrections overwrite
  - transactions:               append-only, idempotent on exact key
  - rosters, standings:         wholesale snapshot overwrite by key

The no-downgrade gate: a partial batch for a game the warehouse already
marks complete is refused with ErrLoaderConflict and writes nothing.
Complete batches set the game's completion marker inside the same
transaction, so marker state and row state can never diverge.
*/

//nolint:staticcheck // File documentation, not package doc
package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/logging"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/metrics"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/models"
)

// ErrLoaderConflict is returned when a partial batch would overwrite a game
// the warehouse already holds complete data for. The batch is discarded.
var ErrLoaderConflict = errors.New("partial batch conflicts with complete warehouse state")

// Batch is one work unit's staged output, committed atomically.
type Batch struct {
	// GameID scopes game-grained batches; zero for date-scoped units
	// (stats, transactions, rosters, standings).
	GameID int64

	Schedule     []models.ScheduleEntry
	Game         *models.GameRecord
	Events       []models.PitchEvent
	PlayerStats  []models.PlayerDateStat
	TeamStats    []models.TeamDateStat
	Transactions []models.TransactionRecord
	Rosters      []*models.RosterSnapshot
	Standings    []models.StandingsSnapshot

	// Partial marks the batch as known-incomplete: it commits (flagged)
	// but never sets a completion marker and never overwrites a complete
	// game.
	Partial       bool
	PartialReason string
}

// Empty reports whether the batch holds nothing to commit.
func (b *Batch) Empty() bool {
	return len(b.Schedule) == 0 && b.Game == nil && len(b.Events) == 0 &&
		len(b.PlayerStats) == 0 && len(b.TeamStats) == 0 &&
		len(b.Transactions) == 0 && len(b.Rosters) == 0 && len(b.Standings) == 0
}

// CommitBatch lands the batch in one transaction. On ErrLoaderConflict (and
// any other error) the warehouse is untouched.
func (db *DB) CommitBatch(ctx context.Context, b *Batch) error {
	if b.Empty() {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		metrics.CommitBatches.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	// No-downgrade gate: partial data never replaces complete data.
	if b.GameID != 0 && b.Partial {
		complete, err := markerCompleteTx(ctx, tx, b.GameID)
		if err != nil {
			metrics.CommitBatches.WithLabelValues("failed").Inc()
			return err
		}
		if complete {
			metrics.CommitBatches.WithLabelValues("conflict").Inc()
			metrics.LoaderConflicts.Inc()
			logging.Warn().
				Int64("game_id", b.GameID).
				Str("reason", b.PartialReason).
				Msg("Partial batch refused, game already complete")
			return ErrLoaderConflict
		}
	}

	if err := db.writeBatchTx(ctx, tx, b); err != nil {
		metrics.CommitBatches.WithLabelValues("failed").Inc()
		return err
	}

	if b.GameID != 0 {
		if err := setMarkerTx(ctx, tx, b.GameID, !b.Partial); err != nil {
			metrics.CommitBatches.WithLabelValues("failed").Inc()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		metrics.CommitBatches.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	outcome := "committed"
	if b.Partial {
		outcome = "partial"
	}
	metrics.CommitBatches.WithLabelValues(outcome).Inc()
	return nil
}

func (db *DB) writeBatchTx(ctx context.Context, tx *sql.Tx, b *Batch) error {
	for i := range b.Schedule {
		if err := upsertScheduleTx(ctx, tx, &b.Schedule[i]); err != nil {
			return err
		}
	}
	if b.Game != nil {
		g := *b.Game
		g.PartialData = b.Partial
		if err := upsertGameTx(ctx, tx, &g); err != nil {
			return err
		}
	}
	if len(b.Events) > 0 {
		if err := replaceEventsTx(ctx, tx, b.GameID, b.Events); err != nil {
			return err
		}
	}
	for i := range b.PlayerStats {
		if err := upsertPlayerStatTx(ctx, tx, &b.PlayerStats[i]); err != nil {
			return err
		}
	}
	for i := range b.TeamStats {
		if err := upsertTeamStatTx(ctx, tx, &b.TeamStats[i]); err != nil {
			return err
		}
	}
	for i := range b.Transactions {
		if err := insertTransactionTx(ctx, tx, &b.Transactions[i]); err != nil {
			return err
		}
	}
	for _, snap := range b.Rosters {
		if err := upsertRosterTx(ctx, tx, snap); err != nil {
			return err
		}
	}
	for i := range b.Standings {
		if err := upsertStandingsTx(ctx, tx, &b.Standings[i]); err != nil {
			return err
		}
	}
	return nil
}

func upsertScheduleTx(ctx context.Context, tx *sql.Tx, e *models.ScheduleEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO schedule (game_id, date, game_type, game_number, status, home_id, away_id, venue)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id) DO UPDATE SET
			status = EXCLUDED.status,
			game_type = EXCLUDED.game_type,
			game_number = EXCLUDED.game_number,
			venue = EXCLUDED.venue`,
		e.GameID, e.Date, string(e.GameType), e.GameNumber, string(e.Status), e.HomeID, e.AwayID, e.Venue)
	if err != nil {
		return fmt.Errorf("failed to upsert schedule entry %d: %w", e.GameID, err)
	}
	metrics.RowsUpserted.WithLabelValues("schedule").Inc()
	return nil
}

func upsertGameTx(ctx context.Context, tx *sql.Tx, g *models.GameRecord) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO games (game_id, date, season, game_type, status, home_id, away_id,
			home_name, away_name, home_score, away_score, venue_id, venue_name,
			weather, wind, temp_f, day_night, partial_data, collected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id) DO UPDATE SET
			status = EXCLUDED.status,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			venue_id = EXCLUDED.venue_id,
			venue_name = EXCLUDED.venue_name,
			weather = EXCLUDED.weather,
			wind = EXCLUDED.wind,
			temp_f = EXCLUDED.temp_f,
			day_night = EXCLUDED.day_night,
			partial_data = EXCLUDED.partial_data,
			collected_at = EXCLUDED.collected_at`,
		g.GameID, g.Date, g.Season, string(g.GameType), string(g.Status), g.HomeID, g.AwayID,
		g.HomeName, g.AwayName, g.HomeScore, g.AwayScore, g.VenueID, g.VenueName,
		g.Weather, g.WindSpeed, g.TempF, g.DayNight, g.PartialData, g.CollectedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert game %d: %w", g.GameID, err)
	}
	metrics.RowsUpserted.WithLabelValues("games").Inc()
	return nil
}

// replaceEventsTx re-ingests a game's event set wholesale. Events are
// immutable individually; the set is replaced as a unit or not at all.
func replaceEventsTx(ctx context.Context, tx *sql.Tx, gameID int64, events []models.PitchEvent) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM game_events WHERE game_id = ?`, gameID); err != nil {
		return fmt.Errorf("failed to clear events for game %d: %w", gameID, err)
	}
	for i := range events {
		ev := &events[i]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO game_events (game_id, sequence_id, at_bat_index, pitch_number,
				pitcher_id, batter_id, pitch_type, start_speed, end_speed, zone,
				coord_x, coord_y, result)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ev.GameID, ev.SequenceID, ev.AtBatIndex, ev.PitchNumber,
			ev.PitcherID, ev.BatterID, ev.PitchType, ev.StartSpeed, ev.EndSpeed, ev.Zone,
			ev.CoordX, ev.CoordY, ev.Result)
		if err != nil {
			return fmt.Errorf("failed to insert event %d/%d: %w", ev.GameID, ev.SequenceID, err)
		}
	}
	metrics.RowsUpserted.WithLabelValues("game_events").Add(float64(len(events)))
	return nil
}

func upsertPlayerStatTx(ctx context.Context, tx *sql.Tx, s *models.PlayerDateStat) error {
	stats, err := json.Marshal(s.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats for player %d: %w", s.PlayerID, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO player_date_stats (player_id, player_name, team_id, date, season, stat_group, stats, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (player_id, date, stat_group) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			team_id = EXCLUDED.team_id,
			season = EXCLUDED.season,
			stats = EXCLUDED.stats,
			updated_at = EXCLUDED.updated_at`,
		s.PlayerID, s.PlayerName, s.TeamID, s.Date, s.Season, string(s.StatGroup), string(stats), s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert player stat %d/%s: %w", s.PlayerID, s.Date, err)
	}
	metrics.RowsUpserted.WithLabelValues("player_date_stats").Inc()
	return nil
}

func upsertTeamStatTx(ctx context.Context, tx *sql.Tx, s *models.TeamDateStat) error {
	stats, err := json.Marshal(s.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats for team %d: %w", s.TeamID, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO team_date_stats (team_id, team_name, date, season, stat_group, stats, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (team_id, date, stat_group) DO UPDATE SET
			team_name = EXCLUDED.team_name,
			season = EXCLUDED.season,
			stats = EXCLUDED.stats,
			updated_at = EXCLUDED.updated_at`,
		s.TeamID, s.TeamName, s.Date, s.Season, string(s.StatGroup), string(stats), s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert team stat %d/%s: %w", s.TeamID, s.Date, err)
	}
	metrics.RowsUpserted.WithLabelValues("team_date_stats").Inc()
	return nil
}

// insertTransactionTx appends a transaction; an exact key match is a
// duplicate from a re-fetch and is silently dropped.
func insertTransactionTx(ctx context.Context, tx *sql.Tx, t *models.TransactionRecord) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (player_id, player_name, effective_date, type_code, type,
			from_team_id, to_team_id, counterparty_team_id, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		t.PlayerID, t.PlayerName, t.EffectiveDate, t.TypeCode, string(t.Type),
		t.FromTeamID, t.ToTeamID, t.CounterpartyTeamID(), t.Description)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %d/%s/%s: %w", t.PlayerID, t.EffectiveDate, t.TypeCode, err)
	}
	metrics.RowsUpserted.WithLabelValues("transactions").Inc()
	return nil
}

func upsertRosterTx(ctx context.Context, tx *sql.Tx, snap *models.RosterSnapshot) error {
	players, err := json.Marshal(snap.Players)
	if err != nil {
		return fmt.Errorf("failed to marshal roster for team %d: %w", snap.TeamID, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO rosters (team_id, date, roster_type, players, incomplete, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (team_id, date, roster_type) DO UPDATE SET
			players = EXCLUDED.players,
			incomplete = EXCLUDED.incomplete,
			fetched_at = EXCLUDED.fetched_at`,
		snap.TeamID, snap.Date, string(snap.RosterType), string(players), snap.Incomplete, snap.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert roster %d/%s: %w", snap.TeamID, snap.Date, err)
	}
	metrics.RowsUpserted.WithLabelValues("rosters").Inc()
	return nil
}

func upsertStandingsTx(ctx context.Context, tx *sql.Tx, s *models.StandingsSnapshot) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO standings (team_id, date, division_id, wins, losses, pct, games_back, division_rank)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (team_id, date) DO UPDATE SET
			division_id = EXCLUDED.division_id,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			pct = EXCLUDED.pct,
			games_back = EXCLUDED.games_back,
			division_rank = EXCLUDED.division_rank`,
		s.TeamID, s.Date, s.DivisionID, s.Wins, s.Losses, s.Pct, s.GamesBack, s.DivisionRank)
	if err != nil {
		return fmt.Errorf("failed to upsert standings %d/%s: %w", s.TeamID, s.Date, err)
	}
	metrics.RowsUpserted.WithLabelValues("standings").Inc()
	return nil
}

// markerCompleteTx reads a game's completion marker inside the loader
// transaction.
func markerCompleteTx(ctx context.Context, tx *sql.Tx, gameID int64) (bool, error) {
	var complete bool
	err := tx.QueryRowContext(ctx,
		`SELECT complete FROM completion_markers WHERE game_id = ?`, gameID).Scan(&complete)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read completion marker for game %d: %w", gameID, err)
	}
	return complete, nil
}

func setMarkerTx(ctx context.Context, tx *sql.Tx, gameID int64, complete bool) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO completion_markers (game_id, complete, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (game_id) DO UPDATE SET
			complete = EXCLUDED.complete,
			updated_at = EXCLUDED.updated_at`,
		gameID, complete, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set completion marker for game %d: %w", gameID, err)
	}
	return nil
}
