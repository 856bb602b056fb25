// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package warehouse

import (
	"context"
	"fmt"
)

// schemaQueries creates every warehouse table. DuckDB replays these on each
// startup; IF NOT EXISTS keeps the calls idempotent. Primary keys mirror
// the entity merge keys so ON CONFLICT upserts enforce them.
var schemaQueries = []string{
	`CREATE TABLE IF NOT EXISTS schedule (
		game_id     BIGINT PRIMARY KEY,
		date        DATE NOT NULL,
		game_type   VARCHAR NOT NULL,
		game_number INTEGER NOT NULL DEFAULT 0,
		status      VARCHAR NOT NULL,
		home_id     INTEGER NOT NULL,
		away_id     INTEGER NOT NULL,
		venue       VARCHAR
	)`,

	`CREATE TABLE IF NOT EXISTS games (
		game_id      BIGINT PRIMARY KEY,
		date         DATE NOT NULL,
		season       INTEGER NOT NULL,
		game_type    VARCHAR,
		status       VARCHAR,
		home_id      INTEGER NOT NULL,
		away_id      INTEGER NOT NULL,
		home_name    VARCHAR,
		away_name    VARCHAR,
		home_score   INTEGER,
		away_score   INTEGER,
		venue_id     INTEGER,
		venue_name   VARCHAR,
		weather      VARCHAR,
		wind         VARCHAR,
		temp_f       INTEGER,
		day_night    VARCHAR,
		partial_data BOOLEAN NOT NULL DEFAULT FALSE,
		collected_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS game_events (
		game_id      BIGINT NOT NULL,
		sequence_id  INTEGER NOT NULL,
		at_bat_index INTEGER NOT NULL,
		pitch_number INTEGER NOT NULL,
		pitcher_id   INTEGER,
		batter_id    INTEGER,
		pitch_type   VARCHAR,
		start_speed  DOUBLE,
		end_speed    DOUBLE,
		zone         INTEGER,
		coord_x      DOUBLE,
		coord_y      DOUBLE,
		result       VARCHAR,
		PRIMARY KEY (game_id, sequence_id)
	)`,

	`CREATE TABLE IF NOT EXISTS player_date_stats (
		player_id   INTEGER NOT NULL,
		player_name VARCHAR,
		team_id     INTEGER,
		date        DATE NOT NULL,
		season      INTEGER,
		stat_group  VARCHAR NOT NULL,
		stats       JSON,
		updated_at  TIMESTAMP NOT NULL,
		PRIMARY KEY (player_id, date, stat_group)
	)`,

	`CREATE TABLE IF NOT EXISTS team_date_stats (
		team_id    INTEGER NOT NULL,
		team_name  VARCHAR,
		date       DATE NOT NULL,
		season     INTEGER,
		stat_group VARCHAR NOT NULL,
		stats      JSON,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (team_id, date, stat_group)
	)`,

	`CREATE TABLE IF NOT EXISTS transactions (
		player_id            INTEGER NOT NULL,
		player_name          VARCHAR,
		effective_date       DATE NOT NULL,
		type_code            VARCHAR NOT NULL,
		type                 VARCHAR,
		from_team_id         INTEGER NOT NULL DEFAULT 0,
		to_team_id           INTEGER NOT NULL DEFAULT 0,
		counterparty_team_id INTEGER NOT NULL DEFAULT 0,
		description          VARCHAR,
		PRIMARY KEY (player_id, effective_date, type_code, counterparty_team_id)
	)`,

	`CREATE TABLE IF NOT EXISTS rosters (
		team_id     INTEGER NOT NULL,
		date        DATE NOT NULL,
		roster_type VARCHAR NOT NULL,
		players     JSON NOT NULL,
		incomplete  BOOLEAN NOT NULL DEFAULT FALSE,
		fetched_at  TIMESTAMP NOT NULL,
		PRIMARY KEY (team_id, date, roster_type)
	)`,

	`CREATE TABLE IF NOT EXISTS standings (
		team_id       INTEGER NOT NULL,
		date          DATE NOT NULL,
		division_id   INTEGER,
		wins          INTEGER NOT NULL,
		losses        INTEGER NOT NULL,
		pct           DOUBLE,
		games_back    VARCHAR,
		division_rank INTEGER,
		PRIMARY KEY (team_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS completion_markers (
		game_id    BIGINT PRIMARY KEY,
		complete   BOOLEAN NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS dead_letters (
		id            UUID PRIMARY KEY,
		unit_key      VARCHAR NOT NULL UNIQUE,
		kind          VARCHAR NOT NULL,
		date          DATE NOT NULL,
		game_id       BIGINT NOT NULL DEFAULT 0,
		class         VARCHAR NOT NULL,
		reason        VARCHAR NOT NULL,
		attempts      INTEGER NOT NULL,
		first_failure TIMESTAMP NOT NULL,
		last_failure  TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS run_log (
		run_id           UUID PRIMARY KEY,
		start_date       DATE NOT NULL,
		end_date         DATE NOT NULL,
		started_at       TIMESTAMP NOT NULL,
		finished_at      TIMESTAMP,
		games_committed  INTEGER NOT NULL DEFAULT 0,
		games_partial    INTEGER NOT NULL DEFAULT 0,
		events_committed INTEGER NOT NULL DEFAULT 0,
		stats_committed  INTEGER NOT NULL DEFAULT 0,
		units_dead       INTEGER NOT NULL DEFAULT 0,
		units_skipped    INTEGER NOT NULL DEFAULT 0,
		cancelled        BOOLEAN NOT NULL DEFAULT FALSE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_games_date ON games(date)`,
	`CREATE INDEX IF NOT EXISTS idx_events_game ON game_events(game_id)`,
	`CREATE INDEX IF NOT EXISTS idx_player_stats_date ON player_date_stats(date)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(effective_date)`,
	`CREATE INDEX IF NOT EXISTS idx_dead_letters_kind ON dead_letters(kind)`,
}

func (db *DB) initSchema(ctx context.Context) error {
	for _, q := range schemaQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
