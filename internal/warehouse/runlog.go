// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package warehouse

import (
	"context"
	"fmt"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/models"
)

// StartRun records the beginning of a pipeline run.
func (db *DB) StartRun(ctx context.Context, run *models.RunLog) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO run_log (run_id, start_date, end_date, started_at)
		VALUES (?, ?, ?, ?)`,
		run.RunID, run.StartDate, run.EndDate, run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to record run start %s: %w", run.RunID, err)
	}
	return nil
}

// FinishRun records the run's final tallies.
func (db *DB) FinishRun(ctx context.Context, run *models.RunLog) error {
	_, err := db.conn.ExecContext(ctx, `
		UPDATE run_log SET
			finished_at = ?,
			games_committed = ?,
			games_partial = ?,
			events_committed = ?,
			stats_committed = ?,
			units_dead = ?,
			units_skipped = ?,
			cancelled = ?
		WHERE run_id = ?`,
		run.FinishedAt, run.GamesDone, run.GamesPartial, run.EventsDone,
		run.StatsDone, run.UnitsDead, run.UnitsSkipped, run.Cancelled, run.RunID)
	if err != nil {
		return fmt.Errorf("failed to record run finish %s: %w", run.RunID, err)
	}
	return nil
}

// Runs lists run summaries, newest first. limit <= 0 means no limit.
func (db *DB) Runs(ctx context.Context, limit int) ([]models.RunLog, error) {
	q := `
		SELECT run_id, CAST(start_date AS VARCHAR), CAST(end_date AS VARCHAR), started_at,
			COALESCE(finished_at, TIMESTAMP '1970-01-01 00:00:00'),
			games_committed, games_partial, events_committed, stats_committed,
			units_dead, units_skipped, cancelled
		FROM run_log ORDER BY started_at DESC`
	args := []interface{}{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only iterator

	var runs []models.RunLog
	for rows.Next() {
		var r models.RunLog
		if err := rows.Scan(&r.RunID, &r.StartDate, &r.EndDate, &r.StartedAt, &r.FinishedAt,
			&r.GamesDone, &r.GamesPartial, &r.EventsDone, &r.StatsDone,
			&r.UnitsDead, &r.UnitsSkipped, &r.Cancelled); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
