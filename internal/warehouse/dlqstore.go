// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/metrics"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/models"
)

// ErrDeadLetterNotFound is returned for lookups of ids that don't exist.
var ErrDeadLetterNotFound = errors.New("dead letter not found")

// DLQStore persists dead-lettered work units across runs. Implemented by
// DB; the operator API and the pipeline requeue path consume it.
type DLQStore interface {
	PutDeadLetter(ctx context.Context, dl *models.DeadLetter) error
	DeadLetter(ctx context.Context, id uuid.UUID) (*models.DeadLetter, error)
	ListDeadLetters(ctx context.Context, limit int) ([]models.DeadLetter, error)
	DeleteDeadLetter(ctx context.Context, id uuid.UUID) error
	DeadLetterDepth(ctx context.Context) (int, error)
}

var _ DLQStore = (*DB)(nil)

// PutDeadLetter records a dead unit. A second death of the same unit key
// updates the existing row, accumulating attempts and keeping the first
// failure time.
func (db *DB) PutDeadLetter(ctx context.Context, dl *models.DeadLetter) error {
	if dl.ID == uuid.Nil {
		dl.ID = uuid.New()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO dead_letters (id, unit_key, kind, date, game_id, class, reason,
			attempts, first_failure, last_failure)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (unit_key) DO UPDATE SET
			class = EXCLUDED.class,
			reason = EXCLUDED.reason,
			attempts = dead_letters.attempts + EXCLUDED.attempts,
			last_failure = EXCLUDED.last_failure`,
		dl.ID, dl.UnitKey, dl.Kind, dl.Date, dl.GameID, dl.Class, dl.Reason,
		dl.Attempts, dl.FirstFailure, dl.LastFailure)
	if err != nil {
		return fmt.Errorf("failed to persist dead letter %s: %w", dl.UnitKey, err)
	}

	metrics.DeadLetters.WithLabelValues(dl.Class).Inc()
	db.refreshDLQDepth(ctx)
	return nil
}

// DeadLetter fetches one entry by id.
func (db *DB) DeadLetter(ctx context.Context, id uuid.UUID) (*models.DeadLetter, error) {
	dl := &models.DeadLetter{}
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, unit_key, kind, CAST(date AS VARCHAR), game_id, class, reason, attempts, first_failure, last_failure
		FROM dead_letters WHERE id = ?`, id).
		Scan(&dl.ID, &dl.UnitKey, &dl.Kind, &dl.Date, &dl.GameID, &dl.Class, &dl.Reason,
			&dl.Attempts, &dl.FirstFailure, &dl.LastFailure)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDeadLetterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dead letter %s: %w", id, err)
	}
	return dl, nil
}

// ListDeadLetters returns entries newest-failure first. limit <= 0 means
// no limit.
func (db *DB) ListDeadLetters(ctx context.Context, limit int) ([]models.DeadLetter, error) {
	q := `
		SELECT id, unit_key, kind, CAST(date AS VARCHAR), game_id, class, reason, attempts, first_failure, last_failure
		FROM dead_letters ORDER BY last_failure DESC`
	args := []interface{}{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dead letters: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only iterator

	var entries []models.DeadLetter
	for rows.Next() {
		var dl models.DeadLetter
		if err := rows.Scan(&dl.ID, &dl.UnitKey, &dl.Kind, &dl.Date, &dl.GameID, &dl.Class,
			&dl.Reason, &dl.Attempts, &dl.FirstFailure, &dl.LastFailure); err != nil {
			return nil, fmt.Errorf("failed to scan dead letter: %w", err)
		}
		entries = append(entries, dl)
	}
	return entries, rows.Err()
}

// DeleteDeadLetter removes an entry, typically after a successful requeue.
func (db *DB) DeleteDeadLetter(ctx context.Context, id uuid.UUID) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM dead_letters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dead letter %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDeadLetterNotFound
	}
	db.refreshDLQDepth(ctx)
	return nil
}

// DeadLetterDepth returns the current queue depth.
func (db *DB) DeadLetterDepth(ctx context.Context) (int, error) {
	var depth int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM dead_letters`).Scan(&depth); err != nil {
		return 0, fmt.Errorf("failed to count dead letters: %w", err)
	}
	return depth, nil
}

func (db *DB) refreshDLQDepth(ctx context.Context) {
	if depth, err := db.DeadLetterDepth(ctx); err == nil {
		metrics.DeadLetterDepth.Set(float64(depth))
	}
}
