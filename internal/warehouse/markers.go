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

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/models"
)

// MarkerStore is the completeness surface the oracle consults. Implemented
// by DB; fakes substitute it in pipeline tests.
type MarkerStore interface {
	IsComplete(ctx context.Context, gameID int64) (bool, error)
	Marker(ctx context.Context, gameID int64) (*models.CompletionMarker, error)
}

var _ MarkerStore = (*DB)(nil)

// IsComplete reports whether the warehouse holds complete data for the
// game. An absent marker means incomplete.
func (db *DB) IsComplete(ctx context.Context, gameID int64) (bool, error) {
	var complete bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT complete FROM completion_markers WHERE game_id = ?`, gameID).Scan(&complete)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read completion marker for game %d: %w", gameID, err)
	}
	return complete, nil
}

// Marker returns the stored marker, or nil when the game has none.
func (db *DB) Marker(ctx context.Context, gameID int64) (*models.CompletionMarker, error) {
	m := &models.CompletionMarker{GameID: gameID}
	err := db.conn.QueryRowContext(ctx,
		`SELECT complete, updated_at FROM completion_markers WHERE game_id = ?`, gameID).
		Scan(&m.Complete, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read completion marker for game %d: %w", gameID, err)
	}
	return m, nil
}

// IncompleteGames returns the game IDs scheduled on date that lack a
// complete marker, in schedule order. Used to scope re-collection.
func (db *DB) IncompleteGames(ctx context.Context, date string) ([]int64, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT s.game_id
		FROM schedule s
		LEFT JOIN completion_markers m ON m.game_id = s.game_id
		WHERE s.date = ? AND (m.complete IS NULL OR NOT m.complete)
		ORDER BY s.game_id`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomplete games for %s: %w", date, err)
	}
	defer rows.Close() //nolint:errcheck // Read-only iterator

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan game id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
