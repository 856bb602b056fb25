// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package pipeline

import (
	"context"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/logging"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/warehouse"
)

// Oracle answers "does the warehouse already hold complete data for this
// game". It is a pure optimization: an absent or stale answer only costs a
// redundant fetch, never correctness, because the loader is idempotent.
type Oracle struct {
	markers warehouse.MarkerStore
}

// NewOracle builds the completeness oracle over the marker store.
func NewOracle(markers warehouse.MarkerStore) *Oracle {
	return &Oracle{markers: markers}
}

// IsComplete reports whether the game's data is already complete. Lookup
// failures answer false so the game is re-collected rather than skipped.
func (o *Oracle) IsComplete(ctx context.Context, gameID int64) bool {
	complete, err := o.markers.IsComplete(ctx, gameID)
	if err != nil {
		logging.Warn().Err(err).Int64("game_id", gameID).Msg("Completeness lookup failed, assuming incomplete")
		return false
	}
	return complete
}
