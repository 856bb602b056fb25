// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package models

import (
	"time"

	"github.com/google/uuid"
)

// DeadLetter is a work unit that exhausted its retries or failed
// permanently. Rows persist across runs; a later run (or an operator)
// requeues or deletes them. One row per unit key: repeated deaths of the
// same unit update the existing row.
type DeadLetter struct {
	ID           uuid.UUID `json:"id"`
	UnitKey      string    `json:"unit_key"`
	Kind         string    `json:"kind"`
	Date         string    `json:"date"`
	GameID       int64     `json:"game_id,omitempty"`
	Class        string    `json:"class"`  // failure classification at death
	Reason       string    `json:"reason"` // last error, human readable
	Attempts     int       `json:"attempts"`
	FirstFailure time.Time `json:"first_failure"`
	LastFailure  time.Time `json:"last_failure"`
}
