// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

// Package models defines the domain entities the collection pipeline moves
// between the MLB Stats API adapters, the validator, the staging buffer, and
// the warehouse.
//
// Every entity is identified by a natural key assigned upstream (game_id,
// player_id, team_id plus dates), never by a surrogate counter. The merge
// policy per entity is documented on the type: events are immutable once
// committed, aggregate stats supersede by key, rosters are replaced
// wholesale, transactions are append-only.
package models
