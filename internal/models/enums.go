// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package models

import "strings"

// GameStatus is the normalized lifecycle state of a scheduled game.
type GameStatus string

const (
	StatusScheduled  GameStatus = "scheduled"
	StatusInProgress GameStatus = "in_progress"
	StatusFinal      GameStatus = "final"
	StatusPostponed  GameStatus = "postponed"
	StatusCancelled  GameStatus = "cancelled"
	StatusUnknown    GameStatus = "unknown"
)

// NormalizeGameStatus maps the Stats API detailedState strings onto the
// internal status enum. Upstream uses a wider vocabulary ("Completed Early",
// "Suspended", warmup/delay variants); anything not recognized maps to
// StatusUnknown rather than failing the fetch.
func NormalizeGameStatus(detailed string) GameStatus {
	s := strings.ToLower(strings.TrimSpace(detailed))
	switch {
	case s == "final" || s == "game over" || strings.HasPrefix(s, "completed"):
		return StatusFinal
	case s == "in progress" || strings.HasPrefix(s, "warmup") || strings.Contains(s, "delay"):
		return StatusInProgress
	case strings.HasPrefix(s, "postponed") || strings.HasPrefix(s, "suspended"):
		return StatusPostponed
	case strings.HasPrefix(s, "cancelled") || strings.HasPrefix(s, "canceled"):
		return StatusCancelled
	case s == "scheduled" || s == "pre-game":
		return StatusScheduled
	default:
		return StatusUnknown
	}
}

// GameType is the normalized game classification.
// Doubleheader games keep distinct game_ids; GameNumber distinguishes them
// within a date but is never part of any merge key.
type GameType string

const (
	GameTypeRegular    GameType = "regular"
	GameTypeSpring     GameType = "spring"
	GameTypePostseason GameType = "postseason"
	GameTypeExhibition GameType = "exhibition"
	GameTypeOther      GameType = "other"
)

// NormalizeGameType maps the Stats API single-letter gameType codes.
// R=regular, S=spring, E=exhibition, and the postseason family
// (F=wildcard, D=division, L=league, W=world series).
func NormalizeGameType(code string) GameType {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "R":
		return GameTypeRegular
	case "S":
		return GameTypeSpring
	case "E":
		return GameTypeExhibition
	case "F", "D", "L", "W", "P":
		return GameTypePostseason
	default:
		return GameTypeOther
	}
}

// StatGroup identifies the aggregate statistic family for player and team
// date stats. It is part of the natural key (player_id, date, stat_group).
type StatGroup string

const (
	StatGroupHitting  StatGroup = "hitting"
	StatGroupPitching StatGroup = "pitching"
)

// RosterType identifies which roster view a snapshot captures.
type RosterType string

const (
	RosterActive  RosterType = "active"
	Roster40Man   RosterType = "40man"
	RosterFullDay RosterType = "fullRoster"
)

// TransactionType is the normalized roster transaction category.
type TransactionType string

const (
	TxnTrade      TransactionType = "trade"
	TxnSigning    TransactionType = "signing"
	TxnRelease    TransactionType = "release"
	TxnInjuryList TransactionType = "injury_list"
	TxnRecall     TransactionType = "recall"
	TxnOption     TransactionType = "option"
	TxnClaim      TransactionType = "claim"
	TxnOther      TransactionType = "other"
)

// NormalizeTransactionType maps the Stats API typeCode values to the
// internal enum. The upstream codes are short mnemonics ("TR", "SGN", ...).
func NormalizeTransactionType(typeCode string) TransactionType {
	switch strings.ToUpper(strings.TrimSpace(typeCode)) {
	case "TR":
		return TxnTrade
	case "SGN", "SFA":
		return TxnSigning
	case "REL", "DES":
		return TxnRelease
	case "SC", "STA":
		return TxnInjuryList
	case "REC", "SE":
		return TxnRecall
	case "OPT":
		return TxnOption
	case "CLW":
		return TxnClaim
	default:
		return TxnOther
	}
}
