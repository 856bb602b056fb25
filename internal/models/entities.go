// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package models

import "time"

// ScheduleEntry is one game's identity as reported by the schedule feed.
//
// Created when the schedule source is queried for a date; mutated only by
// re-fetch (status transitions as a game progresses); never deleted, only
// superseded. GameID is the immutable upstream gamePk and the join key for
// every other per-game entity.
type ScheduleEntry struct {
	GameID     int64      `json:"game_id" validate:"required,gt=0"`
	Date       string     `json:"date" validate:"required,datetime=2006-01-02"`
	GameType   GameType   `json:"game_type" validate:"required"`
	GameNumber int        `json:"game_number" validate:"gte=0,lte=2"` // doubleheader game 1/2, 0 when single
	Status     GameStatus `json:"status" validate:"required"`
	HomeID     int        `json:"home_id" validate:"required,gt=0"`
	AwayID     int        `json:"away_id" validate:"required,gt=0"`
	Venue      string     `json:"venue,omitempty"`
}

// GameRecord is the full outcome and context for one game_id.
//
// Invariant: game_id uniquely determines at most one GameRecord row after
// merge. Doubleheader games carry distinct game_ids, so two games between
// the same teams on one date never collide.
type GameRecord struct {
	GameID      int64      `json:"game_id" validate:"required,gt=0"`
	Date        string     `json:"date" validate:"required,datetime=2006-01-02"`
	Season      int        `json:"season" validate:"required,gte=1876"`
	GameType    GameType   `json:"game_type"`
	Status      GameStatus `json:"status"`
	HomeID      int        `json:"home_id" validate:"required,gt=0"`
	AwayID      int        `json:"away_id" validate:"required,gt=0"`
	HomeName    string     `json:"home_name,omitempty"`
	AwayName    string     `json:"away_name,omitempty"`
	HomeScore   *int       `json:"home_score,omitempty"`
	AwayScore   *int       `json:"away_score,omitempty"`
	VenueID     *int       `json:"venue_id,omitempty"`
	VenueName   string     `json:"venue_name,omitempty"`
	Weather     string     `json:"weather,omitempty"`
	WindSpeed   string     `json:"wind,omitempty"`
	TempF       *int       `json:"temp_f,omitempty"`
	DayNight    string     `json:"day_night,omitempty"`
	PartialData bool       `json:"partial_data"`
	CollectedAt time.Time  `json:"collected_at"`
}

// PitchEvent is one fine-grained in-game event (a pitch).
//
// Keyed by (game_id, sequence_id) where sequence_id is the per-game event
// counter derived from upstream at-bat and pitch ordering. Events are
// immutable after commit: a partial re-score never happens, the whole game
// is re-ingested or nothing is.
type PitchEvent struct {
	GameID      int64    `json:"game_id" validate:"required,gt=0"`
	SequenceID  int      `json:"sequence_id" validate:"gte=0"`
	AtBatIndex  int      `json:"at_bat_index" validate:"gte=0"`
	PitchNumber int      `json:"pitch_number" validate:"gte=1"`
	PitcherID   int      `json:"pitcher_id,omitempty"`
	BatterID    int      `json:"batter_id,omitempty"`
	PitchType   string   `json:"pitch_type,omitempty"`
	StartSpeed  *float64 `json:"start_speed,omitempty"`
	EndSpeed    *float64 `json:"end_speed,omitempty"`
	Zone        *int     `json:"zone,omitempty"`
	CoordX      *float64 `json:"coord_x,omitempty"`
	CoordY      *float64 `json:"coord_y,omitempty"`
	Result      string   `json:"result,omitempty"`
}

// PlayerDateStat is one player's aggregate statistic line for one date.
//
// Keyed by (player_id, date, stat_group); supersedable: a later fetch for
// the same key overwrites the row so late-arriving corrections land.
type PlayerDateStat struct {
	PlayerID   int               `json:"player_id" validate:"required,gt=0"`
	PlayerName string            `json:"player_name,omitempty"`
	TeamID     int               `json:"team_id" validate:"gte=0"`
	Date       string            `json:"date" validate:"required,datetime=2006-01-02"`
	Season     int               `json:"season" validate:"gte=1876"`
	StatGroup  StatGroup         `json:"stat_group" validate:"required,oneof=hitting pitching"`
	Stats      map[string]string `json:"stats"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// TeamDateStat mirrors PlayerDateStat at team grain, keyed by
// (team_id, date, stat_group) with the same supersede-by-key policy.
type TeamDateStat struct {
	TeamID    int               `json:"team_id" validate:"required,gt=0"`
	TeamName  string            `json:"team_name,omitempty"`
	Date      string            `json:"date" validate:"required,datetime=2006-01-02"`
	Season    int               `json:"season" validate:"gte=1876"`
	StatGroup StatGroup         `json:"stat_group" validate:"required,oneof=hitting pitching"`
	Stats     map[string]string `json:"stats"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TransactionRecord is one roster/injury/trade event.
//
// Keyed by (player_id, effective_date, type_code, counterparty_team_id);
// append-only and idempotent on exact key match, so re-fetching a date
// range never duplicates a transaction.
type TransactionRecord struct {
	PlayerID      int             `json:"player_id" validate:"required,gt=0"`
	PlayerName    string          `json:"player_name,omitempty"`
	EffectiveDate string          `json:"effective_date" validate:"required,datetime=2006-01-02"`
	TypeCode      string          `json:"type_code" validate:"required"`
	Type          TransactionType `json:"type"`
	FromTeamID    int             `json:"from_team_id" validate:"gte=0"`
	ToTeamID      int             `json:"to_team_id" validate:"gte=0"`
	Description   string          `json:"description,omitempty"`
}

// CounterpartyTeamID returns the key component for the transaction: the
// team on the other side of the move (destination when present, otherwise
// origin). Zero when upstream reported neither.
func (t *TransactionRecord) CounterpartyTeamID() int {
	if t.ToTeamID != 0 {
		return t.ToTeamID
	}
	return t.FromTeamID
}

// RosterSnapshot is a team's roster as of one date.
//
// Keyed by (team_id, date, roster_type) and overwritten wholesale on
// re-fetch, never merged player by player.
type RosterSnapshot struct {
	TeamID     int          `json:"team_id" validate:"required,gt=0"`
	Date       string       `json:"date" validate:"required,datetime=2006-01-02"`
	RosterType RosterType   `json:"roster_type" validate:"required"`
	Players    []RosterSpot `json:"players"`
	Incomplete bool         `json:"incomplete"` // set by validation when below minimum cardinality
	FetchedAt  time.Time    `json:"fetched_at"`
}

// RosterSpot is one player's entry within a RosterSnapshot.
type RosterSpot struct {
	PlayerID     int    `json:"player_id" validate:"required,gt=0"`
	PlayerName   string `json:"player_name,omitempty"`
	JerseyNumber string `json:"jersey_number,omitempty"`
	Position     string `json:"position,omitempty"`
	StatusCode   string `json:"status_code,omitempty"`
}

// StandingsSnapshot is one team's standings line as of one date, keyed by
// (team_id, date) and overwritten wholesale per date.
type StandingsSnapshot struct {
	TeamID       int     `json:"team_id" validate:"required,gt=0"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	DivisionID   int     `json:"division_id,omitempty"`
	Wins         int     `json:"wins" validate:"gte=0"`
	Losses       int     `json:"losses" validate:"gte=0"`
	Pct          float64 `json:"pct" validate:"gte=0,lte=1"`
	GamesBack    string  `json:"games_back,omitempty"`
	DivisionRank int     `json:"division_rank,omitempty"`
}

// CompletionMarker records whether the warehouse considers a game's data
// complete. Consulted by the completeness oracle and written only after a
// successful commit of all required sub-records for the game.
type CompletionMarker struct {
	GameID    int64     `json:"game_id"`
	Complete  bool      `json:"complete"`
	UpdatedAt time.Time `json:"updated_at"`
}
