// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package validation

import (
	"fmt"
	"strconv"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/models"
)

// countingStats are stat keys that can never be negative.
var countingStats = []string{
	"hits", "atBats", "runs", "rbi", "homeRuns", "doubles", "triples",
	"baseOnBalls", "strikeOuts", "stolenBases", "earnedRuns", "wins",
	"losses", "saves", "gamesPlayed",
}

// boundedRateStats are stat keys constrained to [0, 1].
var boundedRateStats = []string{"avg", "obp", "winPercentage"}

// CheckGame validates one GameRecord: struct shape, then final-game
// completeness (both scores present and non-negative, venue identified).
// Completeness violations flag the game partial rather than rejecting it.
// Postponed and cancelled games are terminal as-is; any other non-final
// status means more data is still coming, so the report is partial to keep
// the game's completion marker open for a later pass.
func CheckGame(g *models.GameRecord) Report {
	if err := ValidateStruct(g); err != nil {
		return rejected("game record malformed: " + err.Error())
	}

	switch g.Status {
	case models.StatusFinal:
	case models.StatusPostponed, models.StatusCancelled:
		return passed()
	default:
		return partial("game not final: " + string(g.Status))
	}

	rep := passed()
	if g.HomeScore == nil || g.AwayScore == nil {
		rep = rep.Merge(partial("final game missing score"))
	} else if *g.HomeScore < 0 || *g.AwayScore < 0 {
		return rejected(fmt.Sprintf("negative score %d-%d", *g.HomeScore, *g.AwayScore))
	}
	if g.VenueName == "" && g.VenueID == nil {
		rep = rep.Merge(partial("final game missing venue"))
	}
	return rep
}

// CheckEvents validates a game's pitch event set. Individual events must be
// well-formed; the set must form a gap-free increasing sequence. A gap
// indicates a partial fetch and flags the game partial, it does not reject
// the events that did arrive.
func CheckEvents(gameID int64, events []models.PitchEvent) Report {
	rep := passed()
	if len(events) == 0 {
		return partial("no pitch events")
	}

	prev := -1
	for i := range events {
		ev := &events[i]
		if ev.GameID != gameID {
			return rejected(fmt.Sprintf("event %d belongs to game %d, not %d", ev.SequenceID, ev.GameID, gameID))
		}
		if err := ValidateStruct(ev); err != nil {
			return rejected(fmt.Sprintf("event %d malformed: %v", ev.SequenceID, err))
		}
		if ev.SequenceID <= prev {
			return rejected(fmt.Sprintf("event sequence not increasing at %d", ev.SequenceID))
		}
		if ev.SequenceID != prev+1 {
			rep = rep.Merge(partial(fmt.Sprintf("event sequence gap before %d", ev.SequenceID)))
		}
		prev = ev.SequenceID
	}
	return rep
}

// checkStatMap applies plausibility rules to a string-valued stat map.
func checkStatMap(stats map[string]string) []string {
	var reasons []string
	for _, key := range countingStats {
		raw, ok := stats[key]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("stat %s unparseable: %q", key, raw))
			continue
		}
		if v < 0 {
			reasons = append(reasons, fmt.Sprintf("negative counting stat %s=%s", key, raw))
		}
	}
	for _, key := range boundedRateStats {
		raw, ok := stats[key]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("stat %s unparseable: %q", key, raw))
			continue
		}
		if v < 0 || v > 1 {
			reasons = append(reasons, fmt.Sprintf("rate stat %s=%s out of range", key, raw))
		}
	}
	return reasons
}

// CheckPlayerStat validates one player stat line. Implausible values
// reject the record so it never lands in the warehouse.
func CheckPlayerStat(s *models.PlayerDateStat) Report {
	if err := ValidateStruct(s); err != nil {
		return rejected("player stat malformed: " + err.Error())
	}
	if reasons := checkStatMap(s.Stats); len(reasons) > 0 {
		return rejected(reasons...)
	}
	return passed()
}

// CheckTeamStat validates one team stat line under the same plausibility
// rules as player lines.
func CheckTeamStat(s *models.TeamDateStat) Report {
	if err := ValidateStruct(s); err != nil {
		return rejected("team stat malformed: " + err.Error())
	}
	if reasons := checkStatMap(s.Stats); len(reasons) > 0 {
		return rejected(reasons...)
	}
	return passed()
}

// CheckTransaction validates one transaction record.
func CheckTransaction(tx *models.TransactionRecord) Report {
	if err := ValidateStruct(tx); err != nil {
		return rejected("transaction malformed: " + err.Error())
	}
	if tx.CounterpartyTeamID() == 0 {
		return partial("transaction without counterparty team")
	}
	return passed()
}

// CheckRoster validates a roster snapshot against the minimum active
// cardinality. An undersized roster is flagged incomplete on the snapshot
// itself and the report comes back partial.
func CheckRoster(snap *models.RosterSnapshot, minSize int) Report {
	if err := ValidateStruct(snap); err != nil {
		return rejected("roster malformed: " + err.Error())
	}
	for i := range snap.Players {
		if err := ValidateStruct(&snap.Players[i]); err != nil {
			return rejected(fmt.Sprintf("roster spot %d malformed: %v", i, err))
		}
	}
	if len(snap.Players) < minSize {
		snap.Incomplete = true
		return partial(fmt.Sprintf("roster has %d players, minimum %d", len(snap.Players), minSize))
	}
	return passed()
}

// CheckStandings validates one standings line.
func CheckStandings(s *models.StandingsSnapshot) Report {
	if err := ValidateStruct(s); err != nil {
		return rejected("standings malformed: " + err.Error())
	}
	return passed()
}

// CheckSchedule validates one schedule entry.
func CheckSchedule(e *models.ScheduleEntry) Report {
	if err := ValidateStruct(e); err != nil {
		return rejected("schedule entry malformed: " + err.Error())
	}
	return passed()
}
