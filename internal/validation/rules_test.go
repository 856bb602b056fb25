// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package validation

import (
	"testing"
	"time"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/models"
)

func intPtr(v int) *int { return &v }

func finalGame() *models.GameRecord {
	return &models.GameRecord{
		GameID:      634001,
		Date:        "2023-06-01",
		Season:      2023,
		GameType:    models.GameTypeRegular,
		Status:      models.StatusFinal,
		HomeID:      144,
		AwayID:      143,
		HomeScore:   intPtr(5),
		AwayScore:   intPtr(4),
		VenueName:   "Truist Park",
		CollectedAt: time.Now(),
	}
}

func TestCheckGame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*models.GameRecord)
		want   Outcome
	}{
		{"final game with scores passes", func(g *models.GameRecord) {}, OutcomePassed},
		{"final game missing home score is partial", func(g *models.GameRecord) { g.HomeScore = nil }, OutcomePartial},
		{"final game missing both scores is partial", func(g *models.GameRecord) { g.HomeScore, g.AwayScore = nil, nil }, OutcomePartial},
		{"final game missing venue is partial", func(g *models.GameRecord) { g.VenueName = "" }, OutcomePartial},
		{"negative score is rejected", func(g *models.GameRecord) { g.HomeScore = intPtr(-1) }, OutcomeRejected},
		{"zero game id is rejected", func(g *models.GameRecord) { g.GameID = 0 }, OutcomeRejected},
		{"bad date is rejected", func(g *models.GameRecord) { g.Date = "06/01/2023" }, OutcomeRejected},
		{"in-progress game is partial", func(g *models.GameRecord) {
			g.Status = models.StatusInProgress
			g.HomeScore, g.AwayScore = nil, nil
		}, OutcomePartial},
		{"scheduled game is partial", func(g *models.GameRecord) {
			g.Status = models.StatusScheduled
			g.HomeScore, g.AwayScore = nil, nil
		}, OutcomePartial},
		{"postponed game passes", func(g *models.GameRecord) {
			g.Status = models.StatusPostponed
			g.HomeScore, g.AwayScore = nil, nil
		}, OutcomePassed},
		{"cancelled game passes", func(g *models.GameRecord) {
			g.Status = models.StatusCancelled
			g.HomeScore, g.AwayScore = nil, nil
		}, OutcomePassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := finalGame()
			tt.mutate(g)
			rep := CheckGame(g)
			if rep.Outcome != tt.want {
				t.Errorf("CheckGame() = %v (%s), want %v", rep.Outcome, rep.Reason(), tt.want)
			}
		})
	}
}

func pitchSeq(seqs ...int) []models.PitchEvent {
	events := make([]models.PitchEvent, len(seqs))
	for i, s := range seqs {
		events[i] = models.PitchEvent{
			GameID:      634001,
			SequenceID:  s,
			AtBatIndex:  i,
			PitchNumber: 1,
		}
	}
	return events
}

func TestCheckEvents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		events []models.PitchEvent
		want   Outcome
	}{
		{"gap-free sequence passes", pitchSeq(0, 1, 2, 3), OutcomePassed},
		{"empty set is partial", nil, OutcomePartial},
		{"gap flags partial, not rejected", pitchSeq(0, 1, 3), OutcomePartial},
		{"duplicate sequence is rejected", pitchSeq(0, 1, 1), OutcomeRejected},
		{"decreasing sequence is rejected", pitchSeq(0, 2, 1), OutcomeRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rep := CheckEvents(634001, tt.events)
			if rep.Outcome != tt.want {
				t.Errorf("CheckEvents() = %v (%s), want %v", rep.Outcome, rep.Reason(), tt.want)
			}
		})
	}
}

func TestCheckEventsWrongGame(t *testing.T) {
	t.Parallel()

	events := pitchSeq(0, 1)
	events[1].GameID = 999999
	rep := CheckEvents(634001, events)
	if !rep.Rejected() {
		t.Errorf("CheckEvents() with foreign game id = %v, want rejected", rep.Outcome)
	}
}

func TestCheckPlayerStat(t *testing.T) {
	t.Parallel()

	base := func() *models.PlayerDateStat {
		return &models.PlayerDateStat{
			PlayerID:  660670,
			TeamID:    144,
			Date:      "2023-06-01",
			Season:    2023,
			StatGroup: models.StatGroupHitting,
			Stats:     map[string]string{"hits": "2", "atBats": "4", "avg": ".312"},
			UpdatedAt: time.Now(),
		}
	}

	tests := []struct {
		name   string
		mutate func(*models.PlayerDateStat)
		want   Outcome
	}{
		{"plausible line passes", func(s *models.PlayerDateStat) {}, OutcomePassed},
		{"negative counting stat is rejected", func(s *models.PlayerDateStat) { s.Stats["hits"] = "-2" }, OutcomeRejected},
		{"rate stat above one is rejected", func(s *models.PlayerDateStat) { s.Stats["avg"] = "1.5" }, OutcomeRejected},
		{"unparseable stat is rejected", func(s *models.PlayerDateStat) { s.Stats["hits"] = "two" }, OutcomeRejected},
		{"unknown stat keys are ignored", func(s *models.PlayerDateStat) { s.Stats["launchAngle"] = "-12.5" }, OutcomePassed},
		{"missing player id is rejected", func(s *models.PlayerDateStat) { s.PlayerID = 0 }, OutcomeRejected},
		{"bad stat group is rejected", func(s *models.PlayerDateStat) { s.StatGroup = "fielding" }, OutcomeRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := base()
			tt.mutate(s)
			rep := CheckPlayerStat(s)
			if rep.Outcome != tt.want {
				t.Errorf("CheckPlayerStat() = %v (%s), want %v", rep.Outcome, rep.Reason(), tt.want)
			}
		})
	}
}

func TestCheckRoster(t *testing.T) {
	t.Parallel()

	snap := func(n int) *models.RosterSnapshot {
		s := &models.RosterSnapshot{
			TeamID:     144,
			Date:       "2023-06-01",
			RosterType: models.RosterActive,
			FetchedAt:  time.Now(),
		}
		for i := 0; i < n; i++ {
			s.Players = append(s.Players, models.RosterSpot{PlayerID: 600000 + i})
		}
		return s
	}

	full := snap(26)
	if rep := CheckRoster(full, 26); !rep.Passed() {
		t.Errorf("CheckRoster(26 players) = %v (%s), want passed", rep.Outcome, rep.Reason())
	}
	if full.Incomplete {
		t.Error("full roster must not be flagged incomplete")
	}

	short := snap(24)
	rep := CheckRoster(short, 26)
	if rep.Outcome != OutcomePartial {
		t.Errorf("CheckRoster(24 players) = %v, want partial", rep.Outcome)
	}
	if !short.Incomplete {
		t.Error("undersized roster must be flagged incomplete")
	}
}

func TestCheckTransaction(t *testing.T) {
	t.Parallel()

	tx := &models.TransactionRecord{
		PlayerID:      518692,
		EffectiveDate: "2022-03-18",
		TypeCode:      "SFA",
		Type:          models.NormalizeTransactionType("SFA"),
		ToTeamID:      119,
	}
	if rep := CheckTransaction(tx); !rep.Passed() {
		t.Errorf("CheckTransaction() = %v (%s), want passed", rep.Outcome, rep.Reason())
	}

	orphan := &models.TransactionRecord{
		PlayerID:      518692,
		EffectiveDate: "2022-03-18",
		TypeCode:      "REL",
	}
	if rep := CheckTransaction(orphan); rep.Outcome != OutcomePartial {
		t.Errorf("CheckTransaction() without teams = %v, want partial", rep.Outcome)
	}
}

func TestReportMerge(t *testing.T) {
	t.Parallel()

	rep := passed().Merge(partial("a")).Merge(partial("b"))
	if rep.Outcome != OutcomePartial || len(rep.Reasons) != 2 {
		t.Errorf("merge = %+v, want partial with 2 reasons", rep)
	}

	rep = rep.Merge(rejected("c"))
	if !rep.Rejected() || len(rep.Reasons) != 3 {
		t.Errorf("merge = %+v, want rejected with 3 reasons", rep)
	}

	// Merging a lesser outcome never downgrades.
	rep = rep.Merge(passed())
	if !rep.Rejected() {
		t.Errorf("merge downgraded outcome to %v", rep.Outcome)
	}
}
