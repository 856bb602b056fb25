// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package sources

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/config"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/models"
)

func testClient(t *testing.T, handler http.Handler) *StatsClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStatsClient(&config.SourceConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
}

func TestScheduleNormalization(t *testing.T) {
	t.Parallel()

	body := `{
		"dates": [{
			"date": "2021-04-10",
			"games": [
				{
					"gamePk": 634001,
					"gameType": "R",
					"officialDate": "2021-04-10",
					"gameNumber": 1,
					"doubleHeader": "Y",
					"status": {"detailedState": "Final"},
					"teams": {
						"home": {"team": {"id": 144, "name": "Atlanta Braves"}},
						"away": {"team": {"id": 143, "name": "Philadelphia Phillies"}}
					},
					"venue": {"id": 4705, "name": "Truist Park"}
				},
				{
					"gamePk": 634002,
					"gameType": "R",
					"officialDate": "2021-04-10",
					"gameNumber": 2,
					"doubleHeader": "Y",
					"status": {"detailedState": "Scheduled"},
					"teams": {
						"home": {"team": {"id": 144, "name": "Atlanta Braves"}},
						"away": {"team": {"id": 143, "name": "Philadelphia Phillies"}}
					},
					"venue": {"id": 4705, "name": "Truist Park"}
				}
			]
		}]
	}`
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/schedule" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("sportId"); got != "1" {
			t.Errorf("sportId = %q, want 1", got)
		}
		w.Write([]byte(body)) //nolint:errcheck
	}))

	entries, err := c.Schedule(t.Context(), "2021-04-10", "2021-04-10")
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Schedule() returned %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first.GameID != 634001 {
		t.Errorf("GameID = %d, want 634001", first.GameID)
	}
	if first.Status != models.StatusFinal {
		t.Errorf("Status = %q, want final", first.Status)
	}
	if first.GameType != models.GameTypeRegular {
		t.Errorf("GameType = %q, want regular", first.GameType)
	}
	if first.GameNumber != 1 || entries[1].GameNumber != 2 {
		t.Errorf("doubleheader game numbers = %d, %d, want 1, 2", first.GameNumber, entries[1].GameNumber)
	}
	if first.GameID == entries[1].GameID {
		t.Error("doubleheader games must carry distinct game IDs")
	}
	if first.Venue != "Truist Park" {
		t.Errorf("Venue = %q", first.Venue)
	}
}

func TestGameRecord(t *testing.T) {
	t.Parallel()

	body := `{
		"gameData": {
			"game": {"pk": 634001, "type": "R", "season": "2021"},
			"datetime": {"officialDate": "2021-04-10", "dayNight": "night"},
			"status": {"detailedState": "Final"},
			"teams": {
				"home": {"id": 144, "name": "Atlanta Braves"},
				"away": {"id": 143, "name": "Philadelphia Phillies"}
			},
			"venue": {"id": 4705, "name": "Truist Park"},
			"weather": {"condition": "Clear", "temp": "72", "wind": "5 mph, Out To CF"}
		},
		"liveData": {
			"linescore": {"teams": {"home": {"runs": 5}, "away": {"runs": 4}}}
		}
	}`
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/game/634001/feed/live" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(body)) //nolint:errcheck
	}))

	rec, err := c.Game(t.Context(), 634001)
	if err != nil {
		t.Fatalf("Game() error = %v", err)
	}
	if rec.Season != 2021 {
		t.Errorf("Season = %d, want 2021", rec.Season)
	}
	if rec.HomeScore == nil || *rec.HomeScore != 5 {
		t.Errorf("HomeScore = %v, want 5", rec.HomeScore)
	}
	if rec.AwayScore == nil || *rec.AwayScore != 4 {
		t.Errorf("AwayScore = %v, want 4", rec.AwayScore)
	}
	if rec.TempF == nil || *rec.TempF != 72 {
		t.Errorf("TempF = %v, want 72", rec.TempF)
	}
	if rec.VenueID == nil || *rec.VenueID != 4705 {
		t.Errorf("VenueID = %v, want 4705", rec.VenueID)
	}
	if rec.Status != models.StatusFinal {
		t.Errorf("Status = %q, want final", rec.Status)
	}
	if rec.CollectedAt.IsZero() {
		t.Error("CollectedAt not stamped")
	}
}

func TestPlayByPlaySequencing(t *testing.T) {
	t.Parallel()

	// Two at-bats; the pickoff in the first at-bat is not a pitch and must
	// not consume a sequence slot.
	body := `{
		"allPlays": [
			{
				"about": {"atBatIndex": 0},
				"matchup": {"pitcher": {"id": 605400}, "batter": {"id": 660670}},
				"playEvents": [
					{"isPitch": true, "pitchNumber": 1, "details": {"description": "Ball", "type": {"code": "FF"}}, "pitchData": {"startSpeed": 96.1, "zone": 12}},
					{"isPitch": false, "details": {"description": "Pickoff Attempt 1B"}},
					{"isPitch": true, "pitchNumber": 2, "details": {"description": "Called Strike", "type": {"code": "SL"}}, "pitchData": {"startSpeed": 84.9, "zone": 5}}
				]
			},
			{
				"about": {"atBatIndex": 1},
				"matchup": {"pitcher": {"id": 605400}, "batter": {"id": 665742}},
				"playEvents": [
					{"isPitch": true, "pitchNumber": 1, "details": {"description": "In play, run(s)", "type": {"code": "CH"}}, "pitchData": {"startSpeed": 88.0, "coordinates": {"x": 110.3, "y": 160.2}}}
				]
			}
		]
	}`
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body)) //nolint:errcheck
	}))

	events, err := c.PlayByPlay(t.Context(), 634001)
	if err != nil {
		t.Fatalf("PlayByPlay() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("PlayByPlay() returned %d events, want 3", len(events))
	}
	for i, ev := range events {
		if ev.SequenceID != i {
			t.Errorf("events[%d].SequenceID = %d, want gap-free ordering", i, ev.SequenceID)
		}
		if ev.GameID != 634001 {
			t.Errorf("events[%d].GameID = %d", i, ev.GameID)
		}
	}
	if events[2].AtBatIndex != 1 || events[2].BatterID != 665742 {
		t.Errorf("second at-bat not carried: %+v", events[2])
	}
	if events[0].PitchType != "FF" || events[0].StartSpeed == nil || *events[0].StartSpeed != 96.1 {
		t.Errorf("pitch data not carried: %+v", events[0])
	}
}

func TestTransactionsSkipsTeamLevelNotes(t *testing.T) {
	t.Parallel()

	body := `{
		"transactions": [
			{
				"person": {"id": 518692, "fullName": "Freddie Freeman"},
				"fromTeam": {"id": 144},
				"toTeam": {"id": 119},
				"effectiveDate": "2022-03-18",
				"typeCode": "SFA",
				"description": "Signed as free agent"
			},
			{
				"person": {"id": 0},
				"date": "2022-03-18",
				"typeCode": "TR",
				"description": "Team-level note"
			}
		]
	}`
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body)) //nolint:errcheck
	}))

	records, err := c.Transactions(t.Context(), "2022-03-18", "2022-03-18")
	if err != nil {
		t.Fatalf("Transactions() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Transactions() returned %d records, want 1 (team note skipped)", len(records))
	}
	rec := records[0]
	if rec.PlayerID != 518692 || rec.EffectiveDate != "2022-03-18" || rec.TypeCode != "SFA" {
		t.Errorf("record = %+v", rec)
	}
	if rec.CounterpartyTeamID() != 119 {
		t.Errorf("CounterpartyTeamID() = %d, want destination team 119", rec.CounterpartyTeamID())
	}
}

func TestRosterSnapshot(t *testing.T) {
	t.Parallel()

	body := `{
		"roster": [
			{"person": {"id": 660670, "fullName": "Ronald Acuna Jr."}, "jerseyNumber": "13", "position": {"abbreviation": "RF"}, "status": {"code": "A"}},
			{"person": {"id": 621566, "fullName": "Matt Olson"}, "jerseyNumber": "28", "position": {"abbreviation": "1B"}, "status": {"code": "A"}}
		]
	}`
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams/144/roster" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("rosterType"); got != "active" {
			t.Errorf("rosterType = %q, want active", got)
		}
		w.Write([]byte(body)) //nolint:errcheck
	}))

	snap, err := c.Roster(t.Context(), 144, "2023-06-01")
	if err != nil {
		t.Fatalf("Roster() error = %v", err)
	}
	if snap.TeamID != 144 || snap.Date != "2023-06-01" || snap.RosterType != models.RosterActive {
		t.Errorf("snapshot identity = %+v", snap)
	}
	if len(snap.Players) != 2 {
		t.Fatalf("Players = %d, want 2", len(snap.Players))
	}
	if snap.Players[0].Position != "RF" {
		t.Errorf("Position = %q, want RF", snap.Players[0].Position)
	}
}

func TestStandingsSnapshot(t *testing.T) {
	t.Parallel()

	body := `{
		"records": [{
			"division": {"id": 204},
			"teamRecords": [
				{"team": {"id": 144}, "wins": 104, "losses": 58, "winningPercentage": ".642", "gamesBack": "-", "divisionRank": "1"},
				{"team": {"id": 143}, "wins": 90, "losses": 72, "winningPercentage": ".556", "gamesBack": "14.0", "divisionRank": "2"}
			]
		}]
	}`
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body)) //nolint:errcheck
	}))

	snaps, err := c.Standings(t.Context(), "2023-10-01")
	if err != nil {
		t.Fatalf("Standings() error = %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("Standings() returned %d, want 2", len(snaps))
	}
	if snaps[0].Wins != 104 || snaps[0].Pct != 0.642 || snaps[0].DivisionRank != 1 {
		t.Errorf("first line = %+v", snaps[0])
	}
	if snaps[1].GamesBack != "14.0" {
		t.Errorf("GamesBack = %q, want 14.0", snaps[1].GamesBack)
	}
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantClass  ErrorClass
		wantRetry  bool
		retryAfter time.Duration
	}{
		{
			name: "404 is not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantClass: ClassNotFound,
		},
		{
			name: "429 is rate limited with Retry-After",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "30")
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantClass:  ClassRateLimited,
			wantRetry:  true,
			retryAfter: 30 * time.Second,
		},
		{
			name: "503 is transient",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantClass: ClassTransient,
			wantRetry: true,
		},
		{
			name: "undecodable body is malformed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"dates": "not an array"`)) //nolint:errcheck
			},
			wantClass: ClassMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := testClient(t, tt.handler)
			_, err := c.Schedule(t.Context(), "2023-06-01", "2023-06-01")
			if err == nil {
				t.Fatal("Schedule() error = nil, want classified failure")
			}

			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("error %v is not a *FetchError", err)
			}
			if fe.Class != tt.wantClass {
				t.Errorf("Class = %q, want %q", fe.Class, tt.wantClass)
			}
			if fe.Retryable() != tt.wantRetry {
				t.Errorf("Retryable() = %v, want %v", fe.Retryable(), tt.wantRetry)
			}
			if fe.RetryAfter != tt.retryAfter {
				t.Errorf("RetryAfter = %v, want %v", fe.RetryAfter, tt.retryAfter)
			}
			if fe.Source != "schedule" {
				t.Errorf("Source = %q, want schedule", fe.Source)
			}
		})
	}
}

func TestStringifyStats(t *testing.T) {
	t.Parallel()

	got := stringifyStats(map[string]interface{}{
		"hits":      float64(3),
		"avg":       ".312",
		"era":       2.45,
		"qualified": true,
		"note":      nil,
	})
	want := map[string]string{
		"hits":      "3",
		"avg":       ".312",
		"era":       "2.45",
		"qualified": "true",
	}
	if len(got) != len(want) {
		t.Fatalf("stringifyStats() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("stringifyStats()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestPlayerStatsBothGroups(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		group := r.URL.Query().Get("group")
		switch group {
		case "hitting":
			w.Write([]byte(`{"stats": [{"group": {"displayName": "hitting"}, "splits": [
				{"player": {"id": 660670, "fullName": "Ronald Acuna Jr."}, "team": {"id": 144}, "stat": {"hits": 2, "atBats": 4}}
			]}]}`)) //nolint:errcheck
		case "pitching":
			w.Write([]byte(`{"stats": [{"group": {"displayName": "pitching"}, "splits": [
				{"player": {"id": 605400, "fullName": "Max Fried"}, "team": {"id": 144}, "stat": {"inningsPitched": "7.0", "earnedRuns": 1}}
			]}]}`)) //nolint:errcheck
		default:
			t.Errorf("unexpected group %q", group)
		}
	}))

	stats, err := c.PlayerStats(t.Context(), "2023-06-01")
	if err != nil {
		t.Fatalf("PlayerStats() error = %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("PlayerStats() returned %d lines, want 2 (one per group)", len(stats))
	}

	groups := map[models.StatGroup]bool{}
	for _, s := range stats {
		groups[s.StatGroup] = true
		if s.Date != "2023-06-01" || s.Season != 2023 {
			t.Errorf("date fields = %q/%d", s.Date, s.Season)
		}
	}
	if !groups[models.StatGroupHitting] || !groups[models.StatGroupPitching] {
		t.Errorf("stat groups = %v, want both hitting and pitching", groups)
	}
}

func TestPlayerStatsToleratesOffDay(t *testing.T) {
	t.Parallel()

	// A 404 for a stat group means no lines that day, not a failure.
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	stats, err := c.PlayerStats(t.Context(), "2023-12-25")
	if err != nil {
		t.Fatalf("PlayerStats() error = %v, want nil on off day", err)
	}
	if len(stats) != 0 {
		t.Fatalf("PlayerStats() returned %d lines, want 0", len(stats))
	}
}
