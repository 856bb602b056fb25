// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

/*
client.go - MLB Stats API client

StatsClient is the single HTTP surface for statsapi.mlb.com. It owns request
construction, status-code classification, and JSON decoding; per-feed
methods normalize the upstream documents into warehouse entities.

Failure classification:
  - HTTP 404            -> ClassNotFound (permanent, often "no data for date")
  - HTTP 429            -> ClassRateLimited (Retry-After honored by caller)
  - HTTP 5xx, transport -> ClassTransient (retryable with backoff)
  - undecodable body    -> ClassMalformed (permanent, dead-letters)

The client is read-only with respect to the warehouse: it never consults
completeness state and never writes. Pacing (token buckets, cooldowns) is
the caller's concern via internal/ratelimit.

Thread Safety: safe for concurrent use; each request is independent.
*/

//nolint:staticcheck // File documentation, not package doc
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/config"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/metrics"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/models"
)

// maxErrorBodySize caps how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// sportID is MLB within the Stats API's multi-sport namespace.
const sportID = "1"

// leagueIDs selects the American and National leagues for standings.
const leagueIDs = "103,104"

// StatsClient handles communication with the MLB Stats API.
type StatsClient struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewStatsClient creates a Stats API client from the source configuration.
func NewStatsClient(cfg *config.SourceConfig) *StatsClient {
	return &StatsClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		now: time.Now,
	}
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// parseRetryAfter interprets a Retry-After header as whole seconds.
// Returns zero for absent or unparseable values.
func parseRetryAfter(h string) time.Duration {
	if h == "" {
		return 0
	}
	seconds, err := strconv.Atoi(h)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// get performs a GET against path, classifies failures, and decodes the
// body into result. source labels metrics and error classification.
func (c *StatsClient) get(ctx context.Context, source, path string, params url.Values, result interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	start := c.now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.FetchErrors.WithLabelValues(source, string(ClassTransient)).Inc()
		return &FetchError{Source: source, Class: ClassTransient, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only response body

	metrics.FetchDuration.WithLabelValues(source).Observe(c.now().Sub(start).Seconds())

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		metrics.FetchErrors.WithLabelValues(source, string(ClassNotFound)).Inc()
		return &FetchError{
			Source:     source,
			Class:      ClassNotFound,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("resource not found: %s", path),
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.FetchErrors.WithLabelValues(source, string(ClassRateLimited)).Inc()
		return &FetchError{
			Source:     source,
			Class:      ClassRateLimited,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("source throttled the request"),
		}
	case resp.StatusCode >= 500:
		metrics.FetchErrors.WithLabelValues(source, string(ClassTransient)).Inc()
		return &FetchError{
			Source:     source,
			Class:      ClassTransient,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("server error: %s", readBodyForError(resp.Body)),
		}
	default:
		metrics.FetchErrors.WithLabelValues(source, string(ClassMalformed)).Inc()
		return &FetchError{
			Source:     source,
			Class:      ClassMalformed,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", readBodyForError(resp.Body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		metrics.FetchErrors.WithLabelValues(source, string(ClassMalformed)).Inc()
		return &FetchError{
			Source: source,
			Class:  ClassMalformed,
			Err:    fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}

// Schedule fetches all games scheduled in [start, end] (inclusive,
// YYYY-MM-DD). Doubleheader games arrive as distinct gamePks with their
// game numbers preserved.
func (c *StatsClient) Schedule(ctx context.Context, start, end string) ([]models.ScheduleEntry, error) {
	params := url.Values{}
	params.Set("sportId", sportID)
	params.Set("startDate", start)
	params.Set("endDate", end)

	var resp scheduleResponse
	if err := c.get(ctx, "schedule", "/schedule", params, &resp); err != nil {
		return nil, err
	}

	var entries []models.ScheduleEntry
	for _, d := range resp.Dates {
		for _, g := range d.Games {
			date := g.OfficialDate
			if date == "" {
				date = d.Date
			}
			gameNumber := 0
			if g.DoubleHeader != "N" && g.DoubleHeader != "" {
				gameNumber = g.GameNumber
			}
			entries = append(entries, models.ScheduleEntry{
				GameID:     g.GamePk,
				Date:       date,
				GameType:   models.NormalizeGameType(g.GameType),
				GameNumber: gameNumber,
				Status:     models.NormalizeGameStatus(g.Status.DetailedState),
				HomeID:     g.Teams.Home.Team.ID,
				AwayID:     g.Teams.Away.Team.ID,
				Venue:      g.Venue.Name,
			})
		}
	}
	return entries, nil
}

// Game fetches the full record for one game: linescore, venue, and weather
// context from the live feed.
func (c *StatsClient) Game(ctx context.Context, gameID int64) (*models.GameRecord, error) {
	var resp liveFeedResponse
	path := fmt.Sprintf("/game/%d/feed/live", gameID)
	if err := c.get(ctx, "game", path, nil, &resp); err != nil {
		return nil, err
	}

	gd := resp.GameData
	season, _ := strconv.Atoi(gd.Game.Season)

	rec := &models.GameRecord{
		GameID:      gameID,
		Date:        gd.Datetime.OfficialDate,
		Season:      season,
		GameType:    models.NormalizeGameType(gd.Game.Type),
		Status:      models.NormalizeGameStatus(gd.Status.DetailedState),
		HomeID:      gd.Teams.Home.ID,
		AwayID:      gd.Teams.Away.ID,
		HomeName:    gd.Teams.Home.Name,
		AwayName:    gd.Teams.Away.Name,
		HomeScore:   resp.LiveData.Linescore.Teams.Home.Runs,
		AwayScore:   resp.LiveData.Linescore.Teams.Away.Runs,
		VenueName:   gd.Venue.Name,
		Weather:     gd.Weather.Condition,
		WindSpeed:   gd.Weather.Wind,
		DayNight:    gd.Datetime.DayNight,
		CollectedAt: c.now().UTC(),
	}
	if gd.Venue.ID != 0 {
		venueID := gd.Venue.ID
		rec.VenueID = &venueID
	}
	if t, err := strconv.Atoi(gd.Weather.Temp); err == nil {
		rec.TempF = &t
	}
	return rec, nil
}

// PlayByPlay fetches a game's event stream flattened to pitch-bearing
// events. Sequence IDs are assigned from the upstream at-bat and pitch
// ordering, starting at zero, so a complete game yields a gap-free run.
func (c *StatsClient) PlayByPlay(ctx context.Context, gameID int64) ([]models.PitchEvent, error) {
	var resp playByPlayResponse
	path := fmt.Sprintf("/game/%d/playByPlay", gameID)
	if err := c.get(ctx, "playbyplay", path, nil, &resp); err != nil {
		return nil, err
	}

	var events []models.PitchEvent
	seq := 0
	for _, play := range resp.AllPlays {
		for _, ev := range play.PlayEvents {
			if !ev.IsPitch {
				continue
			}
			pe := models.PitchEvent{
				GameID:      gameID,
				SequenceID:  seq,
				AtBatIndex:  play.About.AtBatIndex,
				PitchNumber: ev.PitchNumber,
				PitcherID:   play.Matchup.Pitcher.ID,
				BatterID:    play.Matchup.Batter.ID,
				PitchType:   ev.Details.Type.Code,
				StartSpeed:  ev.PitchData.StartSpeed,
				EndSpeed:    ev.PitchData.EndSpeed,
				Zone:        ev.PitchData.Zone,
				CoordX:      ev.PitchData.Coordinates.X,
				CoordY:      ev.PitchData.Coordinates.Y,
				Result:      ev.Details.Description,
			}
			events = append(events, pe)
			seq++
		}
	}
	return events, nil
}

// statGroups are the aggregate families collected per date.
var statGroups = []models.StatGroup{models.StatGroupHitting, models.StatGroupPitching}

// stringifyStats flattens the upstream free-form stat object into the
// string-valued map the warehouse stores. Numeric values keep their JSON
// literal representation.
func stringifyStats(raw map[string]interface{}) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		case nil:
			// Dropped: a null stat carries no information.
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}

// PlayerStats fetches every player's aggregate line for one date, both
// hitting and pitching groups.
func (c *StatsClient) PlayerStats(ctx context.Context, date string) ([]models.PlayerDateStat, error) {
	var stats []models.PlayerDateStat
	for _, group := range statGroups {
		params := url.Values{}
		params.Set("stats", "byDateRange")
		params.Set("group", string(group))
		params.Set("startDate", date)
		params.Set("endDate", date)
		params.Set("sportId", sportID)

		var resp statsResponse
		if err := c.get(ctx, "stats", "/stats", params, &resp); err != nil {
			if IsNotFound(err) {
				continue // no lines for this group on an off day
			}
			return nil, err
		}

		season := seasonOf(date)
		for _, block := range resp.Stats {
			for _, split := range block.Splits {
				stats = append(stats, models.PlayerDateStat{
					PlayerID:   split.Player.ID,
					PlayerName: split.Player.FullName,
					TeamID:     split.Team.ID,
					Date:       date,
					Season:     season,
					StatGroup:  group,
					Stats:      stringifyStats(split.Stat),
					UpdatedAt:  c.now().UTC(),
				})
			}
		}
	}
	return stats, nil
}

// TeamStats fetches every team's aggregate line for one date, both stat
// groups, at team grain.
func (c *StatsClient) TeamStats(ctx context.Context, date string) ([]models.TeamDateStat, error) {
	var stats []models.TeamDateStat
	for _, group := range statGroups {
		params := url.Values{}
		params.Set("stats", "byDateRange")
		params.Set("group", string(group))
		params.Set("startDate", date)
		params.Set("endDate", date)
		params.Set("sportId", sportID)

		var resp statsResponse
		if err := c.get(ctx, "stats", "/teams/stats", params, &resp); err != nil {
			if IsNotFound(err) {
				continue
			}
			return nil, err
		}

		season := seasonOf(date)
		for _, block := range resp.Stats {
			for _, split := range block.Splits {
				stats = append(stats, models.TeamDateStat{
					TeamID:    split.Team.ID,
					TeamName:  split.Team.Name,
					Date:      date,
					Season:    season,
					StatGroup: group,
					Stats:     stringifyStats(split.Stat),
					UpdatedAt: c.now().UTC(),
				})
			}
		}
	}
	return stats, nil
}

// Transactions fetches all roster moves effective in [start, end].
func (c *StatsClient) Transactions(ctx context.Context, start, end string) ([]models.TransactionRecord, error) {
	params := url.Values{}
	params.Set("startDate", start)
	params.Set("endDate", end)

	var resp transactionsResponse
	if err := c.get(ctx, "transactions", "/transactions", params, &resp); err != nil {
		return nil, err
	}

	var records []models.TransactionRecord
	for _, tx := range resp.Transactions {
		if tx.Person.ID == 0 {
			continue // team-level note without a player, not keyable
		}
		date := tx.EffectiveDate
		if date == "" {
			date = tx.Date
		}
		records = append(records, models.TransactionRecord{
			PlayerID:      tx.Person.ID,
			PlayerName:    tx.Person.FullName,
			EffectiveDate: date,
			TypeCode:      tx.TypeCode,
			Type:          models.NormalizeTransactionType(tx.TypeCode),
			FromTeamID:    tx.FromTeam.ID,
			ToTeamID:      tx.ToTeam.ID,
			Description:   tx.Description,
		})
	}
	return records, nil
}

// Roster fetches one team's active roster as of date.
func (c *StatsClient) Roster(ctx context.Context, teamID int, date string) (*models.RosterSnapshot, error) {
	params := url.Values{}
	params.Set("rosterType", string(models.RosterActive))
	params.Set("date", date)

	var resp rosterResponse
	path := fmt.Sprintf("/teams/%d/roster", teamID)
	if err := c.get(ctx, "rosters", path, params, &resp); err != nil {
		return nil, err
	}

	snap := &models.RosterSnapshot{
		TeamID:     teamID,
		Date:       date,
		RosterType: models.RosterActive,
		FetchedAt:  c.now().UTC(),
	}
	for _, spot := range resp.Roster {
		snap.Players = append(snap.Players, models.RosterSpot{
			PlayerID:     spot.Person.ID,
			PlayerName:   spot.Person.FullName,
			JerseyNumber: spot.JerseyNumber,
			Position:     spot.Position.Abbreviation,
			StatusCode:   spot.Status.Code,
		})
	}
	return snap, nil
}

// Standings fetches every team's standings line as of date.
func (c *StatsClient) Standings(ctx context.Context, date string) ([]models.StandingsSnapshot, error) {
	params := url.Values{}
	params.Set("leagueId", leagueIDs)
	params.Set("date", date)

	var resp standingsResponse
	if err := c.get(ctx, "standings", "/standings", params, &resp); err != nil {
		return nil, err
	}

	var snaps []models.StandingsSnapshot
	for _, rec := range resp.Records {
		for _, tr := range rec.TeamRecords {
			pct, _ := strconv.ParseFloat(tr.WinningPercentage, 64)
			rank, _ := strconv.Atoi(tr.DivisionRank)
			snaps = append(snaps, models.StandingsSnapshot{
				TeamID:       tr.Team.ID,
				Date:         date,
				DivisionID:   rec.Division.ID,
				Wins:         tr.Wins,
				Losses:       tr.Losses,
				Pct:          pct,
				GamesBack:    tr.GamesBack,
				DivisionRank: rank,
			})
		}
	}
	return snaps, nil
}

// seasonOf extracts the year component of a YYYY-MM-DD date.
func seasonOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, _ := strconv.Atoi(date[:4])
	return year
}
