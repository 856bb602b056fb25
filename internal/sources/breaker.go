// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package sources

import (
	"context"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/config"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/logging"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/metrics"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/models"
)

// BreakerClient wraps StatsClient with circuit breaker protection so a
// degraded Stats API fails fast instead of stalling every worker on
// timeouts.
//
// The breaker uses real time for its interval and timeout windows; unit
// tests exercise the wrapped StatsClient directly and leave the breaker to
// integration scenarios.
type BreakerClient struct {
	client *StatsClient
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewBreakerClient creates a Stats API client guarded by a circuit breaker:
// max 3 requests in half-open state, 1 minute measurement window, 2 minute
// open period, opening at a 60% failure rate with at least 10 requests.
func NewBreakerClient(cfg *config.SourceConfig) *BreakerClient {
	client := NewStatsClient(cfg)
	cbName := "statsapi"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// A 404 is a valid answer, not a source failure; only transport,
		// server, and throttle failures count toward tripping.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return IsNotFound(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerClient{client: client, cb: cb, name: cbName}
}

// execute runs one Stats API call under breaker protection.
func (bc *BreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	return bc.cb.Execute(fn)
}

// castResult safely type-casts the circuit breaker result with error checking.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Schedule fetches the schedule range with circuit breaker protection.
func (bc *BreakerClient) Schedule(ctx context.Context, start, end string) ([]models.ScheduleEntry, error) {
	return castResult[[]models.ScheduleEntry](bc.execute(func() (interface{}, error) {
		return bc.client.Schedule(ctx, start, end)
	}))
}

// Game fetches one game record with circuit breaker protection.
func (bc *BreakerClient) Game(ctx context.Context, gameID int64) (*models.GameRecord, error) {
	return castResult[*models.GameRecord](bc.execute(func() (interface{}, error) {
		return bc.client.Game(ctx, gameID)
	}))
}

// PlayByPlay fetches a game's pitch events with circuit breaker protection.
func (bc *BreakerClient) PlayByPlay(ctx context.Context, gameID int64) ([]models.PitchEvent, error) {
	return castResult[[]models.PitchEvent](bc.execute(func() (interface{}, error) {
		return bc.client.PlayByPlay(ctx, gameID)
	}))
}

// PlayerStats fetches per-player date stats with circuit breaker protection.
func (bc *BreakerClient) PlayerStats(ctx context.Context, date string) ([]models.PlayerDateStat, error) {
	return castResult[[]models.PlayerDateStat](bc.execute(func() (interface{}, error) {
		return bc.client.PlayerStats(ctx, date)
	}))
}

// TeamStats fetches per-team date stats with circuit breaker protection.
func (bc *BreakerClient) TeamStats(ctx context.Context, date string) ([]models.TeamDateStat, error) {
	return castResult[[]models.TeamDateStat](bc.execute(func() (interface{}, error) {
		return bc.client.TeamStats(ctx, date)
	}))
}

// Transactions fetches roster moves with circuit breaker protection.
func (bc *BreakerClient) Transactions(ctx context.Context, start, end string) ([]models.TransactionRecord, error) {
	return castResult[[]models.TransactionRecord](bc.execute(func() (interface{}, error) {
		return bc.client.Transactions(ctx, start, end)
	}))
}

// Roster fetches one team's roster snapshot with circuit breaker protection.
func (bc *BreakerClient) Roster(ctx context.Context, teamID int, date string) (*models.RosterSnapshot, error) {
	return castResult[*models.RosterSnapshot](bc.execute(func() (interface{}, error) {
		return bc.client.Roster(ctx, teamID, date)
	}))
}

// Standings fetches the standings snapshot with circuit breaker protection.
func (bc *BreakerClient) Standings(ctx context.Context, date string) ([]models.StandingsSnapshot, error) {
	return castResult[[]models.StandingsSnapshot](bc.execute(func() (interface{}, error) {
		return bc.client.Standings(ctx, date)
	}))
}
