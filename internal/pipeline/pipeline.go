// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

/*
pipeline.go - Run orchestration

A run walks a date range. Per date: fetch and commit the schedule, fan the
games out to a bounded worker pool, then process the date-scoped units
(stats, transactions, rosters, standings). Each unit fetches under the
rate limiter, validates, stages, and commits atomically through the
loader; failures retry with backoff until the attempt budget is spent,
then dead-letter.

Cancellation: every suspension point (limiter acquire, fetch, backoff
sleep) honors ctx. A cancelled unit discards its staged batch, so the
warehouse only ever sees whole batches.

Failure isolation: one game's failure never stops its siblings, one
date's failure never stops the range. Only cancellation propagates.
*/

//nolint:staticcheck // File documentation, not package doc
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/config"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/dlq"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/logging"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/metrics"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/models"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/ratelimit"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/sources"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/warehouse"
)

// dateLayout is the wire format for collection dates.
const dateLayout = "2006-01-02"

// Pipeline orchestrates one collection run end to end.
type Pipeline struct {
	cfg     *config.Config
	client  sources.Client
	db      *warehouse.DB
	limiter *ratelimit.Limiter
	oracle  *Oracle
	dlq     *dlq.Handler

	// sleep is replaceable so tests skip real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// New wires a pipeline from configuration, a source client, and an open
// warehouse.
func New(cfg *config.Config, client sources.Client, db *warehouse.DB) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		client:  client,
		db:      db,
		limiter: ratelimit.New(&cfg.Source),
		oracle:  NewOracle(db),
		dlq:     dlq.NewHandler(db, dlq.NewPolicy(&cfg.Pipeline)),
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tally accumulates run counters; workers update it concurrently.
type tally struct {
	mu  sync.Mutex
	run *models.RunLog
}

func (t *tally) gameDone(partial bool, events int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if partial {
		t.run.GamesPartial++
	} else {
		t.run.GamesDone++
	}
	t.run.EventsDone += events
}

func (t *tally) stats(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.run.StatsDone += n
}

func (t *tally) dead() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.run.UnitsDead++
}

func (t *tally) skipped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.run.UnitsSkipped++
}

// Run collects the inclusive [start, end] date range. The returned RunLog
// is also persisted; cancellation is recorded, not returned as an error.
func (p *Pipeline) Run(ctx context.Context, start, end string) (*models.RunLog, error) {
	dates, err := expandDates(start, end)
	if err != nil {
		return nil, err
	}

	run := &models.RunLog{
		RunID:     uuid.New(),
		StartDate: start,
		EndDate:   end,
		StartedAt: time.Now().UTC(),
	}
	if err := p.db.StartRun(ctx, run); err != nil {
		return nil, err
	}
	logging.Info().
		Str("run_id", run.RunID.String()).
		Str("start", start).
		Str("end", end).
		Int("dates", len(dates)).
		Msg("Collection run started")

	t := &tally{run: run}
	for _, date := range dates {
		if ctx.Err() != nil {
			run.Cancelled = true
			break
		}
		if err := p.collectDate(ctx, date, t); err != nil {
			if isCancellation(err) {
				run.Cancelled = true
				break
			}
			logging.Error().Err(err).Str("date", date).Msg("Date collection failed, continuing range")
		}
	}

	run.FinishedAt = time.Now().UTC()
	if err := p.db.FinishRun(ctx, run); err != nil {
		logging.Error().Err(err).Str("run_id", run.RunID.String()).Msg("Failed to persist run summary")
	}
	logging.Info().
		Str("run_id", run.RunID.String()).
		Int("games", run.GamesDone).
		Int("games_partial", run.GamesPartial).
		Int("events", run.EventsDone).
		Int("dead", run.UnitsDead).
		Int("skipped", run.UnitsSkipped).
		Bool("cancelled", run.Cancelled).
		Msg("Collection run finished")
	return run, nil
}

// collectDate processes one date: schedule, games, then date-scoped units.
func (p *Pipeline) collectDate(ctx context.Context, date string, t *tally) error {
	entries, err := p.collectSchedule(ctx, date, t)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Pipeline.GameWorkers)
	for _, entry := range entries {
		if p.oracle.IsComplete(ctx, entry.GameID) {
			metrics.UnitsSkipped.Inc()
			t.skipped()
			continue
		}
		entry := entry
		g.Go(func() error {
			return p.processGameUnit(gctx, entry, t)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := p.processStatsUnit(ctx, date, t); err != nil {
		return err
	}
	if err := p.processTransactionsUnit(ctx, date, t); err != nil {
		return err
	}
	if err := p.processRostersUnit(ctx, date, teamIDs(entries), t); err != nil {
		return err
	}
	return p.processStandingsUnit(ctx, date, t)
}

// fetchWithRetry runs one rate-limited fetch with bounded backoff. The
// unit's attempt counter accumulates across its fetches; the returned
// error is the last failure once the budget is spent or the failure is
// permanent.
func (p *Pipeline) fetchWithRetry(ctx context.Context, unit *models.WorkUnit, source string, fn func(context.Context) error) error {
	for attempt := 0; ; attempt++ {
		if err := p.limiter.Acquire(ctx, source); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			p.limiter.Report(source, ratelimit.OutcomeSuccess)
			return nil
		}
		if isCancellation(err) {
			return err
		}

		if sources.IsRateLimited(err) {
			p.limiter.Report(source, ratelimit.OutcomeThrottled)
		} else {
			p.limiter.Report(source, ratelimit.OutcomeFailure)
		}

		unit.Attempts++
		unit.LastErr = err.Error()
		if !dlq.Retryable(err) || p.dlq.Policy().Exhausted(unit.Attempts) {
			return err
		}

		metrics.RetryAttempts.WithLabelValues(source).Inc()
		delay := p.dlq.Policy().Delay(attempt, err)
		logging.Debug().
			Str("unit", unit.Key()).
			Str("source", source).
			Int("attempt", unit.Attempts).
			Dur("backoff", delay).
			Msg("Fetch failed, backing off")
		if serr := p.sleep(ctx, delay); serr != nil {
			return serr
		}
	}
}

// buryUnit moves a unit to dead and records it.
func (p *Pipeline) buryUnit(ctx context.Context, unit *models.WorkUnit, err error, t *tally) {
	unit.State = models.UnitDead
	unit.LastErr = err.Error()
	p.dlq.Bury(ctx, unit, err)
	metrics.UnitsProcessed.WithLabelValues(unit.Kind, string(models.UnitDead)).Inc()
	t.dead()
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// expandDates enumerates the inclusive [start, end] range.
func expandDates(start, end string) ([]string, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("end date %s before start date %s", end, start)
	}

	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates, nil
}

// teamIDs collects the distinct teams playing on a date, in first-seen
// order, for the roster unit.
func teamIDs(entries []models.ScheduleEntry) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, e := range entries {
		for _, id := range []int{e.HomeID, e.AwayID} {
			if id != 0 && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
