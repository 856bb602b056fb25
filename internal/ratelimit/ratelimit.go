// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

// Package ratelimit throttles outbound requests per upstream source.
//
// Each source (schedule, game, playbyplay, stats, transactions, rosters,
// standings) gets a token bucket sized from its configured budget. Acquire
// suspends the caller until a slot is free; Report feeds outcomes back, and
// a source-signaled throttle (HTTP 429) imposes a cooldown window during
// which Acquire blocks entirely for that source.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/config"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/logging"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/metrics"
)

// Outcome is the caller's report of how a permitted request went.
type Outcome int

const (
	// OutcomeSuccess: the request completed (2xx or a legitimate 404).
	OutcomeSuccess Outcome = iota
	// OutcomeFailure: the request failed for reasons other than throttling.
	OutcomeFailure
	// OutcomeThrottled: the source rejected the request with a rate-limit
	// signal; the limiter imposes a cooldown window for the source.
	OutcomeThrottled
)

// Limiter throttles requests per source. Safe for concurrent use by all
// workers sharing one source budget.
type Limiter struct {
	mu       sync.Mutex
	sources  map[string]*sourceState
	defaults config.RateBudget
	budgets  map[string]config.RateBudget
	cooldown time.Duration

	// now is replaceable for tests.
	now func() time.Time
}

type sourceState struct {
	limiter       *rate.Limiter
	cooldownUntil time.Time
}

// New builds a Limiter from the source configuration.
func New(cfg *config.SourceConfig) *Limiter {
	return &Limiter{
		sources:  make(map[string]*sourceState),
		defaults: cfg.Default,
		budgets:  cfg.Budgets,
		cooldown: cfg.Cooldown,
		now:      time.Now,
	}
}

// state returns (creating on first use) the per-source state.
func (l *Limiter) state(source string) *sourceState {
	if s, ok := l.sources[source]; ok {
		return s
	}
	budget, ok := l.budgets[source]
	if !ok {
		budget = l.defaults
	}
	burst := budget.Burst
	if burst <= 0 {
		burst = budget.Requests
	}
	every := budget.Interval / time.Duration(budget.Requests)
	s := &sourceState{limiter: rate.NewLimiter(rate.Every(every), burst)}
	l.sources[source] = s
	return s
}

// Acquire blocks until a request slot is available for the source, honoring
// any active cooldown window first. Returns ctx.Err() if the context is
// cancelled while waiting.
func (l *Limiter) Acquire(ctx context.Context, source string) error {
	l.mu.Lock()
	s := l.state(source)
	l.mu.Unlock()

	// A cooldown window can be extended by a Report while we wait, so
	// re-check it until it has actually lapsed.
	for {
		l.mu.Lock()
		wait := s.cooldownUntil.Sub(l.now())
		l.mu.Unlock()
		if wait <= 0 {
			break
		}

		metrics.RateLimitWaits.WithLabelValues(source).Inc()
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
		timer.Stop()
	}

	if s.limiter.Allow() {
		return nil
	}

	metrics.RateLimitWaits.WithLabelValues(source).Inc()
	if err := s.limiter.Wait(ctx); err != nil {
		// Wait wraps neither context error, and it rejects a deadline it
		// cannot meet before that deadline expires. Acquire's contract is
		// to block until a slot frees or the context ends, so hold until
		// the context settles and surface its error for errors.Is.
		if ctx.Err() == nil {
			<-ctx.Done()
		}
		return ctx.Err()
	}
	return nil
}

// Report records the outcome of a permitted request. OutcomeThrottled
// forces the source into a cooldown window; other outcomes only count.
func (l *Limiter) Report(source string, outcome Outcome) {
	if outcome != OutcomeThrottled {
		return
	}

	l.mu.Lock()
	s := l.state(source)
	until := l.now().Add(l.cooldown)
	// Don't shorten an already-imposed window.
	if until.After(s.cooldownUntil) {
		s.cooldownUntil = until
	}
	l.mu.Unlock()

	metrics.RateLimitCooldowns.WithLabelValues(source).Inc()
	logging.Warn().
		Str("source", source).
		Dur("cooldown", l.cooldown).
		Msg("Source signaled throttling, imposing cooldown")
}

// InCooldown reports whether the source currently sits in a cooldown
// window. Used by tests and the operator surface.
func (l *Limiter) InCooldown(source string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sources[source]
	return ok && l.now().Before(s.cooldownUntil)
}
