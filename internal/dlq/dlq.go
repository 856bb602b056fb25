// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

// Package dlq decides the fate of failed work units: retry with bounded
// exponential backoff, or bury in the warehouse-backed dead-letter table.
//
// Classification follows the fetch error taxonomy: rate-limited and
// transient failures retry until the attempt budget runs out; not-found,
// malformed, and validation rejections are permanent and bury immediately.
package dlq

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/config"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/logging"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/models"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/sources"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/warehouse"
)

// ErrValidationRejected marks a unit whose payload failed domain
// validation. Permanent; the unit buries with the validation reasons.
var ErrValidationRejected = errors.New("validation rejected")

// Policy computes retry delays and bounds attempts.
type Policy struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	JitterFraction    float64

	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewPolicy builds the retry policy from pipeline configuration with the
// standard doubling multiplier.
func NewPolicy(cfg *config.PipelineConfig) *Policy {
	return newPolicy(cfg, time.Now().UnixNano())
}

// NewPolicyWithSeed builds a policy with deterministic jitter for tests.
func NewPolicyWithSeed(cfg *config.PipelineConfig, seed int64) *Policy {
	return newPolicy(cfg, seed)
}

func newPolicy(cfg *config.PipelineConfig, seed int64) *Policy {
	return &Policy{
		MaxAttempts:       cfg.MaxAttempts,
		InitialBackoff:    cfg.InitialBackoff,
		MaxBackoff:        cfg.MaxBackoff,
		BackoffMultiplier: 2.0,
		JitterFraction:    cfg.JitterFraction,
		//nolint:gosec // G404: Weak random is fine for backoff jitter
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Exhausted reports whether the attempt budget is spent.
func (p *Policy) Exhausted(attempts int) bool {
	return attempts >= p.MaxAttempts
}

// Backoff returns the wait before retry number attempt (0-based), growing
// exponentially from InitialBackoff, capped at MaxBackoff, with symmetric
// jitter applied.
func (p *Policy) Backoff(attempt int) time.Duration {
	backoff := float64(p.InitialBackoff) * math.Pow(p.BackoffMultiplier, float64(attempt))
	if backoff > float64(p.MaxBackoff) {
		backoff = float64(p.MaxBackoff)
	}

	p.rngMu.Lock()
	jitter := backoff * p.JitterFraction * (p.rng.Float64()*2 - 1) // -jitter to +jitter
	p.rngMu.Unlock()

	return time.Duration(backoff + jitter)
}

// Delay returns the wait before the next attempt, honoring an upstream
// Retry-After request when it exceeds the computed backoff.
func (p *Policy) Delay(attempt int, err error) time.Duration {
	delay := p.Backoff(attempt)
	var fe *sources.FetchError
	if errors.As(err, &fe) && fe.RetryAfter > delay {
		delay = fe.RetryAfter
	}
	return delay
}

// Retryable reports whether the failure is worth another attempt.
// Validation rejections and permanent fetch classes are not; unclassified
// errors are treated as transient.
func Retryable(err error) bool {
	if errors.Is(err, ErrValidationRejected) {
		return false
	}
	if errors.Is(err, warehouse.ErrLoaderConflict) {
		return false
	}
	var fe *sources.FetchError
	if errors.As(err, &fe) {
		return fe.Retryable()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// ClassOf maps a failure to its dead-letter classification label.
func ClassOf(err error) string {
	if errors.Is(err, ErrValidationRejected) {
		return "validation"
	}
	if errors.Is(err, warehouse.ErrLoaderConflict) {
		return "conflict"
	}
	if class := sources.Classify(err); class != "" {
		return string(class)
	}
	return "unknown"
}

// Handler buries exhausted or permanently failed units.
type Handler struct {
	store  warehouse.DLQStore
	policy *Policy
}

// NewHandler wires the dead-letter path to its persistence.
func NewHandler(store warehouse.DLQStore, policy *Policy) *Handler {
	return &Handler{store: store, policy: policy}
}

// Policy exposes the retry policy for the pipeline's backoff waits.
func (h *Handler) Policy() *Policy {
	return h.policy
}

// Bury persists the unit's failure in the dead-letter table. The run
// continues; burial failures are logged, never fatal.
func (h *Handler) Bury(ctx context.Context, unit *models.WorkUnit, err error) {
	now := time.Now().UTC()
	dl := &models.DeadLetter{
		UnitKey:      unit.Key(),
		Kind:         unit.Kind,
		Date:         unit.Date,
		GameID:       unit.GameID,
		Class:        ClassOf(err),
		Reason:       err.Error(),
		Attempts:     unit.Attempts,
		FirstFailure: now,
		LastFailure:  now,
	}

	if perr := h.store.PutDeadLetter(ctx, dl); perr != nil {
		logging.Error().Err(perr).Str("unit", unit.Key()).Msg("Failed to persist dead letter")
		return
	}
	logging.Warn().
		Str("unit", unit.Key()).
		Str("class", dl.Class).
		Int("attempts", unit.Attempts).
		Msg("Work unit dead-lettered")
}
