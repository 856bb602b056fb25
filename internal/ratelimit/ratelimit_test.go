// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/config"
)

func testSourceConfig() *config.SourceConfig {
	return &config.SourceConfig{
		Default: config.RateBudget{Requests: 100, Interval: time.Second, Burst: 100},
		Budgets: map[string]config.RateBudget{
			"slow": {Requests: 1, Interval: time.Hour, Burst: 1},
		},
		Cooldown: 30 * time.Second,
	}
}

func TestAcquireWithinBudget(t *testing.T) {
	t.Parallel()

	l := New(testSourceConfig())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := l.Acquire(ctx, "schedule"); err != nil {
			t.Fatalf("Acquire() error = %v on iteration %d", err, i)
		}
	}
}

func TestAcquireBlocksWhenExhausted(t *testing.T) {
	t.Parallel()

	l := New(testSourceConfig())

	// Burn the single slot of the slow source.
	if err := l.Acquire(context.Background(), "slow"); err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx, "slow")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Acquire() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestReportThrottledImposesCooldown(t *testing.T) {
	t.Parallel()

	l := New(testSourceConfig())
	now := time.Now()
	l.now = func() time.Time { return now }

	if l.InCooldown("game") {
		t.Fatal("InCooldown() = true before any throttle report")
	}

	l.Report("game", OutcomeThrottled)
	if !l.InCooldown("game") {
		t.Fatal("InCooldown() = false after throttle report")
	}

	// Other sources are unaffected.
	if l.InCooldown("schedule") {
		t.Fatal("cooldown leaked to an unrelated source")
	}

	// Window lapses after the configured duration.
	now = now.Add(31 * time.Second)
	if l.InCooldown("game") {
		t.Fatal("InCooldown() = true after window lapsed")
	}
}

func TestReportSuccessDoesNotCooldown(t *testing.T) {
	t.Parallel()

	l := New(testSourceConfig())
	l.Report("game", OutcomeSuccess)
	l.Report("game", OutcomeFailure)

	if l.InCooldown("game") {
		t.Fatal("non-throttle outcomes must not impose a cooldown")
	}
}

func TestCooldownNotShortened(t *testing.T) {
	t.Parallel()

	cfg := testSourceConfig()
	l := New(cfg)
	now := time.Now()
	l.now = func() time.Time { return now }

	l.Report("game", OutcomeThrottled)
	first := l.sources["game"].cooldownUntil

	// A second report at an earlier effective clock must not pull the
	// window back.
	l.now = func() time.Time { return now.Add(-time.Minute) }
	l.Report("game", OutcomeThrottled)

	if got := l.sources["game"].cooldownUntil; got.Before(first) {
		t.Fatalf("cooldownUntil moved backwards: %v -> %v", first, got)
	}
}

func TestAcquireUsesInjectedClock(t *testing.T) {
	t.Parallel()

	l := New(testSourceConfig())
	now := time.Now().Add(-time.Hour)
	l.now = func() time.Time { return now }

	// The cooldown window sits entirely in the past relative to the wall
	// clock, but the limiter's own clock says it is active. Acquire must
	// honor the injected clock and block.
	l.Report("game", OutcomeThrottled)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx, "game")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Acquire() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestAcquireWaitsOutExtendedCooldown(t *testing.T) {
	t.Parallel()

	cfg := testSourceConfig()
	cfg.Cooldown = 60 * time.Millisecond
	l := New(cfg)

	l.Report("game", OutcomeThrottled)
	start := time.Now()

	// Extend the window while Acquire is already sleeping on the first one.
	go func() {
		time.Sleep(30 * time.Millisecond)
		l.Report("game", OutcomeThrottled)
	}()

	if err := l.Acquire(context.Background(), "game"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Fatalf("Acquire() returned after %v, before the extended cooldown lapsed", elapsed)
	}
}

func TestAcquireHonorsCooldownCancellation(t *testing.T) {
	t.Parallel()

	l := New(testSourceConfig())
	l.Report("game", OutcomeThrottled)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx, "game")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Acquire() during cooldown error = %v, want context.DeadlineExceeded", err)
	}
}
