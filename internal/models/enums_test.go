// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package models

import "testing"

func TestNormalizeGameStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		detailed string
		want     GameStatus
	}{
		{"Final", StatusFinal},
		{"Game Over", StatusFinal},
		{"Completed Early: Rain", StatusFinal},
		{"In Progress", StatusInProgress},
		{"Warmup", StatusInProgress},
		{"Rain Delay", StatusInProgress},
		{"Postponed", StatusPostponed},
		{"Suspended: Rain", StatusPostponed},
		{"Cancelled", StatusCancelled},
		{"Scheduled", StatusScheduled},
		{"Pre-Game", StatusScheduled},
		{"", StatusUnknown},
		{"Umpire Review", StatusUnknown},
	}

	for _, tt := range tests {
		if got := NormalizeGameStatus(tt.detailed); got != tt.want {
			t.Errorf("NormalizeGameStatus(%q) = %q, want %q", tt.detailed, got, tt.want)
		}
	}
}

func TestNormalizeGameType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want GameType
	}{
		{"R", GameTypeRegular},
		{"r", GameTypeRegular},
		{"S", GameTypeSpring},
		{"E", GameTypeExhibition},
		{"F", GameTypePostseason},
		{"D", GameTypePostseason},
		{"L", GameTypePostseason},
		{"W", GameTypePostseason},
		{"X", GameTypeOther},
		{"", GameTypeOther},
	}

	for _, tt := range tests {
		if got := NormalizeGameType(tt.code); got != tt.want {
			t.Errorf("NormalizeGameType(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestNormalizeTransactionType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want TransactionType
	}{
		{"TR", TxnTrade},
		{"SGN", TxnSigning},
		{"SFA", TxnSigning},
		{"REL", TxnRelease},
		{"SC", TxnInjuryList},
		{"REC", TxnRecall},
		{"OPT", TxnOption},
		{"CLW", TxnClaim},
		{"??", TxnOther},
	}

	for _, tt := range tests {
		if got := NormalizeTransactionType(tt.code); got != tt.want {
			t.Errorf("NormalizeTransactionType(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestTransactionCounterparty(t *testing.T) {
	t.Parallel()

	txn := &TransactionRecord{FromTeamID: 111, ToTeamID: 147}
	if got := txn.CounterpartyTeamID(); got != 147 {
		t.Errorf("expected destination team 147, got %d", got)
	}

	release := &TransactionRecord{FromTeamID: 111}
	if got := release.CounterpartyTeamID(); got != 111 {
		t.Errorf("expected origin team 111, got %d", got)
	}
}

func TestWorkUnitKey(t *testing.T) {
	t.Parallel()

	game := &WorkUnit{Date: "2026-04-15", Kind: "game", GameID: 746001}
	if game.Key() != "2026-04-15/game/746001" {
		t.Errorf("unexpected game unit key: %s", game.Key())
	}

	stats := &WorkUnit{Date: "2026-04-15", Kind: "stats"}
	if stats.Key() != "2026-04-15/stats" {
		t.Errorf("unexpected stats unit key: %s", stats.Key())
	}
}

func TestWorkStateTerminal(t *testing.T) {
	t.Parallel()

	for _, s := range []WorkState{UnitPending, UnitFetching, UnitValidating, UnitStaged, UnitFailed, UnitRetryable} {
		if s.Terminal() {
			t.Errorf("state %s should not be terminal", s)
		}
	}
	for _, s := range []WorkState{UnitCommitted, UnitDead} {
		if !s.Terminal() {
			t.Errorf("state %s should be terminal", s)
		}
	}
}
