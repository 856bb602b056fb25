// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/warehouse"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// Handler serves the operator endpoints over the warehouse.
type Handler struct {
	db        *warehouse.DB
	startedAt time.Time
}

// NewHandler builds the operator handler.
func NewHandler(db *warehouse.DB) *Handler {
	return &Handler{db: db, startedAt: time.Now()}
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status        string `json:"status"` // "ok" or "degraded"
	UptimeSeconds int64  `json:"uptime_seconds"`
	Warehouse     string `json:"warehouse"` // "ok" or the ping error
}

// Health reports process liveness and warehouse reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := HealthStatus{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Warehouse:     "ok",
	}
	if err := h.db.Ping(r.Context()); err != nil {
		status.Status = "degraded"
		status.Warehouse = err.Error()
		rw.writeJSON(http.StatusServiceUnavailable, APIResponse{Success: false, Data: status, Meta: rw.meta(0)})
		return
	}
	rw.Success(status)
}

// ListDeadLetters returns persisted dead letters, newest first.
// Query params: limit (default 100, max 1000).
func (h *Handler) ListDeadLetters(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			rw.BadRequest("limit must be a positive integer")
			return
		}
		limit = min(parsed, maxListLimit)
	}

	letters, err := h.db.ListDeadLetters(r.Context(), limit)
	if err != nil {
		rw.InternalError("failed to list dead letters")
		return
	}
	rw.SuccessWithCount(letters, len(letters))
}

// GetDeadLetter returns one dead letter by id.
func (h *Handler) GetDeadLetter(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		rw.BadRequest("id must be a UUID")
		return
	}

	dl, err := h.db.DeadLetter(r.Context(), id)
	if errors.Is(err, warehouse.ErrDeadLetterNotFound) {
		rw.NotFound("dead letter not found")
		return
	}
	if err != nil {
		rw.InternalError("failed to load dead letter")
		return
	}
	rw.Success(dl)
}

// DeleteDeadLetter discards one dead letter, acknowledging that the unit
// will not be recollected through the queue.
func (h *Handler) DeleteDeadLetter(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		rw.BadRequest("id must be a UUID")
		return
	}

	err = h.db.DeleteDeadLetter(r.Context(), id)
	if errors.Is(err, warehouse.ErrDeadLetterNotFound) {
		rw.NotFound("dead letter not found")
		return
	}
	if err != nil {
		rw.InternalError("failed to delete dead letter")
		return
	}
	rw.NoContent()
}

// ListRuns returns recent run summaries, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			rw.BadRequest("limit must be a positive integer")
			return
		}
		limit = min(parsed, maxListLimit)
	}

	runs, err := h.db.Runs(r.Context(), limit)
	if err != nil {
		rw.InternalError("failed to list runs")
		return
	}
	rw.SuccessWithCount(runs, len(runs))
}

// WarehouseCounts returns per-table row counts, a quick audit of what the
// warehouse holds.
func (h *Handler) WarehouseCounts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	counts, err := h.db.TableCounts(r.Context())
	if err != nil {
		rw.InternalError("failed to count warehouse tables")
		return
	}
	rw.Success(counts)
}

// IncompleteGames returns the game ids on a date still lacking a complete
// marker, the set the next collection run will revisit.
func (h *Handler) IncompleteGames(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	date := r.URL.Query().Get("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		rw.BadRequest("date must be YYYY-MM-DD")
		return
	}

	gameIDs, err := h.db.IncompleteGames(r.Context(), date)
	if err != nil {
		rw.InternalError("failed to query incomplete games")
		return
	}
	rw.SuccessWithCount(gameIDs, len(gameIDs))
}
