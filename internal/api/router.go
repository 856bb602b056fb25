// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/config"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/logging"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/middleware"
	"github.com/elijahcraig45/hanks-tank-ml-sub001/internal/warehouse"
)

// Server hosts the operator API for one collector process.
type Server struct {
	httpSrv *http.Server
}

// NewServer builds the operator server on the configured address.
func NewServer(cfg *config.ServerConfig, db *warehouse.DB) *Server {
	return &Server{
		httpSrv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           Routes(NewHandler(db)),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Routes assembles the router. Exposed separately so tests can drive the
// handler stack without a listener.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		r.Get("/deadletters", h.ListDeadLetters)
		r.Get("/deadletters/{id}", h.GetDeadLetter)
		r.Delete("/deadletters/{id}", h.DeleteDeadLetter)
		r.Get("/runs", h.ListRuns)
		r.Get("/incomplete", h.IncompleteGames)
		r.Get("/warehouse", h.WarehouseCounts)
	})

	return r
}

// Start serves until Shutdown. A closed-server return is not an error.
func (s *Server) Start() error {
	logging.Info().Str("addr", s.httpSrv.Addr).Msg("Operator API listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
