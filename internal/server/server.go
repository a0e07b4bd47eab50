// Package server exposes the aggregate payload, the period summary query
// and the KPI card CRUD over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"kpiboard/internal/dashboard"
	"kpiboard/internal/kanban"
	"kpiboard/internal/sheets"
	"kpiboard/internal/store"

	"github.com/rs/zerolog/log"
)

// Server holds the HTTP surface of the dashboard service.
type Server struct {
	builder *dashboard.Builder
	kpis    *store.Store
	addr    string
}

// New creates the server around the payload builder and card store.
func New(builder *dashboard.Builder, kpis *store.Store, addr string) *Server {
	return &Server{builder: builder, kpis: kpis, addr: addr}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/sheet-link", s.handleSheetLink)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("POST /api/dashboard/summary", s.handleSummary)
	mux.HandleFunc("GET /api/revenue", s.handleRevenue)
	mux.HandleFunc("GET /api/kpis", s.handleListKPIs)
	mux.HandleFunc("POST /api/kpis", s.handleCreateKPI)
	mux.HandleFunc("PUT /api/kpis/{id}", s.handleUpdateKPI)
	mux.HandleFunc("DELETE /api/kpis/{id}", s.handleDeleteKPI)
	return mux
}

// ListenAndServe starts the HTTP server and blocks.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("addr", s.addr).Msg("HTTP server listening")
	return srv.ListenAndServe()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFailure maps the error taxonomy onto HTTP classes: operator
// configuration mistakes are 500, unavailable upstreams are 502, unknown
// cards are 404.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboard.ErrMissingSheet):
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, sheets.ErrUnavailable), errors.Is(err, kanban.ErrUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
