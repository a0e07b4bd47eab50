package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"kpiboard/internal/agg"
	"kpiboard/internal/dashboard"
	"kpiboard/internal/store"

	"github.com/rs/zerolog/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus reports cache and source wiring for diagnostics: whether a
// payload is cached (and how old it is) and which tracker board answers.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"cached": false}
	if p, ok := s.builder.CachedPayload(); ok {
		status["cached"] = true
		status["generatedAt"] = p.GeneratedAt
	}
	if board, err := s.builder.TrackerBoard(r.Context()); err != nil {
		status["trackerError"] = err.Error()
	} else if board != nil {
		if name, ok := board["name"].(string); ok {
			status["trackerBoard"] = name
		}
	}
	writeJSON(w, http.StatusOK, status)
}

// handleSheetLink redirects to the source spreadsheet in the browser, so the
// UI can link "open the raw data" without knowing sheet ids.
func (s *Server) handleSheetLink(w http.ResponseWriter, r *http.Request) {
	doc := r.URL.Query().Get("doc")
	switch doc {
	case "", "outreach", "revenue":
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown document: %s", doc))
		return
	}

	url, err := s.builder.SheetURL(doc, r.URL.Query().Get("year"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	payload, err := s.builder.Dashboard(r.Context(), force)
	if err != nil {
		log.Error().Err(err).Msg("Dashboard build failed")
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

type summaryRequest struct {
	Start  string   `json:"start"`
	End    string   `json:"end"`
	Fields []string `json:"fields"`
	Tab    string   `json:"tab"`
	Force  bool     `json:"force"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	// Validation happens before any aggregation work.
	if req.Start == "" || req.End == "" || len(req.Fields) == 0 {
		writeError(w, http.StatusBadRequest, "required: start, end, fields[]")
		return
	}
	start, okStart := agg.ParseDay(req.Start)
	end, okEnd := agg.ParseDay(req.End)
	if !okStart || !okEnd {
		writeError(w, http.StatusBadRequest, "start and end must be YYYY-MM-DD")
		return
	}

	payload, err := s.builder.Dashboard(r.Context(), req.Force)
	if err != nil {
		writeFailure(w, err)
		return
	}

	tabName := req.Tab
	if tabName == "" {
		tabName = dashboard.MergedTab
	}
	tab := payload.Tab(tabName)
	if tab == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("tab not found: %s", tabName))
		return
	}

	summary := dashboard.SummarizePeriod(tab, start, end, req.Fields)
	writeJSON(w, http.StatusOK, map[string]any{
		"tab":         tabName,
		"period":      map[string]string{"start": req.Start, "end": req.End},
		"fields":      req.Fields,
		"summary":     summary,
		"generatedAt": payload.GeneratedAt,
	})
}

func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("year")
	if year == "" {
		year = strconv.Itoa(time.Now().Year())
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	values, err := s.builder.Revenue(r.Context(), year, force)
	if err != nil {
		log.Error().Err(err).Str("year", year).Msg("Revenue fetch failed")
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, values)
}

func (s *Server) handleListKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := s.kpis.List(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	if kpis == nil {
		kpis = []store.KPI{}
	}
	writeJSON(w, http.StatusOK, kpis)
}

func (s *Server) handleCreateKPI(w http.ResponseWriter, r *http.Request) {
	var k store.KPI
	if err := json.NewDecoder(r.Body).Decode(&k); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if k.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	created, err := s.kpis.Create(r.Context(), k)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateKPI(w http.ResponseWriter, r *http.Request) {
	var k store.KPI
	if err := json.NewDecoder(r.Body).Decode(&k); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	k.ID = r.PathValue("id")
	updated, err := s.kpis.Update(r.Context(), k)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteKPI(w http.ResponseWriter, r *http.Request) {
	if err := s.kpis.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": r.PathValue("id")})
}
