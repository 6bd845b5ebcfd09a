package server

import (
	"net/http"
	"strconv"

	"haven-planner/internal/household"

	"github.com/go-chi/chi/v5"
)

const defaultUsageDays = 7

func (s *Server) timeSaved(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.app.TimeSaved())
}

func (s *Server) aggregate(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.app.Aggregate())
}

func (s *Server) timeSeries(w http.ResponseWriter, r *http.Request) {
	ts, err := s.app.TimeSeries(r.Context())
	if err != nil {
		s.internalError(w, "time series", err)
		return
	}
	respondJSON(w, http.StatusOK, ts)
}

func (s *Server) adminHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "health": s.app.Health()})
}

func (s *Server) llmUsage(w http.ResponseWriter, r *http.Request) {
	days := defaultUsageDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 365 {
			respondError(w, http.StatusBadRequest, "BAD_REQUEST", "days must be a number between 1 and 365")
			return
		}
		days = n
	}
	usage, err := s.app.LLMUsage(r.Context(), days)
	if err != nil {
		s.internalError(w, "llm usage", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "days": days, "usage": usage})
}

func (s *Server) eventCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.app.EventCounts(r.Context())
	if err != nil {
		s.internalError(w, "event counts", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "counts": counts})
}

func (s *Server) createOrg(w http.ResponseWriter, r *http.Request) {
	var org household.Org
	if !s.decodeAndValidate(w, r, &org) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "orgs": s.app.CreateOrg(r.Context(), org)})
}

func (s *Server) exportData(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.app.ExportData())
}

func (s *Server) deleteChild(w http.ResponseWriter, r *http.Request) {
	removed := s.app.DeleteChild(r.Context(), chi.URLParam(r, "name"))
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "removed": removed})
}

func (s *Server) wipe(w http.ResponseWriter, r *http.Request) {
	s.app.Wipe(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) maintenance(w http.ResponseWriter, r *http.Request) {
	kept, err := s.app.RunMaintenance(r.Context())
	if err != nil {
		s.internalError(w, "maintenance", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "kept": kept})
}
