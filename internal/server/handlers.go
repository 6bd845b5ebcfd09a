package server

import (
	"errors"
	"net/http"

	"haven-planner/internal/activity"
	"haven-planner/internal/calendar"
	"haven-planner/internal/household"
	"haven-planner/internal/mealplan"
	"haven-planner/internal/story"

	"go.uber.org/zap"
)

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var p household.Parent
	if !s.decodeAndValidate(w, r, &p) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "parent": s.app.Signup(r.Context(), p)})
}

func (s *Server) addChild(w http.ResponseWriter, r *http.Request) {
	var c household.Child
	if !s.decodeAndValidate(w, r, &c) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "child": s.app.AddChild(r.Context(), c)})
}

func (s *Server) planDay(w http.ResponseWriter, r *http.Request) {
	req := planDayRequest{AvailableBlock: []int{20, 30, 40}, Focus: activity.EnergyCalm}
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	schedule, err := s.app.PlanDay(r.Context(), req.Child.toChild(), req.WakeTime, req.AvailableBlock, req.Focus)
	if err != nil {
		if errors.Is(err, activity.ErrInvalidWakeTime) {
			respondError(w, http.StatusBadRequest, "INVALID_WAKE_TIME", err.Error())
			return
		}
		s.internalError(w, "plan day", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "blocks": schedule.Blocks, "note": schedule.Note})
}

func (s *Server) suggestActivities(w http.ResponseWriter, r *http.Request) {
	req := suggestRequest{Minutes: 20, Mode: activity.ModeSolo}
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	out, err := s.app.SuggestActivities(r.Context(), req.Child.toChild(), req.Minutes, req.Mode)
	if err != nil {
		if errors.Is(err, activity.ErrUnknownMode) {
			respondError(w, http.StatusBadRequest, "UNKNOWN_MODE", err.Error())
			return
		}
		s.internalError(w, "suggest activities", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "suggestions": out})
}

func (s *Server) generateStory(w http.ResponseWriter, r *http.Request) {
	req := storyRequest{Theme: "adventure", LengthMin: 4}
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	st, err := s.app.TellStory(r.Context(), story.Request{
		Child:     req.Child.toChild(),
		Theme:     req.Theme,
		LengthMin: req.LengthMin,
		Bilingual: req.Bilingual,
	})
	if err != nil {
		s.internalError(w, "tell story", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "title": st.Title, "story": st.Text})
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	req := sessionRequest{DurationMin: 30, Goal: "engage"}
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	started := s.app.StartSession(r.Context(), req.Child.toChild(), req.DurationMin, req.Goal)
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"session_id": started.ID,
		"flow":       started.Flow,
		"safety":     started.Safety,
	})
}

// mealPlanArgs applies the request defaults: age 4, seven days, mid budget.
func mealPlanArgs(req mealPlanRequest) (float64, int, string) {
	age := mealplan.DefaultChildAge
	if req.Child.AgeYears != nil {
		age = float64(*req.Child.AgeYears)
	}
	days := mealplan.DefaultDays
	if req.Days != nil {
		days = int(*req.Days)
	}
	budget := req.Budget
	if budget == "" {
		budget = string(mealplan.BudgetMid)
	}
	return age, days, budget
}

func (s *Server) generateMealPlan(w http.ResponseWriter, r *http.Request) {
	var req mealPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	age, days, budget := mealPlanArgs(req)
	respondJSON(w, http.StatusOK, s.app.GenerateMealPlan(r.Context(), age, days, budget))
}

func (s *Server) printMealPlan(w http.ResponseWriter, r *http.Request) {
	var req mealPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	age, days, budget := mealPlanArgs(req)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.app.PrintMealPlan(r.Context(), w, age, days, budget); err != nil {
		s.logger.Error("failed to render printable meal plan", zap.Error(err))
	}
}

func (s *Server) groceriesText(w http.ResponseWriter, r *http.Request) {
	var req groceriesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	respondText(w, "text/plain; charset=utf-8", mealplan.RenderGroceryText(req.GroceryList))
}

func (s *Server) calendarICS(w http.ResponseWriter, r *http.Request) {
	var req icsRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	doc, err := s.app.ExportCalendar(req.Child.Name, req.Date, req.Plan)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidTime) {
			respondError(w, http.StatusBadRequest, "INVALID_TIME", err.Error())
			return
		}
		s.internalError(w, "export calendar", err)
		return
	}
	respondText(w, calendar.ContentType, doc)
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("request failed", zap.String("op", op), zap.Error(err))
	respondError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
}
