package app

import (
	"context"
	"io"

	"haven-planner/internal/activity"
	"haven-planner/internal/events"
	"haven-planner/internal/household"
	"haven-planner/internal/mealplan"
	"haven-planner/internal/session"
	"haven-planner/internal/story"

	"go.uber.org/zap"
)

// GenerateMealPlan builds a plan and counts it.
func (a *App) GenerateMealPlan(ctx context.Context, childAge float64, days int, budget string) *mealplan.Plan {
	plan := a.engine.Generate(childAge, days, budget)
	a.metrics.MealPlanGenerated(string(plan.Budget))
	a.record(ctx, events.KindMealPlan, map[string]any{"days": plan.Days, "budget": plan.Budget})
	a.logger.Debug("meal plan generated",
		zap.Int("days", plan.Days),
		zap.String("budget", string(plan.Budget)),
		zap.Int("ingredients", len(plan.GroceryList)))
	return plan
}

// PrintMealPlan generates a plan and writes it as a printable HTML page.
func (a *App) PrintMealPlan(ctx context.Context, w io.Writer, childAge float64, days int, budget string) error {
	return mealplan.RenderPrintable(w, a.GenerateMealPlan(ctx, childAge, days, budget))
}

// PlanDay lays out activity blocks for child starting at wake.
func (a *App) PlanDay(ctx context.Context, child household.Child, wake string, blocks []int, focus string) (*activity.DaySchedule, error) {
	schedule, err := a.activities.PlanDay(child, wake, blocks, focus)
	if err != nil {
		return nil, err
	}
	a.record(ctx, events.KindPlanDay, map[string]any{"child": child, "blocks": blocks})
	return schedule, nil
}

// SuggestActivities lists activities for a free slot of minutes.
func (a *App) SuggestActivities(ctx context.Context, child household.Child, minutes int, mode string) ([]activity.Activity, error) {
	out, err := a.activities.Suggest(child, minutes, mode)
	if err != nil {
		return nil, err
	}
	a.record(ctx, events.KindActivitiesSuggest, map[string]any{"minutes": minutes, "mode": mode})
	return out, nil
}

// TellStory returns a story for the request.
func (a *App) TellStory(ctx context.Context, req story.Request) (story.Story, error) {
	s, err := a.stories.Tell(ctx, req)
	if err != nil {
		return story.Story{}, err
	}
	a.record(ctx, events.KindStory, map[string]any{"title": s.Title, "lang": s.Language, "source": s.Source})
	return s, nil
}

// StartSession starts a supervised session and adds its duration to the minutes saved.
func (a *App) StartSession(ctx context.Context, child household.Child, duration int, goal string) session.Started {
	started := a.sessions.Start(child, duration, goal)
	a.record(ctx, events.KindSessionStart, map[string]any{"duration": duration, "session_id": started.ID})
	return started
}

// ExportCalendar renders blocks as an iCalendar document.
func (a *App) ExportCalendar(childName, date string, blocks []activity.Block) (string, error) {
	return a.calendar.Export(childName, date, blocks)
}
