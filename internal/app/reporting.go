package app

import (
	"context"
	"fmt"
	"time"

	"haven-planner/internal/events"
	"haven-planner/internal/metrics"
)

// TimeSaved is the running total of supervised session minutes.
type TimeSaved struct {
	OK                bool `json:"ok"`
	MinutesSavedTotal int  `json:"minutes_saved_total"`
	Sessions          int  `json:"sessions"`
}

// Aggregate counts what the household currently stores.
type Aggregate struct {
	Sessions          int `json:"sessions"`
	MinutesSavedTotal int `json:"minutes_saved_total"`
	Children          int `json:"children"`
	Parents           int `json:"parents"`
}

// TimeSeries holds daily session minutes as parallel slices.
type TimeSeries struct {
	OK      bool     `json:"ok"`
	Days    []string `json:"days"`
	Minutes []int    `json:"minutes"`
}

// TimeSaved returns the minutes saved since the last wipe.
func (a *App) TimeSaved() TimeSaved {
	return TimeSaved{
		OK:                true,
		MinutesSavedTotal: a.household.MinutesSaved(),
		Sessions:          a.household.Sessions.Len(),
	}
}

// Aggregate returns counts of stored sessions, children and parents.
func (a *App) Aggregate() Aggregate {
	return Aggregate{
		Sessions:          a.household.Sessions.Len(),
		MinutesSavedTotal: a.household.MinutesSaved(),
		Children:          a.household.Children.Len(),
		Parents:           a.household.Parents.Len(),
	}
}

// TimeSeries sums session_start durations per UTC day from the event log.
func (a *App) TimeSeries(ctx context.Context) (TimeSeries, error) {
	totals, err := a.events.DailyTotals(ctx, events.KindSessionStart, "duration")
	if err != nil {
		return TimeSeries{}, fmt.Errorf("failed to build time series: %w", err)
	}
	ts := TimeSeries{OK: true, Days: make([]string, 0, len(totals)), Minutes: make([]int, 0, len(totals))}
	for _, t := range totals {
		ts.Days = append(ts.Days, t.Day)
		ts.Minutes = append(ts.Minutes, t.Total)
	}
	return ts, nil
}

// Health reports process and data directory health.
func (a *App) Health() metrics.SysHealth {
	return metrics.GetSysHealth(a.cfg.DataDir, a.started)
}

// LLMUsage returns daily model usage over the last days days.
func (a *App) LLMUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error) {
	return metrics.GetDailyUsage(ctx, a.events, days, time.Now())
}

// EventCounts returns how many events of each kind are stored.
func (a *App) EventCounts(ctx context.Context) (map[string]int64, error) {
	return a.events.CountByKind(ctx)
}
