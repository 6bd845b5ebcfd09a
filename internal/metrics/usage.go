package metrics

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"haven-planner/internal/events"
	"haven-planner/internal/shared"
)

// EventLister reads the event log.
type EventLister interface {
	ListByKind(ctx context.Context, kind string) ([]events.Event, error)
}

// DailyUsage represents model token totals for a single UTC day.
type DailyUsage struct {
	Date            string `json:"date"`
	TotalPrompt     int    `json:"prompt_tokens"`
	TotalCompletion int    `json:"completion_tokens"`
	TotalExecution  int    `json:"calls"`
	Fallbacks       int    `json:"fallbacks"`
	AvgLatencyMS    int64  `json:"avg_latency_ms"`
}

// GetDailyUsage aggregates the llm_usage events of the last days days, oldest first.
func GetDailyUsage(ctx context.Context, src EventLister, days int, now time.Time) ([]DailyUsage, error) {
	evts, err := src.ListByKind(ctx, events.KindLLMUsage)
	if err != nil {
		return nil, err
	}

	since := now.UTC().AddDate(0, 0, -days)
	byDay := map[string]*DailyUsage{}
	latency := map[string]int64{}
	for _, e := range evts {
		if e.Time.Before(since) {
			continue
		}
		meta, ok := decodeCallMeta(e.Payload)
		if !ok {
			continue
		}
		date := e.Time.UTC().Format(time.DateOnly)
		u, ok := byDay[date]
		if !ok {
			u = &DailyUsage{Date: date}
			byDay[date] = u
		}
		u.TotalExecution++
		u.TotalPrompt += meta.Usage.PromptTokens
		u.TotalCompletion += meta.Usage.CompletionTokens
		if meta.Fallback {
			u.Fallbacks++
		}
		latency[date] += meta.LatencyMS
	}

	results := make([]DailyUsage, 0, len(byDay))
	for date, u := range byDay {
		u.AvgLatencyMS = latency[date] / int64(u.TotalExecution)
		results = append(results, *u)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })
	return results, nil
}

func decodeCallMeta(payload map[string]any) (shared.CallMeta, bool) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return shared.CallMeta{}, false
	}
	var meta shared.CallMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return shared.CallMeta{}, false
	}
	return meta, true
}
