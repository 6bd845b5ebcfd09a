package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"haven-planner/internal/events/eventsdb"

	"github.com/google/uuid"
)

// Kinds written by the application.
const (
	KindSignup            = "signup"
	KindChildAdd          = "child_add"
	KindChildDelete       = "child_delete"
	KindPlanDay           = "plan_day"
	KindActivitiesSuggest = "activities_suggest"
	KindStory             = "story"
	KindSessionStart      = "session_start"
	KindMealPlan          = "mealplan"
	KindWipe              = "wipe"
	KindOrgCreate         = "org_create"
	KindSSOMock           = "sso_mock"
	KindSSOGoogle         = "sso_google"
	KindLLMUsage          = "llm_usage"
)

// Event is a single entry of the append-only log.
type Event struct {
	ID      string         `json:"id"`
	Time    time.Time      `json:"ts"`
	Kind    string         `json:"kind"`
	Payload map[string]any `json:"payload"`
}

// DailyTotal is the sum of one payload field for a UTC calendar day.
type DailyTotal struct {
	Day   string
	Total int
}

// Store persists events to SQLite. Entries are only ever appended or pruned by age.
type Store struct {
	queries *eventsdb.Queries
	now     func() time.Time
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: eventsdb.New(db),
		now:     time.Now,
	}
}

// WithClock returns a copy of the store that timestamps events with now.
func (s *Store) WithClock(now func() time.Time) *Store {
	return &Store{queries: s.queries, now: now}
}

// Record appends an event. payload must marshal to a JSON object; nil is stored as {}.
func (s *Store) Record(ctx context.Context, kind string, payload any) error {
	data := []byte("{}")
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", kind, err)
		}
	}

	err := s.queries.InsertEvent(ctx, eventsdb.InsertEventParams{
		ID:      uuid.NewString(),
		Ts:      s.now().UTC().UnixMilli(),
		Kind:    kind,
		Payload: string(data),
	})
	if err != nil {
		return fmt.Errorf("failed to insert %s event: %w", kind, err)
	}
	return nil
}

// List returns every event in chronological order.
func (s *Store) List(ctx context.Context) ([]Event, error) {
	rows, err := s.queries.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return decodeRows(rows), nil
}

// ListByKind returns the events of one kind in chronological order.
func (s *Store) ListByKind(ctx context.Context, kind string) ([]Event, error) {
	rows, err := s.queries.ListEventsByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s events: %w", kind, err)
	}
	return decodeRows(rows), nil
}

// Prune deletes events older than retention and returns how many are kept.
func (s *Store) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention).UTC().UnixMilli()
	if _, err := s.queries.DeleteEventsBefore(ctx, cutoff); err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	kept, err := s.queries.CountEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return kept, nil
}

// CountByKind returns the number of stored events per kind.
func (s *Store) CountByKind(ctx context.Context) (map[string]int64, error) {
	rows, err := s.queries.CountEventsByKind(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by kind: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Kind] = r.Total
	}
	return counts, nil
}

// DailyTotals sums the numeric payload field of every kind event per UTC day.
// Events whose field is missing or not a number count as zero.
func (s *Store) DailyTotals(ctx context.Context, kind, field string) ([]DailyTotal, error) {
	evts, err := s.ListByKind(ctx, kind)
	if err != nil {
		return nil, err
	}

	sums := map[string]int{}
	for _, e := range evts {
		day := e.Time.UTC().Format(time.DateOnly)
		v, _ := e.Payload[field].(float64)
		sums[day] += int(v)
	}

	totals := make([]DailyTotal, 0, len(sums))
	for day, total := range sums {
		totals = append(totals, DailyTotal{Day: day, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Day < totals[j].Day })
	return totals, nil
}

func decodeRows(rows []eventsdb.Event) []Event {
	out := make([]Event, 0, len(rows))
	for _, r := range rows {
		e := Event{
			ID:   r.ID,
			Time: time.UnixMilli(r.Ts).UTC(),
			Kind: r.Kind,
		}
		// Rows are written by Record, a broken payload is kept with an empty body.
		if err := json.Unmarshal([]byte(r.Payload), &e.Payload); err != nil || e.Payload == nil {
			e.Payload = map[string]any{}
		}
		out = append(out, e)
	}
	return out
}
