package session

import (
	"time"

	"haven-planner/internal/household"

	"github.com/google/uuid"
)

// SafetyNote is attached to every started session.
const SafetyNote = "Adult must be reachable at all times."

const (
	warmupMinutes   = 5
	winddownMinutes = 5
	minCoreMinutes  = 5
)

// Phase is one step of a session flow.
type Phase struct {
	Phase   string `json:"phase"`
	Minutes int    `json:"minutes"`
	Action  string `json:"action"`
}

// Started is the outcome of Start.
type Started struct {
	ID     string  `json:"session_id"`
	Flow   []Phase `json:"flow"`
	Safety string  `json:"safety"`
}

// Recorder stores sessions.
type Recorder interface {
	RecordSession(s household.Session)
}

// Manager starts sessions and keeps the household totals up to date.
type Manager struct {
	recorder Recorder
	now      func() time.Time
	newID    func() string
}

// NewManager creates a Manager recording into r.
func NewManager(r Recorder) *Manager {
	return &Manager{
		recorder: r,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// WithClock returns a copy of the manager reading time from now.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	cp := *m
	cp.now = now
	return &cp
}

// Flow returns the warmup, core and winddown phases for a session of duration minutes.
func Flow(duration int) []Phase {
	return []Phase{
		{Phase: "warmup", Minutes: warmupMinutes, Action: "calm breathing + choose mascot plush"},
		{Phase: "core", Minutes: max(minCoreMinutes, duration-warmupMinutes-winddownMinutes), Action: "guided solo activity"},
		{Phase: "winddown", Minutes: winddownMinutes, Action: "short story + tidy-up song"},
	}
}

// Start records a session of duration minutes for child and returns its flow.
func (m *Manager) Start(child household.Child, duration int, goal string) Started {
	s := household.Session{
		ID:        m.newID(),
		Child:     child,
		Duration:  duration,
		Goal:      goal,
		StartedAt: m.now().UTC(),
	}
	m.recorder.RecordSession(s)

	return Started{ID: s.ID, Flow: Flow(duration), Safety: SafetyNote}
}
