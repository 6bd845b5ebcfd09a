package session

import (
	"testing"
	"time"

	"haven-planner/internal/household"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlow(t *testing.T) {
	tests := []struct {
		duration int
		core     int
	}{
		{duration: 30, core: 20},
		{duration: 15, core: 5},
		{duration: 10, core: 5},
		{duration: 5, core: 5},
		{duration: 90, core: 80},
	}
	for _, tt := range tests {
		flow := Flow(tt.duration)
		require.Len(t, flow, 3)
		assert.Equal(t, "warmup", flow[0].Phase)
		assert.Equal(t, 5, flow[0].Minutes)
		assert.Equal(t, tt.core, flow[1].Minutes, "duration %d", tt.duration)
		assert.Equal(t, "winddown", flow[2].Phase)
		assert.Equal(t, 5, flow[2].Minutes)
	}
}

func TestManager_Start(t *testing.T) {
	h := household.New()
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	m := NewManager(h).WithClock(func() time.Time { return at })

	child := household.Child{Name: "Ava", AgeYears: 4}
	started := m.Start(child, 30, "focus")

	_, err := uuid.Parse(started.ID)
	require.NoError(t, err)
	sessions := h.Sessions.List()
	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, started.ID, s.ID)
	assert.Equal(t, SafetyNote, started.Safety)
	assert.Equal(t, at.UTC(), s.StartedAt)
	assert.Equal(t, "focus", s.Goal)

	m.Start(child, 20, "")
	assert.Equal(t, 50, h.MinutesSaved())
	assert.Equal(t, 2, h.Sessions.Len())
}
