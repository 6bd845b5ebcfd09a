package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"haven-planner/internal/activity"
	"haven-planner/internal/auth"
	"haven-planner/internal/calendar"
	"haven-planner/internal/config"
	"haven-planner/internal/database"
	"haven-planner/internal/events"
	"haven-planner/internal/household"
	"haven-planner/internal/mealplan"
	"haven-planner/internal/metrics"
	"haven-planner/internal/session"
	"haven-planner/internal/shared"
	"haven-planner/internal/story"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testApp struct {
	*App
	events *events.Store
	now    time.Time
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "haven.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	catalog, err := mealplan.DefaultCatalog()
	require.NoError(t, err)
	activities, err := activity.DefaultCatalog()
	require.NoError(t, err)
	seeds, err := story.DefaultSeeds()
	require.NoError(t, err)

	ta := &testApp{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	ta.events = events.NewStore(db.SQL).WithClock(func() time.Time { return ta.now })

	h := household.New()
	cfg := &config.Config{DataDir: t.TempDir(), RetentionDays: 30, JWTSecret: "test"}
	ta.App = NewApp(cfg, zap.NewNop(), Deps{
		Engine:     mealplan.NewEngine(catalog),
		Household:  h,
		Events:     ta.events,
		Metrics:    metrics.NewCollector(),
		Activities: activity.NewPlanner(activities).WithRand(func(int) int { return 0 }),
		Stories:    story.NewTemplateTeller(seeds).WithRand(func(int) int { return 0 }),
		Sessions:   session.NewManager(h),
		Calendar:   calendar.NewExporter(),
		Tokens:     auth.NewIssuer(cfg.JWTSecret),
		Google:     auth.NewGoogle(cfg),
	})
	return ta
}

func kinds(t *testing.T, s *events.Store) []string {
	t.Helper()
	evts, err := s.List(context.Background())
	require.NoError(t, err)
	out := []string{}
	for _, e := range evts {
		out = append(out, e.Kind)
	}
	return out
}

func TestApp_ProfilesAndPrivacy(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	a.Signup(ctx, household.Parent{Email: "pat@example.com", Name: "Pat"})
	child := a.AddChild(ctx, household.Child{Name: "Ava", AgeYears: 4})
	assert.Equal(t, "en", child.Language)
	assert.Equal(t, "balanced", child.Temperament)
	a.AddChild(ctx, household.Child{Name: "Sem", AgeYears: 2, Language: "nl"})

	a.StartSession(ctx, child, 30, "")
	assert.Equal(t, Aggregate{Sessions: 1, MinutesSavedTotal: 30, Children: 2, Parents: 1}, a.Aggregate())

	assert.Equal(t, 1, a.DeleteChild(ctx, "Ava"))
	assert.Equal(t, 0, a.DeleteChild(ctx, "Nobody"))

	export := a.ExportData()
	require.Len(t, export.Children, 1)
	assert.Equal(t, "Sem", export.Children[0].Name)

	a.Wipe(ctx)
	assert.Equal(t, Aggregate{}, a.Aggregate())
	assert.Equal(t, TimeSaved{OK: true}, a.TimeSaved())

	assert.Equal(t, []string{
		events.KindSignup, events.KindChildAdd, events.KindChildAdd, events.KindSessionStart,
		events.KindChildDelete, events.KindChildDelete, events.KindWipe,
	}, kinds(t, a.events))
}

func TestApp_TimeSeriesFromEventLog(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	child := household.Child{Name: "Ava", AgeYears: 4}

	a.now = time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC)
	a.StartSession(ctx, child, 20, "")
	a.now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	a.StartSession(ctx, child, 30, "")
	a.StartSession(ctx, child, 15, "")

	ts, err := a.TimeSeries(ctx)
	require.NoError(t, err)
	assert.Equal(t, TimeSeries{OK: true, Days: []string{"2025-03-09", "2025-03-10"}, Minutes: []int{20, 45}}, ts)

	// Wiping the household does not rewrite history.
	a.Wipe(ctx)
	ts, err = a.TimeSeries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{20, 45}, ts.Minutes)
}

func TestApp_RunMaintenance(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	a.now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a.Signup(ctx, household.Parent{Email: "old@example.com"})
	a.now = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	a.Signup(ctx, household.Parent{Email: "new@example.com"})

	kept, err := a.RunMaintenance(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), kept)
}

func TestApp_MealPlan(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	plan := a.GenerateMealPlan(ctx, 4, 3, "HIGH")
	assert.Equal(t, 3, plan.Days)
	assert.Equal(t, mealplan.BudgetHigh, plan.Budget)

	var buf bytes.Buffer
	require.NoError(t, a.PrintMealPlan(ctx, &buf, 4, 2, "low"))
	assert.Contains(t, buf.String(), "Haven")

	evts, err := a.events.ListByKind(ctx, events.KindMealPlan)
	require.NoError(t, err)
	require.Len(t, evts, 2)
	assert.Equal(t, map[string]any{"days": 3.0, "budget": "high"}, evts[0].Payload)
}

func TestApp_ActivitiesAndStories(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	child := household.Child{Name: "Ava", AgeYears: 4, Language: "en"}

	schedule, err := a.PlanDay(ctx, child, "08:00", []int{20, 30}, "calm")
	require.NoError(t, err)
	assert.Len(t, schedule.Blocks, 3)

	_, err = a.PlanDay(ctx, child, "late", []int{20}, "calm")
	assert.ErrorIs(t, err, activity.ErrInvalidWakeTime)

	out, err := a.SuggestActivities(ctx, child, 20, activity.ModeTogether)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	s, err := a.TellStory(ctx, story.Request{Child: child})
	require.NoError(t, err)
	assert.Contains(t, s.Text, "Ava")

	ics, err := a.ExportCalendar(child.Name, "2025-03-10", schedule.Blocks)
	require.NoError(t, err)
	assert.Contains(t, ics, "BEGIN:VEVENT")

	assert.Equal(t, []string{events.KindPlanDay, events.KindActivitiesSuggest, events.KindStory}, kinds(t, a.events))
}

func TestApp_SSO(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	login, err := a.MockSSOLogin(ctx, "pat@acme.com", "acme")
	require.NoError(t, err)
	claims, err := a.Tokens().Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, "pat@acme.com", claims.Email())

	orgs := a.CreateOrg(ctx, household.Org{OrgID: "acme", Name: "Acme"})
	assert.Len(t, orgs, 1)

	assert.False(t, a.GoogleEnabled())
	_, err = a.GoogleAuthURL("state")
	assert.ErrorIs(t, err, auth.ErrGoogleDisabled)

	export := a.ExportData()
	require.Len(t, export.Parents, 1)
	assert.Equal(t, "Mock User", export.Parents[0].Name)
}

func TestApp_LLMUsage(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	a.now = time.Now().UTC()

	a.RecordLLMUsage(ctx, shared.NewCallMeta("story", "groq", shared.TokenUsage{PromptTokens: 7, CompletionTokens: 9}, 120*time.Millisecond, false))

	usage, err := a.LLMUsage(ctx, 7)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, 7, usage[0].TotalPrompt)
	assert.Equal(t, 9, usage[0].TotalCompletion)

	counts, err := a.EventCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[events.KindLLMUsage])
}
