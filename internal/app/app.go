package app

import (
	"context"
	"time"

	"haven-planner/internal/activity"
	"haven-planner/internal/auth"
	"haven-planner/internal/calendar"
	"haven-planner/internal/config"
	"haven-planner/internal/events"
	"haven-planner/internal/household"
	"haven-planner/internal/llm"
	"haven-planner/internal/mealplan"
	"haven-planner/internal/metrics"
	"haven-planner/internal/session"
	"haven-planner/internal/shared"
	"haven-planner/internal/story"

	"go.uber.org/zap"
)

// Deps are the collaborators of an App.
type Deps struct {
	Engine     *mealplan.Engine
	Household  *household.Household
	Events     *events.Store
	Metrics    *metrics.Collector
	Activities *activity.Planner
	Stories    story.Teller
	Sessions   *session.Manager
	Calendar   *calendar.Exporter
	Tokens     *auth.Issuer
	Google     *auth.Google
}

// App holds the application's dependencies and implements its use cases.
// Every state changing use case appends an event to the log.
type App struct {
	engine     *mealplan.Engine
	household  *household.Household
	events     *events.Store
	metrics    *metrics.Collector
	activities *activity.Planner
	stories    story.Teller
	sessions   *session.Manager
	calendar   *calendar.Exporter
	tokens     *auth.Issuer
	google     *auth.Google
	cfg        *config.Config
	logger     *zap.Logger
	started    time.Time
}

// NewApp creates and initializes a new App instance.
func NewApp(cfg *config.Config, logger *zap.Logger, d Deps) *App {
	return &App{
		engine:     d.Engine,
		household:  d.Household,
		events:     d.Events,
		metrics:    d.Metrics,
		activities: d.Activities,
		stories:    d.Stories,
		sessions:   d.Sessions,
		calendar:   d.Calendar,
		tokens:     d.Tokens,
		google:     d.Google,
		cfg:        cfg,
		logger:     logger,
		started:    time.Now(),
	}
}

// Config returns the configuration the app was built with.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Metrics returns the Prometheus collector.
func (a *App) Metrics() *metrics.Collector {
	return a.metrics
}

// Tokens returns the token issuer used for mock SSO.
func (a *App) Tokens() *auth.Issuer {
	return a.tokens
}

// record appends an event. A failing event log never fails the use case.
func (a *App) record(ctx context.Context, kind string, payload any) {
	if err := a.events.Record(ctx, kind, payload); err != nil {
		a.logger.Warn("failed to record event", zap.String("kind", kind), zap.Error(err))
		return
	}
	a.metrics.EventRecorded(kind)
}

// RecordLLMUsage stores the metadata of a model call.
func (a *App) RecordLLMUsage(ctx context.Context, meta shared.CallMeta) {
	a.metrics.TokensUsed(meta.Provider, meta.Usage.PromptTokens, meta.Usage.CompletionTokens)
	a.record(ctx, events.KindLLMUsage, meta)
}

// UseStoryModel routes story requests to gen. The current teller becomes the
// fallback used when the model fails.
func (a *App) UseStoryModel(gen llm.TextGenerator, provider string) {
	a.stories = story.NewLLMTeller(gen, provider, a.stories, a.RecordLLMUsage, a.logger)
}
