package app

import (
	"context"
	"errors"
	"fmt"

	"haven-planner/internal/activity"
	"haven-planner/internal/auth"
	"haven-planner/internal/calendar"
	"haven-planner/internal/config"
	"haven-planner/internal/database"
	"haven-planner/internal/events"
	"haven-planner/internal/household"
	"haven-planner/internal/llm"
	"haven-planner/internal/mealplan"
	"haven-planner/internal/metrics"
	"haven-planner/internal/session"
	"haven-planner/internal/story"

	"go.uber.org/zap"
)

// Bootstrap opens the database, loads the catalogs and wires an App.
// The returned cleanup closes the database and any model client.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, func() error, error) {
	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	closers := []func() error{db.Close}
	cleanup := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	catalog, err := mealplan.LoadCatalogFile(cfg.CatalogPath)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("failed to load meal catalog: %w", err)
	}
	activities, err := activity.DefaultCatalog()
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("failed to load activities: %w", err)
	}
	seeds, err := story.DefaultSeeds()
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("failed to load story seeds: %w", err)
	}

	h := household.New()
	a := NewApp(cfg, logger, Deps{
		Engine:     mealplan.NewEngine(catalog),
		Household:  h,
		Events:     events.NewStore(db.SQL),
		Metrics:    metrics.NewCollector(),
		Activities: activity.NewPlanner(activities),
		Stories:    story.NewTemplateTeller(seeds),
		Sessions:   session.NewManager(h),
		Calendar:   calendar.NewExporter(),
		Tokens:     auth.NewIssuer(cfg.JWTSecret),
		Google:     auth.NewGoogle(cfg),
	})

	gen, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("failed to create story model client: %w", err)
	}
	if gen != nil {
		if c, ok := gen.(llm.Closer); ok {
			closers = append(closers, c.Close)
		}
		a.UseStoryModel(gen, cfg.StoryProvider)
		logger.Info("story model enabled", zap.String("provider", cfg.StoryProvider))
	}

	return a, cleanup, nil
}
