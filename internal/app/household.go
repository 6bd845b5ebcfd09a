package app

import (
	"context"

	"haven-planner/internal/events"
	"haven-planner/internal/household"
)

// Signup registers a parent.
func (a *App) Signup(ctx context.Context, p household.Parent) household.Parent {
	a.household.Parents.Append(p)
	a.record(ctx, events.KindSignup, p)
	return p
}

// AddChild stores a child profile with defaults applied.
func (a *App) AddChild(ctx context.Context, c household.Child) household.Child {
	c = c.WithDefaults()
	a.household.Children.Append(c)
	a.record(ctx, events.KindChildAdd, c)
	return c
}

// ExportData returns everything stored about families.
func (a *App) ExportData() household.Export {
	return a.household.Export()
}

// DeleteChild removes the child profiles named name and returns how many were removed.
func (a *App) DeleteChild(ctx context.Context, name string) int {
	removed := a.household.RemoveChild(name)
	a.record(ctx, events.KindChildDelete, map[string]any{"name": name})
	return removed
}

// Wipe clears all family data and the time-saved counter.
func (a *App) Wipe(ctx context.Context) {
	a.household.Wipe()
	a.record(ctx, events.KindWipe, nil)
}

// RunMaintenance prunes events older than the retention window and returns how many remain.
func (a *App) RunMaintenance(ctx context.Context) (int64, error) {
	return a.events.Prune(ctx, a.cfg.Retention())
}

// CreateOrg stores org and returns every org.
func (a *App) CreateOrg(ctx context.Context, org household.Org) []household.Org {
	orgs := a.household.PutOrg(org)
	a.record(ctx, events.KindOrgCreate, org)
	return orgs
}
