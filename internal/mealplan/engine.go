package mealplan

import (
	"fmt"
	"math"
	"slices"
)

const (
	MinDays     = 1
	MaxDays     = 14
	DefaultDays = 7
	// DefaultChildAge is used when a request carries no age.
	DefaultChildAge = 4.0
)

// Engine assembles meal plans from a static catalog. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	catalog *Catalog
}

// NewEngine creates an Engine reading from catalog.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Catalog returns the catalog the engine reads from.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Generate builds a plan for the given child age, number of days and budget tier.
// Out of range days are clamped and unknown tiers fall back to mid, so it never fails.
func (e *Engine) Generate(childAge float64, days int, budget string) *Plan {
	days = ClampDays(days)
	tier := ParseBudget(budget)
	factor := ScaleFactor(childAge)

	plan := &Plan{
		OK:           true,
		Days:         days,
		Budget:       tier,
		Plan:         make([]DayPlan, 0, days),
		GroceryList:  GroceryList{},
		GroceryLinks: GroceryLinks{},
	}

	for d := 0; d < days; d++ {
		day := DayPlan{Day: d + 1}
		for _, slot := range Slots {
			recipe := e.catalog.pick(slot, d)
			assembled := assemble(recipe, tier, factor)
			label := RecipeLabel(d+1, slot, recipe.Name)

			// Totals are rounded after every addition, not only at the end.
			for ing, qty := range assembled.Ingredients {
				plan.GroceryList[ing] = Round2(plan.GroceryList[ing] + qty)
				if !slices.Contains(plan.GroceryLinks[ing], label) {
					plan.GroceryLinks[ing] = append(plan.GroceryLinks[ing], label)
				}
			}
			day.setMeal(slot, assembled)
		}
		plan.Plan = append(plan.Plan, day)
	}
	return plan
}

// ClampDays bounds days into [MinDays, MaxDays].
func ClampDays(days int) int {
	return max(MinDays, min(MaxDays, days))
}

// ScaleFactor returns the portion multiplier for a child of the given age in years.
func ScaleFactor(age float64) float64 {
	switch {
	case age <= 2:
		return 0.5
	case age <= 4:
		return 0.75
	default:
		return 1.0
	}
}

// Round2 rounds v to two decimals. Halves are rounded away from zero on the
// binary product v*100, so a decimal half that is not exact in binary can go
// either way (0.67*0.75 = 0.5025 gives 0.5), and an exact half always goes up
// (0.125 gives 0.13, where banker's rounding would give 0.12).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RecipeLabel identifies the recipe served on a given day and slot.
func RecipeLabel(day int, slot Slot, name string) string {
	return fmt.Sprintf("Day %d — %s — %s", day, slot, name)
}

func assemble(r Recipe, tier BudgetTier, factor float64) AssembledRecipe {
	merged := mergeIngredients(r.Ingredients, r.Budget[tier])
	scaled := make(map[string]float64, len(merged))
	for ing, qty := range merged {
		scaled[ing] = Round2(qty * factor)
	}
	return AssembledRecipe{
		Name:         r.Name,
		Ingredients:  scaled,
		PrepTimeMin:  r.PrepTimeMin,
		Instructions: append([]string{}, r.Instructions...),
		Notes:        r.Notes,
	}
}

func mergeIngredients(base, extra map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] += v
	}
	return out
}
