package mealplan

import "strings"

// Slot names a meal of the day.
type Slot string

const (
	Breakfast Slot = "breakfast"
	Lunch     Slot = "lunch"
	Snack     Slot = "snack"
	Dinner    Slot = "dinner"
)

// Slots lists the meal slots in the order they are served.
var Slots = []Slot{Breakfast, Lunch, Snack, Dinner}

// BudgetTier selects which optional ingredient additions apply to a recipe.
type BudgetTier string

const (
	BudgetLow  BudgetTier = "low"
	BudgetMid  BudgetTier = "mid"
	BudgetHigh BudgetTier = "high"
)

// ParseBudget lower-cases s and falls back to BudgetMid for anything unknown.
func ParseBudget(s string) BudgetTier {
	switch tier := BudgetTier(strings.ToLower(strings.TrimSpace(s))); tier {
	case BudgetLow, BudgetMid, BudgetHigh:
		return tier
	default:
		return BudgetMid
	}
}

func (t BudgetTier) valid() bool {
	return t == BudgetLow || t == BudgetMid || t == BudgetHigh
}

// Recipe is a static catalog entry.
type Recipe struct {
	Name         string                            `yaml:"name" json:"name"`
	Ingredients  map[string]float64                `yaml:"ingredients" json:"ingredients"`
	Budget       map[BudgetTier]map[string]float64 `yaml:"budget" json:"budget"`
	PrepTimeMin  int                               `yaml:"prep_time_min" json:"prep_time_min"`
	Instructions []string                          `yaml:"instructions" json:"instructions"`
	Notes        string                            `yaml:"notes" json:"notes"`
}

// AssembledRecipe is a recipe after budget merge and age scaling.
type AssembledRecipe struct {
	Name         string             `json:"name"`
	Ingredients  map[string]float64 `json:"ingredients"`
	PrepTimeMin  int                `json:"prep_time_min"`
	Instructions []string           `json:"instructions"`
	Notes        string             `json:"notes"`
}

// DayPlan holds one assembled recipe per slot.
type DayPlan struct {
	Day       int             `json:"day"`
	Breakfast AssembledRecipe `json:"breakfast"`
	Lunch     AssembledRecipe `json:"lunch"`
	Snack     AssembledRecipe `json:"snack"`
	Dinner    AssembledRecipe `json:"dinner"`
}

// Meal returns the recipe served in slot.
func (d DayPlan) Meal(slot Slot) AssembledRecipe {
	switch slot {
	case Breakfast:
		return d.Breakfast
	case Lunch:
		return d.Lunch
	case Snack:
		return d.Snack
	default:
		return d.Dinner
	}
}

func (d *DayPlan) setMeal(slot Slot, r AssembledRecipe) {
	switch slot {
	case Breakfast:
		d.Breakfast = r
	case Lunch:
		d.Lunch = r
	case Snack:
		d.Snack = r
	default:
		d.Dinner = r
	}
}

// GroceryList maps an ingredient to its total quantity across a plan.
type GroceryList map[string]float64

// GroceryLinks maps an ingredient to the labels of the recipes that need it,
// in the order they were first seen.
type GroceryLinks map[string][]string

// Plan is the full response of a meal plan generation.
type Plan struct {
	OK           bool         `json:"ok"`
	Days         int          `json:"days"`
	Budget       BudgetTier   `json:"budget"`
	Plan         []DayPlan    `json:"plan"`
	GroceryList  GroceryList  `json:"grocery_list"`
	GroceryLinks GroceryLinks `json:"grocery_links"`
}
