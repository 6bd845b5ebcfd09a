package mealplan

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// ErrInvalidCatalog is returned when a catalog document breaks an invariant.
var ErrInvalidCatalog = errors.New("invalid meal catalog")

// Catalog is the immutable set of recipes, one ordered list per slot.
// It is loaded once at start-up and shared read-only between requests.
type Catalog struct {
	recipes map[Slot][]Recipe
}

// Recipes returns a deep copy of the ordered recipe list for slot.
func (c *Catalog) Recipes(slot Slot) []Recipe {
	out := make([]Recipe, 0, len(c.recipes[slot]))
	for _, r := range c.recipes[slot] {
		out = append(out, r.clone())
	}
	return out
}

func (c *Catalog) pick(slot Slot, dayIndex int) Recipe {
	list := c.recipes[slot]
	return list[dayIndex%len(list)]
}

// DefaultCatalog parses the catalog embedded in the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// LoadCatalogFile reads a YAML catalog from path. An empty path yields the default catalog.
func LoadCatalogFile(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var raw map[Slot][]Recipe
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	c := &Catalog{recipes: make(map[Slot][]Recipe, len(Slots))}
	for _, slot := range Slots {
		list := raw[slot]
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: slot %q has no recipes", ErrInvalidCatalog, slot)
		}
		for _, r := range list {
			if err := validateRecipe(r); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, slot, err)
			}
		}
		c.recipes[slot] = list
	}
	for slot := range raw {
		if _, ok := c.recipes[slot]; !ok {
			return nil, fmt.Errorf("%w: unknown slot %q", ErrInvalidCatalog, slot)
		}
	}
	return c, nil
}

func validateRecipe(r Recipe) error {
	if r.Name == "" {
		return errors.New("recipe without a name")
	}
	for ing, qty := range r.Ingredients {
		if qty < 0 {
			return fmt.Errorf("recipe %q: negative quantity for %q", r.Name, ing)
		}
	}
	for tier, deltas := range r.Budget {
		if !tier.valid() {
			return fmt.Errorf("recipe %q: unknown budget tier %q", r.Name, tier)
		}
		// Deltas may be negative as long as the merged quantity is not.
		for ing, qty := range mergeIngredients(r.Ingredients, deltas) {
			if qty < 0 {
				return fmt.Errorf("recipe %q: tier %s leaves %q negative", r.Name, tier, ing)
			}
		}
	}
	if r.PrepTimeMin < 0 {
		return fmt.Errorf("recipe %q: negative prep time", r.Name)
	}
	return nil
}

func (r Recipe) clone() Recipe {
	r.Ingredients = maps.Clone(r.Ingredients)
	if r.Budget != nil {
		budget := make(map[BudgetTier]map[string]float64, len(r.Budget))
		for tier, deltas := range r.Budget {
			budget[tier] = maps.Clone(deltas)
		}
		r.Budget = budget
	}
	r.Instructions = slices.Clone(r.Instructions)
	return r
}
