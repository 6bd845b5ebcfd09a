package mealplan

import (
	"slices"
	"strconv"
	"strings"
)

// GroceryHeader is the first line of a rendered grocery list.
const GroceryHeader = "Haven Grocery List"

// RenderGroceryText renders list as plain text, one "- name: quantity" line per
// ingredient sorted by name.
func RenderGroceryText(list GroceryList) string {
	lines := make([]string, 0, len(list)+1)
	lines = append(lines, GroceryHeader)
	for _, name := range SortedIngredients(list) {
		lines = append(lines, "- "+name+": "+FormatQuantity(list[name]))
	}
	return strings.Join(lines, "\n")
}

// SortedIngredients returns the keys of list in lexicographic order.
func SortedIngredients(list map[string]float64) []string {
	names := make([]string, 0, len(list))
	for name := range list {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// FormatQuantity prints q with the fewest digits that round-trip.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
