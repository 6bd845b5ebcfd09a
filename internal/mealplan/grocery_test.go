package mealplan

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderGroceryText(t *testing.T) {
	list := GroceryList{
		"rice (g)":         100,
		"apple":            0.5,
		"banana":           0.38,
		"honey (tsp)":      2,
		"berries (g)":      22.5,
		"wholegrain bread": 4,
	}

	text := RenderGroceryText(list)
	lines := strings.Split(text, "\n")

	require.Len(t, lines, len(list)+1)
	assert.Equal(t, GroceryHeader, lines[0])
	assert.Equal(t, []string{
		"- apple: 0.5",
		"- banana: 0.38",
		"- berries (g): 22.5",
		"- honey (tsp): 2",
		"- rice (g): 100",
		"- wholegrain bread: 4",
	}, lines[1:])
}

func TestRenderGroceryText_SortedForGeneratedPlan(t *testing.T) {
	engine := newTestEngine(t)
	plan := engine.Generate(3, 7, "high")

	lines := strings.Split(RenderGroceryText(plan.GroceryList), "\n")[1:]
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		name, _, ok := strings.Cut(strings.TrimPrefix(line, "- "), ": ")
		require.True(t, ok, line)
		names = append(names, name)
	}
	assert.True(t, slices.IsSorted(names))
	assert.Len(t, names, len(plan.GroceryList))
}

func TestRenderGroceryText_Empty(t *testing.T) {
	assert.Equal(t, GroceryHeader, RenderGroceryText(GroceryList{}))
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "40", FormatQuantity(40))
	assert.Equal(t, "0.75", FormatQuantity(0.75))
	assert.Equal(t, "1.13", FormatQuantity(1.13))
}
