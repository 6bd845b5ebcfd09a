package mealplan

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed print.html.tmpl
var printTemplateText string

var printTemplate = template.Must(template.New("print").Parse(printTemplateText))

type printIngredient struct {
	Name     string
	Quantity string
}

type printMeal struct {
	Slot         Slot
	Name         string
	PrepTimeMin  int
	Ingredients  []printIngredient
	Instructions []string
	Notes        string
}

type printDay struct {
	Day   int
	Meals []printMeal
}

type printData struct {
	Days      int
	Budget    BudgetTier
	Plan      []printDay
	Groceries []printIngredient
}

// RenderPrintable writes plan as a standalone HTML page suitable for printing.
func RenderPrintable(w io.Writer, plan *Plan) error {
	data := printData{
		Days:      plan.Days,
		Budget:    plan.Budget,
		Groceries: ingredientLines(plan.GroceryList),
	}
	for _, d := range plan.Plan {
		pd := printDay{Day: d.Day}
		for _, slot := range Slots {
			m := d.Meal(slot)
			pd.Meals = append(pd.Meals, printMeal{
				Slot:         slot,
				Name:         m.Name,
				PrepTimeMin:  m.PrepTimeMin,
				Ingredients:  ingredientLines(m.Ingredients),
				Instructions: m.Instructions,
				Notes:        m.Notes,
			})
		}
		data.Plan = append(data.Plan, pd)
	}

	if err := printTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render printable plan: %w", err)
	}
	return nil
}

func ingredientLines(list map[string]float64) []printIngredient {
	names := SortedIngredients(list)
	out := make([]printIngredient, 0, len(names))
	for _, name := range names {
		out = append(out, printIngredient{Name: name, Quantity: FormatQuantity(list[name])})
	}
	return out
}
