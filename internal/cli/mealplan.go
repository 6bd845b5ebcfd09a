package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"haven-planner/internal/config"
	"haven-planner/internal/mealplan"

	"github.com/spf13/cobra"
)

func newMealPlanCmd() *cobra.Command {
	var (
		age     float64
		days    int
		budget  string
		catalog string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "mealplan",
		Short: "Generate a meal plan and grocery list",
		Long: `Generate a meal plan for a child of the given age.

Days are clamped to 1..14 and an unknown budget falls back to mid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewFromEnv()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if catalog == "" {
				catalog = cfg.CatalogPath
			}
			c, err := mealplan.LoadCatalogFile(catalog)
			if err != nil {
				return err
			}

			plan := mealplan.NewEngine(c).Generate(age, days, budget)
			out := cmd.OutOrStdout()
			if asJSON {
				return outputJSON(out, plan)
			}
			printPlan(out, plan)
			return nil
		},
	}

	cmd.Flags().Float64Var(&age, "age", mealplan.DefaultChildAge, "Child age in years")
	cmd.Flags().IntVar(&days, "days", mealplan.DefaultDays, "Number of days to plan")
	cmd.Flags().StringVar(&budget, "budget", string(mealplan.BudgetMid), "Budget tier: low, mid or high")
	cmd.Flags().StringVar(&catalog, "catalog", "", "Path to a YAML meal catalog (default: CATALOG_PATH or bundled)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func printPlan(w io.Writer, plan *mealplan.Plan) {
	printSection(w, fmt.Sprintf("Meal plan: %d days, %s budget", plan.Days, plan.Budget))
	for _, day := range plan.Plan {
		fmt.Fprintf(w, "\nDay %d\n", day.Day)
		for _, slot := range mealplan.Slots {
			meal := day.Meal(slot)
			printLabelValue(w, string(slot), fmt.Sprintf("%s (%d min)", meal.Name, meal.PrepTimeMin))
		}
	}
	fmt.Fprintln(w)
	printSection(w, "Groceries")
	for _, name := range mealplan.SortedIngredients(plan.GroceryList) {
		printBullet(w, fmt.Sprintf("%s: %s", name, mealplan.FormatQuantity(plan.GroceryList[name])))
	}
}

func newGroceriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groceries <file|->",
		Short: "Render a grocery list as plain text",
		Long: `Render the grocery_list of a meal plan JSON document as plain text.

Use "-" to read the document from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			var doc struct {
				GroceryList mealplan.GroceryList `json:"grocery_list"`
			}
			if err := json.NewDecoder(r).Decode(&doc); err != nil {
				return fmt.Errorf("failed to decode grocery list: %w", err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), mealplan.RenderGroceryText(doc.GroceryList))
			return err
		},
	}
}
