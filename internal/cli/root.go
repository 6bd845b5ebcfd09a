package cli

import (
	"fmt"
	"strings"

	"haven-planner/internal/config"
	"haven-planner/internal/logging"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// NewRootCmd builds the haven command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "haven",
		Version: version,
		Short:   "Haven planner backend and tooling",
		Long: `haven runs the Haven planner API and offers local access to its
meal planner, grocery lists and event log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.SetHelpFunc(helpFunc)

	root.AddGroup(
		&cobra.Group{ID: "server", Title: "Server:"},
		&cobra.Group{ID: "planning", Title: "Planning:"},
		&cobra.Group{ID: "data", Title: "Data:"},
	)

	serve := newServeCmd()
	serve.GroupID = "server"
	mealPlan := newMealPlanCmd()
	mealPlan.GroupID = "planning"
	groceries := newGroceriesCmd()
	groceries.GroupID = "planning"
	evts := newEventsCmd()
	evts.GroupID = "data"

	root.AddCommand(serve, mealPlan, groceries, evts)
	return root
}

// Execute runs the haven command tree.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

func helpFunc(cmd *cobra.Command, _ []string) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	}

	help.WriteString(sectionTitleColor.Sprint("Usage:"))
	help.WriteString("\n")
	fmt.Fprintf(&help, "  %s\n\n", cmd.UseLine())

	for _, group := range cmd.Groups() {
		help.WriteString(groupTitleColor.Sprint(group.Title))
		help.WriteString("\n")
		for _, c := range cmd.Commands() {
			if c.GroupID == group.ID && !c.Hidden {
				fmt.Fprintf(&help, "  %-11s %s\n", c.Name(), c.Short)
			}
		}
		help.WriteString("\n")
	}

	if len(cmd.Groups()) == 0 && cmd.HasAvailableSubCommands() {
		help.WriteString(sectionTitleColor.Sprint("Commands:"))
		help.WriteString("\n")
		for _, c := range cmd.Commands() {
			if !c.Hidden {
				fmt.Fprintf(&help, "  %-11s %s\n", c.Name(), c.Short)
			}
		}
		help.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailableInheritedFlags() {
		help.WriteString(sectionTitleColor.Sprint("Flags:"))
		help.WriteString("\n")
		help.WriteString(cmd.LocalFlags().FlagUsages())
		help.WriteString(cmd.InheritedFlags().FlagUsages())
		help.WriteString("\n")
	}

	fmt.Fprintf(&help, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
	fmt.Fprint(cmd.OutOrStdout(), help.String())
}

// loadEnv reads the environment configuration and builds the logger.
func loadEnv() (*config.Config, *zap.Logger, error) {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
