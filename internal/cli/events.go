package cli

import (
	"fmt"
	"strconv"

	"haven-planner/internal/app"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect and maintain the event log",
	}
	cmd.AddCommand(newEventsPruneCmd(), newEventsTimeSeriesCmd())
	return cmd
}

func newEventsPruneCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove events older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("days") && days <= 0 {
				return fmt.Errorf("--days must be a positive number of days")
			}
			a, cleanup, err := bootstrap(cmd, days)
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			kept, err := a.RunMaintenance(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Pruned event log, %d events kept", kept))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Keep events of the last N days (default RETENTION_DAYS)")
	return cmd
}

func newEventsTimeSeriesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "timeseries",
		Short: "Show session minutes per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := bootstrap(cmd, 0)
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			ts, err := a.TimeSeries(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return outputJSON(out, ts)
			}
			printSection(out, "Session minutes per day")
			if len(ts.Days) == 0 {
				printBullet(out, "no sessions recorded")
			}
			for i, day := range ts.Days {
				printLabelValue(out, day, strconv.Itoa(ts.Minutes[i]))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

// bootstrap opens the app for a one-off command. A positive retentionDays
// overrides RETENTION_DAYS.
func bootstrap(cmd *cobra.Command, retentionDays int) (*app.App, func() error, error) {
	cfg, logger, err := loadEnv()
	if err != nil {
		return nil, nil, err
	}
	if retentionDays > 0 {
		cfg.RetentionDays = retentionDays
	}
	a, cleanup, err := app.Bootstrap(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return a, func() error {
		defer func() { _ = logger.Sync() }()
		if err := cleanup(); err != nil {
			logger.Warn("cleanup failed", zap.Error(err))
			return err
		}
		return nil
	}, nil
}
