package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studylog/internal/cli"
	"github.com/at-ishikawa/studylog/internal/progress"
)

func newProgressCommand() *cobra.Command {
	var date dateFlag

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show study time, recent entries, and scores",
	}
	cmd.PersistentFlags().Var(&date, "date", "reference date in YYYY-MM-DD (default today)")
	cmd.AddCommand(
		newProgressTimeCommand(&date),
		newProgressRecentCommand(&date),
		newProgressScoresCommand(),
	)
	return cmd
}

func newProgressTimeCommand(date *dateFlag) *cobra.Command {
	kind := rangeFlag(progress.Today)

	cmd := &cobra.Command{
		Use:   "time",
		Short: "Chart study time per subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			entries, err := a.store.ListAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("store.ListAll() > %w", err)
			}

			rangeKind := progress.RangeKind(kind)
			totals := progress.TotalTimeBySubject(progress.FilterByRange(entries, rangeKind, date.orToday()))
			return cli.NewPrinter(cmd.OutOrStdout()).PrintTimeChart(rangeKind, totals)
		},
	}

	cmd.Flags().Var(&kind, "range", "one of today, last_week, last_month, all_time")
	return cmd
}

func newProgressRecentCommand(date *dateFlag) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List entries of the last days, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if !cmd.Flags().Changed("days") {
				days = a.cfg.Progress.RecentWindowDays
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}

			entries, err := a.store.ListAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("store.ListAll() > %w", err)
			}
			recent := progress.Recent(entries, date.orToday(), days)
			return cli.NewPrinter(cmd.OutOrStdout()).PrintRecent(recent, days)
		},
	}

	cmd.Flags().IntVar(&days, "days", progress.DefaultRecentWindowDays, "size of the window in days (default from progress.recent_window_days)")
	return cmd
}

func newProgressScoresCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "Show the mean comprehension score per subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			entries, err := a.store.ListAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("store.ListAll() > %w", err)
			}

			// An empty log has no weakest subject; the printer says so.
			weakest, _ := progress.WeakestSubject(entries)
			return cli.NewPrinter(cmd.OutOrStdout()).PrintScores(progress.MeanScoreBySubject(entries), weakest)
		},
	}
}
