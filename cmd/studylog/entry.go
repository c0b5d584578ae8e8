package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/at-ishikawa/studylog/internal/cli"
	"github.com/at-ishikawa/studylog/internal/studylog"
)

func newEntryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Add, list, or clear study log entries",
	}
	cmd.AddCommand(
		newEntryAddCommand(),
		newEntryListCommand(),
		newEntryClearCommand(),
	)
	return cmd
}

func newEntryAddCommand() *cobra.Command {
	var (
		date          dateFlag
		subject       string
		customSubject string
		topic         string
		score         int
		studyTime     int
		interactive   bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a study session",
		Long: `Record a study session.

Without --subject the fields are asked for interactively. Choose "` + studylog.CategoryOther + `"
as the subject together with --custom-subject to store free text.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			validator, err := studylog.NewValidator()
			if err != nil {
				return fmt.Errorf("studylog.NewValidator() > %w", err)
			}

			var entry studylog.NewEntry
			if interactive || subject == "" {
				entry, err = cli.NewEntryPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).Prompt(ctx, date.orToday())
				if err != nil {
					if cli.IsEndOfInput(err) {
						return errors.New("input ended before the entry was complete")
					}
					return err
				}
			} else {
				resolved, err := studylog.ResolveSubject(subject, customSubject)
				if err != nil {
					return err
				}
				entry = studylog.NewEntry{
					Date:      date.orToday(),
					Subject:   resolved,
					Topic:     topic,
					Score:     score,
					StudyTime: studyTime,
				}
			}

			entry, err = validator.Validate(entry)
			if err != nil {
				return err
			}
			id, err := a.store.Insert(ctx, entry)
			if err != nil {
				return fmt.Errorf("store.Insert() > %w", err)
			}

			a.logger.Debug("entry recorded", zap.Int64("id", id))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recorded entry %d: %s %s / %s\n", id, entry.Date, entry.Subject, entry.Topic)
			return err
		},
	}

	flags := cmd.Flags()
	flags.Var(&date, "date", "date of the session in YYYY-MM-DD (default today)")
	flags.StringVar(&subject, "subject", "", "subject category, see the categories command")
	flags.StringVar(&customSubject, "custom-subject", "", "free text subject when the category is \""+studylog.CategoryOther+"\"")
	flags.StringVar(&topic, "topic", "", "topic studied")
	flags.IntVar(&score, "score", 0, "comprehension score from 1 to 5")
	flags.IntVar(&studyTime, "study-time", 0, "study time in minutes")
	flags.BoolVarP(&interactive, "interactive", "i", false, "ask for every field")
	return cmd
}

func newEntryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all entries in the order they were recorded",
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
			return cli.NewPrinter(cmd.OutOrStdout()).PrintEntries(entries)
		},
	}
}

func newEntryClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("clearing deletes every entry and cannot be undone, rerun with --yes to confirm")
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.ClearAll(cmd.Context()); err != nil {
				return fmt.Errorf("store.ClearAll() > %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "All entries were deleted.")
			return err
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting every entry")
	return cmd
}

