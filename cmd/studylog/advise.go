package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studylog/internal/cli"
	"github.com/at-ishikawa/studylog/internal/coach"
	"github.com/at-ishikawa/studylog/internal/inference"
	"github.com/at-ishikawa/studylog/internal/inference/gemini"
	"github.com/at-ishikawa/studylog/internal/progress"
)

func newAdviseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "advise",
		Short: "Suggest tasks for the weakest subject",
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
			if len(entries) == 0 {
				return printNoEntries(cmd)
			}

			if a.cfg.Gemini.APIKey == "" {
				return errors.New("GEMINI_API_KEY environment variable is required")
			}
			client := gemini.NewClient(a.cfg.Gemini, a.logger)
			defer func() {
				_ = client.Close()
			}()

			advice, err := coach.New(client, a.logger).Advise(cmd.Context(), entries)
			switch {
			case errors.Is(err, progress.ErrNoData):
				return printNoEntries(cmd)
			case errors.Is(err, inference.ErrTimeout):
				return fmt.Errorf("the suggestion service did not answer in %s: %w", a.cfg.Gemini.Timeout(), err)
			case err != nil:
				return err
			}
			return cli.NewPrinter(cmd.OutOrStdout()).PrintAdvice(advice)
		},
	}
}

func printNoEntries(cmd *cobra.Command) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), "No entries yet. Record a study session first.")
	return err
}
