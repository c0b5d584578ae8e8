package main

import (
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studylog/internal/cli"
	"github.com/at-ishikawa/studylog/internal/studylog"
)

func newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the subject categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.NewPrinter(cmd.OutOrStdout()).PrintCategories(studylog.Categories)
		},
	}
}
