package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configFile string
	debugMode  bool
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "studylog",
		Short:         "Record study sessions and review your progress",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is ./config.yaml or $HOME/.config/studylog/config.yaml)")
	flags.BoolVar(&debugMode, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newEntryCommand(),
		newProgressCommand(),
		newAdviseCommand(),
		newExportCommand(),
		newImportCommand(),
		newReportCommand(),
		newCategoriesCommand(),
	)
	return rootCmd
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		cancel()
		os.Exit(1)
	}
}
