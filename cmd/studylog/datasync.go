package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/at-ishikawa/studylog/internal/datasync"
	"github.com/at-ishikawa/studylog/internal/studylog"
)

func newExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all entries as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("os.Create(%s) > %w", output, err)
				}
				defer func() {
					if err := f.Close(); err != nil {
						a.logger.Warn("failed to close the export file", zap.String("path", output), zap.Error(err))
					}
				}()
				w = f
			}

			count, err := datasync.NewExporter(a.store).Export(cmd.Context(), w)
			if err != nil {
				return fmt.Errorf("exporter.Export() > %w", err)
			}
			if output != "" {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", count, output)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write instead of stdout")
	return cmd
}

func newImportCommand() *cobra.Command {
	var (
		dryRun         bool
		skipDuplicates bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import entries from a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			validator, err := studylog.NewValidator()
			if err != nil {
				return fmt.Errorf("studylog.NewValidator() > %w", err)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", args[0], err)
			}
			defer func() {
				_ = f.Close()
			}()

			out := cmd.OutOrStdout()
			importer := datasync.NewImporter(a.store, validator, out)
			result, err := importer.Import(cmd.Context(), f, datasync.ImportOptions{
				DryRun:         dryRun,
				SkipDuplicates: skipDuplicates,
			})
			if err != nil {
				return fmt.Errorf("importer.Import() > %w", err)
			}

			fmt.Fprintln(out, "\nImport Summary:")
			if dryRun {
				fmt.Fprintln(out, "  (dry-run mode, no changes made)")
			}
			fmt.Fprintf(out, "  Entries: %d new, %d skipped\n", result.EntriesNew, result.EntriesSkipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	cmd.Flags().BoolVar(&skipDuplicates, "skip-duplicates", false, "Skip records identical to an entry already stored")
	return cmd
}
