package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/at-ishikawa/studylog/internal/assets"
	"github.com/at-ishikawa/studylog/internal/pdf"
	"github.com/at-ishikawa/studylog/internal/progress"
	"github.com/at-ishikawa/studylog/internal/report"
)

func newReportCommand() *cobra.Command {
	var (
		output      string
		generatePDF bool
		date        dateFlag
	)
	kind := rangeFlag(progress.Today)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a Markdown progress report",
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
			data, err := report.Build(entries, progress.RangeKind(kind), date.orToday(), a.cfg.Progress.RecentWindowDays)
			if err != nil {
				return fmt.Errorf("report.Build() > %w", err)
			}

			tmpl, err := assets.ParseProgressReportTemplate(a.cfg.Report.TemplateFile, a.logger)
			if err != nil {
				return fmt.Errorf("assets.ParseProgressReportTemplate() > %w", err)
			}

			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
				}
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("os.Create(%s) > %w", output, err)
			}
			if err := report.Render(f, tmpl, data); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("f.Close(%s) > %w", output, err)
			}
			a.logger.Debug("report written", zap.String("path", output))
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)

			if !generatePDF {
				return nil
			}
			pdfPath, err := pdf.ConvertMarkdownToPDF(output, "")
			if err != nil {
				return fmt.Errorf("pdf.ConvertMarkdownToPDF() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PDF written to %s\n", pdfPath)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "progress-report.md", "Markdown file to write")
	flags.BoolVar(&generatePDF, "pdf", false, "also convert the report to PDF")
	flags.Var(&kind, "range", "study time range: today, last_week, last_month, all_time")
	flags.Var(&date, "date", "reference date in YYYY-MM-DD (default today)")
	return cmd
}
