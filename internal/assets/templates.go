package assets

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"go.uber.org/zap"
)

//go:embed templates/progress-report.md.go.tmpl
var fallbackProgressReportTemplate string

const progressReportTemplateName = "progress-report.md.go.tmpl"

// ParseProgressReportTemplate parses templatePath, or the embedded report template
// when templatePath is empty, missing, or fails to parse.
func ParseProgressReportTemplate(templatePath string, logger *zap.Logger) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, progressReportTemplateName, fallbackProgressReportTemplate, logger)
}

var funcMap = template.FuncMap{
	"join": strings.Join,
	"bar":  bar,
}

// bar draws value as a run of blocks scaled so that max fills width.
func bar(value, max, width int) string {
	if value <= 0 || max <= 0 {
		return ""
	}
	n := value * width / max
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func parseTemplateWithFallback(templatePath, fallbackName, fallbackTemplate string, logger *zap.Logger) (*template.Template, error) {
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			fileName := filepath.Base(templatePath)
			tmpl, err := template.New(fileName).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			logger.Warn("failed to parse a template, using the embedded one",
				zap.String("templatePath", templatePath),
				zap.Error(err),
			)
		}
	}

	tmpl, err := template.New(fallbackName).
		Funcs(funcMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}
