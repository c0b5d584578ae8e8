// Package report assembles the progress report for a snapshot of entries.
package report

import (
	"errors"
	"fmt"
	"io"
	"text/template"

	"cloud.google.com/go/civil"

	"github.com/at-ishikawa/studylog/internal/progress"
	"github.com/at-ishikawa/studylog/internal/studylog"
)

// Data is the value the report template is executed with.
type Data struct {
	ReferenceDate    civil.Date
	Range            progress.RangeKind
	Totals           []progress.SubjectTotal
	MaxMinutes       int
	Chartable        bool
	Scores           []progress.SubjectScore
	WeakestSubject   string
	WeakestTopic     string
	RecentWindowDays int
	Recent           []studylog.Entry
}

// Build computes every report section from entries. Study time is limited to
// kind, while scores and the weakest subject cover the whole snapshot.
func Build(entries []studylog.Entry, kind progress.RangeKind, ref civil.Date, windowDays int) (Data, error) {
	if windowDays <= 0 {
		windowDays = progress.DefaultRecentWindowDays
	}

	totals := progress.TotalTimeBySubject(progress.FilterByRange(entries, kind, ref))
	data := Data{
		ReferenceDate:    ref,
		Range:            kind,
		Totals:           totals,
		Chartable:        progress.IsChartable(totals),
		Scores:           progress.MeanScoreBySubject(entries),
		RecentWindowDays: windowDays,
		Recent:           progress.Recent(entries, ref, windowDays),
	}
	for _, total := range totals {
		data.MaxMinutes = max(data.MaxMinutes, total.Minutes)
	}

	subject, err := progress.WeakestSubject(entries)
	if errors.Is(err, progress.ErrNoData) {
		return data, nil
	}
	if err != nil {
		return Data{}, fmt.Errorf("progress.WeakestSubject > %w", err)
	}
	data.WeakestSubject = subject

	// Topics may be blank in stored data, so an empty result is valid.
	topic, err := progress.WeakestTopicFor(entries, subject)
	if err != nil && !errors.Is(err, progress.ErrNoData) {
		return Data{}, fmt.Errorf("progress.WeakestTopicFor(%s) > %w", subject, err)
	}
	data.WeakestTopic = topic
	return data, nil
}

// Render executes tmpl with data into w.
func Render(w io.Writer, tmpl *template.Template, data Data) error {
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("tmpl.Execute(%s) > %w", tmpl.Name(), err)
	}
	return nil
}
