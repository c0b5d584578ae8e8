package report

import (
	"bytes"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/at-ishikawa/studylog/internal/assets"
	"github.com/at-ishikawa/studylog/internal/progress"
	"github.com/at-ishikawa/studylog/internal/studylog"
)

func date(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestBuild(t *testing.T) {
	ref := date(t, "2024-01-10")
	entries := []studylog.Entry{
		{ID: 1, Date: date(t, "2024-01-01"), Subject: "Math", Topic: "Algebra", Score: 2, StudyTime: 30},
		{ID: 2, Date: date(t, "2024-01-08"), Subject: "Math", Topic: "Geometry", Score: 4, StudyTime: 20},
		{ID: 3, Date: date(t, "2024-01-10"), Subject: "Art", Topic: "Color", Score: 5, StudyTime: 45},
		{ID: 4, Date: date(t, "2023-11-01"), Subject: "History", Topic: "Rome", Score: 5, StudyTime: 90},
	}

	tests := []struct {
		name       string
		entries    []studylog.Entry
		kind       progress.RangeKind
		windowDays int
		want       Data
	}{
		{
			name:       "last week",
			entries:    entries,
			kind:       progress.LastWeek,
			windowDays: 7,
			want: Data{
				ReferenceDate: ref,
				Range:         progress.LastWeek,
				Totals: []progress.SubjectTotal{
					{Subject: "Art", Minutes: 45},
					{Subject: "Math", Minutes: 20},
				},
				MaxMinutes: 45,
				Chartable:  true,
				Scores: []progress.SubjectScore{
					{Subject: "Art", Mean: 5, Count: 1},
					{Subject: "History", Mean: 5, Count: 1},
					{Subject: "Math", Mean: 3, Count: 2},
				},
				WeakestSubject:   "Math",
				WeakestTopic:     "Algebra",
				RecentWindowDays: 7,
				Recent:           []studylog.Entry{entries[2], entries[1]},
			},
		},
		{
			name:       "empty log",
			kind:       progress.AllTime,
			windowDays: 0,
			want: Data{
				ReferenceDate:    ref,
				Range:            progress.AllTime,
				Totals:           []progress.SubjectTotal{},
				Scores:           []progress.SubjectScore{},
				RecentWindowDays: progress.DefaultRecentWindowDays,
				Recent:           []studylog.Entry{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(tt.entries, tt.kind, ref, tt.windowDays)
			require.NoError(t, err)
			assert.Equal(t, tt.want.ReferenceDate, got.ReferenceDate)
			assert.Equal(t, tt.want.Range, got.Range)
			assert.ElementsMatch(t, tt.want.Totals, got.Totals)
			assert.Equal(t, tt.want.MaxMinutes, got.MaxMinutes)
			assert.Equal(t, tt.want.Chartable, got.Chartable)
			assert.Equal(t, len(tt.want.Scores), len(got.Scores))
			for i := range tt.want.Scores {
				assert.Equal(t, tt.want.Scores[i].Subject, got.Scores[i].Subject)
				assert.InDelta(t, tt.want.Scores[i].Mean, got.Scores[i].Mean, 1e-9)
				assert.Equal(t, tt.want.Scores[i].Count, got.Scores[i].Count)
			}
			assert.Equal(t, tt.want.WeakestSubject, got.WeakestSubject)
			assert.Equal(t, tt.want.WeakestTopic, got.WeakestTopic)
			assert.Equal(t, tt.want.RecentWindowDays, got.RecentWindowDays)
			assert.ElementsMatch(t, tt.want.Recent, got.Recent)
		})
	}
}

func TestRender(t *testing.T) {
	ref := date(t, "2024-01-10")
	entries := []studylog.Entry{
		{ID: 1, Date: date(t, "2024-01-09"), Subject: "Math", Topic: "Algebra", Score: 2, StudyTime: 30},
		{ID: 2, Date: date(t, "2024-01-10"), Subject: "Art", Topic: "Color", Score: 5, StudyTime: 60},
	}
	data, err := Build(entries, progress.Today, ref, 7)
	require.NoError(t, err)

	tmpl, err := assets.ParseProgressReportTemplate("", zap.NewNop())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, tmpl, data))
	got := buf.String()

	assert.Contains(t, got, "Generated on 2024-01-10 for range **today**.")
	assert.Contains(t, got, "| Subject | Minutes | Chart |")
	assert.Contains(t, got, "| Art | 60 | ████████████████████ |")
	assert.NotContains(t, got, "| Math | 30 |")
	assert.Contains(t, got, "| Math | 2.00 | 1 |")
	assert.Contains(t, got, "Weakest subject: **Math**, weakest topic: **Algebra**.")
	assert.Contains(t, got, "## Last 7 days")
	assert.Contains(t, got, "| 2024-01-09 | Math | Algebra | 2 | 30 |")
}

func TestRender_EmptyLog(t *testing.T) {
	data, err := Build(nil, progress.AllTime, date(t, "2024-01-10"), 7)
	require.NoError(t, err)

	tmpl, err := assets.ParseProgressReportTemplate("", zap.NewNop())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, tmpl, data))
	assert.Contains(t, buf.String(), "No study time recorded in this range.")
	assert.Contains(t, buf.String(), "No entries yet.")
	assert.NotContains(t, buf.String(), "Weakest subject")
}
