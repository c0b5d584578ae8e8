package cli

import (
	"bytes"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studylog/internal/coach"
	"github.com/at-ishikawa/studylog/internal/progress"
	"github.com/at-ishikawa/studylog/internal/studylog"
)

func disableColor(t *testing.T) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })
}

func date(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPrinter_PrintEntries(t *testing.T) {
	disableColor(t)

	tests := []struct {
		name    string
		entries []studylog.Entry
		want    string
	}{
		{
			name: "empty",
			want: "No entries yet.\n",
		},
		{
			name: "aligned columns",
			entries: []studylog.Entry{
				{ID: 1, Date: date("2024-01-01"), Subject: "Math", Topic: "Algebra", Score: 2, StudyTime: 30},
				{ID: 12, Date: date("2024-01-02"), Subject: "Languages", Score: 5},
			},
			want: strings.Join([]string{
				"ID     DATE        SUBJECT    TOPIC    SCORE  MINUTES",
				"1      2024-01-01  Math       Algebra      2       30",
				"12     2024-01-02  Languages               5        0",
				"",
			}, "\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewPrinter(&buf).PrintEntries(tt.entries))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrinter_PrintCategories(t *testing.T) {
	disableColor(t)

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf).PrintCategories([]string{"Languages", "Other (free text)"}))
	assert.Equal(t, "1. Languages\n2. Other (free text)\n", buf.String())
}

func TestPrinter_PrintTimeChart(t *testing.T) {
	disableColor(t)

	tests := []struct {
		name   string
		totals []progress.SubjectTotal
		want   string
	}{
		{
			name: "bars scale to the largest total",
			totals: []progress.SubjectTotal{
				{Subject: "Art", Minutes: 60},
				{Subject: "Math", Minutes: 30},
				{Subject: "Languages", Minutes: 1},
			},
			want: "Study time (last_week)\n" +
				"Art        " + strings.Repeat("█", 40) + " 60 min\n" +
				"Math       " + strings.Repeat("█", 20) + " 30 min\n" +
				"Languages  █ 1 min\n",
		},
		{
			name:   "all zero totals are not chartable",
			totals: []progress.SubjectTotal{{Subject: "Art", Minutes: 0}},
			want:   "Study time (last_week)\nNo study time recorded in this range.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewPrinter(&buf).PrintTimeChart(progress.LastWeek, tt.totals))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrinter_PrintRecent(t *testing.T) {
	disableColor(t)

	tests := []struct {
		name    string
		entries []studylog.Entry
		want    string
	}{
		{
			name: "empty window",
			want: "Last 7 days\nNo entries in the last 7 days.\n",
		},
		{
			name: "blank topic is shown as a dash",
			entries: []studylog.Entry{
				{ID: 2, Date: date("2024-01-02"), Subject: "Art", Score: 4, StudyTime: 15},
				{ID: 1, Date: date("2024-01-01"), Subject: "Math", Topic: "Algebra", Score: 3, StudyTime: 30},
			},
			want: "Last 7 days\n" +
				"2024-01-02  Art / -  score     4  15 min\n" +
				"2024-01-01  Math / Algebra  score     3  30 min\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewPrinter(&buf).PrintRecent(tt.entries, 7))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrinter_PrintScores(t *testing.T) {
	disableColor(t)

	scores := []progress.SubjectScore{
		{Subject: "Languages", Mean: 5, Count: 1},
		{Subject: "Math", Mean: 2.5, Count: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf).PrintScores(scores, "Math"))
	assert.Equal(t, strings.Join([]string{
		"SUBJECT    MEAN  ENTRIES",
		"Languages  5.00        1",
		"Math       2.50        2  <- weakest",
		"",
	}, "\n"), buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf).PrintScores(nil, ""))
	assert.Equal(t, "No entries yet.\n", buf.String())
}

func TestPrinter_PrintAdvice(t *testing.T) {
	disableColor(t)

	tests := []struct {
		name   string
		advice coach.Advice
		want   string
	}{
		{
			name:   "with topic",
			advice: coach.Advice{Subject: "Math", Topic: "Algebra", Suggestions: "1. Solve ten equations."},
			want:   "Focus: Math / Algebra\n\n1. Solve ten equations.\n",
		},
		{
			name:   "without topic",
			advice: coach.Advice{Subject: "Math", Suggestions: "Review."},
			want:   "Focus: Math\n\nReview.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewPrinter(&buf).PrintAdvice(tt.advice))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(0, 10, 40))
	assert.Equal(t, "█", bar(1, 1000, 40))
	assert.Equal(t, strings.Repeat("█", 40), bar(10, 10, 40))
}
