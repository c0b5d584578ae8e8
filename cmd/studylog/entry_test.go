package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studylog/internal/studylog"
)

func TestEntryCommands(t *testing.T) {
	cfgPath := newTestConfig(t)

	got, err := runCommand(t, "", "--config", cfgPath, "entry", "add",
		"--date", "2024-01-01", "--subject", studylog.CategoryLanguages, "--topic", "Verbs", "--score", "3", "--study-time", "30")
	require.NoError(t, err)
	assert.Equal(t, "Recorded entry 1: 2024-01-01 Languages / Verbs\n", got)

	got, err = runCommand(t, "", "--config", cfgPath, "entry", "add",
		"--date", "2024-01-02", "--subject", studylog.CategoryOther, "--custom-subject", "Chess", "--topic", "Openings", "--score", "5")
	require.NoError(t, err)
	assert.Equal(t, "Recorded entry 2: 2024-01-02 Chess / Openings\n", got)

	got, err = runCommand(t, "", "--config", cfgPath, "entry", "list")
	require.NoError(t, err)
	assert.Equal(t, "ID     DATE        SUBJECT    TOPIC     SCORE  MINUTES\n"+
		"1      2024-01-01  Languages  Verbs         3       30\n"+
		"2      2024-01-02  Chess      Openings      5        0\n", got)

	_, err = runCommand(t, "", "--config", cfgPath, "entry", "clear")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	got, err = runCommand(t, "", "--config", cfgPath, "entry", "clear", "--yes")
	require.NoError(t, err)
	assert.Equal(t, "All entries were deleted.\n", got)

	got, err = runCommand(t, "", "--config", cfgPath, "entry", "list")
	require.NoError(t, err)
	assert.Equal(t, "No entries yet.\n", got)

	got, err = runCommand(t, "", "--config", cfgPath, "entry", "add",
		"--date", "2024-01-03", "--subject", studylog.CategoryArt, "--topic", "Color", "--score", "4")
	require.NoError(t, err)
	assert.Equal(t, "Recorded entry 3: 2024-01-03 Art/Design / Color\n", got, "ids are not reused after clear")
}

func TestEntryAddCommand_Interactive(t *testing.T) {
	cfgPath := newTestConfig(t)

	got, err := runCommand(t, "2\nPricing\n2\n15\n\n", "--config", cfgPath, "entry", "add", "--date", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, got, "Category: ")
	assert.Contains(t, got, "Recorded entry 1: 2024-03-01 Business/Economics / Pricing\n")

	_, err = runCommand(t, "2\n", "--config", cfgPath, "entry", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input ended")
}

func TestEntryAddCommand_Rejected(t *testing.T) {
	cfgPath := newTestConfig(t)

	tests := []struct {
		name      string
		args      []string
		wantField string
	}{
		{
			name:      "score out of range",
			args:      []string{"--subject", "Math", "--topic", "Algebra", "--score", "6"},
			wantField: "score",
		},
		{
			name:      "negative study time",
			args:      []string{"--subject", "Math", "--topic", "Algebra", "--score", "3", "--study-time", "-5"},
			wantField: "study_time",
		},
		{
			name:      "other without custom subject",
			args:      []string{"--subject", studylog.CategoryOther, "--topic", "Algebra", "--score", "3"},
			wantField: "custom_subject",
		},
		{
			name:      "blank topic",
			args:      []string{"--subject", "Math", "--topic", "  ", "--score", "3"},
			wantField: "topic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, "", append([]string{"--config", cfgPath, "entry", "add"}, tt.args...)...)
			var validationErr *studylog.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Fields[0].Field)
		})
	}

	got, err := runCommand(t, "", "--config", cfgPath, "entry", "list")
	require.NoError(t, err)
	assert.Equal(t, "No entries yet.\n", got)
}

func TestEntryAddCommand_InvalidDate(t *testing.T) {
	_, err := runCommand(t, "", "--config", newTestConfig(t), "entry", "add", "--date", "01/02/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected YYYY-MM-DD")
}
