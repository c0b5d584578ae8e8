package datasync

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studylog/internal/studylog"
	"github.com/at-ishikawa/studylog/internal/testutil"
)

func newValidator(t *testing.T) *studylog.Validator {
	t.Helper()
	v, err := studylog.NewValidator()
	require.NoError(t, err)
	return v
}

func TestExporter_Export(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.SeedEntries(t, store,
		studylog.NewEntry{Date: civil.Date{Year: 2024, Month: 1, Day: 1}, Subject: "Math", Topic: "Algebra", Score: 2, StudyTime: 30},
		studylog.NewEntry{Date: civil.Date{Year: 2024, Month: 1, Day: 2}, Subject: "Art", Topic: "Color", Score: 4},
	)

	var buf bytes.Buffer
	n, err := NewExporter(store).Export(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, `version: 1
entries:
  - id: 1
    date: "2024-01-01"
    subject: Math
    topic: Algebra
    score: 2
    study_time: 30
  - id: 2
    date: "2024-01-02"
    subject: Art
    topic: Color
    score: 4
    study_time: 0
`, buf.String())
}

func TestExportThenImport(t *testing.T) {
	ctx := context.Background()
	source := testutil.NewStore(t)
	testutil.SeedEntries(t, source,
		studylog.NewEntry{Date: civil.Date{Year: 2024, Month: 1, Day: 1}, Subject: "Math", Topic: "Algebra", Score: 2, StudyTime: 30},
		studylog.NewEntry{Date: civil.Date{Year: 2024, Month: 1, Day: 2}, Subject: "Cooking", Topic: "Knife skills", Score: 5, StudyTime: 15},
		studylog.NewEntry{Date: civil.Date{Year: 2024, Month: 1, Day: 3}, Subject: "Math", Topic: "", Score: 1, StudyTime: 45},
	)

	var buf bytes.Buffer
	_, err := NewExporter(source).Export(ctx, &buf)
	require.NoError(t, err)

	target := testutil.NewStore(t)
	var log bytes.Buffer
	result, err := NewImporter(target, newValidator(t), &log).Import(ctx, &buf, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{EntriesNew: 3}, result)
	assert.Contains(t, log.String(), `[NEW]  2024-01-01 "Algebra" (Math)`)
	assert.Contains(t, log.String(), `[NEW]  2024-01-03 "" (Math)`)

	want, err := source.ListAll(ctx)
	require.NoError(t, err)
	got, err := target.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		want[i].ID = got[i].ID
	}
	assert.Equal(t, want, got)
}

func TestImporter_Import(t *testing.T) {
	const valid = `version: 1
entries:
  - date: "2024-03-01"
    subject: Languages
    topic: Verbs
    score: 3
    study_time: 20
  - date: "2024-03-02"
    subject: Languages
    topic: Nouns
    score: 4
`

	tests := []struct {
		name       string
		input      string
		opts       ImportOptions
		seed       []studylog.NewEntry
		want       *ImportResult
		wantStored int
		wantErr    string
		wantFields []string
	}{
		{
			name:       "imports every entry",
			input:      valid,
			want:       &ImportResult{EntriesNew: 2},
			wantStored: 2,
		},
		{
			name:       "dry run writes nothing",
			input:      valid,
			opts:       ImportOptions{DryRun: true},
			want:       &ImportResult{EntriesNew: 2},
			wantStored: 0,
		},
		{
			name:  "skips duplicates when asked",
			input: valid,
			opts:  ImportOptions{SkipDuplicates: true},
			seed: []studylog.NewEntry{
				{Date: civil.Date{Year: 2024, Month: 3, Day: 1}, Subject: "Languages", Topic: "Verbs", Score: 3, StudyTime: 20},
			},
			want:       &ImportResult{EntriesNew: 1, EntriesSkipped: 1},
			wantStored: 2,
		},
		{
			name:       "empty input",
			input:      "",
			want:       &ImportResult{},
			wantStored: 0,
		},
		{
			name: "invalid records reject the whole file",
			input: `entries:
  - date: "2024-03-01"
    subject: Languages
    topic: Verbs
    score: 3
  - date: "2024-03-02"
    subject: ""
    topic: ""
    score: 9
  - date: "March 3rd"
    subject: Languages
    topic: Kana
    score: 1
`,
			wantFields: []string{"entries[1].subject", "entries[1].score", "entries[2].date"},
		},
		{
			name:    "unsupported version",
			input:   "version: 7\nentries: []\n",
			wantErr: "unsupported export version 7",
		},
		{
			name:    "malformed yaml",
			input:   "entries: [",
			wantErr: "yaml.Decode()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := testutil.NewStore(t)
			testutil.SeedEntries(t, store, tt.seed...)

			got, err := NewImporter(store, newValidator(t), &bytes.Buffer{}).Import(ctx, strings.NewReader(tt.input), tt.opts)

			stored, listErr := store.ListAll(ctx)
			require.NoError(t, listErr)

			if len(tt.wantFields) > 0 {
				var validationErr *studylog.ValidationError
				require.True(t, errors.As(err, &validationErr), "got %v", err)
				var fields []string
				for _, f := range validationErr.Fields {
					fields = append(fields, f.Field)
				}
				assert.ElementsMatch(t, tt.wantFields, fields)
				assert.Empty(t, stored)
				return
			}
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, stored, tt.wantStored)
		})
	}
}
