// Package datasync moves study log entries between the store and YAML files.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/civil"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/studylog/internal/studylog"
)

// FormatVersion is written to every export and checked on import.
const FormatVersion = 1

type exportFile struct {
	Version int           `yaml:"version"`
	Entries []exportEntry `yaml:"entries"`
}

type exportEntry struct {
	ID        int64  `yaml:"id,omitempty"`
	Date      string `yaml:"date"`
	Subject   string `yaml:"subject"`
	Topic     string `yaml:"topic"`
	Score     int    `yaml:"score"`
	StudyTime int    `yaml:"study_time"`
}

// Exporter writes the current snapshot as YAML.
type Exporter struct {
	repo studylog.Repository
}

func NewExporter(repo studylog.Repository) *Exporter {
	return &Exporter{repo: repo}
}

// Export writes every entry to w and returns how many were written.
func (exp *Exporter) Export(ctx context.Context, w io.Writer) (int, error) {
	entries, err := exp.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("repo.ListAll() > %w", err)
	}

	out := exportFile{
		Version: FormatVersion,
		Entries: make([]exportEntry, len(entries)),
	}
	for i, e := range entries {
		out.Entries[i] = exportEntry{
			ID:        e.ID,
			Date:      e.Date.String(),
			Subject:   e.Subject,
			Topic:     e.Topic,
			Score:     e.Score,
			StudyTime: e.StudyTime,
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return 0, fmt.Errorf("yaml.Encode() > %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("yaml.Encoder.Close() > %w", err)
	}
	return len(entries), nil
}

// ImportResult tracks counts for an import.
type ImportResult struct {
	EntriesNew     int
	EntriesSkipped int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
	// SkipDuplicates ignores records whose fields all match an entry already stored.
	SkipDuplicates bool
}

// Importer reads YAML exports and inserts them as new entries.
type Importer struct {
	repo      studylog.Repository
	validator *studylog.Validator
	writer    io.Writer
}

func NewImporter(repo studylog.Repository, validator *studylog.Validator, writer io.Writer) *Importer {
	return &Importer{
		repo:      repo,
		validator: validator,
		writer:    writer,
	}
}

type entryKey struct {
	date      civil.Date
	subject   string
	topic     string
	score     int
	studyTime int
}

func keyOf(date civil.Date, subject, topic string, score, studyTime int) entryKey {
	return entryKey{date: date, subject: subject, topic: topic, score: score, studyTime: studyTime}
}

// Import validates every record before writing any, so a bad file leaves the store untouched.
// Stored entries receive fresh ids.
func (imp *Importer) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	var in exportFile
	if err := yaml.NewDecoder(r).Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return &ImportResult{}, nil
		}
		return nil, fmt.Errorf("yaml.Decode() > %w", err)
	}
	if in.Version != 0 && in.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported export version %d", in.Version)
	}

	entries := make([]studylog.NewEntry, 0, len(in.Entries))
	var fields []studylog.FieldError
	for i, record := range in.Entries {
		date, err := civil.ParseDate(record.Date)
		if err != nil {
			fields = append(fields, studylog.FieldError{
				Field:   fmt.Sprintf("entries[%d].date", i),
				Message: fmt.Sprintf("entries[%d]: date %q must be in YYYY-MM-DD format", i, record.Date),
			})
			continue
		}
		entry, err := imp.validator.ValidateStored(studylog.NewEntry{
			Date:      date,
			Subject:   record.Subject,
			Topic:     record.Topic,
			Score:     record.Score,
			StudyTime: record.StudyTime,
		})
		if err != nil {
			var validationErr *studylog.ValidationError
			if !errors.As(err, &validationErr) {
				return nil, err
			}
			for _, f := range validationErr.Fields {
				fields = append(fields, studylog.FieldError{
					Field:   fmt.Sprintf("entries[%d].%s", i, f.Field),
					Message: fmt.Sprintf("entries[%d]: %s", i, f.Message),
				})
			}
			continue
		}
		entries = append(entries, entry)
	}
	if len(fields) > 0 {
		return nil, &studylog.ValidationError{Fields: fields}
	}

	existing := make(map[entryKey]bool)
	if opts.SkipDuplicates {
		stored, err := imp.repo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("repo.ListAll() > %w", err)
		}
		for _, e := range stored {
			existing[keyOf(e.Date, e.Subject, e.Topic, e.Score, e.StudyTime)] = true
		}
	}

	var result ImportResult
	for _, entry := range entries {
		key := keyOf(entry.Date, entry.Subject, entry.Topic, entry.Score, entry.StudyTime)
		if existing[key] {
			fmt.Fprintf(imp.writer, "  [SKIP]  %s %q (%s)\n", entry.Date, entry.Topic, entry.Subject)
			result.EntriesSkipped++
			continue
		}
		if !opts.DryRun {
			if _, err := imp.repo.Insert(ctx, entry); err != nil {
				return &result, fmt.Errorf("repo.Insert() > %w", err)
			}
		}
		if opts.SkipDuplicates {
			existing[key] = true
		}
		fmt.Fprintf(imp.writer, "  [NEW]  %s %q (%s)\n", entry.Date, entry.Topic, entry.Subject)
		result.EntriesNew++
	}
	return &result, nil
}
