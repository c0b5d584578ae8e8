package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/fatih/color"

	"github.com/at-ishikawa/studylog/internal/studylog"
)

var errEnd = errors.New("input ended")

// EntryPrompter asks for the fields of a new entry on an interactive terminal.
type EntryPrompter struct {
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	red          *color.Color
}

func NewEntryPrompter(stdin io.Reader, stdout io.Writer) *EntryPrompter {
	return &EntryPrompter{
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		red:          color.New(color.FgRed),
	}
}

// Prompt reads a category, topic, score, study time and date. Blank answers for
// the date and study time fall back to today and 0. Invalid numbers are asked again.
func (p *EntryPrompter) Prompt(ctx context.Context, today civil.Date) (studylog.NewEntry, error) {
	var entry studylog.NewEntry

	for i, c := range studylog.Categories {
		if _, err := fmt.Fprintf(p.stdoutWriter, "%d. %s\n", i+1, c); err != nil {
			return entry, fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	category, err := p.askInt(ctx, "Category", 1, len(studylog.Categories), nil)
	if err != nil {
		return entry, err
	}
	selected := studylog.Categories[category-1]

	custom := ""
	if selected == studylog.CategoryOther {
		custom, err = p.ask(ctx, "Subject")
		if err != nil {
			return entry, err
		}
	}
	entry.Subject, err = studylog.ResolveSubject(selected, custom)
	if err != nil {
		return entry, err
	}

	if entry.Topic, err = p.ask(ctx, "Topic"); err != nil {
		return entry, err
	}
	if entry.Score, err = p.askInt(ctx, "Score (1-5)", 1, 5, nil); err != nil {
		return entry, err
	}
	zero := 0
	if entry.StudyTime, err = p.askInt(ctx, "Study time in minutes", 0, -1, &zero); err != nil {
		return entry, err
	}
	if entry.Date, err = p.askDate(ctx, today); err != nil {
		return entry, err
	}
	return entry, nil
}

func (p *EntryPrompter) ask(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := p.bold.Fprintf(p.stdoutWriter, "%s: ", label); err != nil {
		return "", fmt.Errorf("failed to write to stdout: %w", err)
	}

	line, err := p.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errEnd
		}
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// askInt repeats the question until the answer is within [minValue, maxValue].
// A negative maxValue leaves the upper bound open. fallback is used for a blank answer when set.
func (p *EntryPrompter) askInt(ctx context.Context, label string, minValue, maxValue int, fallback *int) (int, error) {
	for {
		answer, err := p.ask(ctx, label)
		if err != nil {
			return 0, err
		}
		if answer == "" && fallback != nil {
			return *fallback, nil
		}

		n, err := strconv.Atoi(answer)
		if err == nil && n >= minValue && (maxValue < 0 || n <= maxValue) {
			return n, nil
		}
		if err := p.warn("%q is not a valid number", answer); err != nil {
			return 0, err
		}
	}
}

func (p *EntryPrompter) askDate(ctx context.Context, today civil.Date) (civil.Date, error) {
	for {
		answer, err := p.ask(ctx, fmt.Sprintf("Date [%s]", today))
		if err != nil {
			return civil.Date{}, err
		}
		if answer == "" {
			return today, nil
		}
		d, err := civil.ParseDate(answer)
		if err == nil {
			return d, nil
		}
		if err := p.warn("%q is not a date in YYYY-MM-DD format", answer); err != nil {
			return civil.Date{}, err
		}
	}
}

func (p *EntryPrompter) warn(format string, args ...any) error {
	if _, err := p.red.Fprintf(p.stdoutWriter, format+"\n", args...); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

// IsEndOfInput reports whether err means stdin was closed before the prompt completed.
func IsEndOfInput(err error) bool {
	return errors.Is(err, errEnd)
}
