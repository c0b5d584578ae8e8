// Package cli renders study log views in the terminal and prompts for new entries.
package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/at-ishikawa/studylog/internal/coach"
	"github.com/at-ishikawa/studylog/internal/progress"
	"github.com/at-ishikawa/studylog/internal/studylog"
)

const chartWidth = 40

// Printer writes colored views of entries and progress to a writer.
type Printer struct {
	w      io.Writer
	bold   *color.Color
	italic *color.Color
	green  *color.Color
	red    *color.Color
	faint  *color.Color
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:      w,
		bold:   color.New(color.Bold),
		italic: color.New(color.Italic),
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		faint:  color.New(color.Faint),
	}
}

func (p *Printer) printf(format string, args ...any) error {
	if _, err := fmt.Fprintf(p.w, format, args...); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

func (p *Printer) PrintEntries(entries []studylog.Entry) error {
	if len(entries) == 0 {
		return p.printf("%s\n", p.faint.Sprint("No entries yet."))
	}

	subjectWidth := columnWidth("SUBJECT", entries, func(e studylog.Entry) string { return e.Subject })
	topicWidth := columnWidth("TOPIC", entries, func(e studylog.Entry) string { return e.Topic })

	if err := p.printf("%s\n", p.bold.Sprintf("%-5s  %-10s  %s  %s  %5s  %7s",
		"ID", "DATE", pad("SUBJECT", subjectWidth), pad("TOPIC", topicWidth), "SCORE", "MINUTES")); err != nil {
		return err
	}
	for _, e := range entries {
		if err := p.printf("%-5d  %-10s  %s  %s  %s  %7d\n",
			e.ID, e.Date, pad(e.Subject, subjectWidth), pad(e.Topic, topicWidth), p.score(e.Score), e.StudyTime,
		); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) PrintCategories(categories []string) error {
	for i, c := range categories {
		if err := p.printf("%d. %s\n", i+1, c); err != nil {
			return err
		}
	}
	return nil
}

// PrintTimeChart draws totals as horizontal bars scaled to the largest total.
func (p *Printer) PrintTimeChart(kind progress.RangeKind, totals []progress.SubjectTotal) error {
	if err := p.printf("%s\n", p.bold.Sprintf("Study time (%s)", kind)); err != nil {
		return err
	}
	if !progress.IsChartable(totals) {
		return p.printf("%s\n", p.faint.Sprint("No study time recorded in this range."))
	}

	width := utf8.RuneCountInString("SUBJECT")
	maxMinutes := 0
	for _, t := range totals {
		width = max(width, utf8.RuneCountInString(t.Subject))
		maxMinutes = max(maxMinutes, t.Minutes)
	}
	for _, t := range totals {
		if err := p.printf("%s  %s %d min\n",
			pad(t.Subject, width), p.green.Sprint(bar(t.Minutes, maxMinutes, chartWidth)), t.Minutes,
		); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) PrintRecent(entries []studylog.Entry, windowDays int) error {
	if err := p.printf("%s\n", p.bold.Sprintf("Last %d days", windowDays)); err != nil {
		return err
	}
	if len(entries) == 0 {
		return p.printf("%s\n", p.faint.Sprintf("No entries in the last %d days.", windowDays))
	}
	for _, e := range entries {
		topic := e.Topic
		if topic == "" {
			topic = "-"
		}
		if err := p.printf("%s  %s / %s  score %s  %d min\n",
			e.Date, p.bold.Sprint(e.Subject), p.italic.Sprint(topic), p.score(e.Score), e.StudyTime,
		); err != nil {
			return err
		}
	}
	return nil
}

// PrintScores lists mean scores per subject and marks weakest when it is not empty.
func (p *Printer) PrintScores(scores []progress.SubjectScore, weakest string) error {
	if len(scores) == 0 {
		return p.printf("%s\n", p.faint.Sprint("No entries yet."))
	}

	width := utf8.RuneCountInString("SUBJECT")
	for _, s := range scores {
		width = max(width, utf8.RuneCountInString(s.Subject))
	}
	if err := p.printf("%s\n", p.bold.Sprintf("%s  %4s  %7s", pad("SUBJECT", width), "MEAN", "ENTRIES")); err != nil {
		return err
	}
	for _, s := range scores {
		line := fmt.Sprintf("%s  %4.2f  %7d", pad(s.Subject, width), s.Mean, s.Count)
		if s.Subject == weakest {
			line = p.red.Sprint(line + "  <- weakest")
		}
		if err := p.printf("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) PrintAdvice(advice coach.Advice) error {
	focus := advice.Subject
	if advice.Topic != "" {
		focus += " / " + advice.Topic
	}
	if err := p.printf("Focus: %s\n\n", p.bold.Sprint(focus)); err != nil {
		return err
	}
	return p.printf("%s\n", advice.Suggestions)
}

func (p *Printer) score(score int) string {
	s := fmt.Sprintf("%5d", score)
	switch {
	case score <= 2:
		return p.red.Sprint(s)
	case score >= 4:
		return p.green.Sprint(s)
	default:
		return s
	}
}

func bar(value, maxValue, width int) string {
	if value <= 0 || maxValue <= 0 {
		return ""
	}
	n := value * width / maxValue
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func columnWidth(header string, entries []studylog.Entry, field func(studylog.Entry) string) int {
	width := utf8.RuneCountInString(header)
	for _, e := range entries {
		width = max(width, utf8.RuneCountInString(field(e)))
	}
	return width
}
