// Package progress derives chart and advice statistics from a snapshot of study entries.
// Every function is pure: inputs are never mutated and the reference date is always passed in.
package progress

import (
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/civil"

	"github.com/at-ishikawa/studylog/internal/studylog"
)

// ErrNoData is returned when a statistic has no entries to work from.
var ErrNoData = errors.New("progress: no data")

// DefaultRecentWindowDays is the look-back of the recent activity view.
const DefaultRecentWindowDays = 7

type RangeKind int

const (
	AllTime RangeKind = iota
	Today
	LastWeek
	LastMonth
)

var rangeNames = map[RangeKind]string{
	AllTime:   "all_time",
	Today:     "today",
	LastWeek:  "last_week",
	LastMonth: "last_month",
}

// RangeKinds lists the ranges in display order.
var RangeKinds = []RangeKind{Today, LastWeek, LastMonth, AllTime}

func (k RangeKind) String() string {
	if name, ok := rangeNames[k]; ok {
		return name
	}
	return fmt.Sprintf("RangeKind(%d)", int(k))
}

// ParseRangeKind accepts the names returned by RangeKind.String.
func ParseRangeKind(s string) (RangeKind, error) {
	for kind, name := range rangeNames {
		if name == s {
			return kind, nil
		}
	}
	return AllTime, fmt.Errorf("unknown range %q: expected one of today, last_week, last_month, all_time", s)
}

// FilterByRange returns the entries inside the range ending at ref.
// LastWeek and LastMonth include ref-7 and ref-30 days respectively.
func FilterByRange(entries []studylog.Entry, kind RangeKind, ref civil.Date) []studylog.Entry {
	result := make([]studylog.Entry, 0, len(entries))
	for _, e := range entries {
		if inRange(e.Date, kind, ref) {
			result = append(result, e)
		}
	}
	return result
}

func inRange(date civil.Date, kind RangeKind, ref civil.Date) bool {
	switch kind {
	case Today:
		return date == ref
	case LastWeek:
		return !date.Before(ref.AddDays(-7))
	case LastMonth:
		return !date.Before(ref.AddDays(-30))
	default:
		return true
	}
}

type SubjectTotal struct {
	Subject string `json:"subject"`
	Minutes int    `json:"minutes"`
}

// TotalTimeBySubject sums study time per subject, largest first.
// Subjects with equal totals keep the order in which they first appear.
func TotalTimeBySubject(entries []studylog.Entry) []SubjectTotal {
	index := make(map[string]int)
	totals := make([]SubjectTotal, 0)
	for _, e := range entries {
		i, ok := index[e.Subject]
		if !ok {
			i = len(totals)
			index[e.Subject] = i
			totals = append(totals, SubjectTotal{Subject: e.Subject})
		}
		totals[i].Minutes += e.StudyTime
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Minutes > totals[j].Minutes
	})
	return totals
}

// IsChartable reports whether totals has anything worth plotting.
func IsChartable(totals []SubjectTotal) bool {
	for _, t := range totals {
		if t.Minutes != 0 {
			return true
		}
	}
	return false
}

// Recent returns entries dated on or after ref minus windowDays, newest first.
// Entries sharing a date keep their store order. A zero window keeps only entries
// dated on or after ref; callers choose the default.
func Recent(entries []studylog.Entry, ref civil.Date, windowDays int) []studylog.Entry {
	from := ref.AddDays(-windowDays)

	result := make([]studylog.Entry, 0)
	for _, e := range entries {
		if !e.Date.Before(from) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result
}
