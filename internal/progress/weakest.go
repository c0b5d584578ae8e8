package progress

import (
	"sort"

	"github.com/at-ishikawa/studylog/internal/studylog"
)

type SubjectScore struct {
	Subject string  `json:"subject"`
	Mean    float64 `json:"mean"`
	Count   int     `json:"count"`

	sum int
}

// less compares means exactly as fractions so ties do not depend on float rounding.
func (s SubjectScore) less(other SubjectScore) bool {
	return s.sum*other.Count < other.sum*s.Count
}

// MeanScoreBySubject returns the mean comprehension score of every subject,
// ordered by subject name.
func MeanScoreBySubject(entries []studylog.Entry) []SubjectScore {
	groups := make(map[string]*SubjectScore)
	for _, e := range entries {
		g, ok := groups[e.Subject]
		if !ok {
			g = &SubjectScore{Subject: e.Subject}
			groups[e.Subject] = g
		}
		g.sum += e.Score
		g.Count++
	}

	scores := make([]SubjectScore, 0, len(groups))
	for _, g := range groups {
		g.Mean = float64(g.sum) / float64(g.Count)
		scores = append(scores, *g)
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Subject < scores[j].Subject
	})
	return scores
}

// WeakestSubject returns the subject with the lowest mean score.
// Among equal means the lexically first subject wins, so the result
// does not depend on the order of entries.
func WeakestSubject(entries []studylog.Entry) (string, error) {
	scores := MeanScoreBySubject(entries)
	if len(scores) == 0 {
		return "", ErrNoData
	}

	weakest := scores[0]
	for _, s := range scores[1:] {
		if s.less(weakest) {
			weakest = s
		}
	}
	return weakest.Subject, nil
}

// WeakestTopicFor returns the topic of the lowest scored entry of subject.
// The earliest such entry in the input wins a tie.
func WeakestTopicFor(entries []studylog.Entry, subject string) (string, error) {
	found := false
	var weakest studylog.Entry
	for _, e := range entries {
		if e.Subject != subject {
			continue
		}
		if !found || e.Score < weakest.Score {
			weakest = e
			found = true
		}
	}
	if !found {
		return "", ErrNoData
	}
	return weakest.Topic, nil
}
