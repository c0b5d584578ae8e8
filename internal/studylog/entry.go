// Package studylog provides the study session model and its durable store.
package studylog

import (
	"strings"

	"cloud.google.com/go/civil"
)

// Entry is one recorded study session. Entries are never updated once stored.
type Entry struct {
	ID        int64      `json:"id"`
	Date      civil.Date `json:"date"`
	Subject   string     `json:"subject"`
	Topic     string     `json:"topic"`
	Score     int        `json:"score"`
	StudyTime int        `json:"study_time"`
}

// NewEntry holds the caller-supplied fields of an entry before the store assigns an ID.
// StudyTime is in minutes and stays 0 when omitted.
type NewEntry struct {
	Date      civil.Date `json:"date" validate:"required"`
	Subject   string     `json:"subject" validate:"required"`
	Topic     string     `json:"topic" validate:"required"`
	Score     int        `json:"score" validate:"min=1,max=5"`
	StudyTime int        `json:"study_time" validate:"min=0"`
}

func (e NewEntry) normalized() NewEntry {
	e.Subject = strings.TrimSpace(e.Subject)
	e.Topic = strings.TrimSpace(e.Topic)
	return e
}

const (
	CategoryIT         = "IT/Programming"
	CategoryBusiness   = "Business/Economics"
	CategoryLanguages  = "Languages"
	CategoryHumanities = "Humanities"
	CategoryScience    = "Natural Sciences"
	CategoryArt        = "Art/Design"
	CategoryOther      = "Other (free text)"
)

// Categories lists the selectable subjects in display order.
var Categories = []string{
	CategoryIT,
	CategoryBusiness,
	CategoryLanguages,
	CategoryHumanities,
	CategoryScience,
	CategoryArt,
	CategoryOther,
}

// ResolveSubject returns the subject to store for a category selection.
// Selecting CategoryOther requires custom text, which becomes the subject.
// Any other non-empty selection is stored as is.
func ResolveSubject(selected, custom string) (string, error) {
	selected = strings.TrimSpace(selected)
	if selected == "" {
		return "", &ValidationError{Fields: []FieldError{{Field: "subject", Message: "subject is a required field"}}}
	}
	if selected != CategoryOther {
		return selected, nil
	}

	custom = strings.TrimSpace(custom)
	if custom == "" {
		return "", &ValidationError{Fields: []FieldError{{Field: "custom_subject", Message: "custom_subject is required when \"" + CategoryOther + "\" is selected"}}}
	}
	return custom, nil
}
