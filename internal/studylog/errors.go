package studylog

import (
	"errors"
	"strings"
)

// ErrNotInitialized is returned by every store operation before Initialize succeeds.
var ErrNotInitialized = errors.New("studylog: store is not initialized")

// InitError reports that the backing database could not be prepared.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return "initialize study log storage: " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// WriteError reports a failed insert or clear. Nothing was written.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return "study log " + e.Op + ": " + e.Err.Error()
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects caller input before any write happens.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return "invalid entry: " + strings.Join(messages, ", ")
}
