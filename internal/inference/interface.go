package inference

import (
	"context"
	"errors"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client suggests study tasks for a subject the learner is struggling with.
type Client interface {
	SuggestTasks(ctx context.Context, params SuggestTasksRequest) (SuggestTasksResponse, error)
}

// SuggestTasksRequest names the weak area. Topic may be empty.
type SuggestTasksRequest struct {
	Subject string `json:"subject"`
	Topic   string `json:"topic,omitempty"`
}

type SuggestTasksResponse struct {
	Text string `json:"text"`
}

// Failure modes of SuggestTasks. Implementations wrap them so callers can use errors.Is.
var (
	ErrTimeout       = errors.New("suggestion request timed out")
	ErrTransport     = errors.New("suggestion request failed")
	ErrEmptyResponse = errors.New("suggestion response was empty")
)

// DefaultMaxRetryAttempts is the number of retries after a failed suggestion request.
// Zero keeps the single-shot behavior.
const DefaultMaxRetryAttempts = 0
