// Package coach turns a study log snapshot into task suggestions for its weakest area.
package coach

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/at-ishikawa/studylog/internal/inference"
	"github.com/at-ishikawa/studylog/internal/progress"
	"github.com/at-ishikawa/studylog/internal/studylog"
)

// ErrNotConfigured means no suggestion client is available, usually because the API key is unset.
var ErrNotConfigured = errors.New("coach: suggestion client is not configured")

type Advice struct {
	Subject     string `json:"subject"`
	Topic       string `json:"topic,omitempty"`
	Suggestions string `json:"suggestions"`
}

type Coach struct {
	client inference.Client
	logger *zap.Logger
}

// New returns a Coach. A nil client is allowed and makes Advise fail with ErrNotConfigured.
func New(client inference.Client, logger *zap.Logger) *Coach {
	return &Coach{
		client: client,
		logger: logger,
	}
}

// Weakest returns the weakest subject of entries and its weakest topic.
func Weakest(entries []studylog.Entry) (subject, topic string, err error) {
	subject, err = progress.WeakestSubject(entries)
	if err != nil {
		return "", "", err
	}
	topic, err = progress.WeakestTopicFor(entries, subject)
	if err != nil {
		return "", "", err
	}
	return subject, topic, nil
}

// Advise asks for tasks targeting the weakest subject and topic of entries.
func (c *Coach) Advise(ctx context.Context, entries []studylog.Entry) (Advice, error) {
	subject, topic, err := Weakest(entries)
	if err != nil {
		return Advice{}, err
	}
	if c.client == nil {
		return Advice{}, ErrNotConfigured
	}

	c.logger.Info("requesting suggestions",
		zap.String("subject", subject),
		zap.String("topic", topic),
	)
	response, err := c.client.SuggestTasks(ctx, inference.SuggestTasksRequest{
		Subject: subject,
		Topic:   topic,
	})
	if err != nil {
		return Advice{}, fmt.Errorf("client.SuggestTasks(%s) > %w", subject, err)
	}

	return Advice{
		Subject:     subject,
		Topic:       topic,
		Suggestions: response.Text,
	}, nil
}
