// Package gemini implements inference.Client on the Gemini generateContent API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"go.uber.org/zap"
	"resty.dev/v3"

	"github.com/at-ishikawa/studylog/internal/config"
	"github.com/at-ishikawa/studylog/internal/inference"
)

type Client struct {
	httpClient       *resty.Client
	apiKey           string
	model            string
	timeout          time.Duration
	maxRetryAttempts uint
	logger           *zap.Logger
}

func NewClient(cfg config.GeminiConfig, logger *zap.Logger) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		apiKey:           cfg.APIKey,
		model:            cfg.Model,
		timeout:          cfg.Timeout(),
		maxRetryAttempts: cfg.MaxRetryAttempts,
		logger:           logger,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client *Client) GetModel() string {
	return client.model
}

type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

type GenerateContentResponse struct {
	Candidates    []Candidate   `json:"candidates"`
	UsageMetadata UsageMetadata `json:"usageMetadata"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// SuggestTasks implements the inference.Client interface.
// The whole call, retries included, is bounded by the configured timeout.
func (client *Client) SuggestTasks(
	ctx context.Context,
	params inference.SuggestTasksRequest,
) (inference.SuggestTasksResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	var result inference.SuggestTasksResponse
	err := retry.Do(
		func() error {
			response, err := client.suggestTasks(ctx, params)
			if err != nil {
				// Only transport failures are worth another attempt
				if !errors.Is(err, inference.ErrTransport) || ctx.Err() != nil {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = response
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.OnRetry(func(n uint, err error) {
			client.logger.Info("retrying gemini request",
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return inference.SuggestTasksResponse{}, fmt.Errorf("%w after %s: %v", inference.ErrTimeout, client.timeout, err)
		}
		return inference.SuggestTasksResponse{}, err
	}
	return result, nil
}

func (client *Client) suggestTasks(
	ctx context.Context,
	params inference.SuggestTasksRequest,
) (inference.SuggestTasksResponse, error) {
	requestBody := GenerateContentRequest{
		Contents: []Content{
			{Parts: []Part{{Text: buildPrompt(params)}}},
		},
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetPathParam("model", client.model).
		SetQueryParam("key", client.apiKey).
		SetBody(requestBody).
		SetResult(&GenerateContentResponse{}).
		Post("/models/{model}:generateContent")
	if err != nil {
		return inference.SuggestTasksResponse{}, fmt.Errorf("%w: httpClient.Post > %w", inference.ErrTransport, err)
	}
	if response.IsError() {
		return inference.SuggestTasksResponse{}, fmt.Errorf("%w: response error %d: %s", inference.ErrTransport, response.StatusCode(), response.String())
	}

	responseBody, _ := response.Result().(*GenerateContentResponse)
	text := responseBody.text()
	if text == "" {
		return inference.SuggestTasksResponse{}, fmt.Errorf("%w: %s", inference.ErrEmptyResponse, response.String())
	}
	client.logger.Debug("gemini response",
		zap.String("subject", params.Subject),
		zap.String("topic", params.Topic),
		zap.Int("total_tokens", responseBody.UsageMetadata.TotalTokenCount),
	)
	return inference.SuggestTasksResponse{Text: text}, nil
}

func (response *GenerateContentResponse) text() string {
	if response == nil || len(response.Candidates) == 0 {
		return ""
	}
	parts := response.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[0].Text)
}
