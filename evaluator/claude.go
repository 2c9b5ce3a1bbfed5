/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
)

// claude talks to the Anthropic Messages API
type claude struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

func newClaude(ctx context.Context, model string, s settings) (provider, error) {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	switch {
	case s.vertexProject != "":
		opts = append(opts, vertex.WithGoogleAuth(ctx, s.vertexRegion, s.vertexProject))
	case s.apiKey != "":
		opts = append(opts, option.WithAPIKey(s.apiKey))
	}
	if s.baseURL != "" {
		opts = append(opts, option.WithBaseURL(s.baseURL))
	}
	if s.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(s.httpClient))
	}

	return &claude{
		client:      anthropic.NewClient(opts...),
		model:       model,
		maxTokens:   s.maxTokens,
		temperature: s.temperature,
	}, nil
}

func (c *claude) complete(ctx context.Context, prompt string) (completion, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return completion{}, err
	}

	out := completion{
		promptTokens:     msg.Usage.InputTokens,
		completionTokens: msg.Usage.OutputTokens,
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			out.text = block.Text
			return out, nil
		}
	}
	return out, errors.New("no text content in Claude response")
}

// retryable reports rate limit, overloaded and transient server errors.
func (c *claude) retryable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 503, 504, 529:
			return true
		}
	}
	return false
}
