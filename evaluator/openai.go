/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	oaoption "github.com/openai/openai-go/option"
)

// chatGPT talks to the OpenAI chat completions API
type chatGPT struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

func newOpenAI(model string, s settings) (provider, error) {
	opts := []oaoption.RequestOption{oaoption.WithMaxRetries(0)}
	if s.apiKey != "" {
		opts = append(opts, oaoption.WithAPIKey(s.apiKey))
	}
	if s.baseURL != "" {
		opts = append(opts, oaoption.WithBaseURL(s.baseURL))
	}
	if s.httpClient != nil {
		opts = append(opts, oaoption.WithHTTPClient(s.httpClient))
	}
	return &chatGPT{
		client:      openai.NewClient(opts...),
		model:       model,
		maxTokens:   s.maxTokens,
		temperature: s.temperature,
	}, nil
}

func (o *chatGPT) complete(ctx context.Context, prompt string) (completion, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(o.maxTokens),
	}
	// Reasoning models only accept their default temperature.
	if !isOSeries(strings.ToLower(o.model)) {
		params.Temperature = openai.Float(o.temperature)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return completion{}, err
	}
	if len(resp.Choices) == 0 {
		return completion{}, errors.New("no choices in OpenAI response")
	}
	return completion{
		text:             resp.Choices[0].Message.Content,
		promptTokens:     resp.Usage.PromptTokens,
		completionTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (o *chatGPT) retryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}
