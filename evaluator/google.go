/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// gemini talks to Google Gen AI, either the Gemini API or Vertex AI
type gemini struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
}

func newGemini(ctx context.Context, model string, s settings) (provider, error) {
	cfg := &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if s.vertexProject != "" {
		cfg = &genai.ClientConfig{
			Project:  s.vertexProject,
			Location: s.vertexRegion,
			Backend:  genai.BackendVertexAI,
		}
	}
	if s.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.baseURL}
	}
	if s.httpClient != nil {
		cfg.HTTPClient = s.httpClient
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	return &gemini{
		client:      client,
		model:       model,
		maxTokens:   int32(s.maxTokens), //nolint:gosec // bounded by WithMaxTokens
		temperature: float32(s.temperature),
	}, nil
}

func (g *gemini) complete(ctx context.Context, prompt string) (completion, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: g.maxTokens,
	})
	if err != nil {
		return completion{}, err
	}

	out := completion{text: resp.Text()}
	if resp.UsageMetadata != nil {
		out.promptTokens = int64(resp.UsageMetadata.PromptTokenCount)
		out.completionTokens = int64(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

// retryable reports quota exhaustion and transient server errors.
func (g *gemini) retryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{"RESOURCE_EXHAUSTED", "Resource exhausted", "429", "503", "Overloaded", "quota exceeded", "Internal error"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
