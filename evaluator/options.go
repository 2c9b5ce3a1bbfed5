/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"chainguard.dev/mcqqc/evaluator/retry"
)

const (
	// DefaultMaxTokens bounds the size of every reply.
	DefaultMaxTokens = 8192
	// DefaultTemperature keeps sampling near-deterministic.
	DefaultTemperature = 0.2
	// DefaultVertexRegion is used when a Vertex project is set without a region.
	DefaultVertexRegion = "us-east5"
)

// settings is shared by every provider.
type settings struct {
	apiKey        string
	baseURL       string
	vertexProject string
	vertexRegion  string
	maxTokens     int64
	temperature   float64
	timeout       time.Duration
	retry         retry.Config
	httpClient    *http.Client
}

func defaultSettings() settings {
	return settings{
		vertexRegion: DefaultVertexRegion,
		maxTokens:    DefaultMaxTokens,
		temperature:  DefaultTemperature,
		retry:        retry.DefaultConfig(),
	}
}

// Option is a functional option for configuring the evaluator
type Option func(*settings) error

// WithAPIKey sets the provider API key. When unset, each SDK falls back to
// its usual environment variable.
func WithAPIKey(key string) Option {
	return func(s *settings) error {
		s.apiKey = key
		return nil
	}
}

// WithBaseURL points the provider SDK at a different endpoint.
func WithBaseURL(raw string) Option {
	return func(s *settings) error {
		if raw == "" {
			return nil
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid base URL %q: %w", raw, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("base URL %q must use http or https", raw)
		}
		s.baseURL = raw
		return nil
	}
}

// WithVertex routes Claude and Gemini calls through Vertex AI in the given project.
func WithVertex(project, region string) Option {
	return func(s *settings) error {
		if project == "" {
			return nil
		}
		s.vertexProject = project
		if region != "" {
			s.vertexRegion = region
		}
		return nil
	}
}

// WithMaxTokens sets the maximum tokens for replies
func WithMaxTokens(tokens int64) Option {
	return func(s *settings) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		if tokens > 32000 {
			return fmt.Errorf("max tokens %d exceeds maximum of 32000", tokens)
		}
		s.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0.0 and 1.0.
func WithTemperature(temp float64) Option {
	return func(s *settings) error {
		if temp < 0.0 || temp > 1.0 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		s.temperature = temp
		return nil
	}
}

// WithTimeout bounds each call. Zero leaves calls bounded only by the transport.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) error {
		if d < 0 {
			return fmt.Errorf("timeout cannot be negative, got %v", d)
		}
		s.timeout = d
		return nil
	}
}

// WithRetryConfig sets how transient provider errors are retried.
func WithRetryConfig(cfg retry.Config) Option {
	return func(s *settings) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.retry = cfg
		return nil
	}
}

// WithHTTPClient overrides the HTTP client the SDKs use.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}
		s.httpClient = hc
		return nil
	}
}
