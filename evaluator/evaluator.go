/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chainguard.dev/mcqqc/evaluator/retry"
	"github.com/chainguard-dev/clog"
)

// DefaultModel is the model every rubric is evaluated with unless overridden.
const DefaultModel = "claude-3-7-sonnet-20250219"

// ErrNoVerdict is returned when a call produced no usable reply text.
var ErrNoVerdict = errors.New("no verdict")

// Interface evaluates a single prompt.
type Interface interface {
	// Evaluate returns the model's raw reply text. Every failure wraps ErrNoVerdict.
	Evaluate(ctx context.Context, prompt string) (string, error)
}

// completion is a provider's reply and its token usage.
type completion struct {
	text             string
	promptTokens     int64
	completionTokens int64
}

// provider performs one raw exchange against a model API.
type provider interface {
	complete(ctx context.Context, prompt string) (completion, error)
	retryable(err error) bool
}

// client wraps a provider with timeouts, retries, metrics and the sentinel mapping.
type client struct {
	model    string
	provider provider
	timeout  time.Duration
	retry    retry.Config
	metrics  *callMetrics
}

var _ Interface = (*client)(nil)

// New creates an evaluator for the given model.
func New(ctx context.Context, model string, opts ...Option) (Interface, error) {
	s := defaultSettings()
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	var (
		p   provider
		err error
	)
	switch family(model) {
	case familyClaude:
		p, err = newClaude(ctx, model, s)
	case familyGemini:
		p, err = newGemini(ctx, model, s)
	case familyOpenAI:
		p, err = newOpenAI(model, s)
	default:
		return nil, fmt.Errorf("unsupported model: %s (expected claude-*, gemini-*, gpt-* or o-series)", model)
	}
	if err != nil {
		return nil, err
	}

	return &client{
		model:    model,
		provider: p,
		timeout:  s.timeout,
		retry:    s.retry,
		metrics:  newCallMetrics(ctx, "chainguard.dev/mcqqc"),
	}, nil
}

// Evaluate implements Interface
func (c *client) Evaluate(ctx context.Context, prompt string) (string, error) {
	log := clog.FromContext(ctx).With("model", c.model)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := retry.Do(ctx, c.retry, "evaluate", c.provider.retryable, func() (completion, error) {
		return c.provider.complete(ctx, prompt)
	})
	if err != nil {
		log.With("error", err.Error()).
			With("latency", time.Since(start)).
			Error("Evaluation call failed")
		c.metrics.recordCall(ctx, c.model, outcomeError)
		return "", fmt.Errorf("%w: %w", ErrNoVerdict, err)
	}

	c.metrics.recordTokens(ctx, c.model, out.promptTokens, out.completionTokens)
	if strings.TrimSpace(out.text) == "" {
		log.Warn("Evaluation returned empty text")
		c.metrics.recordCall(ctx, c.model, outcomeEmpty)
		return "", fmt.Errorf("%w: empty reply", ErrNoVerdict)
	}

	log.With("latency", time.Since(start)).
		With("response_length", len(out.text)).
		Info("Evaluation call completed")
	c.metrics.recordCall(ctx, c.model, outcomeOK)
	return out.text, nil
}

type modelFamily int

const (
	familyUnknown modelFamily = iota
	familyClaude
	familyGemini
	familyOpenAI
)

func family(model string) modelFamily {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "claude-"):
		return familyClaude
	case strings.HasPrefix(m, "gemini-"):
		return familyGemini
	case strings.HasPrefix(m, "gpt-"), isOSeries(m):
		return familyOpenAI
	default:
		return familyUnknown
	}
}

// isOSeries matches OpenAI reasoning models such as o1, o3-mini or o4-mini.
func isOSeries(m string) bool {
	return len(m) >= 2 && m[0] == 'o' && m[1] >= '1' && m[1] <= '9'
}
