/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"context"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	outcomeOK    = "ok"
	outcomeEmpty = "empty"
	outcomeError = "error"
)

// callMetrics records token usage and call outcomes. Counters that fail to
// initialize degrade to no-ops.
type callMetrics struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	calls            metric.Int64Counter
}

func newCallMetrics(ctx context.Context, meterName string) *callMetrics {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))
	log := clog.FromContext(ctx).With("meter", meterName)

	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			log.With("error", err).With("counter", name).Warn("Failed to create counter, metric disabled")
			return noop.Int64Counter{}
		}
		return c
	}

	return &callMetrics{
		promptTokens:     counter("genai.token.prompt", "The number of prompt tokens used", "{tokens}"),
		completionTokens: counter("genai.token.completion", "The number of completion tokens used", "{tokens}"),
		calls:            counter("mcqqc.evaluator.calls", "The number of evaluation calls by outcome", "{calls}"),
	}
}

func (m *callMetrics) recordTokens(ctx context.Context, model string, prompt, completion int64) {
	if prompt == 0 && completion == 0 {
		return
	}
	attrs := metric.WithAttributes(attribute.String("model", model))
	m.promptTokens.Add(ctx, prompt, attrs)
	m.completionTokens.Add(ctx, completion, attrs)
}

func (m *callMetrics) recordCall(ctx context.Context, model, outcome string) {
	m.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("outcome", outcome),
	))
}
