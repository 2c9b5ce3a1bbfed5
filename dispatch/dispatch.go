/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package dispatch fans prompts out to an evaluator over a bounded pool and
// fans the replies back in, index-aligned to the prompts.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/mcqqc/evaluator"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the per-dispatch ceiling on in-flight calls.
const DefaultConcurrency = 10

// Reply is the raw outcome of one slot. Err is non-nil when the call failed
// or panicked; Text is then unusable.
type Reply struct {
	Text string
	Err  error
}

// PanicError records a panic raised inside an evaluator call.
type PanicError struct {
	Slot  int
	Value any
}

// Error implements error
func (e *PanicError) Error() string {
	return fmt.Sprintf("Error: %v", e.Value)
}

// Dispatcher runs evaluator calls concurrently.
type Dispatcher struct {
	ev          evaluator.Interface
	concurrency int
	inflight    *semaphore.Weighted
	tracer      trace.Tracer
}

// Option is a functional option for configuring the dispatcher
type Option func(*Dispatcher) error

// WithConcurrency sets how many calls one dispatch may have in flight.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		d.concurrency = n
		return nil
	}
}

// WithMaxInflight caps calls in flight across every dispatch sharing this
// Dispatcher. Zero leaves the total unbounded.
func WithMaxInflight(n int64) Option {
	return func(d *Dispatcher) error {
		if n < 0 {
			return fmt.Errorf("max in-flight cannot be negative, got %d", n)
		}
		if n > 0 {
			d.inflight = semaphore.NewWeighted(n)
		}
		return nil
	}
}

// New creates a dispatcher around ev.
func New(ev evaluator.Interface, opts ...Option) (*Dispatcher, error) {
	if ev == nil {
		return nil, errors.New("evaluator cannot be nil")
	}
	d := &Dispatcher{
		ev:          ev,
		concurrency: DefaultConcurrency,
		tracer:      otel.Tracer("chainguard.dev/mcqqc/dispatch"),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return d, nil
}

// Dispatch evaluates every prompt and blocks until all are done. replies[i]
// always belongs to prompts[i], whatever order the calls finish in. A failing
// or panicking call only affects its own slot, and caller cancellation does
// not abort calls already dispatched.
func (d *Dispatcher) Dispatch(ctx context.Context, prompts []string) []Reply {
	replies := make([]Reply, len(prompts))
	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, prompt := range prompts {
		g.Go(func() error {
			replies[i] = d.call(ctx, i, prompt)
			return nil
		})
	}
	_ = g.Wait()
	return replies
}

func (d *Dispatcher) call(ctx context.Context, slot int, prompt string) (reply Reply) {
	ctx, span := d.tracer.Start(ctx, "mcqqc.dispatch.call", trace.WithAttributes(
		attribute.Int("slot", slot),
		attribute.Int("prompt_length", len(prompt)),
	))
	defer span.End()

	defer func() {
		if v := recover(); v != nil {
			pe := &PanicError{Slot: slot, Value: v}
			clog.FromContext(ctx).With("slot", slot).With("panic", fmt.Sprint(v)).Error("Evaluation call panicked")
			span.RecordError(pe)
			span.SetStatus(codes.Error, pe.Error())
			reply = Reply{Text: pe.Error(), Err: pe}
		}
	}()

	if d.inflight != nil {
		// ctx is never cancelled here, so Acquire only waits.
		if err := d.inflight.Acquire(ctx, 1); err != nil {
			return Reply{Err: err}
		}
		defer d.inflight.Release(1)
	}

	text, err := d.ev.Evaluate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Reply{Err: err}
	}
	span.SetStatus(codes.Ok, "")
	return Reply{Text: text}
}
