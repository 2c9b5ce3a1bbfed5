/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package pipeline evaluates a question against the full rubric battery:
// build every prompt, dispatch them all, then assemble the verdicts.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/mcqqc/dispatch"
	"chainguard.dev/mcqqc/rubric"
	"chainguard.dev/mcqqc/verdict"
	"github.com/chainguard-dev/clog"
)

// Pipeline runs the rubric battery. It is safe for concurrent use.
type Pipeline struct {
	registry   *rubric.Registry
	dispatcher *dispatch.Dispatcher
}

// New creates a pipeline over the given profiles and dispatcher.
func New(registry *rubric.Registry, dispatcher *dispatch.Dispatcher) (*Pipeline, error) {
	if registry == nil {
		return nil, errors.New("registry is required")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	return &Pipeline{registry: registry, dispatcher: dispatcher}, nil
}

// Profiles returns the registered profiles sorted by name.
func (p *Pipeline) Profiles() []*rubric.Profile {
	return p.registry.Profiles()
}

// Profile returns the named profile, wrapping rubric.ErrUnknownProfile when
// it is not registered.
func (p *Pipeline) Profile(name string) (*rubric.Profile, error) {
	return p.registry.Get(name)
}

// Run evaluates q with the named profile. Per-rubric failures are reported
// inside the returned map; an error means the request as a whole failed.
func (p *Pipeline) Run(ctx context.Context, profile string, q *rubric.Question) (verdict.ResultMap, error) {
	if q == nil {
		return nil, errors.New("question is nil")
	}
	prof, err := p.registry.Get(profile)
	if err != nil {
		return nil, err
	}

	log := clog.FromContext(ctx).With("profile", prof.Name)
	if !rubric.KnownLevel(q.DifficultyLevel) {
		log.Warnf("Difficulty level %d is out of range, using the %s tier",
			q.DifficultyLevel, rubric.TierFor(q.DifficultyLevel).Name)
	}

	prompts, err := rubric.Build(q, prof)
	if err != nil {
		return nil, fmt.Errorf("building prompts: %w", err)
	}

	replies := p.dispatcher.Dispatch(ctx, prompts.Slice())
	results := verdict.Assemble(ctx, rubric.Slots(), replies)

	log.With("failures", results.Failures()).Info("Question evaluated")
	return results, nil
}
