/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main evaluates a single question file from the command line and
// prints the verdicts as a Markdown table.
//
// Usage:
//
//	mcqqc-check -question question.json [-profile us-history] [-model gemini-2.5-pro]
//
// Provider credentials come from the SDKs' usual environment variables
// (ANTHROPIC_API_KEY, GOOGLE_API_KEY, OPENAI_API_KEY).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chainguard.dev/mcqqc/dispatch"
	"chainguard.dev/mcqqc/evaluator"
	"chainguard.dev/mcqqc/pipeline"
	"chainguard.dev/mcqqc/report"
	"chainguard.dev/mcqqc/rubric"
	"chainguard.dev/mcqqc/server"
	"github.com/chainguard-dev/clog"
)

func main() {
	var (
		questionPath = flag.String("question", "-", "Path to the question JSON file, or - for stdin")
		profile      = flag.String("profile", server.DefaultProfile, "Rubric profile to evaluate with")
		profileDir   = flag.String("profile-dir", "", "Directory of additional profile YAML files")
		model        = flag.String("model", evaluator.DefaultModel, "Model used to evaluate the rubrics")
		timeout      = flag.Duration("timeout", 2*time.Minute, "Per-call timeout, 0 for none")
		concurrency  = flag.Int("concurrency", dispatch.DefaultConcurrency, "Number of rubrics evaluated at once")
		asJSON       = flag.Bool("json", false, "Print the raw results as JSON instead of a table")
		strict       = flag.Bool("strict", false, "Exit non-zero when any rubric fails or errors")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	q, err := readQuestion(*questionPath)
	if err != nil {
		clog.FatalContextf(ctx, "reading question: %v", err)
	}
	if err := q.Validate(); err != nil {
		clog.FatalContextf(ctx, "invalid question: %v", err)
	}

	reg, err := rubric.LoadRegistry(*profileDir)
	if err != nil {
		clog.FatalContextf(ctx, "loading profiles: %v", err)
	}
	prof, err := reg.Get(*profile)
	if err != nil {
		clog.FatalContextf(ctx, "%v", err)
	}

	ev, err := evaluator.New(ctx, *model, evaluator.WithTimeout(*timeout))
	if err != nil {
		clog.FatalContextf(ctx, "creating evaluator: %v", err)
	}
	d, err := dispatch.New(ev, dispatch.WithConcurrency(*concurrency))
	if err != nil {
		clog.FatalContextf(ctx, "creating dispatcher: %v", err)
	}
	p, err := pipeline.New(reg, d)
	if err != nil {
		clog.FatalContextf(ctx, "creating pipeline: %v", err)
	}

	results, err := p.Run(ctx, prof.Name, q)
	if err != nil {
		clog.FatalContextf(ctx, "evaluating question: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			clog.FatalContextf(ctx, "encoding results: %v", err)
		}
		if *strict && !results.AllPassed() {
			cancel()
			os.Exit(1)
		}
		return
	}

	out, failing := report.Markdown(prof, results)
	fmt.Println(out)
	if *strict && failing {
		cancel()
		os.Exit(1)
	}
}

func readQuestion(path string) (*rubric.Question, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var q rubric.Question
	if err := json.NewDecoder(r).Decode(&q); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &q, nil
}
