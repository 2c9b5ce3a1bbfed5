/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package evaluator performs one request/response exchange with an evaluation
model per prompt.

The provider is chosen by model name:

	claude-*               Anthropic Messages API (API key or Vertex AI)
	gemini-*               Google Gen AI (Gemini API or Vertex AI)
	gpt-*, o1*, o3*, o4*   OpenAI chat completions

# Usage

	ev, err := evaluator.New(ctx, evaluator.DefaultModel,
		evaluator.WithAPIKey(key),
		evaluator.WithMaxTokens(8192),
		evaluator.WithTemperature(0.2),
	)
	if err != nil {
		return err
	}
	text, err := ev.Evaluate(ctx, prompt)
	if errors.Is(err, evaluator.ErrNoVerdict) {
		// the slot degrades to an error marker; siblings are unaffected
	}

Evaluate never panics on provider failures. Transport errors, non-success
statuses, malformed envelopes and empty replies are logged and returned
wrapped in ErrNoVerdict.

SDK-level retries are disabled. Re-issuing a call is decided by the retry
package and is off unless WithRetryConfig raises MaxRetries.
*/
package evaluator
