/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package rubric renders the fixed battery of ten quality-control prompts
// for a multiple-choice question.
//
// Each rubric is a prompt template with {{name}} placeholders. Caller text
// is bound inside CDATA sections so it reaches the model unchanged, and
// developer-controlled reference material (task-verb tiers, absolute words,
// stock phrases) is bound as literal text. Subject-specific material such
// as the skill table and the worked examples comes from a Profile:
//
//	reg, err := rubric.LoadRegistry(os.Getenv("QC_PROFILE_DIR"))
//	if err != nil {
//		return err
//	}
//	p, err := reg.Get("general")
//	if err != nil {
//		return err
//	}
//	prompts, err := rubric.Build(q, p)
//
// Build is pure. The ordering of the returned PromptSet matches All and
// Slots, which is how results are keyed back to prompt1 through prompt10.
package rubric
