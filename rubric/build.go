/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"errors"
	"fmt"
	"maps"

	"chainguard.dev/mcqqc/verdict"
)

// PromptSet holds one rendered prompt per rubric, in battery order.
type PromptSet [Count]string

// Slice returns the prompts as a slice for dispatch.
func (ps PromptSet) Slice() []string {
	return ps[:]
}

// Build renders the full battery for q using the reference material of p.
// It is pure: the same inputs always produce the same prompts.
func Build(q *Question, p *Profile) (PromptSet, error) {
	var ps PromptSet
	if q == nil {
		return ps, errors.New("question is nil")
	}
	if p == nil {
		return ps, errors.New("profile is nil")
	}

	good, bad := p.examples(q)
	shared, err := renderAll(map[string]value{
		"question":        section{tag: "question", body: q.Question},
		"responses":       section{tag: "responses", body: q.Responses},
		"article":         section{tag: "article", body: q.Article},
		"topic_questions": section{tag: "topic_questions", body: q.TopicQuestions.String()},
		"correct":         section{tag: "correct", body: q.Correct},
		"distractors":     section{tag: "distractors", body: q.Distractors},
		"explanations":    section{tag: "explanations", body: q.Explanations},
		"ek_description":  section{tag: "ek_description", body: q.EKDescription},
		"lo_description":  section{tag: "lo_description", body: q.LODescription},
		"good_examples":   section{tag: "good_examples", body: good},
		"bad_examples":    section{tag: "bad_examples", body: bad},
		"skills":          jsonValue{data: p.Skills},
		"task_verbs":      literal(TierFor(q.DifficultyLevel).verbs),
		"tier_easy":       literal(TierEasy.verbs),
		"tier_moderate":   literal(TierModerate.verbs),
		"tier_difficult":  literal(TierDifficult.verbs),
		"absolutes":       literal(absolutes),
		"pattern_phrases": literal(patternPhrases),
	})
	if err != nil {
		return ps, err
	}

	for i, r := range rubrics {
		values := maps.Clone(shared)
		format, err := outputFormat(r.Shape)
		if err != nil {
			return ps, fmt.Errorf("%s: %w", r.ID, err)
		}
		values["output_format"] = format

		ps[i], err = r.tmpl.render(values)
		if err != nil {
			return ps, fmt.Errorf("%s: %w", r.ID, err)
		}
	}
	return ps, nil
}

func outputFormat(s verdict.Shape) (string, error) {
	schema, err := verdict.Schema(s)
	if err != nil {
		return "", err
	}
	return jsonValue{data: schema}.render()
}
