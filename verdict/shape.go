/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package verdict

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

// Shape identifies which fields a rubric's verdict must carry.
type Shape int

const (
	// Basic verdicts carry score, rationale and feedback.
	Basic Shape = iota
	// Alignment verdicts name the curriculum codes the question aligns to.
	Alignment
	// Difficulty verdicts classify the cognitive demand of the question.
	Difficulty
)

// String implements fmt.Stringer
func (s Shape) String() string {
	switch s {
	case Basic:
		return "basic"
	case Alignment:
		return "alignment"
	case Difficulty:
		return "difficulty"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// BasicVerdict documents the Basic shape.
type BasicVerdict struct {
	Score     int    `json:"score" jsonschema:"required,enum=0,enum=1" jsonschema_description:"1 if every condition is met and 0 otherwise"`
	Rationale string `json:"rationale" jsonschema:"required" jsonschema_description:"Two-line explanation of the scoring decision"`
	Feedback  string `json:"feedback" jsonschema:"required" jsonschema_description:"Two lines of actionable feedback"`
}

// AlignmentVerdict documents the Alignment shape.
type AlignmentVerdict struct {
	Score        int    `json:"score" jsonschema:"required,enum=0,enum=1" jsonschema_description:"1 if any alignment condition is met and 0 otherwise"`
	Rationale    string `json:"rationale" jsonschema:"required" jsonschema_description:"Two-line explanation of the scoring decision"`
	EKAligned    string `json:"ek_aligned" jsonschema:"required" jsonschema_description:"The essential knowledge code aligned to the question"`
	LOAligned    string `json:"lo_aligned" jsonschema:"required" jsonschema_description:"The learning objective code aligned to the question"`
	SkillAligned string `json:"skill_aligned" jsonschema:"required" jsonschema_description:"The skill code aligned to the question"`
}

// DifficultyVerdict documents the Difficulty shape.
type DifficultyVerdict struct {
	Score        int    `json:"score" jsonschema:"required,enum=0,enum=1" jsonschema_description:"0 when the difficulty is 0 and 1 otherwise"`
	Rationale    string `json:"rationale" jsonschema:"required" jsonschema_description:"Two-line explanation of the scoring decision"`
	Difficulty   string `json:"difficulty" jsonschema:"required,enum=0,enum=1,enum=2,enum=3" jsonschema_description:"The assigned difficulty"`
	QuestionType string `json:"questiontype" jsonschema:"required" jsonschema_description:"The question type determined"`
}

// schemas are reflected once; the reflector output is deterministic so the
// prompts that embed them are too.
var schemas = func() map[Shape]*jsonschema.Schema {
	r := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  true,
		DoNotReference:             true,
		Anonymous:                  true,
	}
	return map[Shape]*jsonschema.Schema{
		Basic:      r.Reflect(&BasicVerdict{}),
		Alignment:  r.Reflect(&AlignmentVerdict{}),
		Difficulty: r.Reflect(&DifficultyVerdict{}),
	}
}()

// Schema returns the JSON schema describing the given shape.
func Schema(s Shape) (*jsonschema.Schema, error) {
	sch, ok := schemas[s]
	if !ok {
		return nil, fmt.Errorf("unknown verdict shape %v", s)
	}
	return sch, nil
}

// requiredFields lists the string fields each shape needs beyond score and rationale.
func (s Shape) requiredFields() []string {
	switch s {
	case Alignment:
		return []string{"ek_aligned", "lo_aligned", "skill_aligned"}
	case Difficulty:
		return []string{"questiontype"}
	default:
		return []string{"feedback"}
	}
}
