/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Question is a candidate multiple-choice question and its metadata.
type Question struct {
	Article         string   `json:"article"`
	TopicQuestions  TextList `json:"topic_questions"`
	DifficultyLevel int      `json:"difficulty_level"`
	Question        string   `json:"question"`
	Responses       string   `json:"responses"`
	Correct         string   `json:"correct"`
	Distractors     string   `json:"distractors"`
	Explanations    string   `json:"explanations"`
	EKDescription   string   `json:"ek_description"`
	LODescription   string   `json:"lo_description"`

	// Worked examples, used when the profile takes them from the request.
	GoodQs string `json:"goodqs,omitempty"`
	BadQs  string `json:"badqs,omitempty"`
}

// Validate checks the fields every rubric depends on.
func (q *Question) Validate() error {
	var errs []error
	if strings.TrimSpace(q.Question) == "" {
		errs = append(errs, errors.New("question is required"))
	}
	if strings.TrimSpace(q.Responses) == "" {
		errs = append(errs, errors.New("responses is required"))
	}
	return errors.Join(errs...)
}

// TextList is a list of prior questions. It decodes from either a single
// string or an array of strings.
type TextList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *TextList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = TextList{s}
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("topic_questions must be a string or a list of strings: %w", err)
	}
	*l = items
	return nil
}

// String joins the list one entry per line.
func (l TextList) String() string {
	return strings.Join(l, "\n")
}
