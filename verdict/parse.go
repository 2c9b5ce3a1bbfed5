/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package verdict

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Verdict is a decoded model answer. Numbers are kept as json.Number so
// they re-encode exactly as the model wrote them.
type Verdict map[string]any

// Score returns the verdict's score. Parse guarantees it is 0 or 1.
func (v Verdict) Score() int {
	n, ok := v["score"].(json.Number)
	if !ok {
		return 0
	}
	f, err := n.Float64()
	if err != nil || f != 1 {
		return 0
	}
	return 1
}

// Parse strictly decodes text as a verdict of the given shape.
func Parse(shape Shape, text string) (Verdict, error) {
	body := stripFences(text)
	if body == "" {
		return nil, errors.New("empty response body")
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()

	var v Verdict
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.New("expected a JSON object, got null")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}

	if err := v.validate(shape); err != nil {
		return nil, err
	}
	return v, nil
}

func (v Verdict) validate(shape Shape) error {
	raw, ok := v["score"]
	if !ok {
		return errors.New(`missing required field "score"`)
	}
	n, ok := raw.(json.Number)
	if !ok {
		return fmt.Errorf(`field "score" must be a number, got %T`, raw)
	}
	if f, err := n.Float64(); err != nil || (f != 0 && f != 1) {
		return fmt.Errorf(`field "score" must be 0 or 1, got %s`, n)
	}

	for _, key := range append([]string{"rationale"}, shape.requiredFields()...) {
		if err := v.requireString(key); err != nil {
			return err
		}
	}

	if shape == Difficulty {
		return v.validateDifficulty()
	}
	return nil
}

func (v Verdict) requireString(key string) error {
	raw, ok := v[key]
	if !ok {
		return fmt.Errorf("missing required field %q", key)
	}
	if _, ok := raw.(string); !ok {
		return fmt.Errorf("field %q must be a string, got %T", key, raw)
	}
	return nil
}

// validateDifficulty accepts the level either as "0".."3" or as an integer.
func (v Verdict) validateDifficulty() error {
	raw, ok := v["difficulty"]
	if !ok {
		return errors.New(`missing required field "difficulty"`)
	}
	var s string
	switch d := raw.(type) {
	case string:
		s = strings.TrimSpace(d)
	case json.Number:
		s = d.String()
	default:
		return fmt.Errorf(`field "difficulty" must be a string or number, got %T`, raw)
	}
	switch s {
	case "0", "1", "2", "3":
		return nil
	}
	return fmt.Errorf(`field "difficulty" must be one of 0, 1, 2 or 3, got %q`, s)
}

// stripFences removes a Markdown code fence around the JSON payload. A
// "```json" block anywhere in the text wins; otherwise a fence wrapping the
// whole reply is dropped.
func stripFences(text string) string {
	var block bytes.Buffer
	inBlock, found := false, false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case !inBlock && !found && trimmed == "```json":
			inBlock, found = true, true
		case inBlock && trimmed == "```":
			inBlock = false
		case inBlock:
			if block.Len() > 0 {
				block.WriteByte('\n')
			}
			block.WriteString(line)
		}
	}
	if found {
		return strings.TrimSpace(block.String())
	}

	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") && len(text) >= 6 {
		text = strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
	}
	return strings.TrimSpace(text)
}
