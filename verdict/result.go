/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package verdict

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Result is the outcome of one rubric: a verdict or an error marker, never both.
type Result struct {
	Verdict Verdict
	Error   string
}

// Failed returns an error-marker result.
func Failed(reason string) Result {
	return Result{Error: reason}
}

// OK reports whether the result carries a verdict.
func (r Result) OK() bool {
	return r.Verdict != nil
}

// MarshalJSON implements json.Marshaler
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Verdict != nil {
		return json.Marshal(map[string]any(r.Verdict))
	}
	return json.Marshal(map[string]string{"error": r.Error})
}

// Entry pairs a rubric identifier with its result.
type Entry struct {
	ID     string
	Result Result
}

// ResultMap holds one entry per rubric in rubric order.
type ResultMap []Entry

// Get returns the result recorded for id.
func (m ResultMap) Get(id string) (Result, bool) {
	for _, e := range m {
		if e.ID == id {
			return e.Result, true
		}
	}
	return Result{}, false
}

// Failures counts entries holding an error marker.
func (m ResultMap) Failures() int {
	n := 0
	for _, e := range m {
		if !e.Result.OK() {
			n++
		}
	}
	return n
}

// AllPassed reports whether every entry carries a passing verdict.
func (m ResultMap) AllPassed() bool {
	for _, e := range m {
		if !e.Result.OK() || e.Result.Verdict.Score() != 1 {
			return false
		}
	}
	return true
}

// MarshalJSON emits a JSON object whose keys follow slice order.
func (m ResultMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.ID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Result)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s: %w", e.ID, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
