/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders rubric results as Markdown.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"chainguard.dev/mcqqc/rubric"
	"chainguard.dev/mcqqc/verdict"
)

// Markdown renders one row per rubric under a heading naming the profile.
// It also reports whether any rubric failed or produced no verdict.
func Markdown(p *rubric.Profile, results verdict.ResultMap) (string, bool) {
	names := make(map[string]string, rubric.Count)
	for _, r := range rubric.All() {
		names[r.ID] = r.Name
	}

	var buf bytes.Buffer
	table := createStandardTable([]string{"Rubric", "Check", "Score", "Rationale", "Details"}, &buf)

	passed, errored := 0, 0
	for _, e := range results {
		row := []string{e.ID, names[e.ID]}
		switch {
		case !e.Result.OK():
			errored++
			row = append(row, "⚠️ error", cell(e.Result.Error), "")
		case e.Result.Verdict.Score() == 1:
			passed++
			row = append(row, "✅ 1", cell(e.Result.Verdict["rationale"]), details(e.Result.Verdict))
		default:
			row = append(row, "❌ 0", cell(e.Result.Verdict["rationale"]), details(e.Result.Verdict))
		}
		_ = table.Append(row)
	}
	_ = table.Render()

	failed := len(results) - passed - errored
	title := "Results"
	if p != nil && p.Title != "" {
		title = p.Title
	}
	summary := fmt.Sprintf("Passed %d of %d rubrics (%d failed, %d errors)", passed, len(results), failed, errored)
	return fmt.Sprintf("## %s\n\n%s\n\n%s", title, summary, buf.String()), failed+errored > 0
}

// details summarizes the shape-specific fields of v.
func details(v verdict.Verdict) string {
	switch {
	case v["ek_aligned"] != nil:
		return fmt.Sprintf("EK %s, LO %s, skill %s", cell(v["ek_aligned"]), cell(v["lo_aligned"]), cell(v["skill_aligned"]))
	case v["questiontype"] != nil:
		return fmt.Sprintf("difficulty %s (%s)", cell(v["difficulty"]), cell(v["questiontype"]))
	default:
		return cell(v["feedback"])
	}
}

// cell flattens a value onto one table line.
func cell(v any) string {
	if v == nil {
		return ""
	}
	s := fmt.Sprint(v)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
