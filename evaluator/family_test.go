/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import "testing"

func TestFamily(t *testing.T) {
	t.Parallel()
	tests := []struct {
		model string
		want  modelFamily
	}{
		{"claude-3-7-sonnet-20250219", familyClaude},
		{"Claude-Sonnet-4@20250514", familyClaude},
		{"gemini-2.5-pro", familyGemini},
		{"gpt-4o", familyOpenAI},
		{"o3-mini", familyOpenAI},
		{"o1", familyOpenAI},
		{"omni", familyUnknown},
		{"llama-3", familyUnknown},
		{"", familyUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			t.Parallel()
			if got := family(tt.model); got != tt.want {
				t.Errorf("family(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}
