/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package verdict decodes and assembles the structured answers returned by the
evaluation model.

Every rubric asks the model to answer with a JSON object in one of three
shapes:

	Basic      {"score", "rationale", "feedback"}
	Alignment  {"score", "rationale", "ek_aligned", "lo_aligned", "skill_aligned"}
	Difficulty {"score", "rationale", "difficulty", "questiontype"}

Parse strictly decodes a reply against its shape. The reply is never
evaluated: anything that is not a single well-formed JSON object with the
required fields is rejected. A surrounding Markdown code fence is tolerated
because models add one regardless of instructions.

Assemble turns the raw replies of a fan-out into a ResultMap, substituting an
error record for every slot that failed:

	{"error": "Invalid response"}                    no text came back
	{"error": "Failed to parse response: <cause>"}   text did not decode
	{"error": "Error: <panic value>"}                the call panicked

ResultMap marshals to a JSON object whose keys keep rubric order.
*/
package verdict
