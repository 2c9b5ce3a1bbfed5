/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import "chainguard.dev/mcqqc/verdict"

// Count is the number of rubrics in the battery.
const Count = 10

// Rubric is one fixed evaluation dimension.
type Rubric struct {
	// ID is the key the rubric's result is reported under.
	ID string
	// Name is a short human-readable label.
	Name string
	// Shape is the verdict shape the model must answer with.
	Shape verdict.Shape

	tmpl *template
}

// Slot returns the assembler slot for this rubric.
func (r Rubric) Slot() verdict.Slot {
	return verdict.Slot{ID: r.ID, Shape: r.Shape}
}

// All returns the rubrics in battery order.
func All() [Count]Rubric {
	return rubrics
}

// Slots returns the assembler slots in battery order.
func Slots() []verdict.Slot {
	out := make([]verdict.Slot, Count)
	for i, r := range rubrics {
		out[i] = r.Slot()
	}
	return out
}

var rubrics = [Count]Rubric{
	{ID: "prompt1", Name: "clarity", Shape: verdict.Basic, tmpl: clarityPrompt},
	{ID: "prompt2", Name: "format", Shape: verdict.Basic, tmpl: formatPrompt},
	{ID: "prompt3", Name: "content", Shape: verdict.Basic, tmpl: contentPrompt},
	{ID: "prompt4", Name: "alignment", Shape: verdict.Alignment, tmpl: alignmentPrompt},
	{ID: "prompt5", Name: "difficulty", Shape: verdict.Difficulty, tmpl: difficultyPrompt},
	{ID: "prompt6", Name: "correct answer", Shape: verdict.Basic, tmpl: correctAnswerPrompt},
	{ID: "prompt7", Name: "distractors", Shape: verdict.Basic, tmpl: distractorPrompt},
	{ID: "prompt8", Name: "absolute language", Shape: verdict.Basic, tmpl: absolutesPrompt},
	{ID: "prompt9", Name: "option coherence", Shape: verdict.Basic, tmpl: coherencePrompt},
	{ID: "prompt10", Name: "explanations", Shape: verdict.Basic, tmpl: explanationsPrompt},
}

var clarityPrompt = mustParseTemplate("clarity", `<task>
As a world-renowned expert in educational assessment with 30 years of experience designing AP exams across various subjects, evaluate the clarity of this question. Apply your expertise and critical thinking to the evaluation.
</task>

{{question}}

{{responses}}

{{article}}

<instructions>
Assign a score of 1 if ALL of the following conditions are met:
+ There is a single clear interpretation of the question.
+ Sufficient context is provided for a well-prepared student to answer correctly.
  - If the question refers to information that will be given, such as a table or reference text, that information is given.
+ The question can be answered from the article, or by applying knowledge learned in this or previous chapters.

Assign a score of 0 if ANY of the above conditions are not met.

Provide a concise 2-line explanation for your scoring decision and 2 lines of actionable feedback.
</instructions>

<output_format>
Return ONLY a JSON object matching this JSON schema:
{{output_format}}
</output_format>`)

var formatPrompt = mustParseTemplate("format", `<task>
As a world-renowned expert in educational assessment with 30 years of experience designing AP exams across various subjects, evaluate the format of this question. Apply your expertise and critical thinking to the evaluation.
</task>

{{question}}

{{responses}}

<instructions>
Assign a score of 1 if ALL of the following conditions are met:
+ The question has 4 or 5 answer options in the responses to select from.
+ Any formulas in the question and the responses are formatted and presented correctly in Markdown with LaTeX.
+ All necessary components mentioned in the question (for example a passage or a stem) are present.

Assign a score of 0 if ANY of the above conditions are not met.

Provide a concise 2-line explanation for your scoring decision and 2 lines of actionable feedback.
</instructions>

<output_format>
Return ONLY a JSON object matching this JSON schema:
{{output_format}}
</output_format>`)

var contentPrompt = mustParseTemplate("content", `<task>
As a world-renowned expert in educational assessment with 30 years of experience designing AP exams across various subjects, evaluate the content of this question. Apply your expertise and critical thinking to the evaluation.
</task>

{{question}}

{{ek_description}}

{{lo_description}}

<skills>
{{skills}}
</skills>

{{article}}

{{topic_questions}}

<instructions>
Assign a score of 1 if ALL of the following conditions are met:
+ The question can be answered by reading the article.
  - A question that introduces new information is still answerable if students can apply knowledge from the article to the new situation to reach a conclusion.
+ The content is culturally sensitive. Correct terminology is used to represent groups, and free, unpaid or slave labor is never presented as a positive construct.
+ The content is not similar in meaning to any of the topic questions.

Assign a score of 0 if ANY of the above conditions are not met.

Provide a concise 2-line explanation for your scoring decision and 2 lines of actionable feedback.
</instructions>

<output_format>
Return ONLY a JSON object matching this JSON schema:
{{output_format}}
</output_format>`)

var alignmentPrompt = mustParseTemplate("alignment", `<task>
As a world-renowned expert in educational assessment with 30 years of experience designing AP exams across various subjects, evaluate the curriculum alignment of this question. Apply your expertise and critical thinking to the evaluation.
</task>

{{question}}

{{responses}}

{{ek_description}}

{{lo_description}}

<skills>
{{skills}}
</skills>

{{article}}

<instructions>
Assign a score of 1 if ANY ONE of the following conditions is met:
+ The question is aligned to a specific skill from the skills table.
+ The question is aligned to the learning objective.
+ The question is aligned to the essential knowledge code.

Assign a score of 0 if NONE of the above conditions are met.

Name the essential knowledge code, learning objective code and skill code the question aligns to.
Provide a concise 2-line explanation for your scoring decision.
</instructions>

<output_format>
Return ONLY a JSON object matching this JSON schema:
{{output_format}}
</output_format>`)

var difficultyPrompt = mustParseTemplate("difficulty", `<task>
As a renowned psychometrician, assign a difficulty to this question. Apply your deep understanding of cognitive development, Bloom's Taxonomy and Depth of Knowledge (DOK) levels in your analysis.
</task>

{{question}}

{{responses}}

{{explanations}}

{{article}}

<bloom_easy>
{{tier_easy}}
</bloom_easy>

<bloom_moderate>
{{tier_moderate}}
</bloom_moderate>

<bloom_difficult>
{{tier_difficult}}
</bloom_difficult>

<instructions>
Classify the question:
+ The question type is "reading comprehension" with difficulty 0 if all of the information required to respond is stated explicitly in the article.
+ The question type is "recall" with difficulty 1 if the task in the question is related to bloom_easy.
+ The question type is "analyze" with difficulty 2 if the task in the question is related to bloom_moderate.
+ The question type is "evaluate" with difficulty 3 if the task in the question is related to bloom_difficult.
+ The question type is "apply" with difficulty 3 if the question presents new information or a new situation and the student must apply information from the article to it.

Then decide whether the difficulty is appropriate for AP learning materials. If the difficulty is 0, assign a score of 0. If the difficulty is greater than 0, assign a score of 1.

Provide a concise 2-line explanation for your scoring decision.
</instructions>

<output_format>
Return ONLY a JSON object matching this JSON schema:
{{output_format}}
</output_format>`)

var correctAnswerPrompt = mustParseTemplate("correct_answer", `<task>
As a world-renowned expert in educational assessment with 30 years of experience designing AP exams across various subjects, evaluate the correct response to this multiple choice question. Apply your expertise and critical thinking to the evaluation.
</task>

{{question}}

{{correct}}

<task_verbs>
{{task_verbs}}
</task_verbs>

<instructions>
Assign a score of 1 if ALL of the following conditions are met:
+ The correct response is factually correct.
+ The correct response is not more than one sentence long.
+ The correct response answers all parts of the question. If the question asks for a combination, the response includes a combination.
+ The correct response uses the task verb correctly. If the question is about an argument, the response includes an argument. If the question asks for a comparison between two things, a comparison is made.

Assign a score of 0 if ANY of the above conditions are not met.

Provide a concise 2-line explanation for your scoring decision and 2 lines of actionable feedback.
</instructions>

<output_format>
Return ONLY a JSON object matching this JSON schema:
{{output_format}}
</output_format>`)

var distractorPrompt = mustParseTemplate("distractors", `<task>
As a world-renowned expert in educational assessment with 30 years of experience designing AP exams across various subjects, evaluate the distractors of this question. Apply your expertise and critical thinking to the evaluation.
</task>

{{question}}

{{responses}}

<task_verbs>
{{task_verbs}}
</task_verbs>

<multishot>
{{good_examples}}
{{bad_examples}}
</multishot>

<instructions>
A distractor is a little lie a teacher might tell to trick a high school student who came to class but did not read the book or study before the exam.
Distractors should use the topic and general vocabulary of the subject, but should not be so hard that a first-time learner who read the chapter well would struggle.

Assign a score of 1 if ALL of the following conditions are met:
+ Each distractor is not more than 2 words longer or shorter than the correct response.
+ Each distractor uses the task verbs correctly to respond to all parts of the question. If the question is about an argument, the response includes an argument. If the question asks for a combination, the response includes a combination.
+ Each distractor responds to all parts of the question. If the question asks for a comparison, a comparison is made.
+ No distractor could be confused for a correct answer by a student who studied well.

Assign a score of 0 if ANY of the above conditions are not met.

Provide a concise 2-line explanation for your scoring decision and 2 lines of actionable feedback.
</instructions>

<output_format>
Return ONLY a JSON object matching this JSON schema:
{{output_format}}
</output_format>`)

var absolutesPrompt = mustParseTemplate("absolutes", `<task>
As a preeminent AP educator and assessment expert with over three decades of cross-disciplinary experience, evaluate the quality of the distractor options. Apply your knowledge of AP standards and effective pedagogical practice in your analysis.
</task>

{{question}}

{{distractors}}

<absolutes>
{{absolutes}}
</absolutes>

<patterns>
{{pattern_phrases}}
</patterns>

<instructions>
Assign a score of 1 if ALL of the following conditions are met:
+ Not more than one response option contains a word from the absolutes list.
+ No distractor contains a phrase from the patterns list.

Assign a score of 0 if ANY of the above conditions are not met.

Provide a concise 2-line explanation for your scoring decision and 2 lines of actionable feedback.
</instructions>

<output_format>
Return ONLY a JSON object matching this JSON schema:
{{output_format}}
</output_format>`)

var coherencePrompt = mustParseTemplate("coherence", `<task>
As a world-renowned expert in educational assessment with 30 years of experience designing AP exams across various subjects, evaluate the coherence of the response set of this question. Apply your expertise and critical thinking to the evaluation.
</task>

{{question}}

{{responses}}

<task_verbs>
{{task_verbs}}
</task_verbs>

<multishot>
{{good_examples}}
{{bad_examples}}
</multishot>

<instructions>
Assign a score of 1 if ALL of the following conditions are met:
+ All responses have the same number of commas.
+ Each response uses the task verbs correctly to respond to all parts of the question. If the question asks for a comparison, a comparison is made.
+ Each response is unique in interpretation from all other response options.
+ Only one response is arguably correct for a student who has studied well.
+ All responses are written in the same tense and style.

Assign a score of 0 if ANY of the above conditions are not met.

Provide a concise 2-line explanation for your scoring decision and 2 lines of actionable feedback.
</instructions>

<output_format>
Return ONLY a JSON object matching this JSON schema:
{{output_format}}
</output_format>`)

var explanationsPrompt = mustParseTemplate("explanations", `<task>
As a world-renowned expert in educational assessment with 30 years of experience designing AP exams across various subjects, evaluate the explanations for the response set of this question. Apply your expertise and critical thinking to the evaluation.
</task>

{{question}}

{{responses}}

{{explanations}}

<task_verbs>
{{task_verbs}}
</task_verbs>

<multishot>
{{good_examples}}
{{bad_examples}}
</multishot>

<instructions>
Assign a score of 1 if ALL of the following conditions are met:
+ There is an explanation for every correct and incorrect response.
+ Each explanation is factually correct.
+ Each explanation is between 2 and 4 sentences long.
+ Each explanation addresses why the answer is correct or incorrect.

Assign a score of 0 if ANY of the above conditions are not met.

Provide a concise 2-line explanation for your scoring decision and 2 lines of actionable feedback.
</instructions>

<output_format>
Return ONLY a JSON object matching this JSON schema:
{{output_format}}
</output_format>`)
