/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

// absolutes are words that make an option implausibly categorical.
const absolutes stringLiteral = `all, always, never, solely, sole, immediate, immediately, irrelevant, complete, completely, every, none, no significant impact, identical, unchanging, exclusively, purely, uniform, universal`

// patternPhrases are stock phrases that give a distractor away.
const patternPhrases stringLiteral = `no significant impact, minimal impact, impact was limited, effects were limited, universal, perfectly equal, largely irrelevant, passive victims`

// Bloom's Remembering and Understanding, DOK 1-2.
const tierEasyVerbs stringLiteral = `
Define: Provide the exact meaning of a word, term, or concept.
Identify: Recognize and name specific components or characteristics.
List: Enumerate items or ideas in a concise format.
State: Express information clearly and concisely.
Describe: Provide a detailed account of something's characteristics or features.
Explain: Clarify a concept or process by providing reasons or examples.
Summarize: Present the main points of information in a concise form.
Interpret: Explain the meaning or significance of something.
Illustrate: Provide examples or visual representations to clarify a point.
Classify: Organize items into categories based on shared characteristics.
Compare: Examine similarities between two or more things.
Contrast: Examine differences between two or more things.
Categorize: Group items or concepts based on shared characteristics.
Estimate: Make an approximate calculation or judgment.
Predict: Anticipate future outcomes based on current information.
Infer: Draw a conclusion based on evidence and reasoning.
`

// Bloom's Applying and Analyzing, DOK 3.
const tierModerateVerbs stringLiteral = `
Analyze: Examine in detail to identify causes, key factors, or constituent parts.
Calculate: Determine a value using mathematical processes.
Demonstrate: Show how something works or how a process is completed.
Determine: Establish or conclude after consideration or investigation.
Develop: Create or expand on an idea, situation, or product.
Differentiate: Identify the differences between two or more things.
Examine: Inspect or scrutinize something in detail.
Formulate: Create or devise a plan, strategy, or system.
Investigate: Conduct a systematic inquiry to establish facts or principles.
Justify: Provide reasons or evidence to support a claim or decision.
Organize: Arrange information or items in a structured manner.
Relate: Show or establish a connection between things.
Solve: Find a solution to a problem or challenge.
Support: Provide evidence or arguments to back up a claim or position.
Use: Apply knowledge or skills for a specific purpose.
`

// Bloom's Evaluating and Creating, DOK 4.
const tierDifficultVerbs stringLiteral = `
Appraise: Assess the value or quality of something.
Apply: Use knowledge or skills in a new situation.
Argue: Present reasons for or against a point or idea.
Assess: Evaluate or estimate the nature, quality, or significance of something.
Compose: Create by putting elements together.
Conclude: Reach a logical end or judgment by reasoning.
Construct: Build or create something by systematically arranging parts.
Create: Bring something into existence that didn't exist before.
Critique: Offer a detailed analysis and assessment of something.
Design: Plan or create something for a specific purpose.
Evaluate: Make a judgment about the value or quality of something.
Generate: Produce or create something new.
Hypothesize: Propose an explanation for a phenomenon based on limited evidence.
Invent: Create a new product, process, or idea.
Judge: Form an opinion or conclusion about something.
Plan: Devise a method for doing or achieving something.
Produce: Make or manufacture something from components or raw materials.
Propose: Put forward an idea or plan for consideration.
Recommend: Suggest something as worthy of being adopted or done.
Revise: Reconsider and alter something in light of further evidence.
Synthesize: Combine different elements to form a coherent whole.
Validate: Demonstrate or support the truth or value of something.
`

// Tier is one difficulty-aligned vocabulary of task verbs.
type Tier struct {
	Name  string
	verbs stringLiteral
}

// Verbs returns the tier's task-verb definitions.
func (t Tier) Verbs() string {
	return string(t.verbs)
}

var (
	// TierEasy calibrates recall and comprehension questions.
	TierEasy = Tier{Name: "easy", verbs: tierEasyVerbs}
	// TierModerate calibrates application and analysis questions.
	TierModerate = Tier{Name: "moderate", verbs: tierModerateVerbs}
	// TierDifficult calibrates evaluation and synthesis questions.
	TierDifficult = Tier{Name: "difficult", verbs: tierDifficultVerbs}
)

// TierFor maps a difficulty level to its tier: 1 is easy, 2 is moderate and
// every other value, including out-of-range ones, is difficult.
func TierFor(level int) Tier {
	switch level {
	case 1:
		return TierEasy
	case 2:
		return TierModerate
	default:
		return TierDifficult
	}
}

// KnownLevel reports whether level is one of the defined difficulty levels.
func KnownLevel(level int) bool {
	return level >= 1 && level <= 3
}
