package workflow

import (
	"fmt"
	"strings"
)

// extractInputCap bounds how much of the working text reaches the extraction
// prompt.
const extractInputCap = 2000

const extractPromptTmpl = `Analyze the following text and extract:
1. Main ideas and key concepts
2. Important keywords and terminology
3. Core themes and topics
4. Educational objectives that could be addressed

Text to analyze:
%s...`

const scaffoldPromptTmpl = `Based on the following information and any relevant course materials, create Reading Apprenticeship (RA) questions and teacher prompts.

TASK:
1. Generate 4 comprehension questions aligned with the Reading Apprenticeship (RA) framework:
   - Social: Promotes discussion, collaboration, or peer interaction
   - Personal: Invites self-reflection, personal connection, or prior experience
   - Cognitive: Encourages metacognition, reading strategies, or thinking about thinking
   - Knowledge-Building: Deepens understanding of concepts, content knowledge, or subject matter

2. Create a concise teacher prompt (1-2 sentences) for each question to guide facilitation.

FORMAT YOUR RESPONSE EXACTLY AS FOLLOWS:
Questions:
1. [Social question]
2. [Personal question]
3. [Cognitive question]
4. [Knowledge-Building question]

Prompts:
1. [Teacher prompt for question 1]
2. [Teacher prompt for question 2]
3. [Teacher prompt for question 3]
4. [Teacher prompt for question 4]

PRIMARY INFORMATION:
%s
%s

Make the questions specific to the content while maintaining the RA framework structure.`

const qualityPromptTmpl = `Evaluate the following Reading Apprenticeship questions and teacher prompts for quality and alignment.

EVALUATION CRITERIA:
For each question, assess:
1. RA Framework Alignment: Which dimension (Social, Personal, Cognitive, Knowledge-Building) and how well it fits
2. Clarity: Is the question clear and understandable?
3. Educational Value: Does it promote meaningful learning?
4. Content Relevance: Does it connect well to the reading material?

For each teacher prompt, evaluate:
1. Facilitation Guidance: How well does it guide teacher action?
2. Student Engagement: Will it promote active participation?
3. Clarity: Is it actionable and specific?

QUESTIONS:
%s

TEACHER PROMPTS:
%s

Provide a structured evaluation with:
- Overall assessment (Excellent/Good/Needs Improvement)
- Specific strengths
- Areas for improvement
- Recommendations for enhancement`

const keywordsPromptTmpl = `Extract 10-20 keywords/terms (comma-separated) that best represent the reading.
TITLE: %s
TEXT:
%s`

const keySentencesPromptTmpl = `Select 5-8 key sentences from the reading that are high-leverage for instruction. Return ONLY the sentences as a numbered list (1..n). Prefer definitional, causal, or summary sentences.

TITLE: %s
TEXT:
%s`

const annotatePromptTmpl = `You are scaffolding **Reading A**.
Given KEY SENTENCES from Reading A (no chunking) and RAG context from Reading B only, produce **annotations** where EACH key sentence is paired with:
- a short **Teacher Prompt** (1-2 sentences) and
- an **RA-aligned Question** tagged as Social/Personal/Cognitive/Knowledge-Building.

FORMAT EXACTLY:
Annotations:
1) Sentence: "..."
   Prompt: ...
   Question (RA: Dimension): ...
2) Sentence: "..."
   Prompt: ...
   Question (RA: Dimension): ...
(continue for all provided key sentences)

CONSTRAINTS:
- Ground questions in Reading A; use RAG only to deepen/contrast.
- Distribute RA dimensions across items (aim for balance).
- Align to the teacher's learning objectives.

Reading A - Key Sentences:
%s

Learning Objectives:
%s

RAG Context (Reading B only):
%s`

const reviewPromptTmpl = `Quality-check the annotations below. Assess: (a) alignment to objectives, (b) fidelity to Reading A sentences, (c) RA balance and clarity. Then list concrete improvements.

Learning Objectives:
%s

Annotations:
%s`

func extractPrompt(input string) string {
	return fmt.Sprintf(extractPromptTmpl, truncate(input, extractInputCap))
}

func scaffoldPrompt(extracted, contextSection string) string {
	return fmt.Sprintf(scaffoldPromptTmpl, extracted, contextSection)
}

func qualityPrompt(questions, prompts string) string {
	return fmt.Sprintf(qualityPromptTmpl, questions, prompts)
}

func keywordsPrompt(r Reading) string {
	return fmt.Sprintf(keywordsPromptTmpl, r.Title, r.Content)
}

func keySentencesPrompt(r Reading) string {
	return fmt.Sprintf(keySentencesPromptTmpl, r.Title, r.Content)
}

func annotatePrompt(keySentences string, objectives []string, ragContext string) string {
	return fmt.Sprintf(annotatePromptTmpl, keySentences, objectivesBlock(objectives), ragContext)
}

func reviewPrompt(objectives []string, annotations string) string {
	return fmt.Sprintf(reviewPromptTmpl, bulletList(objectives), annotations)
}

func objectivesBlock(objectives []string) string {
	if block := bulletList(objectives); block != "" {
		return block
	}

	return "(none provided)"
}

func bulletList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}

	return strings.Join(lines, "\n")
}

// truncate cuts s to at most n runes. Prompt caps and context previews count
// characters, not bytes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}
