package llm

import (
	"fmt"
	"strings"

	"doc2quiz-service/internal/models"
)

// extractionPrompt asks for a locally numbered outline. Entry ids only
// need to be unique within the reply; parentId -1 marks a top-level entry.
const extractionPrompt = `Read the attached document and extract its table of contents as a list of knowledge topics. Return JSON data shaped like this example:
[
  {"id": 1, "text": "Chapter 1 Title", "parentId": -1},
  {"id": 2, "text": "Section 1.1 Title", "parentId": 1},
  {"id": 3, "text": "Chapter 2 Title", "parentId": -1}
]
where id numbers the entries within this reply, parentId points at the id of the parent entry and parentId -1 marks a top-level entry. Return only the JSON array with no commentary.`

const generationExample = `{
  "questions": [
    {
      "type": "single_choice",
      "questionText": "Which of the following statements is correct?",
      "options": ["Option A text", "Option B text", "Option C text", "Option D text"],
      "answer": "A",
      "difficulty": "low",
      "score": "2",
      "explanation": "Why option A is the correct choice.",
      "knowledgeLabel": "The knowledge point text",
      "knowledgeId": "the-knowledge-point-id"
    }
  ]
}`

// QuestionRequirement is one line of a generation order: one question of
// one type at one difficulty.
type QuestionRequirement struct {
	Type       string
	Label      string
	Difficulty string
}

// Requirements expands per-difficulty counts into the flat ordered list
// embedded in the generation prompt. The returned total is the number of
// questions the oracle is asked for.
func Requirements(types []models.QuestionTypeCount) (int, []QuestionRequirement) {
	total := 0
	requirements := make([]QuestionRequirement, 0)
	for _, questionType := range types {
		name := questionType.Type
		if name == "" {
			name = models.TypeSingleChoice
		}
		label := questionType.Label
		if label == "" {
			label = models.TypeLabels[name]
		}
		if label == "" {
			label = name
		}
		for _, level := range []struct {
			name  string
			count int
		}{
			{"low", questionType.Low},
			{"medium", questionType.Medium},
			{"high", questionType.High},
		} {
			for i := 0; i < level.count; i++ {
				requirements = append(requirements, QuestionRequirement{Type: name, Label: label, Difficulty: level.name})
				total++
			}
		}
	}
	return total, requirements
}

// KnowledgeText renders the labelled point list for the generation
// prompt. Points without text contribute nothing; when none carries text
// the prompt falls back to the attached document content.
func KnowledgeText(points []models.KnowledgePoint) string {
	lines := make([]string, 0, len(points))
	for _, point := range points {
		if point.Text == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s", point.ID, point.Text))
	}
	if len(lines) == 0 {
		return "the content of the attached documents"
	}
	return strings.Join(lines, "\n")
}

func buildGenerationPrompt(knowledgeText string, requirements []QuestionRequirement, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the knowledge points below and the attached documents, write %d exam questions.\n\n", total)
	b.WriteString("Knowledge points (format: - [id] text):\n")
	b.WriteString(knowledgeText)
	b.WriteString("\n\nQuestion requirements:\n")
	for i, requirement := range requirements {
		fmt.Fprintf(&b, "%d. %s, difficulty: %s\n", i+1, requirement.Label, requirement.Difficulty)
	}
	b.WriteString(`
Return the questions strictly as JSON:
1. Respond with a single JSON object holding a "questions" array.
2. Every question carries these fields:
   - type: question type (single_choice/multiple_choice/true_false/essay)
   - questionText: the question stem
   - options: answer options (required for choice questions, an empty array for true/false and essay)
   - answer: the answer ("A" for single choice, "AB" for multiple choice, "true" or "false" for true/false, a reference answer for essay)
   - difficulty: difficulty level (low/medium/high)
   - score: point value as a string, such as "1", "2" or "5"
   - explanation: why the answer is correct
   - knowledgeLabel: the text of the covered knowledge point
   - knowledgeId: the id of the covered knowledge point taken from the list above (the first one when several apply)
3. Keep the question order aligned with the requirement list above.
4. Return only JSON with no commentary.

JSON example:
`)
	b.WriteString(generationExample)
	return b.String()
}
