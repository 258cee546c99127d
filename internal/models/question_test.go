package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestContentClone(t *testing.T) {
	content := QuestionContent{
		Type:         TypeSingleChoice,
		QuestionText: "What is 2+2?",
		Options:      []string{"3", "4", "5"},
		Answer:       "B",
		Difficulty:   "low",
		Score:        "1",
	}

	clone := content.Clone()
	clone.Options[0] = "changed"

	if content.Options[0] != "3" {
		t.Errorf("Expected original options untouched, got %q", content.Options[0])
	}
	if clone.QuestionText != content.QuestionText {
		t.Errorf("Expected clone to carry the same text, got %q", clone.QuestionText)
	}
}

func TestContentCloneNilOptions(t *testing.T) {
	clone := QuestionContent{Type: TypeEssay}.Clone()
	if clone.Options != nil {
		t.Errorf("Expected nil options to stay nil, got %v", clone.Options)
	}
}

func TestNormalizedType(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
	}{
		{"Single_Choice", "single_choice"},
		{"ESSAY", "essay"},
		{"true_false", "true_false"},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got := QuestionContent{Type: tc.raw}.NormalizedType()
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestGeneratedQuestionDecode(t *testing.T) {
	// The oracle returns flat objects: content fields plus knowledgeId.
	raw := `{
		"type": "single_choice",
		"questionText": "Pick one",
		"options": ["A", "B"],
		"answer": "A",
		"difficulty": "medium",
		"score": "2",
		"explanation": "because",
		"knowledgeLabel": "Sets",
		"knowledgeId": "node-1"
	}`

	var gq GeneratedQuestion
	if err := json.Unmarshal([]byte(raw), &gq); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if gq.Type != TypeSingleChoice {
		t.Errorf("Expected type single_choice, got %q", gq.Type)
	}
	if gq.KnowledgeID != "node-1" {
		t.Errorf("Expected knowledgeId node-1, got %q", gq.KnowledgeID)
	}
	if len(gq.Options) != 2 {
		t.Errorf("Expected 2 options, got %d", len(gq.Options))
	}
}

func TestQuizQuestionSentinelSerializes(t *testing.T) {
	data, err := json.Marshal(QuizQuestion{QuestionID: "q-1"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	// The empty quizId is the unassigned sentinel and must stay on the wire.
	if !strings.Contains(string(data), `"quizId":""`) {
		t.Errorf("Expected empty quizId to serialize, got %s", data)
	}

	if !(QuizQuestion{}).Unassigned() {
		t.Error("Expected empty quizId to read as unassigned")
	}
	if (QuizQuestion{QuizID: "quiz-1"}).Unassigned() {
		t.Error("Expected assigned quiz question not to read as unassigned")
	}
}
