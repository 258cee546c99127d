package models

import "strings"

// Question types understood by the statistics buckets and the generation
// prompt. Anything else still counts toward totals but has no bucket.
const (
	TypeSingleChoice   = "single_choice"
	TypeMultipleChoice = "multiple_choice"
	TypeTrueFalse      = "true_false"
	TypeEssay          = "essay"
)

// QuestionTypes lists the recognized types in display order.
var QuestionTypes = []string{TypeSingleChoice, TypeMultipleChoice, TypeTrueFalse, TypeEssay}

// TypeLabels maps each recognized type to its display label, used as the
// fallback when a generation request carries no label of its own.
var TypeLabels = map[string]string{
	TypeSingleChoice:   "single choice",
	TypeMultipleChoice: "multiple choice",
	TypeTrueFalse:      "true/false",
	TypeEssay:          "essay",
}

// QuestionContent is the authored body of a question. Score is a string
// ("1", "2", "5") because that is how the oracle writes it and how the
// store persists it.
type QuestionContent struct {
	Type           string   `json:"type"`
	QuestionText   string   `json:"questionText"`
	Options        []string `json:"options"`
	Answer         string   `json:"answer"`
	Difficulty     string   `json:"difficulty"`
	Score          string   `json:"score"`
	Explanation    string   `json:"explanation"`
	KnowledgeLabel string   `json:"knowledgeLabel"`
}

// NormalizedType returns the lower-cased type for bucket matching.
func (c QuestionContent) NormalizedType() string {
	return strings.ToLower(c.Type)
}

// Clone returns a deep copy, options slice included, so a snapshot cannot
// alias the stored record.
func (c QuestionContent) Clone() QuestionContent {
	out := c
	if c.Options != nil {
		out.Options = make([]string, len(c.Options))
		copy(out.Options, c.Options)
	}
	return out
}

// Question is the stored envelope around QuestionContent. CreatedTime is
// shared by every question saved in one batch and is the key used to move
// a whole batch into a bank at once. A question never changes after save
// except for BankID, which transitions once from empty to a value.
type Question struct {
	QuestionID  string          `json:"questionId"`
	CreatedTime string          `json:"createdTime"`
	KnowledgeID string          `json:"knowledgeId,omitempty"`
	BankID      string          `json:"bankId,omitempty"`
	Content     QuestionContent `json:"content"`
}

// GeneratedQuestion is what the generation oracle returns and what the
// save-batch endpoint accepts: content plus the knowledge point the
// question targets.
type GeneratedQuestion struct {
	QuestionContent
	KnowledgeID string `json:"knowledgeId,omitempty"`
}

// QuestionPage is one page of a question listing.
type QuestionPage struct {
	Data     []Question `json:"data"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

// TypeStatistics counts questions per recognized type. Total includes
// questions whose type matched no bucket.
type TypeStatistics struct {
	Total   int            `json:"total"`
	PerType map[string]int `json:"typeStatistics"`
}
