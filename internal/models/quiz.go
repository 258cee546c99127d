package models

// Quiz is a named container for composed questions.
type Quiz struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Creator     string `json:"creator"`
	CreatedTime string `json:"createdTime"`
}

// QuizQuestion is a question placed into a quiz. Content is snapshotted at
// composition time so later edits to the source question cannot change an
// already drafted quiz. QuizID stays "" until a quiz claims the batch; the
// empty string is the unassigned sentinel, so the field always serializes.
type QuizQuestion struct {
	QuizID     string          `json:"quizId"`
	QuizName   string          `json:"quizName"`
	QuestionID string          `json:"questionId"`
	Content    QuestionContent `json:"content"`
}

// Unassigned reports whether the record still awaits a quiz identity.
func (q QuizQuestion) Unassigned() bool {
	return q.QuizID == ""
}

// QuizQuestionPage is one page of a quiz's question listing.
type QuizQuestionPage struct {
	Data     []QuizQuestion `json:"data"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}
