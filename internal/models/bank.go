package models

// QuestionBank is a named container for saved questions. Names are unique
// (case-sensitive) among stored banks.
type QuestionBank struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Creator     string `json:"creator"`
	CreatedTime string `json:"createdTime"`
}
