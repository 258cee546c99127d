package models

import "errors"

// Sentinel errors shared across repositories and services. Handlers map
// them to HTTP statuses with errors.Is.
var (
	ErrQuestionNotFound    = errors.New("question not found")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrBankNameExists      = errors.New("bank name already exists")
	ErrNoQuestions         = errors.New("no questions available")
	ErrNoKnowledgeSelected = errors.New("no knowledge points selected")
	ErrNoQuestionConfig    = errors.New("no question counts configured")
	ErrOracleEmpty         = errors.New("oracle returned no usable content")
)
