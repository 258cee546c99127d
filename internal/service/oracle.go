package service

import (
	"context"

	"doc2quiz-service/internal/llm"
	"doc2quiz-service/internal/models"
)

// Oracle is the slice of the language-model client the services depend
// on. main wires in *llm.Client; tests substitute a fake.
type Oracle interface {
	ExtractOutline(ctx context.Context, filePath string) (llm.Outline, error)
	GenerateQuestions(ctx context.Context, filePaths []string, points []models.KnowledgePoint, types []models.QuestionTypeCount) ([]models.GeneratedQuestion, error)
}
