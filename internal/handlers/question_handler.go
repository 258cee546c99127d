package handlers

import (
	"context"
	"errors"
	"net/http"

	"doc2quiz-service/internal/models"
	"doc2quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	Service *service.QuestionService
}

func NewQuestionHandler(s *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{Service: s}
}

// Generate authors questions for the selected tree items. The generated
// questions are returned to the caller, not stored; saving them is a
// separate call against the bank routes.
func (h *QuestionHandler) Generate(c *gin.Context) {
	var req struct {
		SelectedItems []models.SelectedItem `json:"selected_items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions, err := h.Service.Generate(context.Background(), req.SelectedItems)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNoQuestionConfig):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no question counts configured for the selected items"})
		case errors.Is(err, models.ErrOracleEmpty):
			c.JSON(http.StatusBadGateway, gin.H{"error": "question generation returned no usable content"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "question generation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "questions": questions})
}

func (h *QuestionHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "history": h.Service.History()})
}
