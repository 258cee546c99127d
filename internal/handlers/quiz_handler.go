package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"doc2quiz-service/internal/models"
	"doc2quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	Service *service.QuizService
}

func NewQuizHandler(s *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: s}
}

// Compose samples questions per the target counts and stores them as an
// unassigned batch. bank_id and quiz_name are accepted for the front-end's
// sake but not used: sampling spans banks, and the batch gets its quiz
// identity later when a quiz claims it.
func (h *QuizHandler) Compose(c *gin.Context) {
	var req struct {
		BankID       string         `json:"bank_id"`
		KnowledgeIDs []string       `json:"knowledge_ids"`
		TargetCounts map[string]int `json:"target_counts"`
		QuizName     string         `json:"quiz_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.Service.Compose(req.KnowledgeIDs, req.TargetCounts)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNoQuestions):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no questions available"})
		case errors.Is(err, models.ErrNoKnowledgeSelected):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no knowledge points selected"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compose quiz"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Quiz composed",
		"questionCount": count,
	})
}

func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "quizs": h.Service.ListQuizzes()})
}

func (h *QuizHandler) QuizQuestions(c *gin.Context) {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(c, "page_size", 10)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > 10000 {
		pageSize = 10000
	}

	result := h.Service.QuizQuestions(c.Param("quiz_id"), page, pageSize)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     result.Data,
		"total":    result.Total,
		"page":     result.Page,
		"pageSize": result.PageSize,
	})
}

// CreateQuiz registers a quiz and stamps its identity onto every composed
// question still waiting for one.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req struct {
		QuizName string `json:"quiz_name" binding:"required"`
		Creator  string `json:"creator"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, claimed, err := h.Service.CreateQuiz(req.QuizName, req.Creator)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create quiz"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       fmt.Sprintf("Quiz created, %d questions assigned", claimed),
		"quiz":          quiz,
		"questionCount": claimed,
	})
}

// UpdateQuizInfo stamps an existing quiz's identity onto the composed
// questions still waiting for one.
func (h *QuizHandler) UpdateQuizInfo(c *gin.Context) {
	var req struct {
		QuizID   string `json:"quiz_id" binding:"required"`
		QuizName string `json:"quiz_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.Service.AssignQuizInfo(req.QuizID, req.QuizName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update quiz questions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Assigned %d questions to the quiz", updated),
		"updated": updated,
	})
}
