package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"doc2quiz-service/internal/models"
	"doc2quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type BankHandler struct {
	Service *service.BankService
}

func NewBankHandler(s *service.BankService) *BankHandler {
	return &BankHandler{Service: s}
}

func (h *BankHandler) CreateBank(c *gin.Context) {
	var req struct {
		BankName string `json:"bank_name" binding:"required"`
		Creator  string `json:"creator"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bank, err := h.Service.CreateBank(req.BankName, req.Creator)
	if err != nil {
		if errors.Is(err, models.ErrBankNameExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bank name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create bank"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bank": bank})
}

func (h *BankHandler) ListBanks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "banks": h.Service.ListBanks()})
}

// SaveQuestions persists a generated batch, optionally straight into a
// bank. The whole batch shares one createdTime, which is what later moves
// it into a bank as a unit.
func (h *BankHandler) SaveQuestions(c *gin.Context) {
	var req struct {
		Questions []models.GeneratedQuestion `json:"questions" binding:"required"`
		BankID    string                     `json:"bank_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	batch, err := h.Service.SaveQuestions(req.Questions, req.BankID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save questions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Questions saved",
		"questionId":    batch.FirstQuestionID,
		"questionCount": len(req.Questions),
	})
}

// UpdateQuestionBank moves the whole save batch of the given question into
// a bank.
func (h *BankHandler) UpdateQuestionBank(c *gin.Context) {
	var req struct {
		QuestionID string `json:"question_id" binding:"required"`
		BankID     string `json:"bank_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.Service.AssignBank(req.QuestionID, req.BankID)
	if err != nil {
		if errors.Is(err, models.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign bank"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Assigned %d questions to the bank", updated),
		"updated": updated,
	})
}

func (h *BankHandler) ListQuestions(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 10)

	result, info := h.Service.ListQuestions(page, pageSize, c.Query("bank_id"))
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"data":         result.Data,
		"total":        result.Total,
		"page":         result.Page,
		"pageSize":     result.PageSize,
		"questionInfo": info,
	})
}

func (h *BankHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.Query("question_id")
	if questionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question_id is required"})
		return
	}

	if err := h.Service.DeleteQuestion(questionID); err != nil {
		if errors.Is(err, models.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete question"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Question deleted"})
}

// TypeStatistics counts questions per type across the given knowledge
// points, not restricted to any bank.
func (h *BankHandler) TypeStatistics(c *gin.Context) {
	knowledgeIDs := c.QueryArray("knowledge_ids")
	if len(knowledgeIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "knowledge_ids are required"})
		return
	}

	stats := h.Service.TypeStatistics(knowledgeIDs)
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"total":          stats.Total,
		"typeStatistics": stats.PerType,
	})
}

// LoadTreeForCompose returns the knowledge tree filtered down to nodes
// with questions attached plus their ancestors, the view the composer
// front-end selects from.
func (h *BankHandler) LoadTreeForCompose(c *gin.Context) {
	items := h.Service.FilteredTree(c.Query("bank_id"))
	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or not a number.
func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
