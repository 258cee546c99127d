package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"doc2quiz-service/internal/models"
	"doc2quiz-service/internal/service"
	"doc2quiz-service/internal/storage"

	"github.com/gin-gonic/gin"
)

type KnowledgeHandler struct {
	Service *service.KnowledgeService
}

func NewKnowledgeHandler(s *service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{Service: s}
}

// UploadFile stores a single multipart document in the upload directory.
func (h *KnowledgeHandler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer src.Close()

	info, err := h.Service.SaveUpload(src, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "File uploaded",
		"filename": info.Filename,
		"filePath": info.FilePath,
		"fileSize": info.FileSize,
	})
}

// UploadMultipleFiles stores a batch of documents. When the form carries a
// knowledge_item_id, extraction runs in the background for each file so the
// upload response does not wait on the oracle.
func (h *KnowledgeHandler) UploadMultipleFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "files are required"})
		return
	}
	anchorID := c.PostForm("knowledge_item_id")

	uploaded := make([]storage.UploadedFile, 0, len(files))
	for _, fileHeader := range files {
		src, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		info, err := h.Service.SaveUpload(src, fileHeader.Filename)
		src.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
			return
		}
		uploaded = append(uploaded, info)
	}

	if anchorID != "" {
		for _, f := range uploaded {
			go func(f storage.UploadedFile) {
				merged, err := h.Service.ExtractAndMerge(context.Background(), f.FilePath, f.Filename, anchorID)
				if err != nil {
					log.Printf("Background extraction for %s failed: %v", f.Filename, err)
					return
				}
				log.Printf("Background extraction for %s merged %d knowledge points", f.Filename, merged)
			}(f)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Uploaded %d files", len(uploaded)),
		"files":   uploaded,
	})
}

func (h *KnowledgeHandler) ListFiles(c *gin.Context) {
	files, err := h.Service.ListFiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "files": files})
}

// SaveTree replaces the stored knowledge tree with the posted flat items.
func (h *KnowledgeHandler) SaveTree(c *gin.Context) {
	var req struct {
		Items []models.KnowledgeNode `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.Service.SaveTree(req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save knowledge tree"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Knowledge tree saved", "count": count})
}

func (h *KnowledgeHandler) LoadTree(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "items": h.Service.LoadTree()})
}

// ExtractPoints runs outline extraction for one stored document and merges
// the result under the given anchor node.
func (h *KnowledgeHandler) ExtractPoints(c *gin.Context) {
	var req struct {
		FilePath        string `json:"file_path" binding:"required"`
		FileName        string `json:"file_name"`
		KnowledgeItemID string `json:"knowledge_item_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	merged, err := h.Service.ExtractAndMerge(context.Background(), req.FilePath, req.FileName, req.KnowledgeItemID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		case errors.Is(err, models.ErrOracleEmpty):
			c.JSON(http.StatusBadGateway, gin.H{"error": "extraction returned no usable content"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "extraction failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Knowledge points merged into the tree",
		"mergedCount": merged,
	})
}

func (h *KnowledgeHandler) ListPoints(c *gin.Context) {
	points := h.Service.ListPoints(c.Query("knowledge_item_id"))
	c.JSON(http.StatusOK, gin.H{"success": true, "knowledgePoints": points})
}

func (h *KnowledgeHandler) DeletePoints(c *gin.Context) {
	anchorID := c.Query("knowledge_item_id")
	if anchorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "knowledge_item_id is required"})
		return
	}

	deleted, err := h.Service.DeletePoints(anchorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete knowledge points"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      fmt.Sprintf("Deleted %d knowledge points", deleted),
		"deletedCount": deleted,
	})
}
