package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"doc2quiz-service/internal/llm"
	"doc2quiz-service/internal/merge"
	"doc2quiz-service/internal/models"
	"doc2quiz-service/internal/repository"
	"doc2quiz-service/internal/storage"
)

// KnowledgeService manages uploaded documents, the knowledge tree and
// outline extraction.
type KnowledgeService struct {
	Repo    *repository.KnowledgeRepository
	Oracle  Oracle
	FileDir string
}

func NewKnowledgeService(repo *repository.KnowledgeRepository, oracle Oracle, fileDir string) *KnowledgeService {
	return &KnowledgeService{Repo: repo, Oracle: oracle, FileDir: fileDir}
}

// SaveUpload stores one uploaded document under the upload directory.
// Duplicate names get a _1, _2, ... suffix; the reported filename is the
// stored one, so later extraction and generation requests resolve.
func (s *KnowledgeService) SaveUpload(src io.Reader, filename string) (storage.UploadedFile, error) {
	if err := storage.EnsureDir(s.FileDir); err != nil {
		return storage.UploadedFile{}, fmt.Errorf("create upload dir: %w", err)
	}

	path := storage.UniquePath(s.FileDir, filename)
	size, err := storage.SaveUpload(src, path)
	if err != nil {
		return storage.UploadedFile{}, fmt.Errorf("store upload: %w", err)
	}
	log.Printf("File uploaded to %s", path)

	return storage.UploadedFile{
		Filename: filepath.Base(path),
		FilePath: storage.RelPath(s.FileDir, path),
		FileSize: size,
	}, nil
}

// ListFiles returns every document in the upload directory.
func (s *KnowledgeService) ListFiles() ([]storage.UploadedFile, error) {
	return storage.ListDir(s.FileDir)
}

// SaveTree replaces the stored tree with the posted flat node list. Nodes
// arriving without createdAt are stamped now.
func (s *KnowledgeService) SaveTree(nodes []models.KnowledgeNode) (int, error) {
	now := models.Timestamp()
	for i := range nodes {
		if nodes[i].CreatedAt == "" {
			nodes[i].CreatedAt = now
		}
	}
	if err := s.Repo.Replace(nodes); err != nil {
		return 0, err
	}
	return len(nodes), nil
}

// LoadTree returns the full stored tree.
func (s *KnowledgeService) LoadTree() []models.KnowledgeNode {
	return s.Repo.Load()
}

// ResolvePath maps a stored file path ("file/report.pdf") back to its
// location on disk.
func (s *KnowledgeService) ResolvePath(filePath string) (string, error) {
	path := filepath.Join(filepath.Dir(s.FileDir), filePath)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", models.ErrDocumentNotFound, filePath)
	}
	return path, nil
}

// ExtractAndMerge runs outline extraction for one stored document and
// splices the result into the tree under the anchor node. Outcomes that
// leave the tree unchanged (no anchor, unparseable reply, malformed
// outline) report zero merged without failing the request.
func (s *KnowledgeService) ExtractAndMerge(ctx context.Context, filePath, fileName, anchorID string) (int, error) {
	path, err := s.ResolvePath(filePath)
	if err != nil {
		return 0, err
	}
	if anchorID == "" {
		log.Printf("No anchor node given for %s, extraction skipped", filePath)
		return 0, nil
	}
	if fileName == "" {
		fileName = filepath.Base(path)
	}

	// The oracle round-trip takes seconds; keep it outside the tree lock.
	outline, err := s.Oracle.ExtractOutline(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("extract outline: %w", err)
	}
	switch outline.Source {
	case llm.OutlineUnparseable:
		log.Printf("Outline for %s could not be parsed, nothing merged", fileName)
		return 0, nil
	case llm.OutlineFromItemsKey, llm.OutlineFromDirectoryKey:
		log.Printf("Outline for %s arrived wrapped in an object", fileName)
	case llm.OutlineFromArray:
	}
	if len(outline.Items) == 0 {
		log.Printf("Outline for %s is empty, nothing merged", fileName)
		return 0, nil
	}

	mu := s.Repo.Store.Mutex(storage.KnowledgeTree)
	mu.Lock()
	defer mu.Unlock()

	result, err := merge.Splice(s.Repo.Load(), outline.Items, anchorID, fileName)
	if err != nil {
		var dangling *merge.DanglingParentError
		if errors.As(err, &dangling) {
			log.Printf("Malformed outline for %s: %v", fileName, dangling)
			return 0, nil
		}
		return 0, err
	}
	if result.Merged == 0 {
		return 0, nil
	}
	if err := s.Repo.Save(result.Nodes); err != nil {
		return 0, err
	}
	return result.Merged, nil
}

// ListPoints returns the knowledge-point projection, optionally limited
// to one anchor's direct children.
func (s *KnowledgeService) ListPoints(anchorID string) []models.KnowledgePoint {
	return s.Repo.KnowledgePoints(anchorID)
}

// DeletePoints removes the anchor's whole subtree and reports the count.
func (s *KnowledgeService) DeletePoints(anchorID string) (int, error) {
	return s.Repo.DeleteSubtree(anchorID)
}
