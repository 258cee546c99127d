package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"doc2quiz-service/internal/models"
	"doc2quiz-service/internal/repository"
)

// QuestionService turns selected tree items into generated questions and
// serves the generation history.
type QuestionService struct {
	Questions *repository.QuestionRepository
	Knowledge *repository.KnowledgeRepository
	Oracle    Oracle
	FileDir   string
}

func NewQuestionService(questions *repository.QuestionRepository, knowledge *repository.KnowledgeRepository, oracle Oracle, fileDir string) *QuestionService {
	return &QuestionService{Questions: questions, Knowledge: knowledge, Oracle: oracle, FileDir: fileDir}
}

// Generate authors questions for the selected tree items. Items sharing
// an identical type/count configuration are generated together in one
// oracle call; a group whose documents cannot be found on disk is skipped
// with a warning.
func (s *QuestionService) Generate(ctx context.Context, selected []models.SelectedItem) ([]models.GeneratedQuestion, error) {
	configured := make([]models.SelectedItem, 0, len(selected))
	for _, item := range selected {
		for _, questionType := range item.QuestionTypes {
			if questionType.HasQuantity() {
				configured = append(configured, item)
				break
			}
		}
	}
	if len(configured) == 0 {
		return nil, models.ErrNoQuestionConfig
	}

	groups := make(map[string][]models.SelectedItem)
	groupKeys := make([]string, 0)
	for _, item := range configured {
		key := configKey(item.QuestionTypes)
		if _, ok := groups[key]; !ok {
			groupKeys = append(groupKeys, key)
		}
		groups[key] = append(groups[key], item)
	}

	tree := s.Knowledge.Load()

	var generated []models.GeneratedQuestion
	for _, key := range groupKeys {
		items := groups[key]
		files, points := s.collectSources(items, tree)
		if len(files) == 0 {
			log.Printf("No documents found for a generation group of %d items, skipping", len(items))
			continue
		}

		batch, err := s.Oracle.GenerateQuestions(ctx, files, points, items[0].QuestionTypes)
		if err != nil {
			return nil, err
		}
		generated = append(generated, batch...)
	}

	if len(generated) == 0 {
		return nil, fmt.Errorf("%w: no group produced questions", models.ErrOracleEmpty)
	}
	return generated, nil
}

// History returns every stored question, newest batch first.
func (s *QuestionService) History() []models.Question {
	questions := s.Questions.LoadAll()
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].CreatedTime > questions[j].CreatedTime
	})
	return questions
}

// configKey canonicalizes a type/count configuration so that items with
// the same requirements end up in one oracle call regardless of entry
// order.
func configKey(types []models.QuestionTypeCount) string {
	sorted := make([]models.QuestionTypeCount, len(types))
	copy(sorted, types)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Type != sorted[j].Type {
			return sorted[i].Type < sorted[j].Type
		}
		if sorted[i].Low != sorted[j].Low {
			return sorted[i].Low < sorted[j].Low
		}
		if sorted[i].Medium != sorted[j].Medium {
			return sorted[i].Medium < sorted[j].Medium
		}
		return sorted[i].High < sorted[j].High
	})
	key, _ := json.Marshal(sorted)
	return string(key)
}

// collectSources gathers the documents and labelled points for one
// generation group. Knowledge items contribute their own text (falling
// back to the tree node's name) and source document; document items
// contribute their name as an unlabelled point plus every document
// referenced by their direct knowledge children.
func (s *QuestionService) collectSources(items []models.SelectedItem, tree []models.KnowledgeNode) ([]string, []models.KnowledgePoint) {
	files := make([]string, 0)
	seen := make(map[string]struct{})
	points := make([]models.KnowledgePoint, 0)

	addFile := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		path := filepath.Join(s.FileDir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return
		}
		seen[name] = struct{}{}
		files = append(files, path)
	}

	for _, item := range items {
		if item.Kind == models.NodeKindKnowledge {
			text := item.Text
			if text == "" {
				if node := repository.FindNode(tree, item.ID); node != nil {
					text = node.Name
				}
			}
			if text != "" {
				points = append(points, models.KnowledgePoint{
					ID:             item.ID,
					Text:           text,
					SourceDocument: item.SourceDocument,
					AnchorID:       item.AnchorID,
				})
			}
			addFile(item.SourceDocument)
			continue
		}

		if item.Kind == models.NodeKindDocument && item.Name != "" {
			points = append(points, models.KnowledgePoint{ID: item.ID, Text: item.Name})
		}
		if item.ID == "" {
			continue
		}
		for _, node := range tree {
			if node.Kind == models.NodeKindKnowledge && node.ParentID == item.ID {
				addFile(node.SourceDocument)
			}
		}
	}
	return files, points
}
