package service

import (
	"log"

	"doc2quiz-service/internal/models"
	"doc2quiz-service/internal/repository"
)

// BankService manages question banks, the stored questions and the
// bank-facing views of the knowledge tree.
type BankService struct {
	Banks     *repository.BankRepository
	Questions *repository.QuestionRepository
	Knowledge *repository.KnowledgeRepository
}

func NewBankService(banks *repository.BankRepository, questions *repository.QuestionRepository, knowledge *repository.KnowledgeRepository) *BankService {
	return &BankService{Banks: banks, Questions: questions, Knowledge: knowledge}
}

func (s *BankService) CreateBank(name, creator string) (models.QuestionBank, error) {
	return s.Banks.Create(name, creator)
}

func (s *BankService) ListBanks() []models.QuestionBank {
	return s.Banks.List()
}

// SaveQuestions persists a generated batch, optionally straight into a
// bank.
func (s *BankService) SaveQuestions(items []models.GeneratedQuestion, bankID string) (repository.SavedBatch, error) {
	return s.Questions.SaveBatch(items, bankID)
}

// AssignBank moves the question's whole save batch into the bank.
func (s *BankService) AssignBank(questionID, bankID string) (int, error) {
	return s.Questions.AssignBank(questionID, bankID)
}

// QuestionInfo identifies the newest question of a listing; the front-end
// uses it to pre-select the latest batch.
type QuestionInfo struct {
	QuestionID  string `json:"questionId"`
	CreatedTime string `json:"createdTime"`
}

// ListQuestions pages through stored questions and reports the newest
// matching question alongside the page.
func (s *BankService) ListQuestions(page, pageSize int, bankID string) (models.QuestionPage, *QuestionInfo) {
	result := s.Questions.List(page, pageSize, bankID)
	newest := s.Questions.Newest(bankID)
	if newest == nil {
		return result, nil
	}
	return result, &QuestionInfo{QuestionID: newest.QuestionID, CreatedTime: newest.CreatedTime}
}

func (s *BankService) DeleteQuestion(questionID string) error {
	return s.Questions.Delete(questionID)
}

func (s *BankService) TypeStatistics(knowledgeIDs []string) models.TypeStatistics {
	return s.Questions.TypeStatistics(knowledgeIDs)
}

// FilteredTree projects the knowledge tree down to the nodes that have
// questions attached, optionally within one bank, plus all their
// ancestors. Stored order is preserved; no referenced nodes means an
// empty tree.
func (s *BankService) FilteredTree(bankID string) []models.KnowledgeNode {
	referenced := make(map[string]struct{})
	for _, q := range s.Questions.LoadAll() {
		if bankID != "" && q.BankID != bankID {
			continue
		}
		if q.KnowledgeID != "" {
			referenced[q.KnowledgeID] = struct{}{}
		}
	}
	if len(referenced) == 0 {
		return []models.KnowledgeNode{}
	}

	nodes := s.Knowledge.Load()
	byID := make(map[string]models.KnowledgeNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	// Walk each referenced node up to its root. The keep set doubles as
	// the visited set, so a parentId cycle terminates.
	keep := make(map[string]struct{})
	for id := range referenced {
		for id != "" {
			if _, done := keep[id]; done {
				break
			}
			node, ok := byID[id]
			if !ok {
				break
			}
			keep[id] = struct{}{}
			id = node.ParentID
		}
	}

	filtered := make([]models.KnowledgeNode, 0, len(keep))
	for _, n := range nodes {
		if _, ok := keep[n.ID]; ok {
			filtered = append(filtered, n)
		}
	}
	log.Printf("Filtered knowledge tree has %d of %d nodes", len(filtered), len(nodes))
	return filtered
}
