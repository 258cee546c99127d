package repository

import (
	"log"
	"sort"

	"doc2quiz-service/internal/models"
	"doc2quiz-service/internal/storage"

	"github.com/google/uuid"
)

// SavedBatch reports one save-batch call: every question in it shares
// CreatedTime, the cohort key used later to move the batch into a bank.
type SavedBatch struct {
	FirstQuestionID string   `json:"questionId"`
	CreatedTime     string   `json:"createdTime"`
	QuestionIDs     []string `json:"questionIds"`
}

type QuestionRepository struct {
	Store *storage.Store
}

func NewQuestionRepository(store *storage.Store) *QuestionRepository {
	return &QuestionRepository{Store: store}
}

func (r *QuestionRepository) LoadAll() []models.Question {
	var questions []models.Question
	r.Store.Load(storage.Questions, &questions)
	return questions
}

// SaveBatch appends the generated questions to the store. All of them get
// the same fresh CreatedTime and each its own id; bankID may be empty.
func (r *QuestionRepository) SaveBatch(items []models.GeneratedQuestion, bankID string) (SavedBatch, error) {
	mu := r.Store.Mutex(storage.Questions)
	mu.Lock()
	defer mu.Unlock()

	questions := r.LoadAll()
	batch := SavedBatch{CreatedTime: models.Timestamp()}

	for _, item := range items {
		content := item.QuestionContent.Clone()
		if content.Type == "" {
			content.Type = models.TypeSingleChoice
		}
		if content.Options == nil {
			content.Options = []string{}
		}
		question := models.Question{
			QuestionID:  uuid.NewString(),
			CreatedTime: batch.CreatedTime,
			KnowledgeID: item.KnowledgeID,
			BankID:      bankID,
			Content:     content,
		}
		questions = append(questions, question)
		batch.QuestionIDs = append(batch.QuestionIDs, question.QuestionID)
	}
	if len(batch.QuestionIDs) > 0 {
		batch.FirstQuestionID = batch.QuestionIDs[0]
	}

	if err := r.Store.Save(storage.Questions, questions); err != nil {
		return SavedBatch{}, err
	}
	log.Printf("Saved %d questions in batch %s", len(items), batch.CreatedTime)
	return batch, nil
}

// AssignBank finds the question, then stamps bankID onto every question
// sharing its CreatedTime that has no bank yet. One save call produces a
// cohort that moves into a bank together even though only one id arrives.
func (r *QuestionRepository) AssignBank(questionID, bankID string) (int, error) {
	mu := r.Store.Mutex(storage.Questions)
	mu.Lock()
	defer mu.Unlock()

	questions := r.LoadAll()

	var cohortTime string
	found := false
	for _, q := range questions {
		if q.QuestionID == questionID {
			cohortTime = q.CreatedTime
			found = true
			break
		}
	}
	if !found {
		return 0, models.ErrQuestionNotFound
	}

	updated := 0
	for i := range questions {
		if questions[i].CreatedTime == cohortTime && questions[i].BankID == "" {
			questions[i].BankID = bankID
			updated++
		}
	}

	if err := r.Store.Save(storage.Questions, questions); err != nil {
		return 0, err
	}
	log.Printf("Question batch %s assigned to bank %s, %d questions updated", cohortTime, bankID, updated)
	return updated, nil
}

// List pages through the stored questions, newest batch first, optionally
// restricted to one bank. Page numbers are 1-based.
func (r *QuestionRepository) List(page, pageSize int, bankID string) models.QuestionPage {
	questions := r.LoadAll()

	filtered := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		if bankID != "" && q.BankID != bankID {
			continue
		}
		filtered = append(filtered, q)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedTime > filtered[j].CreatedTime
	})

	return models.QuestionPage{
		Data:     paginateQuestions(filtered, page, pageSize),
		Total:    len(filtered),
		Page:     page,
		PageSize: pageSize,
	}
}

// Newest returns the most recently created question, optionally within
// one bank, or nil when none match.
func (r *QuestionRepository) Newest(bankID string) *models.Question {
	var newest *models.Question
	for _, q := range r.LoadAll() {
		if bankID != "" && q.BankID != bankID {
			continue
		}
		if newest == nil || q.CreatedTime > newest.CreatedTime {
			q := q
			newest = &q
		}
	}
	return newest
}

func (r *QuestionRepository) Delete(questionID string) error {
	mu := r.Store.Mutex(storage.Questions)
	mu.Lock()
	defer mu.Unlock()

	questions := r.LoadAll()
	remaining := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		if q.QuestionID != questionID {
			remaining = append(remaining, q)
		}
	}
	if len(remaining) == len(questions) {
		return models.ErrQuestionNotFound
	}

	if err := r.Store.Save(storage.Questions, remaining); err != nil {
		return err
	}
	log.Printf("Question deleted: %s", questionID)
	return nil
}

// TypeStatistics counts the questions attached to the given knowledge
// points per recognized type. Unrecognized types raise the total only.
func (r *QuestionRepository) TypeStatistics(knowledgeIDs []string) models.TypeStatistics {
	stats := models.TypeStatistics{PerType: make(map[string]int, len(models.QuestionTypes))}
	for _, t := range models.QuestionTypes {
		stats.PerType[t] = 0
	}
	if len(knowledgeIDs) == 0 {
		return stats
	}

	wanted := make(map[string]struct{}, len(knowledgeIDs))
	for _, id := range knowledgeIDs {
		wanted[id] = struct{}{}
	}

	for _, q := range r.LoadAll() {
		if _, ok := wanted[q.KnowledgeID]; !ok {
			continue
		}
		stats.Total++
		if _, known := stats.PerType[q.Content.NormalizedType()]; known {
			stats.PerType[q.Content.NormalizedType()]++
		}
	}
	return stats
}

func paginateQuestions(questions []models.Question, page, pageSize int) []models.Question {
	start := (page - 1) * pageSize
	if start < 0 {
		start = 0
	}
	if start >= len(questions) {
		return []models.Question{}
	}
	end := start + pageSize
	if end > len(questions) {
		end = len(questions)
	}
	return questions[start:end]
}
