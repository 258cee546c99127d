package repository

import (
	"errors"
	"testing"

	"doc2quiz-service/internal/models"
	"doc2quiz-service/internal/storage"
)

func newQuestionRepo(t *testing.T) *QuestionRepository {
	t.Helper()
	return NewQuestionRepository(storage.NewStore(t.TempDir()))
}

func generated(typ, text, knowledgeID string) models.GeneratedQuestion {
	return models.GeneratedQuestion{
		QuestionContent: models.QuestionContent{
			Type:         typ,
			QuestionText: text,
			Options:      []string{"A", "B"},
			Answer:       "A",
			Difficulty:   "low",
			Score:        "1",
		},
		KnowledgeID: knowledgeID,
	}
}

func TestSaveBatchSharesCreatedTime(t *testing.T) {
	repo := newQuestionRepo(t)

	batch, err := repo.SaveBatch([]models.GeneratedQuestion{
		generated(models.TypeSingleChoice, "q1", "k1"),
		generated(models.TypeEssay, "q2", "k2"),
	}, "")
	if err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	if len(batch.QuestionIDs) != 2 {
		t.Fatalf("Expected 2 ids, got %d", len(batch.QuestionIDs))
	}
	if batch.FirstQuestionID != batch.QuestionIDs[0] {
		t.Errorf("Expected first id %s, got %s", batch.QuestionIDs[0], batch.FirstQuestionID)
	}

	stored := repo.LoadAll()
	if len(stored) != 2 {
		t.Fatalf("Expected 2 stored questions, got %d", len(stored))
	}
	if stored[0].CreatedTime != stored[1].CreatedTime {
		t.Error("Expected one shared createdTime across the batch")
	}
	if stored[0].QuestionID == stored[1].QuestionID {
		t.Error("Expected distinct question ids")
	}
}

func TestSaveBatchAppends(t *testing.T) {
	repo := newQuestionRepo(t)

	if _, err := repo.SaveBatch([]models.GeneratedQuestion{generated(models.TypeEssay, "first", "k1")}, ""); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}
	if _, err := repo.SaveBatch([]models.GeneratedQuestion{generated(models.TypeEssay, "second", "k1")}, ""); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	if got := len(repo.LoadAll()); got != 2 {
		t.Errorf("Expected the second batch to append, got %d records", got)
	}
}

func TestAssignBankPropagatesToCohort(t *testing.T) {
	repo := newQuestionRepo(t)

	first, err := repo.SaveBatch([]models.GeneratedQuestion{
		generated(models.TypeSingleChoice, "q1", "k1"),
		generated(models.TypeSingleChoice, "q2", "k2"),
	}, "")
	if err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}
	second, err := repo.SaveBatch([]models.GeneratedQuestion{
		generated(models.TypeSingleChoice, "q3", "k3"),
	}, "")
	if err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	updated, err := repo.AssignBank(first.QuestionIDs[1], "bank_1")
	if err != nil {
		t.Fatalf("AssignBank failed: %v", err)
	}
	if updated != 2 {
		t.Errorf("Expected 2 questions updated, got %d", updated)
	}

	for _, q := range repo.LoadAll() {
		switch q.CreatedTime {
		case first.CreatedTime:
			if q.BankID != "bank_1" {
				t.Errorf("Expected cohort question %s in bank_1, got %q", q.QuestionID, q.BankID)
			}
		case second.CreatedTime:
			if q.BankID != "" {
				t.Errorf("Expected other batch untouched, got bank %q", q.BankID)
			}
		}
	}
}

func TestAssignBankSkipsAlreadyBanked(t *testing.T) {
	repo := newQuestionRepo(t)

	batch, err := repo.SaveBatch([]models.GeneratedQuestion{generated(models.TypeEssay, "q", "k")}, "bank_0")
	if err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	updated, err := repo.AssignBank(batch.FirstQuestionID, "bank_1")
	if err != nil {
		t.Fatalf("AssignBank failed: %v", err)
	}
	if updated != 0 {
		t.Errorf("Expected no updates for an already banked cohort, got %d", updated)
	}
	if got := repo.LoadAll()[0].BankID; got != "bank_0" {
		t.Errorf("Expected bank_0 preserved, got %q", got)
	}
}

func TestAssignBankNotFound(t *testing.T) {
	repo := newQuestionRepo(t)

	_, err := repo.AssignBank("missing", "bank_1")
	if !errors.Is(err, models.ErrQuestionNotFound) {
		t.Errorf("Expected ErrQuestionNotFound, got %v", err)
	}
}

func TestListSortsAndPaginates(t *testing.T) {
	repo := newQuestionRepo(t)

	// Three separate batches, saved in order, so createdTime ascends.
	for _, text := range []string{"oldest", "middle", "newest"} {
		if _, err := repo.SaveBatch([]models.GeneratedQuestion{generated(models.TypeEssay, text, "k1")}, ""); err != nil {
			t.Fatalf("SaveBatch failed: %v", err)
		}
	}

	page := repo.List(1, 2, "")
	if page.Total != 3 {
		t.Errorf("Expected total 3, got %d", page.Total)
	}
	if len(page.Data) != 2 {
		t.Fatalf("Expected 2 records on page 1, got %d", len(page.Data))
	}
	if page.Data[0].Content.QuestionText != "newest" {
		t.Errorf("Expected newest first, got %q", page.Data[0].Content.QuestionText)
	}

	last := repo.List(2, 2, "")
	if len(last.Data) != 1 || last.Data[0].Content.QuestionText != "oldest" {
		t.Errorf("Expected the oldest question alone on page 2, got %+v", last.Data)
	}

	beyond := repo.List(5, 2, "")
	if len(beyond.Data) != 0 {
		t.Errorf("Expected empty page beyond the end, got %d records", len(beyond.Data))
	}
}

func TestListFiltersByBank(t *testing.T) {
	repo := newQuestionRepo(t)

	if _, err := repo.SaveBatch([]models.GeneratedQuestion{generated(models.TypeEssay, "in bank", "k1")}, "bank_1"); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}
	if _, err := repo.SaveBatch([]models.GeneratedQuestion{generated(models.TypeEssay, "loose", "k1")}, ""); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	page := repo.List(1, 10, "bank_1")
	if page.Total != 1 {
		t.Fatalf("Expected 1 bank question, got %d", page.Total)
	}
	if page.Data[0].Content.QuestionText != "in bank" {
		t.Errorf("Expected the banked question, got %q", page.Data[0].Content.QuestionText)
	}
}

func TestDeleteQuestion(t *testing.T) {
	repo := newQuestionRepo(t)

	batch, err := repo.SaveBatch([]models.GeneratedQuestion{
		generated(models.TypeEssay, "keep", "k1"),
		generated(models.TypeEssay, "drop", "k1"),
	}, "")
	if err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	if err := repo.Delete(batch.QuestionIDs[1]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := len(repo.LoadAll()); got != 1 {
		t.Errorf("Expected 1 question left, got %d", got)
	}

	if err := repo.Delete("missing"); !errors.Is(err, models.ErrQuestionNotFound) {
		t.Errorf("Expected ErrQuestionNotFound, got %v", err)
	}
}

func TestTypeStatistics(t *testing.T) {
	repo := newQuestionRepo(t)

	batchItems := []models.GeneratedQuestion{
		generated(models.TypeSingleChoice, "q1", "k1"),
		generated("Single_Choice", "q2", "k1"),
		generated(models.TypeEssay, "q3", "k2"),
		generated("weird_type", "q4", "k1"),
		generated(models.TypeEssay, "q5", "other"),
	}
	if _, err := repo.SaveBatch(batchItems, ""); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	stats := repo.TypeStatistics([]string{"k1", "k2"})
	if stats.Total != 4 {
		t.Errorf("Expected total 4, got %d", stats.Total)
	}
	if stats.PerType[models.TypeSingleChoice] != 2 {
		t.Errorf("Expected 2 single_choice (case-folded), got %d", stats.PerType[models.TypeSingleChoice])
	}
	if stats.PerType[models.TypeEssay] != 1 {
		t.Errorf("Expected 1 essay, got %d", stats.PerType[models.TypeEssay])
	}
	if stats.PerType[models.TypeTrueFalse] != 0 {
		t.Errorf("Expected 0 true_false, got %d", stats.PerType[models.TypeTrueFalse])
	}

	empty := repo.TypeStatistics(nil)
	if empty.Total != 0 {
		t.Errorf("Expected zero stats for no knowledge ids, got total %d", empty.Total)
	}
	if len(empty.PerType) != len(models.QuestionTypes) {
		t.Errorf("Expected all buckets present, got %v", empty.PerType)
	}
}
