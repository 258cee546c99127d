package handlers

import (
	"fmt"
	"math/rand"
	"net/http"
	"testing"

	"doc2quiz-service/internal/models"
	"doc2quiz-service/internal/repository"
	"doc2quiz-service/internal/selection"
	"doc2quiz-service/internal/service"
	"doc2quiz-service/internal/storage"

	"github.com/gin-gonic/gin"
)

func newQuizRouter(t *testing.T) (*gin.Engine, *storage.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := storage.NewStore(t.TempDir())
	svc := service.NewQuizService(
		repository.NewQuizRepository(store),
		repository.NewQuestionRepository(store),
		selection.NewComposerWithSource(rand.NewSource(11)),
	)
	h := NewQuizHandler(svc)

	r := gin.New()
	bank := r.Group("/api/bank")
	bank.POST("/quiz/compose", h.Compose)
	bank.GET("/quiz-bank/list", h.ListQuizzes)
	bank.GET("/quiz/:quiz_id/questions", h.QuizQuestions)
	bank.POST("/quiz/create", h.CreateQuiz)
	bank.POST("/quiz/update-quiz-info", h.UpdateQuizInfo)
	return r, store
}

func seedQuizQuestions(t *testing.T, store *storage.Store, quizID string, n int) {
	t.Helper()
	var items []models.QuizQuestion
	store.Load(storage.QuizQuestions, &items)
	for i := 0; i < n; i++ {
		items = append(items, models.QuizQuestion{
			QuizID:     quizID,
			QuestionID: fmt.Sprintf("q-%02d", i),
			Content:    models.QuestionContent{Type: models.TypeSingleChoice, QuestionText: "Q"},
		})
	}
	if err := store.Save(storage.QuizQuestions, items); err != nil {
		t.Fatalf("seed quiz questions: %v", err)
	}
}

func TestQuizQuestionsClampsPagination(t *testing.T) {
	r, store := newQuizRouter(t)
	seedQuizQuestions(t, store, "qz-1", 3)

	testCases := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"defaults", "", 1, 10},
		{"oversized page_size", "?page_size=50000", 1, 10000},
		{"zero page_size", "?page_size=0", 1, 1},
		{"negative page", "?page=-3", 1, 10},
		{"not a number", "?page=two&page_size=ten", 1, 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, payload := doJSON(t, r, http.MethodGet, "/api/bank/quiz/qz-1/questions"+tc.query, "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			if got := numField(t, payload, "page"); got != tc.wantPage {
				t.Errorf("page = %d, want %d", got, tc.wantPage)
			}
			if got := numField(t, payload, "pageSize"); got != tc.wantSize {
				t.Errorf("pageSize = %d, want %d", got, tc.wantSize)
			}
			if got := numField(t, payload, "total"); got != 3 {
				t.Errorf("total = %d, want 3", got)
			}
		})
	}
}

func TestComposeWithEmptyStore(t *testing.T) {
	r, _ := newQuizRouter(t)

	body := `{"bank_id":"b1","knowledge_ids":["k1"],"target_counts":{"single_choice":2},"quiz_name":"Midterm"}`
	w, payload := doJSON(t, r, http.MethodPost, "/api/bank/quiz/compose", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400\n%s", w.Code, w.Body.String())
	}
	if msg, _ := payload["error"].(string); msg != "no questions available" {
		t.Errorf("error = %q, want the empty-store message", msg)
	}
}

func TestCreateQuizClaimsComposedBatch(t *testing.T) {
	r, store := newQuizRouter(t)
	seedQuizQuestions(t, store, "", 4)

	w, payload := doJSON(t, r, http.MethodPost, "/api/bank/quiz/create", `{"quiz_name":"Final"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", w.Code, w.Body.String())
	}
	if got := numField(t, payload, "questionCount"); got != 4 {
		t.Fatalf("questionCount = %d, want 4", got)
	}
	quiz, ok := payload["quiz"].(map[string]any)
	if !ok {
		t.Fatalf("quiz missing from response: %v", payload)
	}
	if name, _ := quiz["name"].(string); name != "Final" {
		t.Errorf("quiz name = %q, want Final", name)
	}

	var items []models.QuizQuestion
	store.Load(storage.QuizQuestions, &items)
	for _, item := range items {
		if item.Unassigned() {
			t.Errorf("question %s still unassigned after quiz creation", item.QuestionID)
		}
		if item.QuizName != "Final" {
			t.Errorf("question %s quizName = %q, want Final", item.QuestionID, item.QuizName)
		}
	}
}

func TestUpdateQuizInfoRequiresFields(t *testing.T) {
	r, _ := newQuizRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/bank/quiz/update-quiz-info", `{"quiz_id":"qz-1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when quiz_name is missing", w.Code)
	}
}
