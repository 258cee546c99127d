package repository

import (
	"log"
	"sort"

	"doc2quiz-service/internal/models"
	"doc2quiz-service/internal/storage"

	"github.com/google/uuid"
)

type QuizRepository struct {
	Store *storage.Store
}

func NewQuizRepository(store *storage.Store) *QuizRepository {
	return &QuizRepository{Store: store}
}

// List returns the quizzes newest first.
func (r *QuizRepository) List() []models.Quiz {
	var quizzes []models.Quiz
	r.Store.Load(storage.Quizzes, &quizzes)
	sort.SliceStable(quizzes, func(i, j int) bool {
		return quizzes[i].CreatedTime > quizzes[j].CreatedTime
	})
	return quizzes
}

func (r *QuizRepository) Create(name, creator string) (models.Quiz, error) {
	mu := r.Store.Mutex(storage.Quizzes)
	mu.Lock()
	defer mu.Unlock()

	if creator == "" {
		creator = "system"
	}
	quiz := models.Quiz{
		ID:          uuid.NewString(),
		Name:        name,
		Creator:     creator,
		CreatedTime: models.Timestamp(),
	}

	quizzes := append(r.List(), quiz)
	if err := r.Store.Save(storage.Quizzes, quizzes); err != nil {
		return models.Quiz{}, err
	}
	log.Printf("Quiz created: %s (%s)", quiz.Name, quiz.ID)
	return quiz, nil
}

func (r *QuizRepository) LoadQuizQuestions() []models.QuizQuestion {
	var items []models.QuizQuestion
	r.Store.Load(storage.QuizQuestions, &items)
	return items
}

// AppendQuizQuestions adds a composed batch to the store. The store is
// cumulative: earlier unassigned batches stay and accumulate until a quiz
// claims them.
func (r *QuizRepository) AppendQuizQuestions(items []models.QuizQuestion) (int, error) {
	mu := r.Store.Mutex(storage.QuizQuestions)
	mu.Lock()
	defer mu.Unlock()

	existing := r.LoadQuizQuestions()
	existing = append(existing, items...)
	if err := r.Store.Save(storage.QuizQuestions, existing); err != nil {
		return 0, err
	}
	log.Printf("Quiz questions saved, %d records total", len(existing))
	return len(existing), nil
}

// AssignUnassigned stamps the quiz identity onto every quiz question whose
// quizId is still the empty sentinel. This claims all currently unassigned
// records at once, whichever compose call produced them, so callers create
// the quiz right after composing.
func (r *QuizRepository) AssignUnassigned(quizID, quizName string) (int, error) {
	mu := r.Store.Mutex(storage.QuizQuestions)
	mu.Lock()
	defer mu.Unlock()

	items := r.LoadQuizQuestions()
	updated := 0
	for i := range items {
		if items[i].Unassigned() {
			items[i].QuizID = quizID
			items[i].QuizName = quizName
			updated++
		}
	}
	if updated == 0 {
		return 0, nil
	}

	if err := r.Store.Save(storage.QuizQuestions, items); err != nil {
		return 0, err
	}
	log.Printf("Assigned %d quiz questions to quiz %s (%s)", updated, quizName, quizID)
	return updated, nil
}

// QuestionsByQuiz pages through one quiz's questions ordered by question
// id. Page numbers are 1-based.
func (r *QuizRepository) QuestionsByQuiz(quizID string, page, pageSize int) models.QuizQuestionPage {
	items := r.LoadQuizQuestions()

	filtered := make([]models.QuizQuestion, 0, len(items))
	for _, item := range items {
		if item.QuizID == quizID {
			filtered = append(filtered, item)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].QuestionID < filtered[j].QuestionID
	})

	total := len(filtered)
	start := (page - 1) * pageSize
	if start < 0 {
		start = 0
	}
	var data []models.QuizQuestion
	if start >= total {
		data = []models.QuizQuestion{}
	} else {
		end := start + pageSize
		if end > total {
			end = total
		}
		data = filtered[start:end]
	}

	return models.QuizQuestionPage{Data: data, Total: total, Page: page, PageSize: pageSize}
}
