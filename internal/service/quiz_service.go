package service

import (
	"doc2quiz-service/internal/models"
	"doc2quiz-service/internal/repository"
	"doc2quiz-service/internal/selection"
)

// QuizService composes quizzes from the question store and manages the
// quiz catalog.
type QuizService struct {
	Quizzes   *repository.QuizRepository
	Questions *repository.QuestionRepository
	Composer  *selection.Composer
}

func NewQuizService(quizzes *repository.QuizRepository, questions *repository.QuestionRepository, composer *selection.Composer) *QuizService {
	return &QuizService{Quizzes: quizzes, Questions: questions, Composer: composer}
}

// Compose draws questions per the target counts and appends the batch to
// the quiz-question store with an empty quiz identity, waiting for a quiz
// to claim it. Returns the number of questions composed.
func (s *QuizService) Compose(knowledgeIDs []string, targetCounts map[string]int) (int, error) {
	questions := s.Questions.LoadAll()
	if len(questions) == 0 {
		return 0, models.ErrNoQuestions
	}
	if len(knowledgeIDs) == 0 {
		return 0, models.ErrNoKnowledgeSelected
	}

	items := s.Composer.Compose(questions, knowledgeIDs, targetCounts)
	if _, err := s.Quizzes.AppendQuizQuestions(items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// CreateQuiz registers a new quiz and stamps its identity onto every
// currently unassigned composed question. Returns the quiz and the number
// of questions claimed.
func (s *QuizService) CreateQuiz(name, creator string) (models.Quiz, int, error) {
	quiz, err := s.Quizzes.Create(name, creator)
	if err != nil {
		return models.Quiz{}, 0, err
	}
	claimed, err := s.Quizzes.AssignUnassigned(quiz.ID, quiz.Name)
	if err != nil {
		return quiz, 0, err
	}
	return quiz, claimed, nil
}

// AssignQuizInfo stamps an existing quiz's identity onto the unassigned
// composed questions.
func (s *QuizService) AssignQuizInfo(quizID, quizName string) (int, error) {
	return s.Quizzes.AssignUnassigned(quizID, quizName)
}

func (s *QuizService) ListQuizzes() []models.Quiz {
	return s.Quizzes.List()
}

func (s *QuizService) QuizQuestions(quizID string, page, pageSize int) models.QuizQuestionPage {
	return s.Quizzes.QuestionsByQuiz(quizID, page, pageSize)
}
