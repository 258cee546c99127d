package selection

import (
	"log"
	"math/rand"
	"sort"
	"time"

	"doc2quiz-service/internal/models"
)

// Composer draws questions from the stored pool to fill a quiz. Draws are
// uniform without replacement; the two-round scheme first gives every
// selected knowledge point an equal floor share, then backfills the rest
// from whatever candidates remain.
type Composer struct {
	rand *rand.Rand
}

// NewComposer creates a composer seeded from the clock.
func NewComposer() *Composer {
	return &Composer{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewComposerWithSource creates a composer with a caller-supplied source,
// used by tests that need reproducible draws.
func NewComposerWithSource(src rand.Source) *Composer {
	return &Composer{rand: rand.New(src)}
}

// Compose samples questions per requested type and snapshots each draw
// into an unassigned quiz question. The knowledge id set may span several
// banks; the stored pool is never filtered by bank. Types with no matching
// candidates are skipped, so the result can fall short of the targets when
// supply does.
func (c *Composer) Compose(questions []models.Question, knowledgeIDs []string, targetCounts map[string]int) []models.QuizQuestion {
	wanted := make(map[string]struct{}, len(knowledgeIDs))
	for _, id := range knowledgeIDs {
		wanted[id] = struct{}{}
	}

	// Map iteration order is randomized; a sorted pass keeps the composed
	// batch order stable. The per-type draws are independent either way.
	types := make([]string, 0, len(targetCounts))
	for questionType := range targetCounts {
		types = append(types, questionType)
	}
	sort.Strings(types)

	composed := make([]models.QuizQuestion, 0)
	for _, questionType := range types {
		targetCount := targetCounts[questionType]
		if targetCount <= 0 {
			continue
		}

		candidates := filterCandidates(questions, questionType, wanted)
		if len(candidates) == 0 {
			log.Printf("No %s questions match the selected knowledge points", questionType)
			continue
		}

		drawn := c.drawForType(candidates, knowledgeIDs, targetCount)
		for _, q := range drawn {
			composed = append(composed, models.QuizQuestion{
				QuizID:     "",
				QuizName:   "",
				QuestionID: q.QuestionID,
				Content:    q.Content.Clone(),
			})
		}
	}
	return composed
}

// drawForType runs the two rounds for one question type. Round one draws
// up to the per-knowledge floor from each knowledge point so none is
// starved while it has supply; round two tops the total up to the target
// from the undrawn remainder, letting over-supplied points cover for
// under-supplied ones.
func (c *Composer) drawForType(candidates []models.Question, knowledgeIDs []string, targetCount int) []models.Question {
	perKnowledgeFloor := targetCount / len(knowledgeIDs)

	drawn := make([]models.Question, 0, targetCount)
	used := make(map[string]struct{})

	for _, knowledgeID := range knowledgeIDs {
		pool := make([]models.Question, 0)
		for _, q := range candidates {
			if q.KnowledgeID != knowledgeID {
				continue
			}
			if _, taken := used[q.QuestionID]; taken {
				continue
			}
			pool = append(pool, q)
		}
		for _, q := range c.sample(pool, perKnowledgeFloor) {
			drawn = append(drawn, q)
			used[q.QuestionID] = struct{}{}
		}
	}

	if remaining := targetCount - len(drawn); remaining > 0 {
		pool := make([]models.Question, 0)
		for _, q := range candidates {
			if _, taken := used[q.QuestionID]; !taken {
				pool = append(pool, q)
			}
		}
		for _, q := range c.sample(pool, remaining) {
			drawn = append(drawn, q)
			used[q.QuestionID] = struct{}{}
		}
	}
	return drawn
}

// sample draws up to n elements uniformly without replacement.
func (c *Composer) sample(pool []models.Question, n int) []models.Question {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	if n >= len(pool) {
		out := make([]models.Question, len(pool))
		copy(out, pool)
		return out
	}

	out := make([]models.Question, 0, n)
	for _, i := range c.rand.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}

func filterCandidates(questions []models.Question, questionType string, wanted map[string]struct{}) []models.Question {
	normalized := models.QuestionContent{Type: questionType}.NormalizedType()

	candidates := make([]models.Question, 0)
	for _, q := range questions {
		if q.Content.NormalizedType() != normalized {
			continue
		}
		if _, ok := wanted[q.KnowledgeID]; !ok {
			continue
		}
		candidates = append(candidates, q)
	}
	return candidates
}
