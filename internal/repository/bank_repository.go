package repository

import (
	"fmt"
	"log"
	"sort"
	"time"

	"doc2quiz-service/internal/models"
	"doc2quiz-service/internal/storage"
)

type BankRepository struct {
	Store *storage.Store
}

func NewBankRepository(store *storage.Store) *BankRepository {
	return &BankRepository{Store: store}
}

func (r *BankRepository) LoadAll() []models.QuestionBank {
	var banks []models.QuestionBank
	r.Store.Load(storage.Banks, &banks)
	return banks
}

// Create appends a new bank. The name must not collide with any stored
// bank (exact, case-sensitive match); on conflict nothing is written.
func (r *BankRepository) Create(name, creator string) (models.QuestionBank, error) {
	mu := r.Store.Mutex(storage.Banks)
	mu.Lock()
	defer mu.Unlock()

	banks := r.LoadAll()
	for _, b := range banks {
		if b.Name == name {
			return models.QuestionBank{}, models.ErrBankNameExists
		}
	}

	if creator == "" {
		creator = "system"
	}
	bank := models.QuestionBank{
		ID:          fmt.Sprintf("bank_%d", time.Now().UnixMilli()),
		Name:        name,
		Creator:     creator,
		CreatedTime: models.Timestamp(),
	}
	banks = append(banks, bank)

	if err := r.Store.Save(storage.Banks, banks); err != nil {
		return models.QuestionBank{}, err
	}
	log.Printf("Question bank created: %s (%s)", bank.Name, bank.ID)
	return bank, nil
}

// List returns the banks newest first.
func (r *BankRepository) List() []models.QuestionBank {
	banks := r.LoadAll()
	sort.SliceStable(banks, func(i, j int) bool {
		return banks[i].CreatedTime > banks[j].CreatedTime
	})
	return banks
}
