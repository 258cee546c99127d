package storage

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Collection identifies one flat JSON collection: the backing file under
// the data directory and the top-level key its record list is wrapped in.
type Collection struct {
	File    string
	WrapKey string
}

// The five persisted collections. The "quizs" wrap key is part of the
// on-disk format and must not be corrected.
var (
	KnowledgeTree = Collection{File: "knowledge_tree.json", WrapKey: "items"}
	Questions     = Collection{File: "question.json", WrapKey: "questions"}
	Banks         = Collection{File: "question_bank.json", WrapKey: "banks"}
	QuizQuestions = Collection{File: "quiz_question.json", WrapKey: "quiz_questions"}
	Quizzes       = Collection{File: "quiz_bank.json", WrapKey: "quizs"}
)

// Store reads and writes flat JSON collections under a single data
// directory. Writes are plain overwrites; there is no cross-process
// locking. Within the process each collection has its own mutex so that a
// repository can hold it across a whole load-modify-save.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore returns a store rooted at dir. The directory is created lazily
// on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}
}

// Dir returns the data directory the store writes under.
func (s *Store) Dir() string {
	return s.dir
}

// Mutex returns the mutex guarding one collection. Callers hold it across
// load-modify-save sequences; single reads may skip it.
func (s *Store) Mutex(c Collection) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[c.File]
	if !ok {
		l = &sync.Mutex{}
		s.locks[c.File] = l
	}
	return l
}

func (s *Store) path(c Collection) string {
	return filepath.Join(s.dir, c.File)
}

// Load decodes a collection into out, which must be a pointer to a slice.
// A missing file, unreadable JSON, or an unexpected root shape all leave
// out empty: a fresh install reads as "no records", never as an error.
// An object root is unwrapped at the collection's wrap key; an array root
// is taken as the record list itself.
func (s *Store) Load(c Collection, out any) {
	path := s.path(c)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Collection file does not exist yet: %s", path)
		} else {
			log.Printf("Failed to read collection %s: %v", path, err)
		}
		return
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		log.Printf("Collection file is empty: %s", path)
		return
	}

	switch data[0] {
	case '{':
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapped); err != nil {
			log.Printf("Failed to parse collection %s: %v", path, err)
			return
		}
		records, ok := wrapped[c.WrapKey]
		if !ok {
			return
		}
		if err := json.Unmarshal(records, out); err != nil {
			log.Printf("Failed to decode records in %s under %q: %v", path, c.WrapKey, err)
		}
	case '[':
		if err := json.Unmarshal(data, out); err != nil {
			log.Printf("Failed to decode records in %s: %v", path, err)
		}
	default:
		log.Printf("Unexpected root in collection %s, ignoring contents", path)
	}
}

// Save wraps records under the collection's wrap key and overwrites the
// backing file, creating the data directory if needed. Not atomic.
func (s *Store) Save(c Collection, records any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(map[string]any{c.WrapKey: records}, "", "  ")
	if err != nil {
		return err
	}

	path := s.path(c)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Printf("Data saved to %s", path)
	return nil
}
