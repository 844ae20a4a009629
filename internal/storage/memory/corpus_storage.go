// Package memory provides an in-memory CorpusStorage implementation,
// used by tests and by runs that do not need a persistent corpus.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
)

// CorpusStorage stores corpus documents in a map guarded by a mutex.
type CorpusStorage struct {
	mu   sync.RWMutex
	docs map[string]*models.CorpusDocument
}

// NewCorpusStorage creates a new in-memory CorpusStorage instance
func NewCorpusStorage() interfaces.CorpusStorage {
	return &CorpusStorage{
		docs: make(map[string]*models.CorpusDocument),
	}
}

// SaveDocument inserts or updates a document keyed by its ID, preserving
// CreatedAt on update. The stored copy is detached from the caller's.
func (s *CorpusStorage) SaveDocument(doc *models.CorpusDocument) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	stored := *doc
	stored.UpdatedAt = now
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if existing, ok := s.docs[doc.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}

	s.docs[doc.ID] = &stored
	return nil
}

// ListDocuments returns all documents ordered by creation time.
func (s *CorpusStorage) ListDocuments() ([]*models.CorpusDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.CorpusDocument, 0, len(s.docs))
	for _, doc := range s.docs {
		copied := *doc
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// Count returns the number of stored documents.
func (s *CorpusStorage) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Clear removes every document.
func (s *CorpusStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]*models.CorpusDocument)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *CorpusStorage) Close() error {
	return nil
}
