package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// CorpusStorage implements the CorpusStorage interface for Badger
type CorpusStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCorpusStorage creates a new CorpusStorage instance
func NewCorpusStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CorpusStorage {
	return &CorpusStorage{
		db:     db,
		logger: logger,
	}
}

// SaveDocument inserts or updates a corpus document keyed by its ID,
// preserving CreatedAt on update.
func (s *CorpusStorage) SaveDocument(doc *models.CorpusDocument) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID cannot be empty")
	}

	now := time.Now()
	doc.UpdatedAt = now
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}

	var existing models.CorpusDocument
	if err := s.db.Store().Get(doc.ID, &existing); err == nil {
		doc.CreatedAt = existing.CreatedAt
	}

	if err := s.db.Store().Upsert(doc.ID, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	return nil
}

// ListDocuments returns all corpus documents ordered by creation time.
func (s *CorpusStorage) ListDocuments() ([]*models.CorpusDocument, error) {
	var docs []models.CorpusDocument
	err := s.db.Store().Find(&docs, badgerhold.Where("ID").Ne("").SortBy("CreatedAt"))
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	result := make([]*models.CorpusDocument, 0, len(docs))
	for i := range docs {
		result = append(result, &docs[i])
	}
	return result, nil
}

// Count returns the number of stored documents.
func (s *CorpusStorage) Count() (int, error) {
	count, err := s.db.Store().Count(&models.CorpusDocument{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return int(count), nil
}

// Clear removes every document from the corpus.
func (s *CorpusStorage) Clear() error {
	var docs []models.CorpusDocument
	if err := s.db.Store().Find(&docs, nil); err != nil {
		return fmt.Errorf("failed to list documents for deletion: %w", err)
	}

	for _, doc := range docs {
		if err := s.db.Store().Delete(doc.ID, &models.CorpusDocument{}); err != nil {
			s.logger.Warn().Str("doc_id", doc.ID).Err(err).Msg("Failed to delete document during Clear")
		}
	}

	if err := s.db.RunGC(); err != nil {
		s.logger.Warn().Err(err).Msg("Value log GC after clear failed")
	}

	s.logger.Info().Int("count", len(docs)).Msg("Cleared corpus documents")
	return nil
}

// Close closes the underlying database connection.
func (s *CorpusStorage) Close() error {
	return s.db.Close()
}
