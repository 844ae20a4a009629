package interfaces

import (
	"context"

	"github.com/ternarybob/respondo/internal/models"
)

// RetrievalService is the capability contract the agent consumes for
// evidence retrieval. Implementations return candidates ordered by
// descending relevance score and an empty slice (not an error) when the
// corpus holds no documents.
type RetrievalService interface {
	// Search returns up to k evidence candidates for the query.
	Search(ctx context.Context, query string, k int) ([]*models.EvidenceCandidate, error)
}

// CorpusService extends RetrievalService with the explicit corpus
// lifecycle. The store is owned by the host process and injected; the
// agent itself never constructs or mutates it.
type CorpusService interface {
	RetrievalService

	// AddDocument stores a document in the corpus.
	AddDocument(ctx context.Context, doc *models.CorpusDocument) error

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Clear removes every document from the corpus.
	Clear(ctx context.Context) error
}

// CorpusStorage is the persistence boundary behind CorpusService.
type CorpusStorage interface {
	SaveDocument(doc *models.CorpusDocument) error
	ListDocuments() ([]*models.CorpusDocument, error)
	Count() (int, error)
	Clear() error
	Close() error
}
