// Package corpus provides keyword retrieval over the document store.
package corpus

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondo/internal/common"
	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
)

// defaultTopK applies when a caller passes a non-positive k.
const defaultTopK = 5

// frequencySaturation is the per-query term occurrence count at which the
// frequency component of the score maxes out.
const frequencySaturation = 10.0

// Service implements CorpusService with keyword overlap scoring. Scores
// are normalized to [0, 1]: term coverage dominates, raw frequency breaks
// near-ties between documents covering the same terms.
type Service struct {
	storage interfaces.CorpusStorage
	logger  arbor.ILogger
}

var _ interfaces.CorpusService = (*Service)(nil)

// NewService creates a new corpus retrieval service
func NewService(storage interfaces.CorpusStorage, logger arbor.ILogger) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Search returns up to k candidates scored against the query, ordered by
// descending score. Documents that match no query term are excluded, so
// an empty corpus and a no-match query both yield an empty slice.
func (s *Service) Search(ctx context.Context, query string, k int) ([]*models.EvidenceCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = defaultTopK
	}

	terms := queryTerms(query)
	if len(terms) == 0 {
		return []*models.EvidenceCandidate{}, nil
	}

	docs, err := s.storage.ListDocuments()
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus documents: %w", err)
	}

	candidates := make([]*models.EvidenceCandidate, 0, len(docs))
	for _, doc := range docs {
		score := scoreDocument(doc.Text, terms)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, &models.EvidenceCandidate{
			Text:           doc.Text,
			SourceID:       doc.SourceID,
			RelevanceScore: score,
			Grade:          models.GradeUngraded,
		})
	}

	// Stable ordering: score descending, then source ID ascending so
	// equal-scored results do not reorder between runs.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].RelevanceScore != candidates[j].RelevanceScore {
			return candidates[i].RelevanceScore > candidates[j].RelevanceScore
		}
		return candidates[i].SourceID < candidates[j].SourceID
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	s.logger.Debug().
		Str("query", query).
		Int("docs_scanned", len(docs)).
		Int("candidates", len(candidates)).
		Msg("Corpus search complete")

	return candidates, nil
}

// AddDocument stores a document, assigning an ID when missing.
func (s *Service) AddDocument(ctx context.Context, doc *models.CorpusDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document cannot be nil")
	}
	if strings.TrimSpace(doc.Text) == "" {
		return fmt.Errorf("document text cannot be empty")
	}

	if doc.ID == "" {
		doc.ID = common.NewDocumentID()
	}
	if doc.SourceID == "" {
		doc.SourceID = doc.ID
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	if err := s.storage.SaveDocument(doc); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}

	s.logger.Debug().
		Str("doc_id", doc.ID).
		Str("source", doc.SourceID).
		Int("text_length", len(doc.Text)).
		Msg("Document added to corpus")

	return nil
}

// Count returns the number of stored documents.
func (s *Service) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.storage.Count()
}

// Clear removes every document from the corpus.
func (s *Service) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.storage.Clear()
}

// queryTerms lowercases the query and splits it into deduplicated terms,
// stripping punctuation from term edges.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		term := strings.Trim(field, ".,;:!?\"'()[]{}")
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}

// scoreDocument scores a document against the query terms. Coverage (the
// fraction of distinct terms present) carries 70% of the score; total
// term frequency, saturating at frequencySaturation, carries the rest.
func scoreDocument(text string, terms []string) float64 {
	lowered := strings.ToLower(text)

	matched := 0
	frequency := 0
	for _, term := range terms {
		count := strings.Count(lowered, term)
		if count > 0 {
			matched++
			frequency += count
		}
	}
	if matched == 0 {
		return 0
	}

	coverage := float64(matched) / float64(len(terms))
	frequencyScore := float64(frequency) / frequencySaturation
	if frequencyScore > 1 {
		frequencyScore = 1
	}

	return coverage*0.7 + frequencyScore*0.3
}
