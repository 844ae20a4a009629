package interfaces

import (
	"context"

	"github.com/ternarybob/respondo/internal/models"
)

// AnswerService answers natural-language questions over the corpus with
// the self-correcting retrieval pipeline.
type AnswerService interface {
	// Query runs the full retrieve-grade-generate-verify pipeline.
	// maxRetries is the number of reformulation retries after the first
	// attempt; it must be >= 0.
	Query(ctx context.Context, question string, maxRetries int) (*models.QueryResult, error)
}
