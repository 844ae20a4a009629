package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/respondo/internal/models"
)

// evidenceSeparator visibly divides candidates inside the assembled
// generation context.
const evidenceSeparator = "\n\n---\n\n"

// minEvidenceEntryChars is the smallest truncated entry worth including
// when the context budget is nearly spent.
const minEvidenceEntryChars = 200

// generateAnswer produces a grounded answer from the accepted evidence.
// Unlike grading and verification, a generation failure propagates: an
// answer cannot be conjured from a failed call without breaking the
// groundedness guarantee.
func (s *Service) generateAnswer(ctx context.Context, question string, evidence []*models.EvidenceCandidate) (string, int, error) {
	contextText, included := buildEvidenceContext(evidence, s.config.MaxContextChars)
	prompt := fmt.Sprintf(generatorPromptTemplate, contextText, question)

	answer, err := s.llmService.Complete(ctx, prompt, s.config.AnswerMaxTokens)
	if err != nil {
		return "", included, fmt.Errorf("answer generation failed: %w", err)
	}

	return answer, included, nil
}

// buildEvidenceContext assembles the generation context from the evidence
// set in acceptance order, capped at maxChars. When the budget runs out
// the current entry is truncated to fit (if a useful amount remains) and
// later candidates are dropped. Returns the context text and the number
// of candidates represented in it.
func buildEvidenceContext(evidence []*models.EvidenceCandidate, maxChars int) (string, int) {
	var builder strings.Builder
	included := 0

	for _, candidate := range evidence {
		entry := fmt.Sprintf("[Source: %s] (Relevance: %.4f)\n%s",
			candidate.SourceID, candidate.RelevanceScore, candidate.Text)

		separator := ""
		if included > 0 {
			separator = evidenceSeparator
		}

		remaining := maxChars - builder.Len() - len(separator)
		if len(entry) > remaining {
			if remaining < minEvidenceEntryChars {
				break
			}
			entry = truncateText(entry, remaining)
		}

		builder.WriteString(separator)
		builder.WriteString(entry)
		included++

		if builder.Len() >= maxChars {
			break
		}
	}

	return builder.String(), included
}
