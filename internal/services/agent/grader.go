package agent

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/ternarybob/respondo/internal/models"
)

// gradeInconclusiveReason is attached when a grading call fails or its
// response cannot be decoded.
const gradeInconclusiveReason = "Grading inconclusive"

// gradeCandidates grades every candidate in place against the original
// question. Grading always runs against the question as asked, not the
// current (possibly reformulated) query, so grades do not drift with the
// search query. Candidate order is preserved.
func (s *Service) gradeCandidates(ctx context.Context, question string, candidates []*models.EvidenceCandidate) {
	for _, candidate := range candidates {
		grade, reason := s.gradeCandidate(ctx, question, candidate)
		candidate.Grade = grade
		candidate.GradeReason = reason
	}
}

// gradeCandidate classifies one candidate. Any failure (transport,
// timeout, unparsable response) degrades to partially_relevant rather
// than aborting the attempt: a middle grade neither discards potentially
// useful evidence nor over-trusts it.
func (s *Service) gradeCandidate(ctx context.Context, question string, candidate *models.EvidenceCandidate) (models.Grade, string) {
	excerpt := truncateText(candidate.Text, s.config.GradeExcerptChars)
	prompt := fmt.Sprintf(graderPromptTemplate, excerpt, question)

	raw, err := s.llmService.Complete(ctx, prompt, s.config.JudgmentMaxTokens)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("source", candidate.SourceID).
			Msg("Grading call failed, using inconclusive fallback")
		return models.GradePartiallyRelevant, gradeInconclusiveReason
	}

	judgment, err := decodeRelevanceJudgment(raw)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("source", candidate.SourceID).
			Msg("Grading response unparsable, using inconclusive fallback")
		return models.GradePartiallyRelevant, gradeInconclusiveReason
	}

	return models.Grade(judgment.Relevance), judgment.Reason
}

// truncateText truncates text to at most maxLen bytes, backing the cut up
// to a rune boundary so a multi-byte character is never split.
func truncateText(text string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	if len(text) <= maxLen {
		return text
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
