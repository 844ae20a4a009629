package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/respondo/internal/models"
)

// verifyInconclusiveIssue is reported when a verification call fails or
// its response cannot be decoded.
const verifyInconclusiveIssue = "Check inconclusive"

// verifyAnswer checks the generated answer against the evidence it was
// built from. Verification never fails the query: any failure degrades to
// an uncertain-but-not-alarming verdict so a flaky judge lowers reported
// confidence instead of blocking delivery of the answer.
func (s *Service) verifyAnswer(ctx context.Context, answer string, evidence []*models.EvidenceCandidate) models.GroundingReport {
	evidenceText := buildVerifierEvidence(evidence, s.config.VerifyEvidenceChars)
	prompt := fmt.Sprintf(verifierPromptTemplate, evidenceText, answer)

	raw, err := s.llmService.Complete(ctx, prompt, s.config.VerifyMaxTokens)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Verification call failed, using inconclusive fallback")
		return inconclusiveGrounding()
	}

	judgment, err := decodeGroundednessJudgment(raw)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Verification response unparsable, using inconclusive fallback")
		return inconclusiveGrounding()
	}

	issues := judgment.Issues
	if issues == nil {
		issues = []string{}
	}

	return models.GroundingReport{
		Grounded:   *judgment.Grounded,
		Confidence: *judgment.Confidence,
		Issues:     issues,
	}
}

// buildVerifierEvidence formats the evidence set for the verifier, capped
// at maxChars. Earlier entries are the most-accepted evidence, so the
// truncation keeps them and drops the tail.
func buildVerifierEvidence(evidence []*models.EvidenceCandidate, maxChars int) string {
	entries := make([]string, 0, len(evidence))
	for _, candidate := range evidence {
		entries = append(entries, fmt.Sprintf("[%s]: %s", candidate.SourceID, candidate.Text))
	}

	text := strings.Join(entries, "\n\n")
	return truncateText(text, maxChars)
}

func inconclusiveGrounding() models.GroundingReport {
	return models.GroundingReport{
		Grounded:   true,
		Confidence: 0.5,
		Issues:     []string{verifyInconclusiveIssue},
	}
}
