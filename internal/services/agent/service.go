package agent

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondo/internal/common"
	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
)

// loopState enumerates the states of the retrieval loop's state machine.
// The transition table lives in Query; decide owns the Deciding state's
// branching so the acceptance policy is independently testable.
type loopState int

const (
	stateRetrieving loopState = iota
	stateGrading
	stateDeciding
	stateAccepted
	stateExhausted
	stateGenerating
	stateVerifying
	stateDone
)

// exhaustedFallbackDocs is how many raw candidates from the last attempt
// back the answer when the retry budget is spent with nothing accepted.
const exhaustedFallbackDocs = 3

// Service implements the self-correcting retrieval pipeline:
// retrieve -> grade -> decide -> (accept | reformulate) -> generate ->
// verify. It holds no state between queries; every call gets a fresh
// trace and candidate set.
type Service struct {
	config           *common.AgentConfig
	retrievalService interfaces.RetrievalService
	llmService       interfaces.LLMService
	logger           arbor.ILogger
}

var _ interfaces.AnswerService = (*Service)(nil)

// NewService creates a new answer pipeline service
func NewService(
	config *common.AgentConfig,
	retrievalService interfaces.RetrievalService,
	llmService interfaces.LLMService,
	logger arbor.ILogger,
) *Service {
	if config == nil {
		defaults := common.NewDefaultConfig().Agent
		config = &defaults
	}
	if logger == nil {
		logger = common.GetLogger()
	}

	return &Service{
		config:           config,
		retrievalService: retrievalService,
		llmService:       llmService,
		logger:           logger,
	}
}

// Query runs the full pipeline for one question. maxRetries is the number
// of reformulation retries after the first attempt (total attempts =
// maxRetries + 1). Grading and verification failures degrade to their
// documented fallbacks; retrieval and generation failures abort the query.
func (s *Service) Query(ctx context.Context, question string, maxRetries int) (*models.QueryResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question cannot be empty")
	}
	if maxRetries < 0 {
		return nil, fmt.Errorf("maxRetries must be >= 0, got %d", maxRetries)
	}

	startTime := time.Now()
	queryID := common.NewQueryID()

	s.logger.Debug().
		Str("query_id", queryID).
		Str("question", question).
		Int("max_retries", maxRetries).
		Msg("Starting answer pipeline")

	trace := models.PipelineTrace{}
	currentQuery := question
	attemptCount := 0
	var attempt *models.RetrievalAttempt
	var acceptedEvidence []*models.EvidenceCandidate

	state := stateRetrieving

loop:
	for {
		switch state {
		case stateRetrieving:
			attemptCount++
			attempt = &models.RetrievalAttempt{Index: attemptCount, QueryText: currentQuery}

			candidates, err := s.retrievalService.Search(ctx, currentQuery, s.config.TopK)
			if err != nil {
				return nil, fmt.Errorf("retrieval failed on attempt %d: %w", attemptCount, err)
			}
			attempt.Candidates = candidates

			trace.Append(stepName(attemptCount, "Retrieve"), map[string]interface{}{
				"query":          currentQuery,
				"docs_retrieved": len(candidates),
				"top_scores":     topScores(candidates, 3),
			})

			if len(candidates) == 0 {
				// Terminal empty-corpus state, not an error.
				trace.Append(stepName(attemptCount, "No Results"), map[string]interface{}{
					"action": "No documents in corpus",
				})
				state = stateDone
				break loop
			}
			state = stateGrading

		case stateGrading:
			s.gradeCandidates(ctx, question, attempt.Candidates)
			relevant := acceptedOf(attempt.Candidates)
			attempt.AcceptedCount = len(relevant)

			trace.Append(stepName(attempt.Index, "Grade"), map[string]interface{}{
				"relevant":     len(relevant),
				"not_relevant": len(attempt.Candidates) - len(relevant),
				"grades":       gradeSummaries(attempt.Candidates),
			})
			state = stateDeciding

		case stateDeciding:
			attempt.Decision = s.decide(attempt.Index, attempt.AcceptedCount, maxRetries)
			switch attempt.Decision {
			case models.DecisionAccept:
				state = stateAccepted
			case models.DecisionReformulate:
				newQuery, rewritten := s.reformulateQuery(ctx, question)
				fields := map[string]interface{}{
					"original":     currentQuery,
					"reformulated": newQuery,
				}
				if !rewritten {
					fields["action"] = "Reformulation failed. Reusing original question."
				}
				trace.Append(stepName(attempt.Index, "Reformulate"), fields)
				currentQuery = newQuery
				state = stateRetrieving
			default:
				state = stateExhausted
			}

		case stateAccepted:
			acceptedEvidence = acceptedOf(attempt.Candidates)
			trace.Append(stepName(attempt.Index, "Decision"), map[string]interface{}{
				"action":    "Sufficient relevant docs.",
				"docs_used": len(acceptedEvidence),
			})
			break loop

		case stateExhausted:
			// Budget spent: fall back to whatever graded through, or the
			// raw top candidates of the last attempt.
			acceptedEvidence = acceptedOf(attempt.Candidates)
			if len(acceptedEvidence) == 0 && len(attempt.Candidates) > 0 {
				limit := exhaustedFallbackDocs
				if limit > len(attempt.Candidates) {
					limit = len(attempt.Candidates)
				}
				acceptedEvidence = attempt.Candidates[:limit]
			}
			trace.Append(stepName(attempt.Index, "Decision"), map[string]interface{}{
				"action":    "Max retries. Using best available.",
				"docs_used": len(acceptedEvidence),
			})
			break loop
		}
	}

	var answer string
	var grounding models.GroundingReport

	if len(acceptedEvidence) == 0 {
		// Only reachable through the empty-corpus termination: a fixed
		// informational answer, no generation call, synthetic verdict.
		answer = noDocumentsAnswer
		grounding = models.GroundingReport{Grounded: true, Confidence: 1.0, Issues: []string{}}
	} else {
		generated, included, err := s.generateAnswer(ctx, question, acceptedEvidence)
		if err != nil {
			return nil, err
		}
		answer = generated
		trace.Append("Generate Answer", map[string]interface{}{
			"docs_used":       len(acceptedEvidence),
			"docs_in_context": included,
			"answer_length":   len(answer),
		})

		grounding = s.verifyAnswer(ctx, answer, acceptedEvidence)
		trace.Append("Hallucination Check", map[string]interface{}{
			"grounded":   grounding.Grounded,
			"confidence": grounding.Confidence,
			"issues":     grounding.Issues,
		})
	}

	elapsed := time.Since(startTime)
	result := &models.QueryResult{
		Answer:    answer,
		Question:  question,
		Trace:     trace,
		Sources:   sourceSummaries(acceptedEvidence),
		Grounding: grounding,
		Metrics: models.QueryMetrics{
			RetrievalAttempts:   attemptCount,
			DocsUsedForAnswer:   len(acceptedEvidence),
			QueryReformulated:   attemptCount > 1,
			AnswerGrounded:      grounding.Grounded,
			GroundingConfidence: grounding.Confidence,
			LatencySeconds:      math.Round(elapsed.Seconds()*100) / 100,
		},
	}

	s.logger.Info().
		Str("query_id", queryID).
		Int("attempts", attemptCount).
		Int("docs_used", len(acceptedEvidence)).
		Bool("grounded", grounding.Grounded).
		Dur("duration", elapsed).
		Msg("Answer pipeline complete")

	return result, nil
}

// decide applies the acceptance policy for one graded attempt. Two
// accepted candidates always suffice; a single accepted candidate only
// suffices after at least one reformulation, so a lone first-pass match
// cannot short-circuit the loop.
func (s *Service) decide(attemptIndex, acceptedCount, maxRetries int) models.Decision {
	if acceptedCount >= 2 || (acceptedCount >= 1 && attemptIndex > 1) {
		return models.DecisionAccept
	}
	if attemptIndex <= maxRetries {
		return models.DecisionReformulate
	}
	return models.DecisionExhausted
}

// stepName names a trace step for one attempt.
func stepName(attempt int, action string) string {
	name := fmt.Sprintf("Attempt %d", attempt)
	if attempt > 1 {
		name += " (reformulated)"
	}
	return name + " - " + action
}

// acceptedOf filters candidates graded relevant or partially relevant,
// preserving input order.
func acceptedOf(candidates []*models.EvidenceCandidate) []*models.EvidenceCandidate {
	accepted := make([]*models.EvidenceCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Grade.Accepted() {
			accepted = append(accepted, candidate)
		}
	}
	return accepted
}

// topScores returns the relevance scores of the first n candidates.
func topScores(candidates []*models.EvidenceCandidate, n int) []float64 {
	if n > len(candidates) {
		n = len(candidates)
	}
	scores := make([]float64, 0, n)
	for _, candidate := range candidates[:n] {
		scores = append(scores, candidate.RelevanceScore)
	}
	return scores
}

// gradeSummaries builds the per-candidate grade listing for the trace.
func gradeSummaries(candidates []*models.EvidenceCandidate) []map[string]interface{} {
	summaries := make([]map[string]interface{}, 0, len(candidates))
	for _, candidate := range candidates {
		summaries = append(summaries, map[string]interface{}{
			"source": truncateText(candidate.SourceID, 30),
			"grade":  string(candidate.Grade),
		})
	}
	return summaries
}

// sourceSummaries builds the result's source listing.
func sourceSummaries(evidence []*models.EvidenceCandidate) []models.SourceSummary {
	sources := make([]models.SourceSummary, 0, len(evidence))
	for _, candidate := range evidence {
		grade := string(candidate.Grade)
		if grade == "" {
			grade = string(models.GradeUngraded)
		}
		sources = append(sources, models.SourceSummary{
			Source:    candidate.SourceID,
			Relevance: candidate.RelevanceScore,
			Grade:     grade,
		})
	}
	return sources
}
