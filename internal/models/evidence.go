package models

// Grade is the three-valued relevance judgment of one evidence candidate
// against the original question.
type Grade string

const (
	GradeRelevant          Grade = "relevant"
	GradePartiallyRelevant Grade = "partially_relevant"
	GradeNotRelevant       Grade = "not_relevant"
	GradeUngraded          Grade = "ungraded"
)

// Accepted reports whether the grade qualifies the candidate for the
// accepted evidence set (relevant or partially relevant).
func (g Grade) Accepted() bool {
	return g == GradeRelevant || g == GradePartiallyRelevant
}

// EvidenceCandidate is one retrieved unit of text. Candidates are created
// by the retrieval backend, graded in place by the relevance grader, and
// discarded at the end of the query that produced them.
type EvidenceCandidate struct {
	// Text is the candidate's content.
	Text string `json:"text"`

	// SourceID identifies the originating document.
	SourceID string `json:"source_id"`

	// RelevanceScore is a similarity-derived score, higher = more similar.
	// It is a monotonic transform of the backend's distance metric and is
	// only comparable within a single retrieval backend.
	RelevanceScore float64 `json:"relevance_score"`

	// Grade is attached by the relevance grader.
	Grade Grade `json:"grade"`

	// GradeReason is the grader's one-sentence justification.
	GradeReason string `json:"grade_reason,omitempty"`
}
