package models

// Decision is the outcome of one retrieve-grade-decide cycle.
type Decision string

const (
	DecisionAccept      Decision = "accept"
	DecisionReformulate Decision = "reformulate"
	DecisionExhausted   Decision = "exhausted"
)

// RetrievalAttempt is one iteration of the retrieval loop. Attempts are
// created and discarded within a single query invocation.
type RetrievalAttempt struct {
	// Index is 1-based.
	Index int

	// QueryText is the original question or a reformulation of it.
	QueryText string

	// Candidates holds the retrieved evidence in backend order.
	Candidates []*EvidenceCandidate

	// AcceptedCount is the number of candidates graded relevant or
	// partially relevant against the original question.
	AcceptedCount int

	// Decision records how the loop proceeded after this attempt.
	Decision Decision
}
