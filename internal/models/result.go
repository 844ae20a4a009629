package models

// SourceSummary is the per-source entry of a QueryResult.
type SourceSummary struct {
	Source    string  `json:"source"`
	Relevance float64 `json:"relevance"`
	Grade     string  `json:"grade"`
}

// GroundingReport is the groundedness verifier's verdict on an answer.
type GroundingReport struct {
	Grounded   bool     `json:"grounded"`
	Confidence float64  `json:"confidence"`
	Issues     []string `json:"issues"`
}

// QueryMetrics summarizes one query for monitoring and display.
type QueryMetrics struct {
	RetrievalAttempts   int     `json:"retrieval_attempts"`
	DocsUsedForAnswer   int     `json:"docs_used_for_answer"`
	QueryReformulated   bool    `json:"query_reformulated"`
	AnswerGrounded      bool    `json:"answer_grounded"`
	GroundingConfidence float64 `json:"grounding_confidence"`
	LatencySeconds      float64 `json:"latency_seconds"`
}

// QueryResult is the final output of one query. Once returned it is owned
// exclusively by the caller; the pipeline retains no reference.
type QueryResult struct {
	Answer    string          `json:"answer"`
	Question  string          `json:"question"`
	Trace     PipelineTrace   `json:"pipeline_trace"`
	Sources   []SourceSummary `json:"sources"`
	Grounding GroundingReport `json:"hallucination_check"`
	Metrics   QueryMetrics    `json:"metrics"`
}
