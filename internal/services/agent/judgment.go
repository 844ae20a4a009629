package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks decoded judgments against their struct tags so a
// syntactically valid but semantically malformed response still lands in
// the documented fallback path.
var validate = validator.New()

// relevanceJudgment is the grader's structured verdict.
type relevanceJudgment struct {
	Relevance string `json:"relevance" validate:"required,oneof=relevant partially_relevant not_relevant"`
	Reason    string `json:"reason"`
}

// groundednessJudgment is the verifier's structured verdict. Grounded and
// Confidence are pointers so that explicit false/zero values satisfy the
// required check while missing fields do not.
type groundednessJudgment struct {
	Grounded   *bool    `json:"grounded" validate:"required"`
	Confidence *float64 `json:"confidence" validate:"required,gte=0,lte=1"`
	Issues     []string `json:"issues"`
}

// stripCodeFences removes a wrapping Markdown code fence (with or without
// a language label) from an LLM response.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	parts := strings.SplitN(trimmed, "```", 3)
	if len(parts) < 2 {
		return trimmed
	}

	inner := strings.TrimSpace(parts[1])
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}

// decodeRelevanceJudgment parses a grader response into a typed verdict.
// Returns an error for the caller to map to the grading fallback.
func decodeRelevanceJudgment(raw string) (*relevanceJudgment, error) {
	var judgment relevanceJudgment
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &judgment); err != nil {
		return nil, fmt.Errorf("failed to parse relevance judgment: %w", err)
	}
	if err := validate.Struct(&judgment); err != nil {
		return nil, fmt.Errorf("malformed relevance judgment: %w", err)
	}
	return &judgment, nil
}

// decodeGroundednessJudgment parses a verifier response into a typed
// verdict. Returns an error for the caller to map to the verification
// fallback.
func decodeGroundednessJudgment(raw string) (*groundednessJudgment, error) {
	var judgment groundednessJudgment
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &judgment); err != nil {
		return nil, fmt.Errorf("failed to parse groundedness judgment: %w", err)
	}
	if err := validate.Struct(&judgment); err != nil {
		return nil, fmt.Errorf("malformed groundedness judgment: %w", err)
	}
	return &judgment, nil
}
