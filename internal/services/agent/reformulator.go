package agent

import (
	"context"
	"fmt"
	"strings"
)

// reformulateQuery asks the model for a replacement search query. The
// original question is always used as the seed, never the prior
// reformulation, to keep successive rewrites from compounding topic
// drift. On any failure the original question is reused for the next
// attempt so a flaky rewrite never aborts the retry loop.
func (s *Service) reformulateQuery(ctx context.Context, question string) (string, bool) {
	prompt := fmt.Sprintf(reformulatorPromptTemplate, question)

	raw, err := s.llmService.Complete(ctx, prompt, s.config.ReformulateMaxTokens)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Query reformulation failed, reusing original question")
		return question, false
	}

	reformulated := strings.TrimSpace(raw)
	if reformulated == "" {
		s.logger.Warn().Msg("Query reformulation returned empty text, reusing original question")
		return question, false
	}

	return reformulated, true
}
