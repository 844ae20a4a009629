package llm

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondo/internal/common"
	"github.com/ternarybob/respondo/internal/interfaces"
	"golang.org/x/time/rate"
)

// NewLLMService creates the appropriate LLM service implementation based
// on the configured default provider.
func NewLLMService(cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	if logger == nil {
		logger = common.GetLogger()
	}
	provider := cfg.LLM.DefaultProvider
	logger.Info().Str("provider", string(provider)).Msg("Initializing LLM service")

	switch provider {
	case common.LLMProviderClaude:
		return NewClaudeService(&cfg.Claude, logger)

	case common.LLMProviderGemini:
		return NewGeminiService(&cfg.Gemini, logger)

	default:
		return nil, fmt.Errorf("unsupported LLM provider '%s': must be 'claude' or 'gemini'", provider)
	}
}

// newCallLimiter builds a rate limiter that spaces API calls by the given
// minimum interval. An empty interval disables limiting.
func newCallLimiter(interval string) (*rate.Limiter, error) {
	if interval == "" {
		return rate.NewLimiter(rate.Inf, 1), nil
	}

	d, err := time.ParseDuration(interval)
	if err != nil {
		return nil, err
	}
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1), nil
	}

	return rate.NewLimiter(rate.Every(d), 1), nil
}
