package interfaces

import "context"

// LLMService is the generation capability contract. Implementations use
// cloud completion APIs (Anthropic, Gemini); the agent only requires a
// single-shot prompt-to-text completion.
type LLMService interface {
	// Complete generates text for the prompt. maxOutputTokens bounds the
	// response length; values <= 0 fall back to the provider default.
	Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error)

	// HealthCheck verifies the provider is reachable and authenticated.
	HealthCheck(ctx context.Context) error

	// Provider returns the provider name ("claude" or "gemini").
	Provider() string

	// Close releases client resources.
	Close() error
}
