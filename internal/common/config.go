package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment" yaml:"environment"` // "development" or "production"
	Corpus      CorpusConfig  `toml:"corpus" yaml:"corpus"`
	Logging     LoggingConfig `toml:"logging" yaml:"logging"`
	Agent       AgentConfig   `toml:"agent" yaml:"agent"`
	Claude      ClaudeConfig  `toml:"claude" yaml:"claude"`
	Gemini      GeminiConfig  `toml:"gemini" yaml:"gemini"`
	LLM         LLMConfig     `toml:"llm" yaml:"llm"`
}

// CorpusConfig contains configuration for the local corpus store
type CorpusConfig struct {
	Path           string `toml:"path" yaml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup" yaml:"reset_on_startup"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string   `toml:"level" yaml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output" yaml:"output"`                                      // "stdout", "file"
}

// AgentConfig contains the retrieval pipeline tuning parameters.
// Defaults mirror the pipeline's documented behavior; only deployments
// with unusual corpora should need to touch these.
type AgentConfig struct {
	MaxRetries           int `toml:"max_retries" yaml:"max_retries" validate:"gte=0"`                       // Reformulation retries after the first attempt
	TopK                 int `toml:"top_k" yaml:"top_k" validate:"gt=0"`                                    // Candidates per retrieval
	GradeExcerptChars    int `toml:"grade_excerpt_chars" yaml:"grade_excerpt_chars" validate:"gt=0"`        // Candidate text prefix sent to the grader
	VerifyEvidenceChars  int `toml:"verify_evidence_chars" yaml:"verify_evidence_chars" validate:"gt=0"`    // Evidence budget for the verifier
	MaxContextChars      int `toml:"max_context_chars" yaml:"max_context_chars" validate:"gt=0"`            // Assembled context cap for generation
	AnswerMaxTokens      int `toml:"answer_max_tokens" yaml:"answer_max_tokens" validate:"gt=0"`            // Output budget for answer generation
	JudgmentMaxTokens    int `toml:"judgment_max_tokens" yaml:"judgment_max_tokens" validate:"gt=0"`        // Output budget for grading judgments
	ReformulateMaxTokens int `toml:"reformulate_max_tokens" yaml:"reformulate_max_tokens" validate:"gt=0"`  // Output budget for query reformulation
	VerifyMaxTokens      int `toml:"verify_max_tokens" yaml:"verify_max_tokens" validate:"gt=0"`            // Output budget for verification verdicts
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key" yaml:"api_key"`         // Anthropic API key (ANTHROPIC_API_KEY fallback)
	Model       string  `toml:"model" yaml:"model"`             // Model for completions (default: "claude-sonnet-4-20250514")
	MaxTokens   int     `toml:"max_tokens" yaml:"max_tokens"`   // Default max tokens in response
	Timeout     string  `toml:"timeout" yaml:"timeout"`         // Per-call timeout as duration string
	RateLimit   string  `toml:"rate_limit" yaml:"rate_limit"`   // Minimum interval between API calls
	Temperature float32 `toml:"temperature" yaml:"temperature"` // Completion temperature
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key" yaml:"api_key"`         // Google API key (GEMINI_API_KEY fallback)
	Model       string  `toml:"model" yaml:"model"`             // Model for completions (default: "gemini-2.0-flash")
	MaxTokens   int     `toml:"max_tokens" yaml:"max_tokens"`   // Default max tokens in response
	Timeout     string  `toml:"timeout" yaml:"timeout"`         // Per-call timeout as duration string
	RateLimit   string  `toml:"rate_limit" yaml:"rate_limit"`   // Minimum interval between API calls
	Temperature float32 `toml:"temperature" yaml:"temperature"` // Completion temperature
}

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" yaml:"default_provider" validate:"oneof=claude gemini"` // "claude" or "gemini"
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability; only
// user-facing settings should be exposed in respondo.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Corpus: CorpusConfig{
			Path: "./data",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Agent: AgentConfig{
			MaxRetries:           2,    // Default retry budget
			TopK:                 5,    // Candidates per retrieval
			GradeExcerptChars:    1000, // Bounded grading cost per candidate
			VerifyEvidenceChars:  4000, // Evidence budget for verification
			MaxContextChars:      24000,
			AnswerMaxTokens:      2048,
			JudgmentMaxTokens:    200,
			ReformulateMaxTokens: 100,
			VerifyMaxTokens:      300,
		},
		Claude: ClaudeConfig{
			APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   2048,
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0,
		},
		Gemini: GeminiConfig{
			APIKey:      "", // User must provide API key (GEMINI_API_KEY or config)
			Model:       "gemini-2.0-flash",
			MaxTokens:   2048,
			Timeout:     "2m",
			RateLimit:   "4s", // 15 RPM for free tier
			Temperature: 0,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderClaude,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier
// files. Files ending in .yaml/.yml are parsed as YAML, everything else
// as TOML.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, config)
		default:
			err = toml.Unmarshal(data, config)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: RESPONDO_ENV, fallback: GO_ENV)
	if env := os.Getenv("RESPONDO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Corpus configuration
	if path := os.Getenv("RESPONDO_CORPUS_PATH"); path != "" {
		config.Corpus.Path = path
	}

	// Logging configuration
	if level := os.Getenv("RESPONDO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("RESPONDO_LOG_OUTPUT"); output != "" {
		config.Logging.Output = strings.Split(output, ",")
	}

	// Agent configuration
	if retries := os.Getenv("RESPONDO_AGENT_MAX_RETRIES"); retries != "" {
		if r, err := strconv.Atoi(retries); err == nil {
			config.Agent.MaxRetries = r
		}
	}

	// Provider selection and API keys
	if provider := os.Getenv("RESPONDO_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
	if key := os.Getenv("RESPONDO_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && config.Claude.APIKey == "" {
		config.Claude.APIKey = key
	}
	if key := os.Getenv("RESPONDO_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" && config.Gemini.APIKey == "" {
		config.Gemini.APIKey = key
	}
}
