package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Suggestion.Policy().Validate(); err != nil {
		return fmt.Errorf("suggestion: %w", err)
	}

	switch c.Suggestion.BatchStore {
	case BatchStorePostgres:
	case BatchStoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required when suggestion.batch_store is %q", BatchStoreRedis)
		}
	default:
		return fmt.Errorf("suggestion.batch_store must be %q or %q (got %q)",
			BatchStorePostgres, BatchStoreRedis, c.Suggestion.BatchStore)
	}

	if err := c.Synthesis.validate(); err != nil {
		return fmt.Errorf("synthesis: %w", err)
	}

	if err := c.Shopping.Policy().Validate(); err != nil {
		return fmt.Errorf("shopping: %w", err)
	}

	if c.Retention.SuggestionBatchDays < 1 {
		return fmt.Errorf("retention.suggestion_batch_days must be >= 1 (got %d)", c.Retention.SuggestionBatchDays)
	}

	return nil
}

func (s *SynthesisConfig) validate() error {
	switch s.Provider {
	case ProviderNone:
		return nil
	case ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("provider must be one of none, anthropic, gemini (got %q)", s.Provider)
	}

	if s.APIKey == "" {
		return fmt.Errorf("api_key is required for provider %q", s.Provider)
	}
	if s.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0 (got %d)", s.MaxTokens)
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", s.MaxRetries)
	}
	if s.Model == "" {
		s.Model = defaultModel(s.Provider)
	}
	return nil
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.5-flash"
	}
	return "claude-sonnet-4-5"
}
