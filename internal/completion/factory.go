package completion

import (
	"fmt"

	"textchecker/internal/models"
)

// New creates the Completer selected by cfg. When RequestsPerMinute is set
// the provider is wrapped in a Throttled decorator.
func New(cfg models.CompletionConfig) (Completer, error) {
	var (
		c   Completer
		err error
	)

	switch cfg.Provider {
	case models.ProviderAnthropic, "":
		c, err = NewAnthropicClient(AnthropicConfig{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			Endpoint:  cfg.Endpoint,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout,
		})
	case models.ProviderGemini:
		c, err = NewGeminiClient(GeminiConfig{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			Endpoint:  cfg.Endpoint,
			MaxTokens: cfg.MaxTokens,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RequestsPerMinute > 0 {
		c = NewThrottled(c, cfg.RequestsPerMinute)
	}
	return c, nil
}
