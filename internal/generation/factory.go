package generation

import (
	"fmt"

	"github.com/claraliu715-tech/chat-with-echo/internal/config"
)

// New builds the configured backend. Credentials are not checked here; a
// missing key fails the call with ErrConfiguration.
func New(cfg config.Config) (Client, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.GenerationTimeout), nil
	case "openai":
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.GenerationTimeout), nil
	case "anthropic":
		return NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.GenerationTimeout), nil
	default:
		return nil, fmt.Errorf("unknown generation provider: %s", cfg.Provider)
	}
}
