package llm

import (
	"fmt"
	"time"

	"headline-trader/internal/interfaces"
	"headline-trader/internal/llm/claude"
	"headline-trader/internal/llm/gemini"
	"headline-trader/internal/llm/llmobs"
	"headline-trader/internal/llm/openai"
	"headline-trader/internal/store"
)

// NewGenerator builds the generator selected by llm.provider, wrapped with
// observability.
func NewGenerator(cfg *store.Config, apiKey string) (interfaces.Generator, error) {
	timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second

	var g interfaces.Generator
	switch cfg.LLM.Provider {
	case "GEMINI":
		g = gemini.New(cfg.LLM.Endpoint, cfg.LLM.Model, apiKey, timeout)
	case "OPENAI":
		g = openai.New(cfg.LLM.Endpoint, cfg.LLM.Model, apiKey, timeout)
	case "CLAUDE":
		g = claude.New(cfg.LLM.Endpoint, cfg.LLM.Model, apiKey, timeout)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLM.Provider)
	}
	return llmobs.Wrap(cfg.LLM.Provider, g), nil
}
