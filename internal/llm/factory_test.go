package llm

import (
	"testing"

	"headline-trader/internal/store"
)

func TestNewGenerator(t *testing.T) {
	for _, provider := range []string{"GEMINI", "OPENAI", "CLAUDE"} {
		cfg := store.Default()
		cfg.LLM.Provider = provider
		g, err := NewGenerator(cfg, "key")
		if err != nil {
			t.Errorf("%s: unexpected error %v", provider, err)
		}
		if g == nil {
			t.Errorf("%s: expected generator", provider)
		}
	}

	cfg := store.Default()
	cfg.LLM.Provider = "MISTRAL"
	if _, err := NewGenerator(cfg, "key"); err == nil {
		t.Error("Expected error for unknown provider")
	}
}
