package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"headline-trader/internal/types"
)

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	return configPath
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := createTempConfigFile(t, "mode: DRY_RUN\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.CapitalPerTrade != 25000 {
		t.Errorf("Expected capital 25000, got %f", cfg.CapitalPerTrade)
	}
	if cfg.ConfidenceThreshold != 0.8 {
		t.Errorf("Expected threshold 0.8, got %f", cfg.ConfidenceThreshold)
	}
	if cfg.Exchange != "NSE" {
		t.Errorf("Expected exchange NSE, got %s", cfg.Exchange)
	}
	if cfg.PacingMillis != 500 {
		t.Errorf("Expected pacing 500, got %d", cfg.PacingMillis)
	}
	if cfg.HeadlineLimit != 15 {
		t.Errorf("Expected headline limit 15, got %d", cfg.HeadlineLimit)
	}
	if cfg.News.Provider != "NEWSDATA" || cfg.News.Country != "in" || cfg.News.Category != "business" {
		t.Errorf("Unexpected news defaults: %+v", cfg.News)
	}
	if cfg.LLM.Provider != "GEMINI" || cfg.LLM.Model != "gemini-2.0-flash" {
		t.Errorf("Unexpected llm defaults: %s %s", cfg.LLM.Provider, cfg.LLM.Model)
	}
	if cfg.LLM.APIKeyEnv != "GEMINI_API_KEY" {
		t.Errorf("Expected GEMINI_API_KEY, got %s", cfg.LLM.APIKeyEnv)
	}
	if cfg.Sentiment.Model != "ProsusAI/finbert" {
		t.Errorf("Expected finbert model, got %s", cfg.Sentiment.Model)
	}
	if !cfg.SkipDuplicates() {
		t.Error("Expected duplicate guard to default on")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := createTempConfigFile(t, `
mode: LIVE
exchange: bse
capital_per_trade: 10000
confidence_threshold: 0.9
skip_duplicate_headlines: false
llm:
  provider: OPENAI
  model: gpt-4o-mini
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Mode != "LIVE" || cfg.Exchange != "BSE" {
		t.Errorf("Unexpected mode/exchange: %s %s", cfg.Mode, cfg.Exchange)
	}
	if cfg.CapitalPerTrade != 10000 || cfg.ConfidenceThreshold != 0.9 {
		t.Errorf("Unexpected policy values: %f %f", cfg.CapitalPerTrade, cfg.ConfidenceThreshold)
	}
	if cfg.SkipDuplicates() {
		t.Error("Expected duplicate guard to be disabled")
	}
	if cfg.LLM.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("Expected OPENAI_API_KEY, got %s", cfg.LLM.APIKeyEnv)
	}
}

func TestLoadConfig_ExplicitZeroKept(t *testing.T) {
	path := createTempConfigFile(t, "pacing_ms: 0\nconfidence_threshold: 0\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.PacingMillis != 0 {
		t.Errorf("Expected pacing 0, got %d", cfg.PacingMillis)
	}
	if cfg.ConfidenceThreshold != 0 {
		t.Errorf("Expected threshold 0, got %f", cfg.ConfidenceThreshold)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad mode":      "mode: PAPER\n",
		"bad provider":  "llm:\n  provider: MISTRAL\n  model: x\n",
		"openai model":  "llm:\n  provider: OPENAI\n",
		"bad threshold": "confidence_threshold: 1.5\n",
		"scrape":        "news:\n  provider: SCRAPE\n",
		"neg capital":   "capital_per_trade: -1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(createTempConfigFile(t, content)); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadCredentials(t *testing.T) {
	cfg := Default()

	t.Setenv("NEWSDATA_API_KEY", "n")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("HF_API_TOKEN", "h")
	t.Setenv("KITE_API_KEY", "k")
	t.Setenv("KITE_ACCESS_TOKEN", "")

	_, err := LoadCredentials(cfg)
	if !errors.Is(err, types.ErrMissingCredentials) {
		t.Fatalf("Expected ErrMissingCredentials, got %v", err)
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") || !strings.Contains(err.Error(), "KITE_ACCESS_TOKEN") {
		t.Errorf("Expected both missing names in error, got %v", err)
	}

	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("KITE_ACCESS_TOKEN", "t")
	creds, err := LoadCredentials(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if creds.LLMAPIKey != "g" || creds.KiteAccessToken != "t" || creds.NewsAPIKey != "n" {
		t.Errorf("Unexpected credentials: %+v", creds)
	}
}
