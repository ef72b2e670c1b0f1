package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"headline-trader/internal/types"
)

const (
	DefaultCapitalPerTrade     = 25000.0
	DefaultConfidenceThreshold = 0.8
	DefaultHeadlineLimit       = 15
	DefaultPacingMillis        = 500

	DefaultNewsDataEndpoint = "https://newsdata.io/api/1/latest"
	DefaultNewsQuery        = "finance OR stock OR IPO OR investment OR market OR NSE OR BSE"
	DefaultSentimentModel   = "ProsusAI/finbert"
	DefaultSentimentURL     = "https://api-inference.huggingface.co/models"
	DefaultSentimentChars   = 1200
)

type Config struct {
	Mode                   string  `yaml:"mode"`
	Exchange               string  `yaml:"exchange"`
	CapitalPerTrade        float64 `yaml:"capital_per_trade"`
	ConfidenceThreshold    float64 `yaml:"confidence_threshold"`
	HeadlineLimit          int     `yaml:"headline_limit"`
	PacingMillis           int     `yaml:"pacing_ms"`
	SkipDuplicateHeadlines *bool   `yaml:"skip_duplicate_headlines"`
	News                   struct {
		Provider       string `yaml:"provider"`
		Endpoint       string `yaml:"endpoint"`
		Query          string `yaml:"query"`
		Country        string `yaml:"country"`
		Language       string `yaml:"language"`
		Category       string `yaml:"category"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		APIKeyEnv      string `yaml:"api_key_env"`
		Scrape         struct {
			URL              string `yaml:"url"`
			ArticleContainer string `yaml:"article_container"`
			Title            string `yaml:"title"`
			PublishedAt      string `yaml:"published_at"`
		} `yaml:"scrape"`
	} `yaml:"news"`
	LLM struct {
		Provider       string  `yaml:"provider"`
		Model          string  `yaml:"model"`
		Endpoint       string  `yaml:"endpoint"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float32 `yaml:"temperature"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		APIKeyEnv      string  `yaml:"api_key_env"`
	} `yaml:"llm"`
	Sentiment struct {
		Endpoint       string `yaml:"endpoint"`
		Model          string `yaml:"model"`
		MaxInputChars  int    `yaml:"max_input_chars"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		APIKeyEnv      string `yaml:"api_key_env"`
	} `yaml:"sentiment"`
	Control struct {
		Listen    string `yaml:"listen"`
		LogBuffer int    `yaml:"log_buffer"`
	} `yaml:"control"`
}

// SkipDuplicates reports whether a headline that already produced an order
// in the current run is skipped when it re-appears.
func (c *Config) SkipDuplicates() bool {
	return c.SkipDuplicateHeadlines == nil || *c.SkipDuplicateHeadlines
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Exchange == "" {
		return errors.New("exchange cannot be empty")
	}
	if c.CapitalPerTrade <= 0 {
		return fmt.Errorf("capital_per_trade must be positive, got %.2f", c.CapitalPerTrade)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold >= 1 {
		return fmt.Errorf("confidence_threshold must be in [0,1), got %.4f", c.ConfidenceThreshold)
	}
	if c.HeadlineLimit <= 0 {
		return fmt.Errorf("headline_limit must be positive, got %d", c.HeadlineLimit)
	}
	if c.PacingMillis < 0 {
		return fmt.Errorf("pacing_ms cannot be negative, got %d", c.PacingMillis)
	}
	switch c.News.Provider {
	case "NEWSDATA":
	case "SCRAPE":
		if c.News.Scrape.URL == "" || c.News.Scrape.ArticleContainer == "" || c.News.Scrape.Title == "" {
			return errors.New("news.scrape requires url, article_container and title selectors")
		}
	default:
		return fmt.Errorf("news.provider must be 'NEWSDATA' or 'SCRAPE', got '%s'", c.News.Provider)
	}
	switch c.LLM.Provider {
	case "GEMINI", "OPENAI", "CLAUDE":
	default:
		return fmt.Errorf("llm.provider must be 'GEMINI', 'OPENAI' or 'CLAUDE', got '%s'", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model cannot be empty")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.Exchange == "" {
		c.Exchange = "NSE"
	}
	c.Exchange = strings.ToUpper(c.Exchange)
	if c.CapitalPerTrade == 0 {
		c.CapitalPerTrade = DefaultCapitalPerTrade
	}
	if c.HeadlineLimit == 0 {
		c.HeadlineLimit = DefaultHeadlineLimit
	}

	if c.News.Provider == "" {
		c.News.Provider = "NEWSDATA"
	}
	if c.News.Endpoint == "" {
		c.News.Endpoint = DefaultNewsDataEndpoint
	}
	if c.News.Query == "" {
		c.News.Query = DefaultNewsQuery
	}
	if c.News.Country == "" {
		c.News.Country = "in"
	}
	if c.News.Language == "" {
		c.News.Language = "en"
	}
	if c.News.Category == "" {
		c.News.Category = "business"
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 20
	}
	if c.News.APIKeyEnv == "" {
		c.News.APIKeyEnv = "NEWSDATA_API_KEY"
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "GEMINI"
	}
	if c.LLM.Model == "" && c.LLM.Provider == "GEMINI" {
		c.LLM.Model = "gemini-2.0-flash"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 120
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.1
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 30
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = c.LLM.Provider + "_API_KEY"
	}

	if c.Sentiment.Endpoint == "" {
		c.Sentiment.Endpoint = DefaultSentimentURL
	}
	if c.Sentiment.Model == "" {
		c.Sentiment.Model = DefaultSentimentModel
	}
	if c.Sentiment.MaxInputChars == 0 {
		c.Sentiment.MaxInputChars = DefaultSentimentChars
	}
	if c.Sentiment.TimeoutSeconds == 0 {
		c.Sentiment.TimeoutSeconds = 30
	}
	if c.Sentiment.APIKeyEnv == "" {
		c.Sentiment.APIKeyEnv = "HF_API_TOKEN"
	}

	if c.Control.Listen == "" {
		c.Control.Listen = ":8080"
	}
	if c.Control.LogBuffer == 0 {
		c.Control.LogBuffer = 500
	}
}

// seeded returns a Config whose zero-valid fields already hold their
// defaults, so an explicit 0 in the file survives unmarshalling.
func seeded() Config {
	return Config{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		PacingMillis:        DefaultPacingMillis,
	}
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	c := seeded()
	c.applyDefaults()
	return &c
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := seeded()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// Credentials holds every secret the pipeline needs, read from the environment.
type Credentials struct {
	NewsAPIKey      string
	LLMAPIKey       string
	SentimentToken  string
	KiteAPIKey      string
	KiteAccessToken string
}

// LoadCredentials reads credentials from the environment. Every missing
// variable is reported in a single ErrMissingCredentials error.
func LoadCredentials(c *Config) (Credentials, error) {
	var missing []string
	get := func(name string) string {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			missing = append(missing, name)
		}
		return v
	}

	var creds Credentials
	if c.News.Provider == "NEWSDATA" {
		creds.NewsAPIKey = get(c.News.APIKeyEnv)
	}
	creds.LLMAPIKey = get(c.LLM.APIKeyEnv)
	creds.SentimentToken = get(c.Sentiment.APIKeyEnv)
	creds.KiteAPIKey = get("KITE_API_KEY")
	creds.KiteAccessToken = get("KITE_ACCESS_TOKEN")

	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("%w: %s", types.ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return creds, nil
}
