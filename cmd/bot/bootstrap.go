package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"headline-trader/internal/broker/zerodha"
	"headline-trader/internal/engine"
	"headline-trader/internal/engine/engineobs"
	"headline-trader/internal/interfaces"
	"headline-trader/internal/llm"
	"headline-trader/internal/logger"
	"headline-trader/internal/news"
	"headline-trader/internal/sentiment"
	"headline-trader/internal/store"
	"headline-trader/internal/ticker"
	"headline-trader/internal/trace"
	"headline-trader/internal/tradelog"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads the configuration and the credentials it names. Missing
// credentials are fatal before any pipeline stage runs.
func loadConfig(ctx context.Context, path string) (*store.Config, store.Credentials, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, store.Credentials{}, err
	}

	creds, err := store.LoadCredentials(cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Missing credentials", err)
		return nil, store.Credentials{}, err
	}

	return cfg, creds, nil
}

// compressOldLogs compresses old journal files if retention is configured
func compressOldLogs(ctx context.Context, dir string) {
	v := os.Getenv("TRADER_LOG_RETENTION_DAYS")
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn(ctx, "Invalid TRADER_LOG_RETENTION_DAYS", "value", v)
		return
	}
	if err := tradelog.CompressOlder(dir, n); err != nil {
		logger.Warn(ctx, "Failed to compress old logs", "error", err)
	}
}

// pipeline holds the long-lived dependency objects shared by every run.
type pipeline struct {
	source     interfaces.HeadlineSource
	generator  interfaces.Generator
	classifier interfaces.Classifier
	creds      store.Credentials
	journal    *tradelog.Journal
}

func initializePipeline(ctx context.Context, cfg *store.Config, creds store.Credentials, journal *tradelog.Journal) (*pipeline, error) {
	source, err := news.NewSource(cfg, creds)
	if err != nil {
		return nil, fmt.Errorf("news source: %w", err)
	}

	gen, err := llm.NewGenerator(cfg, creds.LLMAPIKey)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}

	classifier := sentiment.NewFinBERT(sentiment.Params{
		Endpoint: cfg.Sentiment.Endpoint,
		Model:    cfg.Sentiment.Model,
		Token:    creds.SentimentToken,
		MaxChars: cfg.Sentiment.MaxInputChars,
		Timeout:  time.Duration(cfg.Sentiment.TimeoutSeconds) * time.Second,
	})

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
	}

	return &pipeline{
		source:     source,
		generator:  gen,
		classifier: classifier,
		creds:      creds,
		journal:    journal,
	}, nil
}

// newEngine builds one run's engine with a fresh ticker cache. The gateway is
// rebuilt per run so a mode override takes effect.
func (p *pipeline) newEngine(cfg *store.Config, stop func() bool) (interfaces.Engine, error) {
	resolver := ticker.NewResolver(p.generator, ticker.NewCache(), cfg.Exchange, interfaces.GenerateOptions{
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})

	eng := engine.New(cfg, engine.Deps{
		Source:     p.source,
		Resolver:   resolver,
		Classifier: p.classifier,
		Broker:     zerodha.NewBroker(cfg, p.creds),
		Journal:    p.journal,
	}, engine.Options{StopRequested: stop})

	return engineobs.Wrap(eng), nil
}
