package claude

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"headline-trader/internal/api"
	"headline-trader/internal/interfaces"
)

const (
	DefaultEndpoint  = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

// Generator implements text generation using the Anthropic messages API
type Generator struct {
	client   *api.Client
	endpoint string
	model    string
	system   string
	apiKey   string
}

var _ interfaces.Generator = (*Generator)(nil)

// New creates a Claude generator. A proxy endpoint may be supplied through
// CLAUDE_API_ENDPOINT when endpoint is empty.
func New(endpoint, model, apiKey string, timeout time.Duration) *Generator {
	if endpoint == "" {
		endpoint = DefaultEndpoint
		if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
			endpoint = ep
		}
	}
	return &Generator{
		client:   api.NewClient(api.WithTimeout(timeout), api.WithLogging(true)),
		endpoint: endpoint,
		model:    model,
		system:   "You are a precise financial data extraction assistant. Output strict JSON only.",
		apiKey:   apiKey,
	}
}

func (g *Generator) Generate(ctx context.Context, prompt string, opts interfaces.GenerateOptions) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("CLAUDE_API_KEY missing")
	}

	body := map[string]any{
		"model":       g.model,
		"system":      g.system,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"max_tokens":  opts.MaxTokens,
		"temperature": opts.Temperature,
	}

	resp, err := g.client.POST(ctx, g.endpoint, body, map[string]string{
		"x-api-key":         g.apiKey,
		"anthropic-version": anthropicVersion,
	})
	if err != nil {
		return "", err
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.New("claude returned no text content")
	}
	return out, nil
}
