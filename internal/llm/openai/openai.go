package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"headline-trader/internal/api"
	"headline-trader/internal/interfaces"
)

const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

type Generator struct {
	client   *api.Client
	endpoint string
	model    string
	system   string
	apiKey   string
}

var _ interfaces.Generator = (*Generator)(nil)

func New(endpoint, model, apiKey string, timeout time.Duration) *Generator {
	if endpoint == "" {
		endpoint = DefaultEndpoint
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
		return "", errors.New("OPENAI_API_KEY missing")
	}

	body := map[string]any{
		"model":       g.model,
		"messages":    []map[string]string{{"role": "system", "content": g.system}, {"role": "user", "content": prompt}},
		"temperature": opts.Temperature,
		"max_tokens":  opts.MaxTokens,
	}

	resp, err := g.client.POST(ctx, g.endpoint, body, map[string]string{"Authorization": "Bearer " + g.apiKey})
	if err != nil {
		return "", err
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 {
		return "", errors.New("no choices")
	}

	return strings.TrimSpace(r.Choices[0].Message.Content), nil
}
