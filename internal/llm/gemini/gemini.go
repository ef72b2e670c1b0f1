package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"headline-trader/internal/api"
	"headline-trader/internal/interfaces"
)

const DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// Generator calls the Gemini generateContent API
type Generator struct {
	client   *api.Client
	endpoint string
	model    string
	apiKey   string
}

var _ interfaces.Generator = (*Generator)(nil)

func New(endpoint, model, apiKey string, timeout time.Duration) *Generator {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Generator{
		client:   api.NewClient(api.WithTimeout(timeout), api.WithLogging(true)),
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		apiKey:   apiKey,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func (g *Generator) Generate(ctx context.Context, prompt string, opts interfaces.GenerateOptions) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("gemini api key missing")
	}

	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxTokens,
		},
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.endpoint, g.model)
	resp, err := g.client.POST(ctx, url, body, map[string]string{"x-goog-api-key": g.apiKey})
	if err != nil {
		return "", err
	}

	var r generateResponse
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	if r.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini blocked prompt: %s", r.PromptFeedback.BlockReason)
	}
	if len(r.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("gemini returned empty text (finish reason %s)", r.Candidates[0].FinishReason)
	}
	return out, nil
}
