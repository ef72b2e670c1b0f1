package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"headline-trader/internal/api"
	"headline-trader/internal/interfaces"
	"headline-trader/internal/trace"
	"headline-trader/internal/types"
)

// FinBERT classifies financial text with a hosted three-class
// (positive/negative/neutral) sequence classifier served over the
// Hugging Face inference protocol.
type FinBERT struct {
	client   *api.Client
	url      string
	token    string
	maxChars int
}

var _ interfaces.Classifier = (*FinBERT)(nil)

type Params struct {
	Endpoint string // base URL; the model id is appended
	Model    string
	Token    string
	MaxChars int // input budget in runes, kept well under the 512 token window
	Timeout  time.Duration
}

func NewFinBERT(p Params) *FinBERT {
	return &FinBERT{
		client:   api.NewClient(api.WithTimeout(p.Timeout), api.WithLogging(true)),
		url:      strings.TrimRight(p.Endpoint, "/") + "/" + p.Model,
		token:    p.Token,
		maxChars: p.MaxChars,
	}
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the winning label and its probability. Any failure is
// reported as ErrClassifierFailed.
func (f *FinBERT) Classify(ctx context.Context, text string) (types.SentimentResult, error) {
	ctx, span := trace.StartSpan(ctx, "sentiment.Classify")
	defer span.End()

	input := Truncate(text, f.maxChars)
	if input == "" {
		return types.SentimentResult{}, fmt.Errorf("%w: empty input", types.ErrClassifierFailed)
	}

	body := map[string]any{
		"inputs":  input,
		"options": map[string]bool{"wait_for_model": true},
	}
	resp, err := f.client.POST(ctx, f.url, body, map[string]string{"Authorization": "Bearer " + f.token})
	if err != nil {
		return types.SentimentResult{}, fmt.Errorf("%w: %v", types.ErrClassifierFailed, err)
	}

	scores, err := decodeScores(resp.Body)
	if err != nil {
		return types.SentimentResult{}, fmt.Errorf("%w: %v", types.ErrClassifierFailed, err)
	}
	return Winner(scores)
}

// decodeScores accepts both the batched [[...]] and flat [...] shapes.
func decodeScores(b []byte) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(b, &nested); err == nil {
		if len(nested) == 0 {
			return nil, errors.New("empty prediction batch")
		}
		return nested[0], nil
	}
	var flat []labelScore
	if err := json.Unmarshal(b, &flat); err != nil {
		return nil, fmt.Errorf("unexpected response: %w", err)
	}
	return flat, nil
}

// Winner picks the label with the highest probability.
func Winner(scores []labelScore) (types.SentimentResult, error) {
	if len(scores) == 0 {
		return types.SentimentResult{}, fmt.Errorf("%w: no label scores", types.ErrClassifierFailed)
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	if best.Score < 0 || best.Score > 1 {
		return types.SentimentResult{}, fmt.Errorf("%w: probability %f out of range", types.ErrClassifierFailed, best.Score)
	}
	return types.SentimentResult{Label: types.ParseLabel(best.Label), Confidence: best.Score}, nil
}

// Truncate trims text to at most maxChars runes, backing off to the last
// word boundary when one exists. Inner whitespace is left untouched.
func Truncate(text string, maxChars int) string {
	text = strings.TrimSpace(text)
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	cut := runes[:maxChars]
	for i := len(cut) - 1; i > 0 && !unicode.IsSpace(runes[maxChars]); i-- {
		if unicode.IsSpace(cut[i]) {
			cut = cut[:i]
			break
		}
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace)
}
