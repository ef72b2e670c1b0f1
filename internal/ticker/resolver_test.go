package ticker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"headline-trader/internal/interfaces"
	"headline-trader/internal/types"
)

type fakeGenerator struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	outputs []string
	err     error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, opts interfaces.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	out := f.outputs[0]
	if len(f.outputs) > 1 {
		f.outputs = f.outputs[1:]
	}
	return out, nil
}

func TestResolveCachesByNormalizedHeadline(t *testing.T) {
	gen := &fakeGenerator{outputs: []string{`{"company_name": "Reliance Industries", "ticker_symbol": "RELIANCE"}`}}
	r := NewResolver(gen, nil, "NSE", interfaces.GenerateOptions{MaxTokens: 120})
	ctx := context.Background()

	first, err := r.Resolve(ctx, "Reliance posts record profit")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	second, err := r.Resolve(ctx, "  RELIANCE posts record PROFIT ")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if gen.calls != 1 {
		t.Errorf("Expected exactly 1 generation call, got %d", gen.calls)
	}
	if first != second {
		t.Errorf("Expected identical cached pair, got %+v and %+v", first, second)
	}
	if first.CompanyName != "Reliance Industries" || first.TickerSymbol != "RELIANCE" {
		t.Errorf("Unexpected resolution %+v", first)
	}
	if !strings.Contains(gen.prompts[0], `"Reliance posts record profit"`) || !strings.Contains(gen.prompts[0], "ONLY valid JSON") {
		t.Errorf("Prompt missing headline or instruction: %s", gen.prompts[0])
	}
}

func TestResolveStripsCodeFence(t *testing.T) {
	gen := &fakeGenerator{outputs: []string{"```json\n{\"company_name\": \"Tata Consultancy Services\", \"ticker_symbol\": \"tcs\"}\n```"}}
	r := NewResolver(gen, nil, "NSE", interfaces.GenerateOptions{})

	res, err := r.Resolve(context.Background(), "TCS wins deal")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.TickerSymbol != "TCS" {
		t.Errorf("Expected TCS, got %s", res.TickerSymbol)
	}
}

func TestResolveFailuresAreNotCached(t *testing.T) {
	cases := map[string]*fakeGenerator{
		"call failure":    {err: errors.New("timeout")},
		"not json":        {outputs: []string{"I think it's Reliance"}},
		"missing company": {outputs: []string{`{"ticker_symbol": "RELIANCE"}`}},
		"missing ticker":  {outputs: []string{`{"company_name": "Reliance"}`}},
		"empty ticker":    {outputs: []string{`{"company_name": "Reliance", "ticker_symbol": " "}`}},
	}

	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			r := NewResolver(gen, nil, "NSE", interfaces.GenerateOptions{})
			for i := 0; i < 2; i++ {
				res, err := r.Resolve(context.Background(), "Some headline")
				if !errors.Is(err, types.ErrTickerUnresolved) {
					t.Fatalf("Expected ErrTickerUnresolved, got %v", err)
				}
				if res != (types.TickerResolution{}) {
					t.Errorf("Expected empty resolution, got %+v", res)
				}
			}
			if gen.calls != 2 {
				t.Errorf("Expected a fresh attempt per call, got %d calls", gen.calls)
			}
			if r.Cache().Len() != 0 {
				t.Errorf("Expected empty cache, got %d", r.Cache().Len())
			}
		})
	}
}

func TestResolveEmptyHeadline(t *testing.T) {
	gen := &fakeGenerator{outputs: []string{`{}`}}
	r := NewResolver(gen, nil, "NSE", interfaces.GenerateOptions{})
	if _, err := r.Resolve(context.Background(), "   "); !errors.Is(err, types.ErrTickerUnresolved) {
		t.Errorf("Expected ErrTickerUnresolved, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("Expected no generation call, got %d", gen.calls)
	}
}

func TestStripCodeFence(t *testing.T) {
	want := `{"a":1}`
	inputs := []string{
		`{"a":1}`,
		"```json\n{\"a\":1}\n```",
		"```\n{\"a\":1}\n```",
		"```{\"a\":1}```",
		"```json {\"a\":1}```",
		"  ```JSON\n{\"a\":1}```  ",
	}
	for _, in := range inputs {
		if got := StripCodeFence(in); got != want {
			t.Errorf("StripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseResolutionNormalizesSymbol(t *testing.T) {
	res, err := ParseResolution(`{"company_name": " HDFC Bank ", "ticker_symbol": "NSE:hdfcbank"}`)
	if err != nil {
		t.Fatalf("ParseResolution failed: %v", err)
	}
	if res.CompanyName != "HDFC Bank" || res.TickerSymbol != "HDFCBANK" {
		t.Errorf("Unexpected resolution %+v", res)
	}
}
