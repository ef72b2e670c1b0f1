package ticker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"headline-trader/internal/interfaces"
	"headline-trader/internal/logger"
	"headline-trader/internal/trace"
	"headline-trader/internal/types"
)

const promptTemplate = "You are a seasoned financial analyst specializing in Indian stock markets.\n\n" +
	"Headline: %q\n\n" +
	"Identify the company most relevant to this headline and its %s ticker symbol.\n" +
	"Return ONLY valid JSON with exactly these fields:\n" +
	`{"company_name": "Full Official Company Name", "ticker_symbol": "%s_SYMBOL"}`

// Resolver maps a free-text headline to a company and its exchange ticker
// using a text generation service. Successful resolutions are cached;
// failures are not.
type Resolver struct {
	gen      interfaces.Generator
	cache    *Cache
	exchange string
	opts     interfaces.GenerateOptions
}

var _ interfaces.TickerResolver = (*Resolver)(nil)

func NewResolver(gen interfaces.Generator, cache *Cache, exchange string, opts interfaces.GenerateOptions) *Resolver {
	if cache == nil {
		cache = NewCache()
	}
	if exchange == "" {
		exchange = "NSE"
	}
	return &Resolver{gen: gen, cache: cache, exchange: exchange, opts: opts}
}

func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve returns the cached resolution when present. Otherwise it issues a
// single extraction request. Every failure is reported as ErrTickerUnresolved.
func (r *Resolver) Resolve(ctx context.Context, headline string) (types.TickerResolution, error) {
	if res, ok := r.cache.Get(headline); ok {
		logger.Debug(ctx, "Ticker cache hit", "headline", headline, "symbol", res.TickerSymbol)
		return res, nil
	}
	if strings.TrimSpace(headline) == "" {
		return types.TickerResolution{}, fmt.Errorf("%w: empty headline", types.ErrTickerUnresolved)
	}

	ctx, span := trace.StartSpan(ctx, "ticker.Resolve")
	defer span.End()

	prompt := fmt.Sprintf(promptTemplate, headline, r.exchange, r.exchange)
	raw, err := r.gen.Generate(ctx, prompt, r.opts)
	if err != nil {
		return types.TickerResolution{}, fmt.Errorf("%w: generation failed: %v", types.ErrTickerUnresolved, err)
	}

	res, err := ParseResolution(raw)
	if err != nil {
		logger.Warn(ctx, "Unusable ticker extraction output", "headline", headline, "output", raw, "error", err)
		return types.TickerResolution{}, fmt.Errorf("%w: %v", types.ErrTickerUnresolved, err)
	}

	return r.cache.Put(headline, res), nil
}

// ParseResolution parses the model output, tolerating a surrounding code fence.
func ParseResolution(raw string) (types.TickerResolution, error) {
	var fields struct {
		CompanyName  *string `json:"company_name"`
		TickerSymbol *string `json:"ticker_symbol"`
	}
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &fields); err != nil {
		return types.TickerResolution{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if fields.CompanyName == nil || strings.TrimSpace(*fields.CompanyName) == "" {
		return types.TickerResolution{}, fmt.Errorf("missing company_name")
	}
	if fields.TickerSymbol == nil || normalizeSymbol(*fields.TickerSymbol) == "" {
		return types.TickerResolution{}, fmt.Errorf("missing ticker_symbol")
	}
	return types.TickerResolution{
		CompanyName:  strings.TrimSpace(*fields.CompanyName),
		TickerSymbol: normalizeSymbol(*fields.TickerSymbol),
	}, nil
}

// StripCodeFence removes a leading ``` or ```json line and a trailing ```.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.HasPrefix(strings.TrimSpace(s[:i]), "{") {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "json")
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// normalizeSymbol upper-cases the symbol and drops an "EXCHANGE:" prefix.
func normalizeSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
