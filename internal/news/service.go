package news

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"headline-trader/internal/interfaces"
	"headline-trader/internal/store"
	"headline-trader/internal/types"
)

var publishedLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// parsePublished returns nil when the timestamp is absent or unparsable.
func parsePublished(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// RankRecent orders headlines most recent first and truncates to limit.
// Headlines without a timestamp sort as the earliest; ties keep feed order.
func RankRecent(headlines []types.Headline, limit int) []types.Headline {
	sort.SliceStable(headlines, func(i, j int) bool {
		a, b := headlines[i].PublishedAt, headlines[j].PublishedAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
	if limit >= 0 && len(headlines) > limit {
		headlines = headlines[:limit]
	}
	return headlines
}

// NewSource builds the headline source selected by news.provider.
func NewSource(cfg *store.Config, creds store.Credentials) (interfaces.HeadlineSource, error) {
	timeout := time.Duration(cfg.News.TimeoutSeconds) * time.Second

	switch cfg.News.Provider {
	case "NEWSDATA":
		return NewNewsDataSource(NewsDataParams{
			Endpoint: cfg.News.Endpoint,
			APIKey:   creds.NewsAPIKey,
			Query:    cfg.News.Query,
			Country:  cfg.News.Country,
			Language: cfg.News.Language,
			Category: cfg.News.Category,
			Timeout:  timeout,
		}), nil
	case "SCRAPE":
		return NewScrapeSource(ScrapeTarget{
			Name: "scrape",
			URL:  cfg.News.Scrape.URL,
			Selectors: ArticleSelectors{
				ArticleContainer: cfg.News.Scrape.ArticleContainer,
				Title:            cfg.News.Scrape.Title,
				PublishedAt:      cfg.News.Scrape.PublishedAt,
			},
		}, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported news provider: %s", cfg.News.Provider)
	}
}
