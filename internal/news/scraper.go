package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"headline-trader/internal/api"
	"headline-trader/internal/interfaces"
	"headline-trader/internal/logger"
	"headline-trader/internal/types"
)

// ScrapeTarget describes a headline listing page
type ScrapeTarget struct {
	Name      string
	URL       string
	Selectors ArticleSelectors
}

// ArticleSelectors defines CSS selectors for extracting headline data
type ArticleSelectors struct {
	ArticleContainer string
	Title            string
	PublishedAt      string // optional; the datetime attribute wins over text
}

// ScrapeSource scrapes headlines from a listing page
type ScrapeSource struct {
	target  ScrapeTarget
	timeout time.Duration
}

var _ interfaces.HeadlineSource = (*ScrapeSource)(nil)

func NewScrapeSource(target ScrapeTarget, timeout time.Duration) *ScrapeSource {
	return &ScrapeSource{target: target, timeout: timeout}
}

func (s *ScrapeSource) FetchRecent(ctx context.Context, limit int) ([]types.Headline, error) {
	headlines := []types.Headline{}
	sel := s.target.Selectors

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(s.target.URL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		for k, v := range api.BrowserHeaders() {
			r.Headers.Set(k, v)
		}
	})

	c.OnHTML(sel.ArticleContainer, func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.ChildText(sel.Title))
		if title == "" {
			return
		}
		var published *time.Time
		if sel.PublishedAt != "" {
			published = parsePublished(publishedText(e.DOM.Find(sel.PublishedAt).First()))
		}
		headlines = append(headlines, types.Headline{
			Title:       title,
			PublishedAt: published,
			Source:      s.target.Name,
		})
	})

	var scrapeErr error
	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = err
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", s.target.Name, "url", r.Request.URL.String())
	})

	if err := c.Visit(s.target.URL); err != nil {
		return nil, fmt.Errorf("%w: failed to visit %s: %v", types.ErrFeedUnavailable, s.target.URL, err)
	}
	c.Wait()

	if scrapeErr != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFeedUnavailable, scrapeErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFeedUnavailable, err)
	}

	logger.Info(ctx, "Headline scraping completed", "source", s.target.Name, "headlines", len(headlines))
	return RankRecent(headlines, limit), nil
}

func publishedText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(sel.AttrOr("datetime", sel.Text()))
}

// getDomain extracts domain from URL
func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
