package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"headline-trader/internal/api"
	"headline-trader/internal/interfaces"
	"headline-trader/internal/logger"
	"headline-trader/internal/types"
)

// NewsDataSource fetches the latest business headlines from the NewsData.io API.
type NewsDataSource struct {
	client   *api.Client
	endpoint string
	params   url.Values
}

var _ interfaces.HeadlineSource = (*NewsDataSource)(nil)

// NewsDataParams holds the fixed feed query.
type NewsDataParams struct {
	Endpoint string
	APIKey   string
	Query    string
	Country  string
	Language string
	Category string
	Timeout  time.Duration
}

func NewNewsDataSource(p NewsDataParams) *NewsDataSource {
	return &NewsDataSource{
		client: api.NewClient(
			api.WithTimeout(p.Timeout),
			api.WithLogging(true),
		),
		endpoint: p.Endpoint,
		params: url.Values{
			"apikey":   {p.APIKey},
			"q":        {p.Query},
			"country":  {p.Country},
			"language": {p.Language},
			"category": {p.Category},
		},
	}
}

type newsDataResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Results json.RawMessage `json:"results"`
}

type newsDataArticle struct {
	Title   *string `json:"title"`
	PubDate string  `json:"pubDate"`
}

// FetchRecent returns at most limit headlines, most recent first. Any upstream
// failure is reported as ErrFeedUnavailable with no headlines.
func (s *NewsDataSource) FetchRecent(ctx context.Context, limit int) ([]types.Headline, error) {
	resp, err := s.client.GET(ctx, s.endpoint, s.params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFeedUnavailable, err)
	}

	var body newsDataResponse
	if err := resp.ParseJSON(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFeedUnavailable, err)
	}
	if body.Status != "success" {
		return nil, fmt.Errorf("%w: status %q: %s", types.ErrFeedUnavailable, body.Status, errorMessage(body))
	}

	var articles []newsDataArticle
	if len(body.Results) > 0 && string(body.Results) != "null" {
		if err := json.Unmarshal(body.Results, &articles); err != nil {
			return nil, fmt.Errorf("%w: malformed results: %v", types.ErrFeedUnavailable, err)
		}
	}

	headlines := make([]types.Headline, 0, len(articles))
	dropped := 0
	for _, a := range articles {
		if a.Title == nil || strings.TrimSpace(*a.Title) == "" {
			dropped++
			continue
		}
		headlines = append(headlines, types.Headline{
			Title:       strings.TrimSpace(*a.Title),
			PublishedAt: parsePublished(a.PubDate),
			Source:      "newsdata",
		})
	}
	if dropped > 0 {
		logger.Debug(ctx, "Dropped feed items without title", "count", dropped)
	}

	return RankRecent(headlines, limit), nil
}

func errorMessage(body newsDataResponse) string {
	if body.Message != "" {
		return body.Message
	}
	var detail struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body.Results, &detail); err == nil && detail.Message != "" {
		return detail.Message
	}
	return "no message"
}
