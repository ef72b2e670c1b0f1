package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"headline-trader/internal/types"
)

const listingHTML = `<html><body>
<ul>
  <li class="story"><h2><a href="/a">Infosys wins large deal</a></h2><time datetime="2025-03-01T10:00:00Z">1 Mar</time></li>
  <li class="story"><h2><a href="/b"></a></h2><time datetime="2025-03-02T10:00:00Z">2 Mar</time></li>
  <li class="story"><h2><a href="/c">TCS posts record profit</a></h2><time datetime="2025-03-03T10:00:00Z">3 Mar</time></li>
  <li class="story"><h2><a href="/d">Undated story</a></h2></li>
</ul>
</body></html>`

func TestScrapeSourceFetchRecent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Language") == "" {
			t.Error("Expected browser headers on the scrape request")
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(listingHTML))
	}))
	defer srv.Close()

	src := NewScrapeSource(ScrapeTarget{
		Name: "test",
		URL:  srv.URL + "/markets",
		Selectors: ArticleSelectors{
			ArticleContainer: "li.story",
			Title:            "h2 a",
			PublishedAt:      "time",
		},
	}, 5*time.Second)

	got, err := src.FetchRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchRecent failed: %v", err)
	}

	want := []string{"TCS posts record profit", "Infosys wins large deal", "Undated story"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d headlines, got %d: %+v", len(want), len(got), got)
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("Position %d: expected %q, got %q", i, title, got[i].Title)
		}
	}
	if got[0].Source != "test" {
		t.Errorf("Expected source test, got %s", got[0].Source)
	}
}

func TestScrapeSourceUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewScrapeSource(ScrapeTarget{
		Name:      "test",
		URL:       srv.URL,
		Selectors: ArticleSelectors{ArticleContainer: "li", Title: "a"},
	}, 5*time.Second)

	got, err := src.FetchRecent(context.Background(), 10)
	if !errors.Is(err, types.ErrFeedUnavailable) {
		t.Errorf("Expected ErrFeedUnavailable, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no headlines, got %d", len(got))
	}
}
