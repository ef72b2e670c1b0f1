package claude

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"headline-trader/internal/interfaces"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "ck" || r.Header.Get("anthropic-version") == "" {
			t.Errorf("Missing anthropic headers: %v", r.Header)
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"{\"company_name\":\"X\","},{"type":"text","text":"\"ticker_symbol\":\"X\"}"}]}`))
	}))
	defer srv.Close()

	out, err := New(srv.URL, "claude-3-5-haiku-latest", "ck", time.Second).Generate(context.Background(), "p", interfaces.GenerateOptions{MaxTokens: 120})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != `{"company_name":"X","ticker_symbol":"X"}` {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestGenerateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", 529)
	}))
	defer srv.Close()

	if _, err := New(srv.URL, "m", "ck", time.Second).Generate(context.Background(), "p", interfaces.GenerateOptions{}); err == nil {
		t.Error("Expected error on HTTP failure")
	}
}
