package tradelog

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"headline-trader/internal/types"
)

func TestJournalRecentEntriesOrderAndBound(t *testing.T) {
	j, err := NewJournal(JournalConfig{Buffer: 3})
	if err != nil {
		t.Fatalf("NewJournal failed: %v", err)
	}
	defer j.Close()

	for i := 0; i < 5; i++ {
		j.Record("run-1", types.HeadlineResult{Index: i, Outcome: types.OutcomePolicyRejected, Reason: "low confidence"})
	}

	got := j.RecentEntries(0)
	if len(got) != 3 {
		t.Fatalf("Expected 3 buffered entries, got %d", len(got))
	}
	// JSON numbers decode as float64
	if got[0]["index"] != float64(2) || got[2]["index"] != float64(4) {
		t.Errorf("Expected indexes 2..4 oldest first, got %v..%v", got[0]["index"], got[2]["index"])
	}

	last := j.RecentEntries(1)
	if len(last) != 1 || last[0]["index"] != float64(4) {
		t.Errorf("Expected newest entry only, got %v", last)
	}
}

func TestJournalRecordFields(t *testing.T) {
	j, _ := NewJournal(JournalConfig{Buffer: 10})
	defer j.Close()

	j.RunStarted("run-2", "DRY_RUN")
	j.Record("run-2", types.HeadlineResult{
		Index:      0,
		Headline:   types.Headline{Title: "Reliance Industries reports record quarterly profit"},
		Resolution: &types.TickerResolution{CompanyName: "Reliance Industries", TickerSymbol: "RELIANCE"},
		Sentiment:  &types.SentimentResult{Label: types.LabelPositive, Confidence: 0.93},
		Decision:   &types.TradeDecision{Symbol: "RELIANCE", Quantity: 8, UnitPrice: 2847.5, Action: types.ActionBuy},
		Order:      &types.OrderRecord{OrderID: "SIM-1", Status: "SIMULATED"},
		Outcome:    types.OutcomeOrderPlaced,
	})
	j.FetchFailed("run-2", errors.New("boom"))

	entries := j.RecentEntries(0)
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Message() != "run started" {
		t.Errorf("Expected run started, got %s", entries[0].Message())
	}
	order := entries[1]
	if order.Message() != "order placed" || order["symbol"] != "RELIANCE" || order["order_id"] != "SIM-1" {
		t.Errorf("Unexpected order entry: %v", order)
	}
	if entries[2]["level"] != "warn" {
		t.Errorf("Expected warn level, got %v", entries[2]["level"])
	}
}

func TestJournalWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	j, err := NewJournal(JournalConfig{Dir: dir, Buffer: 10})
	if err != nil {
		t.Fatalf("NewJournal failed: %v", err)
	}
	j.RunFinished(&types.RunSummary{RunID: "run-3", Status: types.RunCompleted})
	if err := j.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	b, err := os.ReadFile(DailyFilepath(dir, time.Now()))
	if err != nil {
		t.Fatalf("Expected daily file: %v", err)
	}
	if !strings.Contains(string(b), `"run_id":"run-3"`) {
		t.Errorf("Expected run id in file, got %s", b)
	}
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "2020-01-01.txt")
	fresh := filepath.Join(dir, "today.txt")
	for _, p := range []string{old, fresh} {
		if err := os.WriteFile(p, []byte(`{"msg":"x"}`+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().AddDate(0, 0, -10)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	if err := CompressOlder(dir, 7); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("Expected old file to be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("Expected fresh file to be kept")
	}

	f, err := os.Open(old + ".gz")
	if err != nil {
		t.Fatalf("Expected gzip file: %v", err)
	}
	defer f.Close()
	if _, err := gzip.NewReader(f); err != nil {
		t.Errorf("Expected valid gzip, got %v", err)
	}
}
