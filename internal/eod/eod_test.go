package eod

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"headline-trader/internal/tradelog"
	"headline-trader/internal/types"
)

func TestSummarizeDayAggregatesPlacedOrders(t *testing.T) {
	dir := t.TempDir()
	j, err := tradelog.NewJournal(tradelog.JournalConfig{Dir: dir})
	if err != nil {
		t.Fatalf("NewJournal failed: %v", err)
	}
	place := func(symbol string, qty int, price float64, status string) {
		j.Record("run-1", types.HeadlineResult{
			Resolution: &types.TickerResolution{TickerSymbol: symbol},
			Decision:   &types.TradeDecision{Symbol: symbol, Quantity: qty, UnitPrice: price, Action: types.ActionBuy},
			Order:      &types.OrderRecord{OrderID: "x", Symbol: symbol, Quantity: qty, Status: status},
			Outcome:    types.OutcomeOrderPlaced,
		})
	}
	place("RELIANCE", 8, 2847.50, "SIMULATED")
	place("TCS", 7, 3500, "PLACED")
	place("RELIANCE", 2, 2850, "PLACED")
	j.Record("run-1", types.HeadlineResult{Outcome: types.OutcomePolicyRejected, Reason: "low confidence"})
	j.Close()

	path, err := NewSummarizer(dir).SummarizeDay(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("SummarizeDay failed: %v", err)
	}
	if path == "" {
		t.Fatal("Expected a report path")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Expected report file: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Bad CSV: %v", err)
	}

	if len(rows) != 4 {
		t.Fatalf("Expected header, 2 symbols and total, got %d rows", len(rows))
	}
	rel := rows[1]
	if rel[0] != "RELIANCE" || rel[1] != "2" || rel[2] != "10" || rel[4] != "28480.00" || rel[5] != "1" {
		t.Errorf("Unexpected RELIANCE row %v", rel)
	}
	total := rows[3]
	if total[0] != "TOTAL" || total[1] != "3" || total[2] != "17" {
		t.Errorf("Unexpected total row %v", total)
	}
}

func TestSummarizeDayWithoutJournal(t *testing.T) {
	dir := t.TempDir()
	path, err := NewSummarizer(dir).SummarizeDay(context.Background(), time.Now())
	if err != nil || path != "" {
		t.Errorf("Expected no report and no error, got %q %v", path, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "eod")); !os.IsNotExist(err) {
		t.Error("Expected no eod directory")
	}
}
