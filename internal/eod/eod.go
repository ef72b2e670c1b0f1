package eod

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"headline-trader/internal/interfaces"
	"headline-trader/internal/tradelog"
)

const orderPlacedMsg = "order placed"

// orderLine is the subset of a journal record describing a placed order.
type orderLine struct {
	Msg     string  `json:"msg"`
	RunID   string  `json:"run_id"`
	Symbol  string  `json:"symbol"`
	Qty     int     `json:"qty"`
	Price   float64 `json:"price"`
	OrderID string  `json:"order_id"`
	Status  string  `json:"status"`
}

type aggRow struct {
	Symbol    string
	Orders    int
	Qty       int
	Value     float64
	Simulated int
}

type summarizer struct {
	dir string
}

var _ interfaces.DaySummarizer = (*summarizer)(nil)

// NewSummarizer reads journal files from dir and writes reports to dir/eod.
func NewSummarizer(dir string) interfaces.DaySummarizer {
	return &summarizer{dir: dir}
}

func (s *summarizer) csvPath(t time.Time) string {
	d := t.In(time.FixedZone("IST", 19800)).Format("2006-01-02")
	return filepath.Join(s.dir, "eod", d+".csv")
}

func (s *summarizer) SummarizeDay(ctx context.Context, t time.Time) (string, error) {
	aggs, err := s.aggregate(tradelog.DailyFilepath(s.dir, t))
	if err != nil || len(aggs) == 0 {
		return "", err
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := s.csvPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write([]string{"symbol", "orders", "qty", "avg_price", "gross_value", "simulated"}); err != nil {
		return "", err
	}

	var totalOrders, totalQty, totalSim int
	var totalValue float64
	for _, k := range keys {
		r := aggs[k]
		var avg float64
		if r.Qty > 0 {
			avg = r.Value / float64(r.Qty)
		}
		rec := []string{r.Symbol, strconv.Itoa(r.Orders), strconv.Itoa(r.Qty), fmt.Sprintf("%.4f", avg), fmt.Sprintf("%.2f", r.Value), strconv.Itoa(r.Simulated)}
		if err := w.Write(rec); err != nil {
			return "", err
		}
		totalOrders += r.Orders
		totalQty += r.Qty
		totalValue += r.Value
		totalSim += r.Simulated
	}
	_ = w.Write([]string{"TOTAL", strconv.Itoa(totalOrders), strconv.Itoa(totalQty), "", fmt.Sprintf("%.2f", totalValue), strconv.Itoa(totalSim)})

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return outPath, nil
}

func (s *summarizer) aggregate(path string) (map[string]*aggRow, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	aggs := map[string]*aggRow{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var ol orderLine
		if err := json.Unmarshal(sc.Bytes(), &ol); err != nil || ol.Msg != orderPlacedMsg || ol.Symbol == "" {
			continue
		}
		row := aggs[ol.Symbol]
		if row == nil {
			row = &aggRow{Symbol: ol.Symbol}
			aggs[ol.Symbol] = row
		}
		row.Orders++
		row.Qty += ol.Qty
		row.Value += float64(ol.Qty) * ol.Price
		if ol.Status == "SIMULATED" {
			row.Simulated++
		}
	}
	return aggs, sc.Err()
}
