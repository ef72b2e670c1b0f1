package tradelog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"headline-trader/internal/types"
)

const DefaultBuffer = 500

// Entry is one decoded journal record.
type Entry map[string]any

func (e Entry) Message() string {
	s, _ := e["msg"].(string)
	return s
}

// Journal is the operator-facing run log. Every record is kept in a bounded
// in-memory ring for the control surface and, when Dir is set, appended as
// JSON lines to a daily file.
type Journal struct {
	log   *zap.Logger
	ring  *ring
	daily *dailyWriter
}

type JournalConfig struct {
	Dir    string // empty disables the file sink
	Buffer int
}

func NewJournal(cfg JournalConfig) (*Journal, error) {
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultBuffer
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")

	j := &Journal{ring: newRing(cfg.Buffer)}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(j.ring), zapcore.InfoLevel),
	}
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
		j.daily = &dailyWriter{dir: cfg.Dir}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), j.daily, zapcore.InfoLevel))
	}
	j.log = zap.New(zapcore.NewTee(cores...))
	return j, nil
}

func (j *Journal) RunStarted(runID, mode string) {
	j.log.Info("run started", zap.String("run_id", runID), zap.String("mode", mode))
}

func (j *Journal) FetchFailed(runID string, err error) {
	j.log.Warn("headline fetch failed", zap.String("run_id", runID), zap.Error(err))
}

// Record journals the outcome of one headline.
func (j *Journal) Record(runID string, r types.HeadlineResult) {
	fields := []zap.Field{
		zap.String("run_id", runID),
		zap.Int("index", r.Index),
		zap.String("headline", r.Headline.Title),
		zap.String("outcome", string(r.Outcome)),
	}
	if r.Resolution != nil {
		fields = append(fields, zap.String("company", r.Resolution.CompanyName), zap.String("symbol", r.Resolution.TickerSymbol))
	}
	if r.Sentiment != nil {
		fields = append(fields, zap.String("label", string(r.Sentiment.Label)), zap.Float64("confidence", r.Sentiment.Confidence))
	}
	if r.Decision != nil {
		fields = append(fields, zap.Int("qty", r.Decision.Quantity), zap.Float64("price", r.Decision.UnitPrice))
	}
	if r.Order != nil {
		fields = append(fields, zap.String("order_id", r.Order.OrderID), zap.String("status", r.Order.Status))
	}
	if r.Reason != "" {
		fields = append(fields, zap.String("reason", r.Reason))
	}

	switch r.Outcome {
	case types.OutcomeOrderPlaced:
		j.log.Info("order placed", fields...)
	case types.OutcomeGatewayFailed:
		j.log.Error("order failed", fields...)
	default:
		j.log.Info("headline skipped", fields...)
	}
}

func (j *Journal) RunFinished(s *types.RunSummary) {
	j.log.Info("run finished",
		zap.String("run_id", s.RunID),
		zap.String("status", string(s.Status)),
		zap.Int("fetched", s.HeadlinesFetched),
		zap.Int("processed", s.HeadlinesProcessed),
		zap.Int("positive", s.PositiveSentiment),
		zap.Int("trades", s.TradesExecuted),
		zap.Int("failed", s.OrdersFailed),
		zap.Duration("elapsed", s.Elapsed),
	)
}

// RecentEntries returns up to n of the newest records, oldest first.
// n <= 0 returns everything buffered.
func (j *Journal) RecentEntries(n int) []Entry {
	lines := j.ring.last(n)
	out := make([]Entry, 0, len(lines))
	for _, l := range lines {
		var e Entry
		if err := json.Unmarshal(l, &e); err == nil {
			out = append(out, e)
		}
	}
	return out
}

func (j *Journal) Close() error {
	_ = j.log.Sync()
	if j.daily != nil {
		return j.daily.Close()
	}
	return nil
}

// ring keeps the last size encoded records.
type ring struct {
	mu    sync.Mutex
	lines [][]byte
	next  int
	full  bool
}

func newRing(size int) *ring {
	return &ring{lines: make([][]byte, size)}
}

func (r *ring) Write(p []byte) (int, error) {
	// zap reuses its buffer after Write returns
	line := append([]byte(nil), p...)
	r.mu.Lock()
	r.lines[r.next] = line
	r.next = (r.next + 1) % len(r.lines)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()
	return len(p), nil
}

func (r *ring) last(n int) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ordered [][]byte
	if r.full {
		ordered = append(ordered, r.lines[r.next:]...)
	}
	ordered = append(ordered, r.lines[:r.next]...)
	if n > 0 && n < len(ordered) {
		ordered = ordered[len(ordered)-n:]
	}
	return ordered
}

// dailyWriter appends to <dir>/<IST date>.txt, switching files at midnight.
type dailyWriter struct {
	mu   sync.Mutex
	dir  string
	path string
	f    *os.File
}

func (w *dailyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := DailyFilepath(w.dir, time.Now())
	if w.f == nil || path != w.path {
		if w.f != nil {
			_ = w.f.Close()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return 0, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return 0, err
		}
		w.f, w.path = f, path
	}
	return w.f.Write(p)
}

func (w *dailyWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	return w.f.Sync()
}

func (w *dailyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}
