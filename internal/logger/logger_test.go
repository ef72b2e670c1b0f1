package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func captureJSON(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := InitWithConfig(LogConfig{Level: level, Format: "json", Output: &buf}); err != nil {
		t.Fatalf("InitWithConfig failed: %v", err)
	}
	t.Cleanup(func() { _ = InitWithConfig(LogConfig{Level: "INFO", Format: "text"}) })
	return &buf
}

func TestInfoWritesStructuredFields(t *testing.T) {
	buf := captureJSON(t, "INFO")

	Info(context.Background(), "Headline skipped", "outcome", "DUPLICATE", "index", 2)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("Expected JSON log line, got %q", buf.String())
	}
	if rec["msg"] != "Headline skipped" || rec["outcome"] != "DUPLICATE" || rec["index"] != float64(2) {
		t.Errorf("Unexpected record %v", rec)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureJSON(t, "WARN")

	Info(context.Background(), "hidden")
	ErrorWithErr(context.Background(), "Order failed", errors.New("rejected"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Expected info to be filtered at WARN")
	}
	if !strings.Contains(out, `"error":"rejected"`) {
		t.Errorf("Expected error field, got %s", out)
	}
}

func TestDecisionAndTradeAlwaysLogged(t *testing.T) {
	buf := captureJSON(t, "INFO")

	Decision(context.Background(), "RELIANCE", "BUY", 0.91, "8 x 2847.50 within capital 25000.00")
	Trade(context.Background(), "RELIANCE", "BUY", 8, 2847.50, "SIM-1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"type":"DECISION"`) || !strings.Contains(lines[1], `"order_id":"SIM-1"`) {
		t.Errorf("Unexpected output %s", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	if parseLogLevel("debug").String() != "DEBUG" || parseLogLevel("bogus").String() != "INFO" {
		t.Error("Unexpected level parsing")
	}
}

func TestOperationTimerEndWithError(t *testing.T) {
	buf := captureJSON(t, "INFO")

	op := StartOperation(context.Background(), "engine.processHeadline", "index", 3)
	if op.Context() == nil {
		t.Fatal("Expected operation context")
	}
	op.EndWithError(errors.New("gateway down"), "outcome", "GATEWAY_FAILED")

	out := buf.String()
	if !strings.Contains(out, `"msg":"Operation failed"`) || !strings.Contains(out, `"outcome":"GATEWAY_FAILED"`) {
		t.Errorf("Expected failed operation record, got %s", out)
	}
	if !strings.Contains(out, `"index":3`) {
		t.Errorf("Expected start fields carried to the end record, got %s", out)
	}
}

func TestIsDebugEnabledFollowsConfig(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithConfig(LogConfig{Level: "DEBUG", Format: "json", Output: &buf, DetailedLogging: true}); err != nil {
		t.Fatalf("InitWithConfig failed: %v", err)
	}
	t.Cleanup(func() { _ = InitWithConfig(LogConfig{Level: "INFO", Format: "text"}) })

	if !IsDebugEnabled() {
		t.Error("Expected debug enabled with detailed logging")
	}
	WarnSkip(context.Background(), 0, "Order simulated", "symbol", "TCS")
	if !strings.Contains(buf.String(), `"symbol":"TCS"`) {
		t.Errorf("Expected warn record, got %s", buf.String())
	}
}
