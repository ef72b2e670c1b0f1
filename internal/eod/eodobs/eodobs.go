package eodobs

import (
	"context"
	"time"

	"headline-trader/internal/interfaces"
	"headline-trader/internal/logger"
	"headline-trader/internal/trace"
)

type observableSummarizer struct {
	summarizer interfaces.DaySummarizer
}

var _ interfaces.DaySummarizer = (*observableSummarizer)(nil)

func Wrap(summarizer interfaces.DaySummarizer) interfaces.DaySummarizer {
	return &observableSummarizer{
		summarizer: summarizer,
	}
}

func (oes *observableSummarizer) SummarizeDay(ctx context.Context, t time.Time) (string, error) {
	ctx, span := trace.StartSpan(ctx, "eod.SummarizeDay")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Generating daily order report", "date", t.Format("2006-01-02"))

	path, err := oes.summarizer.SummarizeDay(ctx, t)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Daily order report failed", err, "date", t.Format("2006-01-02"))
		return "", err
	}

	if path == "" {
		logger.DebugSkip(ctx, 1, "No orders to report", "date", t.Format("2006-01-02"))
		return "", nil
	}

	logger.InfoSkip(ctx, 1, "Daily order report written", "path", path)
	return path, nil
}
