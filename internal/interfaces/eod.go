package interfaces

import (
	"context"
	"time"
)

// DaySummarizer aggregates one day's journaled orders into a CSV report.
type DaySummarizer interface {
	// SummarizeDay returns the written CSV path, or "" when the day has no orders.
	SummarizeDay(ctx context.Context, t time.Time) (csvPath string, err error)
}
