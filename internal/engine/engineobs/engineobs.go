package engineobs

import (
	"context"
	"time"

	"headline-trader/internal/interfaces"
	"headline-trader/internal/logger"
	"headline-trader/internal/trace"
	"headline-trader/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Run(ctx context.Context) (*types.RunSummary, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Run")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting headline run")

	summary, err := oe.engine.Run(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Headline run failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Headline run completed",
		"run_id", summary.RunID,
		"status", summary.Status,
		"processed", summary.HeadlinesProcessed,
		"trades", summary.TradesExecuted,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return summary, nil
}
