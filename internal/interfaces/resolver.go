package interfaces

import (
	"context"

	"headline-trader/internal/types"
)

type TickerResolver interface {
	Resolve(ctx context.Context, headline string) (types.TickerResolution, error)
}

type Classifier interface {
	Classify(ctx context.Context, text string) (types.SentimentResult, error)
}
