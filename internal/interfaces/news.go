package interfaces

import (
	"context"

	"headline-trader/internal/types"
)

// HeadlineSource returns recent headlines, most recent first, at most limit.
type HeadlineSource interface {
	FetchRecent(ctx context.Context, limit int) ([]types.Headline, error)
}
