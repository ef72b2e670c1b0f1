package interfaces

import (
	"context"

	"headline-trader/internal/types"
)

type Engine interface {
	Run(ctx context.Context) (*types.RunSummary, error)
}
