package interfaces

import (
	"context"

	"headline-trader/internal/types"
)

// Broker is the market data and order gateway.
type Broker interface {
	// LTP returns the last traded price for symbol on the configured exchange.
	LTP(ctx context.Context, symbol string) (float64, error)
	// PlaceOrder submits an order and returns once the broker accepted it.
	// Acceptance does not imply a fill.
	PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error)
}
