package engine

import (
	"context"
	"time"

	"headline-trader/internal/interfaces"
	"headline-trader/internal/logger"
	"headline-trader/internal/types"
)

const orderTag = "headline"

// orderExecutor places market buys and converts accepted orders into records.
type orderExecutor struct {
	broker interfaces.Broker
	now    func() time.Time
}

func newOrderExecutor(broker interfaces.Broker, now func() time.Time) *orderExecutor {
	return &orderExecutor{
		broker: broker,
		now:    now,
	}
}

// placeBuy submits the decision as a market buy. An OrderRecord is returned
// only when the broker accepted the order.
func (oe *orderExecutor) placeBuy(ctx context.Context, d types.TradeDecision, confidence float64) (types.OrderRecord, error) {
	resp, err := oe.broker.PlaceOrder(ctx, types.OrderReq{
		Symbol: d.Symbol,
		Side:   string(types.ActionBuy),
		Qty:    d.Quantity,
		Tag:    orderTag,
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to place BUY order", err,
			"symbol", d.Symbol,
			"qty", d.Quantity,
			"price", d.UnitPrice,
		)
		return types.OrderRecord{}, err
	}

	logger.Trade(ctx, d.Symbol, string(types.ActionBuy), d.Quantity, d.UnitPrice, resp.OrderID, "confidence", confidence, "status", resp.Status)

	return types.OrderRecord{
		OrderID:         resp.OrderID,
		Symbol:          d.Symbol,
		Quantity:        d.Quantity,
		TransactionType: string(types.ActionBuy),
		Status:          resp.Status,
		Timestamp:       oe.now(),
	}, nil
}
