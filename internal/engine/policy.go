package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"headline-trader/internal/types"
)

// policy is the confidence-gated buy rule with fixed per-trade capital.
type policy struct {
	threshold float64
	capital   decimal.Decimal
}

func newPolicy(threshold, capital float64) policy {
	return policy{threshold: threshold, capital: decimal.NewFromFloat(capital)}
}

// qualifies reports whether sentiment alone allows a buy. Confidence must be
// strictly above the threshold.
func (p policy) qualifies(s types.SentimentResult) (bool, string) {
	if s.Label != types.LabelPositive {
		return false, fmt.Sprintf("sentiment %s is not positive", s.Label)
	}
	if s.Confidence <= p.threshold {
		return false, fmt.Sprintf("confidence %.4f does not exceed threshold %.4f", s.Confidence, p.threshold)
	}
	return true, ""
}

// size turns a live price into a decision. Capital equal to the price is a
// skip, kept as observed even though it would afford exactly one unit.
func (p policy) size(symbol string, price float64) types.TradeDecision {
	d := types.TradeDecision{Symbol: symbol, UnitPrice: price, Action: types.ActionSkip}

	px := decimal.NewFromFloat(price)
	if p.capital.LessThanOrEqual(px) {
		d.Reason = fmt.Sprintf("capital %s does not exceed price %s", p.capital.StringFixed(2), px.StringFixed(2))
		return d
	}

	qty := p.capital.Div(px).Floor().IntPart()
	if qty <= 0 {
		d.Reason = fmt.Sprintf("quantity computes to %d at price %s", qty, px.StringFixed(2))
		return d
	}

	d.Quantity = int(qty)
	d.Action = types.ActionBuy
	d.Reason = fmt.Sprintf("%d x %s within capital %s", qty, px.StringFixed(2), p.capital.StringFixed(2))
	return d
}
