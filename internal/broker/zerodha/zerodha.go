package zerodha

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"headline-trader/internal/interfaces"
	"headline-trader/internal/types"
)

// Kite order parameters used for every buy.
const (
	VarietyRegular     = "regular"
	ProductCNC         = "CNC"
	OrderTypeMarket    = "MARKET"
	ValidityDay        = "DAY"
	TransactionTypeBuy = "BUY"

	StatusPlaced    = "PLACED"
	StatusSimulated = "SIMULATED"
)

type Params struct {
	Mode        string
	APIKey      string
	AccessToken string
	Exchange    string
	BaseURI     string // optional Kite API root override
	Timeout     time.Duration
}

// kiteAPI is the subset of the Kite Connect client the gateway uses.
type kiteAPI interface {
	LastPrice(instrument string) (float64, error)
	PlaceOrder(variety string, params kiteconnect.OrderParams) (kiteconnect.OrderResponse, error)
}

type kiteAdapter struct {
	kc *kiteconnect.Client
}

func (a kiteAdapter) LastPrice(instrument string) (float64, error) {
	quotes, err := a.kc.GetLTP(instrument)
	if err != nil {
		return 0, err
	}
	q, ok := quotes[instrument]
	if !ok {
		return 0, fmt.Errorf("instrument %s not found", instrument)
	}
	return q.LastPrice, nil
}

func (a kiteAdapter) PlaceOrder(variety string, params kiteconnect.OrderParams) (kiteconnect.OrderResponse, error) {
	return a.kc.PlaceOrder(variety, params)
}

// Zerodha is the market data and order gateway backed by Kite Connect.
// In DRY_RUN mode prices are live but orders are simulated.
type Zerodha struct {
	p      Params
	kite   kiteAPI
	simSeq atomic.Int64
}

var _ interfaces.Broker = (*Zerodha)(nil)

func NewZerodha(p Params) *Zerodha {
	kc := kiteconnect.New(p.APIKey)
	kc.SetAccessToken(p.AccessToken)
	if p.BaseURI != "" {
		kc.SetBaseURI(p.BaseURI)
	}
	if p.Timeout > 0 {
		kc.SetHTTPClient(&http.Client{Timeout: p.Timeout})
	}
	return newWithClient(p, kiteAdapter{kc: kc})
}

func newWithClient(p Params, k kiteAPI) *Zerodha {
	if p.Exchange == "" {
		p.Exchange = "NSE"
	}
	return &Zerodha{p: p, kite: k}
}

// Instrument formats a symbol as "EXCHANGE:SYMBOL".
func (z *Zerodha) Instrument(symbol string) string {
	return z.p.Exchange + ":" + strings.ToUpper(strings.TrimSpace(symbol))
}

// LTP returns the last traded price. Failures are reported as
// ErrPriceUnavailable and never retried.
func (z *Zerodha) LTP(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrPriceUnavailable, err)
	}
	inst := z.Instrument(symbol)
	price, err := z.kite.LastPrice(inst)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", types.ErrPriceUnavailable, inst, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w: %s: non-positive price %f", types.ErrPriceUnavailable, inst, price)
	}
	return price, nil
}

// PlaceOrder submits a regular CNC market buy. It does not wait for a fill.
func (z *Zerodha) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	if req.Qty <= 0 {
		return types.OrderResp{}, fmt.Errorf("%w: quantity must be positive, got %d", types.ErrOrderRejected, req.Qty)
	}
	if req.Side != TransactionTypeBuy {
		return types.OrderResp{}, fmt.Errorf("%w: unsupported side %q", types.ErrOrderRejected, req.Side)
	}
	if err := ctx.Err(); err != nil {
		return types.OrderResp{}, fmt.Errorf("%w: %v", types.ErrOrderRejected, err)
	}

	if z.p.Mode == "DRY_RUN" {
		return types.OrderResp{
			OrderID: fmt.Sprintf("SIM-%d-%d", time.Now().UnixNano(), z.simSeq.Add(1)),
			Status:  StatusSimulated,
			Message: "dry-run",
		}, nil
	}

	if z.p.APIKey == "" || z.p.AccessToken == "" {
		return types.OrderResp{}, fmt.Errorf("%w: %v", types.ErrOrderRejected, errors.New("missing API key/access token"))
	}

	resp, err := z.kite.PlaceOrder(VarietyRegular, kiteconnect.OrderParams{
		Exchange:        z.p.Exchange,
		Tradingsymbol:   strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Validity:        ValidityDay,
		Product:         ProductCNC,
		OrderType:       OrderTypeMarket,
		TransactionType: TransactionTypeBuy,
		Quantity:        req.Qty,
		Tag:             req.Tag,
	})
	if err != nil {
		return types.OrderResp{}, fmt.Errorf("%w: %v", types.ErrOrderRejected, err)
	}
	if resp.OrderID == "" {
		return types.OrderResp{}, fmt.Errorf("%w: empty order id", types.ErrOrderRejected)
	}

	return types.OrderResp{OrderID: resp.OrderID, Status: StatusPlaced, Message: "ok"}, nil
}
