package zerodha

import (
	"time"

	"headline-trader/internal/broker/brokerobs"
	"headline-trader/internal/interfaces"
	"headline-trader/internal/store"
)

// NewBroker builds the Kite gateway for cfg wrapped with observability.
func NewBroker(cfg *store.Config, creds store.Credentials) interfaces.Broker {
	return brokerobs.Wrap(NewZerodha(Params{
		Mode:        cfg.Mode,
		APIKey:      creds.KiteAPIKey,
		AccessToken: creds.KiteAccessToken,
		Exchange:    cfg.Exchange,
		Timeout:     15 * time.Second,
	}))
}
