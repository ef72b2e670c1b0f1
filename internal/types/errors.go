package types

import "errors"

var (
	ErrFeedUnavailable    = errors.New("news feed unavailable")
	ErrTickerUnresolved   = errors.New("ticker unresolved")
	ErrClassifierFailed   = errors.New("sentiment classifier failed")
	ErrPriceUnavailable   = errors.New("last price unavailable")
	ErrOrderRejected      = errors.New("order rejected")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrRunInProgress      = errors.New("run already in progress")
)
