package engine

import (
	"headline-trader/internal/interfaces"
	"headline-trader/internal/store"
)

func New(cfg *store.Config, deps Deps, opts Options) interfaces.Engine {
	return newEngine(cfg, deps, opts)
}
