package control

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"headline-trader/internal/interfaces"
	"headline-trader/internal/logger"
	"headline-trader/internal/store"
	"headline-trader/internal/tradelog"
	"headline-trader/internal/types"
)

// EngineBuilder constructs a fresh pipeline for one run. stop is polled by
// the pipeline between headlines.
type EngineBuilder func(cfg *store.Config, stop func() bool) (interfaces.Engine, error)

// LogSource serves recent journal entries.
type LogSource interface {
	RecentEntries(n int) []tradelog.Entry
}

// Status is a point-in-time view of the controller.
type Status struct {
	Running       bool              `json:"running"`
	RunsStarted   int               `json:"runs_started"`
	StopRequested bool              `json:"stop_requested"`
	LastSummary   *types.RunSummary `json:"last_summary,omitempty"`
	LastError     string            `json:"last_error,omitempty"`
	LastStartedAt time.Time         `json:"last_started_at,omitempty"`
}

// Controller owns the run lifecycle behind the operator surface. At most
// one run is active at a time.
type Controller struct {
	ctx   context.Context
	build EngineBuilder
	logs  LogSource

	stop atomic.Bool

	mu        sync.Mutex
	running   bool
	done      chan struct{}
	runs      int
	last      *types.RunSummary
	lastErr   error
	lastStart time.Time
}

// New returns a controller whose runs inherit ctx.
func New(ctx context.Context, build EngineBuilder, logs LogSource) *Controller {
	done := make(chan struct{})
	close(done)
	return &Controller{ctx: ctx, build: build, logs: logs, done: done}
}

// StartRun launches one pipeline run in the background.
func (c *Controller) StartRun(cfg *store.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return types.ErrRunInProgress
	}

	c.stop.Store(false)
	eng, err := c.build(cfg, c.StopRequested)
	if err != nil {
		return err
	}

	c.running = true
	c.runs++
	c.lastStart = time.Now()
	c.done = make(chan struct{})
	done := c.done

	go func() {
		summary, err := eng.Run(c.ctx)
		if err != nil {
			logger.ErrorWithErr(c.ctx, "Run ended with error", err)
		}

		c.mu.Lock()
		if summary != nil {
			c.last = summary
		}
		c.lastErr = err
		c.running = false
		c.mu.Unlock()
		close(done)
	}()

	return nil
}

// RequestStop asks the active run to end before its next headline.
func (c *Controller) RequestStop() {
	c.stop.Store(true)
}

func (c *Controller) StopRequested() bool {
	return c.stop.Load()
}

// RecentLogEntries returns up to n of the newest journal entries.
func (c *Controller) RecentLogEntries(n int) []tradelog.Entry {
	if c.logs == nil {
		return nil
	}
	return c.logs.RecentEntries(n)
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		Running:       c.running,
		RunsStarted:   c.runs,
		StopRequested: c.stop.Load(),
		LastSummary:   c.last,
		LastStartedAt: c.lastStart,
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	return st
}

// Wait blocks until the active run, if any, finishes or ctx is done, and
// returns the latest summary.
func (c *Controller) Wait(ctx context.Context) (*types.RunSummary, error) {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.lastErr
}
