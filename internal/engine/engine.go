package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"headline-trader/internal/interfaces"
	"headline-trader/internal/logger"
	"headline-trader/internal/store"
	"headline-trader/internal/types"
)

// Journal receives the operator-facing record of a run.
type Journal interface {
	RunStarted(runID, mode string)
	FetchFailed(runID string, err error)
	Record(runID string, r types.HeadlineResult)
	RunFinished(s *types.RunSummary)
}

// Deps are the external collaborators of one pipeline instance.
type Deps struct {
	Source     interfaces.HeadlineSource
	Resolver   interfaces.TickerResolver
	Classifier interfaces.Classifier
	Broker     interfaces.Broker
	Journal    Journal
}

// Options hold the run hooks. Zero values fall back to real time and no stop.
type Options struct {
	StopRequested func() bool
	Sleep         func(ctx context.Context, d time.Duration) error
	Now           func() time.Time
	NewRunID      func() string
}

type engine struct {
	cfg    *store.Config
	deps   Deps
	opts   Options
	policy policy
	exec   *orderExecutor
}

func newEngine(cfg *store.Config, deps Deps, opts Options) *engine {
	if opts.StopRequested == nil {
		opts.StopRequested = func() bool { return false }
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepCtx
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = func() string { return uuid.NewString() }
	}
	if deps.Journal == nil {
		deps.Journal = nopJournal{}
	}
	return &engine{
		cfg:    cfg,
		deps:   deps,
		opts:   opts,
		policy: newPolicy(cfg.ConfidenceThreshold, cfg.CapitalPerTrade),
		exec:   newOrderExecutor(deps.Broker, opts.Now),
	}
}

// Run fetches the ranked headlines and drives each one through resolution,
// sentiment, policy and order placement. Per-headline failures never abort
// the run; an empty or failed fetch ends it as NOTHING_TO_DO.
func (e *engine) Run(ctx context.Context) (*types.RunSummary, error) {
	s := &types.RunSummary{
		RunID:     e.opts.NewRunID(),
		StartedAt: e.opts.Now(),
		Results:   []types.HeadlineResult{},
	}
	e.deps.Journal.RunStarted(s.RunID, e.cfg.Mode)
	logger.Info(ctx, "Pipeline run started", "run_id", s.RunID, "mode", e.cfg.Mode, "limit", e.cfg.HeadlineLimit)

	headlines, err := e.deps.Source.FetchRecent(ctx, e.cfg.HeadlineLimit)
	if err != nil {
		s.FetchError = err.Error()
		logger.Warn(ctx, "Headline fetch failed, nothing to process", "run_id", s.RunID, "error", err)
		e.deps.Journal.FetchFailed(s.RunID, err)
		headlines = nil
	}
	s.HeadlinesFetched = len(headlines)

	if len(headlines) == 0 {
		s.Status = types.RunNothingToDo
		return e.finish(ctx, s), nil
	}

	s.Status = types.RunCompleted
	placed := make(map[string]bool)
	for i, h := range headlines {
		if i > 0 {
			if err := e.opts.Sleep(ctx, e.pacing()); err != nil {
				s.Status = types.RunStopped
				break
			}
		}
		// checked after pacing so a stop during the pause is honored
		if e.opts.StopRequested() || ctx.Err() != nil {
			logger.Info(ctx, "Stop requested, ending run", "run_id", s.RunID, "remaining", len(headlines)-i)
			s.Status = types.RunStopped
			break
		}

		r := e.processHeadline(ctx, i, h, placed)
		e.deps.Journal.Record(s.RunID, r)
		s.Results = append(s.Results, r)
		tally(s, r)
	}

	return e.finish(ctx, s), nil
}

func (e *engine) pacing() time.Duration {
	return time.Duration(e.cfg.PacingMillis) * time.Millisecond
}

func (e *engine) finish(ctx context.Context, s *types.RunSummary) *types.RunSummary {
	s.FinishedAt = e.opts.Now()
	s.Elapsed = s.FinishedAt.Sub(s.StartedAt)
	e.deps.Journal.RunFinished(s)
	logger.Info(ctx, "Pipeline run finished",
		"run_id", s.RunID,
		"status", s.Status,
		"headlines_processed", s.HeadlinesProcessed,
		"positive", s.PositiveSentiment,
		"trades_executed", s.TradesExecuted,
		"elapsed", s.Elapsed,
	)
	return s
}

func tally(s *types.RunSummary, r types.HeadlineResult) {
	s.HeadlinesProcessed++
	if r.Sentiment != nil && r.Sentiment.Label == types.LabelPositive {
		s.PositiveSentiment++
	}
	switch r.Outcome {
	case types.OutcomeOrderPlaced:
		s.TradesExecuted++
	case types.OutcomeGatewayFailed:
		s.OrdersFailed++
		s.Skipped++
	default:
		s.Skipped++
	}
}

// processHeadline times one headline with a span and evaluates it.
func (e *engine) processHeadline(ctx context.Context, i int, h types.Headline, placed map[string]bool) types.HeadlineResult {
	op := logger.StartOperation(ctx, "engine.processHeadline", "index", i)
	r := e.evaluate(op.Context(), i, h, placed)
	if r.Outcome == types.OutcomeGatewayFailed {
		op.EndWithError(errors.New(r.Reason), "outcome", string(r.Outcome))
	} else {
		op.End("outcome", string(r.Outcome))
	}
	return r
}

func (e *engine) evaluate(ctx context.Context, i int, h types.Headline, placed map[string]bool) types.HeadlineResult {
	r := types.HeadlineResult{Index: i, Headline: h}
	key := types.NormalizeText(h.Title)

	if e.cfg.SkipDuplicates() && placed[key] {
		return e.skip(ctx, r, types.OutcomeDuplicate, "headline already produced an order in this run")
	}

	res, err := e.deps.Resolver.Resolve(ctx, h.Title)
	if err != nil {
		return e.fail(ctx, r, err, types.OutcomeTickerUnresolved)
	}
	r.Resolution = &res

	// sentiment is scored on the headline, not the company name
	sent, err := e.deps.Classifier.Classify(ctx, h.Title)
	if err != nil {
		return e.fail(ctx, r, err, types.OutcomeSentimentFailed)
	}
	r.Sentiment = &sent

	if ok, why := e.policy.qualifies(sent); !ok {
		logger.Decision(ctx, res.TickerSymbol, string(types.ActionSkip), sent.Confidence, why)
		r.Decision = &types.TradeDecision{Symbol: res.TickerSymbol, Action: types.ActionSkip, Reason: why}
		return e.skip(ctx, r, types.OutcomePolicyRejected, why)
	}

	price, err := e.deps.Broker.LTP(ctx, res.TickerSymbol)
	if err != nil {
		return e.fail(ctx, r, err, types.OutcomePriceUnavailable)
	}

	d := e.policy.size(res.TickerSymbol, price)
	r.Decision = &d
	logger.Decision(ctx, d.Symbol, string(d.Action), sent.Confidence, d.Reason, "price", price, "qty", d.Quantity)
	if d.Action != types.ActionBuy {
		return e.skip(ctx, r, types.OutcomePolicyRejected, d.Reason)
	}

	rec, err := e.exec.placeBuy(ctx, d, sent.Confidence)
	if err != nil {
		return e.fail(ctx, r, err, types.OutcomeGatewayFailed)
	}
	r.Order = &rec
	r.Outcome = types.OutcomeOrderPlaced
	r.Reason = d.Reason
	placed[key] = true
	return r
}

func (e *engine) skip(ctx context.Context, r types.HeadlineResult, o types.Outcome, reason string) types.HeadlineResult {
	r.Outcome = o
	r.Reason = reason
	logger.Info(ctx, "Headline skipped", "index", r.Index, "headline", r.Headline.Title, "outcome", o, "reason", reason)
	return r
}

func (e *engine) fail(ctx context.Context, r types.HeadlineResult, err error, fallback types.Outcome) types.HeadlineResult {
	return e.skip(ctx, r, outcomeFor(err, fallback), err.Error())
}

// outcomeFor maps a component failure to its per-headline outcome.
func outcomeFor(err error, fallback types.Outcome) types.Outcome {
	switch {
	case errors.Is(err, types.ErrTickerUnresolved):
		return types.OutcomeTickerUnresolved
	case errors.Is(err, types.ErrClassifierFailed):
		return types.OutcomeSentimentFailed
	case errors.Is(err, types.ErrPriceUnavailable):
		return types.OutcomePriceUnavailable
	case errors.Is(err, types.ErrOrderRejected):
		return types.OutcomeGatewayFailed
	default:
		return fallback
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type nopJournal struct{}

func (nopJournal) RunStarted(string, string)           {}
func (nopJournal) FetchFailed(string, error)           {}
func (nopJournal) Record(string, types.HeadlineResult) {}
func (nopJournal) RunFinished(*types.RunSummary)       {}
