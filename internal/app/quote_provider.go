// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/betterdays/inspiration-service/internal/domain"
	"github.com/betterdays/inspiration-service/internal/platform/logging"
	"github.com/betterdays/inspiration-service/internal/platform/telemetry"
	"github.com/betterdays/inspiration-service/internal/ports"
)

// ProviderName is the name the provider reports under in health checks.
const ProviderName = "quote-provider"

const defaultAttemptTimeout = 10 * time.Second

// ProviderObserver receives provider events, typically to feed metrics.
// Calls are made while the provider lock is held and must not call back
// into the provider.
type ProviderObserver interface {
	ObserveAttempt(outcome string, elapsed time.Duration)
	ObserveTransition(from, to domain.Status)
}

// QuoteProviderConfig contains the provider's dependencies and policy.
type QuoteProviderConfig struct {
	// Source performs single fetch attempts. Required.
	Source ports.QuoteSource

	// Flags gates Refresh. When nil, refresh is disabled.
	Flags ports.FeatureFlags

	// Observer is optional.
	Observer ProviderObserver

	Logger *slog.Logger

	// Clock defaults to the wall clock.
	Clock Clock

	Retry RetryPolicy

	// AttemptTimeout bounds each individual fetch attempt.
	AttemptTimeout time.Duration

	// Lazy defers the first cycle from Start until the state is first read.
	Lazy bool
}

// QuoteProvider owns the lifecycle of one displayed quote: it fetches on
// mount, retries silently with exponential backoff, settles in Success or
// Error, and restarts on demand.
//
// Each fetch cycle carries a generation number. Only the current cycle may
// write state; results from superseded cycles are discarded.
type QuoteProvider struct {
	source   ports.QuoteSource
	flags    ports.FeatureFlags
	observer ProviderObserver
	logger   *slog.Logger
	base     *slog.Logger
	clock    Clock
	policy   RetryPolicy
	timeout  time.Duration
	lazy     bool

	mu       sync.Mutex
	state    domain.QuoteState
	root     context.Context
	stop     context.CancelFunc
	cancel   context.CancelFunc
	started  bool
	pending  bool
	closed   bool
	subs     map[uint64]chan domain.QuoteState
	nextSub  uint64
	inflight sync.WaitGroup
}

// NewQuoteProvider creates an unmounted provider in the Loading state.
// Panics if Source is nil.
func NewQuoteProvider(cfg QuoteProviderConfig) *QuoteProvider {
	if cfg.Source == nil {
		panic("QuoteProvider: Source is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}

	timeout := cfg.AttemptTimeout
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}

	p := &QuoteProvider{
		source:   cfg.Source,
		flags:    cfg.Flags,
		observer: cfg.Observer,
		logger:   logger.With(slog.String("component", "app.QuoteProvider")),
		base:     logger,
		clock:    clock,
		policy:   cfg.Retry.withDefaults(),
		timeout:  timeout,
		lazy:     cfg.Lazy,
		subs:     make(map[uint64]chan domain.QuoteState),
	}

	p.state = domain.QuoteState{
		Status:    domain.StatusLoading,
		IsLoading: true,
		UpdatedAt: clock.Now(),
	}

	return p
}

// Start mounts the provider and begins the first cycle. Cycles run under a
// context derived from ctx, so cancelling ctx also stops them. Calling
// Start again, or after Close, does nothing.
func (p *QuoteProvider) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.closed {
		return
	}

	p.started = true
	p.root, p.stop = context.WithCancel(logging.WithContext(ctx, p.base))

	p.logger.Debug("quote provider mounted",
		slog.Int("attempts", p.policy.Attempts()),
		slog.Any("backoff", p.policy.Delays()),
		slog.Bool("lazy", p.lazy),
	)

	if p.lazy {
		p.pending = true
		return
	}

	p.beginCycleLocked("mount")
}

// Close unmounts the provider: the in-flight cycle is cancelled, subscribers
// are closed and the displayed quote is discarded. Close waits for the
// cycle goroutine to return and is safe to call more than once.
func (p *QuoteProvider) Close() {
	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()
		return
	}

	p.closed = true

	if p.cancel != nil {
		p.cancel()
	}

	if p.stop != nil {
		p.stop()
	}

	for id, ch := range p.subs {
		delete(p.subs, id)
		close(ch)
	}

	p.state.Data = nil
	p.mu.Unlock()

	p.inflight.Wait()
	p.logger.Debug("quote provider closed")
}

// Snapshot returns the current state.
func (p *QuoteProvider) Snapshot() domain.QuoteState {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.mountPendingLocked()

	return p.state
}

// Retry restarts the fetch cycle from attempt 1. It is available in every
// state: the provider moves to Loading immediately and any in-flight cycle
// is superseded. Retry before Start or after Close does nothing.
func (p *QuoteProvider) Retry() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || p.closed {
		return
	}

	p.pending = false
	p.beginCycleLocked("retry")
}

// Refresh starts a new cycle from any state when the quote-refresh flag is
// on. With the flag off it only proceeds from Error, exactly like Retry,
// and otherwise returns a ConflictError.
func (p *QuoteProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return domain.NewUnavailableError(ProviderName, "closed")
	}

	if !p.started {
		return domain.NewUnavailableError(ProviderName, "not started")
	}

	if p.state.Status != domain.StatusError && !p.refreshEnabled(ctx) {
		return domain.NewConflictError("quote", "refresh is disabled")
	}

	p.pending = false
	p.beginCycleLocked("refresh")

	return nil
}

func (p *QuoteProvider) refreshEnabled(ctx context.Context) bool {
	return p.flags != nil && p.flags.IsEnabled(ctx, ports.FlagQuoteRefresh, false)
}

// Subscribe returns a channel that receives the current state right away
// and then every state change. The channel holds one value; a slow reader
// only sees the latest state. The channel is closed by the returned func
// or by Close.
func (p *QuoteProvider) Subscribe() (<-chan domain.QuoteState, func()) {
	ch := make(chan domain.QuoteState, 1)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		close(ch)
		return ch, func() {}
	}

	p.mountPendingLocked()

	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	ch <- p.state

	return ch, func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		if sub, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(sub)
		}
	}
}

// Name implements ports.HealthChecker.
func (p *QuoteProvider) Name() string {
	return ProviderName
}

// Check reports the last cycle's failure while the provider is in Error.
// Implements ports.HealthChecker.
func (p *QuoteProvider) Check(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return domain.NewUnavailableError(ProviderName, "closed")
	}

	if p.state.Status == domain.StatusError {
		return p.state.Err
	}

	return nil
}

func (p *QuoteProvider) mountPendingLocked() {
	if p.pending && !p.closed {
		p.pending = false
		p.beginCycleLocked("first read")
	}
}

// beginCycleLocked supersedes the current cycle and launches a new one.
// Caller holds p.mu.
func (p *QuoteProvider) beginCycleLocked(reason string) {
	if p.cancel != nil {
		p.cancel()
	}

	ctx, cancel := context.WithCancel(p.root)
	p.cancel = cancel

	next := p.state
	next.Cycle++
	next.Status = domain.StatusLoading
	next.IsLoading = true
	next.IsError = false
	next.Attempt = 1
	next.Err = nil
	p.setStateLocked(next)

	p.logger.Debug("starting quote fetch cycle",
		slog.Uint64("cycle", next.Cycle),
		slog.String("reason", reason),
	)

	p.inflight.Add(1)

	go p.runCycle(ctx, next.Cycle)
}

// runCycle performs up to policy.Attempts() fetches, waiting between them.
func (p *QuoteProvider) runCycle(ctx context.Context, cycle uint64) {
	defer p.inflight.Done()

	ctx, span := telemetry.Tracer().Start(ctx, "quote.fetch_cycle",
		trace.WithAttributes(
			attribute.Int64("quote.cycle", int64(cycle)), //nolint:gosec // cycle counts calls, never near overflow
			attribute.Int("quote.max_attempts", p.policy.Attempts()),
		),
	)
	defer span.End()

	schedule := p.policy.newBackOff()

	var lastErr error

	for attempt := 1; attempt <= p.policy.Attempts(); attempt++ {
		if attempt > 1 {
			wait := schedule.NextBackOff()
			logging.Trace(ctx, p.logger, "waiting before retry",
				slog.Uint64("cycle", cycle),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", wait),
			)

			if err := p.clock.Sleep(ctx, wait); err != nil {
				p.abandon(ctx, span, cycle, err)
				return
			}
		}

		if !p.markAttempt(cycle, attempt) {
			p.abandon(ctx, span, cycle, context.Canceled)
			return
		}

		quote, err := p.fetchOnce(ctx, span, cycle, attempt)
		if err == nil {
			p.settle(span, cycle, quote, nil)
			return
		}

		if ctx.Err() != nil {
			p.abandon(ctx, span, cycle, ctx.Err())
			return
		}

		lastErr = err

		// Anything other than a network or validation failure means the
		// source broke its contract.
		level := slog.LevelDebug
		if !domain.IsFetchFailure(err) {
			level = slog.LevelError
		}

		p.logger.Log(ctx, level, "quote fetch attempt failed",
			slog.Uint64("cycle", cycle),
			slog.Int("attempt", attempt),
			slog.Int("attempts", p.policy.Attempts()),
			slog.Any("error", err),
		)
	}

	p.settle(span, cycle, nil, lastErr)
}

// fetchOnce performs a single bounded attempt.
func (p *QuoteProvider) fetchOnce(ctx context.Context, span trace.Span, cycle uint64, attempt int) (*domain.Quote, error) {
	attemptCtx, cancel := context.WithTimeout(logging.WithFetchCycle(ctx, cycle, attempt), p.timeout)
	defer cancel()

	start := p.clock.Now()
	quote, err := p.source.FetchQuote(attemptCtx)
	elapsed := p.clock.Now().Sub(start)

	if err == nil {
		err = quote.Validate()
	}

	outcome := telemetry.OutcomeSuccess
	if err != nil {
		outcome = telemetry.OutcomeFailure
	}

	span.AddEvent("attempt", trace.WithAttributes(
		attribute.Int("quote.attempt", attempt),
		attribute.String("quote.outcome", outcome),
		attribute.Int64("quote.elapsed_ms", elapsed.Milliseconds()),
	))

	if p.observer != nil {
		p.observer.ObserveAttempt(outcome, elapsed)
	}

	if err != nil {
		return nil, err
	}

	return quote, nil
}

// markAttempt records the attempt number without notifying subscribers, so
// automatic retries stay invisible. Returns false when the cycle is stale.
func (p *QuoteProvider) markAttempt(cycle uint64, attempt int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.state.Cycle != cycle {
		return false
	}

	p.state.Attempt = attempt

	return true
}

// settle writes the outcome of cycle, unless a newer cycle has started.
func (p *QuoteProvider) settle(span trace.Span, cycle uint64, quote *domain.Quote, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.state.Cycle != cycle {
		span.SetAttributes(attribute.Bool("quote.stale", true))
		p.logger.Debug("discarding stale quote result",
			slog.Uint64("cycle", cycle),
			slog.Uint64("current_cycle", p.state.Cycle),
		)

		if p.observer != nil {
			p.observer.ObserveAttempt(telemetry.OutcomeStale, 0)
		}

		return
	}

	next := p.state
	next.IsLoading = false

	if err != nil {
		next.Status = domain.StatusError
		next.IsError = true
		next.Err = err

		span.SetStatus(codes.Error, err.Error())
		p.logger.Warn("quote fetch failed after retries",
			slog.Uint64("cycle", cycle),
			slog.Int("attempts", next.Attempt),
			slog.Any("error", err),
		)
	} else {
		next.Status = domain.StatusSuccess
		next.IsError = false
		next.Data = quote
		next.Err = nil

		p.logger.Info("quote fetched",
			slog.Uint64("cycle", cycle),
			slog.Int("attempts", next.Attempt),
			slog.String("author", quote.Author),
		)
	}

	p.setStateLocked(next)
}

// abandon ends a cycle that was cancelled or superseded without writing state.
func (p *QuoteProvider) abandon(ctx context.Context, span trace.Span, cycle uint64, cause error) {
	span.SetAttributes(attribute.Bool("quote.superseded", true))

	if !errors.Is(cause, context.Canceled) && !errors.Is(cause, context.DeadlineExceeded) {
		span.RecordError(cause)
	}

	logging.Trace(ctx, p.logger, "quote fetch cycle abandoned",
		slog.Uint64("cycle", cycle),
		slog.Any("cause", cause),
	)
}

// setStateLocked stores next, reports a status change and fans it out.
// Caller holds p.mu.
func (p *QuoteProvider) setStateLocked(next domain.QuoteState) {
	prev := p.state.Status
	next.UpdatedAt = p.clock.Now()
	p.state = next

	if prev != next.Status && p.observer != nil {
		p.observer.ObserveTransition(prev, next.Status)
	}

	for _, ch := range p.subs {
		publishLatest(ch, next)
	}
}

// publishLatest replaces whatever is buffered in ch with s.
func publishLatest(ch chan domain.QuoteState, s domain.QuoteState) {
	select {
	case ch <- s:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}

	select {
	case ch <- s:
	default:
	}
}
