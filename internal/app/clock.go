package app

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Clock abstracts time for the provider so tests can observe backoff waits
// without sleeping.
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until ctx is done, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
}

// realClock implements Clock using the standard time package.
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryPolicy bounds the automatic retries of a single fetch cycle.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// InitialBackoff is the wait before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps every wait.
	MaxBackoff time.Duration

	// Multiplier grows the wait between consecutive retries.
	Multiplier float64
}

// DefaultRetryPolicy waits 1s, 2s, 4s ... capped at 10s, with two retries.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     2,
		InitialBackoff: time.Second,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2,
	}
}

// Attempts returns the total number of attempts per cycle.
func (p RetryPolicy) Attempts() int {
	return p.MaxRetries + 1
}

// newBackOff returns a deterministic exponential schedule. The n-th call to
// NextBackOff yields min(InitialBackoff * Multiplier^(n-1), MaxBackoff).
func (p RetryPolicy) newBackOff() *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.InitialBackoff,
		RandomizationFactor: 0,
		Multiplier:          p.Multiplier,
		MaxInterval:         p.MaxBackoff,
	}
	b.Reset()

	return b
}

// Delays lists the wait before each retry of a cycle, in order.
func (p RetryPolicy) Delays() []time.Duration {
	b := p.newBackOff()

	delays := make([]time.Duration, 0, p.MaxRetries)
	for range p.MaxRetries {
		delays = append(delays, b.NextBackOff())
	}

	return delays
}

// withDefaults fills unset fields. A zero policy means DefaultRetryPolicy;
// an explicit zero MaxRetries next to other settings is kept.
func (p RetryPolicy) withDefaults() RetryPolicy {
	d := DefaultRetryPolicy()

	if p == (RetryPolicy{}) {
		return d
	}

	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}

	if p.InitialBackoff <= 0 {
		p.InitialBackoff = d.InitialBackoff
	}

	if p.MaxBackoff < p.InitialBackoff {
		p.MaxBackoff = max(d.MaxBackoff, p.InitialBackoff)
	}

	if p.Multiplier < 1 {
		p.Multiplier = d.Multiplier
	}

	return p
}
