package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_DefaultDelays(t *testing.T) {
	p := DefaultRetryPolicy()

	assert.Equal(t, 3, p.Attempts())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, p.Delays())
}

func TestRetryPolicy_DelaysAreCapped(t *testing.T) {
	p := DefaultRetryPolicy()
	p.MaxRetries = 6

	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second,
		10 * time.Second,
	}, p.Delays())
}

func TestRetryPolicy_NoRetries(t *testing.T) {
	p := RetryPolicy{MaxRetries: 0, InitialBackoff: time.Second, MaxBackoff: time.Second, Multiplier: 2}

	assert.Equal(t, 1, p.Attempts())
	assert.Empty(t, p.Delays())
}

func TestRetryPolicy_WithDefaults(t *testing.T) {
	tests := []struct {
		name   string
		policy RetryPolicy
		want   RetryPolicy
	}{
		{
			name:   "zero value is the default policy",
			policy: RetryPolicy{},
			want:   DefaultRetryPolicy(),
		},
		{
			name:   "explicit zero retries are kept",
			policy: RetryPolicy{MaxRetries: 0, Multiplier: 3},
			want:   RetryPolicy{MaxRetries: 0, InitialBackoff: time.Second, MaxBackoff: 10 * time.Second, Multiplier: 3},
		},
		{
			name:   "negative retries clamp to zero",
			policy: RetryPolicy{MaxRetries: -1, InitialBackoff: time.Second, MaxBackoff: 5 * time.Second, Multiplier: 3},
			want:   RetryPolicy{MaxRetries: 0, InitialBackoff: time.Second, MaxBackoff: 5 * time.Second, Multiplier: 3},
		},
		{
			name:   "cap below initial is raised",
			policy: RetryPolicy{MaxRetries: 2, InitialBackoff: 20 * time.Second, MaxBackoff: time.Second, Multiplier: 2},
			want:   RetryPolicy{MaxRetries: 2, InitialBackoff: 20 * time.Second, MaxBackoff: 20 * time.Second, Multiplier: 2},
		},
		{
			name:   "valid policy is unchanged",
			policy: DefaultRetryPolicy(),
			want:   DefaultRetryPolicy(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.withDefaults())
		})
	}
}

func TestRealClock_Sleep(t *testing.T) {
	clock := realClock{}

	start := clock.Now()
	require.NoError(t, clock.Sleep(context.Background(), 10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestRealClock_SleepHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := realClock{}.Sleep(ctx, time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
}
