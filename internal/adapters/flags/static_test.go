package flags

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/betterdays/inspiration-service/internal/ports"
)

var _ ports.FeatureFlags = (*Static)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatic_IsEnabled(t *testing.T) {
	flags := NewStatic(map[string]bool{
		ports.FlagQuoteRefresh: true,
		"Dark-Mode":            false,
	}, discardLogger())

	tests := []struct {
		name         string
		flag         string
		defaultValue bool
		want         bool
	}{
		{name: "enabled", flag: ports.FlagQuoteRefresh, want: true},
		{name: "disabled overrides default", flag: "dark-mode", defaultValue: true, want: false},
		{name: "case insensitive", flag: "QUOTE-REFRESH", want: true},
		{name: "missing uses default true", flag: "unknown", defaultValue: true, want: true},
		{name: "missing uses default false", flag: "unknown", defaultValue: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flags.IsEnabled(context.Background(), tt.flag, tt.defaultValue))
		})
	}
}

func TestStatic_CopiesInput(t *testing.T) {
	values := map[string]bool{"quote-refresh": false}
	flags := NewStatic(values, discardLogger())

	values["quote-refresh"] = true

	assert.False(t, flags.IsEnabled(context.Background(), "quote-refresh", true))
}

func TestStatic_Set(t *testing.T) {
	flags := NewStatic(nil, discardLogger())

	flags.Set("quote-refresh", true)

	assert.True(t, flags.IsEnabled(context.Background(), "quote-refresh", false))
	assert.Equal(t, map[string]bool{"quote-refresh": true}, flags.Snapshot())
}

func TestStatic_ConcurrentAccess(t *testing.T) {
	flags := NewStatic(nil, discardLogger())

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(2)

		go func() {
			defer wg.Done()
			flags.Set("quote-refresh", i%2 == 0)
		}()

		go func() {
			defer wg.Done()
			_ = flags.IsEnabled(context.Background(), "quote-refresh", false)
		}()
	}

	wg.Wait()

	assert.Len(t, flags.Snapshot(), 1)
}
