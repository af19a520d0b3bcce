// Package flags provides feature flag adapters.
package flags

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Static serves feature flags from the `features` configuration section.
// Flag names are case-insensitive. Implements ports.FeatureFlags.
type Static struct {
	mu     sync.RWMutex
	values map[string]bool
	logger *slog.Logger
}

// NewStatic creates a flag set from values. The map is copied.
func NewStatic(values map[string]bool, logger *slog.Logger) *Static {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Static{
		values: make(map[string]bool, len(values)),
		logger: logger.With(slog.String("component", "flags.Static")),
	}

	for name, enabled := range values {
		s.values[normalize(name)] = enabled
	}

	return s
}

// IsEnabled returns the configured value of flag, or defaultValue when the
// flag is not configured.
func (s *Static) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	s.mu.RLock()
	enabled, ok := s.values[normalize(flag)]
	s.mu.RUnlock()

	if !ok {
		s.logger.DebugContext(ctx, "feature flag not configured, using default",
			slog.String("flag", flag),
			slog.Bool("default", defaultValue),
		)

		return defaultValue
	}

	return enabled
}

// Set overrides a flag at runtime.
func (s *Static) Set(flag string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[normalize(flag)] = enabled
	s.logger.Info("feature flag changed", slog.String("flag", flag), slog.Bool("enabled", enabled))
}

// Snapshot returns a copy of every configured flag.
func (s *Static) Snapshot() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool, len(s.values))
	for name, enabled := range s.values {
		out[name] = enabled
	}

	return out
}

func normalize(flag string) string {
	return strings.ToLower(strings.TrimSpace(flag))
}
