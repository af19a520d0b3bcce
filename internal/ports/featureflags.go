package ports

import "context"

// FlagQuoteRefresh lets clients refetch a quote that already loaded.
const FlagQuoteRefresh = "quote-refresh"

// FeatureFlags evaluates named boolean features. Unknown flags and
// evaluation failures yield defaultValue.
type FeatureFlags interface {
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
}
