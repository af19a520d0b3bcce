package acl

import (
	"context"
	"log/slog"

	"github.com/betterdays/inspiration-service/internal/adapters/clients"
	"github.com/betterdays/inspiration-service/internal/domain"
	"github.com/betterdays/inspiration-service/internal/platform/logging"
)

// QuoteServiceName is the name the quote upstream reports under in health
// checks, logs and metrics.
const QuoteServiceName = "quote-api"

// InspirationClientConfig contains configuration for the quote upstream adapter.
type InspirationClientConfig struct {
	// Client is the HTTP client to use. Its BaseURL must be the quote endpoint.
	Client *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// InspirationClient fetches random inspirational quotes.
// Implements ports.QuoteSource and ports.HealthChecker.
type InspirationClient struct {
	BaseAdapter
	logger *slog.Logger
}

// NewInspirationClient creates the quote upstream adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewInspirationClient(cfg InspirationClientConfig) *InspirationClient {
	if cfg.Client == nil {
		panic("InspirationClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &InspirationClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, QuoteServiceName),
		logger:      logger.With(slog.String("component", "acl.InspirationClient")),
	}
}

// inspirationResponse is the upstream payload. Both fields must be present
// and non-empty.
type inspirationResponse struct {
	Quote  string `json:"quote"  validate:"required"`
	Author string `json:"author" validate:"required"`
}

// FetchQuote issues one GET against the endpoint and returns the quote.
// Implements ports.QuoteSource.
func (c *InspirationClient) FetchQuote(ctx context.Context) (*domain.Quote, error) {
	logger := logging.FromContext(ctx)
	logging.Trace(ctx, logger, "fetching quote", slog.String("downstream", c.ServiceName()))

	body, err := c.Get(ctx, "")
	if err != nil {
		logger.DebugContext(ctx, "quote request failed", slog.Any("error", err))
		return nil, err
	}

	quote, err := DecodeAndTranslate(body, translateQuote)
	if err != nil {
		logger.WarnContext(ctx, "quote response rejected", slog.Any("error", err))
		return nil, err
	}

	logging.Trace(ctx, logger, "quote received", slog.String("author", quote.Author))

	return quote, nil
}

// translateQuote maps the upstream field names onto the domain entity.
func translateQuote(ext *inspirationResponse) (*domain.Quote, error) {
	quote := &domain.Quote{
		Text:   ext.Quote,
		Author: ext.Author,
	}

	if err := quote.Validate(); err != nil {
		return nil, err
	}

	return quote, nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *InspirationClient) Name() string {
	return c.ServiceName()
}

// Check reports the upstream unhealthy while the circuit breaker is open.
// It never calls the upstream, so probes do not consume quotes.
// Implements ports.HealthChecker.
func (c *InspirationClient) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.Client().CheckCircuit()
}
