//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/betterdays/inspiration-service/internal/adapters/clients"
	"github.com/betterdays/inspiration-service/internal/adapters/clients/acl"
	"github.com/betterdays/inspiration-service/internal/adapters/flags"
	apphttp "github.com/betterdays/inspiration-service/internal/adapters/http"
	"github.com/betterdays/inspiration-service/internal/adapters/http/handlers"
	"github.com/betterdays/inspiration-service/internal/app"
	"github.com/betterdays/inspiration-service/internal/platform/config"
	"github.com/betterdays/inspiration-service/internal/platform/telemetry"
	"github.com/betterdays/inspiration-service/internal/ports"
)

const configDir = "../../configs"

func init() {
	gin.SetMode(gin.TestMode)
}

// upstreamReply is one scripted answer of the fake quote API.
type upstreamReply struct {
	status int
	body   string
}

func okQuote(text, author string) upstreamReply {
	return upstreamReply{status: http.StatusOK, body: `{"quote":"` + text + `","author":"` + author + `"}`}
}

func failure(status int) upstreamReply {
	return upstreamReply{status: status, body: http.StatusText(status)}
}

// upstream is a fake quote API that plays back scripted replies in order and
// repeats the last one once the script runs out.
type upstream struct {
	*httptest.Server

	mu      sync.Mutex
	replies []upstreamReply
	calls   int
	gate    chan struct{}
}

func newUpstream(t *testing.T, replies ...upstreamReply) *upstream {
	t.Helper()

	u := startUpstream(replies...)
	t.Cleanup(u.Close)

	return u
}

func startUpstream(replies ...upstreamReply) *upstream {
	u := &upstream{replies: replies}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))

	return u
}

func (u *upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	gate := u.gate
	reply := failure(http.StatusInternalServerError)

	if len(u.replies) > 0 {
		idx := min(u.calls, len(u.replies)-1)
		reply = u.replies[idx]
	}

	u.calls++
	u.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.status)
	_, _ = io.WriteString(w, reply.body)
}

// script replaces the remaining replies.
func (u *upstream) script(replies ...upstreamReply) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.replies = append(u.replies[:min(u.calls, len(u.replies))], replies...)
}

// hold makes requests block until the returned release func is called.
func (u *upstream) hold() func() {
	gate := make(chan struct{})

	u.mu.Lock()
	u.gate = gate
	u.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			u.mu.Lock()
			u.gate = nil
			u.mu.Unlock()
			close(gate)
		})
	}
}

func (u *upstream) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.calls
}

// stack is the service wired the way cmd/service wires it, with the upstream
// replaced by a fake and config loaded from the test profile.
type stack struct {
	cfg      *config.Config
	provider *app.QuoteProvider
	flags    *flags.Static
	registry *prometheus.Registry
	server   *httptest.Server
}

type stackOption func(*config.Config)

func withFeature(name string, enabled bool) stackOption {
	return func(cfg *config.Config) {
		if cfg.Features == nil {
			cfg.Features = map[string]bool{}
		}

		cfg.Features[name] = enabled
	}
}

func withLazyMount() stackOption {
	return func(cfg *config.Config) {
		cfg.Quote.FetchOnStart = false
	}
}

func newStack(t *testing.T, upstreamURL string, opts ...stackOption) *stack {
	t.Helper()

	s, err := startStack(t.Context(), upstreamURL, opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return s
}

// startStack wires and mounts the service. Callers must Close it.
func startStack(ctx context.Context, upstreamURL string, opts ...stackOption) (*stack, error) {
	cfg, err := config.LoadFrom(configDir, "test")
	if err != nil {
		return nil, err
	}

	cfg.Quote.Endpoint = upstreamURL
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()

	metrics, err := telemetry.NewQuoteMetrics(registry)
	if err != nil {
		return nil, err
	}

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Quote.Endpoint,
		ServiceName: acl.QuoteServiceName,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	quoteClient := acl.NewInspirationClient(acl.InspirationClientConfig{Client: httpClient, Logger: logger})
	featureFlags := flags.NewStatic(cfg.Features, logger)

	provider := app.NewQuoteProvider(app.QuoteProviderConfig{
		Source:   quoteClient,
		Flags:    featureFlags,
		Observer: metrics,
		Logger:   logger,
		Retry: app.RetryPolicy{
			MaxRetries:     cfg.Quote.MaxRetries,
			InitialBackoff: cfg.Quote.InitialBackoff,
			MaxBackoff:     cfg.Quote.MaxBackoff,
			Multiplier:     cfg.Quote.Multiplier,
		},
		AttemptTimeout: cfg.Quote.AttemptTimeout,
		Lazy:           !cfg.Quote.FetchOnStart,
	})

	healthRegistry := ports.NewHealthRegistry()
	for _, checker := range []ports.HealthChecker{quoteClient, provider} {
		if err := healthRegistry.Register(ports.Advisory(checker)); err != nil {
			return nil, err
		}
	}

	engine := gin.New()
	apphttp.SetupRouter(engine, apphttp.RouterConfig{
		Logger:        logger,
		AppConfig:     &cfg.App,
		HealthHandler: handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo("test", "test", "test"), registry),
		QuoteHandler:  handlers.NewQuoteHandler(provider, handlers.DefaultHeartbeat),
		Timeout:       cfg.Server.RequestTimeout,
	})

	server := httptest.NewUnstartedServer(engine)
	server.Config.RegisterOnShutdown(provider.Close)
	server.Start()

	provider.Start(ctx)

	return &stack{
		cfg:      cfg,
		provider: provider,
		flags:    featureFlags,
		registry: registry,
		server:   server,
	}, nil
}

// Close unmounts the provider and stops the HTTP server.
func (s *stack) Close() {
	s.provider.Close()
	s.server.Close()
}
