package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betterdays/inspiration-service/internal/domain"
)

func TestNew_Disabled(t *testing.T) {
	provider, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestProvider_Shutdown(t *testing.T) {
	var order []string

	p := &Provider{shutdowns: []func(context.Context) error{
		func(context.Context) error { order = append(order, "tracer"); return nil },
		func(context.Context) error { order = append(order, "meter"); return errors.New("exporter unreachable") },
	}}

	err := p.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exporter unreachable")
	assert.Equal(t, []string{"meter", "tracer"}, order)

	assert.NoError(t, p.Shutdown(context.Background()), "second shutdown is a no-op")
	assert.Len(t, order, 2)
}

func TestTracer_NotNil(t *testing.T) {
	assert.NotNil(t, Tracer())
}

func TestMiddleware_RecordsAndPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(Middleware("test-service")...)
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestQuoteMetrics_ObserveAttempt(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewQuoteMetrics(reg)
	require.NoError(t, err)

	m.ObserveAttempt(OutcomeFailure, 20*time.Millisecond)
	m.ObserveAttempt(OutcomeFailure, 30*time.Millisecond)
	m.ObserveAttempt(OutcomeSuccess, 10*time.Millisecond)
	m.ObserveAttempt(OutcomeStale, 0)

	assert.InDelta(t, 1, counterValue(t, m.attempts.WithLabelValues(OutcomeStale)), 0)
	assert.InDelta(t, 2, counterValue(t, m.attempts.WithLabelValues(OutcomeFailure)), 0)
	assert.InDelta(t, 1, counterValue(t, m.attempts.WithLabelValues(OutcomeSuccess)), 0)

	var hist dto.Metric
	require.NoError(t, m.duration.Write(&hist))
	assert.Equal(t, uint64(3), hist.GetHistogram().GetSampleCount())
}

func TestQuoteMetrics_ObserveTransition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewQuoteMetrics(reg)
	require.NoError(t, err)

	assert.InDelta(t, 1, gaugeValue(t, m.status.WithLabelValues("loading")), 0)

	m.ObserveTransition(domain.StatusLoading, domain.StatusError)

	assert.InDelta(t, 0, gaugeValue(t, m.status.WithLabelValues("loading")), 0)
	assert.InDelta(t, 1, gaugeValue(t, m.status.WithLabelValues("error")), 0)
	assert.InDelta(t, 1, counterValue(t, m.transitions.WithLabelValues("loading", "error")), 0)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}

	assert.Contains(t, names, "inspiration_quote_state_transitions_total")
	assert.Contains(t, names, "inspiration_quote_status")
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, c.Write(&m))

	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, g.Write(&m))

	return m.GetGauge().GetValue()
}

func TestNewQuoteMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewQuoteMetrics(reg)
	require.NoError(t, err)

	_, err = NewQuoteMetrics(reg)
	assert.Error(t, err)
}
