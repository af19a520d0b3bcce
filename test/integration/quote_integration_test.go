//go:build integration

package integration

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betterdays/inspiration-service/internal/adapters/http/dto"
	"github.com/betterdays/inspiration-service/internal/ports"
)

const waitFor = 3 * time.Second

func getState(t *testing.T, s *stack) dto.QuoteStateResponse {
	t.Helper()

	resp, err := http.Get(s.server.URL + "/api/v1/quote")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state dto.QuoteStateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))

	return state
}

func post(t *testing.T, s *stack, path string) (int, []byte) {
	t.Helper()

	resp, err := http.Post(s.server.URL+path, "application/json", http.NoBody)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func waitForStatus(t *testing.T, s *stack, status string) dto.QuoteStateResponse {
	t.Helper()

	var last dto.QuoteStateResponse

	require.Eventually(t, func() bool {
		last = getState(t, s)
		return last.Status == status
	}, waitFor, 10*time.Millisecond, "provider never reached %s", status)

	return last
}

func TestQuote_FetchOnMount(t *testing.T) {
	up := newUpstream(t, okQuote("Stay hungry.", "Steve Jobs"))
	s := newStack(t, up.URL)

	state := waitForStatus(t, s, "success")

	require.NotNil(t, state.Data)
	assert.Equal(t, "Stay hungry.", state.Data.Text)
	assert.Equal(t, "Steve Jobs", state.Data.Author)
	assert.False(t, state.IsLoading)
	assert.False(t, state.IsError)
	assert.Equal(t, 1, up.callCount())
}

func TestQuote_ExhaustsRetries(t *testing.T) {
	tests := []struct {
		name  string
		reply upstreamReply
	}{
		{name: "server error", reply: failure(http.StatusInternalServerError)},
		{name: "missing author", reply: upstreamReply{status: http.StatusOK, body: `{"quote":"only text"}`}},
		{name: "not json", reply: upstreamReply{status: http.StatusOK, body: `<html>`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := newUpstream(t, tt.reply)
			s := newStack(t, up.URL)

			state := waitForStatus(t, s, "error")

			assert.True(t, state.IsError)
			assert.Nil(t, state.Data)
			assert.Equal(t, 1+s.cfg.Quote.MaxRetries, up.callCount())
		})
	}
}

func TestQuote_RecoversWithinCycle(t *testing.T) {
	up := newUpstream(t,
		failure(http.StatusServiceUnavailable),
		okQuote("Keep going.", "Anon"),
	)
	s := newStack(t, up.URL)

	state := waitForStatus(t, s, "success")

	assert.Equal(t, "Keep going.", state.Data.Text)
	assert.Equal(t, 2, state.Attempt)
	assert.Equal(t, 2, up.callCount())
}

func TestQuote_RetryAfterError(t *testing.T) {
	up := newUpstream(t, failure(http.StatusInternalServerError))
	s := newStack(t, up.URL)

	failed := waitForStatus(t, s, "error")

	release := up.hold()
	defer release()

	up.script(okQuote("Second wind.", "Anon"))

	code, body := post(t, s, "/api/v1/quote/retry")
	require.Equal(t, http.StatusAccepted, code)

	var retried dto.QuoteStateResponse
	require.NoError(t, json.Unmarshal(body, &retried))

	assert.True(t, retried.IsLoading)
	assert.False(t, retried.IsError)
	assert.Equal(t, 1, retried.Attempt)
	assert.Equal(t, failed.Cycle+1, retried.Cycle)

	release()

	state := waitForStatus(t, s, "success")
	assert.Equal(t, "Second wind.", state.Data.Text)
}

func TestQuote_RetryReachesUpstreamAfterOutage(t *testing.T) {
	up := newUpstream(t, failure(http.StatusInternalServerError))
	s := newStack(t, up.URL)

	attempts := 1 + s.cfg.Quote.MaxRetries
	require.Greater(t, 2*attempts, s.cfg.Client.CircuitBreaker.MaxFailures,
		"two failed cycles must be enough to trip the breaker")

	first := waitForStatus(t, s, "error")
	assert.Equal(t, attempts, up.callCount())

	code, _ := post(t, s, "/api/v1/quote/retry")
	require.Equal(t, http.StatusAccepted, code)

	require.Eventually(t, func() bool {
		state := getState(t, s)
		return state.Status == "error" && state.Cycle == first.Cycle+1
	}, waitFor, 10*time.Millisecond)
	assert.Equal(t, 2*attempts, up.callCount(), "every attempt of the second cycle reaches the upstream")

	up.script(okQuote("Back again.", "Anon"))

	code, _ = post(t, s, "/api/v1/quote/retry")
	require.Equal(t, http.StatusAccepted, code)

	state := waitForStatus(t, s, "success")
	assert.Equal(t, "Back again.", state.Data.Text)
	assert.Equal(t, 1, state.Attempt)
	assert.Equal(t, 2*attempts+1, up.callCount())
}

func TestQuote_Refresh(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		wantStatus int
		wantText   string
	}{
		{name: "disabled", enabled: false, wantStatus: http.StatusConflict, wantText: "First."},
		{name: "enabled", enabled: true, wantStatus: http.StatusAccepted, wantText: "Second."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := newUpstream(t, okQuote("First.", "A"), okQuote("Second.", "B"))
			s := newStack(t, up.URL, withFeature(ports.FlagQuoteRefresh, tt.enabled))

			waitForStatus(t, s, "success")

			code, body := post(t, s, "/api/v1/quote/refresh")
			require.Equal(t, tt.wantStatus, code, string(body))

			require.Eventually(t, func() bool {
				state := getState(t, s)
				return state.Status == "success" && state.Data.Text == tt.wantText
			}, waitFor, 10*time.Millisecond)
		})
	}
}

func TestQuote_LazyMount(t *testing.T) {
	up := newUpstream(t, okQuote("Later.", "A"))
	s := newStack(t, up.URL, withLazyMount())

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, up.callCount())

	waitForStatus(t, s, "success")
	assert.Equal(t, 1, up.callCount())
}

func TestQuote_EventStream(t *testing.T) {
	up := newUpstream(t, okQuote("Streamed.", "A"))
	release := up.hold()
	defer release()

	s := newStack(t, up.URL)

	resp, err := http.Get(s.server.URL + "/api/v1/quote/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	first := readStateEvent(t, reader)
	assert.True(t, first.IsLoading)

	release()

	var last dto.QuoteStateResponse
	for last.Status != "success" {
		last = readStateEvent(t, reader)
	}

	assert.Equal(t, "Streamed.", last.Data.Text)
}

func readStateEvent(t *testing.T, r *bufio.Reader) dto.QuoteStateResponse {
	t.Helper()

	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)

		data, ok := strings.CutPrefix(strings.TrimSpace(line), "data:")
		if !ok {
			continue
		}

		var state dto.QuoteStateResponse
		if json.Unmarshal([]byte(data), &state) == nil && state.Status != "" {
			return state
		}
	}
}

func TestQuote_ReadinessAndMetrics(t *testing.T) {
	up := newUpstream(t, failure(http.StatusInternalServerError))
	s := newStack(t, up.URL)

	waitForStatus(t, s, "error")

	resp, err := http.Get(s.server.URL + "/-/ready")
	require.NoError(t, err)

	var ready struct {
		Status string                        `json:"status"`
		Checks map[string]*ports.CheckResult `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ready))
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "a quote outage must not take the service out of rotation")
	assert.Equal(t, string(ports.HealthStatusDegraded), ready.Status)
	require.Contains(t, ready.Checks, "quote-provider")
	assert.Equal(t, ports.HealthStatusDegraded, ready.Checks["quote-provider"].Status)

	resp, err = http.Get(s.server.URL + "/-/live")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(s.server.URL + "/-/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `inspiration_quote_fetch_attempts_total{outcome="failure"} 3`)
}
