package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/betterdays/inspiration-service/internal/adapters/http/dto"
	"github.com/betterdays/inspiration-service/internal/platform/logging"
	"github.com/betterdays/inspiration-service/internal/ports"
)

// Quote route paths, relative to the API group.
const (
	QuotePath        = "/quote"
	QuoteRetryPath   = "/quote/retry"
	QuoteRefreshPath = "/quote/refresh"
	QuoteEventsPath  = "/quote/events"
)

// Server-sent event names.
const (
	EventState     = "state"
	EventHeartbeat = "heartbeat"
)

// DefaultHeartbeat is how often an idle event stream sends a heartbeat.
const DefaultHeartbeat = 15 * time.Second

// QuoteHandler exposes the quote provider's signals over HTTP.
type QuoteHandler struct {
	provider  ports.QuoteProvider
	heartbeat time.Duration
}

// NewQuoteHandler creates a new quote handler. A non-positive heartbeat
// uses DefaultHeartbeat.
func NewQuoteHandler(provider ports.QuoteProvider, heartbeat time.Duration) *QuoteHandler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}

	return &QuoteHandler{
		provider:  provider,
		heartbeat: heartbeat,
	}
}

// GetQuote handles GET /api/v1/quote.
// Returns the current state: data, isLoading, isError and status.
//
// @Summary Get the displayed quote
// @Tags quote
// @Produce json
// @Success 200 {object} dto.QuoteStateResponse
// @Router /api/v1/quote [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewQuoteStateResponse(h.provider.Snapshot()))
}

// RetryQuote handles POST /api/v1/quote/retry.
// Restarts the fetch cycle from attempt 1 and returns the Loading state.
//
// @Summary Retry fetching the quote
// @Tags quote
// @Produce json
// @Success 202 {object} dto.QuoteStateResponse
// @Router /api/v1/quote/retry [post]
func (h *QuoteHandler) RetryQuote(c *gin.Context) {
	h.provider.Retry()

	c.JSON(http.StatusAccepted, dto.NewQuoteStateResponse(h.provider.Snapshot()))
}

// RefreshQuote handles POST /api/v1/quote/refresh.
// Fetches a new quote even after success, when refresh is enabled.
//
// @Summary Refresh the quote
// @Tags quote
// @Produce json
// @Success 202 {object} dto.QuoteStateResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/quote/refresh [post]
func (h *QuoteHandler) RefreshQuote(c *gin.Context) {
	if err := h.provider.Refresh(c.Request.Context()); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.NewQuoteStateResponse(h.provider.Snapshot()))
}

// StreamEvents handles GET /api/v1/quote/events.
// Streams a "state" event with the current state and then one per change,
// until the client disconnects or the provider closes.
//
// @Summary Stream quote state changes
// @Tags quote
// @Produce text/event-stream
// @Router /api/v1/quote/events [get]
func (h *QuoteHandler) StreamEvents(c *gin.Context) {
	ctx := c.Request.Context()
	logger := logging.FromContext(ctx)

	updates, unsubscribe := h.provider.Subscribe()
	defer unsubscribe()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	logger.Debug("quote event stream opened")

	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false

		case state, ok := <-updates:
			if !ok {
				return false
			}

			c.SSEvent(EventState, dto.NewQuoteStateResponse(state))

			return true

		case now := <-heartbeat.C:
			c.SSEvent(EventHeartbeat, now.UTC().Format(time.RFC3339))
			return true
		}
	})

	logger.Debug("quote event stream closed", slog.Bool("client_gone", ctx.Err() != nil))
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	rg.GET(QuotePath, h.GetQuote)
	rg.POST(QuoteRetryPath, h.RetryQuote)
	rg.POST(QuoteRefreshPath, h.RefreshQuote)
	rg.GET(QuoteEventsPath, h.StreamEvents)
}
