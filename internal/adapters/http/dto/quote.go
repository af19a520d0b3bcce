package dto

import (
	"time"

	"github.com/betterdays/inspiration-service/internal/domain"
)

// QuoteResponse is the JSON shape of a displayed quote.
type QuoteResponse struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// QuoteStateResponse carries the three signals a renderer needs, plus the
// status name. Data is null until a cycle succeeds.
type QuoteStateResponse struct {
	Data      *QuoteResponse `json:"data"`
	IsLoading bool           `json:"isLoading"`
	IsError   bool           `json:"isError"`
	Status    string         `json:"status"`

	// Attempt and Cycle are diagnostics for the current fetch cycle.
	Attempt   int       `json:"attempt"`
	Cycle     uint64    `json:"cycle"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewQuoteStateResponse converts a provider snapshot. The failure cause is
// not exposed; both failure kinds surface as isError only.
func NewQuoteStateResponse(s domain.QuoteState) *QuoteStateResponse {
	resp := &QuoteStateResponse{
		IsLoading: s.IsLoading,
		IsError:   s.IsError,
		Status:    s.Status.String(),
		Attempt:   s.Attempt,
		Cycle:     s.Cycle,
		UpdatedAt: s.UpdatedAt,
	}

	if s.Data != nil {
		resp.Data = &QuoteResponse{
			Text:   s.Data.Text,
			Author: s.Data.Author,
		}
	}

	return resp
}
