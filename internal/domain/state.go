package domain

import "time"

// Status is the lifecycle state of a quote fetch cycle.
type Status int

const (
	// StatusLoading means a cycle is in flight, including silent automatic retries.
	StatusLoading Status = iota

	// StatusSuccess means the cycle produced a valid quote. Terminal for the cycle.
	StatusSuccess

	// StatusError means every attempt of the cycle failed.
	StatusError
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// QuoteState is the observable output of a quote provider.
// IsLoading, IsError and Data are the three signals a renderer consumes;
// the remaining fields are diagnostics.
type QuoteState struct {
	Status    Status
	Data      *Quote
	IsLoading bool
	IsError   bool

	// Cycle is the generation number of the fetch cycle that produced this state.
	Cycle uint64

	// Attempt is the 1-based attempt within Cycle. A new cycle starts at 1.
	Attempt int

	// Err is the last failure of the cycle, set only in StatusError.
	Err error

	UpdatedAt time.Time
}
