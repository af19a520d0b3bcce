package domain

// Quote is an inspirational text paired with its author.
// It has no identity beyond being the currently displayed value and is
// rebuilt from scratch on every fetch attempt.
type Quote struct {
	// Text is the body of the quote.
	Text string

	// Author is who said or wrote the quote.
	Author string
}

// Validate reports whether the quote is displayable.
// Both fields must be present and non-empty.
func (q *Quote) Validate() error {
	if q == nil {
		return NewValidationError("", MessageInvalidResponse)
	}

	if q.Text == "" {
		return NewValidationError("text", MessageInvalidResponse)
	}

	if q.Author == "" {
		return NewValidationError("author", MessageInvalidResponse)
	}

	return nil
}
