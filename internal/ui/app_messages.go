package ui

import (
	"time"

	"supplyask/internal/query"
	"supplyask/internal/session"
)

// SubmitMsg asks the app to submit the current form.
type SubmitMsg struct{}

// QuerySettledMsg carries the outcome of the submission identified by Ticket.
type QuerySettledMsg struct {
	Ticket  session.Ticket
	Outcome query.Outcome
	Elapsed time.Duration
}
