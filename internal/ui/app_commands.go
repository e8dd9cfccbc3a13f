package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"supplyask/internal/query"
	"supplyask/internal/session"
)

// submitQueryCmd runs one query off the update loop and reports its outcome.
func submitQueryCmd(ctx context.Context, sub session.Submitter, ticket session.Ticket, req query.Request) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		outcome := sub.Submit(ctx, req)
		return QuerySettledMsg{Ticket: ticket, Outcome: outcome, Elapsed: time.Since(start)}
	}
}
