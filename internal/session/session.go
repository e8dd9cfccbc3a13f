// Package session owns the query lifecycle of one user session.
// A Session moves Idle -> Pending on submit and Pending -> Settled when the
// pending submission's outcome arrives. Submitting again from Settled
// discards the previous outcome. There is no terminal phase.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"supplyask/internal/query"
)

var (
	// ErrSubmissionPending is returned by Submit while a query is in flight.
	ErrSubmissionPending = errors.New("a query is already pending")
	// ErrUnknownSubmission is returned by Settle for a ticket that is not
	// the pending one, including a ticket that has already settled.
	ErrUnknownSubmission = errors.New("unknown or already settled submission")
)

// Phase is the lifecycle position of a Session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseSettled:
		return "settled"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Ticket identifies one submission. Tickets are never reused.
type Ticket uint64

// State is a snapshot of a Session.
// Outcome is non-nil only in PhaseSettled.
type State struct {
	Phase       Phase
	Ticket      Ticket
	Request     query.Request
	Outcome     query.Outcome
	SubmittedAt time.Time
	SettledAt   time.Time
}

// Elapsed returns how long the current or last submission took.
// Zero when idle.
func (s State) Elapsed(now time.Time) time.Duration {
	switch s.Phase {
	case PhasePending:
		return now.Sub(s.SubmittedAt)
	case PhaseSettled:
		return s.SettledAt.Sub(s.SubmittedAt)
	default:
		return 0
	}
}

// Submitter performs one query. query.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req query.Request) query.Outcome
}

// Session is the single writer of a State. Safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	state State
	last  Ticket
	now   func() time.Time
}

// New creates an idle Session.
func New() *Session {
	return &Session{now: time.Now}
}

// Submit moves the session to Pending for req and returns the ticket the
// outcome must be settled with. Any previous outcome is discarded.
func (s *Session) Submit(req query.Request) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase == PhasePending {
		return 0, ErrSubmissionPending
	}
	s.last++
	s.state = State{
		Phase:       PhasePending,
		Ticket:      s.last,
		Request:     req,
		SubmittedAt: s.now(),
	}
	return s.last, nil
}

// Settle records outcome for the pending submission identified by t.
// Each ticket settles at most once.
func (s *Session) Settle(t Ticket, outcome query.Outcome) error {
	if outcome == nil {
		return errors.New("settle: nil outcome")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase != PhasePending || s.state.Ticket != t {
		return fmt.Errorf("settle ticket %d: %w", t, ErrUnknownSubmission)
	}
	s.state.Phase = PhaseSettled
	s.state.Outcome = outcome
	s.state.SettledAt = s.now()
	return nil
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CanSubmit reports whether Submit would be accepted.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase != PhasePending
}

// Ask runs one full cycle synchronously: submit, query, settle.
func (s *Session) Ask(ctx context.Context, sub Submitter, req query.Request) (query.Outcome, error) {
	t, err := s.Submit(req)
	if err != nil {
		return nil, err
	}
	outcome := sub.Submit(ctx, req)
	if err := s.Settle(t, outcome); err != nil {
		return nil, err
	}
	return outcome, nil
}
