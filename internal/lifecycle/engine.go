// Package lifecycle implements the ticket status state machine: the static
// transition table, the engine that validates and applies actions, and the
// timestamp bookkeeping tied to each action.
package lifecycle

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Apply validates action against the ticket's current status and returns a
// new ticket value with the target status and the matching timestamp set.
// The input ticket is never mutated; on any failure the caller's value is
// untouched.
//
// Timestamps are set exactly once: assign on an already-assigned ticket (a
// ticket re-entering assigned via pending) keeps the original AssignedAt.
func Apply(ticket domain.Ticket, action Action, reason string, now time.Time) (domain.Ticket, error) {
	target, ok := Target(ticket.Status, action)
	if !ok {
		return domain.Ticket{}, apperrors.NewInvalidTransition(string(ticket.Status), string(action))
	}
	if RequiresReason(action) && reason == "" {
		return domain.Ticket{}, apperrors.NewMissingReason(string(action))
	}

	next := ticket
	next.Status = target
	next.UpdatedAt = now
	if reason != "" {
		next.Reason = reason
	}

	switch action {
	case ActionSubmit:
		if next.SubmittedAt == nil {
			next.SubmittedAt = &now
		}
	case ActionAssign:
		if next.AssignedAt == nil {
			next.AssignedAt = &now
		}
	case ActionResolve:
		if next.ResolvedAt == nil {
			next.ResolvedAt = &now
		}
	case ActionComplete:
		if next.CompletedAt == nil {
			next.CompletedAt = &now
		}
	}
	return next, nil
}

// Acknowledge records that the assignee has seen the ticket. It is a side
// action, not a transition: legal only while the ticket is assigned, sets
// AcknowledgedAt once and leaves the status alone.
func Acknowledge(ticket domain.Ticket, now time.Time) (domain.Ticket, error) {
	if ticket.Status != domain.TicketStatusAssigned {
		return domain.Ticket{}, apperrors.NewInvalidTransition(string(ticket.Status), "acknowledge")
	}
	next := ticket
	if next.AcknowledgedAt == nil {
		next.AcknowledgedAt = &now
		next.UpdatedAt = now
	}
	return next, nil
}
