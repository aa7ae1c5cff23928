package sla

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ComplianceState classifies a ticket against its SLA window.
type ComplianceState string

const (
	StateNormal      ComplianceState = "normal"
	StateApproaching ComplianceState = "approaching"
	StateBreached    ComplianceState = "breached"
)

// approachingFloor is the minimum width of the approaching band: even for
// short windows a ticket within its last two days counts as approaching.
const approachingFloor = 48 * time.Hour

// Evaluation is the computed SLA status of one ticket.
type Evaluation struct {
	State          ComplianceState `json:"state"`
	Deadline       time.Time       `json:"deadline"`
	RemainingHours float64         `json:"remaining_hours,omitempty"`
	OverdueHours   float64         `json:"overdue_hours,omitempty"`
}

// Evaluate computes the compliance classification of a ticket at the given
// instant. now is always an explicit input so results are reproducible.
//
// Returns nil for tickets that are not subject to the SLA clock: settled
// statuses (resolved, completed, closed, rejected) and tickets that have
// not been submitted yet.
func Evaluate(ticket *domain.Ticket, now time.Time) *Evaluation {
	if ticket == nil || ticket.SubmittedAt == nil || ticket.Status.IsSettled() {
		return nil
	}

	window := Window(ticket.Priority)
	deadline := ticket.SubmittedAt.Add(window)
	remaining := deadline.Sub(now)

	if remaining < 0 {
		return &Evaluation{
			State:        StateBreached,
			Deadline:     deadline,
			OverdueHours: (-remaining).Hours(),
		}
	}

	band := window / 4
	if band < approachingFloor {
		band = approachingFloor
	}
	state := StateNormal
	if remaining <= band {
		state = StateApproaching
	}
	return &Evaluation{
		State:          state,
		Deadline:       deadline,
		RemainingHours: remaining.Hours(),
	}
}

// MetWindow reports whether a settled ticket was resolved or completed
// inside its SLA window. Tickets without a settlement timestamp report
// false.
func MetWindow(ticket *domain.Ticket) bool {
	if ticket == nil || ticket.SubmittedAt == nil {
		return false
	}
	settled := ticket.SettledAt()
	if settled == nil {
		return false
	}
	return settled.Sub(*ticket.SubmittedAt) <= Window(ticket.Priority)
}
