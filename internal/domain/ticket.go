package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusDraft           TicketStatus = "draft"
	TicketStatusSubmitted       TicketStatus = "submitted"
	TicketStatusPending         TicketStatus = "pending"
	TicketStatusAssigned        TicketStatus = "assigned"
	TicketStatusInProgress      TicketStatus = "in_progress"
	TicketStatusWaitingApproval TicketStatus = "waiting_approval"
	TicketStatusResolved        TicketStatus = "resolved"
	TicketStatusCompleted       TicketStatus = "completed"
	TicketStatusRejected        TicketStatus = "rejected"
	TicketStatusClosed          TicketStatus = "closed"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// ValidPriority reports whether p is a known priority value.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// IsTerminal reports whether the status has no outbound transitions.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusClosed || s == TicketStatusRejected
}

// IsSettled reports whether the ticket reached the end of its working
// life: resolved, completed, closed or rejected. Settled tickets are never
// evaluated against the SLA window.
func (s TicketStatus) IsSettled() bool {
	switch s {
	case TicketStatusResolved, TicketStatusCompleted, TicketStatusClosed, TicketStatusRejected:
		return true
	}
	return false
}

// Ticket is the aggregate for help-desk requests.
//
// SubmittedAt is set once when the ticket leaves draft and never changes;
// all SLA arithmetic anchors to it. AssignedAt, AcknowledgedAt, CompletedAt
// and ResolvedAt are each set exactly once by the matching lifecycle action
// and never cleared.
type Ticket struct {
	ID             string
	DisplayID      string
	RequesterID    string
	AssigneeID     *string
	ModeratorID    *string
	Subject        string
	Description    string
	Department     string
	Status         TicketStatus
	Priority       TicketPriority
	Reason         string
	SubmittedAt    *time.Time
	AssignedAt     *time.Time
	AcknowledgedAt *time.Time
	CompletedAt    *time.Time
	ResolvedAt     *time.Time
	Attachments    []Attachment
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SettledAt returns the resolution anchor for analytics: ResolvedAt when
// present, otherwise CompletedAt, otherwise nil.
func (t *Ticket) SettledAt() *time.Time {
	if t.ResolvedAt != nil {
		return t.ResolvedAt
	}
	return t.CompletedAt
}

// HasAttachment reports whether a file identifier is already linked.
func (t *Ticket) HasAttachment(fileID string) bool {
	for _, att := range t.Attachments {
		if att.FileID == fileID {
			return true
		}
	}
	return false
}
