package domain

import "time"

// HistoryChangeType categorizes audit entries.
type HistoryChangeType string

const (
	ChangeTypeStatus      HistoryChangeType = "STATUS"
	ChangeTypeAcknowledge HistoryChangeType = "ACKNOWLEDGE"
	ChangeTypeAttachment  HistoryChangeType = "ATTACHMENT"
)

// TicketHistory records one audited change on a ticket.
type TicketHistory struct {
	ID         string
	TicketID   string
	ActorID    *string
	ChangeType HistoryChangeType
	OldValue   map[string]any
	NewValue   map[string]any
	CreatedAt  time.Time
}
