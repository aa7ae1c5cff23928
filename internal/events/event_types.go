package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated          EventType = "ticket_created"
	EventTicketStatusChanged    EventType = "ticket_status_changed"
	EventTicketAcknowledged     EventType = "ticket_acknowledged"
	EventTicketAttachmentLinked EventType = "ticket_attachment_linked"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	DisplayID  string                `json:"display_id"`
	Department string                `json:"department"`
	Priority   domain.TicketPriority `json:"priority"`
	Subject    string                `json:"subject"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Action    string              `json:"action"`
	Reason    string              `json:"reason,omitempty"`
}

// TicketAcknowledgedPayload payload.
type TicketAcknowledgedPayload struct {
	AcknowledgedAt time.Time `json:"acknowledged_at"`
}

// TicketAttachmentLinkedPayload payload.
type TicketAttachmentLinkedPayload struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
}
