package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/sla"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject      string                `json:"subject"`
	Description  string                `json:"description"`
	DepartmentID string                `json:"department_id"`
	Priority     domain.TicketPriority `json:"priority"`
	Submit       bool                  `json:"submit"`
}

// StatusActionRequest payload for POST /tickets/:id/status.
type StatusActionRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

// AssignRequest payload for explicit assignment.
type AssignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// LinkAttachmentRequest payload for linking an already-uploaded file.
type LinkAttachmentRequest struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	FileSize    int64  `json:"file_size"`
	ContentType string `json:"content_type"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          string                `json:"id"`
	DisplayID   string                `json:"display_id"`
	RequesterID string                `json:"requester_id"`
	AssigneeID  *string               `json:"assignee_id"`
	Subject     string                `json:"subject"`
	Department  string                `json:"department"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	SLA         *sla.Evaluation       `json:"sla,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID             string                  `json:"id"`
	DisplayID      string                  `json:"display_id"`
	RequesterID    string                  `json:"requester_id"`
	AssigneeID     *string                 `json:"assignee_id"`
	ModeratorID    *string                 `json:"moderator_id"`
	Subject        string                  `json:"subject"`
	Description    string                  `json:"description"`
	Department     string                  `json:"department"`
	Status         domain.TicketStatus     `json:"status"`
	Priority       domain.TicketPriority   `json:"priority"`
	Reason         string                  `json:"reason,omitempty"`
	SLA            *sla.Evaluation         `json:"sla,omitempty"`
	SubmittedAt    *time.Time              `json:"submitted_at"`
	AssignedAt     *time.Time              `json:"assigned_at"`
	AcknowledgedAt *time.Time              `json:"acknowledged_at"`
	CompletedAt    *time.Time              `json:"completed_at"`
	ResolvedAt     *time.Time              `json:"resolved_at"`
	Attachments    []AttachmentResponse    `json:"attachments"`
	History        []TicketHistoryResponse `json:"history,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID          string    `json:"id"`
	FileID      string    `json:"file_id"`
	Filename    string    `json:"filename"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentType string    `json:"content_type"`
	LinkedAt    time.Time `json:"linked_at"`
}

// TicketHistoryResponse represents one audit entry.
type TicketHistoryResponse struct {
	ID         string                   `json:"id"`
	ChangeType domain.HistoryChangeType `json:"change_type"`
	ActorID    *string                  `json:"actor_id"`
	OldValue   map[string]any           `json:"old_value"`
	NewValue   map[string]any           `json:"new_value"`
	CreatedAt  time.Time                `json:"created_at"`
}
