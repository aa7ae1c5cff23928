package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/directory"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/lifecycle"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows. Lifecycle actions on the same
// ticket are serialized through a keyed mutex: apply reads then writes
// status, so two concurrent actions must not both succeed against the same
// source state.
type TicketService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	names      *directory.Cache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics

	locks sync.Map // ticket id -> *sync.Mutex
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	Names       *directory.Cache
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject      string
	Description  string
	DepartmentID string
	Priority     domain.TicketPriority
	Submit       bool
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	RequesterID *string
	AssigneeID  *string
	Department  *string
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		names:      deps.Names,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
	}
}

// CreateTicket creates a ticket for a requester. The department identifier
// is resolved to its display value at creation time; tickets start in draft
// and are optionally submitted in the same call.
func (s *TicketService) CreateTicket(ctx context.Context, requesterID string, input TicketCreateInput) (*domain.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	department := input.DepartmentID
	if s.names != nil && department != "" {
		department = s.names.DepartmentName(ctx, input.DepartmentID)
	}

	ticket := &domain.Ticket{
		DisplayID:   generateDisplayID(),
		RequesterID: requesterID,
		Subject:     subject,
		Description: strings.TrimSpace(input.Description),
		Department:  department,
		Status:      domain.TicketStatusDraft,
		Priority:    priority,
	}

	if input.Submit {
		next, err := lifecycle.Apply(*ticket, lifecycle.ActionSubmit, "", time.Now())
		if err != nil {
			return nil, err
		}
		*ticket = next
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  requesterID,
		Payload: events.TicketCreatedPayload{
			DisplayID:  ticket.DisplayID,
			Department: ticket.Department,
			Priority:   ticket.Priority,
			Subject:    ticket.Subject,
		},
	})
	return ticket, nil
}

// ApplyAction validates and applies a lifecycle action on a ticket. The
// result is the updated ticket; validation failures (INVALID_TRANSITION,
// MISSING_REASON) always reach the caller and never mutate the ticket.
func (s *TicketService) ApplyAction(ctx context.Context, actorID, ticketID string, action lifecycle.Action, reason string) (*domain.Ticket, error) {
	unlock := s.lockTicket(ticketID)
	defer unlock()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	next, err := lifecycle.Apply(*ticket, action, strings.TrimSpace(reason), time.Now())
	if err != nil {
		return nil, err
	}
	if action == lifecycle.ActionAssign && next.AssigneeID == nil {
		next.AssigneeID = &actorID
	}

	if err := s.tickets.Update(ctx, &next); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.metrics.RecordTransition(string(oldStatus), string(action))
	s.recordStatusChange(ctx, actorID, next.ID, oldStatus, next.Status, string(action), next.Reason)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: next.ID,
		ActorID:  actorID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: next.Status,
			Action:    string(action),
			Reason:    strings.TrimSpace(reason),
		},
	})
	return &next, nil
}

// AssignTo assigns a ticket to a specific assignee via the assign action.
// AssignedAt is set once; assigning again later never overwrites it.
func (s *TicketService) AssignTo(ctx context.Context, actorID, ticketID, assigneeID string) (*domain.Ticket, error) {
	unlock := s.lockTicket(ticketID)
	defer unlock()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	next, err := lifecycle.Apply(*ticket, lifecycle.ActionAssign, "", time.Now())
	if err != nil {
		return nil, err
	}
	next.AssigneeID = &assigneeID
	next.ModeratorID = &actorID

	if err := s.tickets.Update(ctx, &next); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.metrics.RecordTransition(string(oldStatus), string(lifecycle.ActionAssign))
	s.recordStatusChange(ctx, actorID, next.ID, oldStatus, next.Status, string(lifecycle.ActionAssign), "")
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: next.ID,
		ActorID:  actorID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: next.Status,
			Action:    string(lifecycle.ActionAssign),
		},
	})
	return &next, nil
}

// Acknowledge records that the assignee has seen an assigned ticket. The
// status does not change.
func (s *TicketService) Acknowledge(ctx context.Context, actorID, ticketID string) (*domain.Ticket, error) {
	unlock := s.lockTicket(ticketID)
	defer unlock()

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.Acknowledge(*ticket, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.tickets.Update(ctx, &next); err != nil {
		return nil, apperrors.MapError(err)
	}
	if next.AcknowledgedAt != nil {
		s.recordHistory(ctx, actorID, next.ID, domain.ChangeTypeAcknowledge,
			map[string]any{}, map[string]any{"acknowledged_at": next.AcknowledgedAt})
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAcknowledged,
			TicketID: next.ID,
			ActorID:  actorID,
			Payload:  events.TicketAcknowledgedPayload{AcknowledgedAt: *next.AcknowledgedAt},
		})
	}
	return &next, nil
}

// GetTicket fetches one ticket with its attachments.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.getTicket(ctx, ticketID)
}

// ListTickets returns the filterable collection read; this is the sole
// input feeding the analytics aggregator.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		RequesterID: filter.RequesterID,
		AssigneeID:  filter.AssigneeID,
		Department:  filter.Department,
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		SearchTerm:  filter.SearchTerm,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListHistory returns the audit trail of a ticket.
func (s *TicketService) ListHistory(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketHistory, error) {
	if s.history == nil {
		return []domain.TicketHistory{}, nil
	}
	if _, err := s.getTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByTicket(ctx, ticketID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// lockTicket serializes lifecycle mutations per ticket id.
func (s *TicketService) lockTicket(ticketID string) func() {
	val, _ := s.locks.LoadOrStore(ticketID, &sync.Mutex{})
	mu := val.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *TicketService) recordStatusChange(ctx context.Context, actorID, ticketID string, oldStatus, newStatus domain.TicketStatus, action, reason string) {
	newValue := map[string]any{"status": newStatus, "action": action}
	if reason != "" {
		newValue["reason"] = reason
	}
	s.recordHistory(ctx, actorID, ticketID, domain.ChangeTypeStatus,
		map[string]any{"status": oldStatus}, newValue)
}

func (s *TicketService) recordHistory(ctx context.Context, actorID, ticketID string, changeType domain.HistoryChangeType, oldValue, newValue map[string]any) {
	if s.history == nil {
		return
	}
	actor := actorID
	entry := &domain.TicketHistory{
		TicketID:   ticketID,
		ActorID:    &actor,
		ChangeType: changeType,
		OldValue:   oldValue,
		NewValue:   newValue,
	}
	_ = s.history.Create(ctx, entry)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateDisplayID() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
