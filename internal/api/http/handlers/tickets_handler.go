package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/lifecycle"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	tickets     *service.TicketService
	attachments *service.AttachmentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, attachmentService *service.AttachmentService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, attachments: attachmentService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Subject) == "" {
		return apperrors.NewValidationError("subject required", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), principal.User.ID, service.TicketCreateInput{
		Subject:      req.Subject,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
		Priority:     req.Priority,
		Submit:       req.Submit,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket, time.Now())})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter := parseTicketQuery(c)
	// Requesters only see their own tickets; assignees their own queue.
	switch principal.User.Role {
	case domain.RoleRequester:
		id := principal.User.ID
		filter.RequesterID = &id
	case domain.RoleAssignee:
		id := principal.User.ID
		filter.AssigneeID = &id
	}

	tickets, err := h.tickets.ListTickets(c.Context(), filter)
	if err != nil {
		return err
	}
	now := time.Now()
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i], now))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.tickets.GetTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	history, err := h.tickets.ListHistory(c.Context(), ticket.ID, 100, 0)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, history, time.Now())})
}

// ApplyStatusAction POST /tickets/:id/status.
func (h *TicketsHandler) ApplyStatusAction(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.StatusActionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Action) == "" {
		return apperrors.NewValidationError("action required", nil)
	}

	ticket, err := h.tickets.ApplyAction(c.Context(), principal.User.ID, c.Params("id"), lifecycle.Action(req.Action), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket, time.Now())})
}

// AssignTicket POST /tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssigneeID == "" {
		return apperrors.NewValidationError("assignee_id required", nil)
	}

	ticket, err := h.tickets.AssignTo(c.Context(), principal.User.ID, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket, time.Now())})
}

// AcknowledgeTicket POST /tickets/:id/acknowledge.
func (h *TicketsHandler) AcknowledgeTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.tickets.Acknowledge(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket, time.Now())})
}

// LinkAttachment POST /tickets/:id/attachments.
func (h *TicketsHandler) LinkAttachment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.LinkAttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FileID == "" {
		return apperrors.NewValidationError("file_id required", nil)
	}

	attachment, err := h.attachments.Link(c.Context(), principal.User.ID, c.Params("id"), service.LinkInput{
		FileID:      req.FileID,
		Filename:    req.Filename,
		SizeBytes:   req.FileSize,
		ContentType: req.ContentType,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": attachmentResponse(attachment)})
}

// UploadAttachment POST /tickets/:id/attachments/upload. Multipart upload
// runs both phases: bytes go to the file service, then the returned file id
// is linked to the ticket.
func (h *TicketsHandler) UploadAttachment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("multipart field 'file' required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable upload", nil)
	}
	defer file.Close()

	attachment, err := h.attachments.UploadAndLink(c.Context(), principal.User.ID, c.Params("id"),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": attachmentResponse(attachment)})
}

// ListAttachments GET /tickets/:id/attachments.
func (h *TicketsHandler) ListAttachments(c *fiber.Ctx) error {
	attachments, err := h.attachments.ListForTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		items = append(items, *attachmentResponse(&attachments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if dept := c.Query("department"); dept != "" {
		filter.Department = &dept
	}
	if term := c.Query("search"); term != "" {
		filter.SearchTerm = &term
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket, now time.Time) dto.TicketSummary {
	return dto.TicketSummary{
		ID:          ticket.ID,
		DisplayID:   ticket.DisplayID,
		RequesterID: ticket.RequesterID,
		AssigneeID:  ticket.AssigneeID,
		Subject:     ticket.Subject,
		Department:  ticket.Department,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		SLA:         sla.Evaluate(ticket, now),
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket, history []domain.TicketHistory, now time.Time) dto.TicketDetailResponse {
	attachments := make([]dto.AttachmentResponse, 0, len(ticket.Attachments))
	for i := range ticket.Attachments {
		attachments = append(attachments, *attachmentResponse(&ticket.Attachments[i]))
	}
	return dto.TicketDetailResponse{
		ID:             ticket.ID,
		DisplayID:      ticket.DisplayID,
		RequesterID:    ticket.RequesterID,
		AssigneeID:     ticket.AssigneeID,
		ModeratorID:    ticket.ModeratorID,
		Subject:        ticket.Subject,
		Description:    ticket.Description,
		Department:     ticket.Department,
		Status:         ticket.Status,
		Priority:       ticket.Priority,
		Reason:         ticket.Reason,
		SLA:            sla.Evaluate(ticket, now),
		SubmittedAt:    ticket.SubmittedAt,
		AssignedAt:     ticket.AssignedAt,
		AcknowledgedAt: ticket.AcknowledgedAt,
		CompletedAt:    ticket.CompletedAt,
		ResolvedAt:     ticket.ResolvedAt,
		Attachments:    attachments,
		History:        historyResponses(history),
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
}

func attachmentResponse(att *domain.Attachment) *dto.AttachmentResponse {
	return &dto.AttachmentResponse{
		ID:          att.ID,
		FileID:      att.FileID,
		Filename:    att.Filename,
		SizeBytes:   att.SizeBytes,
		ContentType: att.ContentType,
		LinkedAt:    att.LinkedAt,
	}
}

func historyResponses(entries []domain.TicketHistory) []dto.TicketHistoryResponse {
	resp := make([]dto.TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.TicketHistoryResponse{
			ID:         entry.ID,
			ChangeType: entry.ChangeType,
			ActorID:    entry.ActorID,
			OldValue:   entry.OldValue,
			NewValue:   entry.NewValue,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return resp
}
