package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/blob"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AttachmentService implements the two-phase upload-then-link protocol.
// Phase one stores bytes in the external blob store; phase two records the
// link on the ticket. The link is idempotent per (ticket, file id), so a
// caller that lost the link response can retry safely.
type AttachmentService struct {
	tickets     repository.TicketRepository
	attachments repository.AttachmentRepository
	blobs       *blob.Client
	history     repository.TicketHistoryRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// AttachmentDependencies bundles collaborators.
type AttachmentDependencies struct {
	TicketRepo     repository.TicketRepository
	AttachmentRepo repository.AttachmentRepository
	BlobClient     *blob.Client
	HistoryRepo    repository.TicketHistoryRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// LinkInput is the metadata produced by a completed upload.
type LinkInput struct {
	FileID      string
	Filename    string
	SizeBytes   int64
	ContentType string
}

// NewAttachmentService constructs the service.
func NewAttachmentService(deps AttachmentDependencies) *AttachmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentService{
		tickets:     deps.TicketRepo,
		attachments: deps.AttachmentRepo,
		blobs:       deps.BlobClient,
		history:     deps.HistoryRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// UploadAndLink runs both phases. An upload failure aborts the operation
// with nothing linked. If the upload succeeds but the link fails, the blob
// is orphaned: that is logged as a warning and the link error is returned
// so the caller can retry the link with the same file id.
func (s *AttachmentService) UploadAndLink(ctx context.Context, actorID, ticketID, filename, contentType string, content io.Reader) (*domain.Attachment, error) {
	result, err := s.blobs.Upload(ctx, filename, contentType, content)
	if err != nil {
		return nil, err
	}

	attachment, err := s.Link(ctx, actorID, ticketID, LinkInput{
		FileID:      result.FileID,
		Filename:    result.Filename,
		SizeBytes:   result.SizeBytes,
		ContentType: result.ContentType,
	})
	if err != nil {
		s.logger.Warn("orphaned blob: upload succeeded but link failed",
			zap.String("ticket_id", ticketID),
			zap.String("file_id", result.FileID),
			zap.Error(err))
		return nil, err
	}
	return attachment, nil
}

// Link associates an uploaded file with a ticket. Linking the same file id
// twice yields exactly one attachment record and no error.
func (s *AttachmentService) Link(ctx context.Context, actorID, ticketID string, input LinkInput) (*domain.Attachment, error) {
	if strings.TrimSpace(input.FileID) == "" {
		return nil, apperrors.NewUpstreamError("file-service", errors.New("blob reference missing file id"))
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	attachment := &domain.Attachment{
		TicketID:    ticketID,
		FileID:      input.FileID,
		Filename:    input.Filename,
		SizeBytes:   input.SizeBytes,
		ContentType: input.ContentType,
	}
	linked, err := s.attachments.Link(ctx, attachment)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !linked {
		// Already present: idempotent success, return the stored record.
		return s.findExisting(ctx, ticketID, input.FileID)
	}

	s.recordLink(ctx, actorID, ticketID, input)
	s.publishLinked(ctx, actorID, ticketID, input)
	return s.findExisting(ctx, ticketID, input.FileID)
}

// ListForTicket returns a ticket's attachments in link order.
func (s *AttachmentService) ListForTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error) {
	attachments, err := s.attachments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachments, nil
}

func (s *AttachmentService) findExisting(ctx context.Context, ticketID, fileID string) (*domain.Attachment, error) {
	attachments, err := s.attachments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range attachments {
		if attachments[i].FileID == fileID {
			return &attachments[i], nil
		}
	}
	return nil, apperrors.NewInternalError(errors.New("linked attachment not found"))
}

func (s *AttachmentService) recordLink(ctx context.Context, actorID, ticketID string, input LinkInput) {
	if s.history == nil {
		return
	}
	actor := actorID
	entry := &domain.TicketHistory{
		TicketID:   ticketID,
		ActorID:    &actor,
		ChangeType: domain.ChangeTypeAttachment,
		OldValue:   map[string]any{},
		NewValue: map[string]any{
			"file_id":  input.FileID,
			"filename": input.Filename,
		},
	}
	_ = s.history.Create(ctx, entry)
}

func (s *AttachmentService) publishLinked(ctx context.Context, actorID, ticketID string, input LinkInput) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketAttachmentLinked,
		TicketID:  ticketID,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload: events.TicketAttachmentLinkedPayload{
			FileID:   input.FileID,
			Filename: input.Filename,
		},
	})
}
