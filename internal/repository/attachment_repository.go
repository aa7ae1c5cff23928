package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AttachmentRepository persists the ticket/file link.
type AttachmentRepository interface {
	// Link associates a file with a ticket. Linking an already-present
	// file_id is a no-op: it reports linked=false and no duplicate row.
	Link(ctx context.Context, attachment *domain.Attachment) (linked bool, err error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error)
}

type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository constructs repository.
func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentRepository{pool: pool}
}

func (r *attachmentRepository) Link(ctx context.Context, attachment *domain.Attachment) (bool, error) {
	const query = `
        INSERT INTO ticket_attachments (ticket_id, file_id, filename, size_bytes, content_type)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (ticket_id, file_id) DO NOTHING`
	cmd, err := r.pool.Exec(ctx, query,
		attachment.TicketID,
		attachment.FileID,
		attachment.Filename,
		attachment.SizeBytes,
		attachment.ContentType,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error) {
	const query = `
        SELECT id, ticket_id, file_id, filename, size_bytes, content_type, linked_at
        FROM ticket_attachments WHERE ticket_id=$1 ORDER BY linked_at, id`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var att domain.Attachment
		if err := rows.Scan(
			&att.ID,
			&att.TicketID,
			&att.FileID,
			&att.Filename,
			&att.SizeBytes,
			&att.ContentType,
			&att.LinkedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, att)
	}
	return result, rows.Err()
}
