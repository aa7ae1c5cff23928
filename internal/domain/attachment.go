package domain

import "time"

// Attachment links an uploaded file to a ticket. FileID is the blob store
// identifier returned by the upload phase and is unique within a ticket.
type Attachment struct {
	ID          string
	TicketID    string
	FileID      string
	Filename    string
	SizeBytes   int64
	ContentType string
	LinkedAt    time.Time
}
