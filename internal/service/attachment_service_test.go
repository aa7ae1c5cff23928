package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/blob"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func newAttachmentServiceForTest(tickets *fakeTicketRepo, attachments *fakeAttachmentRepo) *AttachmentService {
	return NewAttachmentService(AttachmentDependencies{
		TicketRepo:     tickets,
		AttachmentRepo: attachments,
		HistoryRepo:    &fakeHistoryRepo{},
	})
}

func TestLinkAttachment(t *testing.T) {
	tickets := newFakeTicketRepo()
	attachments := newFakeAttachmentRepo()
	svc := newAttachmentServiceForTest(tickets, attachments)
	seeded := seedTicket(tickets, domain.TicketStatusInProgress)

	input := LinkInput{
		FileID:      "blob-1",
		Filename:    "diagram.png",
		SizeBytes:   2048,
		ContentType: "image/png",
	}

	linked, err := svc.Link(context.Background(), "u-1", seeded.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "blob-1", linked.FileID)
	assert.Equal(t, "diagram.png", linked.Filename)
	assert.NotEmpty(t, linked.ID)
}

func TestLinkIsIdempotent(t *testing.T) {
	tickets := newFakeTicketRepo()
	attachments := newFakeAttachmentRepo()
	svc := newAttachmentServiceForTest(tickets, attachments)
	seeded := seedTicket(tickets, domain.TicketStatusInProgress)

	input := LinkInput{FileID: "blob-1", Filename: "log.txt"}

	first, err := svc.Link(context.Background(), "u-1", seeded.ID, input)
	require.NoError(t, err)

	// a retry after a lost response links nothing new and returns the
	// stored record
	second, err := svc.Link(context.Background(), "u-1", seeded.ID, input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	stored, err := svc.ListForTicket(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestLinkValidation(t *testing.T) {
	tickets := newFakeTicketRepo()
	attachments := newFakeAttachmentRepo()
	svc := newAttachmentServiceForTest(tickets, attachments)
	seeded := seedTicket(tickets, domain.TicketStatusInProgress)

	t.Run("missing file id is an upstream fault", func(t *testing.T) {
		_, err := svc.Link(context.Background(), "u-1", seeded.ID, LinkInput{FileID: "  "})
		assert.True(t, apperrors.IsCode(err, "UPSTREAM_ERROR"))
	})

	t.Run("unknown ticket", func(t *testing.T) {
		_, err := svc.Link(context.Background(), "u-1", "no-such-ticket", LinkInput{FileID: "blob-1"})
		assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	})
}

func TestUploadAndLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(blob.UploadResult{
			FileID: "blob-9", Filename: "report.pdf", SizeBytes: 11, ContentType: "application/pdf",
		})
	}))
	defer server.Close()

	tickets := newFakeTicketRepo()
	attachments := newFakeAttachmentRepo()
	svc := NewAttachmentService(AttachmentDependencies{
		TicketRepo:     tickets,
		AttachmentRepo: attachments,
		BlobClient:     blob.NewClient(server.URL, 5*time.Second),
		HistoryRepo:    &fakeHistoryRepo{},
	})
	seeded := seedTicket(tickets, domain.TicketStatusInProgress)

	linked, err := svc.UploadAndLink(context.Background(), "u-1", seeded.ID,
		"report.pdf", "application/pdf", strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "blob-9", linked.FileID)
	assert.Equal(t, "report.pdf", linked.Filename)
}

func TestUploadFailureLinksNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	tickets := newFakeTicketRepo()
	attachments := newFakeAttachmentRepo()
	svc := NewAttachmentService(AttachmentDependencies{
		TicketRepo:     tickets,
		AttachmentRepo: attachments,
		BlobClient:     blob.NewClient(server.URL, 5*time.Second),
		HistoryRepo:    &fakeHistoryRepo{},
	})
	seeded := seedTicket(tickets, domain.TicketStatusInProgress)

	_, err := svc.UploadAndLink(context.Background(), "u-1", seeded.ID,
		"report.pdf", "application/pdf", strings.NewReader("hello world"))
	assert.True(t, apperrors.IsCode(err, "UPSTREAM_ERROR"))

	stored, listErr := svc.ListForTicket(context.Background(), seeded.ID)
	require.NoError(t, listErr)
	assert.Empty(t, stored)
}

func TestLinkFailureSurfacesError(t *testing.T) {
	tickets := newFakeTicketRepo()
	attachments := newFakeAttachmentRepo()
	attachments.linkErr = errors.New("connection reset")
	svc := newAttachmentServiceForTest(tickets, attachments)
	seeded := seedTicket(tickets, domain.TicketStatusInProgress)

	_, err := svc.Link(context.Background(), "u-1", seeded.ID, LinkInput{FileID: "blob-1"})
	require.Error(t, err)

	// the failed link left nothing behind, so a retry succeeds
	attachments.linkErr = nil
	linked, err := svc.Link(context.Background(), "u-1", seeded.ID, LinkInput{FileID: "blob-1"})
	require.NoError(t, err)
	assert.Equal(t, "blob-1", linked.FileID)
}
