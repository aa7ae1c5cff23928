package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func slaTicket(priority domain.TicketPriority, status domain.TicketStatus, submittedAgo time.Duration, now time.Time) domain.Ticket {
	submitted := now.Add(-submittedAgo)
	return domain.Ticket{
		ID:          "t-1",
		Status:      status,
		Priority:    priority,
		SubmittedAt: &submitted,
	}
}

func TestWindowPerPriority(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, Window(domain.TicketPriorityUrgent))
	assert.Equal(t, 7*24*time.Hour, Window(domain.TicketPriorityHigh))
	assert.Equal(t, 14*24*time.Hour, Window(domain.TicketPriorityMedium))
	assert.Equal(t, 30*24*time.Hour, Window(domain.TicketPriorityLow))
	// unknown priorities get the medium window
	assert.Equal(t, 14*24*time.Hour, Window(domain.TicketPriority("unknown")))
}

func TestEvaluateBreached(t *testing.T) {
	now := time.Date(2026, 4, 9, 12, 0, 0, 0, time.UTC)

	// high priority submitted eight days ago: one day past the 7d window
	eval := Evaluate(ptrTicket(slaTicket(domain.TicketPriorityHigh, domain.TicketStatusInProgress, 8*24*time.Hour, now)), now)
	require.NotNil(t, eval)
	assert.Equal(t, StateBreached, eval.State)
	assert.InDelta(t, 24.0, eval.OverdueHours, 0.01)
	assert.Zero(t, eval.RemainingHours)
}

func TestEvaluateApproaching(t *testing.T) {
	now := time.Date(2026, 4, 9, 12, 0, 0, 0, time.UTC)

	// medium priority 12.5 days into a 14d window: inside the 3.5d band
	eval := Evaluate(ptrTicket(slaTicket(domain.TicketPriorityMedium, domain.TicketStatusAssigned, 12*24*time.Hour+12*time.Hour, now)), now)
	require.NotNil(t, eval)
	assert.Equal(t, StateApproaching, eval.State)
	assert.InDelta(t, 36.0, eval.RemainingHours, 0.01)
}

func TestEvaluateNormal(t *testing.T) {
	now := time.Date(2026, 4, 9, 12, 0, 0, 0, time.UTC)

	eval := Evaluate(ptrTicket(slaTicket(domain.TicketPriorityLow, domain.TicketStatusSubmitted, 24*time.Hour, now)), now)
	require.NotNil(t, eval)
	assert.Equal(t, StateNormal, eval.State)
	assert.InDelta(t, 29*24.0, eval.RemainingHours, 0.01)
}

func TestEvaluateApproachingFloor(t *testing.T) {
	now := time.Date(2026, 4, 9, 12, 0, 0, 0, time.UTC)

	// urgent window is 7d, quarter-window is 42h, so the 48h floor applies:
	// 45h remaining counts as approaching
	eval := Evaluate(ptrTicket(slaTicket(domain.TicketPriorityUrgent, domain.TicketStatusInProgress, 7*24*time.Hour-45*time.Hour, now)), now)
	require.NotNil(t, eval)
	assert.Equal(t, StateApproaching, eval.State)
}

func TestEvaluateSkipsSettledAndUnsubmitted(t *testing.T) {
	now := time.Now()

	for _, status := range []domain.TicketStatus{
		domain.TicketStatusResolved,
		domain.TicketStatusCompleted,
		domain.TicketStatusClosed,
		domain.TicketStatusRejected,
	} {
		ticket := slaTicket(domain.TicketPriorityHigh, status, 30*24*time.Hour, now)
		assert.Nil(t, Evaluate(&ticket, now), string(status))
	}

	draft := domain.Ticket{Status: domain.TicketStatusDraft, Priority: domain.TicketPriorityHigh}
	assert.Nil(t, Evaluate(&draft, now))
	assert.Nil(t, Evaluate(nil, now))
}

func TestMetWindow(t *testing.T) {
	now := time.Date(2026, 4, 9, 12, 0, 0, 0, time.UTC)

	inWindow := slaTicket(domain.TicketPriorityHigh, domain.TicketStatusResolved, 10*24*time.Hour, now)
	resolved := inWindow.SubmittedAt.Add(5 * 24 * time.Hour)
	inWindow.ResolvedAt = &resolved
	assert.True(t, MetWindow(&inWindow))

	late := slaTicket(domain.TicketPriorityHigh, domain.TicketStatusResolved, 10*24*time.Hour, now)
	lateResolved := late.SubmittedAt.Add(9 * 24 * time.Hour)
	late.ResolvedAt = &lateResolved
	assert.False(t, MetWindow(&late))

	unsettled := slaTicket(domain.TicketPriorityHigh, domain.TicketStatusInProgress, time.Hour, now)
	assert.False(t, MetWindow(&unsettled))
}

func ptrTicket(t domain.Ticket) *domain.Ticket {
	return &t
}
