package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func ticketIn(status domain.TicketStatus) domain.Ticket {
	return domain.Ticket{
		ID:       "t-1",
		Status:   status,
		Priority: domain.TicketPriorityMedium,
	}
}

func TestApplyLegalTransitions(t *testing.T) {
	cases := []struct {
		name   string
		from   domain.TicketStatus
		action Action
		reason string
		want   domain.TicketStatus
	}{
		{"submit draft", domain.TicketStatusDraft, ActionSubmit, "", domain.TicketStatusSubmitted},
		{"assign submitted", domain.TicketStatusSubmitted, ActionAssign, "", domain.TicketStatusAssigned},
		{"reject submitted", domain.TicketStatusSubmitted, ActionReject, "duplicate request", domain.TicketStatusRejected},
		{"assign pending", domain.TicketStatusPending, ActionAssign, "", domain.TicketStatusAssigned},
		{"start assigned", domain.TicketStatusAssigned, ActionStartProgress, "", domain.TicketStatusInProgress},
		{"reject assigned", domain.TicketStatusAssigned, ActionReject, "out of scope", domain.TicketStatusRejected},
		{"postpone assigned", domain.TicketStatusAssigned, ActionPostpone, "waiting on parts", domain.TicketStatusPending},
		{"review in progress", domain.TicketStatusInProgress, ActionReview, "", domain.TicketStatusWaitingApproval},
		{"resolve in progress", domain.TicketStatusInProgress, ActionResolve, "", domain.TicketStatusResolved},
		{"complete in progress", domain.TicketStatusInProgress, ActionComplete, "", domain.TicketStatusCompleted},
		{"postpone in progress", domain.TicketStatusInProgress, ActionPostpone, "blocked", domain.TicketStatusPending},
		{"resolve waiting approval", domain.TicketStatusWaitingApproval, ActionResolve, "", domain.TicketStatusResolved},
		{"complete waiting approval", domain.TicketStatusWaitingApproval, ActionComplete, "", domain.TicketStatusCompleted},
		{"reject waiting approval", domain.TicketStatusWaitingApproval, ActionReject, "not acceptable", domain.TicketStatusRejected},
		{"close resolved", domain.TicketStatusResolved, ActionClose, "", domain.TicketStatusClosed},
		{"close completed", domain.TicketStatusCompleted, ActionClose, "", domain.TicketStatusClosed},
	}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Apply(ticketIn(tc.from), tc.action, tc.reason, now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, next.Status)
			assert.Equal(t, now, next.UpdatedAt)
		})
	}
}

func TestApplyUndefinedPairsFail(t *testing.T) {
	cases := []struct {
		name   string
		from   domain.TicketStatus
		action Action
	}{
		{"close before resolve", domain.TicketStatusInProgress, ActionClose},
		{"resolve from draft", domain.TicketStatusDraft, ActionResolve},
		{"submit twice", domain.TicketStatusSubmitted, ActionSubmit},
		{"assign in progress", domain.TicketStatusInProgress, ActionAssign},
		{"reopen closed", domain.TicketStatusClosed, ActionSubmit},
		{"act on rejected", domain.TicketStatusRejected, ActionAssign},
		{"unknown action", domain.TicketStatusAssigned, Action("escalate")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := ticketIn(tc.from)
			_, err := Apply(ticket, tc.action, "", time.Now())
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
			// caller's value must be untouched
			assert.Equal(t, tc.from, ticket.Status)
		})
	}
}

func TestApplyReasonRequired(t *testing.T) {
	for _, action := range []Action{ActionReject, ActionPostpone} {
		t.Run(string(action), func(t *testing.T) {
			_, err := Apply(ticketIn(domain.TicketStatusAssigned), action, "", time.Now())
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, "MISSING_REASON"))
		})
	}

	next, err := Apply(ticketIn(domain.TicketStatusAssigned), ActionReject, "requester withdrew", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "requester withdrew", next.Reason)
}

func TestApplySetsTimestampsOnce(t *testing.T) {
	first := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	ticket := ticketIn(domain.TicketStatusSubmitted)
	assigned, err := Apply(ticket, ActionAssign, "", first)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedAt)
	assert.Equal(t, first, *assigned.AssignedAt)

	// postpone, then assign again: the original assignment time survives
	postponed, err := Apply(assigned, ActionPostpone, "on hold", first.Add(time.Hour))
	require.NoError(t, err)
	reassigned, err := Apply(postponed, ActionAssign, "", later)
	require.NoError(t, err)
	require.NotNil(t, reassigned.AssignedAt)
	assert.Equal(t, first, *reassigned.AssignedAt)
}

func TestAcknowledge(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("only while assigned", func(t *testing.T) {
		for _, status := range []domain.TicketStatus{
			domain.TicketStatusDraft,
			domain.TicketStatusSubmitted,
			domain.TicketStatusInProgress,
			domain.TicketStatusClosed,
		} {
			_, err := Acknowledge(ticketIn(status), now)
			assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"), string(status))
		}
	})

	t.Run("sets timestamp once, status unchanged", func(t *testing.T) {
		acked, err := Acknowledge(ticketIn(domain.TicketStatusAssigned), now)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusAssigned, acked.Status)
		require.NotNil(t, acked.AcknowledgedAt)
		assert.Equal(t, now, *acked.AcknowledgedAt)

		again, err := Acknowledge(acked, now.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, now, *again.AcknowledgedAt)
	})
}

func TestFullLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	step := func(t *testing.T, ticket domain.Ticket, action Action, reason string) domain.Ticket {
		t.Helper()
		now = now.Add(time.Hour)
		next, err := Apply(ticket, action, reason, now)
		require.NoError(t, err)
		return next
	}

	ticket := ticketIn(domain.TicketStatusDraft)
	ticket = step(t, ticket, ActionSubmit, "")
	ticket = step(t, ticket, ActionAssign, "")
	ticket = step(t, ticket, ActionStartProgress, "")
	ticket = step(t, ticket, ActionReview, "")
	ticket = step(t, ticket, ActionResolve, "")

	require.NotNil(t, ticket.SubmittedAt)
	require.NotNil(t, ticket.AssignedAt)
	require.NotNil(t, ticket.ResolvedAt)
	assert.True(t, ticket.SubmittedAt.Before(*ticket.ResolvedAt))

	ticket = step(t, ticket, ActionClose, "")
	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
	assert.True(t, ticket.Status.IsTerminal())

	_, err := Apply(ticket, ActionSubmit, "", now)
	assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
}

func TestActionsFrom(t *testing.T) {
	actions := ActionsFrom(domain.TicketStatusInProgress)
	assert.ElementsMatch(t, []Action{ActionReview, ActionResolve, ActionComplete, ActionPostpone}, actions)
	assert.Empty(t, ActionsFrom(domain.TicketStatusClosed))
}
