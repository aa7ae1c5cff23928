package lifecycle

import "github.com/spec-kit/helpdesk-service/internal/domain"

// Action names a lifecycle operation on a ticket.
type Action string

const (
	ActionSubmit        Action = "submit"
	ActionAssign        Action = "assign"
	ActionStartProgress Action = "start_progress"
	ActionReview        Action = "review"
	ActionResolve       Action = "resolve"
	ActionComplete      Action = "complete"
	ActionReject        Action = "reject"
	ActionPostpone      Action = "postpone"
	ActionClose         Action = "close"
)

type transitionKey struct {
	from   domain.TicketStatus
	action Action
}

// transitions is the full legal (status, action) -> status table. An entry
// absent here is undefined for that source status.
var transitions = map[transitionKey]domain.TicketStatus{
	{domain.TicketStatusDraft, ActionSubmit}:             domain.TicketStatusSubmitted,
	{domain.TicketStatusSubmitted, ActionAssign}:         domain.TicketStatusAssigned,
	{domain.TicketStatusSubmitted, ActionReject}:         domain.TicketStatusRejected,
	{domain.TicketStatusPending, ActionAssign}:           domain.TicketStatusAssigned,
	{domain.TicketStatusAssigned, ActionStartProgress}:   domain.TicketStatusInProgress,
	{domain.TicketStatusAssigned, ActionReject}:          domain.TicketStatusRejected,
	{domain.TicketStatusAssigned, ActionPostpone}:        domain.TicketStatusPending,
	{domain.TicketStatusInProgress, ActionReview}:        domain.TicketStatusWaitingApproval,
	{domain.TicketStatusInProgress, ActionResolve}:       domain.TicketStatusResolved,
	{domain.TicketStatusInProgress, ActionComplete}:      domain.TicketStatusCompleted,
	{domain.TicketStatusInProgress, ActionPostpone}:      domain.TicketStatusPending,
	{domain.TicketStatusWaitingApproval, ActionResolve}:  domain.TicketStatusResolved,
	{domain.TicketStatusWaitingApproval, ActionComplete}: domain.TicketStatusCompleted,
	{domain.TicketStatusWaitingApproval, ActionReject}:   domain.TicketStatusRejected,
	{domain.TicketStatusResolved, ActionClose}:           domain.TicketStatusClosed,
	{domain.TicketStatusCompleted, ActionClose}:          domain.TicketStatusClosed,
}

// reasonRequired marks actions that must carry a justification.
var reasonRequired = map[Action]bool{
	ActionReject:   true,
	ActionPostpone: true,
}

// Target returns the target status for (from, action) and whether the pair
// is defined.
func Target(from domain.TicketStatus, action Action) (domain.TicketStatus, bool) {
	target, ok := transitions[transitionKey{from, action}]
	return target, ok
}

// RequiresReason reports whether the action must carry a justification.
func RequiresReason(action Action) bool {
	return reasonRequired[action]
}

// ActionsFrom returns the actions defined for a source status, useful for
// surfacing legal next steps to callers.
func ActionsFrom(from domain.TicketStatus) []Action {
	var actions []Action
	for key := range transitions {
		if key.from == from {
			actions = append(actions, key.action)
		}
	}
	return actions
}
