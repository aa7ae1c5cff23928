// Package sla holds the service-level-agreement policy and the evaluator
// that classifies tickets against it.
package sla

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Resolution windows per priority. Fixed policy; making these configurable
// is explicitly out of scope.
var windows = map[domain.TicketPriority]time.Duration{
	domain.TicketPriorityUrgent: 7 * 24 * time.Hour,
	domain.TicketPriorityHigh:   7 * 24 * time.Hour,
	domain.TicketPriorityMedium: 14 * 24 * time.Hour,
	domain.TicketPriorityLow:    30 * 24 * time.Hour,
}

const defaultWindow = 14 * 24 * time.Hour

// Window returns the allowed resolution duration for a priority. Unknown
// priorities fall back to the medium window rather than failing.
func Window(priority domain.TicketPriority) time.Duration {
	if w, ok := windows[priority]; ok {
		return w
	}
	return defaultWindow
}
