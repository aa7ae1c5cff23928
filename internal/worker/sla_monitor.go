package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
)

// SLAMonitor periodically scans open tickets and logs the ones that have
// breached or are approaching their priority window. It observes only; no
// status is changed on a breach.
type SLAMonitor struct {
	tickets  repository.TicketRepository
	logger   *zap.Logger
	interval time.Duration
}

// NewSLAMonitor creates the monitor. A non-positive interval defaults to
// fifteen minutes.
func NewSLAMonitor(tickets repository.TicketRepository, logger *zap.Logger, interval time.Duration) *SLAMonitor {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &SLAMonitor{tickets: tickets, logger: logger, interval: interval}
}

// Run blocks until ctx is cancelled, sweeping on each tick.
func (m *SLAMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ctx, time.Now().UTC())
		}
	}
}

func (m *SLAMonitor) sweep(ctx context.Context, now time.Time) {
	tickets, err := m.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Statuses: []domain.TicketStatus{
			domain.TicketStatusSubmitted,
			domain.TicketStatusPending,
			domain.TicketStatusAssigned,
			domain.TicketStatusInProgress,
			domain.TicketStatusWaitingApproval,
		},
	})
	if err != nil {
		m.logger.Error("sla sweep: listing open tickets failed", zap.Error(err))
		return
	}

	breached, approaching := 0, 0
	for i := range tickets {
		eval := sla.Evaluate(&tickets[i], now)
		if eval == nil {
			continue
		}
		switch eval.State {
		case sla.StateBreached:
			breached++
			m.logger.Warn("sla breached",
				zap.String("ticket_id", tickets[i].ID),
				zap.String("display_id", tickets[i].DisplayID),
				zap.String("priority", string(tickets[i].Priority)),
				zap.Float64("overdue_hours", eval.OverdueHours))
		case sla.StateApproaching:
			approaching++
		}
	}

	m.logger.Info("sla sweep complete",
		zap.Int("open", len(tickets)),
		zap.Int("breached", breached),
		zap.Int("approaching", approaching))
}
