package service

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/analytics"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AnalyticsService feeds dashboard queries. It pulls a ticket snapshot
// through the collection read and hands it to the pure aggregator; it never
// mutates shared state, so concurrent dashboard reads are safe.
type AnalyticsService struct {
	tickets repository.TicketRepository
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(tickets repository.TicketRepository) *AnalyticsService {
	return &AnalyticsService{tickets: tickets}
}

// Summary aggregates headline dashboard numbers.
type Summary struct {
	Total                int                    `json:"total"`
	CompletionRate       float64                `json:"completion_rate"`
	AverageResolutionHrs float64                `json:"average_resolution_hours"`
	SLAComplianceRate    float64                `json:"sla_compliance_rate"`
	Breached             int                    `json:"breached"`
	Approaching          int                    `json:"approaching"`
	Distribution         analytics.Distribution `json:"distribution"`
}

// snapshotLimit caps the collection read feeding aggregation.
const snapshotLimit = 10000

// Volume returns the per-day created/resolved series for [start, end].
func (s *AnalyticsService) Volume(ctx context.Context, start, end time.Time) ([]analytics.VolumePoint, error) {
	tickets, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.VolumeSeries(tickets, start, end), nil
}

// Workload returns per-department open work counts.
func (s *AnalyticsService) Workload(ctx context.Context) ([]analytics.DepartmentLoad, error) {
	tickets, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.DepartmentWorkload(tickets), nil
}

// Distributions returns ticket counts by priority and status.
func (s *AnalyticsService) Distributions(ctx context.Context) (analytics.Distribution, error) {
	tickets, err := s.snapshot(ctx)
	if err != nil {
		return analytics.Distribution{}, err
	}
	return analytics.Distributions(tickets), nil
}

// Summarize computes headline metrics at the given instant. now is passed
// through to the SLA evaluator so results are reproducible.
func (s *AnalyticsService) Summarize(ctx context.Context, now time.Time) (*Summary, error) {
	tickets, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
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
		case sla.StateApproaching:
			approaching++
		}
	}

	return &Summary{
		Total:                len(tickets),
		CompletionRate:       analytics.CompletionRate(tickets),
		AverageResolutionHrs: analytics.AverageResolutionTime(tickets).Hours(),
		SLAComplianceRate:    analytics.SLAComplianceRate(tickets),
		Breached:             breached,
		Approaching:          approaching,
		Distribution:         analytics.Distributions(tickets),
	}, nil
}

func (s *AnalyticsService) snapshot(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{Limit: snapshotLimit})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}
