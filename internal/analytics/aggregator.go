// Package analytics turns a ticket collection into dashboard metrics.
// Every function here is pure: no I/O, no mutation of the input slice, and
// deterministic for a fixed input and clock. Handlers and dashboards call
// these instead of reimplementing the arithmetic.
package analytics

import (
	"sort"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/sla"
)

// VolumePoint is one day in the created/resolved time series.
type VolumePoint struct {
	Date     string `json:"date"`
	Created  int    `json:"created"`
	Resolved int    `json:"resolved"`
}

// DepartmentLoad summarizes one department's open work.
type DepartmentLoad struct {
	Department string `json:"department"`
	Assigned   int    `json:"assigned"`
	Completed  int    `json:"completed"`
	Pending    int    `json:"pending"`
}

// Distribution holds ticket counts keyed by priority and by status.
type Distribution struct {
	ByPriority map[domain.TicketPriority]int `json:"by_priority"`
	ByStatus   map[domain.TicketStatus]int   `json:"by_status"`
}

const dayFormat = "2006-01-02"

// VolumeSeries counts tickets created and tickets resolved per day inside
// [start, end]. Days without activity appear with zero counts so charts get
// a contiguous axis.
func VolumeSeries(tickets []domain.Ticket, start, end time.Time) []VolumePoint {
	start = start.Truncate(24 * time.Hour)
	end = end.Truncate(24 * time.Hour)
	if end.Before(start) {
		return []VolumePoint{}
	}

	created := map[string]int{}
	resolved := map[string]int{}
	for i := range tickets {
		t := &tickets[i]
		if t.SubmittedAt != nil && !t.SubmittedAt.Before(start) && t.SubmittedAt.Before(end.Add(24*time.Hour)) {
			created[t.SubmittedAt.Format(dayFormat)]++
		}
		if settled := t.SettledAt(); settled != nil && !settled.Before(start) && settled.Before(end.Add(24*time.Hour)) {
			resolved[settled.Format(dayFormat)]++
		}
	}

	series := make([]VolumePoint, 0, int(end.Sub(start).Hours()/24)+1)
	for day := start; !day.After(end); day = day.Add(24 * time.Hour) {
		key := day.Format(dayFormat)
		series = append(series, VolumePoint{
			Date:     key,
			Created:  created[key],
			Resolved: resolved[key],
		})
	}
	return series
}

// DepartmentWorkload counts assigned, completed and pending tickets per
// department. Closed and rejected tickets carry no open work and are
// excluded from the assigned/pending buckets.
func DepartmentWorkload(tickets []domain.Ticket) []DepartmentLoad {
	byDept := map[string]*DepartmentLoad{}
	for i := range tickets {
		t := &tickets[i]
		load, ok := byDept[t.Department]
		if !ok {
			load = &DepartmentLoad{Department: t.Department}
			byDept[t.Department] = load
		}
		switch t.Status {
		case domain.TicketStatusAssigned, domain.TicketStatusInProgress, domain.TicketStatusWaitingApproval:
			load.Assigned++
		case domain.TicketStatusCompleted, domain.TicketStatusResolved:
			load.Completed++
		case domain.TicketStatusSubmitted, domain.TicketStatusPending, domain.TicketStatusDraft:
			load.Pending++
		}
	}

	result := make([]DepartmentLoad, 0, len(byDept))
	for _, load := range byDept {
		result = append(result, *load)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Department < result[j].Department })
	return result
}

// Distributions counts tickets by priority and by status.
func Distributions(tickets []domain.Ticket) Distribution {
	dist := Distribution{
		ByPriority: map[domain.TicketPriority]int{},
		ByStatus:   map[domain.TicketStatus]int{},
	}
	for i := range tickets {
		dist.ByPriority[tickets[i].Priority]++
		dist.ByStatus[tickets[i].Status]++
	}
	return dist
}

// CompletionRate is the fraction of tickets whose status is resolved or
// completed. An empty collection yields 0, not a division error.
func CompletionRate(tickets []domain.Ticket) float64 {
	if len(tickets) == 0 {
		return 0
	}
	done := 0
	for i := range tickets {
		switch tickets[i].Status {
		case domain.TicketStatusResolved, domain.TicketStatusCompleted:
			done++
		}
	}
	return float64(done) / float64(len(tickets))
}

// AverageResolutionTime is the mean duration from submission to settlement
// over tickets that have a settlement timestamp. Tickets without one are
// skipped; an empty set yields 0 rather than NaN.
func AverageResolutionTime(tickets []domain.Ticket) time.Duration {
	var total time.Duration
	n := 0
	for i := range tickets {
		t := &tickets[i]
		settled := t.SettledAt()
		if t.SubmittedAt == nil || settled == nil {
			continue
		}
		total += settled.Sub(*t.SubmittedAt)
		n++
	}
	if n == 0 {
		return 0
	}
	return total / time.Duration(n)
}

// SLAComplianceRate is the fraction of resolved/completed tickets whose
// actual resolution time fit inside the SLA window for their priority.
// With no settled tickets the rate is 0.
func SLAComplianceRate(tickets []domain.Ticket) float64 {
	settled, met := 0, 0
	for i := range tickets {
		t := &tickets[i]
		switch t.Status {
		case domain.TicketStatusResolved, domain.TicketStatusCompleted, domain.TicketStatusClosed:
		default:
			continue
		}
		if t.SettledAt() == nil {
			continue
		}
		settled++
		if sla.MetWindow(t) {
			met++
		}
	}
	if settled == 0 {
		return 0
	}
	return float64(met) / float64(settled)
}
