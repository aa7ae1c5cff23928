package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/service"
)

// AnalyticsHandler serves dashboard aggregates.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analyticsService}
}

// Volume GET /analytics/volume?from=&to=, per-day created/resolved counts.
// The range defaults to the trailing thirty days.
func (h *AnalyticsHandler) Volume(c *fiber.Ctx) error {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now
	if from := parseTime(c.Query("from")); from != nil {
		start = *from
	}
	if to := parseTime(c.Query("to")); to != nil {
		end = *to
	}

	series, err := h.analytics.Volume(c.Context(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": series})
}

// Workload GET /analytics/workload.
func (h *AnalyticsHandler) Workload(c *fiber.Ctx) error {
	loads, err := h.analytics.Workload(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": loads})
}

// Distribution GET /analytics/distribution.
func (h *AnalyticsHandler) Distribution(c *fiber.Ctx) error {
	dist, err := h.analytics.Distributions(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dist})
}

// Summary GET /analytics/summary.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.analytics.Summarize(c.Context(), time.Now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}
