package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Analytics      *handlers.AnalyticsHandler
	Directory      *handlers.DirectoryHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/status", cfg.Tickets.ApplyStatusAction)
	tickets.Post("/:id/assign", auth.RequireRole(domain.RoleModerator, domain.RoleAdmin), cfg.Tickets.AssignTicket)
	tickets.Post("/:id/acknowledge", auth.RequireRole(domain.RoleAssignee, domain.RoleAdmin), cfg.Tickets.AcknowledgeTicket)
	tickets.Post("/:id/attachments", cfg.Tickets.LinkAttachment)
	tickets.Post("/:id/attachments/upload", cfg.Tickets.UploadAttachment)
	tickets.Get("/:id/attachments", cfg.Tickets.ListAttachments)

	analytics := app.Group("/analytics", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleModerator, domain.RoleAdmin))
	analytics.Get("/volume", cfg.Analytics.Volume)
	analytics.Get("/workload", cfg.Analytics.Workload)
	analytics.Get("/distribution", cfg.Analytics.Distribution)
	analytics.Get("/summary", cfg.Analytics.Summary)

	dir := app.Group("/directory", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	dir.Get("/departments/:id", cfg.Directory.GetDepartment)
	dir.Post("/resolve", cfg.Directory.Resolve)
}
