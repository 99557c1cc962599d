package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/package-tracking/internal/api/http/handlers"
	"github.com/spec-kit/package-tracking/internal/auth"
	"github.com/spec-kit/package-tracking/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Packages       *handlers.PackagesHandler
	Tracking       *handlers.TrackingHandler
	Admin          *handlers.AdminHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Public tracking lookup, no authentication.
	app.Get("/tracking/:code", cfg.Tracking.Track)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Get("/me", cfg.Users.Me)
	authProtected.Post("/password/change", cfg.Users.ChangePassword)

	packages := app.Group("/packages", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	packages.Post("", auth.RequireRole(domain.RoleClient), cfg.Packages.Create)
	packages.Get("", cfg.Packages.List)
	packages.Get("/:id", cfg.Packages.Get)
	packages.Post("/:id/actions", cfg.Packages.ApplyAction)
	packages.Patch("/:id", auth.RequireRole(domain.RoleManager), cfg.Packages.UpdateDetails)
	packages.Put("/:id/payment", auth.RequireRole(domain.RoleManager), cfg.Packages.SetPayment)
	packages.Post("/:id/files", cfg.Packages.AttachFile)
	packages.Post("/:id/messages", cfg.Packages.AddMessage)
	packages.Get("/:id/history", cfg.Packages.ListHistory)

	app.Get("/logists", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Admin.ListLogists)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleManager))
	admin.Post("/users", cfg.Admin.CreateUser)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Put("/users/:id/role", auth.RequireRole(domain.RoleAdmin), cfg.Admin.SetRole)
	admin.Put("/users/:id/active", cfg.Admin.SetActive)
	admin.Put("/logists/:id/profile", cfg.Admin.UpsertLogistProfile)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	notifications.Get("", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
}
