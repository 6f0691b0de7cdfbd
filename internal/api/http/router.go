package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sejin/dispatch-platform/internal/api/http/handlers"
	"github.com/sejin/dispatch-platform/internal/auth"
	"github.com/sejin/dispatch-platform/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Accounts      *handlers.AccountsHandler
	Orders        *handlers.OrdersHandler
	Authenticator *auth.Authenticator
}

// RoutePolicy is the ordered route policy table. First match wins; paths
// without a match require authentication.
func RoutePolicy() *auth.Policy {
	return auth.NewPolicy(
		auth.Rule{Pattern: "/health/**", Require: auth.Public()},
		auth.Rule{Pattern: "/api/auth/**", Require: auth.Public()},
		auth.Rule{Pattern: "/api/admin/**", Require: auth.RequireRole(domain.RoleAdmin)},
		auth.Rule{Pattern: "/api/driver/**", Require: auth.RequireRole(domain.RoleDriver)},
		auth.Rule{Pattern: "/api/plant/**", Require: auth.RequireRole(domain.RolePlant)},
	)
}

// RegisterRoutes wires HTTP routes behind the authenticator and the policy
// gate. Both run before every handler.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Authenticator.Handle)
	app.Use(auth.Enforce(RoutePolicy()))

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)

	api := app.Group("/api")
	api.Get("/me", cfg.Auth.Me)
	api.Get("/orders", cfg.Orders.List)

	admin := app.Group("/api/admin")
	admin.Post("/accounts", cfg.Accounts.Create)
	admin.Get("/accounts", cfg.Accounts.List)
	admin.Post("/orders/:id/assign", cfg.Orders.Assign)

	driver := app.Group("/api/driver")
	driver.Get("/orders", cfg.Orders.ListForDriver)
	driver.Post("/orders/:id/deliver", cfg.Orders.Deliver)

	plant := app.Group("/api/plant")
	plant.Post("/orders", cfg.Orders.Create)
	plant.Get("/orders", cfg.Orders.ListForPlant)
}
