package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/fooddash/internal/api/http/handlers"
	"github.com/spec-kit/fooddash/internal/auth"
	"github.com/spec-kit/fooddash/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Catalog *handlers.CatalogHandler
	Profile *handlers.ProfileHandler
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Get("/", cfg.Catalog.Home)

	app.Get("/signin", cfg.Auth.SignInPage)
	app.Post("/signin", cfg.Auth.SignIn)
	app.Get("/signup", cfg.Auth.SignUpPage)
	app.Post("/signup", cfg.Auth.SignUp)
	app.Post("/signout", cfg.Auth.SignOut)

	app.Get("/restaurants", cfg.Catalog.Restaurants)
	app.Get("/resturants", cfg.Catalog.Restaurants)
	app.Post("/restaurants/:id", cfg.Catalog.UpdateRestaurant)

	app.Get("/create-restaurant", auth.RequireMerchant(), cfg.Catalog.CreateRestaurantPage)
	app.Post("/create-restaurant", auth.RequireMerchant(), cfg.Catalog.CreateRestaurant)

	app.Get("/food/:id", cfg.Catalog.Menu)
	app.Post("/food/:id", cfg.Catalog.CreateFood)
	app.Post("/food/:id/items/:foodId", cfg.Catalog.UpdateFood)

	app.Get("/profile", auth.RequireToken(), cfg.Profile.Profile)
}
