// Package internal contains core application functionality
package internal

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"loadpulse/internal/config"
	apphttp "loadpulse/internal/http"
)

// publicCORSConfig is the CORS configuration for the public analytics
// endpoints. Permissive on purpose: the tracking snippet posts cross-origin
// from any instrumented page.
var publicCORSConfig = cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, Referer, User-Agent",
}

// MountAppRoutes mounts all application routes.
func MountAppRoutes(app *fiber.App, cfg *config.Config, analytics *apphttp.AnalyticsHandler, health *apphttp.HealthHandler) {
	app.Use(recover.New())
	app.Use(cors.New(publicCORSConfig))

	// Rate limiter for the public ingestion API (70 requests per minute per
	// IP). Applied in production only: it would interfere with testing.
	publicRateLimiter := conditionalRateLimiter(cfg, limiter.New(limiter.Config{
		Max:        70,
		Expiration: time.Minute,
	}))

	api := app.Group("/api")

	api.Post("/analytics/pageload", publicRateLimiter, analytics.PageLoadCreateAction)
	api.Post("/analytics/event", publicRateLimiter, analytics.EventCreateAction)
	api.Get("/analytics/pageloads", analytics.PageLoadsIndexAction)
	api.Get("/health", health.IndexAction)
}

// conditionalRateLimiter applies the limiter only in production.
func conditionalRateLimiter(cfg *config.Config, limit fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.IsProduction() {
			return limit(c)
		}
		return c.Next()
	}
}
