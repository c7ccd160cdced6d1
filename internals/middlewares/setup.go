package middlewares

import (
	"context"
	"log"
	"time"

	"medialibrary_backend/internals/configs"
	"medialibrary_backend/internals/middlewares/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"
)

// SetupMiddlewares: urutan penting, recover paling luar.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestID(configs.GetEnvDuration("HTTP_REQUEST_TIMEOUT", 5*time.Second)))
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	if configs.GetEnvBool("RATE_LIMIT_ENABLED", true) {
		app.Use(GlobalRateLimiter())
	}
}

// RequestID: X-Request-ID + timeout context (selaras dengan statement_timeout di DB)
func RequestID(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()

		ctx, cancel := context.WithTimeout(c.Context(), timeout)
		defer cancel()
		c.SetUserContext(ctx)

		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	}
}
