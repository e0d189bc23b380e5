package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterHealthRoutes adds the liveness endpoint. Backend failures are
// reported alongside ok so a probe can distinguish "up" from "healthy".
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		payload := fiber.Map{"ok": true, "system": "1-to-1 private couple"}

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if d.DB != nil {
			if err := d.DB.Ping(ctx); err != nil {
				payload["postgres"] = err.Error()
			}
		}
		if d.Cache != nil {
			if err := d.Cache.Ping(ctx).Err(); err != nil {
				payload["redis"] = err.Error()
			}
		}
		return c.Status(http.StatusOK).JSON(payload)
	})
}
