package routes

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/loveloggy/loveloggy/internal/couple"
)

// RegisterExportRoute adds the data-export endpoint: the full couple
// document with password hashes stripped. Message contents stay sealed;
// an export is only readable by someone holding the shared key.
func RegisterExportRoute(app *fiber.App, store couple.Store) {
	app.Get("/export", func(c *fiber.Ctx) error {
		state, err := store.Load(c.UserContext())
		if err != nil {
			return couple.RespondError(c, err)
		}

		redact := func(u *couple.User) *couple.Profile {
			if u == nil {
				return nil
			}
			p := u.Profile()
			return &p
		}

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"exportedAt": time.Now().UTC(),
			"user1":      redact(state.User1),
			"user2":      redact(state.User2),
			"messages":   state.Messages,
			"keys":       state.Keys,
			"pairedAt":   state.PairedAt,
			"startDate":  state.StartDate,
		})
	})
}
