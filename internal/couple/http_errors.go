package couple

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// errorKind tags every failure with a machine-readable kind so clients can
// branch without parsing messages.
type errorKind struct {
	status int
	kind   string
}

var errorKinds = map[error]errorKind{
	ErrMissingFields:      {http.StatusBadRequest, "missing_fields"},
	ErrInvalidInvite:      {http.StatusBadRequest, "invalid_invite"},
	ErrInvalidCredentials: {http.StatusUnauthorized, "invalid_credentials"},
	ErrNoSuchUser:         {http.StatusNotFound, "no_such_user"},
	ErrNoCoupleToJoin:     {http.StatusNotFound, "no_couple_to_join"},
	ErrPartnerKeyNotFound: {http.StatusNotFound, "partner_key_not_found"},
	ErrSlotsFull:          {http.StatusConflict, "slots_full"},
	ErrEmailTaken:         {http.StatusConflict, "email_taken"},
	ErrAlreadyPaired:      {http.StatusConflict, "already_paired"},
	ErrFirstUserExists:    {http.StatusConflict, "first_user_exists"},
	ErrNoUsers:            {http.StatusConflict, "no_users"},
	ErrCoupleIncomplete:   {http.StatusConflict, "couple_incomplete"},
}

// RespondError writes the JSON error envelope for a service failure.
// Unrecognized errors become opaque 500s.
func RespondError(c *fiber.Ctx, err error) error {
	for sentinel, ek := range errorKinds {
		if errors.Is(err, sentinel) {
			return c.Status(ek.status).JSON(fiber.Map{"error": sentinel.Error(), "kind": ek.kind})
		}
	}
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error", "kind": "internal"})
}
