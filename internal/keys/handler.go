package keys

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/loveloggy/loveloggy/internal/couple"
)

// Handler exposes the key registry endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a key registry HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	UserID    string          `json:"userId"`
	PublicKey json.RawMessage `json:"publicKey"`
}

// Register stores the caller's public key.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return couple.RespondError(c, couple.ErrMissingFields)
	}
	if err := h.service.Register(c.UserContext(), req.UserID, req.PublicKey); err != nil {
		return couple.RespondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

// Partner returns the other user's public key.
func (h *Handler) Partner(c *fiber.Ctx) error {
	record, err := h.service.PartnerKey(c.UserContext(), c.Params("userId"))
	if err != nil {
		return couple.RespondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"publicKey": record.PublicKeyJWK})
}
