package messages

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/loveloggy/loveloggy/internal/couple"
)

// Handler exposes the message log endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a messages HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type appendRequest struct {
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
}

// Append stores one sealed message.
func (h *Handler) Append(c *fiber.Ctx) error {
	var req appendRequest
	if err := c.BodyParser(&req); err != nil {
		return couple.RespondError(c, couple.ErrMissingFields)
	}
	_, err := h.service.Append(c.UserContext(), AppendInput{
		SenderID:   req.SenderID,
		SenderName: req.SenderName,
		Ciphertext: req.Ciphertext,
		IV:         req.IV,
	})
	if err != nil {
		return couple.RespondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

// List returns the full history in insertion order.
func (h *Handler) List(c *fiber.Ctx) error {
	msgs, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return couple.RespondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"messages": msgs})
}
