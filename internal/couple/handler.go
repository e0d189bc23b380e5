package couple

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the pairing and auth endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a couple HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type signupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	InviteCode string `json:"inviteCode"`
	StartDate  string `json:"startDate"`
}

type signupResponse struct {
	Success    bool     `json:"success"`
	User       Profile  `json:"user"`
	Coupled    bool     `json:"coupled"`
	InviteCode string   `json:"inviteCode,omitempty"`
	Partner    *Profile `json:"partner,omitempty"`
}

// Signup handles both the create-couple and join-via-invite paths.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return RespondError(c, ErrMissingFields)
	}
	result, err := h.service.Signup(c.UserContext(), SignupInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		InviteCode: req.InviteCode,
		StartDate:  req.StartDate,
	})
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(signupResponse{
		Success:    true,
		User:       result.User,
		Coupled:    result.Coupled,
		InviteCode: result.InviteCode,
		Partner:    result.Partner,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success    bool     `json:"success"`
	User       Profile  `json:"user"`
	Coupled    bool     `json:"coupled"`
	Partner    *Profile `json:"partner,omitempty"`
	InviteCode string   `json:"inviteCode,omitempty"`
}

// Login verifies credentials and returns the redacted session view.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return RespondError(c, ErrMissingFields)
	}
	result, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(loginResponse{
		Success:    true,
		User:       result.User,
		Coupled:    result.Coupled,
		Partner:    result.Partner,
		InviteCode: result.InviteCode,
	})
}

// statusProfile is the minimal public view used by the unauthenticated
// status endpoint: names and pictures only, no emails.
type statusProfile struct {
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic,omitempty"`
}

type statusResponse struct {
	Coupled    bool           `json:"coupled"`
	InviteCode string         `json:"inviteCode,omitempty"`
	User1      *statusProfile `json:"user1"`
	User2      *statusProfile `json:"user2"`
	PairedAt   *time.Time     `json:"pairedAt,omitempty"`
	StartDate  string         `json:"startDate,omitempty"`
}

// Status reports pairing progress.
func (h *Handler) Status(c *fiber.Ctx) error {
	result, err := h.service.Status(c.UserContext())
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(statusResponse{
		Coupled:    result.Coupled,
		InviteCode: result.InviteCode,
		User1:      toStatusProfile(result.User1),
		User2:      toStatusProfile(result.User2),
		PairedAt:   result.PairedAt,
		StartDate:  result.StartDate,
	})
}

type updateProfileRequest struct {
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic"`
}

// UpdateProfile edits the caller's name and/or profile picture.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return RespondError(c, ErrMissingFields)
	}
	profile, err := h.service.UpdateProfile(c.UserContext(), req.UserID, req.Name, req.ProfilePic)
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "user": profile})
}

func toStatusProfile(p *Profile) *statusProfile {
	if p == nil {
		return nil
	}
	return &statusProfile{Name: p.Name, ProfilePic: p.ProfilePic}
}
