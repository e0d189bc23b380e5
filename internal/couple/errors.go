package couple

import "errors"

// Sentinel errors for the pairing, key and message flows. Callers match
// them with errors.Is; the HTTP layer maps them to status codes and kinds.
var (
	ErrMissingFields      = errors.New("missing fields")
	ErrSlotsFull          = errors.New("this couple space is full, only 2 users allowed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNoCoupleToJoin     = errors.New("no couple to join yet")
	ErrInvalidInvite      = errors.New("invalid invite code")
	ErrAlreadyPaired      = errors.New("couple already complete")
	ErrFirstUserExists    = errors.New("first user already exists, use invite code to join")
	ErrNoSuchUser         = errors.New("no such user")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoUsers            = errors.New("no users yet")
	ErrPartnerKeyNotFound = errors.New("partner key not found")
	ErrCoupleIncomplete   = errors.New("couple not complete yet")
)
