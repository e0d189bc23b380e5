package couple

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service orchestrates signup, login and status for the one couple slot.
// All mutations flow through the store's serialized Update, so two racing
// joins can never both claim the second slot.
type Service struct {
	store      Store
	bcryptCost int
}

// NewService creates a pairing/auth service. A cost of zero falls back to
// bcrypt.DefaultCost.
func NewService(store Store, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{store: store, bcryptCost: bcryptCost}
}

// SignupInput carries the signup request fields. InviteCode present means
// the caller is joining an existing couple as the second user.
type SignupInput struct {
	Name       string
	Email      string
	Password   string
	InviteCode string
	StartDate  string
}

// SignupResult is the outcome of either signup path. InviteCode is set only
// on the create path; Partner only on the join path.
type SignupResult struct {
	User       Profile
	Coupled    bool
	InviteCode string
	Partner    *Profile
}

// Signup creates the first user (issuing an invite code) or joins the
// second user via a matching code.
func (s *Service) Signup(ctx context.Context, in SignupInput) (SignupResult, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return SignupResult{}, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return SignupResult{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        strings.ToLower(in.Email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	var result SignupResult
	_, err = s.store.Update(ctx, func(state *State) error {
		if state.Coupled() {
			return ErrSlotsFull
		}
		if emailTaken(state, user.Email) {
			return ErrEmailTaken
		}

		if in.InviteCode != "" {
			if state.User1 == nil {
				return ErrNoCoupleToJoin
			}
			if state.InviteCode != strings.ToUpper(in.InviteCode) {
				return ErrInvalidInvite
			}
			if state.User2 != nil {
				return ErrAlreadyPaired
			}
			now := time.Now().UTC()
			state.User2 = &user
			state.PairedAt = &now
			result = SignupResult{
				User:    user.Profile(),
				Coupled: true,
				Partner: profilePtr(state.User1),
			}
			return nil
		}

		if state.User1 != nil {
			return ErrFirstUserExists
		}
		invite, err := NewInviteCode()
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		state.User1 = &user
		state.InviteCode = invite
		state.StartDate = in.StartDate
		state.CreatedAt = &now
		result = SignupResult{User: user.Profile(), InviteCode: invite}
		return nil
	})
	if err != nil {
		return SignupResult{}, err
	}
	return result, nil
}

// LoginResult is the redacted login response. InviteCode is populated only
// while the couple is still waiting for its second user.
type LoginResult struct {
	User       Profile
	Coupled    bool
	Partner    *Profile
	InviteCode string
}

// Login verifies credentials against either slot.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if email == "" || password == "" {
		return LoginResult{}, ErrMissingFields
	}

	state, err := s.store.Load(ctx)
	if err != nil {
		return LoginResult{}, err
	}

	user := userByEmail(&state, strings.ToLower(email))
	if user == nil {
		return LoginResult{}, ErrNoSuchUser
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	result := LoginResult{
		User:    user.Profile(),
		Coupled: state.Coupled(),
		Partner: profilePtr(state.PartnerOf(user.ID)),
	}
	if !result.Coupled {
		result.InviteCode = state.InviteCode
	}
	return result, nil
}

// StatusResult describes the couple to any caller; the deployment itself is
// the trust boundary, so no authentication gates it.
type StatusResult struct {
	Coupled    bool
	InviteCode string
	User1      *Profile
	User2      *Profile
	PairedAt   *time.Time
	StartDate  string
}

// Status reports pairing progress and both public profiles.
func (s *Service) Status(ctx context.Context) (StatusResult, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return StatusResult{}, err
	}

	result := StatusResult{
		Coupled:   state.Coupled(),
		User1:     profilePtr(state.User1),
		User2:     profilePtr(state.User2),
		PairedAt:  state.PairedAt,
		StartDate: state.StartDate,
	}
	if !result.Coupled {
		result.InviteCode = state.InviteCode
	}
	return result, nil
}

// UpdateProfile edits the mutable user fields. Empty arguments leave the
// corresponding field unchanged.
func (s *Service) UpdateProfile(ctx context.Context, userID, name, profilePic string) (Profile, error) {
	if userID == "" {
		return Profile{}, ErrMissingFields
	}

	var updated Profile
	_, err := s.store.Update(ctx, func(state *State) error {
		user := state.UserByID(userID)
		if user == nil {
			return ErrNoSuchUser
		}
		if name != "" {
			user.Name = name
		}
		if profilePic != "" {
			user.ProfilePic = profilePic
		}
		updated = user.Profile()
		return nil
	})
	if err != nil {
		return Profile{}, err
	}
	return updated, nil
}

func emailTaken(state *State, email string) bool {
	return (state.User1 != nil && state.User1.Email == email) ||
		(state.User2 != nil && state.User2.Email == email)
}

func userByEmail(state *State, email string) *User {
	if state.User1 != nil && state.User1.Email == email {
		return state.User1
	}
	if state.User2 != nil && state.User2.Email == email {
		return state.User2
	}
	return nil
}

func profilePtr(u *User) *Profile {
	if u == nil {
		return nil
	}
	p := u.Profile()
	return &p
}
