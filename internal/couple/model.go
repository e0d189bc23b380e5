package couple

import (
	"encoding/json"
	"time"
)

// User is one half of the couple. The id and email are immutable once set;
// name and profile picture can be edited from the client.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"passwordHash"`
	ProfilePic   string    `json:"profilePic,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is the redacted view of a User safe to return to clients.
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic,omitempty"`
}

// Profile strips the password hash.
func (u User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, ProfilePic: u.ProfilePic}
}

// KeyRecord holds one user's registered public key. The key material is
// opaque to the server; malformed keys surface as decryption failures on
// the client, never here.
type KeyRecord struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	PublicKeyJWK json.RawMessage `json:"publicKeyJwk"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Message is one sealed chat entry. Ciphertext and IV are opaque base64
// blobs produced by the client-side encryption engine.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Ciphertext string    `json:"ciphertext"`
	IV         string    `json:"iv"`
	CreatedAt  time.Time `json:"createdAt"`
}

// State is the whole persisted document for the one couple a deployment
// hosts. It is always read and written wholesale.
type State struct {
	User1      *User       `json:"user1"`
	User2      *User       `json:"user2"`
	Messages   []Message   `json:"messages"`
	Keys       []KeyRecord `json:"keys"`
	InviteCode string      `json:"inviteCode,omitempty"`
	PairedAt   *time.Time  `json:"pairedAt,omitempty"`
	StartDate  string      `json:"startDate,omitempty"`
	CreatedAt  *time.Time  `json:"createdAt,omitempty"`
}

// Coupled reports whether both slots are filled.
func (s *State) Coupled() bool {
	return s.User1 != nil && s.User2 != nil
}

// UserByID returns the slot matching id, or nil.
func (s *State) UserByID(id string) *User {
	if s.User1 != nil && s.User1.ID == id {
		return s.User1
	}
	if s.User2 != nil && s.User2.ID == id {
		return s.User2
	}
	return nil
}

// PartnerOf returns the other slot's user, or nil when id matches neither
// slot or the partner slot is empty.
func (s *State) PartnerOf(id string) *User {
	if s.User1 != nil && s.User1.ID == id {
		return s.User2
	}
	if s.User2 != nil && s.User2.ID == id {
		return s.User1
	}
	return nil
}

// Clone deep-copies the state so callers can hand out snapshots without
// aliasing store internals.
func (s State) Clone() State {
	out := s
	if s.User1 != nil {
		u := *s.User1
		u.PasswordHash = append([]byte(nil), s.User1.PasswordHash...)
		out.User1 = &u
	}
	if s.User2 != nil {
		u := *s.User2
		u.PasswordHash = append([]byte(nil), s.User2.PasswordHash...)
		out.User2 = &u
	}
	if s.PairedAt != nil {
		t := *s.PairedAt
		out.PairedAt = &t
	}
	if s.CreatedAt != nil {
		t := *s.CreatedAt
		out.CreatedAt = &t
	}
	if s.Messages != nil {
		out.Messages = append([]Message(nil), s.Messages...)
	}
	if s.Keys != nil {
		out.Keys = make([]KeyRecord, len(s.Keys))
		for i, k := range s.Keys {
			k.PublicKeyJWK = append(json.RawMessage(nil), k.PublicKeyJWK...)
			out.Keys[i] = k
		}
	}
	return out
}
