package couple

import "crypto/rand"

// Invite codes are short enough to read over the phone; the alphabet drops
// 0/O and 1/I so a code survives handwriting. Only one code is outstanding
// per deployment, so collisions are not a concern.
const (
	inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	inviteLength   = 6
)

// NewInviteCode generates a fresh 6-character invite code. The alphabet has
// 32 characters, so masking each random byte to 5 bits is bias-free.
func NewInviteCode() (string, error) {
	buf := make([]byte, inviteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = inviteAlphabet[b&31]
	}
	return string(buf), nil
}
