// Package e2ee is the client-side encryption engine: ECDH key agreement on
// P-256 with JWK public key interchange, and AES-256-GCM sealing of
// message payloads. The curve, key format and cipher match what a browser
// WebCrypto client produces, so either end of the couple can run either
// implementation. Private keys never leave the process that generated them.
package e2ee

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
)

const (
	// NonceSize is the AES-GCM nonce length in bytes (96 bits). A fresh
	// random nonce per Seal is the load-bearing invariant of the scheme:
	// a repeated (key, nonce) pair breaks GCM entirely.
	NonceSize = 12

	// KeySize is the derived symmetric key length (AES-256).
	KeySize = 32
)

var (
	// ErrAuthenticationFailure means the ciphertext was tampered with or
	// sealed under a different key/nonce. Decryption never degrades this
	// to returning garbage plaintext.
	ErrAuthenticationFailure = errors.New("message authentication failed")

	// ErrInvalidPublicKey covers any malformed JWK on import: wrong key
	// type, wrong curve, bad coordinate encoding, or a point off the curve.
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// GenerateKeyPair produces a fresh P-256 key pair for key agreement.
func GenerateKeyPair() (*ecdh.PrivateKey, error) {
	return ecdh.P256().GenerateKey(rand.Reader)
}

// JWK is the transmittable form of a P-256 public key: the four fields a
// WebCrypto export carries, coordinates base64url-encoded without padding.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

// ExportPublicKey serializes a public key to its JWK form.
func ExportPublicKey(pub *ecdh.PublicKey) (JWK, error) {
	raw := pub.Bytes()
	if len(raw) != 65 || raw[0] != 4 {
		return JWK{}, ErrInvalidPublicKey
	}
	return JWK{
		Kty: "EC",
		Crv: "P-256",
		X:   base64.RawURLEncoding.EncodeToString(raw[1:33]),
		Y:   base64.RawURLEncoding.EncodeToString(raw[33:65]),
	}, nil
}

// ImportPublicKey parses a JWK back into a public key, rejecting anything
// that is not a well-formed point on P-256.
func ImportPublicKey(k JWK) (*ecdh.PublicKey, error) {
	if k.Kty != "EC" || k.Crv != "P-256" {
		return nil, ErrInvalidPublicKey
	}
	x, err := base64.RawURLEncoding.DecodeString(k.X)
	if err != nil || len(x) != 32 {
		return nil, ErrInvalidPublicKey
	}
	y, err := base64.RawURLEncoding.DecodeString(k.Y)
	if err != nil || len(y) != 32 {
		return nil, ErrInvalidPublicKey
	}

	point := make([]byte, 0, 65)
	point = append(point, 4)
	point = append(point, x...)
	point = append(point, y...)

	pub, err := ecdh.P256().NewPublicKey(point)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}
	return pub, nil
}

// DeriveSharedKey runs ECDH between the local private key and the
// partner's public key. Both sides compute the same 256-bit key
// independently; it is never transmitted.
func DeriveSharedKey(priv *ecdh.PrivateKey, partnerPub *ecdh.PublicKey) ([]byte, error) {
	secret, err := priv.ECDH(partnerPub)
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// Encrypt seals plaintext under key with a fresh random nonce. The
// returned nonce must travel alongside the ciphertext.
func Encrypt(key, plaintext []byte) (ciphertext, nonce []byte, err error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}
	return aead.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Decrypt opens ciphertext. Any tampering, key mismatch or malformed
// nonce fails hard with ErrAuthenticationFailure.
func Decrypt(key, ciphertext, nonce []byte) ([]byte, error) {
	// GCM panics on a wrong-length nonce; stored messages are untrusted
	// input, so reject it as an authentication failure instead.
	if len(nonce) != NonceSize {
		return nil, ErrAuthenticationFailure
	}
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailure
	}
	return plaintext, nil
}

// Envelope is a sealed payload in wire form: standard base64, matching
// what the server stores and the browser client emits.
type Envelope struct {
	Ciphertext string
	IV         string
}

// SealPayload JSON-serializes payload and seals it.
func SealPayload(key []byte, payload any) (Envelope, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	ciphertext, nonce, err := Encrypt(key, plaintext)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		IV:         base64.StdEncoding.EncodeToString(nonce),
	}, nil
}

// OpenPayload opens a sealed envelope and parses the plaintext as JSON,
// falling back to the raw text when it is not structured.
func OpenPayload(key []byte, env Envelope) (any, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, ErrAuthenticationFailure
	}
	nonce, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil {
		return nil, ErrAuthenticationFailure
	}
	plaintext, err := Decrypt(key, ciphertext, nonce)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(plaintext, &v); err != nil {
		return string(plaintext), nil
	}
	return v, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
