package commands

import (
	"crypto/ecdh"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loveloggy/loveloggy/internal/e2ee"
)

const keyringFile = "keyring.json"

// keyring is the local identity: who we are on this deployment and the
// private half of our key pair. It never leaves this machine.
type keyring struct {
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	PrivateKey string `json:"privateKey"`
}

func saveKeyring(userID, name, email string, priv *ecdh.PrivateKey) error {
	kr := keyring{
		UserID:     userID,
		Name:       name,
		Email:      email,
		PrivateKey: base64.StdEncoding.EncodeToString(priv.Bytes()),
	}
	data, err := json.MarshalIndent(kr, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(home, keyringFile), data, 0o600)
}

func loadKeyring() (keyring, *ecdh.PrivateKey, error) {
	data, err := os.ReadFile(filepath.Join(home, keyringFile))
	if err != nil {
		return keyring{}, nil, fmt.Errorf("no local identity, run signup first: %w", err)
	}
	var kr keyring
	if err := json.Unmarshal(data, &kr); err != nil {
		return keyring{}, nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(kr.PrivateKey)
	if err != nil {
		return keyring{}, nil, err
	}
	priv, err := ecdh.P256().NewPrivateKey(raw)
	if err != nil {
		return keyring{}, nil, err
	}
	return kr, priv, nil
}

// sharedKey derives the symmetric key from the local private key and the
// partner's registered public key.
func sharedKey(kr keyring, priv *ecdh.PrivateKey) ([]byte, error) {
	jwk, err := api.PartnerKey(kr.UserID)
	if err != nil {
		return nil, err
	}
	partnerPub, err := e2ee.ImportPublicKey(jwk)
	if err != nil {
		return nil, err
	}
	return e2ee.DeriveSharedKey(priv, partnerPub)
}
