// Package client is a typed HTTP client for the LoveLoggy API, used by the
// chat CLI and handy for smoke-testing a deployment.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/loveloggy/loveloggy/internal/couple"
	"github.com/loveloggy/loveloggy/internal/e2ee"
)

// Client talks to one deployment.
type Client struct {
	Base string
	HTTP *http.Client
}

// New builds a client for the given base URL.
func New(base string) *Client {
	return &Client{Base: base, HTTP: http.DefaultClient}
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Kind, e.Message)
}

// SignupRequest mirrors POST /signup.
type SignupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	InviteCode string `json:"inviteCode,omitempty"`
	StartDate  string `json:"startDate,omitempty"`
}

// SignupResponse mirrors the signup reply for both paths.
type SignupResponse struct {
	Success    bool            `json:"success"`
	User       couple.Profile  `json:"user"`
	Coupled    bool            `json:"coupled"`
	InviteCode string          `json:"inviteCode"`
	Partner    *couple.Profile `json:"partner"`
}

// Signup creates the first user or joins via invite code.
func (c *Client) Signup(req SignupRequest) (SignupResponse, error) {
	var out SignupResponse
	err := c.post("/signup", req, &out)
	return out, err
}

// LoginResponse mirrors the login reply.
type LoginResponse struct {
	Success    bool            `json:"success"`
	User       couple.Profile  `json:"user"`
	Coupled    bool            `json:"coupled"`
	Partner    *couple.Profile `json:"partner"`
	InviteCode string          `json:"inviteCode"`
}

// Login verifies credentials.
func (c *Client) Login(email, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.post("/login", map[string]string{"email": email, "password": password}, &out)
	return out, err
}

// StatusProfile is the minimal public view the status endpoint exposes.
type StatusProfile struct {
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic"`
}

// StatusResponse mirrors GET /couple/status.
type StatusResponse struct {
	Coupled    bool           `json:"coupled"`
	InviteCode string         `json:"inviteCode"`
	User1      *StatusProfile `json:"user1"`
	User2      *StatusProfile `json:"user2"`
	PairedAt   *time.Time     `json:"pairedAt"`
	StartDate  string         `json:"startDate"`
}

// Status reports pairing progress.
func (c *Client) Status() (StatusResponse, error) {
	var out StatusResponse
	err := c.get("/couple/status", &out)
	return out, err
}

// RegisterKey uploads a public key JWK for userID.
func (c *Client) RegisterKey(userID string, publicKey e2ee.JWK) error {
	body := struct {
		UserID    string   `json:"userId"`
		PublicKey e2ee.JWK `json:"publicKey"`
	}{UserID: userID, PublicKey: publicKey}
	return c.post("/keys/register", body, nil)
}

// PartnerKey fetches the other user's public key JWK.
func (c *Client) PartnerKey(userID string) (e2ee.JWK, error) {
	var out struct {
		PublicKey e2ee.JWK `json:"publicKey"`
	}
	err := c.get("/keys/partner/"+url.PathEscape(userID), &out)
	return out.PublicKey, err
}

// SendMessage appends one sealed message.
func (c *Client) SendMessage(senderID, senderName string, env e2ee.Envelope) error {
	body := struct {
		SenderID   string `json:"senderId"`
		SenderName string `json:"senderName,omitempty"`
		Ciphertext string `json:"ciphertext"`
		IV         string `json:"iv"`
	}{SenderID: senderID, SenderName: senderName, Ciphertext: env.Ciphertext, IV: env.IV}
	return c.post("/messages", body, nil)
}

// Messages fetches the full ordered history.
func (c *Client) Messages() ([]couple.Message, error) {
	var out struct {
		Messages []couple.Message `json:"messages"`
	}
	err := c.get("/messages", &out)
	return out.Messages, err
}

func (c *Client) post(path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Post(c.Base+path, "application/json", bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func (c *Client) get(path string, out any) error {
	resp, err := c.HTTP.Get(c.Base + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func decode(resp *http.Response, out any) error {
	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
			Kind  string `json:"kind"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Kind: apiErr.Kind, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
