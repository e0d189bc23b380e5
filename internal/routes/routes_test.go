package routes

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/loveloggy/loveloggy/internal/config"
	"github.com/loveloggy/loveloggy/internal/logging"
)

// newTestApp wires the full route table over the in-memory store.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	cfg := config.Config{AppName: "test", BcryptCost: 4}
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup routes: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, decoded
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, fiber.MethodGet, "/health", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body)
	}
}

func TestPairingFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)

	// First signup issues an invite code.
	status, body := doJSON(t, app, fiber.MethodPost, "/signup", map[string]string{
		"name": "Alice", "email": "alice@x.com", "password": "hunter22", "startDate": "2024-02-14",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("first signup: expected 201, got %d (%v)", status, body)
	}
	invite, _ := body["inviteCode"].(string)
	if len(invite) != 6 {
		t.Fatalf("expected 6-char invite code, got %q", invite)
	}
	alice, _ := body["user"].(map[string]any)
	if _, leaked := alice["passwordHash"]; leaked {
		t.Fatal("signup response leaked password hash")
	}

	// Status shows the code while awaiting the partner.
	status, body = doJSON(t, app, fiber.MethodGet, "/couple/status", nil)
	if status != fiber.StatusOK || body["coupled"] != false || body["inviteCode"] != invite {
		t.Fatalf("unexpected awaiting status: %d %v", status, body)
	}

	// Second signup joins with the code.
	status, body = doJSON(t, app, fiber.MethodPost, "/signup", map[string]string{
		"name": "Bob", "email": "bob@x.com", "password": "secret99", "inviteCode": invite,
	})
	if status != fiber.StatusCreated || body["coupled"] != true {
		t.Fatalf("join: expected 201 coupled, got %d %v", status, body)
	}
	bob, _ := body["user"].(map[string]any)
	bobID, _ := bob["id"].(string)
	aliceID, _ := alice["id"].(string)

	// Third signup rejected.
	status, body = doJSON(t, app, fiber.MethodPost, "/signup", map[string]string{
		"name": "Carol", "email": "carol@x.com", "password": "pw123456",
	})
	if status != fiber.StatusConflict || body["kind"] != "slots_full" {
		t.Fatalf("expected slots_full conflict, got %d %v", status, body)
	}

	// Key registration and partner lookup.
	status, _ = doJSON(t, app, fiber.MethodPost, "/keys/register", map[string]any{
		"userId": aliceID, "publicKey": map[string]string{"kty": "EC", "crv": "P-256", "x": "xx", "y": "yy"},
	})
	if status != fiber.StatusOK {
		t.Fatalf("register key: expected 200, got %d", status)
	}
	status, body = doJSON(t, app, fiber.MethodGet, "/keys/partner/"+bobID, nil)
	if status != fiber.StatusOK {
		t.Fatalf("partner key: expected 200, got %d %v", status, body)
	}
	key, _ := body["publicKey"].(map[string]any)
	if key["kty"] != "EC" {
		t.Fatalf("unexpected partner key: %v", body)
	}
	status, body = doJSON(t, app, fiber.MethodGet, "/keys/partner/"+aliceID, nil)
	if status != fiber.StatusNotFound || body["kind"] != "partner_key_not_found" {
		t.Fatalf("expected partner_key_not_found, got %d %v", status, body)
	}

	// Messages round trip in order.
	for _, ct := range []string{"ct-one", "ct-two"} {
		status, body = doJSON(t, app, fiber.MethodPost, "/messages", map[string]string{
			"senderId": aliceID, "senderName": "Alice", "ciphertext": ct, "iv": "aXY=",
		})
		if status != fiber.StatusOK {
			t.Fatalf("append %s: expected 200, got %d %v", ct, status, body)
		}
	}
	status, body = doJSON(t, app, fiber.MethodGet, "/messages", nil)
	if status != fiber.StatusOK {
		t.Fatalf("list messages: expected 200, got %d", status)
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["ciphertext"] != "ct-one" {
		t.Fatalf("order not preserved: %v", msgs)
	}

	// Login returns the partner once paired.
	status, body = doJSON(t, app, fiber.MethodPost, "/login", map[string]string{
		"email": "ALICE@x.com", "password": "hunter22",
	})
	if status != fiber.StatusOK || body["coupled"] != true {
		t.Fatalf("login: expected 200 coupled, got %d %v", status, body)
	}
	partner, _ := body["partner"].(map[string]any)
	if partner["name"] != "Bob" {
		t.Fatalf("expected partner Bob, got %v", body)
	}
	if _, present := body["inviteCode"]; present {
		t.Fatalf("invite code leaked after pairing: %v", body)
	}
}

func TestLoginErrorsOverHTTP(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, fiber.MethodPost, "/login", map[string]string{
		"email": "nobody@x.com", "password": "pw",
	})
	if status != fiber.StatusNotFound || body["kind"] != "no_such_user" {
		t.Fatalf("expected no_such_user, got %d %v", status, body)
	}

	if status, body = doJSON(t, app, fiber.MethodPost, "/signup", map[string]string{
		"name": "Alice", "email": "alice@x.com", "password": "right",
	}); status != fiber.StatusCreated {
		t.Fatalf("signup: %d %v", status, body)
	}

	status, body = doJSON(t, app, fiber.MethodPost, "/login", map[string]string{
		"email": "alice@x.com", "password": "wrong",
	})
	if status != fiber.StatusUnauthorized || body["kind"] != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials, got %d %v", status, body)
	}
}

func TestMessagesRejectedBeforePairing(t *testing.T) {
	app := newTestApp(t)

	if status, body := doJSON(t, app, fiber.MethodPost, "/signup", map[string]string{
		"name": "Alice", "email": "alice@x.com", "password": "pw",
	}); status != fiber.StatusCreated {
		t.Fatalf("signup: %d %v", status, body)
	}

	status, body := doJSON(t, app, fiber.MethodPost, "/messages", map[string]string{
		"senderId": "whoever", "ciphertext": "ct", "iv": "iv",
	})
	if status != fiber.StatusConflict || body["kind"] != "couple_incomplete" {
		t.Fatalf("expected couple_incomplete, got %d %v", status, body)
	}
}

func TestExportRedactsPasswordHashes(t *testing.T) {
	app := newTestApp(t)

	if status, body := doJSON(t, app, fiber.MethodPost, "/signup", map[string]string{
		"name": "Alice", "email": "alice@x.com", "password": "pw",
	}); status != fiber.StatusCreated {
		t.Fatalf("signup: %d %v", status, body)
	}

	status, body := doJSON(t, app, fiber.MethodGet, "/export", nil)
	if status != fiber.StatusOK {
		t.Fatalf("export: expected 200, got %d", status)
	}
	user1, _ := body["user1"].(map[string]any)
	if user1["name"] != "Alice" {
		t.Fatalf("unexpected export: %v", body)
	}
	if _, leaked := user1["passwordHash"]; leaked {
		t.Fatal("export leaked password hash")
	}
}
