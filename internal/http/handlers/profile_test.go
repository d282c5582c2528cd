package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"getmeachai/internal/domain"
	"getmeachai/internal/middleware"
)

func authedRequest(t *testing.T, env *testEnv, method, path string, body any, account *domain.Account) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	token, err := middleware.SignSession(env.config.JWTSecret, account.ID, account.Username, time.Hour)
	if err != nil {
		t.Fatalf("sign session: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func TestMeReturnsOwnerFields(t *testing.T) {
	alice := creatorAlice()
	env := newTestEnv(newFakeAccounts(alice), newFakeLedger())

	rec := authedRequest(t, env, http.MethodGet, "/api/me", nil, alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var dto map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto["email"] != "alice@example.com" {
		t.Fatalf("email = %v, want owner email", dto["email"])
	}
	if dto["razorpay_key_id"] != "rzp_test_alice" {
		t.Fatalf("razorpay_key_id = %v", dto["razorpay_key_id"])
	}
	if dto["payments_enabled"] != true {
		t.Fatalf("payments_enabled = %v", dto["payments_enabled"])
	}
	if strings.Contains(rec.Body.String(), testSecret) {
		t.Fatal("gateway secret leaked into the owner view")
	}
}

func TestMeRequiresSession(t *testing.T) {
	env := newTestEnv(newFakeAccounts(creatorAlice()), newFakeLedger())

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestUpdateMe(t *testing.T) {
	alice := creatorAlice()
	env := newTestEnv(newFakeAccounts(alice), newFakeLedger())

	rec := authedRequest(t, env, http.MethodPut, "/api/me", map[string]any{
		"name":                "Alice B",
		"username":            "alice",
		"project":             "Monospace fonts",
		"razorpay_key_id":     "rzp_test_new",
		"razorpay_key_secret": "new-secret",
	}, alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if env.accounts.lastProfile.RazorpayKeySecret != "new-secret" {
		t.Fatalf("stored secret = %q", env.accounts.lastProfile.RazorpayKeySecret)
	}
	if strings.Contains(rec.Body.String(), "new-secret") {
		t.Fatal("gateway secret echoed back in the response")
	}
}

func TestUpdateMeRejectsHalfCredentialPair(t *testing.T) {
	alice := creatorAlice()
	env := newTestEnv(newFakeAccounts(alice), newFakeLedger())

	rec := authedRequest(t, env, http.MethodPut, "/api/me", map[string]any{
		"name":            "Alice",
		"username":        "alice",
		"razorpay_key_id": "rzp_only_the_key",
	}, alice)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestUpdateMeUsernameTaken(t *testing.T) {
	alice := creatorAlice()
	env := newTestEnv(newFakeAccounts(alice), newFakeLedger())
	env.accounts.updateErr = domain.ErrUsernameTaken

	rec := authedRequest(t, env, http.MethodPut, "/api/me", map[string]any{
		"name":     "Alice",
		"username": "bob",
	}, alice)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestUpdateMeRequiresNameAndUsername(t *testing.T) {
	alice := creatorAlice()
	env := newTestEnv(newFakeAccounts(alice), newFakeLedger())

	rec := authedRequest(t, env, http.MethodPut, "/api/me", map[string]any{
		"name": "  ",
	}, alice)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
