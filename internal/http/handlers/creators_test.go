package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"getmeachai/internal/domain"
)

func getPath(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCreatorProfileIsPublicView(t *testing.T) {
	env := newTestEnv(newFakeAccounts(creatorAlice()), newFakeLedger())

	rec := getPath(t, env.handler, "/api/users/alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var dto map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto["username"] != "alice" || dto["project"] != "Open source fonts" {
		t.Fatalf("unexpected profile: %v", dto)
	}
	if dto["payments_enabled"] != true {
		t.Fatalf("payments_enabled = %v", dto["payments_enabled"])
	}
	if _, ok := dto["email"]; ok {
		t.Fatal("public view must not expose the creator's email")
	}
	if strings.Contains(rec.Body.String(), "rzp_test_alice") || strings.Contains(rec.Body.String(), testSecret) {
		t.Fatal("public view must not expose gateway credentials")
	}
}

func TestCreatorProfileNotFound(t *testing.T) {
	env := newTestEnv(newFakeAccounts(creatorAlice()), newFakeLedger())

	rec := getPath(t, env.handler, "/api/users/ghost")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCreatorPayments(t *testing.T) {
	ledger := newFakeLedger()
	now := time.Now()
	for i := 0; i < 15; i++ {
		ledger.recent = append(ledger.recent, domain.Contribution{
			RecipientUsername: "alice",
			PayerName:         "Sam",
			Message:           "thanks",
			Amount:            500,
			Currency:          "PKR",
			Country:           "PK",
			CreatedAt:         now,
		})
	}
	ledger.total = 7500
	env := newTestEnv(newFakeAccounts(creatorAlice()), ledger)

	rec := getPath(t, env.handler, "/api/users/alice/payments")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Items []struct {
			PayerName string `json:"payer_name"`
			Amount    int64  `json:"amount"`
			Country   string `json:"country"`
		} `json:"items"`
		TotalRaised int64 `json:"total_raised"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 10 {
		t.Fatalf("items = %d, want default limit 10", len(resp.Items))
	}
	if resp.TotalRaised != 7500 {
		t.Fatalf("total_raised = %d", resp.TotalRaised)
	}
	if resp.Items[0].PayerName != "Sam" || resp.Items[0].Country != "PK" {
		t.Fatalf("unexpected item: %+v", resp.Items[0])
	}
}

func TestCreatorPaymentsLimitClamp(t *testing.T) {
	ledger := newFakeLedger()
	for i := 0; i < 60; i++ {
		ledger.recent = append(ledger.recent, domain.Contribution{RecipientUsername: "alice", PayerName: "Sam", Amount: 100, Currency: "PKR"})
	}
	env := newTestEnv(newFakeAccounts(creatorAlice()), ledger)

	rec := getPath(t, env.handler, "/api/users/alice/payments?limit=500")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 50 {
		t.Fatalf("items = %d, want clamp to 50", len(resp.Items))
	}
}

func TestCreatorPaymentsUnknownCreator(t *testing.T) {
	env := newTestEnv(newFakeAccounts(creatorAlice()), newFakeLedger())

	rec := getPath(t, env.handler, "/api/users/ghost/payments")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
