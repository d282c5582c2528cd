package handlers_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(newFakeAccounts(), newFakeLedger())

	rec := getPath(t, env.handler, "/v1/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
