package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"getmeachai/internal/domain"
	"getmeachai/internal/identity"
	"getmeachai/internal/infra"
	"getmeachai/internal/payments"
)

// App is the handler container. Everything it needs is injected at startup;
// there is no hidden global state.
type App struct {
	Logger        zerolog.Logger
	Config        *infra.Config
	Accounts      domain.AccountRepository
	Contributions domain.ContributionRepository
	Payments      *payments.Service
	Identity      *identity.Resolver
	OAuth         map[string]*OAuthProvider
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"code": errCode, "message": message})
}
