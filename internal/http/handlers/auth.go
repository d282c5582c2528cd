package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"getmeachai/internal/domain"
	"getmeachai/internal/middleware"
)

const (
	stateCookieName = "oauth_state"
	stateCookieTTL  = 10 * time.Minute
	sessionTTL      = 24 * time.Hour
)

type sessionResponse struct {
	Token string     `json:"token"`
	User  accountDTO `json:"user"`
}

// AuthLogin starts the authorization-code flow for the named provider.
func (a *App) AuthLogin(w http.ResponseWriter, r *http.Request) {
	provider, ok := a.OAuth[chi.URLParam(r, "provider")]
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported provider")
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.AppEnv != "development",
	})

	http.Redirect(w, r, provider.Config.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// AuthCallback completes the code flow: state check, code exchange, userinfo
// fetch, account resolution, session issue.
func (a *App) AuthCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := a.OAuth[chi.URLParam(r, "provider")]
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported provider")
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		a.error(w, http.StatusBadRequest, "bad_request", "state mismatch")
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "code required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := provider.Config.Exchange(ctx, code)
	if err != nil {
		a.Logger.Error().Err(err).Str("provider", provider.Name).Msg("oauth code exchange failed")
		a.error(w, http.StatusUnauthorized, "unauthorized", "login failed")
		return
	}

	id, err := provider.FetchIdentity(ctx, oauth2.NewClient(ctx, oauth2.StaticTokenSource(token)))
	if err != nil {
		a.Logger.Error().Err(err).Str("provider", provider.Name).Msg("userinfo fetch failed")
		a.error(w, http.StatusUnauthorized, "unauthorized", "login failed")
		return
	}

	account, err := a.Identity.ResolveOrCreate(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrMissingEmail) {
			a.error(w, http.StatusBadRequest, "bad_request", "email required for authentication")
			return
		}
		a.Logger.Error().Err(err).Str("provider", provider.Name).Msg("account resolution failed")
		a.error(w, http.StatusInternalServerError, "internal", "login failed")
		return
	}

	// When the store was down during resolution the account has no ID yet;
	// the session then carries the email so later requests can find the row
	// once it exists.
	subject := account.ID
	if subject == "" {
		subject = pendingSubjectPrefix + account.Email
	}
	session, err := middleware.SignSession(a.Config.JWTSecret, subject, account.Username, sessionTTL)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign session failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}

	a.json(w, http.StatusOK, sessionResponse{Token: session, User: toAccountDTO(account, true)})
}
