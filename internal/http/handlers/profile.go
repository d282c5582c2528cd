package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"getmeachai/internal/domain"
	"getmeachai/internal/middleware"
)

// Session subjects for accounts that could not be persisted during login
// carry the email instead of a row id.
const pendingSubjectPrefix = "pending:"

type accountDTO struct {
	ID                 string `json:"id"`
	Email              string `json:"email,omitempty"`
	Name               string `json:"name"`
	Username           string `json:"username"`
	AvatarURL          string `json:"avatar_url"`
	CoverURL           string `json:"cover_url"`
	Project            string `json:"project"`
	ProjectLink        string `json:"project_link"`
	ProjectDescription string `json:"project_description"`
	RazorpayKeyID      string `json:"razorpay_key_id,omitempty"`
	PaymentsEnabled    bool   `json:"payments_enabled"`
	Provider           string `json:"provider,omitempty"`
}

// toAccountDTO maps an account for API responses. The gateway secret is never
// echoed back, not even to the owner.
func toAccountDTO(a *domain.Account, owner bool) accountDTO {
	dto := accountDTO{
		ID:                 a.ID,
		Name:               a.Name,
		Username:           a.Username,
		AvatarURL:          a.AvatarURL,
		CoverURL:           a.CoverURL,
		Project:            a.Project,
		ProjectLink:        a.ProjectLink,
		ProjectDescription: a.ProjectDescription,
		PaymentsEnabled:    a.PaymentsEnabled(),
	}
	if owner {
		dto.Email = a.Email
		dto.Provider = a.Provider
		dto.RazorpayKeyID = a.RazorpayKeyID
	}
	return dto
}

func (a *App) currentAccount(ctx context.Context) (*domain.Account, error) {
	subject := middleware.AccountIDFromContext(ctx)
	if subject == "" {
		return nil, domain.ErrNotFound
	}
	if email, ok := strings.CutPrefix(subject, pendingSubjectPrefix); ok {
		return a.Accounts.GetByEmail(ctx, email)
	}
	return a.Accounts.GetByID(ctx, subject)
}

// Me returns the authenticated account's own profile.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	account, err := a.currentAccount(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "account not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load account failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load account")
		return
	}
	a.json(w, http.StatusOK, toAccountDTO(account, true))
}

type profileUpdateRequest struct {
	Name               string `json:"name"`
	Username           string `json:"username"`
	AvatarURL          string `json:"avatar_url"`
	CoverURL           string `json:"cover_url"`
	Project            string `json:"project"`
	ProjectLink        string `json:"project_link"`
	ProjectDescription string `json:"project_description"`
	RazorpayKeyID      string `json:"razorpay_key_id"`
	RazorpayKeySecret  string `json:"razorpay_key_secret"`
}

// UpdateMe applies owner profile edits, including the gateway credential
// pair. Half a pair is rejected so a creator cannot end up with payments
// that can be initiated but never verified.
func (a *App) UpdateMe(w http.ResponseWriter, r *http.Request) {
	account, err := a.currentAccount(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "account not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load account failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load account")
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	if req.Name == "" || req.Username == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name and username are required")
		return
	}
	if (req.RazorpayKeyID == "") != (req.RazorpayKeySecret == "") {
		a.error(w, http.StatusBadRequest, "bad_request", "gateway key id and secret must be set together")
		return
	}

	updated, err := a.Accounts.UpdateProfile(r.Context(), account.ID, domain.ProfileUpdate{
		Name:               req.Name,
		Username:           req.Username,
		AvatarURL:          strings.TrimSpace(req.AvatarURL),
		CoverURL:           strings.TrimSpace(req.CoverURL),
		Project:            req.Project,
		ProjectLink:        strings.TrimSpace(req.ProjectLink),
		ProjectDescription: req.ProjectDescription,
		RazorpayKeyID:      strings.TrimSpace(req.RazorpayKeyID),
		RazorpayKeySecret:  strings.TrimSpace(req.RazorpayKeySecret),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			a.error(w, http.StatusConflict, "conflict", "username already taken")
			return
		}
		a.Logger.Error().Err(err).Str("account_id", account.ID).Msg("profile update failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update profile")
		return
	}
	a.json(w, http.StatusOK, toAccountDTO(updated, true))
}
