package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"getmeachai/internal/domain"
)

const (
	defaultPaymentsLimit = 10
	maxPaymentsLimit     = 50
)

// CreatorProfile returns the public view of a creator page.
func (a *App) CreatorProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	account, err := a.Accounts.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "creator not found")
			return
		}
		a.Logger.Error().Err(err).Str("username", username).Msg("load creator failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load creator")
		return
	}
	a.json(w, http.StatusOK, toAccountDTO(account, false))
}

type contributionDTO struct {
	PayerName string    `json:"payer_name"`
	Message   string    `json:"message,omitempty"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type creatorPaymentsResponse struct {
	Items       []contributionDTO `json:"items"`
	TotalRaised int64             `json:"total_raised"`
}

// CreatorPayments lists a creator's recent contributions with the total
// raised. Gateway ids stay server-side.
func (a *App) CreatorPayments(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if _, err := a.Accounts.GetByUsername(r.Context(), username); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "creator not found")
			return
		}
		a.Logger.Error().Err(err).Str("username", username).Msg("load creator failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load creator")
		return
	}

	limit := defaultPaymentsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPaymentsLimit {
		limit = maxPaymentsLimit
	}

	items, err := a.Contributions.ListByRecipient(r.Context(), username, limit)
	if err != nil {
		a.Logger.Error().Err(err).Str("username", username).Msg("list contributions failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load payments")
		return
	}
	total, err := a.Contributions.SumByRecipient(r.Context(), username)
	if err != nil {
		a.Logger.Error().Err(err).Str("username", username).Msg("sum contributions failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load payments")
		return
	}

	resp := creatorPaymentsResponse{Items: make([]contributionDTO, 0, len(items)), TotalRaised: total}
	for _, c := range items {
		resp.Items = append(resp.Items, contributionDTO{
			PayerName: c.PayerName,
			Message:   c.Message,
			Amount:    c.Amount,
			Currency:  c.Currency,
			Country:   c.Country,
			CreatedAt: c.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, resp)
}
