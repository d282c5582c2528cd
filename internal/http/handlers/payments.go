package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"getmeachai/internal/domain"
	"getmeachai/internal/middleware"
	"getmeachai/internal/payments"
)

type payerInfo struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Amount  int64  `json:"amount"`
}

type initiateRequest struct {
	Amount   int64     `json:"amount"`
	Username string    `json:"username"`
	Payer    payerInfo `json:"payerInfo"`
}

type initiateResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// PaymentsInitiate mints a gateway order for a declared contribution.
func (a *App) PaymentsInitiate(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Payer.Name) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "username is required")
		return
	}

	ref, err := a.Payments.Initiate(r.Context(), payments.InitiateInput{
		Amount:            req.Amount,
		RecipientUsername: req.Username,
		PayerName:         req.Payer.Name,
		Message:           req.Payer.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAmountTooLow):
			a.error(w, http.StatusBadRequest, "bad_request", "amount below minimum")
		case errors.Is(err, domain.ErrPaymentsNotConfigured):
			a.error(w, http.StatusBadRequest, "bad_request", req.Username+" has not set up payment methods")
		case errors.Is(err, domain.ErrNotFound):
			a.error(w, http.StatusNotFound, "not_found", "creator not found")
		default:
			a.Logger.Error().Err(err).Str("username", req.Username).Msg("order initiation failed")
			a.error(w, http.StatusBadGateway, "gateway_error", "payment initiation failed")
		}
		return
	}

	a.json(w, http.StatusOK, initiateResponse{
		OrderID:  ref.OrderID,
		Amount:   ref.Amount,
		Currency: ref.Currency,
		KeyID:    ref.KeyID,
	})
}

// Callback field names follow the checkout widget's payload.
type verifyRequest struct {
	OrderID   string    `json:"razorpay_order_id"`
	PaymentID string    `json:"razorpay_payment_id"`
	Signature string    `json:"razorpay_signature"`
	Username  string    `json:"username"`
	Payer     payerInfo `json:"payerInfo"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// PaymentsVerify accepts the signed payment confirmation from the checkout
// widget and reconciles it into the ledger. Responses: 200 on verified
// success, 400 on a bad signature or bad input, 500 on a store fault (the
// client retries the identical triple; the write is idempotent).
func (a *App) PaymentsVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.json(w, http.StatusBadRequest, verifyResponse{Success: false, Message: "invalid payload"})
		return
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" || req.Username == "" {
		a.json(w, http.StatusBadRequest, verifyResponse{Success: false, Message: "missing payment fields"})
		return
	}

	contribution, err := a.Payments.VerifyAndRecord(r.Context(), payments.VerifyInput{
		OrderID:           req.OrderID,
		PaymentID:         req.PaymentID,
		Signature:         req.Signature,
		RecipientUsername: req.Username,
		PayerName:         req.Payer.Name,
		Message:           req.Payer.Message,
		Amount:            req.Payer.Amount,
		Country:           middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			// Detail is logged server-side; the client only learns that
			// verification failed.
			a.json(w, http.StatusBadRequest, verifyResponse{Success: false, Message: "payment verification failed"})
		case errors.Is(err, domain.ErrAmountTooLow):
			a.json(w, http.StatusBadRequest, verifyResponse{Success: false, Message: "invalid amount"})
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrPaymentsNotConfigured):
			a.json(w, http.StatusBadRequest, verifyResponse{Success: false, Message: "unknown recipient"})
		default:
			a.json(w, http.StatusInternalServerError, verifyResponse{Success: false, Message: "server error, please retry"})
		}
		return
	}

	a.json(w, http.StatusOK, verifyResponse{Success: true, Message: "payment confirmed for " + contribution.RecipientUsername})
}
