// Package payments implements order initiation against the payment gateway
// and the verify-and-record flow that reconciles signed gateway callbacks
// into the contribution ledger exactly once.
package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"getmeachai/internal/domain"
	"getmeachai/internal/providers/razorpay"
)

// OrderCreator is the slice of the gateway client the service needs.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
}

// GatewayFactory builds a gateway client for one credential pair.
type GatewayFactory func(keyID, keySecret string) (OrderCreator, error)

// Options configures the payments service.
type Options struct {
	Accounts      domain.AccountRepository
	Contributions domain.ContributionRepository
	Logger        zerolog.Logger

	MinAmount int64
	Currency  string

	// Platform fallback credentials for creators without their own pair.
	PlatformKeyID     string
	PlatformKeySecret string

	GatewayBaseURL string
	Gateway        GatewayFactory

	// WriteTimeout bounds the ledger write so a slow store cannot hang a
	// payment confirmation. A timed-out write is indeterminate, not failed:
	// the idempotency constraint makes retrying the same triple safe.
	WriteTimeout time.Duration
}

// Service coordinates the gateway and the ledger.
type Service struct {
	accounts      domain.AccountRepository
	contributions domain.ContributionRepository
	logger        zerolog.Logger

	minAmount         int64
	currency          string
	platformKeyID     string
	platformKeySecret string
	gateway           GatewayFactory
	writeTimeout      time.Duration
}

// NewService constructs the service, defaulting the gateway factory to the
// real Razorpay client.
func NewService(opts Options) *Service {
	gateway := opts.Gateway
	if gateway == nil {
		baseURL := opts.GatewayBaseURL
		logger := opts.Logger
		gateway = func(keyID, keySecret string) (OrderCreator, error) {
			return razorpay.NewClient(razorpay.Options{
				KeyID:     keyID,
				KeySecret: keySecret,
				BaseURL:   baseURL,
				Logger:    &logger,
			})
		}
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	minAmount := opts.MinAmount
	if minAmount <= 0 {
		minAmount = 100
	}
	currency := opts.Currency
	if currency == "" {
		currency = "PKR"
	}
	return &Service{
		accounts:          opts.Accounts,
		contributions:     opts.Contributions,
		logger:            opts.Logger,
		minAmount:         minAmount,
		currency:          currency,
		platformKeyID:     opts.PlatformKeyID,
		platformKeySecret: opts.PlatformKeySecret,
		gateway:           gateway,
		writeTimeout:      writeTimeout,
	}
}

// InitiateInput is a supporter's declared intent to pay a creator.
type InitiateInput struct {
	Amount            int64
	RecipientUsername string
	PayerName         string
	Message           string
}

// OrderRef is what the checkout widget needs to drive the gateway UI.
type OrderRef struct {
	OrderID  string
	Amount   int64
	Currency string
	KeyID    string
}

// Initiate validates the intent and mints a gateway order with the
// recipient's credentials. Nothing is persisted locally; validation failures
// happen before any network call.
func (s *Service) Initiate(ctx context.Context, in InitiateInput) (*OrderRef, error) {
	if in.Amount < s.minAmount {
		return nil, fmt.Errorf("%w: got %d, minimum %d", domain.ErrAmountTooLow, in.Amount, s.minAmount)
	}

	recipient, err := s.accounts.GetByUsername(ctx, in.RecipientUsername)
	if err != nil {
		return nil, err
	}
	keyID, keySecret, err := s.credentialsFor(recipient)
	if err != nil {
		return nil, err
	}

	client, err := s.gateway(keyID, keySecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayFailure, err)
	}
	order, err := client.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   in.Amount,
		Currency: s.currency,
		Receipt:  "chai_" + uuid.NewString(),
		Notes: map[string]string{
			"recipient": in.RecipientUsername,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayFailure, err)
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("recipient", in.RecipientUsername).
		Int64("amount", in.Amount).
		Msg("payment order created")

	return &OrderRef{
		OrderID:  order.ID,
		Amount:   in.Amount,
		Currency: s.currency,
		KeyID:    keyID,
	}, nil
}

// VerifyInput is the client-supplied payment confirmation. Every field except
// the signature triple is untrusted display data.
type VerifyInput struct {
	OrderID           string
	PaymentID         string
	Signature         string
	RecipientUsername string
	PayerName         string
	Message           string
	Amount            int64
	Country           string
}

// VerifyAndRecord checks that the confirmation was signed by the gateway
// holding the recipient's secret and, only then, records the contribution
// idempotently. The signature check is the sole trust boundary between the
// attacker-controlled client and the ledger.
func (s *Service) VerifyAndRecord(ctx context.Context, in VerifyInput) (*domain.Contribution, error) {
	recipient, err := s.accounts.GetByUsername(ctx, in.RecipientUsername)
	if err != nil {
		return nil, err
	}
	_, keySecret, err := s.credentialsFor(recipient)
	if err != nil {
		return nil, err
	}

	if !razorpay.VerifyPaymentSignature(in.OrderID, in.PaymentID, in.Signature, keySecret) {
		s.logger.Warn().
			Str("order_id", in.OrderID).
			Str("payment_id", in.PaymentID).
			Str("recipient", in.RecipientUsername).
			Msg("payment signature rejected")
		return nil, domain.ErrInvalidSignature
	}

	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrAmountTooLow, in.Amount)
	}

	contribution := &domain.Contribution{
		RecipientUsername: in.RecipientUsername,
		PayerName:         in.PayerName,
		Message:           in.Message,
		Amount:            in.Amount,
		Currency:          s.currency,
		OrderID:           in.OrderID,
		PaymentID:         in.PaymentID,
		Country:           in.Country,
	}

	writeCtx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	recorded, err := s.contributions.InsertIfAbsent(writeCtx, contribution)
	if err != nil {
		// The payment is real but unrecorded. This must surface as a
		// retryable server fault, never as a verification failure.
		s.logger.Error().Err(err).
			Str("order_id", in.OrderID).
			Str("payment_id", in.PaymentID).
			Msg("ledger write failed after valid signature")
		return nil, fmt.Errorf("%w: record contribution: %v", domain.ErrStoreUnavailable, err)
	}

	s.logger.Info().
		Str("payment_id", recorded.PaymentID).
		Str("recipient", recorded.RecipientUsername).
		Int64("amount", recorded.Amount).
		Msg("contribution recorded")
	return recorded, nil
}

// credentialsFor resolves the gateway credential pair for a recipient:
// account credentials win, platform credentials are the fallback.
func (s *Service) credentialsFor(recipient *domain.Account) (string, string, error) {
	if recipient.PaymentsEnabled() {
		return recipient.RazorpayKeyID, recipient.RazorpayKeySecret, nil
	}
	if s.platformKeyID != "" && s.platformKeySecret != "" {
		return s.platformKeyID, s.platformKeySecret, nil
	}
	return "", "", domain.ErrPaymentsNotConfigured
}
