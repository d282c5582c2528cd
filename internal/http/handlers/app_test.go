package handlers_test

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"getmeachai/internal/domain"
	"getmeachai/internal/http/handlers"
	"getmeachai/internal/http/httpapi"
	"getmeachai/internal/identity"
	"getmeachai/internal/infra"
	"getmeachai/internal/payments"
	"getmeachai/internal/providers/razorpay"
)

const testSecret = "test-gateway-secret"

type fakeAccounts struct {
	accounts    map[string]*domain.Account
	updateErr   error
	lastProfile domain.ProfileUpdate
}

func newFakeAccounts(accounts ...*domain.Account) *fakeAccounts {
	f := &fakeAccounts{accounts: map[string]*domain.Account{}}
	for _, a := range accounts {
		f.accounts[a.Username] = a
	}
	return f
}

func (f *fakeAccounts) UpsertOnLogin(_ context.Context, a *domain.Account) (*domain.Account, error) {
	stored := *a
	stored.ID = "acct-" + a.Username
	f.accounts[a.Username] = &stored
	return &stored, nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	for _, a := range f.accounts {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	if a, ok := f.accounts[username]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, accountID string, update domain.ProfileUpdate) (*domain.Account, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.lastProfile = update
	for _, a := range f.accounts {
		if a.ID == accountID {
			a.Name = update.Name
			a.Username = update.Username
			a.RazorpayKeyID = update.RazorpayKeyID
			a.RazorpayKeySecret = update.RazorpayKeySecret
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeLedger struct {
	byPaymentID map[string]*domain.Contribution
	recent      []domain.Contribution
	total       int64
	inserts     int
	failWith    error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{byPaymentID: map[string]*domain.Contribution{}}
}

func (f *fakeLedger) InsertIfAbsent(_ context.Context, c *domain.Contribution) (*domain.Contribution, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if existing, ok := f.byPaymentID[c.PaymentID]; ok {
		return existing, nil
	}
	f.inserts++
	stored := *c
	stored.ID = "contrib-1"
	stored.CreatedAt = time.Now()
	f.byPaymentID[c.PaymentID] = &stored
	return &stored, nil
}

func (f *fakeLedger) GetByPaymentID(_ context.Context, paymentID string) (*domain.Contribution, error) {
	if c, ok := f.byPaymentID[paymentID]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLedger) ListByRecipient(_ context.Context, _ string, limit int) ([]domain.Contribution, error) {
	if limit > len(f.recent) {
		limit = len(f.recent)
	}
	return f.recent[:limit], nil
}

func (f *fakeLedger) SumByRecipient(context.Context, string) (int64, error) {
	return f.total, nil
}

type fakeGateway struct {
	keyID  string
	orders int
	err    error
}

func (f *fakeGateway) CreateOrder(_ context.Context, req razorpay.OrderRequest) (*razorpay.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.orders++
	return &razorpay.Order{ID: "order_test_1", Amount: req.Amount, Currency: req.Currency, Status: "created"}, nil
}

type testEnv struct {
	accounts *fakeAccounts
	ledger   *fakeLedger
	gateway  *fakeGateway
	config   *infra.Config
	handler  http.Handler
}

func newTestEnv(accounts *fakeAccounts, ledger *fakeLedger) *testEnv {
	logger := zerolog.Nop()
	gateway := &fakeGateway{}
	cfg := &infra.Config{
		AppEnv:             "development",
		JWTSecret:          "unit-test-jwt-secret",
		PublicBaseURL:      "http://localhost:8080",
		GithubClientID:     "gh-client",
		GithubClientSecret: "gh-secret",
		MinAmount:          100,
		Currency:           "PKR",
		RateLimitPerMin:    100,
	}
	svc := payments.NewService(payments.Options{
		Accounts:      accounts,
		Contributions: ledger,
		Logger:        logger,
		MinAmount:     cfg.MinAmount,
		Currency:      cfg.Currency,
		Gateway: func(keyID, _ string) (payments.OrderCreator, error) {
			gateway.keyID = keyID
			return gateway, nil
		},
	})
	app := &handlers.App{
		Logger:        logger,
		Config:        cfg,
		Accounts:      accounts,
		Contributions: ledger,
		Payments:      svc,
		Identity:      identity.NewResolver(accounts, logger),
		OAuth:         handlers.NewOAuthProviders(cfg),
	}
	return &testEnv{
		accounts: accounts,
		ledger:   ledger,
		gateway:  gateway,
		config:   cfg,
		handler:  httpapi.NewRouter(app, nil),
	}
}

func creatorAlice() *domain.Account {
	return &domain.Account{
		ID:                "acct-alice",
		Email:             "alice@example.com",
		Name:              "Alice",
		Username:          "alice",
		Project:           "Open source fonts",
		RazorpayKeyID:     "rzp_test_alice",
		RazorpayKeySecret: testSecret,
		Provider:          "github",
	}
}
