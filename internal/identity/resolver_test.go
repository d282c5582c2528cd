package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"getmeachai/internal/domain"
)

type fakeAccounts struct {
	upserted *domain.Account
	fail     error
}

func (f *fakeAccounts) UpsertOnLogin(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.upserted = account
	stored := *account
	stored.ID = "acct-1"
	return &stored, nil
}

func (f *fakeAccounts) GetByID(context.Context, string) (*domain.Account, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeAccounts) GetByEmail(context.Context, string) (*domain.Account, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeAccounts) GetByUsername(context.Context, string) (*domain.Account, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeAccounts) UpdateProfile(context.Context, string, domain.ProfileUpdate) (*domain.Account, error) {
	return nil, domain.ErrNotFound
}

func TestResolveOrCreateRejectsMissingEmail(t *testing.T) {
	r := NewResolver(&fakeAccounts{}, zerolog.Nop())

	_, err := r.ResolveOrCreate(context.Background(), ProviderIdentity{Provider: "google", Subject: "sub-1"})
	if !errors.Is(err, domain.ErrMissingEmail) {
		t.Fatalf("expected ErrMissingEmail, got %v", err)
	}
}

func TestResolveOrCreateDerivesUsernameFromEmail(t *testing.T) {
	accounts := &fakeAccounts{}
	r := NewResolver(accounts, zerolog.Nop())

	got, err := r.ResolveOrCreate(context.Background(), ProviderIdentity{
		Provider: "google",
		Subject:  "sub-1",
		Email:    "jane.doe+chai@example.com",
		Name:     "Jane Doe",
	})
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if got.ID != "acct-1" {
		t.Fatalf("expected persisted account, got %#v", got)
	}
	if accounts.upserted.Username != "jane_doe_chai" {
		t.Fatalf("username mismatch: got %q", accounts.upserted.Username)
	}
}

func TestResolveOrCreateTruncatesLongUsernames(t *testing.T) {
	accounts := &fakeAccounts{}
	r := NewResolver(accounts, zerolog.Nop())

	_, err := r.ResolveOrCreate(context.Background(), ProviderIdentity{
		Provider: "google",
		Subject:  "sub-1",
		Email:    "a.very.long.address.indeed@example.com",
	})
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if len(accounts.upserted.Username) != 20 {
		t.Fatalf("username not truncated: %q (%d)", accounts.upserted.Username, len(accounts.upserted.Username))
	}
}

func TestResolveOrCreatePrefersProviderLogin(t *testing.T) {
	accounts := &fakeAccounts{}
	r := NewResolver(accounts, zerolog.Nop())

	_, err := r.ResolveOrCreate(context.Background(), ProviderIdentity{
		Provider: "github",
		Subject:  "42",
		Email:    "octocat@example.com",
		Login:    "octocat",
	})
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if accounts.upserted.Username != "octocat" {
		t.Fatalf("username mismatch: got %q", accounts.upserted.Username)
	}
}

func TestResolveOrCreateContinuesWhenStoreFails(t *testing.T) {
	accounts := &fakeAccounts{fail: errors.New("connection refused")}
	r := NewResolver(accounts, zerolog.Nop())

	got, err := r.ResolveOrCreate(context.Background(), ProviderIdentity{
		Provider: "google",
		Subject:  "sub-1",
		Email:    "jane@example.com",
		Name:     "Jane",
	})
	if err != nil {
		t.Fatalf("expected login to proceed, got %v", err)
	}
	if got.Email != "jane@example.com" || got.ID != "" {
		t.Fatalf("expected unpersisted account, got %#v", got)
	}
}
