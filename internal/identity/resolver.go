package identity

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"getmeachai/internal/domain"
)

const maxUsernameLength = 20

// ProviderIdentity is what a federated identity provider hands back after a
// completed OAuth handshake. Everything in it except Email is a hint.
type ProviderIdentity struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
	// Login is the provider-side handle (GitHub login); preferred over a
	// derived username when present.
	Login string
}

// Resolver turns federated login assertions into local accounts.
type Resolver struct {
	accounts domain.AccountRepository
	logger   zerolog.Logger
}

func NewResolver(accounts domain.AccountRepository, logger zerolog.Logger) *Resolver {
	return &Resolver{accounts: accounts, logger: logger}
}

// ResolveOrCreate maps the assertion to an account, creating one on first
// sight of the email. The write is an atomic upsert keyed on email; existing
// user-owned fields are never overwritten, only backfilled.
//
// A store failure does not block the login: the resolver logs it and returns
// the in-memory account so a session can still be issued. The row is created
// on a later successful login.
func (r *Resolver) ResolveOrCreate(ctx context.Context, id ProviderIdentity) (*domain.Account, error) {
	if strings.TrimSpace(id.Email) == "" {
		return nil, domain.ErrMissingEmail
	}

	account := &domain.Account{
		Email:           id.Email,
		Name:            displayName(id),
		Username:        usernameCandidate(id),
		AvatarURL:       id.AvatarURL,
		Provider:        id.Provider,
		ProviderSubject: id.Subject,
	}

	persisted, err := r.accounts.UpsertOnLogin(ctx, account)
	if err != nil {
		r.logger.Error().Err(err).
			Str("provider", id.Provider).
			Str("email", id.Email).
			Msg("account upsert failed, continuing login without persistence")
		return account, nil
	}
	return persisted, nil
}

func displayName(id ProviderIdentity) string {
	if id.Name != "" {
		return id.Name
	}
	if id.Login != "" {
		return id.Login
	}
	return "Supporter"
}

// usernameCandidate prefers the provider handle, else derives one from the
// email local part with non [a-zA-Z0-9_] characters replaced, truncated to
// a bounded length.
func usernameCandidate(id ProviderIdentity) string {
	candidate := id.Login
	if candidate == "" {
		candidate = id.Email
		if at := strings.IndexByte(candidate, '@'); at >= 0 {
			candidate = candidate[:at]
		}
		candidate = sanitizeUsername(candidate)
	}
	if len(candidate) > maxUsernameLength {
		candidate = candidate[:maxUsernameLength]
	}
	return candidate
}

func sanitizeUsername(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
