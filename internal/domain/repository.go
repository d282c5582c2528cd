package domain

import "context"

// AccountRepository defines access methods for accounts.
type AccountRepository interface {
	// UpsertOnLogin atomically inserts the account if no row exists for its
	// email, otherwise backfills only the fields the owner has not set.
	// Concurrent first logins for the same email must yield one row.
	UpsertOnLogin(ctx context.Context, account *Account) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	UpdateProfile(ctx context.Context, accountID string, update ProfileUpdate) (*Account, error)
}

// ContributionRepository handles ledger persistence.
type ContributionRepository interface {
	// InsertIfAbsent writes the contribution unless a row with the same
	// gateway payment id already exists, in which case the existing row is
	// returned. Uniqueness is enforced by the store, not by the caller.
	InsertIfAbsent(ctx context.Context, contribution *Contribution) (*Contribution, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*Contribution, error)
	ListByRecipient(ctx context.Context, username string, limit int) ([]Contribution, error)
	SumByRecipient(ctx context.Context, username string) (int64, error)
}
