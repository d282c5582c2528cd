package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"getmeachai/internal/domain"
	"getmeachai/internal/infra"
	"getmeachai/internal/sqlinline"
)

// AccountRepositoryPG implements domain.AccountRepository backed by PostgreSQL.
type AccountRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAccountRepository creates a new AccountRepositoryPG.
func NewAccountRepository(sql infra.SQLExecutor) *AccountRepositoryPG {
	return &AccountRepositoryPG{sql: sql}
}

// UpsertOnLogin inserts the account keyed on email, backfilling only unset
// user-owned fields when a row already exists. The statement is a single
// atomic upsert so concurrent first logins cannot create duplicates.
func (r *AccountRepositoryPG) UpsertOnLogin(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpsertAccountOnLogin,
		account.Email,
		account.Name,
		account.Username,
		account.AvatarURL,
		account.Provider,
		account.ProviderSubject,
	)
	return scanAccount(row)
}

// GetByID fetches an account by its UUID.
func (r *AccountRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectAccountByID, id)
	return scanAccount(row)
}

// GetByEmail fetches an account by its unique email.
func (r *AccountRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectAccountByEmail, email)
	return scanAccount(row)
}

// GetByUsername fetches an account by its unique username.
func (r *AccountRepositoryPG) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectAccountByUsername, username)
	return scanAccount(row)
}

// UpdateProfile applies owner edits and returns the updated account.
func (r *AccountRepositoryPG) UpdateProfile(ctx context.Context, accountID string, update domain.ProfileUpdate) (*domain.Account, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateAccountProfile,
		accountID,
		update.Name,
		update.Username,
		update.AvatarURL,
		update.CoverURL,
		update.Project,
		update.ProjectLink,
		update.ProjectDescription,
		update.RazorpayKeyID,
		update.RazorpayKeySecret,
	)
	account, err := scanAccount(row)
	if err != nil && infra.IsUniqueViolation(err) {
		return nil, domain.ErrUsernameTaken
	}
	return account, err
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.Name,
		&a.Username,
		&a.AvatarURL,
		&a.CoverURL,
		&a.Project,
		&a.ProjectLink,
		&a.ProjectDescription,
		&a.RazorpayKeyID,
		&a.RazorpayKeySecret,
		&a.Provider,
		&a.ProviderSubject,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

var _ domain.AccountRepository = (*AccountRepositoryPG)(nil)
