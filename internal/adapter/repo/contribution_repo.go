package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"getmeachai/internal/domain"
	"getmeachai/internal/infra"
	"getmeachai/internal/sqlinline"
)

// ContributionRepositoryPG implements domain.ContributionRepository using PostgreSQL.
type ContributionRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewContributionRepository creates a new contribution repo.
func NewContributionRepository(sql infra.SQLExecutor) *ContributionRepositoryPG {
	return &ContributionRepositoryPG{sql: sql}
}

// InsertIfAbsent writes the contribution, or returns the existing row when a
// contribution with the same gateway payment id was already recorded. The
// unique constraint on payment_id serializes concurrent callbacks for the
// same payment.
func (r *ContributionRepositoryPG) InsertIfAbsent(ctx context.Context, contribution *domain.Contribution) (*domain.Contribution, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertContributionIfAbsent,
		contribution.RecipientUsername,
		contribution.PayerName,
		contribution.Message,
		contribution.Amount,
		contribution.Currency,
		contribution.OrderID,
		contribution.PaymentID,
		contribution.Country,
	)
	inserted, err := scanContribution(row)
	if err == nil {
		return inserted, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	// ON CONFLICT DO NOTHING returned no row: the payment was recorded by an
	// earlier (or concurrent) callback. Report that row as the result.
	existing, err := r.GetByPaymentID(ctx, contribution.PaymentID)
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// GetByPaymentID fetches a contribution by its unique gateway payment id.
func (r *ContributionRepositoryPG) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Contribution, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectContributionByPaymentID, paymentID)
	return scanContribution(row)
}

// ListByRecipient returns the recipient's most recent contributions.
func (r *ContributionRepositoryPG) ListByRecipient(ctx context.Context, username string, limit int) ([]domain.Contribution, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListContributionsByRecipient, username, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Contribution
	for rows.Next() {
		var c domain.Contribution
		if err := rows.Scan(&c.ID, &c.RecipientUsername, &c.PayerName, &c.Message, &c.Amount, &c.Currency, &c.OrderID, &c.PaymentID, &c.Country, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SumByRecipient returns the total amount raised by the recipient.
func (r *ContributionRepositoryPG) SumByRecipient(ctx context.Context, username string) (int64, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSumContributionsByRecipient, username)
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func scanContribution(row pgx.Row) (*domain.Contribution, error) {
	var c domain.Contribution
	err := row.Scan(
		&c.ID,
		&c.RecipientUsername,
		&c.PayerName,
		&c.Message,
		&c.Amount,
		&c.Currency,
		&c.OrderID,
		&c.PaymentID,
		&c.Country,
		&c.CreatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

var _ domain.ContributionRepository = (*ContributionRepositoryPG)(nil)
