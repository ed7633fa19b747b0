package repository

import (
	"context"

	"github.com/Dan9191/bank-credit-engine/internal/models"
)

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO bank.accounts (user_id, balance, currency, opened_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, opened_at, updated_at`
	err := r.q.QueryRowContext(ctx, query, account.UserID, account.Balance, account.Currency).
		Scan(&account.ID, &account.OpenedAt, &account.UpdatedAt)
	if err != nil {
		return mapError("create account", err)
	}
	return nil
}

// LoadAccount retrieves an account. Inside a transaction the row stays
// locked until commit.
func (r *Repository) LoadAccount(ctx context.Context, id int64) (*models.Account, error) {
	a := &models.Account{}
	query := `
		SELECT id, user_id, balance, currency, opened_at, updated_at
		FROM bank.accounts
		WHERE id = $1` + r.lockClause()
	err := r.q.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.UserID, &a.Balance, &a.Currency, &a.OpenedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapError("load account", err)
	}
	return a, nil
}

// SaveAccount persists the balance
func (r *Repository) SaveAccount(ctx context.Context, account *models.Account) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE bank.accounts SET balance = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`, account.ID, account.Balance)
	if err != nil {
		return mapError("save account", err)
	}
	return mustAffectOne("save account", res)
}

// ListAccounts returns the user's accounts, oldest first
func (r *Repository) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, user_id, balance, currency, opened_at, updated_at
		FROM bank.accounts
		WHERE user_id = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, mapError("list accounts", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Balance, &a.Currency, &a.OpenedAt, &a.UpdatedAt); err != nil {
			return nil, mapError("scan account", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list accounts", err)
	}
	return accounts, nil
}
