package repository

import (
	"context"

	"github.com/Dan9191/bank-credit-engine/internal/models"
)

// AppendTransaction records a balance movement
func (r *Repository) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO bank.transactions (ref, account_id, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRowContext(ctx, query, txn.Ref, txn.AccountID, txn.Amount, string(txn.Type), txn.Description, txn.CreatedAt).
		Scan(&txn.ID)
	if err != nil {
		return mapError("append transaction", err)
	}
	return nil
}

// ListTransactions returns the account history, newest first
func (r *Repository) ListTransactions(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, ref, account_id, amount, type, description, created_at
		FROM bank.transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC`, accountID)
	if err != nil {
		return nil, mapError("list transactions", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var typ string
		if err := rows.Scan(&t.ID, &t.Ref, &t.AccountID, &t.Amount, &typ, &t.Description, &t.CreatedAt); err != nil {
			return nil, mapError("scan transaction", err)
		}
		t.Type = models.TransactionType(typ)
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list transactions", err)
	}
	return txns, nil
}
