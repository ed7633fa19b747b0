package repository

import (
	"context"
	"database/sql"

	"github.com/Dan9191/bank-credit-engine/internal/models"
)

const creditColumns = `id, ref, account_id, principal, interest_rate, monthly_payment, term_months,
	payments_made, is_active, late_payment_count, overdue, next_payment_due_at, late_counted_through,
	closed_at, hmac, created_at, updated_at`

// AppendCredit signs and stores a new credit
func (r *Repository) AppendCredit(ctx context.Context, c *models.Credit) error {
	c.HMAC = r.sign(c)
	query := `
		INSERT INTO bank.credits (ref, account_id, principal, interest_rate, monthly_payment, term_months,
			payments_made, is_active, late_payment_count, overdue, next_payment_due_at, closed_at,
			hmac, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	err := r.q.QueryRowContext(ctx, query,
		c.Ref, c.AccountID, c.Principal, c.InterestRate, c.MonthlyPayment, c.TermMonths,
		c.PaymentsMade, c.IsActive, c.LatePaymentCount, c.Overdue, c.NextPaymentDueAt, c.ClosedAt,
		c.HMAC, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return mapError("append credit", err)
	}
	return nil
}

// UpdateCredit persists the repayment state. Signed terms are never updated.
func (r *Repository) UpdateCredit(ctx context.Context, c *models.Credit) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE bank.credits
		SET payments_made = $2, is_active = $3, late_payment_count = $4, overdue = $5,
			next_payment_due_at = $6, late_counted_through = $7, closed_at = $8, updated_at = $9
		WHERE id = $1`,
		c.ID, c.PaymentsMade, c.IsActive, c.LatePaymentCount, c.Overdue, c.NextPaymentDueAt,
		c.LateCountedThrough, c.ClosedAt, c.UpdatedAt)
	if err != nil {
		return mapError("update credit", err)
	}
	return mustAffectOne("update credit", res)
}

// LoadCredit retrieves one credit and checks its signature
func (r *Repository) LoadCredit(ctx context.Context, id int64) (*models.Credit, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+creditColumns+` FROM bank.credits WHERE id = $1`+r.lockClause(), id)
	c, err := r.scanCredit(row)
	if err != nil {
		return nil, mapError("load credit", err)
	}
	return c, nil
}

// ListCredits returns every credit of the account
func (r *Repository) ListCredits(ctx context.Context, accountID int64) ([]models.Credit, error) {
	return r.queryCredits(ctx, "list credits", `SELECT `+creditColumns+` FROM bank.credits WHERE account_id = $1 ORDER BY id`, accountID)
}

// ListActiveCredits returns active credits of all accounts
func (r *Repository) ListActiveCredits(ctx context.Context) ([]models.Credit, error) {
	return r.queryCredits(ctx, "list active credits", `SELECT `+creditColumns+` FROM bank.credits WHERE is_active ORDER BY id`+r.lockClause())
}

func (r *Repository) queryCredits(ctx context.Context, op, query string, args ...any) ([]models.Credit, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var credits []models.Credit
	for rows.Next() {
		c, err := r.scanCredit(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		credits = append(credits, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return credits, nil
}

func (r *Repository) scanCredit(row rowScanner) (*models.Credit, error) {
	c := &models.Credit{}
	var lateThrough, closedAt sql.NullTime
	err := row.Scan(
		&c.ID, &c.Ref, &c.AccountID, &c.Principal, &c.InterestRate, &c.MonthlyPayment, &c.TermMonths,
		&c.PaymentsMade, &c.IsActive, &c.LatePaymentCount, &c.Overdue, &c.NextPaymentDueAt, &lateThrough, &closedAt,
		&c.HMAC, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lateThrough.Valid {
		c.LateCountedThrough = &lateThrough.Time
	}
	if closedAt.Valid {
		c.ClosedAt = &closedAt.Time
	}
	if err := verify(r.secret, "credit", c.ID, c.HMAC, c); err != nil {
		return nil, err
	}
	return c, nil
}
