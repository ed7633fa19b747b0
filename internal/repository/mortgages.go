package repository

import (
	"context"
	"database/sql"

	"github.com/Dan9191/bank-credit-engine/internal/models"
)

const mortgageColumns = `id, ref, account_id, property_cost, down_payment, amount, term_years, interest_rate,
	monthly_payment, term_months, payments_made, is_active, late_payment_count, overdue,
	next_payment_due_at, late_counted_through, closed_at, hmac, created_at, updated_at`

// AppendMortgage signs and stores a new mortgage. The schema allows one
// active mortgage per account; a second one fails with ErrDuplicate.
func (r *Repository) AppendMortgage(ctx context.Context, m *models.Mortgage) error {
	m.HMAC = r.sign(m)
	query := `
		INSERT INTO bank.mortgages (ref, account_id, property_cost, down_payment, amount, term_years, interest_rate,
			monthly_payment, term_months, payments_made, is_active, late_payment_count, overdue,
			next_payment_due_at, closed_at, hmac, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id`
	err := r.q.QueryRowContext(ctx, query,
		m.Ref, m.AccountID, m.PropertyCost, m.DownPayment, m.Amount, m.TermYears, m.InterestRate,
		m.MonthlyPayment, m.TermMonths, m.PaymentsMade, m.IsActive, m.LatePaymentCount, m.Overdue,
		m.NextPaymentDueAt, m.ClosedAt, m.HMAC, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		return mapError("append mortgage", err)
	}
	return nil
}

// UpdateMortgage persists the repayment state
func (r *Repository) UpdateMortgage(ctx context.Context, m *models.Mortgage) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE bank.mortgages
		SET payments_made = $2, is_active = $3, late_payment_count = $4, overdue = $5,
			next_payment_due_at = $6, late_counted_through = $7, closed_at = $8, updated_at = $9
		WHERE id = $1`,
		m.ID, m.PaymentsMade, m.IsActive, m.LatePaymentCount, m.Overdue, m.NextPaymentDueAt,
		m.LateCountedThrough, m.ClosedAt, m.UpdatedAt)
	if err != nil {
		return mapError("update mortgage", err)
	}
	return mustAffectOne("update mortgage", res)
}

// LoadMortgage retrieves one mortgage and checks its signature
func (r *Repository) LoadMortgage(ctx context.Context, id int64) (*models.Mortgage, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+mortgageColumns+` FROM bank.mortgages WHERE id = $1`+r.lockClause(), id)
	m, err := r.scanMortgage(row)
	if err != nil {
		return nil, mapError("load mortgage", err)
	}
	return m, nil
}

// ListMortgages returns every mortgage of the account
func (r *Repository) ListMortgages(ctx context.Context, accountID int64) ([]models.Mortgage, error) {
	return r.queryMortgages(ctx, "list mortgages", `SELECT `+mortgageColumns+` FROM bank.mortgages WHERE account_id = $1 ORDER BY id`, accountID)
}

// ListActiveMortgages returns active mortgages of all accounts
func (r *Repository) ListActiveMortgages(ctx context.Context) ([]models.Mortgage, error) {
	return r.queryMortgages(ctx, "list active mortgages", `SELECT `+mortgageColumns+` FROM bank.mortgages WHERE is_active ORDER BY id`+r.lockClause())
}

func (r *Repository) queryMortgages(ctx context.Context, op, query string, args ...any) ([]models.Mortgage, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var mortgages []models.Mortgage
	for rows.Next() {
		m, err := r.scanMortgage(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		mortgages = append(mortgages, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return mortgages, nil
}

func (r *Repository) scanMortgage(row rowScanner) (*models.Mortgage, error) {
	m := &models.Mortgage{}
	var lateThrough, closedAt sql.NullTime
	err := row.Scan(
		&m.ID, &m.Ref, &m.AccountID, &m.PropertyCost, &m.DownPayment, &m.Amount, &m.TermYears, &m.InterestRate,
		&m.MonthlyPayment, &m.TermMonths, &m.PaymentsMade, &m.IsActive, &m.LatePaymentCount, &m.Overdue,
		&m.NextPaymentDueAt, &lateThrough, &closedAt, &m.HMAC, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lateThrough.Valid {
		m.LateCountedThrough = &lateThrough.Time
	}
	if closedAt.Valid {
		m.ClosedAt = &closedAt.Time
	}
	if err := verify(r.secret, "mortgage", m.ID, m.HMAC, m); err != nil {
		return nil, err
	}
	return m, nil
}
