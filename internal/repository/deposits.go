package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/models"
)

const depositColumns = `id, ref, account_id, principal, interest_rate, term_months, final_amount, income,
	opened_at, matures_at, paid_out, paid_out_at, hmac`

// AppendDeposit signs and stores a new deposit
func (r *Repository) AppendDeposit(ctx context.Context, d *models.Deposit) error {
	d.HMAC = r.sign(d)
	query := `
		INSERT INTO bank.deposits (ref, account_id, principal, interest_rate, term_months, final_amount, income,
			opened_at, matures_at, paid_out, paid_out_at, hmac)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRowContext(ctx, query,
		d.Ref, d.AccountID, d.Principal, d.InterestRate, d.TermMonths, d.FinalAmount, d.Income,
		d.OpenedAt, d.MaturesAt, d.PaidOut, d.PaidOutAt, d.HMAC,
	).Scan(&d.ID)
	if err != nil {
		return mapError("append deposit", err)
	}
	return nil
}

// UpdateDeposit persists the payout state
func (r *Repository) UpdateDeposit(ctx context.Context, d *models.Deposit) error {
	res, err := r.q.ExecContext(ctx, `UPDATE bank.deposits SET paid_out = $2, paid_out_at = $3 WHERE id = $1`,
		d.ID, d.PaidOut, d.PaidOutAt)
	if err != nil {
		return mapError("update deposit", err)
	}
	return mustAffectOne("update deposit", res)
}

// ListDeposits returns every deposit of the account
func (r *Repository) ListDeposits(ctx context.Context, accountID int64) ([]models.Deposit, error) {
	return r.queryDeposits(ctx, "list deposits", `SELECT `+depositColumns+` FROM bank.deposits WHERE account_id = $1 ORDER BY id`, accountID)
}

// ListMaturedDeposits returns unpaid deposits whose maturity date has passed
func (r *Repository) ListMaturedDeposits(ctx context.Context, now time.Time) ([]models.Deposit, error) {
	return r.queryDeposits(ctx, "list matured deposits",
		`SELECT `+depositColumns+` FROM bank.deposits WHERE NOT paid_out AND matures_at <= $1 ORDER BY id`+r.lockClause(), now)
}

func (r *Repository) queryDeposits(ctx context.Context, op, query string, args ...any) ([]models.Deposit, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var deposits []models.Deposit
	for rows.Next() {
		d := models.Deposit{}
		var paidOutAt sql.NullTime
		err := rows.Scan(
			&d.ID, &d.Ref, &d.AccountID, &d.Principal, &d.InterestRate, &d.TermMonths, &d.FinalAmount, &d.Income,
			&d.OpenedAt, &d.MaturesAt, &d.PaidOut, &paidOutAt, &d.HMAC,
		)
		if err != nil {
			return nil, mapError(op, err)
		}
		if paidOutAt.Valid {
			d.PaidOutAt = &paidOutAt.Time
		}
		if err := verify(r.secret, "deposit", d.ID, d.HMAC, &d); err != nil {
			return nil, err
		}
		deposits = append(deposits, d)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return deposits, nil
}
