package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/Dan9191/bank-credit-engine/internal/models"
	"github.com/lib/pq"
)

// Store is the persistence the service layer works against. Inside InTx
// every call runs in one database transaction and nothing is persisted if fn
// returns an error.
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	CreateUser(ctx context.Context, user *models.User) error
	FindUserByPhone(ctx context.Context, phone string) (*models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)

	CreateAccount(ctx context.Context, account *models.Account) error
	LoadAccount(ctx context.Context, id int64) (*models.Account, error)
	SaveAccount(ctx context.Context, account *models.Account) error
	ListAccounts(ctx context.Context, userID int64) ([]models.Account, error)

	AppendTransaction(ctx context.Context, txn *models.Transaction) error
	ListTransactions(ctx context.Context, accountID int64) ([]models.Transaction, error)

	AppendCredit(ctx context.Context, credit *models.Credit) error
	UpdateCredit(ctx context.Context, credit *models.Credit) error
	LoadCredit(ctx context.Context, id int64) (*models.Credit, error)
	ListCredits(ctx context.Context, accountID int64) ([]models.Credit, error)
	ListActiveCredits(ctx context.Context) ([]models.Credit, error)

	AppendMortgage(ctx context.Context, mortgage *models.Mortgage) error
	UpdateMortgage(ctx context.Context, mortgage *models.Mortgage) error
	LoadMortgage(ctx context.Context, id int64) (*models.Mortgage, error)
	ListMortgages(ctx context.Context, accountID int64) ([]models.Mortgage, error)
	ListActiveMortgages(ctx context.Context) ([]models.Mortgage, error)

	AppendDeposit(ctx context.Context, deposit *models.Deposit) error
	UpdateDeposit(ctx context.Context, deposit *models.Deposit) error
	ListDeposits(ctx context.Context, accountID int64) ([]models.Deposit, error)
	ListMaturedDeposits(ctx context.Context, now time.Time) ([]models.Deposit, error)
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository provides PostgreSQL-backed storage
type Repository struct {
	db     *sql.DB
	q      querier
	inTx   bool
	secret string
}

// NewRepository initializes a new repository. secret keys the HMAC that
// signs product records.
func NewRepository(db *sql.DB, secret string) *Repository {
	return &Repository{db: db, q: db, secret: secret}
}

// InTx runs fn inside a database transaction. Nested calls join the outer
// transaction.
func (r *Repository) InTx(ctx context.Context, fn func(tx Store) error) (err error) {
	if r.inTx {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence("begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Repository{db: r.db, q: tx, inTx: true, secret: r.secret}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, persistence("rollback", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return persistence("commit", err)
	}
	return nil
}

// lockClause row-locks loaded records so concurrent mutations of the same
// account serialize.
func (r *Repository) lockClause() string {
	if r.inTx {
		return " FOR UPDATE"
	}
	return ""
}

const pqUniqueViolation = "23505"

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", apperrors.ErrPersistence, op, err)
}

// mapError translates driver errors into the apperrors taxonomy.
func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, op)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return fmt.Errorf("%w: %s: %s", apperrors.ErrDuplicate, op, pqErr.Constraint)
	}
	return persistence(op, err)
}

func mustAffectOne(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return persistence(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, op)
	}
	return nil
}
