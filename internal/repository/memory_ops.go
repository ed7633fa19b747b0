package repository

import (
	"context"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/models"
)

// Single-operation wrappers; each call takes the store lock.

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.locked(func(tx *memTx) error { return tx.CreateUser(ctx, user) })
}

func (s *MemoryStore) FindUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var out *models.User
	err := s.locked(func(tx *memTx) (err error) {
		out, err = tx.FindUserByPhone(ctx, phone)
		return err
	})
	return out, err
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	var out *models.User
	err := s.locked(func(tx *memTx) (err error) {
		out, err = tx.FindUserByID(ctx, id)
		return err
	})
	return out, err
}

func (s *MemoryStore) CreateAccount(ctx context.Context, account *models.Account) error {
	return s.locked(func(tx *memTx) error { return tx.CreateAccount(ctx, account) })
}

func (s *MemoryStore) LoadAccount(ctx context.Context, id int64) (*models.Account, error) {
	var out *models.Account
	err := s.locked(func(tx *memTx) (err error) {
		out, err = tx.LoadAccount(ctx, id)
		return err
	})
	return out, err
}

func (s *MemoryStore) SaveAccount(ctx context.Context, account *models.Account) error {
	return s.locked(func(tx *memTx) error { return tx.SaveAccount(ctx, account) })
}

func (s *MemoryStore) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	var out []models.Account
	err := s.locked(func(tx *memTx) (err error) {
		out, err = tx.ListAccounts(ctx, userID)
		return err
	})
	return out, err
}

func (s *MemoryStore) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	return s.locked(func(tx *memTx) error { return tx.AppendTransaction(ctx, txn) })
}

func (s *MemoryStore) ListTransactions(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	var out []models.Transaction
	err := s.locked(func(tx *memTx) (err error) {
		out, err = tx.ListTransactions(ctx, accountID)
		return err
	})
	return out, err
}

func (s *MemoryStore) AppendCredit(ctx context.Context, c *models.Credit) error {
	return s.locked(func(tx *memTx) error { return tx.AppendCredit(ctx, c) })
}

func (s *MemoryStore) UpdateCredit(ctx context.Context, c *models.Credit) error {
	return s.locked(func(tx *memTx) error { return tx.UpdateCredit(ctx, c) })
}

func (s *MemoryStore) LoadCredit(ctx context.Context, id int64) (*models.Credit, error) {
	var out *models.Credit
	err := s.locked(func(tx *memTx) (err error) {
		out, err = tx.LoadCredit(ctx, id)
		return err
	})
	return out, err
}

func (s *MemoryStore) ListCredits(ctx context.Context, accountID int64) ([]models.Credit, error) {
	var out []models.Credit
	err := s.locked(func(tx *memTx) (err error) {
		out, err = tx.ListCredits(ctx, accountID)
		return err
	})
	return out, err
}

func (s *MemoryStore) ListActiveCredits(ctx context.Context) ([]models.Credit, error) {
	var out []models.Credit
	err := s.locked(func(tx *memTx) (err error) {
		out, err = tx.ListActiveCredits(ctx)
		return err
	})
	return out, err
}

func (s *MemoryStore) AppendMortgage(ctx context.Context, m *models.Mortgage) error {
	return s.locked(func(tx *memTx) error { return tx.AppendMortgage(ctx, m) })
}

func (s *MemoryStore) UpdateMortgage(ctx context.Context, m *models.Mortgage) error {
	return s.locked(func(tx *memTx) error { return tx.UpdateMortgage(ctx, m) })
}

func (s *MemoryStore) LoadMortgage(ctx context.Context, id int64) (*models.Mortgage, error) {
	var out *models.Mortgage
	err := s.locked(func(tx *memTx) (err error) {
		out, err = tx.LoadMortgage(ctx, id)
		return err
	})
	return out, err
}

func (s *MemoryStore) ListMortgages(ctx context.Context, accountID int64) ([]models.Mortgage, error) {
	var out []models.Mortgage
	err := s.locked(func(tx *memTx) (err error) {
		out, err = tx.ListMortgages(ctx, accountID)
		return err
	})
	return out, err
}

func (s *MemoryStore) ListActiveMortgages(ctx context.Context) ([]models.Mortgage, error) {
	var out []models.Mortgage
	err := s.locked(func(tx *memTx) (err error) {
		out, err = tx.ListActiveMortgages(ctx)
		return err
	})
	return out, err
}

func (s *MemoryStore) AppendDeposit(ctx context.Context, d *models.Deposit) error {
	return s.locked(func(tx *memTx) error { return tx.AppendDeposit(ctx, d) })
}

func (s *MemoryStore) UpdateDeposit(ctx context.Context, d *models.Deposit) error {
	return s.locked(func(tx *memTx) error { return tx.UpdateDeposit(ctx, d) })
}

func (s *MemoryStore) ListDeposits(ctx context.Context, accountID int64) ([]models.Deposit, error) {
	var out []models.Deposit
	err := s.locked(func(tx *memTx) (err error) {
		out, err = tx.ListDeposits(ctx, accountID)
		return err
	})
	return out, err
}

func (s *MemoryStore) ListMaturedDeposits(ctx context.Context, now time.Time) ([]models.Deposit, error) {
	var out []models.Deposit
	err := s.locked(func(tx *memTx) (err error) {
		out, err = tx.ListMaturedDeposits(ctx, now)
		return err
	})
	return out, err
}
