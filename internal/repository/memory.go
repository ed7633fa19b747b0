package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/Dan9191/bank-credit-engine/internal/models"
)

// MemoryStore is an in-process Store. Transactions are serialized and a
// failed InTx restores the state it started from. It backs DB_CONN=memory
// for local runs and the service tests.
type MemoryStore struct {
	mu   sync.Mutex
	data *memData
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: newMemData()}
}

type memData struct {
	seq          int64
	users        map[int64]models.User
	accounts     map[int64]models.Account
	transactions map[int64]models.Transaction
	credits      map[int64]models.Credit
	mortgages    map[int64]models.Mortgage
	deposits     map[int64]models.Deposit
}

func newMemData() *memData {
	return &memData{
		users:        map[int64]models.User{},
		accounts:     map[int64]models.Account{},
		transactions: map[int64]models.Transaction{},
		credits:      map[int64]models.Credit{},
		mortgages:    map[int64]models.Mortgage{},
		deposits:     map[int64]models.Deposit{},
	}
}

func cloneMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies the maps. Values hold only immutable decimals and
// time pointers that are replaced rather than mutated.
func (d *memData) clone() *memData {
	return &memData{
		seq:          d.seq,
		users:        cloneMap(d.users),
		accounts:     cloneMap(d.accounts),
		transactions: cloneMap(d.transactions),
		credits:      cloneMap(d.credits),
		mortgages:    cloneMap(d.mortgages),
		deposits:     cloneMap(d.deposits),
	}
}

func (d *memData) nextID() int64 {
	d.seq++
	return d.seq
}

// InTx runs fn against a snapshot-protected view of the store.
func (s *MemoryStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&memTx{data: s.data}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// locked runs a single operation as its own transaction.
func (s *MemoryStore) locked(fn func(tx *memTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memTx{data: s.data})
}

// memTx implements Store on data the caller already holds the lock for.
type memTx struct {
	data *memData
}

func (t *memTx) InTx(_ context.Context, fn func(tx Store) error) error {
	return fn(t)
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%w: %s %d", apperrors.ErrNotFound, kind, id)
}

func (t *memTx) CreateUser(_ context.Context, user *models.User) error {
	for _, u := range t.data.users {
		if u.Phone == user.Phone {
			return fmt.Errorf("%w: phone %s", apperrors.ErrDuplicate, user.Phone)
		}
	}
	user.ID = t.data.nextID()
	user.CreatedAt = time.Now()
	t.data.users[user.ID] = *user
	return nil
}

func (t *memTx) FindUserByPhone(_ context.Context, phone string) (*models.User, error) {
	for _, u := range t.data.users {
		if u.Phone == phone {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user with phone %s", apperrors.ErrNotFound, phone)
}

func (t *memTx) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := t.data.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &u, nil
}

func (t *memTx) CreateAccount(_ context.Context, account *models.Account) error {
	if _, ok := t.data.users[account.UserID]; !ok {
		return notFound("user", account.UserID)
	}
	account.ID = t.data.nextID()
	if account.OpenedAt.IsZero() {
		account.OpenedAt = time.Now()
	}
	account.UpdatedAt = account.OpenedAt
	t.data.accounts[account.ID] = *account
	return nil
}

func (t *memTx) LoadAccount(_ context.Context, id int64) (*models.Account, error) {
	a, ok := t.data.accounts[id]
	if !ok {
		return nil, notFound("account", id)
	}
	return &a, nil
}

func (t *memTx) SaveAccount(_ context.Context, account *models.Account) error {
	if _, ok := t.data.accounts[account.ID]; !ok {
		return notFound("account", account.ID)
	}
	if account.Balance.IsNegative() {
		return fmt.Errorf("%w: negative balance on account %d", apperrors.ErrPersistence, account.ID)
	}
	account.UpdatedAt = time.Now()
	t.data.accounts[account.ID] = *account
	return nil
}

func (t *memTx) ListAccounts(_ context.Context, userID int64) ([]models.Account, error) {
	var out []models.Account
	for _, a := range t.data.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) AppendTransaction(_ context.Context, txn *models.Transaction) error {
	if _, ok := t.data.accounts[txn.AccountID]; !ok {
		return notFound("account", txn.AccountID)
	}
	txn.ID = t.data.nextID()
	t.data.transactions[txn.ID] = *txn
	return nil
}

func (t *memTx) ListTransactions(_ context.Context, accountID int64) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, txn := range t.data.transactions {
		if txn.AccountID == accountID {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (t *memTx) AppendCredit(_ context.Context, c *models.Credit) error {
	if _, ok := t.data.accounts[c.AccountID]; !ok {
		return notFound("account", c.AccountID)
	}
	c.ID = t.data.nextID()
	t.data.credits[c.ID] = *c
	return nil
}

func (t *memTx) UpdateCredit(_ context.Context, c *models.Credit) error {
	if _, ok := t.data.credits[c.ID]; !ok {
		return notFound("credit", c.ID)
	}
	t.data.credits[c.ID] = *c
	return nil
}

func (t *memTx) LoadCredit(_ context.Context, id int64) (*models.Credit, error) {
	c, ok := t.data.credits[id]
	if !ok {
		return nil, notFound("credit", id)
	}
	return &c, nil
}

func (t *memTx) ListCredits(_ context.Context, accountID int64) ([]models.Credit, error) {
	return filterSorted(t.data.credits, func(c models.Credit) bool { return c.AccountID == accountID }), nil
}

func (t *memTx) ListActiveCredits(_ context.Context) ([]models.Credit, error) {
	return filterSorted(t.data.credits, func(c models.Credit) bool { return c.IsActive }), nil
}

func (t *memTx) AppendMortgage(_ context.Context, m *models.Mortgage) error {
	if _, ok := t.data.accounts[m.AccountID]; !ok {
		return notFound("account", m.AccountID)
	}
	if m.IsActive {
		for _, other := range t.data.mortgages {
			if other.AccountID == m.AccountID && other.IsActive {
				return fmt.Errorf("%w: active mortgage on account %d", apperrors.ErrDuplicate, m.AccountID)
			}
		}
	}
	m.ID = t.data.nextID()
	t.data.mortgages[m.ID] = *m
	return nil
}

func (t *memTx) UpdateMortgage(_ context.Context, m *models.Mortgage) error {
	if _, ok := t.data.mortgages[m.ID]; !ok {
		return notFound("mortgage", m.ID)
	}
	t.data.mortgages[m.ID] = *m
	return nil
}

func (t *memTx) LoadMortgage(_ context.Context, id int64) (*models.Mortgage, error) {
	m, ok := t.data.mortgages[id]
	if !ok {
		return nil, notFound("mortgage", id)
	}
	return &m, nil
}

func (t *memTx) ListMortgages(_ context.Context, accountID int64) ([]models.Mortgage, error) {
	return filterSorted(t.data.mortgages, func(m models.Mortgage) bool { return m.AccountID == accountID }), nil
}

func (t *memTx) ListActiveMortgages(_ context.Context) ([]models.Mortgage, error) {
	return filterSorted(t.data.mortgages, func(m models.Mortgage) bool { return m.IsActive }), nil
}

func (t *memTx) AppendDeposit(_ context.Context, d *models.Deposit) error {
	if _, ok := t.data.accounts[d.AccountID]; !ok {
		return notFound("account", d.AccountID)
	}
	d.ID = t.data.nextID()
	t.data.deposits[d.ID] = *d
	return nil
}

func (t *memTx) UpdateDeposit(_ context.Context, d *models.Deposit) error {
	if _, ok := t.data.deposits[d.ID]; !ok {
		return notFound("deposit", d.ID)
	}
	t.data.deposits[d.ID] = *d
	return nil
}

func (t *memTx) ListDeposits(_ context.Context, accountID int64) ([]models.Deposit, error) {
	return filterSorted(t.data.deposits, func(d models.Deposit) bool { return d.AccountID == accountID }), nil
}

func (t *memTx) ListMaturedDeposits(_ context.Context, now time.Time) ([]models.Deposit, error) {
	return filterSorted(t.data.deposits, func(d models.Deposit) bool { return d.Matured(now) }), nil
}

// filterSorted returns matching values ordered by ID. IDs come from one
// sequence, so the map key order is creation order.
func filterSorted[V any](m map[int64]V, keep func(V) bool) []V {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]V, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

var (
	_ Store = (*Repository)(nil)
	_ Store = (*MemoryStore)(nil)
	_ Store = (*memTx)(nil)
)
