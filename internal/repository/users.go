package repository

import (
	"context"

	"github.com/Dan9191/bank-credit-engine/internal/models"
)

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO bank.users (phone, email, pin_hash, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.q.QueryRowContext(ctx, query, user.Phone, user.Email, user.PINHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return mapError("create user", err)
	}
	return nil
}

// FindUserByPhone retrieves a user by phone number
func (r *Repository) FindUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findUser(ctx, "phone = $1", phone)
}

// FindUserByID retrieves a user by ID
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findUser(ctx, "id = $1", id)
}

func (r *Repository) findUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, phone, email, pin_hash, created_at FROM bank.users WHERE ` + where
	err := r.q.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Phone, &user.Email, &user.PINHash, &user.CreatedAt)
	if err != nil {
		return nil, mapError("find user", err)
	}
	return user, nil
}
