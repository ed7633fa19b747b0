package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/Dan9191/bank-credit-engine/internal/models"
	"github.com/Dan9191/bank-credit-engine/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCurrency is the currency of every account.
const DefaultCurrency = "RUB"

// Register creates a user with a hashed PIN and opens their first account
func (s *Service) Register(ctx context.Context, phone, pin, emailAddr string) (*models.User, *models.Account, error) {
	hashedPIN, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash PIN: %w", err)
	}

	user := &models.User{Phone: phone, Email: emailAddr, PINHash: string(hashedPIN)}
	account := &models.Account{Balance: decimal.Zero, Currency: DefaultCurrency}
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		account.UserID = user.ID
		return tx.CreateAccount(ctx, account)
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "account_id": account.ID}).Info("User registered")
	return user, account, nil
}

// Login authenticates a user by phone and PIN and returns a JWT token
func (s *Service) Login(ctx context.Context, phone, pin string) (string, error) {
	user, err := s.store.FindUserByPhone(ctx, phone)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PINHash), []byte(pin)); err != nil {
		return "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWTTTL)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("User logged in")
	return tokenString, nil
}
