package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, account, err := f.svc.Register(ctx, "+79001234567", "1234", "client@mail.local")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "1234", user.PINHash)
	assert.Equal(t, user.ID, account.UserID)
	assert.True(t, account.Balance.IsZero())

	token, err := f.svc.Login(ctx, "+79001234567", "1234")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return testNow }))
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(user.ID, 10), claims.Subject)
}

func TestRegister_DuplicatePhone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.svc.Register(ctx, "+79001234567", "1234", "")
	require.NoError(t, err)

	_, _, err = f.svc.Register(ctx, "+79001234567", "9999", "")
	assert.True(t, errors.Is(err, apperrors.ErrDuplicate))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.svc.Register(ctx, "+79001234567", "1234", "")
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "+79001234567", "4321")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	_, err = f.svc.Login(ctx, "+79990000000", "1234")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}
