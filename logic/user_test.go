package logic

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/VSO-Labs/Daddy-John-Backend/apperr"
	"github.com/VSO-Labs/Daddy-John-Backend/logger"
)

func newUserLogic(f *fixture) *UserLogic {
	return NewUserLogic(f.userDAO, "test-secret", 24, logger.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	users := newUserLogic(f)
	ctx := context.Background()

	created, err := users.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "alice", created.Username)
	require.NotEqual(t, "s3cret", created.PasswordHash)
	require.Contains(t, created.RoleList(), "USER")

	user, token, expireAt, err := users.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)
	require.NotEmpty(t, token)
	require.True(t, expireAt.After(time.Now()))

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, "alice", claims["username"])
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	users := newUserLogic(f)
	ctx := context.Background()

	_, err := users.Register(ctx, "", "pw")
	require.Equal(t, "invalid_argument", apperr.CodeOf(err))
	_, err = users.Register(ctx, "alice", "")
	require.Equal(t, "invalid_argument", apperr.CodeOf(err))

	_, err = users.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	_, err = users.Register(ctx, "alice", "other")
	require.Equal(t, "invalid_argument", apperr.CodeOf(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	users := newUserLogic(f)
	ctx := context.Background()

	_, err := users.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, _, _, err = users.Login(ctx, "alice", "wrong")
	require.Equal(t, "unauthorized", apperr.CodeOf(err))

	_, _, _, err = users.Login(ctx, "nobody", "s3cret")
	require.Equal(t, "unauthorized", apperr.CodeOf(err))
}
