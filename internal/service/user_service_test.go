package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dhrutik-Patel/CodeChat/internal/apperrors"
	"github.com/Dhrutik-Patel/CodeChat/internal/auth"
	"github.com/Dhrutik-Patel/CodeChat/internal/model"
)

func newTestUserService(users ...*model.User) (UserService, *fakeUserStore, *auth.TokenManager) {
	store := newFakeUserStore(users...)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewUserService(store, tokens, zap.NewNop()), store, tokens
}

func TestUserService_Register(t *testing.T) {
	t.Run("stores a hash, never the plain password", func(t *testing.T) {
		req := require.New(t)
		svc, store, tokens := newTestUserService()

		account, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret", "")

		req.NoError(err)
		req.NotEqual("s3cret", account.User.Password)
		req.True(auth.ComparePassword("s3cret", account.User.Password))
		req.Equal(model.DefaultAvatar, account.User.Avatar)
		req.Len(store.users, 1)

		// The issued token identifies the new account.
		userID, err := tokens.Validate(account.Token)
		req.NoError(err)
		req.Equal(account.User.ID.Hex(), userID)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newTestUserService()

		_, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret", "")
		req.NoError(err)

		_, err = svc.Register(context.Background(), "imposter", "alice@example.com", "other", "")
		req.ErrorIs(err, apperrors.ErrConflict)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newTestUserService()

		_, err := svc.Register(context.Background(), "", "alice@example.com", "s3cret", "")
		req.ErrorIs(err, apperrors.ErrInvalidArgument)

		_, err = svc.Register(context.Background(), "alice", "alice@example.com", "", "")
		req.ErrorIs(err, apperrors.ErrInvalidArgument)
	})
}

func TestUserService_Login(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestUserService()

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret", "")
	req.NoError(err)

	t.Run("valid credentials yield a session", func(t *testing.T) {
		account, err := svc.Login(context.Background(), "alice@example.com", "s3cret")
		req.NoError(err)
		req.NotEmpty(account.Token)
		req.Equal("alice", account.User.Name)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "alice@example.com", "nope")
		req.ErrorIs(err, apperrors.ErrUnauthorized)
	})

	t.Run("unknown email gets the same generic error", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", "s3cret")
		req.ErrorIs(err, apperrors.ErrUnauthorized)
	})
}
