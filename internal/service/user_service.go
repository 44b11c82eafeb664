package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Dhrutik-Patel/CodeChat/internal/apperrors"
	"github.com/Dhrutik-Patel/CodeChat/internal/auth"
	"github.com/Dhrutik-Patel/CodeChat/internal/model"
	"github.com/Dhrutik-Patel/CodeChat/internal/repo"
)

// AuthenticatedUser is a user plus a fresh session token.
type AuthenticatedUser struct {
	User  *model.User
	Token string
}

type UserService interface {
	Register(ctx context.Context, name, email, password, avatar string) (*AuthenticatedUser, error)
	Login(ctx context.Context, email, password string) (*AuthenticatedUser, error)
	Search(ctx context.Context, keyword, callerID string) ([]model.User, error)
}

type userService struct {
	users  repo.UserRepository
	tokens *auth.TokenManager
	logger *zap.Logger
}

func NewUserService(users repo.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) UserService {
	return &userService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

func (s *userService) Register(ctx context.Context, name, email, password, avatar string) (*AuthenticatedUser, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", apperrors.ErrInvalidArgument)
	}
	if avatar == "" {
		avatar = model.DefaultAvatar
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, &model.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Avatar:   avatar,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthenticatedUser{User: user, Token: token}, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*AuthenticatedUser, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrInvalidArgument)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		// Generic error to prevent user enumeration
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	if !auth.ComparePassword(password, user.Password) {
		s.logger.Warn("failed login attempt", zap.String("email", email))
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	token, err := s.tokens.Generate(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthenticatedUser{User: user, Token: token}, nil
}

func (s *userService) Search(ctx context.Context, keyword, callerID string) ([]model.User, error) {
	return s.users.SearchUsers(ctx, keyword, callerID)
}
