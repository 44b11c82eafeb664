package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/Dhrutik-Patel/CodeChat/internal/apperrors"
	"github.com/Dhrutik-Patel/CodeChat/internal/db"
	"github.com/Dhrutik-Patel/CodeChat/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	SearchUsers(ctx context.Context, keyword, excludeUserID string) ([]model.User, error)
}

type userRepository struct {
	mongoRepo *db.Repository[model.User]
	logger    *zap.Logger
}

func NewUserRepository(repo *db.Repository[model.User], logger *zap.Logger) UserRepository {
	return &userRepository{
		mongoRepo: repo,
		logger:    logger,
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	exists, err := r.mongoRepo.Exists(ctx, db.NewFilter().Eq("email", user.Email).Build())
	if err != nil {
		return nil, fmt.Errorf("%w: check email: %v", apperrors.ErrStorage, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: user with email %s", apperrors.ErrConflict, user.Email)
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.mongoRepo.Create(ctx, *user)
	if err != nil {
		r.logger.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("%w: create user: %v", apperrors.ErrStorage, err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}

	r.logger.Info("user created", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

func (r *userRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultReadTimeout)
	defer cancel()

	user, err := r.mongoRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: fetch user: %v", apperrors.ErrStorage, err)
	}

	return user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultReadTimeout)
	defer cancel()

	user, err := r.mongoRepo.FindOne(ctx, db.NewFilter().Eq("email", email).Build())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, email)
		}
		return nil, fmt.Errorf("%w: fetch user: %v", apperrors.ErrStorage, err)
	}

	return user, nil
}

// SearchUsers matches name or email case-insensitively, excluding the caller.
// An empty keyword returns everyone but the caller.
func (r *userRepository) SearchUsers(ctx context.Context, keyword, excludeUserID string) ([]model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultReadTimeout)
	defer cancel()

	builder := db.NewFilter()
	if keyword != "" {
		builder.Or(
			db.NewFilter().Contains("name", keyword).Build(),
			db.NewFilter().Contains("email", keyword).Build(),
		)
	}
	if excludeID, err := primitive.ObjectIDFromHex(excludeUserID); err == nil {
		builder.Ne("_id", excludeID)
	}

	users, err := r.mongoRepo.FindAll(ctx, builder.Build())
	if err != nil {
		r.logger.Error("failed to search users", zap.String("keyword", keyword), zap.Error(err))
		return nil, fmt.Errorf("%w: search users: %v", apperrors.ErrStorage, err)
	}

	return users, nil
}
