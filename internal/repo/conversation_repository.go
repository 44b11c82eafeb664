package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Dhrutik-Patel/CodeChat/internal/apperrors"
	"github.com/Dhrutik-Patel/CodeChat/internal/db"
	"github.com/Dhrutik-Patel/CodeChat/internal/model"
)

type conversationRepository struct {
	mongoRepo *db.Repository[model.Conversation]
	logger    *zap.Logger
}

type ConversationRepository interface {
	GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
	GetMemberIDs(ctx context.Context, conversationID string) ([]string, error)
	FindDirectConversation(ctx context.Context, userA, userB string) (*model.Conversation, error)
	CreateConversation(ctx context.Context, conversation *model.Conversation) (*model.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]model.Conversation, error)
	UpdateLatestMessage(ctx context.Context, conversationID string, messageID primitive.ObjectID) error
	Rename(ctx context.Context, conversationID, name string) error
	AddMembers(ctx context.Context, conversationID string, userIDs []string) error
	RemoveMembers(ctx context.Context, conversationID string, userIDs []string) error
}

func NewConversationRepository(repo *db.Repository[model.Conversation], logger *zap.Logger) ConversationRepository {
	return &conversationRepository{
		mongoRepo: repo,
		logger:    logger,
	}
}

// GetConversation fetches a conversation document by ID.
func (r *conversationRepository) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	if conversationID == "" {
		return nil, ErrInvalidConversationID
	}

	ctx, cancel := r.ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	if _, err := primitive.ObjectIDFromHex(conversationID); err != nil {
		r.logger.Debug("invalid conversation ID format",
			zap.String("conversation_id", conversationID),
		)
		return nil, fmt.Errorf("%w: conversation %s", apperrors.ErrNotFound, conversationID)
	}

	conversation, err := r.mongoRepo.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug("conversation not found",
				zap.String("conversation_id", conversationID),
			)
			return nil, fmt.Errorf("%w: conversation %s", apperrors.ErrNotFound, conversationID)
		}
		r.logger.Error("failed to fetch conversation",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: fetch conversation: %v", apperrors.ErrStorage, err)
	}

	return conversation, nil
}

// GetMemberIDs resolves the persisted member set of a conversation. This is
// the authoritative source for fan-out targeting.
func (r *conversationRepository) GetMemberIDs(ctx context.Context, conversationID string) ([]string, error) {
	conversation, err := r.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return conversation.MemberIDs, nil
}

// FindDirectConversation finds the non-group conversation containing both
// users, or ErrNotFound when none exists.
func (r *conversationRepository) FindDirectConversation(ctx context.Context, userA, userB string) (*model.Conversation, error) {
	ctx, cancel := r.ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().
		Eq("is_group", false).
		All("member_ids", []string{userA, userB}).
		Build()

	conversation, err := r.mongoRepo.FindOne(ctx, filter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: direct conversation", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: find direct conversation: %v", apperrors.ErrStorage, err)
	}

	return conversation, nil
}

func (r *conversationRepository) CreateConversation(ctx context.Context, conversation *model.Conversation) (*model.Conversation, error) {
	ctx, cancel := r.ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now

	result, err := r.mongoRepo.Create(ctx, *conversation)
	if err != nil {
		r.logger.Error("failed to create conversation", zap.Error(err))
		return nil, fmt.Errorf("%w: create conversation: %v", apperrors.ErrStorage, err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		conversation.ID = oid
	}

	r.logger.Info("conversation created",
		zap.String("conversation_id", conversation.ID.Hex()),
		zap.Bool("is_group", conversation.IsGroup),
		zap.Int("members", len(conversation.MemberIDs)),
	)

	return conversation, nil
}

// ListForUser returns every conversation the user belongs to, most recently
// updated first.
func (r *conversationRepository) ListForUser(ctx context.Context, userID string) ([]model.Conversation, error) {
	ctx, cancel := r.ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().Eq("member_ids", userID).Build()
	opts := options.Find().SetSort(bson.M{"updated_at": -1})

	conversations, err := r.mongoRepo.FindAll(ctx, filter, opts)
	if err != nil {
		r.logger.Error("failed to list conversations", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: list conversations: %v", apperrors.ErrStorage, err)
	}

	return conversations, nil
}

// UpdateLatestMessage moves the denormalized latest-message pointer. Callers
// treat failure as best-effort; the message itself is already durable.
func (r *conversationRepository) UpdateLatestMessage(ctx context.Context, conversationID string, messageID primitive.ObjectID) error {
	ctx, cancel := r.ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	_, err := r.mongoRepo.UpdateByID(ctx, conversationID, bson.M{
		"latest_message_id": messageID,
		"updated_at":        time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("update latest message: %w", err)
	}
	return nil
}

func (r *conversationRepository) Rename(ctx context.Context, conversationID, name string) error {
	ctx, cancel := r.ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	_, err := r.mongoRepo.UpdateByID(ctx, conversationID, bson.M{
		"name":       name,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: rename conversation: %v", apperrors.ErrStorage, err)
	}
	return nil
}

func (r *conversationRepository) AddMembers(ctx context.Context, conversationID string, userIDs []string) error {
	return r.updateMembers(ctx, conversationID, bson.M{
		"$addToSet": bson.M{"member_ids": bson.M{"$each": userIDs}},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *conversationRepository) RemoveMembers(ctx context.Context, conversationID string, userIDs []string) error {
	return r.updateMembers(ctx, conversationID, bson.M{
		"$pull": bson.M{"member_ids": bson.M{"$in": userIDs}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *conversationRepository) updateMembers(ctx context.Context, conversationID string, update bson.M) error {
	ctx, cancel := r.ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return fmt.Errorf("%w: conversation %s", apperrors.ErrNotFound, conversationID)
	}

	// Raw UpdateOne: membership updates need $addToSet/$pull, not the
	// generic repository's $set wrapper.
	result, err := r.mongoRepo.Collection().UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("%w: update members: %v", apperrors.ErrStorage, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: conversation %s", apperrors.ErrNotFound, conversationID)
	}
	return nil
}

func (r *conversationRepository) ensureTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hadDeadline := ctx.Deadline(); hadDeadline {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
