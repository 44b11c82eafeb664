package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Dhrutik-Patel/CodeChat/internal/apperrors"
	"github.com/Dhrutik-Patel/CodeChat/internal/model"
	"github.com/Dhrutik-Patel/CodeChat/internal/repo"
)

const minGroupInvitees = 2

type ChatService interface {
	ListChats(ctx context.Context, userID string) ([]model.Conversation, error)
	AccessDirectChat(ctx context.Context, userID, otherUserID string) (*model.Conversation, error)
	CreateGroupChat(ctx context.Context, creatorID, name string, inviteeIDs []string) (*model.Conversation, error)
	RenameGroupChat(ctx context.Context, actorID, chatID, name string) (*model.Conversation, error)
	AddMembers(ctx context.Context, actorID, chatID string, userIDs []string) (*model.Conversation, error)
	RemoveMembers(ctx context.Context, actorID, chatID string, userIDs []string) (*model.Conversation, error)
}

type chatService struct {
	conversations repo.ConversationRepository
	users         repo.UserRepository
	logger        *zap.Logger
}

func NewChatService(conversations repo.ConversationRepository, users repo.UserRepository, logger *zap.Logger) ChatService {
	return &chatService{
		conversations: conversations,
		users:         users,
		logger:        logger,
	}
}

// ListChats returns every conversation the user belongs to, most recently
// active first.
func (s *chatService) ListChats(ctx context.Context, userID string) ([]model.Conversation, error) {
	return s.conversations.ListForUser(ctx, userID)
}

// AccessDirectChat finds the one-on-one conversation between the two users,
// creating it when none exists. A direct chat between the same pair is never
// duplicated.
func (s *chatService) AccessDirectChat(ctx context.Context, userID, otherUserID string) (*model.Conversation, error) {
	if otherUserID == "" {
		return nil, fmt.Errorf("%w: userId is required", apperrors.ErrInvalidArgument)
	}
	if otherUserID == userID {
		return nil, fmt.Errorf("%w: cannot start a chat with yourself", apperrors.ErrInvalidArgument)
	}

	other, err := s.users.GetUser(ctx, otherUserID)
	if err != nil {
		return nil, err
	}

	existing, err := s.conversations.FindDirectConversation(ctx, userID, otherUserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	return s.conversations.CreateConversation(ctx, &model.Conversation{
		Name:      other.Name,
		IsGroup:   false,
		MemberIDs: []string{userID, otherUserID},
	})
}

// CreateGroupChat creates a group with the creator as admin. The creator
// plus at least two invitees are required, so every group starts with three
// or more members.
func (s *chatService) CreateGroupChat(ctx context.Context, creatorID, name string, inviteeIDs []string) (*model.Conversation, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", apperrors.ErrInvalidArgument)
	}

	invitees := lo.Uniq(lo.Without(inviteeIDs, creatorID, ""))
	if len(invitees) < minGroupInvitees {
		return nil, fmt.Errorf("%w: at least %d other users are required for a group chat",
			apperrors.ErrInvalidArgument, minGroupInvitees)
	}

	conversation, err := s.conversations.CreateConversation(ctx, &model.Conversation{
		Name:      name,
		IsGroup:   true,
		MemberIDs: append([]string{creatorID}, invitees...),
		AdminID:   creatorID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group chat created",
		zap.String("chat_id", conversation.ID.Hex()),
		zap.String("admin_id", creatorID),
		zap.Int("members", len(conversation.MemberIDs)),
	)
	return conversation, nil
}

func (s *chatService) RenameGroupChat(ctx context.Context, actorID, chatID, name string) (*model.Conversation, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", apperrors.ErrInvalidArgument)
	}

	if _, err := s.requireGroupAdmin(ctx, actorID, chatID); err != nil {
		return nil, err
	}

	if err := s.conversations.Rename(ctx, chatID, name); err != nil {
		return nil, err
	}

	return s.conversations.GetConversation(ctx, chatID)
}

func (s *chatService) AddMembers(ctx context.Context, actorID, chatID string, userIDs []string) (*model.Conversation, error) {
	conversation, err := s.requireGroupAdmin(ctx, actorID, chatID)
	if err != nil {
		return nil, err
	}

	toAdd := lo.Uniq(lo.Filter(userIDs, func(id string, _ int) bool {
		return id != "" && !conversation.HasMember(id)
	}))
	if len(toAdd) == 0 {
		return nil, fmt.Errorf("%w: no new members to add", apperrors.ErrInvalidArgument)
	}

	if err := s.conversations.AddMembers(ctx, chatID, toAdd); err != nil {
		return nil, err
	}

	return s.conversations.GetConversation(ctx, chatID)
}

func (s *chatService) RemoveMembers(ctx context.Context, actorID, chatID string, userIDs []string) (*model.Conversation, error) {
	conversation, err := s.requireGroupAdmin(ctx, actorID, chatID)
	if err != nil {
		return nil, err
	}

	toRemove := lo.Filter(userIDs, func(id string, _ int) bool {
		return conversation.HasMember(id)
	})
	if len(toRemove) == 0 {
		return nil, fmt.Errorf("%w: none of the users are members", apperrors.ErrInvalidArgument)
	}
	if lo.Contains(toRemove, conversation.AdminID) {
		return nil, fmt.Errorf("%w: the group admin cannot be removed", apperrors.ErrInvalidArgument)
	}

	if err := s.conversations.RemoveMembers(ctx, chatID, toRemove); err != nil {
		return nil, err
	}

	return s.conversations.GetConversation(ctx, chatID)
}

func (s *chatService) requireGroupAdmin(ctx context.Context, actorID, chatID string) (*model.Conversation, error) {
	conversation, err := s.conversations.GetConversation(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !conversation.IsGroup {
		return nil, fmt.Errorf("%w: not a group chat", apperrors.ErrInvalidArgument)
	}
	if conversation.AdminID != actorID {
		s.logger.Warn("group admin action refused",
			zap.String("actor_id", actorID),
			zap.String("chat_id", chatID),
		)
		return nil, fmt.Errorf("%w: only the group admin may do this", apperrors.ErrForbidden)
	}

	return conversation, nil
}
