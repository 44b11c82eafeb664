package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Dhrutik-Patel/CodeChat/internal/apperrors"
	"github.com/Dhrutik-Patel/CodeChat/internal/db"
	"github.com/Dhrutik-Patel/CodeChat/internal/event"
	"github.com/Dhrutik-Patel/CodeChat/internal/model"
	"github.com/Dhrutik-Patel/CodeChat/internal/repo"
)

// Broadcaster is the event router seen from the ingest pipeline. Satisfied
// by *hub.Hub.
type Broadcaster interface {
	BroadcastToMembers(ctx context.Context, roomID, eventType string, payload any, excludeClientID string)
}

type MessageService interface {
	Send(ctx context.Context, senderID, conversationID, content, originConnID string) (*model.OutboundMessage, error)
	History(ctx context.Context, userID, conversationID string, page int64) (*db.PaginatedResult[model.Message], error)
}

type messageService struct {
	messages      repo.MessageRepository
	conversations repo.ConversationRepository
	users         repo.UserRepository
	router        Broadcaster
	logger        *zap.Logger
}

func NewMessageService(
	messages repo.MessageRepository,
	conversations repo.ConversationRepository,
	users repo.UserRepository,
	router Broadcaster,
	logger *zap.Logger,
) MessageService {
	return &messageService{
		messages:      messages,
		conversations: conversations,
		users:         users,
		router:        router,
		logger:        logger,
	}
}

// Send is the message ingest pipeline: validate, check membership, persist,
// move the latest-message pointer, then fan out. Persistence is the
// durability boundary; once it succeeds the message is the source of truth
// even if every live delivery fails. originConnID names the exact websocket
// session that authored the message so it alone is excluded from fan-out;
// the sender's other devices still receive the event.
func (s *messageService) Send(ctx context.Context, senderID, conversationID, content, originConnID string) (*model.OutboundMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" || conversationID == "" {
		return nil, fmt.Errorf("%w: content and conversationId are required", apperrors.ErrInvalidArgument)
	}

	// Membership is checked before persistence so a non-member can never
	// leave a message behind.
	conversation, err := s.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasMember(senderID) {
		s.logger.Warn("send refused: sender not a member",
			zap.String("sender_id", senderID),
			zap.String("conversation_id", conversationID),
		)
		return nil, fmt.Errorf("%w: sender is not a member of the conversation", apperrors.ErrForbidden)
	}

	msg := &model.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}

	persisted, err := s.messages.InsertMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	// Best-effort: the pointer is a denormalized listing convenience, not
	// authoritative. The message is already sent.
	if err := s.conversations.UpdateLatestMessage(ctx, conversationID, persisted.ID); err != nil {
		s.logger.Warn("latest-message pointer update failed",
			zap.String("conversation_id", conversationID),
			zap.String("message_id", persisted.ID.Hex()),
			zap.Error(err),
		)
	}

	outbound := &model.OutboundMessage{Message: *persisted}
	if sender, err := s.users.GetUser(ctx, senderID); err == nil {
		outbound.Sender = sender.Display()
	} else {
		outbound.Sender = model.SenderDisplay{UserID: senderID}
		s.logger.Warn("sender display resolution failed",
			zap.String("sender_id", senderID),
			zap.Error(err),
		)
	}

	s.router.BroadcastToMembers(ctx, conversationID, event.EventMessageReceived, outbound, originConnID)

	return outbound, nil
}

// History returns one page of a conversation the caller belongs to.
func (s *messageService) History(ctx context.Context, userID, conversationID string, page int64) (*db.PaginatedResult[model.Message], error) {
	conversation, err := s.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasMember(userID) {
		return nil, fmt.Errorf("%w: not a member of the conversation", apperrors.ErrForbidden)
	}

	return s.messages.ListMessages(ctx, conversationID, page)
}
