package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Dhrutik-Patel/CodeChat/internal/apperrors"
	"github.com/Dhrutik-Patel/CodeChat/internal/model"
)

func TestChatService_AccessDirectChat(t *testing.T) {
	alice := newUser("alice")
	bob := newUser("bob")

	t.Run("creates the chat when the pair has none", func(t *testing.T) {
		req := require.New(t)
		conversations := newFakeConversationStore()
		svc := NewChatService(conversations, newFakeUserStore(alice, bob), zap.NewNop())

		chat, err := svc.AccessDirectChat(context.Background(), alice.ID.Hex(), bob.ID.Hex())

		req.NoError(err)
		req.False(chat.IsGroup)
		req.Equal(bob.Name, chat.Name)
		req.ElementsMatch([]string{alice.ID.Hex(), bob.ID.Hex()}, chat.MemberIDs)
		req.Len(conversations.created, 1)
	})

	t.Run("returns the existing chat instead of duplicating it", func(t *testing.T) {
		req := require.New(t)
		conversations := newFakeConversationStore()
		svc := NewChatService(conversations, newFakeUserStore(alice, bob), zap.NewNop())

		first, err := svc.AccessDirectChat(context.Background(), alice.ID.Hex(), bob.ID.Hex())
		req.NoError(err)

		// Either side asking again lands on the same conversation.
		again, err := svc.AccessDirectChat(context.Background(), bob.ID.Hex(), alice.ID.Hex())
		req.NoError(err)
		req.Equal(first.ID, again.ID)
		req.Len(conversations.created, 1)
	})

	t.Run("rejects a chat with yourself", func(t *testing.T) {
		req := require.New(t)
		svc := NewChatService(newFakeConversationStore(), newFakeUserStore(alice), zap.NewNop())

		_, err := svc.AccessDirectChat(context.Background(), alice.ID.Hex(), alice.ID.Hex())
		req.ErrorIs(err, apperrors.ErrInvalidArgument)
	})

	t.Run("rejects an unknown counterpart", func(t *testing.T) {
		req := require.New(t)
		svc := NewChatService(newFakeConversationStore(), newFakeUserStore(alice), zap.NewNop())

		_, err := svc.AccessDirectChat(context.Background(), alice.ID.Hex(), primitive.NewObjectID().Hex())
		req.ErrorIs(err, apperrors.ErrNotFound)
	})
}

func TestChatService_CreateGroupChat(t *testing.T) {
	alice := newUser("alice")

	t.Run("creator becomes admin and a member", func(t *testing.T) {
		req := require.New(t)
		svc := NewChatService(newFakeConversationStore(), newFakeUserStore(alice), zap.NewNop())

		chat, err := svc.CreateGroupChat(context.Background(), alice.ID.Hex(), "backend", []string{"u-bob", "u-carol"})

		req.NoError(err)
		req.True(chat.IsGroup)
		req.Equal(alice.ID.Hex(), chat.AdminID)
		req.ElementsMatch([]string{alice.ID.Hex(), "u-bob", "u-carol"}, chat.MemberIDs)
	})

	t.Run("requires at least two other members", func(t *testing.T) {
		req := require.New(t)
		svc := NewChatService(newFakeConversationStore(), newFakeUserStore(alice), zap.NewNop())

		_, err := svc.CreateGroupChat(context.Background(), alice.ID.Hex(), "backend", []string{"u-bob"})
		req.ErrorIs(err, apperrors.ErrInvalidArgument)

		// Duplicates and the creator themselves do not count towards the minimum.
		_, err = svc.CreateGroupChat(context.Background(), alice.ID.Hex(), "backend",
			[]string{"u-bob", "u-bob", alice.ID.Hex(), ""})
		req.ErrorIs(err, apperrors.ErrInvalidArgument)
	})

	t.Run("requires a name", func(t *testing.T) {
		req := require.New(t)
		svc := NewChatService(newFakeConversationStore(), newFakeUserStore(alice), zap.NewNop())

		_, err := svc.CreateGroupChat(context.Background(), alice.ID.Hex(), "", []string{"u-bob", "u-carol"})
		req.ErrorIs(err, apperrors.ErrInvalidArgument)
	})
}

func TestChatService_GroupAdministration(t *testing.T) {
	admin := newUser("admin")
	member := newUser("member")

	group := func() (*fakeConversationStore, *model.Conversation) {
		chat := &model.Conversation{
			ID:        primitive.NewObjectID(),
			Name:      "backend",
			IsGroup:   true,
			AdminID:   admin.ID.Hex(),
			MemberIDs: []string{admin.ID.Hex(), member.ID.Hex(), "u-carol"},
		}
		return newFakeConversationStore(chat), chat
	}

	t.Run("admin renames the group", func(t *testing.T) {
		req := require.New(t)
		conversations, chat := group()
		svc := NewChatService(conversations, newFakeUserStore(admin, member), zap.NewNop())

		renamed, err := svc.RenameGroupChat(context.Background(), admin.ID.Hex(), chat.ID.Hex(), "platform")
		req.NoError(err)
		req.Equal("platform", renamed.Name)
	})

	t.Run("non-admin may not rename", func(t *testing.T) {
		req := require.New(t)
		conversations, chat := group()
		svc := NewChatService(conversations, newFakeUserStore(admin, member), zap.NewNop())

		_, err := svc.RenameGroupChat(context.Background(), member.ID.Hex(), chat.ID.Hex(), "platform")
		req.ErrorIs(err, apperrors.ErrForbidden)
		req.Equal("backend", chat.Name)
	})

	t.Run("rename rejects a direct chat", func(t *testing.T) {
		req := require.New(t)
		direct := &model.Conversation{
			ID:        primitive.NewObjectID(),
			IsGroup:   false,
			MemberIDs: []string{admin.ID.Hex(), member.ID.Hex()},
		}
		svc := NewChatService(newFakeConversationStore(direct), newFakeUserStore(admin, member), zap.NewNop())

		_, err := svc.RenameGroupChat(context.Background(), admin.ID.Hex(), direct.ID.Hex(), "platform")
		req.ErrorIs(err, apperrors.ErrInvalidArgument)
	})

	t.Run("admin adds new members, existing ones are skipped", func(t *testing.T) {
		req := require.New(t)
		conversations, chat := group()
		svc := NewChatService(conversations, newFakeUserStore(admin, member), zap.NewNop())

		updated, err := svc.AddMembers(context.Background(), admin.ID.Hex(), chat.ID.Hex(),
			[]string{"u-dave", member.ID.Hex()})
		req.NoError(err)
		req.ElementsMatch([]string{admin.ID.Hex(), member.ID.Hex(), "u-carol", "u-dave"}, updated.MemberIDs)
	})

	t.Run("adding only existing members is rejected", func(t *testing.T) {
		req := require.New(t)
		conversations, chat := group()
		svc := NewChatService(conversations, newFakeUserStore(admin, member), zap.NewNop())

		_, err := svc.AddMembers(context.Background(), admin.ID.Hex(), chat.ID.Hex(), []string{member.ID.Hex()})
		req.ErrorIs(err, apperrors.ErrInvalidArgument)
	})

	t.Run("admin removes a member", func(t *testing.T) {
		req := require.New(t)
		conversations, chat := group()
		svc := NewChatService(conversations, newFakeUserStore(admin, member), zap.NewNop())

		updated, err := svc.RemoveMembers(context.Background(), admin.ID.Hex(), chat.ID.Hex(), []string{"u-carol"})
		req.NoError(err)
		req.ElementsMatch([]string{admin.ID.Hex(), member.ID.Hex()}, updated.MemberIDs)
	})

	t.Run("the admin cannot be removed", func(t *testing.T) {
		req := require.New(t)
		conversations, chat := group()
		svc := NewChatService(conversations, newFakeUserStore(admin, member), zap.NewNop())

		_, err := svc.RemoveMembers(context.Background(), admin.ID.Hex(), chat.ID.Hex(), []string{admin.ID.Hex()})
		req.ErrorIs(err, apperrors.ErrInvalidArgument)
	})

	t.Run("non-admin may not remove members", func(t *testing.T) {
		req := require.New(t)
		conversations, chat := group()
		svc := NewChatService(conversations, newFakeUserStore(admin, member), zap.NewNop())

		_, err := svc.RemoveMembers(context.Background(), member.ID.Hex(), chat.ID.Hex(), []string{"u-carol"})
		req.ErrorIs(err, apperrors.ErrForbidden)
	})
}
