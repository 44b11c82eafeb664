package hub

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Dhrutik-Patel/CodeChat/internal/apperrors"
	"github.com/Dhrutik-Patel/CodeChat/internal/event"
	"github.com/Dhrutik-Patel/CodeChat/internal/model"
)

// fakeConversations is an in-memory stand-in for the persisted conversation
// store, keyed by hex id.
type fakeConversations struct {
	mu   sync.Mutex
	byID map[string]*model.Conversation
}

func newFakeConversations(conversations ...*model.Conversation) *fakeConversations {
	f := &fakeConversations{byID: make(map[string]*model.Conversation)}
	for _, c := range conversations {
		f.byID[c.ID.Hex()] = c
	}
	return f
}

func (f *fakeConversations) GetConversation(ctx context.Context, id string) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: conversation %s", apperrors.ErrNotFound, id)
	}
	return c, nil
}

func (f *fakeConversations) GetMemberIDs(ctx context.Context, id string) ([]string, error) {
	c, err := f.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.MemberIDs, nil
}

func (f *fakeConversations) FindDirectConversation(ctx context.Context, userA, userB string) (*model.Conversation, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeConversations) CreateConversation(ctx context.Context, c *model.Conversation) (*model.Conversation, error) {
	return c, nil
}

func (f *fakeConversations) ListForUser(ctx context.Context, userID string) ([]model.Conversation, error) {
	return nil, nil
}

func (f *fakeConversations) UpdateLatestMessage(ctx context.Context, id string, messageID primitive.ObjectID) error {
	return nil
}

func (f *fakeConversations) Rename(ctx context.Context, id, name string) error {
	return nil
}

func (f *fakeConversations) AddMembers(ctx context.Context, id string, userIDs []string) error {
	return nil
}

func (f *fakeConversations) RemoveMembers(ctx context.Context, id string, userIDs []string) error {
	return nil
}

func newTestHub(t *testing.T, conversations *fakeConversations) *Hub {
	t.Helper()

	h := NewHub(conversations, zap.NewNop(), nil)
	t.Cleanup(h.Stop)
	return h
}

// newTestClient builds a client without a live websocket and registers it
// directly; its egress buffer is inspected instead of a write pump.
func newTestClient(h *Hub, userID string) *Client {
	c := newClient(userID, nil, h)
	h.registry.Add(c)
	return c
}

// drainEgress returns every event currently buffered for the client.
func drainEgress(c *Client) []event.WsEvent {
	var out []event.WsEvent
	for {
		select {
		case ev := <-c.egress:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func newRoom(members ...string) *model.Conversation {
	return &model.Conversation{
		ID:        primitive.NewObjectID(),
		IsGroup:   len(members) > 2,
		MemberIDs: members,
	}
}
