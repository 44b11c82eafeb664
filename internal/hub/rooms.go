package hub

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Dhrutik-Patel/CodeChat/internal/apperrors"
	"github.com/Dhrutik-Patel/CodeChat/internal/event"
)

// roomBucket holds one shard of the room -> joined connections index.
type roomBucket struct {
	sync.RWMutex
	rooms map[string]map[string]*Client // roomID -> clientID -> client
}

// roomIndex tracks which connections have joined which rooms at the
// transport level. Joining scopes typing/presence delivery only; message
// fan-out always targets persisted conversation membership, so a member who
// never joined still receives new-message events.
type roomIndex struct {
	shards [shardCount]*roomBucket
}

func newRoomIndex() *roomIndex {
	idx := &roomIndex{}
	for i := 0; i < shardCount; i++ {
		idx.shards[i] = &roomBucket{
			rooms: make(map[string]map[string]*Client),
		}
	}
	return idx
}

func (idx *roomIndex) add(roomID string, c *Client) {
	b := idx.shards[getShard(roomID)]
	b.Lock()
	defer b.Unlock()

	room, ok := b.rooms[roomID]
	if !ok {
		room = make(map[string]*Client)
		b.rooms[roomID] = room
	}
	room[c.ID] = c
}

func (idx *roomIndex) remove(roomID string, c *Client) {
	b := idx.shards[getShard(roomID)]
	b.Lock()
	defer b.Unlock()

	if room, ok := b.rooms[roomID]; ok {
		delete(room, c.ID)
		if len(room) == 0 {
			delete(b.rooms, roomID)
		}
	}
}

// joined returns a snapshot of the connections currently joined to roomID.
func (idx *roomIndex) joined(roomID string) []*Client {
	b := idx.shards[getShard(roomID)]
	b.RLock()
	defer b.RUnlock()

	room, ok := b.rooms[roomID]
	if !ok {
		return nil
	}

	out := make([]*Client, 0, len(room))
	for _, c := range room {
		out = append(out, c)
	}
	return out
}

// userJoined reports whether userID has any other joined connection in the
// room besides exceptClientID.
func (idx *roomIndex) userJoined(roomID, userID, exceptClientID string) bool {
	b := idx.shards[getShard(roomID)]
	b.RLock()
	defer b.RUnlock()

	for id, c := range b.rooms[roomID] {
		if id != exceptClientID && c.userID == userID {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------
// Hub join/leave operations
// -----------------------------------------------------------------

// JoinRoom validates persisted membership and records the transport-level
// join. Idempotent; a repeat join is a no-op.
func (h *Hub) JoinRoom(ctx context.Context, c *Client, roomID string) error {
	conversation, err := h.conversations.GetConversation(ctx, roomID)
	if err != nil {
		return err
	}

	if !conversation.HasMember(c.userID) {
		h.logger.Warn("join refused: not a member",
			zap.String("user_id", c.userID),
			zap.String("room_id", roomID),
		)
		return apperrors.ErrForbidden
	}

	c.joinRoom(roomID)
	h.rooms.add(roomID, c)

	h.logger.Debug("client joined room",
		zap.String("client_id", c.ID),
		zap.String("room_id", roomID),
	)
	return nil
}

// LeaveRoom drops the transport-level join. Idempotent. Typing state held by
// this connection is cleared, with an implicit typing-stopped broadcast when
// the user has no other joined connection left in the room.
func (h *Hub) LeaveRoom(c *Client, roomID string) {
	c.leaveRoom(roomID)
	h.rooms.remove(roomID, c)

	stillJoined := h.rooms.userJoined(roomID, c.userID, c.ID)
	if h.typing.clientLeftCheck(c, roomID, stillJoined) {
		h.BroadcastToJoined(roomID, event.EventTypingStopped, event.TypingPayload{
			RoomID:   roomID,
			UserID:   c.userID,
			IsTyping: false,
		}, c.ID)
	}
}
