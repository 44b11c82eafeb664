package hub

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Dhrutik-Patel/CodeChat/internal/event"
)

// The event router fans one logical event out to every live connection of
// its target set. Delivery is best-effort per connection: a failed enqueue is
// counted and logged, never surfaced to the caller, and never blocks the
// remaining targets. Because each broadcast enqueues into per-connection FIFO
// buffers before returning, events reach every connection in the order the
// broadcast calls were issued.

// BroadcastToMembers delivers an event to every live connection of every
// persisted member of the room, skipping the connection whose id equals
// excludeClientID. Membership comes from the durable store, never from the
// transport-level join index, so members without an open room view still
// receive messages. Resolution failures drop the broadcast; the message is
// already durable and recipients recover via history on reconnect.
func (h *Hub) BroadcastToMembers(ctx context.Context, roomID, eventType string, payload any, excludeClientID string) {
	memberIDs, err := h.conversations.GetMemberIDs(ctx, roomID)
	if err != nil {
		h.logger.Error("broadcast aborted: cannot resolve members",
			zap.String("room_id", roomID),
			zap.String("event", eventType),
			zap.Error(err),
		)
		return
	}

	ev, err := h.envelope(roomID, eventType, payload)
	if err != nil {
		return
	}

	for _, userID := range memberIDs {
		// Absent users yield no connections; fan-out is a no-op, never a failure.
		for _, c := range h.registry.ConnectionsFor(userID) {
			h.deliver(c, ev, excludeClientID)
		}
	}
}

// BroadcastToJoined delivers an event to the connections currently joined to
// the room. Typing and presence deltas use this scope; they only matter to
// sessions actively viewing the room.
func (h *Hub) BroadcastToJoined(roomID, eventType string, payload any, excludeClientID string) {
	ev, err := h.envelope(roomID, eventType, payload)
	if err != nil {
		return
	}

	for _, c := range h.rooms.joined(roomID) {
		h.deliver(c, ev, excludeClientID)
	}
}

func (h *Hub) envelope(roomID, eventType string, payload any) (event.WsEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("broadcast payload marshal failed",
			zap.String("event", eventType),
			zap.Error(err),
		)
		return event.WsEvent{}, err
	}

	return event.WsEvent{
		Event:   eventType,
		RoomID:  roomID,
		Payload: raw,
	}, nil
}

func (h *Hub) deliver(c *Client, ev event.WsEvent, excludeClientID string) {
	if c.ID == excludeClientID {
		return
	}

	if c.SafeSend(ev, sendTimeout) {
		return
	}

	// Egress stayed full or the client closed mid-delivery. Count it, kick
	// the stalled session and move on; other recipients are unaffected.
	h.deliveryFailures.Add(1)
	h.logger.Warn("delivery failed, disconnecting client",
		zap.String("client_id", c.ID),
		zap.String("user_id", c.userID),
		zap.String("event", ev.Event),
	)

	select {
	case h.unregister <- c:
	default:
		// unregister queue full; the read pump's exit path will clean up
	}
}
