package hub

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dhrutik-Patel/CodeChat/internal/event"
	"github.com/Dhrutik-Patel/CodeChat/internal/model"
)

func TestBroadcastToMembers(t *testing.T) {
	t.Run("reaches every member connection except the originating one", func(t *testing.T) {
		req := require.New(t)
		room := newRoom("alice", "bob")
		h := newTestHub(t, newFakeConversations(room))

		a1 := newTestClient(h, "alice")
		a2 := newTestClient(h, "alice")
		b1 := newTestClient(h, "bob")

		h.BroadcastToMembers(context.Background(), room.ID.Hex(),
			event.EventMessageReceived, model.OutboundMessage{}, a1.ID)

		req.Empty(drainEgress(a1), "originating connection must not receive its own message")
		req.Len(drainEgress(a2), 1, "sender's other device receives the message")
		req.Len(drainEgress(b1), 1)
	})

	t.Run("member without joined rooms still receives messages", func(t *testing.T) {
		req := require.New(t)
		room := newRoom("alice", "bob")
		h := newTestHub(t, newFakeConversations(room))

		b1 := newTestClient(h, "bob")
		// bob never joined the room at the transport level

		h.BroadcastToMembers(context.Background(), room.ID.Hex(),
			event.EventMessageReceived, model.OutboundMessage{}, "")

		evs := drainEgress(b1)
		req.Len(evs, 1)
		req.Equal(event.EventMessageReceived, evs[0].Event)
		req.Equal(room.ID.Hex(), evs[0].RoomID)
	})

	t.Run("offline members cause no delivery attempt and no failure", func(t *testing.T) {
		req := require.New(t)
		room := newRoom("alice", "ghost")
		h := newTestHub(t, newFakeConversations(room))

		a1 := newTestClient(h, "alice")

		h.BroadcastToMembers(context.Background(), room.ID.Hex(),
			event.EventMessageReceived, model.OutboundMessage{}, "")

		req.Len(drainEgress(a1), 1)
		req.Zero(h.DeliveryFailures())
	})

	t.Run("unknown room drops the broadcast silently", func(t *testing.T) {
		req := require.New(t)
		h := newTestHub(t, newFakeConversations())

		a1 := newTestClient(h, "alice")
		h.BroadcastToMembers(context.Background(), "missing",
			event.EventMessageReceived, model.OutboundMessage{}, "")

		req.Empty(drainEgress(a1))
	})

	t.Run("unregistered connection no longer receives broadcasts", func(t *testing.T) {
		req := require.New(t)
		room := newRoom("alice", "bob")
		h := newTestHub(t, newFakeConversations(room))

		a1 := newTestClient(h, "alice")
		b1 := newTestClient(h, "bob")

		h.registry.Remove(b1)

		h.BroadcastToMembers(context.Background(), room.ID.Hex(),
			event.EventMessageReceived, model.OutboundMessage{}, "")

		req.Len(drainEgress(a1), 1)
		req.Empty(drainEgress(b1))
	})

	t.Run("a closed connection fails delivery without affecting others", func(t *testing.T) {
		req := require.New(t)
		room := newRoom("alice", "bob")
		h := newTestHub(t, newFakeConversations(room))

		a1 := newTestClient(h, "alice")
		b1 := newTestClient(h, "bob")
		b1.Close()

		h.BroadcastToMembers(context.Background(), room.ID.Hex(),
			event.EventMessageReceived, model.OutboundMessage{}, "")

		req.Len(drainEgress(a1), 1)
		req.Equal(uint64(1), h.DeliveryFailures())
	})
}

func TestBroadcastOrdering(t *testing.T) {
	req := require.New(t)
	room := newRoom("alice", "bob")
	h := newTestHub(t, newFakeConversations(room))

	b1 := newTestClient(h, "bob")

	for i := 0; i < 5; i++ {
		h.BroadcastToMembers(context.Background(), room.ID.Hex(),
			event.EventMessageReceived, map[string]int{"seq": i}, "")
	}

	evs := drainEgress(b1)
	req.Len(evs, 5)
	for i, ev := range evs {
		var payload map[string]int
		req.NoError(json.Unmarshal(ev.Payload, &payload))
		req.Equal(i, payload["seq"], "events must arrive in submission order")
	}
}
