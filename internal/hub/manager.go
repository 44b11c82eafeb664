package hub

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Dhrutik-Patel/CodeChat/internal/event"
	"github.com/Dhrutik-Patel/CodeChat/internal/model"
	"github.com/Dhrutik-Patel/CodeChat/internal/repo"
)

type inboundMessage struct {
	event  event.WsEvent
	client *Client
}

// MessageSender is the ingest pipeline seen from the hub: validate, persist,
// update the latest-message pointer and initiate fan-out. Implemented by the
// message service; injected after construction to keep the dependency
// direction service -> hub.
type MessageSender interface {
	Send(ctx context.Context, senderID, conversationID, content, originConnID string) (*model.OutboundMessage, error)
}

// Hub owns all live connections: the per-user connection registry, the
// transport-level room join index and the typing state. Register/unregister
// flow through channels into the run loop; inbound client events are handled
// by a bounded worker pool.
type Hub struct {
	registry *Registry
	rooms    *roomIndex
	typing   *typingState

	conversations repo.ConversationRepository
	sender        MessageSender
	logger        *zap.Logger

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundMessage

	deliveryFailures atomic.Uint64

	allowedOrigins map[string]struct{}

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(conversations repo.ConversationRepository, logger *zap.Logger, allowedOrigins []string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		registry:      NewRegistry(),
		rooms:         newRoomIndex(),
		typing:        newTypingState(),
		conversations: conversations,
		logger:        logger,
		register:      make(chan *Client, 1024),
		unregister:    make(chan *Client, 1024),
		inbound:       make(chan inboundMessage, 4096), // buffer for burst handling
		ctx:           ctx,
		cancel:        cancel,
	}

	h.allowedOrigins = make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		h.allowedOrigins[origin] = struct{}{}
	}

	// run manager loop
	go h.run()

	// start worker loop
	for i := 0; i < workerPoolSize; i++ {
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			for {
				select {
				case <-h.ctx.Done():
					return
				case in := <-h.inbound:
					h.handleEvent(in.event, in.client)
				}
			}
		}()
	}

	return h
}

// SetMessageSender wires the ingest pipeline. Must be called before ServeWS.
func (h *Hub) SetMessageSender(sender MessageSender) {
	h.sender = sender
}

// Registry exposes the connection registry.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// DeliveryFailures reports fan-out writes dropped since start.
func (h *Hub) DeliveryFailures() uint64 {
	return h.deliveryFailures.Load()
}

func (h *Hub) run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		}
	}
}

func (h *Hub) addClient(c *Client) {
	h.registry.Add(c)

	// Handshake ack; the client echoes ClientID on HTTP sends so its own
	// device is excluded from the fan-out of messages it authors.
	payload, _ := json.Marshal(event.ConnectedPayload{
		ClientID: c.ID,
		UserID:   c.userID,
	})
	c.SafeSend(event.WsEvent{Event: event.EventConnected, Payload: payload}, sendTimeout)

	h.logger.Info("client connected",
		zap.String("client_id", c.ID),
		zap.String("user_id", c.userID),
	)
}

// removeClient makes the disconnect visible to the router before any
// subsequent broadcast resolves connections, then clears the session's room
// joins and any typing state it held.
func (h *Hub) removeClient(c *Client) {
	h.registry.Remove(c)

	for _, roomID := range c.JoinedRooms() {
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

	c.Close()
	h.logger.Info("client disconnected",
		zap.String("client_id", c.ID),
		zap.String("user_id", c.userID),
	)
}

func (h *Hub) handleEvent(ev event.WsEvent, c *Client) {
	switch ev.Event {
	case event.EventJoinRoom:
		ctx, cancel := context.WithTimeout(h.ctx, 10*time.Second)
		defer cancel()

		if err := h.JoinRoom(ctx, c, ev.RoomID); err != nil {
			h.sendError(c, ev.Event, err)
		}

	case event.EventLeaveRoom:
		h.LeaveRoom(c, ev.RoomID)

	case event.EventTyping:
		h.SignalTyping(c, ev.RoomID, true)

	case event.EventStopTyping:
		h.SignalTyping(c, ev.RoomID, false)

	case event.EventNewMessage:
		var payload event.NewMessagePayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			h.logger.Debug("malformed new-message payload", zap.String("client_id", c.ID))
			return
		}
		if payload.RoomID == "" {
			payload.RoomID = ev.RoomID
		}

		ctx, cancel := context.WithTimeout(h.ctx, 15*time.Second)
		defer cancel()

		if _, err := h.sender.Send(ctx, c.userID, payload.RoomID, payload.Content, c.ID); err != nil {
			h.sendError(c, ev.Event, err)
		}

	default:
		h.logger.Debug("unknown event type",
			zap.String("event", ev.Event),
			zap.String("client_id", c.ID),
		)
	}
}

// SignalTyping broadcasts a typing delta from a joined connection to the
// other sessions viewing the room. Signals from connections that never
// joined the room are dropped.
func (h *Hub) SignalTyping(c *Client, roomID string, isTyping bool) {
	if roomID == "" || !c.HasJoined(roomID) {
		return
	}

	eventType := event.EventTypingStopped
	if isTyping {
		h.typing.start(roomID, c.userID, c.ID)
		eventType = event.EventTypingStarted
	} else {
		h.typing.stop(roomID, c.userID)
	}

	h.BroadcastToJoined(roomID, eventType, event.TypingPayload{
		RoomID:   roomID,
		UserID:   c.userID,
		IsTyping: isTyping,
	}, c.ID)
}

func (h *Hub) sendError(c *Client, cause string, err error) {
	payload, marshalErr := json.Marshal(model.ErrorPayload{
		Code:    cause,
		Message: err.Error(),
	})
	if marshalErr != nil {
		return
	}

	c.SafeSend(event.WsEvent{Event: event.EventError, Payload: payload}, sendTimeout)
}

func (h *Hub) Stop() {
	h.cancel()

	h.registry.ForEach(func(c *Client) {
		c.Close()
	})

	// inbound stays open; read pumps may still be blocked sending into it
	// and exit via their client ctx. Workers drain out on h.ctx.Done.
	h.wg.Wait()
}

// -----------------------------------------------------------------
// WebSocket upgrade
// -----------------------------------------------------------------

func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.allowedOrigins) == 0 {
		return true
	}

	_, ok := h.allowedOrigins[r.Header.Get("Origin")]
	return ok
}

// ServeWS upgrades the request and registers a client for the already
// authenticated user.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	RegisterClient(userID, conn, h)
}
