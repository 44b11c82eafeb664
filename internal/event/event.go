package event

import "encoding/json"

// Client to Server
const (
	// EventJoinRoom - mark the connection as actively viewing a room.
	// Scopes typing/presence only; message fan-out always targets persisted membership.
	EventJoinRoom = "join-room"

	// EventLeaveRoom - undo a join; idempotent
	EventLeaveRoom = "leave-room"

	// EventTyping - user started typing in a joined room
	EventTyping = "typing"

	// EventStopTyping - user stopped typing in a joined room
	EventStopTyping = "stop-typing"

	// EventNewMessage - send a message through the ingest pipeline
	EventNewMessage = "new-message"
)

// Server to Client
const (
	// EventConnected - handshake ack; payload carries the assigned client id
	EventConnected = "presence-connected"

	// EventMessageReceived - a persisted message fanned out to room members
	EventMessageReceived = "message-received"

	// EventTypingStarted - another member started typing
	EventTypingStarted = "typing-started"

	// EventTypingStopped - another member stopped typing (explicitly or by disconnect)
	EventTypingStopped = "typing-stopped"

	// EventError - request-scoped error pushed back to the offending client
	EventError = "error"
)

// WsEvent is the wire envelope for every websocket frame, both directions.
type WsEvent struct {
	Event   string          `json:"event"`
	RoomID  string          `json:"roomId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ConnectedPayload acknowledges registration. Clients echo ClientID in the
// X-Connection-Id header of HTTP sends so their own device is excluded
// from the fan-out of messages they authored.
type ConnectedPayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

// TypingPayload identifies who is typing where.
type TypingPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

// NewMessagePayload is the inbound body of EventNewMessage.
type NewMessagePayload struct {
	RoomID  string `json:"roomId"`
	Content string `json:"content"`
}
