package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message represents a chat message in MongoDB. Messages are immutable once
// persisted; only the ingest pipeline creates them.
type Message struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConversationID primitive.ObjectID `json:"conversationId" bson:"conversation_id"`
	SenderID       string             `json:"senderId" bson:"sender_id"`
	Content        string             `json:"content" bson:"content"`
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
}

// OutboundMessage is a persisted message enriched with sender display data,
// the shape broadcast to room members and returned from the send endpoint.
type OutboundMessage struct {
	Message
	Sender SenderDisplay `json:"sender"`
}

// ErrorPayload represents an error response sent to a client via WebSocket
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
