package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation represents a chat room in MongoDB. A non-group conversation
// always has exactly two distinct members; a group conversation has an admin
// and at least three members.
type Conversation struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name            string              `json:"name" bson:"name"`
	IsGroup         bool                `json:"isGroup" bson:"is_group"`
	MemberIDs       []string            `json:"memberIds" bson:"member_ids"`
	AdminID         string              `json:"adminId,omitempty" bson:"admin_id,omitempty"`
	LatestMessageID *primitive.ObjectID `json:"latestMessageId" bson:"latest_message_id"`
	CreatedAt       time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updated_at"`
}

// HasMember reports whether userID is a persisted member of the conversation.
func (c *Conversation) HasMember(userID string) bool {
	for _, id := range c.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
