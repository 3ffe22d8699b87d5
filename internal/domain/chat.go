package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage is one message in a group chat. Messages are persisted for
// history and additionally published to a realtime channel on send.
type ChatMessage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID    string             `bson:"groupId" json:"groupId"`
	SenderID   primitive.ObjectID `bson:"senderId" json:"senderId"`
	SenderName string             `bson:"senderName" json:"senderName"` // denormalized for display
	Body       string             `bson:"body" json:"body"`
	SentAt     time.Time          `bson:"sentAt" json:"sentAt"`
}
