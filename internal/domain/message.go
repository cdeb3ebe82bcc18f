package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one entry in a two-party conversation. Messages are immutable
// after creation; there is no edit or delete path. Participants always holds
// exactly the two conversation endpoints, while UserID/PeerID preserve
// direction (author → counterpart).
type Message struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Text         string               `bson:"text" json:"text"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UserID       primitive.ObjectID   `bson:"userId" json:"userId"`
	UserEmail    string               `bson:"userEmail" json:"userEmail"`
	PeerID       primitive.ObjectID   `bson:"peerId" json:"peerId"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
}

// Between reports whether the message belongs to the conversation between
// viewer and counterpart, in either direction.
func (m *Message) Between(viewer, counterpart primitive.ObjectID) bool {
	return (m.UserID == viewer && m.PeerID == counterpart) ||
		(m.UserID == counterpart && m.PeerID == viewer)
}
