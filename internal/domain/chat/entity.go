package chat

import (
	"database/sql"
	"time"
)

// Conversation is the durable message thread between two users about one
// listing. ParticipantA/B are stored normalized (lower id first) so the
// uniqueness invariant — one conversation per (listing, unordered pair) —
// holds regardless of who opened it.
type Conversation struct {
	ID            string       `gorm:"column:id;primaryKey" json:"id"`
	ListingID     int64        `gorm:"column:listing_id;uniqueIndex:idx_conversations_listing_pair" json:"listing_id"`
	ParticipantA  int64        `gorm:"column:participant_a;uniqueIndex:idx_conversations_listing_pair" json:"participant_a"`
	ParticipantB  int64        `gorm:"column:participant_b;uniqueIndex:idx_conversations_listing_pair" json:"participant_b"`
	LastMessageAt sql.NullTime `gorm:"column:last_message_at" json:"last_message_at,omitempty"`
	CreatedAt     time.Time    `gorm:"column:created_at" json:"created_at"`
}

func (Conversation) TableName() string { return "conversations" }

// Other returns the counterpart of userID in this conversation.
func (c *Conversation) Other(userID int64) int64 {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}

func (c *Conversation) HasParticipant(userID int64) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// Message is immutable once created except for the read state. The
// autoincrement ID is the monotonic insertion id that breaks created_at ties
// and lets clients reorder/dedupe pushed messages.
type Message struct {
	ID             int64        `gorm:"column:id;primaryKey" json:"id"`
	ConversationID string       `gorm:"column:conversation_id;index" json:"conversation_id"`
	SenderID       int64        `gorm:"column:sender_id" json:"sender_id"`
	Text           string       `gorm:"column:text" json:"text"`
	IsRead         bool         `gorm:"column:is_read" json:"is_read"`
	ReadAt         sql.NullTime `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt      time.Time    `gorm:"column:created_at" json:"created_at"`
}

func (Message) TableName() string { return "messages" }
