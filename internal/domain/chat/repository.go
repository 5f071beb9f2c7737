package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles all DB operations for the chat domain
type Repository interface {
	GetOrCreateConversation(ctx context.Context, listingID, userA, userB int64) (*Conversation, error)
	GetConversationByID(ctx context.Context, id string) (*Conversation, error)
	ListConversationsByUser(ctx context.Context, userID int64) ([]*Conversation, error)

	CreateMessage(ctx context.Context, msg *Message) error
	GetMessages(ctx context.Context, conversationID string, limit, offset int) ([]*Message, error)
	MarkConversationRead(ctx context.Context, conversationID string, readerID int64) error
	CountUnread(ctx context.Context, conversationID string, userID int64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateConversation(ctx context.Context, listingID, userA, userB int64) (*Conversation, error) {
	a, b := userA, userB
	if a > b {
		a, b = b, a
	}

	var conv Conversation
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND participant_a = ? AND participant_b = ?", listingID, a, b).
		First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = Conversation{
		ID:           uuid.New().String(),
		ListingID:    listingID,
		ParticipantA: a,
		ParticipantB: b,
		CreatedAt:    time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *repository) GetConversationByID(ctx context.Context, id string) (*Conversation, error) {
	var conv Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *repository) ListConversationsByUser(ctx context.Context, userID int64) ([]*Conversation, error) {
	var convs []*Conversation
	err := r.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&convs).Error
	return convs, err
}

// CreateMessage persists the message and bumps the conversation's
// last_message_at in one transaction, so thread ordering in list views can
// never run ahead of the durable message log.
func (r *repository) CreateMessage(ctx context.Context, msg *Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("last_message_at", msg.CreatedAt).Error
	})
}

func (r *repository) GetMessages(ctx context.Context, conversationID string, limit, offset int) ([]*Message, error) {
	var msgs []*Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&msgs).Error
	return msgs, err
}

func (r *repository) MarkConversationRead(ctx context.Context, conversationID string, readerID int64) error {
	return r.db.WithContext(ctx).
		Model(&Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = ?", conversationID, readerID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		}).Error
}

func (r *repository) CountUnread(ctx context.Context, conversationID string, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = ?", conversationID, userID, false).
		Count(&count).Error
	return count, err
}
