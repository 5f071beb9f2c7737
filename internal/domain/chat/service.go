package chat

import (
	"context"
	"log"
	"strings"
	"time"

	"renthome/internal/domain/auth"
)

// Notifier is implemented by the notification dispatcher.
type Notifier interface {
	NotifyNewMessage(ctx context.Context, recipientID int64, senderName string, messageID int64) error
}

// Directory resolves user ids to accounts; implemented by the auth repository.
type Directory interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
}

// Service handles chat business logic
type Service struct {
	repo     Repository
	relay    *Relay
	signaler *Signaler
	users    Directory
	notifier Notifier
}

func NewService(repo Repository, relay *Relay, signaler *Signaler, users Directory, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		relay:    relay,
		signaler: signaler,
		users:    users,
		notifier: notifier,
	}
}

// StartConversation returns the existing thread for (listing, pair) or
// creates a new one.
func (s *Service) StartConversation(ctx context.Context, userID, recipientID, listingID int64) (*Conversation, error) {
	if userID == recipientID {
		return nil, ErrCannotChatSelf
	}
	return s.repo.GetOrCreateConversation(ctx, listingID, userID, recipientID)
}

func (s *Service) ListConversations(ctx context.Context, userID int64) ([]*Conversation, error) {
	return s.repo.ListConversationsByUser(ctx, userID)
}

func (s *Service) GetMessages(ctx context.Context, userID int64, conversationID string, limit, offset int) ([]*Message, error) {
	conv, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.GetMessages(ctx, conversationID, limit, offset)
}

// SendMessage persists the message first — persistence success is what the
// sender sees — then relays to the recipient's live session. If the
// recipient is offline the durable notification is the fallback; a failure
// there is logged and never surfaced to the sender.
func (s *Service) SendMessage(ctx context.Context, senderID int64, conversationID, text string) (*Message, Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, "", ErrEmptyMessage
	}

	conv, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, "", err
	}
	if !conv.HasParticipant(senderID) {
		return nil, "", ErrNotParticipant
	}

	msg := &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, "", err
	}

	recipientID := conv.Other(senderID)

	recipientRole := ""
	if recipient, err := s.users.GetByID(ctx, recipientID); err == nil {
		recipientRole = string(recipient.Role)
	}

	outcome := s.relay.Deliver(msg, recipientID, recipientRole)

	if outcome == OutcomeQueuedForNotification {
		senderName := ""
		if sender, err := s.users.GetByID(ctx, senderID); err == nil {
			senderName = sender.Name
		}
		if err := s.notifier.NotifyNewMessage(ctx, recipientID, senderName, msg.ID); err != nil {
			log.Printf("message_notification_failed conversation_id=%s message_id=%d recipient_id=%d error=%q",
				conversationID, msg.ID, recipientID, err)
		}
	}

	return msg, outcome, nil
}

// MarkRead persists the read state and signals the counterpart.
func (s *Service) MarkRead(ctx context.Context, userID int64, conversationID string) error {
	conv, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(userID) {
		return ErrNotParticipant
	}

	if err := s.repo.MarkConversationRead(ctx, conversationID, userID); err != nil {
		return err
	}

	s.signaler.Read(userID, conv.Other(userID), conversationID)
	return nil
}

// Typing relays a typing indicator; drops silently for non-participants.
func (s *Service) Typing(ctx context.Context, userID int64, conversationID string, isTyping bool) {
	conv, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil || !conv.HasParticipant(userID) {
		return
	}
	s.signaler.Typing(userID, conv.Other(userID), conversationID, isTyping)
}
