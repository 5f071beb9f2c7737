package chat

import "renthome/internal/realtime"

const (
	EventNewMessage = "new_message"
	EventTyping     = "typing"
	EventRead       = "read"
	EventBadge      = "unread_badge"
	EventPong       = "pong"
	EventError      = "error"
)

// WSClientMessage is the inbound frame shape for the chat websocket.
type WSClientMessage struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
	ListingID      int64  `json:"listing_id,omitempty"`
	RecipientID    int64  `json:"recipient_id,omitempty"`
	Text           string `json:"text,omitempty"`
	IsTyping       bool   `json:"is_typing,omitempty"`
}

type messagePayload struct {
	ConversationID string   `json:"conversation_id"`
	Message        *Message `json:"message"`
}

type typingPayload struct {
	ConversationID string `json:"conversation_id"`
	UserID         int64  `json:"user_id"`
	IsTyping       bool   `json:"is_typing"`
}

type readPayload struct {
	ConversationID string `json:"conversation_id"`
	UserID         int64  `json:"user_id"`
}

type badgePayload struct {
	ConversationID string `json:"conversation_id"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewMessageEvent(conversationID string, msg *Message) *realtime.Event {
	return &realtime.Event{
		Type:    EventNewMessage,
		Payload: messagePayload{ConversationID: conversationID, Message: msg},
	}
}

func NewTypingEvent(conversationID string, userID int64, isTyping bool) *realtime.Event {
	return &realtime.Event{
		Type:    EventTyping,
		Payload: typingPayload{ConversationID: conversationID, UserID: userID, IsTyping: isTyping},
	}
}

func NewReadEvent(conversationID string, userID int64) *realtime.Event {
	return &realtime.Event{
		Type:    EventRead,
		Payload: readPayload{ConversationID: conversationID, UserID: userID},
	}
}

func NewBadgeEvent(conversationID string) *realtime.Event {
	return &realtime.Event{
		Type:    EventBadge,
		Payload: badgePayload{ConversationID: conversationID},
	}
}

func NewPongEvent() *realtime.Event {
	return &realtime.Event{Type: EventPong}
}

func NewErrorEvent(code, message string) *realtime.Event {
	return &realtime.Event{
		Type:    EventError,
		Payload: errorPayload{Code: code, Message: message},
	}
}
