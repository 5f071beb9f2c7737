package chat

import "renthome/internal/realtime"

// Signaler relays ephemeral typing/read-receipt events. Fire-and-forget by
// design: no durable record, no retry — an offline counterpart simply never
// sees the signal.
type Signaler struct {
	hub *realtime.Hub
}

func NewSignaler(hub *realtime.Hub) *Signaler {
	return &Signaler{hub: hub}
}

func (s *Signaler) Typing(from, to int64, conversationID string, isTyping bool) {
	s.hub.SendToUser(to, NewTypingEvent(conversationID, from, isTyping))
}

func (s *Signaler) Read(from, to int64, conversationID string) {
	s.hub.SendToUser(to, NewReadEvent(conversationID, from))
}
