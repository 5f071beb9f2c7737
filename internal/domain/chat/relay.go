package chat

import "renthome/internal/realtime"

// Outcome reports what happened to a message after persistence.
type Outcome string

const (
	OutcomePushedLive            Outcome = "pushed_live"
	OutcomeQueuedForNotification Outcome = "queued_for_notification"
)

// Relay bridges the durable message log to live sessions. It only ever sees
// messages that are already persisted — delivery order per conversation is
// whatever order the store committed, carried by the message id.
type Relay struct {
	hub *realtime.Hub
}

func NewRelay(hub *realtime.Hub) *Relay {
	return &Relay{hub: hub}
}

// Deliver pushes a persisted message to the recipient's live session, if
// any. A miss is not an error: the caller falls back to the notification
// dispatcher. The role-group badge broadcast afterwards is advisory only —
// UI unread hints, never a delivery guarantee.
func (r *Relay) Deliver(msg *Message, recipientID int64, recipientRole string) Outcome {
	event := NewMessageEvent(msg.ConversationID, msg)

	pushed := r.hub.SendToUser(recipientID, event)

	if recipientRole != "" {
		r.hub.BroadcastToRole(recipientRole, NewBadgeEvent(msg.ConversationID))
	}

	if !pushed {
		return OutcomeQueuedForNotification
	}
	return OutcomePushedLive
}
