package realtime

import (
	"sync"
	"time"
)

// Handle is a live transport endpoint the hub can push events to.
// Send must never block; it reports false when the event was dropped
// (buffer full or endpoint closed).
type Handle interface {
	Send(ev *Event) bool
	Close()
}

type entry struct {
	handle   Handle
	role     string
	joinedAt time.Time
}

// Hub maps authenticated users to their live sessions. It is the single
// source of truth for "who is online" and is shared by every connection
// goroutine, so all access goes through the RWMutex.
type Hub struct {
	mu       sync.RWMutex
	byUser   map[int64]*entry
	byHandle map[Handle]int64
}

func NewHub() *Hub {
	return &Hub{
		byUser:   make(map[int64]*entry),
		byHandle: make(map[Handle]int64),
	}
}

// Register records the live session for a user. A repeated handshake for the
// same user overwrites the mapping (last writer wins); the replaced handle is
// not closed here — its own disconnect will unregister it harmlessly.
func (h *Hub) Register(userID int64, role string, hd Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.byUser[userID]; ok {
		delete(h.byHandle, old.handle)
	}
	h.byUser[userID] = &entry{
		handle:   hd,
		role:     role,
		joinedAt: time.Now(),
	}
	h.byHandle[hd] = userID
}

// Unregister removes the mapping owned by this handle. Keyed by handle, not
// user: a stale disconnect from a replaced session never evicts the newer
// one. No-op when the handle is unknown.
func (h *Hub) Unregister(hd Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID, ok := h.byHandle[hd]
	if !ok {
		return
	}
	delete(h.byHandle, hd)

	if cur, ok := h.byUser[userID]; ok && cur.handle == hd {
		delete(h.byUser, userID)
	}
}

// Resolve returns the live handle for a user, if any.
func (h *Hub) Resolve(userID int64) (Handle, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	e, ok := h.byUser[userID]
	if !ok {
		return nil, false
	}
	return e.handle, true
}

// Online reports whether the user currently has a live session.
func (h *Hub) Online(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.byUser[userID]
	return ok
}

// SendToUser pushes an event to the user's live session. Returns false when
// the user is offline or the event was dropped.
func (h *Hub) SendToUser(userID int64, ev *Event) bool {
	hd, ok := h.Resolve(userID)
	if !ok {
		return false
	}
	return hd.Send(ev)
}

// BroadcastToRole pushes an event to every online user with the given role.
// Best effort: slow clients are skipped.
func (h *Hub) BroadcastToRole(role string, ev *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, e := range h.byUser {
		if e.role == role {
			e.handle.Send(ev)
		}
	}
}
