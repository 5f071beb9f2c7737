package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"renthome/internal/realtime"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Registers the pure-Go "sqlite" database/sql driver used below.
	_ "modernc.org/sqlite"
)

type captureHandle struct {
	mu     sync.Mutex
	events []*realtime.Event
}

func (h *captureHandle) Send(ev *realtime.Event) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
	return true
}

func (h *captureHandle) Close() {}

func (h *captureHandle) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func setupDispatcher(t *testing.T) (*Service, *Repository, *realtime.Hub) {
	t.Helper()
	dsn := fmt.Sprintf("file:notif_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&Notification{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	repo := NewRepository(db)
	hub := realtime.NewHub()
	return NewService(repo, hub), repo, hub
}

func TestDispatchPersistsWhenOffline(t *testing.T) {
	svc, repo, _ := setupDispatcher(t)
	ctx := context.Background()

	id, err := svc.Dispatch(ctx, 42, TypeVisitMatch, "It's a match!", "details", 7)
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a persisted notification id")
	}

	list, err := repo.GetByUserID(ctx, 42, 10)
	if err != nil {
		t.Fatalf("GetByUserID returned error: %v", err)
	}
	if len(list) != 1 || list[0].ID != id {
		t.Fatalf("expected the dispatched notification in the store, got %+v", list)
	}
	if list[0].IsRead {
		t.Fatal("new notification must start unread")
	}
}

func TestDispatchPushesToLiveSession(t *testing.T) {
	svc, repo, hub := setupDispatcher(t)
	ctx := context.Background()

	h := &captureHandle{}
	hub.Register(42, "tenant", h)

	id, err := svc.Dispatch(ctx, 42, TypeOwnerInterested, "Owner is interested", "details", 7)
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}

	if h.count() != 1 {
		t.Fatalf("expected one pushed event, got %d", h.count())
	}
	ev := h.events[0]
	if ev.Type != EventNotification {
		t.Fatalf("expected event type %q, got %q", EventNotification, ev.Type)
	}
	n, ok := ev.Payload.(*Notification)
	if !ok {
		t.Fatalf("unexpected payload type %T", ev.Payload)
	}
	if n.ID != id || n.Type != TypeOwnerInterested {
		t.Fatalf("pushed payload does not match persisted row: %+v", n)
	}

	// Push is additive, never a substitute for persistence
	unread, err := repo.CountUnread(ctx, 42)
	if err != nil {
		t.Fatalf("CountUnread returned error: %v", err)
	}
	if unread != 1 {
		t.Fatalf("expected the pushed notification persisted unread, got %d", unread)
	}
}

func TestMarkAsReadScopedToOwner(t *testing.T) {
	svc, _, _ := setupDispatcher(t)
	ctx := context.Background()

	id, err := svc.Dispatch(ctx, 42, TypeNewMessage, "New message", "details", 1)
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}

	if err := svc.MarkAsRead(ctx, id, 99); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("foreign user must not mark others' notifications, got %v", err)
	}
	if err := svc.MarkAsRead(ctx, id, 42); err != nil {
		t.Fatalf("MarkAsRead returned error: %v", err)
	}

	_, unread, err := svc.GetUserNotifications(ctx, 42, 10)
	if err != nil {
		t.Fatalf("GetUserNotifications returned error: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected zero unread after marking, got %d", unread)
	}
}

func TestMarkAllAsRead(t *testing.T) {
	svc, _, _ := setupDispatcher(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Dispatch(ctx, 42, TypeTenantInterested, "Tenant is interested", "details", int64(i+1)); err != nil {
			t.Fatalf("Dispatch returned error: %v", err)
		}
	}

	if err := svc.MarkAllAsRead(ctx, 42); err != nil {
		t.Fatalf("MarkAllAsRead returned error: %v", err)
	}

	list, unread, err := svc.GetUserNotifications(ctx, 42, 10)
	if err != nil {
		t.Fatalf("GetUserNotifications returned error: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected zero unread, got %d", unread)
	}
	if len(list) != 3 {
		t.Fatalf("marking read must not delete, got %d rows", len(list))
	}
}
