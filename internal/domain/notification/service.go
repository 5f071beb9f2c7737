package notification

import (
	"context"
	"fmt"
	"log"

	"renthome/internal/realtime"
)

const EventNotification = "notification"

// Service is the notification dispatcher. Dispatch persists first — that is
// the only completion criterion — then best-effort pushes to the recipient's
// live session. It never deduplicates: callers that must fire only once per
// state crossing own that check.
type Service struct {
	repo *Repository
	hub  *realtime.Hub
}

func NewService(repo *Repository, hub *realtime.Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

func (s *Service) Dispatch(ctx context.Context, userID int64, t Type, title, message string, relatedID int64) (int64, error) {
	n := &Notification{
		UserID:    userID,
		Type:      t,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return 0, err
	}

	if s.hub != nil {
		delivered := s.hub.SendToUser(userID, &realtime.Event{
			Type:    EventNotification,
			Payload: n,
		})
		if !delivered {
			log.Printf("notification_push_miss user_id=%d type=%s notification_id=%d", userID, t, n.ID)
		}
	}

	return n.ID, nil
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) NotifyNewMessage(ctx context.Context, recipientID int64, senderName string, messageID int64) error {
	_, err := s.Dispatch(
		ctx,
		recipientID,
		TypeNewMessage,
		"New message",
		fmt.Sprintf("You have a new message from %s", senderName),
		messageID,
	)
	return err
}

func (s *Service) NotifyTenantInterested(ctx context.Context, ownerID, visitID int64) error {
	_, err := s.Dispatch(
		ctx,
		ownerID,
		TypeTenantInterested,
		"Tenant is interested",
		"The tenant liked your place after the visit. Please submit your decision.",
		visitID,
	)
	return err
}

func (s *Service) NotifyOwnerInterested(ctx context.Context, tenantID, visitID int64) error {
	_, err := s.Dispatch(
		ctx,
		tenantID,
		TypeOwnerInterested,
		"Owner is interested",
		"The owner would like to rent to you. Please submit your decision.",
		visitID,
	)
	return err
}

func (s *Service) NotifyVisitMatch(ctx context.Context, userID, visitID int64) error {
	_, err := s.Dispatch(
		ctx,
		userID,
		TypeVisitMatch,
		"It's a match!",
		"Both sides are interested. The listing has been reserved for you to finalize.",
		visitID,
	)
	return err
}
