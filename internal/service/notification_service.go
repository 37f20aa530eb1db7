package service

import (
	"context"

	"eventdesk/internal/database"
	"eventdesk/internal/models"
)

// NotificationService serves the per-user notification feed. Display text is
// recomputed from the label table when the stored metadata identifies a
// request status, so relabeling never requires rewriting history rows.
type NotificationService struct {
	db *database.DB
}

func NewNotificationService(db *database.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, int64, error) {
	notifications, unread, err := s.db.ListNotifications(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	for i := range notifications {
		rerender(&notifications[i])
	}
	return notifications, unread, nil
}

func rerender(n *models.Notification) {
	requestType, ok := n.Metadata[models.MetaRequestType]
	if !ok || !models.IsKnownRequestType(requestType) {
		return
	}
	status, ok := n.Metadata[models.MetaStatus]
	if !ok {
		return
	}
	n.Title, n.Message = models.BuildStatusNotification(requestType, status)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.db.MarkNotificationRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.db.MarkAllNotificationsRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	return s.db.DeleteNotification(ctx, userID, id)
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID string) error {
	return s.db.DeleteAllNotifications(ctx, userID)
}
