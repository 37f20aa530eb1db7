package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventdesk/internal/models"
)

// CreateNotification inserts a notification for a user.
func (db *DB) CreateNotification(ctx context.Context, n *models.Notification) error {
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC()

	metadata := "{}"
	if len(n.Metadata) > 0 {
		raw, err := json.Marshal(n.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal notification metadata: %w", err)
		}
		metadata = string(raw)
	}

	_, err := db.ExecContext(ctx, `
        INSERT INTO notifications (id, user_id, title, message, target_url, is_read, metadata, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Title, n.Message, n.TargetURL, n.IsRead, metadata, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListNotifications returns the user's newest notifications, capped at
// models.NotificationListLimit. The unread count is computed over the whole
// table, not just the returned page.
func (db *DB) ListNotifications(ctx context.Context, userID string) ([]models.Notification, int64, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT id, user_id, title, message, target_url, is_read, metadata, created_at
        FROM notifications WHERE user_id = ?
        ORDER BY created_at DESC LIMIT ?`, userID, models.NotificationListLimit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var (
			n   models.Notification
			raw string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.TargetURL,
			&n.IsRead, &raw, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		if raw != "" && raw != "{}" {
			if err := json.Unmarshal([]byte(raw), &n.Metadata); err != nil {
				db.logger.Warn().Err(err).Str("notification_id", n.ID).Msg("malformed notification metadata")
			}
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var unread int64
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0", userID).
		Scan(&unread)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return out, unread, nil
}

// MarkNotificationRead marks one of the user's notifications as read. Rows
// belonging to other users are invisible here and yield ErrNotFound.
func (db *DB) MarkNotificationRead(ctx context.Context, userID, id string) error {
	res, err := db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return requireAffected(res)
}

// MarkAllNotificationsRead marks every notification of the user as read.
// Idempotent: a second call affects zero rows and still succeeds.
func (db *DB) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0", userID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// DeleteNotification removes one of the user's notifications.
func (db *DB) DeleteNotification(ctx context.Context, userID, id string) error {
	res, err := db.ExecContext(ctx,
		"DELETE FROM notifications WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return requireAffected(res)
}

// DeleteAllNotifications clears the user's notification list.
func (db *DB) DeleteAllNotifications(ctx context.Context, userID string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM notifications WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
