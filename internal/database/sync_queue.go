package database

import (
	"context"
	"fmt"
	"time"

	"eventdesk/internal/models"
)

// CreateSyncTask persists a Sheets mirror task so a crash between enqueue and
// processing cannot lose it.
func (db *DB) CreateSyncTask(ctx context.Context, task *models.SyncTask) error {
	task.CreatedAt = time.Now().UTC()
	if task.Status == "" {
		task.Status = "pending"
	}

	res, err := db.ExecContext(ctx, `
        INSERT INTO sync_queue (task_type, request_type, request_id, payload, status, retry_count, last_error, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.TaskType, task.RequestType, task.RequestID, task.Payload,
		task.Status, task.RetryCount, task.LastError, task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sync task: %w", err)
	}
	task.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read sync task id: %w", err)
	}
	return nil
}

// GetPendingSyncTasks returns tasks due for processing: pending ones, plus
// retries whose backoff window has elapsed.
func (db *DB) GetPendingSyncTasks(ctx context.Context, limit int) ([]models.SyncTask, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT id, task_type, request_type, request_id, payload, status, retry_count, last_error,
            created_at, processed_at, next_retry_at
        FROM sync_queue
        WHERE status = 'pending' OR (status = 'retry' AND next_retry_at <= ?)
        ORDER BY created_at ASC LIMIT ?`, time.Now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending sync tasks: %w", err)
	}
	defer rows.Close()

	var out []models.SyncTask
	for rows.Next() {
		var task models.SyncTask
		if err := rows.Scan(&task.ID, &task.TaskType, &task.RequestType, &task.RequestID,
			&task.Payload, &task.Status, &task.RetryCount, &task.LastError,
			&task.CreatedAt, &task.ProcessedAt, &task.NextRetryAt); err != nil {
			return nil, fmt.Errorf("failed to scan sync task: %w", err)
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// UpdateSyncTaskStatus records the outcome of a processing attempt.
func (db *DB) UpdateSyncTaskStatus(ctx context.Context, id int64, status string, retryCount int, lastError string, nextRetryAt *time.Time) error {
	var processedAt *time.Time
	if status == "completed" || status == "failed" {
		now := time.Now().UTC()
		processedAt = &now
	}

	res, err := db.ExecContext(ctx, `
        UPDATE sync_queue SET status = ?, retry_count = ?, last_error = ?, processed_at = ?, next_retry_at = ?
        WHERE id = ?`,
		status, retryCount, lastError, processedAt, nextRetryAt, id)
	if err != nil {
		return fmt.Errorf("failed to update sync task: %w", err)
	}
	return requireAffected(res)
}

// PurgeCompletedSyncTasks removes completed tasks older than the cutoff.
func (db *DB) PurgeCompletedSyncTasks(ctx context.Context, before time.Time) (int64, error) {
	res, err := db.ExecContext(ctx,
		"DELETE FROM sync_queue WHERE status = 'completed' AND processed_at < ?", before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sync tasks: %w", err)
	}
	return res.RowsAffected()
}
