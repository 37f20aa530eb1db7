package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventdesk/internal/models"
)

// CreateContactRequest inserts a contact-form submission and returns the
// stored row.
func (db *DB) CreateContactRequest(ctx context.Context, req *models.ContactRequest) error {
	now := time.Now().UTC()
	req.ID = uuid.NewString()
	req.Status = models.StatusNew
	req.CreatedAt = now
	req.UpdatedAt = now

	_, err := db.ExecContext(ctx, `
        INSERT INTO contact_requests (id, user_id, name, email, phone, company, subject, message, event_date, status, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.UserID, req.Name, req.Email, req.Phone, req.Company,
		req.Subject, req.Message, req.EventDate, req.Status, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact request: %w", err)
	}
	return nil
}

// CreateQuoteRequest inserts a quote-form submission and returns the stored
// row.
func (db *DB) CreateQuoteRequest(ctx context.Context, req *models.QuoteRequest) error {
	now := time.Now().UTC()
	req.ID = uuid.NewString()
	req.Status = models.StatusNew
	req.CreatedAt = now
	req.UpdatedAt = now

	_, err := db.ExecContext(ctx, `
        INSERT INTO quote_requests (id, user_id, name, email, phone, event_type, event_date, event_location,
            guest_count, budget, service_id, message, status, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.UserID, req.Name, req.Email, req.Phone, req.EventType, req.EventDate,
		req.EventLocation, req.GuestCount, req.Budget, req.ServiceID, req.Message,
		req.Status, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create quote request: %w", err)
	}
	return nil
}

// GetContactRequest returns a contact request by id.
func (db *DB) GetContactRequest(ctx context.Context, id string) (*models.ContactRequest, error) {
	var req models.ContactRequest
	err := db.QueryRowContext(ctx, `
        SELECT id, user_id, name, email, phone, company, subject, message, event_date, status, created_at, updated_at
        FROM contact_requests WHERE id = ?`, id).Scan(
		&req.ID, &req.UserID, &req.Name, &req.Email, &req.Phone, &req.Company,
		&req.Subject, &req.Message, &req.EventDate, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact request: %w", err)
	}
	return &req, nil
}

// GetQuoteRequest returns a quote request by id.
func (db *DB) GetQuoteRequest(ctx context.Context, id string) (*models.QuoteRequest, error) {
	var req models.QuoteRequest
	err := db.QueryRowContext(ctx, `
        SELECT id, user_id, name, email, phone, event_type, event_date, event_location,
            guest_count, budget, service_id, message, status, created_at, updated_at
        FROM quote_requests WHERE id = ?`, id).Scan(
		&req.ID, &req.UserID, &req.Name, &req.Email, &req.Phone, &req.EventType,
		&req.EventDate, &req.EventLocation, &req.GuestCount, &req.Budget,
		&req.ServiceID, &req.Message, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote request: %w", err)
	}
	return &req, nil
}

// RequestFilter narrows the merged admin moderation list.
type RequestFilter struct {
	Kind   string // "", "contact" or "quote"
	Status string // "" means any
	Query  string // substring match over name/email/subject
	Limit  int
}

// ListRequests returns the merged moderation list, newest first. Contact and
// quote rows are flattened into RequestSummary so the admin list can show
// both kinds in one table. The limit applies per table before merging, so a
// flood of one kind never pushes the other kind out of the list entirely.
func (db *DB) ListRequests(ctx context.Context, filter RequestFilter) ([]models.RequestSummary, error) {
	if filter.Kind != "" && !models.IsKnownRequestType(filter.Kind) {
		return nil, nil
	}
	limit := filter.Limit
	if limit <= 0 || limit > models.AdminListLimit {
		limit = models.AdminListLimit
	}

	// subjectCol is the per-table column the free-text search matches
	// alongside name and email. For quotes that is the event type, which
	// the merged row already exposes as subject.
	branch := func(sel, table, subjectCol string) (string, []interface{}) {
		q := sel + " FROM " + table
		var (
			conds []string
			args  []interface{}
		)
		if filter.Status != "" {
			conds = append(conds, "status = ?")
			args = append(args, filter.Status)
		}
		if filter.Query != "" {
			conds = append(conds, "(name LIKE ? OR email LIKE ? OR "+subjectCol+" LIKE ?)")
			needle := "%" + filter.Query + "%"
			args = append(args, needle, needle, needle)
		}
		if len(conds) > 0 {
			q += " WHERE " + strings.Join(conds, " AND ")
		}
		q += " ORDER BY created_at DESC LIMIT ?"
		return q, append(args, limit)
	}

	var (
		parts []string
		args  []interface{}
	)
	if filter.Kind == "" || filter.Kind == models.RequestTypeContact {
		q, a := branch(`
            SELECT 'contact' AS type, id, user_id, name, email,
                COALESCE(subject, '') AS subject, message, event_date, status, created_at`,
			"contact_requests", "subject")
		parts = append(parts, "SELECT * FROM ("+q+")")
		args = append(args, a...)
	}
	if filter.Kind == "" || filter.Kind == models.RequestTypeQuote {
		q, a := branch(`
            SELECT 'quote' AS type, id, user_id, name, email,
                event_type AS subject, COALESCE(message, '') AS message, event_date, status, created_at`,
			"quote_requests", "event_type")
		parts = append(parts, "SELECT * FROM ("+q+")")
		args = append(args, a...)
	}
	query := strings.Join(parts, " UNION ALL ") + " ORDER BY created_at DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var out []models.RequestSummary
	for rows.Next() {
		var s models.RequestSummary
		if err := rows.Scan(&s.Type, &s.ID, &s.UserID, &s.Name, &s.Email,
			&s.Subject, &s.Message, &s.EventDate, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan request summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListContactRequests returns all contact requests, newest first. Used by the
// export endpoint and the sheets mirror.
func (db *DB) ListContactRequests(ctx context.Context) ([]models.ContactRequest, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT id, user_id, name, email, phone, company, subject, message, event_date, status, created_at, updated_at
        FROM contact_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact requests: %w", err)
	}
	defer rows.Close()

	var out []models.ContactRequest
	for rows.Next() {
		var req models.ContactRequest
		if err := rows.Scan(&req.ID, &req.UserID, &req.Name, &req.Email, &req.Phone,
			&req.Company, &req.Subject, &req.Message, &req.EventDate, &req.Status,
			&req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// ListQuoteRequests returns all quote requests, newest first.
func (db *DB) ListQuoteRequests(ctx context.Context) ([]models.QuoteRequest, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT id, user_id, name, email, phone, event_type, event_date, event_location,
            guest_count, budget, service_id, message, status, created_at, updated_at
        FROM quote_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list quote requests: %w", err)
	}
	defer rows.Close()

	var out []models.QuoteRequest
	for rows.Next() {
		var req models.QuoteRequest
		if err := rows.Scan(&req.ID, &req.UserID, &req.Name, &req.Email, &req.Phone,
			&req.EventType, &req.EventDate, &req.EventLocation, &req.GuestCount,
			&req.Budget, &req.ServiceID, &req.Message, &req.Status,
			&req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quote request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// ListRequestsByUser returns the caller's own requests of one kind, newest
// first.
func (db *DB) ListRequestsByUser(ctx context.Context, userID string) ([]models.RequestSummary, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT type, id, user_id, name, email, subject, message, event_date, status, created_at FROM (
            SELECT 'contact' AS type, id, user_id, name, email,
                COALESCE(subject, '') AS subject, message, event_date, status, created_at
            FROM contact_requests WHERE user_id = ?
            UNION ALL
            SELECT 'quote' AS type, id, user_id, name, email,
                event_type AS subject, COALESCE(message, '') AS message, event_date, status, created_at
            FROM quote_requests WHERE user_id = ?
        ) ORDER BY created_at DESC`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user requests: %w", err)
	}
	defer rows.Close()

	var out []models.RequestSummary
	for rows.Next() {
		var s models.RequestSummary
		if err := rows.Scan(&s.Type, &s.ID, &s.UserID, &s.Name, &s.Email,
			&s.Subject, &s.Message, &s.EventDate, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan request summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateRequestStatus moves a request to a new status and, when the request
// belongs to a registered user, records the status-change notification in the
// same transaction. Either both rows land or neither does. The returned bool
// reports whether anything was written; a same-status update is a no-op.
func (db *DB) UpdateRequestStatus(ctx context.Context, requestType, id, newStatus string) (*models.RequestRef, bool, error) {
	if !models.IsKnownRequestType(requestType) {
		return nil, false, fmt.Errorf("%w: unknown request type %q", ErrInvalidStatus, requestType)
	}
	if !models.IsKnownStatus(newStatus) {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	table := "contact_requests"
	if requestType == models.RequestTypeQuote {
		table = "quote_requests"
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		current string
		userID  *string
	)
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT status, user_id FROM %s WHERE id = ?", table), id).
		Scan(&current, &userID)
	if err == sql.ErrNoRows {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load request status: %w", err)
	}

	if !models.CanTransition(current, newStatus) {
		return nil, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, newStatus)
	}

	now := time.Now().UTC()
	changed := current != newStatus
	if changed {
		_, err = tx.ExecContext(ctx,
			fmt.Sprintf("UPDATE %s SET status = ?, updated_at = ? WHERE id = ?", table),
			newStatus, now, id)
		if err != nil {
			return nil, false, fmt.Errorf("failed to update request status: %w", err)
		}

		if userID != nil {
			title, message := models.BuildStatusNotification(requestType, newStatus)
			metadata, err := json.Marshal(map[string]string{
				models.MetaRequestType: requestType,
				models.MetaRequestID:   id,
				models.MetaStatus:      newStatus,
			})
			if err != nil {
				return nil, false, fmt.Errorf("failed to marshal notification metadata: %w", err)
			}
			_, err = tx.ExecContext(ctx, `
                INSERT INTO notifications (id, user_id, title, message, target_url, is_read, metadata, created_at)
                VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
				uuid.NewString(), *userID, title, message, models.NotificationTargetURL, string(metadata), now)
			if err != nil {
				return nil, false, fmt.Errorf("failed to create status notification: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit status update: %w", err)
	}

	return &models.RequestRef{ID: id, Status: newStatus, UserID: userID}, changed, nil
}
