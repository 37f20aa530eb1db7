package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventdesk/internal/models"
)

// EventFilter narrows the public events listing.
type EventFilter struct {
	Category      string
	Limit         int
	PublishedOnly bool
}

// CreateEvent inserts a portfolio event. Slug conflicts surface as
// ErrSlugTaken.
func (db *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	now := time.Now().UTC()
	event.ID = uuid.NewString()
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := db.ExecContext(ctx, `
        INSERT INTO events (id, title, slug, description, category, event_date, location,
            cover_image_url, is_published, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Title, event.Slug, event.Description, event.Category,
		event.EventDate, event.Location, event.CoverImageURL, event.IsPublished,
		event.CreatedAt, event.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetEvent returns an event by id.
func (db *DB) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := db.QueryRowContext(ctx, `
        SELECT id, title, slug, description, category, event_date, location,
            cover_image_url, is_published, created_at, updated_at
        FROM events WHERE id = ?`, id).Scan(
		&event.ID, &event.Title, &event.Slug, &event.Description, &event.Category,
		&event.EventDate, &event.Location, &event.CoverImageURL, &event.IsPublished,
		&event.CreatedAt, &event.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

// ListEvents returns events ordered by event date descending, then creation
// time. Public callers set PublishedOnly.
func (db *DB) ListEvents(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	query := `
        SELECT id, title, slug, description, category, event_date, location,
            cover_image_url, is_published, created_at, updated_at
        FROM events`

	var (
		conds []string
		args  []interface{}
	)
	if filter.PublishedOnly {
		conds = append(conds, "is_published = 1")
	}
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY event_date DESC, created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Title, &event.Slug, &event.Description,
			&event.Category, &event.EventDate, &event.Location, &event.CoverImageURL,
			&event.IsPublished, &event.CreatedAt, &event.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

// UpdateEvent replaces the mutable fields of an event.
func (db *DB) UpdateEvent(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	res, err := db.ExecContext(ctx, `
        UPDATE events SET title = ?, slug = ?, description = ?, category = ?,
            event_date = ?, location = ?, cover_image_url = ?, is_published = ?, updated_at = ?
        WHERE id = ?`,
		event.Title, event.Slug, event.Description, event.Category, event.EventDate,
		event.Location, event.CoverImageURL, event.IsPublished, event.UpdatedAt, event.ID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to update event: %w", err)
	}
	return requireAffected(res)
}

// DeleteEvent removes an event.
func (db *DB) DeleteEvent(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return requireAffected(res)
}

// CreateService inserts a catalog service.
func (db *DB) CreateService(ctx context.Context, svc *models.Service) error {
	now := time.Now().UTC()
	svc.ID = uuid.NewString()
	svc.CreatedAt = now
	svc.UpdatedAt = now

	_, err := db.ExecContext(ctx, `
        INSERT INTO services (id, name, description, price_from, is_active, sort_order, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		svc.ID, svc.Name, svc.Description, svc.PriceFrom, svc.IsActive,
		svc.SortOrder, svc.CreatedAt, svc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

// GetService returns a service by id.
func (db *DB) GetService(ctx context.Context, id string) (*models.Service, error) {
	var svc models.Service
	err := db.QueryRowContext(ctx, `
        SELECT id, name, description, price_from, is_active, sort_order, created_at, updated_at
        FROM services WHERE id = ?`, id).Scan(
		&svc.ID, &svc.Name, &svc.Description, &svc.PriceFrom, &svc.IsActive,
		&svc.SortOrder, &svc.CreatedAt, &svc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

// ListServices returns services in sort order. Public callers set activeOnly.
func (db *DB) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	query := `
        SELECT id, name, description, price_from, is_active, sort_order, created_at, updated_at
        FROM services`
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY sort_order ASC, name ASC"

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var out []models.Service
	for rows.Next() {
		var svc models.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Description, &svc.PriceFrom,
			&svc.IsActive, &svc.SortOrder, &svc.CreatedAt, &svc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

// UpdateService replaces the mutable fields of a service.
func (db *DB) UpdateService(ctx context.Context, svc *models.Service) error {
	svc.UpdatedAt = time.Now().UTC()
	res, err := db.ExecContext(ctx, `
        UPDATE services SET name = ?, description = ?, price_from = ?, is_active = ?,
            sort_order = ?, updated_at = ?
        WHERE id = ?`,
		svc.Name, svc.Description, svc.PriceFrom, svc.IsActive, svc.SortOrder,
		svc.UpdatedAt, svc.ID)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	return requireAffected(res)
}

// DeleteService removes a service.
func (db *DB) DeleteService(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM services WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return requireAffected(res)
}
