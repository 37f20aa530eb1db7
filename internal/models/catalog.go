package models

import "time"

// Event is a portfolio entry shown in the public gallery when published.
type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   *string   `json:"description,omitempty"`
	Category      *string   `json:"category,omitempty"`
	EventDate     *string   `json:"event_date,omitempty"`
	Location      *string   `json:"location,omitempty"`
	CoverImageURL string    `json:"cover_image_url"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Service is a catalog entry quote requests may reference.
type Service struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PriceFrom   *float64  `json:"price_from,omitempty"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int64     `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
