package models

import "time"

// ContactRequest is a public contact-form submission. Rows are never
// deleted; moderation only moves the status.
type ContactRequest struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Company   *string   `json:"company,omitempty"`
	Subject   *string   `json:"subject,omitempty"`
	Message   string    `json:"message"`
	EventDate *string   `json:"event_date,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuoteRequest is a public request-quote submission.
type QuoteRequest struct {
	ID            string    `json:"id"`
	UserID        *string   `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	EventType     string    `json:"event_type"`
	EventDate     *string   `json:"event_date,omitempty"`
	EventLocation *string   `json:"event_location,omitempty"`
	GuestCount    *int64    `json:"guest_count,omitempty"`
	Budget        *float64  `json:"budget,omitempty"`
	ServiceID     *string   `json:"service_id,omitempty"`
	Message       *string   `json:"message,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RequestSummary is one row of the merged admin moderation list. Subject
// carries the contact subject or the quote event type depending on Type.
type RequestSummary struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	EventDate *string   `json:"event_date,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// RequestRef identifies a request row after a status mutation.
type RequestRef struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	UserID *string `json:"user_id"`
}
