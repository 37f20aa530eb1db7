package models

import "time"

// Notification is a per-user record of a status change to one of their own
// requests. Anonymous requests never produce notifications.
type Notification struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	TargetURL string            `json:"target_url,omitempty"`
	IsRead    bool              `json:"is_read"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Metadata keys carried on status-change notifications. They allow display
// text to be rebuilt from the label table at list time instead of trusting
// the stored title/message verbatim.
const (
	MetaRequestType = "requestType"
	MetaRequestID   = "requestId"
	MetaStatus      = "status"
)

var statusLabels = map[string]string{
	StatusNew:       "New",
	StatusInReview:  "In review",
	StatusApproved:  "Approved",
	StatusScheduled: "Scheduled",
	StatusDone:      "Done",
	StatusRejected:  "Rejected",
}

// StatusLabel returns the display label for a status. Unknown statuses fall
// back to the raw value with underscores replaced by spaces.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	out := []byte(status)
	for i := range out {
		if out[i] == '_' {
			out[i] = ' '
		}
	}
	return string(out)
}

func requestLabel(requestType string) string {
	if requestType == RequestTypeQuote {
		return "quote request"
	}
	return "contact request"
}

// BuildStatusNotification derives notification display text from the
// (request kind, status) pair.
func BuildStatusNotification(requestType, status string) (title, message string) {
	title = "Update for your " + requestLabel(requestType)
	message = "Status changed to: " + StatusLabel(status) + "."
	return title, message
}
