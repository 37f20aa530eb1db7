package domain

import (
	"context"
	"time"

	"eventdesk/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SessionRepository stores opaque session tokens. Implementations: Redis,
// in-memory, and a failover wrapper over both.
type SessionRepository interface {
	SetSession(ctx context.Context, session *models.Session, ttl time.Duration) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type SyncWorker interface {
	EnqueueRequestCreated(ctx context.Context, requestType string, payload interface{}) error
	EnqueueStatusChanged(ctx context.Context, requestType, requestID, status string) error
}

// RequestService is the moderation surface consumed by the HTTP layer.
type RequestService interface {
	SubmitContactRequest(ctx context.Context, req *models.ContactRequest) error
	SubmitQuoteRequest(ctx context.Context, req *models.QuoteRequest) error
	ListRequests(ctx context.Context, kind, status, query string) ([]models.RequestSummary, error)
	ListOwnRequests(ctx context.Context, userID string) ([]models.RequestSummary, error)
	UpdateStatus(ctx context.Context, requestType, id, status string) (*models.RequestRef, error)
	ExportRequests(ctx context.Context) ([]models.ContactRequest, []models.QuoteRequest, error)
}

type NotificationService interface {
	List(ctx context.Context, userID string) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, id string) error
	DeleteAll(ctx context.Context, userID string) error
}

type AuthService interface {
	Register(ctx context.Context, email, name, password string) (*models.User, *models.Session, error)
	Login(ctx context.Context, email, password string) (*models.User, *models.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id, role string) error
}

type SettingsService interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Update(ctx context.Context, settings *models.SiteSettings) error
}

type CatalogService interface {
	ListPublishedEvents(ctx context.Context, category string, limit int) ([]models.Event, error)
	ListAllEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	CreateEvent(ctx context.Context, event *models.Event) error
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id string) error
	GetService(ctx context.Context, id string) (*models.Service, error)
	ListActiveServices(ctx context.Context) ([]models.Service, error)
	ListAllServices(ctx context.Context) ([]models.Service, error)
	CreateService(ctx context.Context, svc *models.Service) error
	UpdateService(ctx context.Context, svc *models.Service) error
	DeleteService(ctx context.Context, id string) error
}
