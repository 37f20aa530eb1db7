package service

import (
	"context"
	"strings"

	"eventdesk/internal/database"
	"eventdesk/internal/domain"
	"eventdesk/internal/events"
	"eventdesk/internal/metrics"
	"eventdesk/internal/models"

	"github.com/rs/zerolog"
)

// RequestService owns the intake and moderation flows.
type RequestService struct {
	db           *database.DB
	eventBus     domain.EventPublisher
	sheetsWorker domain.SyncWorker
	logger       *zerolog.Logger
}

func NewRequestService(db *database.DB, eventBus domain.EventPublisher, sheetsWorker domain.SyncWorker, logger *zerolog.Logger) *RequestService {
	return &RequestService{
		db:           db,
		eventBus:     eventBus,
		sheetsWorker: sheetsWorker,
		logger:       logger,
	}
}

func (s *RequestService) SubmitContactRequest(ctx context.Context, req *models.ContactRequest) error {
	if err := s.db.CreateContactRequest(ctx, req); err != nil {
		return err
	}

	metrics.IncIntake(models.RequestTypeContact)
	s.publishCreated(models.RequestTypeContact, req.ID, req.Name, req.Email, subjectOrEmpty(req.Subject), req.Status)
	s.enqueueCreated(ctx, models.RequestTypeContact, req)
	return nil
}

func (s *RequestService) SubmitQuoteRequest(ctx context.Context, req *models.QuoteRequest) error {
	if err := s.db.CreateQuoteRequest(ctx, req); err != nil {
		return err
	}

	metrics.IncIntake(models.RequestTypeQuote)
	s.publishCreated(models.RequestTypeQuote, req.ID, req.Name, req.Email, req.EventType, req.Status)
	s.enqueueCreated(ctx, models.RequestTypeQuote, req)
	return nil
}

func (s *RequestService) ListRequests(ctx context.Context, kind, status, query string) ([]models.RequestSummary, error) {
	return s.db.ListRequests(ctx, database.RequestFilter{
		Kind:   kind,
		Status: status,
		Query:  strings.TrimSpace(query),
	})
}

func (s *RequestService) ListOwnRequests(ctx context.Context, userID string) ([]models.RequestSummary, error) {
	return s.db.ListRequestsByUser(ctx, userID)
}

// UpdateStatus performs the transactional status change (row update plus
// notification insert when owned), then fans out side effects. A same-status
// update commits nothing and fans out nothing.
func (s *RequestService) UpdateStatus(ctx context.Context, requestType, id, status string) (*models.RequestRef, error) {
	ref, changed, err := s.db.UpdateRequestStatus(ctx, requestType, id, status)
	if err != nil {
		return nil, err
	}
	if !changed {
		return ref, nil
	}

	metrics.IncStatusChange(status)
	if ref.UserID != nil {
		metrics.IncNotification()
	}

	if err := s.eventBus.PublishJSON(events.EventRequestStatusChanged, events.RequestEventPayload{
		RequestType: requestType,
		RequestID:   id,
		Status:      status,
	}); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish status change event")
	}

	if s.sheetsWorker != nil {
		if err := s.sheetsWorker.EnqueueStatusChanged(ctx, requestType, id, status); err != nil {
			s.logger.Error().Err(err).Str("request_id", id).Msg("Failed to enqueue status sync")
		}
	}

	return ref, nil
}

func (s *RequestService) ExportRequests(ctx context.Context) ([]models.ContactRequest, []models.QuoteRequest, error) {
	contacts, err := s.db.ListContactRequests(ctx)
	if err != nil {
		return nil, nil, err
	}
	quotes, err := s.db.ListQuoteRequests(ctx)
	if err != nil {
		return nil, nil, err
	}
	return contacts, quotes, nil
}

func (s *RequestService) publishCreated(requestType, id, name, email, subject, status string) {
	if err := s.eventBus.PublishJSON(events.EventRequestCreated, events.RequestEventPayload{
		RequestType: requestType,
		RequestID:   id,
		Name:        name,
		Email:       email,
		Subject:     subject,
		Status:      status,
	}); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish request created event")
	}
}

func (s *RequestService) enqueueCreated(ctx context.Context, requestType string, payload interface{}) {
	if s.sheetsWorker == nil {
		return
	}
	if err := s.sheetsWorker.EnqueueRequestCreated(ctx, requestType, payload); err != nil {
		s.logger.Error().Err(err).Str("request_type", requestType).Msg("Failed to enqueue request sync")
	}
}

func subjectOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
