package service

import (
	"context"

	"eventdesk/internal/database"
	"eventdesk/internal/models"
)

type CatalogService struct {
	db *database.DB
}

func NewCatalogService(db *database.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListPublishedEvents(ctx context.Context, category string, limit int) ([]models.Event, error) {
	return s.db.ListEvents(ctx, database.EventFilter{
		Category:      category,
		Limit:         limit,
		PublishedOnly: true,
	})
}

func (s *CatalogService) ListAllEvents(ctx context.Context) ([]models.Event, error) {
	return s.db.ListEvents(ctx, database.EventFilter{})
}

func (s *CatalogService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.db.GetEvent(ctx, id)
}

func (s *CatalogService) CreateEvent(ctx context.Context, event *models.Event) error {
	return s.db.CreateEvent(ctx, event)
}

func (s *CatalogService) UpdateEvent(ctx context.Context, event *models.Event) error {
	return s.db.UpdateEvent(ctx, event)
}

func (s *CatalogService) DeleteEvent(ctx context.Context, id string) error {
	return s.db.DeleteEvent(ctx, id)
}

func (s *CatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	return s.db.GetService(ctx, id)
}

func (s *CatalogService) ListActiveServices(ctx context.Context) ([]models.Service, error) {
	return s.db.ListServices(ctx, true)
}

func (s *CatalogService) ListAllServices(ctx context.Context) ([]models.Service, error) {
	return s.db.ListServices(ctx, false)
}

func (s *CatalogService) CreateService(ctx context.Context, svc *models.Service) error {
	return s.db.CreateService(ctx, svc)
}

func (s *CatalogService) UpdateService(ctx context.Context, svc *models.Service) error {
	return s.db.UpdateService(ctx, svc)
}

func (s *CatalogService) DeleteService(ctx context.Context, id string) error {
	return s.db.DeleteService(ctx, id)
}
