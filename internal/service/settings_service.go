package service

import (
	"context"
	"sync"
	"time"

	"eventdesk/internal/database"
	"eventdesk/internal/models"
)

// SettingsService caches the settings row set in-process for a short TTL so
// public pages don't hit sqlite on every render.
type SettingsService struct {
	db  *database.DB
	ttl time.Duration

	mu        sync.RWMutex
	cached    *models.SiteSettings
	expiresAt time.Time
}

func NewSettingsService(db *database.DB, ttl time.Duration) *SettingsService {
	if ttl <= 0 {
		ttl = models.SettingsCacheTTL * time.Second
	}
	return &SettingsService{db: db, ttl: ttl}
}

func (s *SettingsService) Get(ctx context.Context) (*models.SiteSettings, error) {
	s.mu.RLock()
	if s.cached != nil && time.Now().Before(s.expiresAt) {
		cached := *s.cached
		s.mu.RUnlock()
		return &cached, nil
	}
	s.mu.RUnlock()

	settings, err := s.db.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = settings
	s.expiresAt = time.Now().Add(s.ttl)
	s.mu.Unlock()

	copied := *settings
	return &copied, nil
}

func (s *SettingsService) Update(ctx context.Context, settings *models.SiteSettings) error {
	if err := s.db.UpsertSettings(ctx, settings); err != nil {
		return err
	}

	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
	return nil
}
