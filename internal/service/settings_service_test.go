package service

import (
	"context"
	"testing"
	"time"

	"eventdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsServeCachedUntilUpdate(t *testing.T) {
	db := newServiceTestDB(t)
	svc := NewSettingsService(db, time.Hour)
	ctx := context.Background()

	first, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EventDesk", first.BrandName)

	// direct store write is invisible while the cache is warm
	require.NoError(t, db.UpsertSettings(ctx, &models.SiteSettings{BrandName: "Sneaky"}))
	cached, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EventDesk", cached.BrandName)

	// an update through the service invalidates the cache
	require.NoError(t, svc.Update(ctx, &models.SiteSettings{BrandName: "Nordlys Events"}))
	fresh, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nordlys Events", fresh.BrandName)
}

func TestSettingsCacheExpiry(t *testing.T) {
	db := newServiceTestDB(t)
	svc := NewSettingsService(db, time.Millisecond)
	ctx := context.Background()

	_, err := svc.Get(ctx)
	require.NoError(t, err)

	require.NoError(t, db.UpsertSettings(ctx, &models.SiteSettings{BrandName: "Expired"}))
	time.Sleep(5 * time.Millisecond)

	fresh, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Expired", fresh.BrandName)
}
