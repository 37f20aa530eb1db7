package repository

import (
	"context"
	"testing"
	"time"

	"eventdesk/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	t.Run("SetAndGetSession", func(t *testing.T) {
		session := &models.Session{
			Token:     "tok-abc",
			UserID:    "user-1",
			Role:      models.RoleCustomer,
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}

		err := repo.SetSession(ctx, session, time.Hour)
		require.NoError(t, err)

		got, err := repo.GetSession(ctx, "tok-abc")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, session.UserID, got.UserID)
		assert.Equal(t, session.Role, got.Role)
	})

	t.Run("GetNonExistentSession", func(t *testing.T) {
		got, err := repo.GetSession(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("SessionExpiry", func(t *testing.T) {
		session := &models.Session{Token: "tok-ttl", UserID: "user-2"}
		require.NoError(t, repo.SetSession(ctx, session, time.Minute))

		s.FastForward(2 * time.Minute)

		got, err := repo.GetSession(ctx, "tok-ttl")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("DeleteSession", func(t *testing.T) {
		session := &models.Session{Token: "tok-del", UserID: "user-3"}
		require.NoError(t, repo.SetSession(ctx, session, time.Hour))

		require.NoError(t, repo.DeleteSession(ctx, "tok-del"))

		got, _ := repo.GetSession(ctx, "tok-del")
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		key := "10.0.0.1"
		limit := 2
		window := time.Second

		allowed, err := repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)

		// window resets
		s.FastForward(2 * time.Second)
		allowed, err = repo.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRedisSessionRepositoryNilClient(t *testing.T) {
	repo := NewRedisSessionRepository(nil)
	ctx := context.Background()

	_, err := repo.GetSession(ctx, "tok")
	assert.Error(t, err)
	err = repo.SetSession(ctx, &models.Session{Token: "tok"}, time.Hour)
	assert.Error(t, err)
	err = repo.DeleteSession(ctx, "tok")
	assert.Error(t, err)
	_, err = repo.CheckRateLimit(ctx, "key", 1, time.Second)
	assert.Error(t, err)
}
