package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"eventdesk/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) SetSession(ctx context.Context, session *models.Session, ttl time.Duration) error {
	args := m.Called(ctx, session, ttl)
	return args.Error(0)
}

func (m *mockSessionRepo) GetSession(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockSessionRepo) DeleteSession(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockSessionRepo) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestFailoverSessionRepository(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	t.Run("PrimarySuccess", func(t *testing.T) {
		primary := new(mockSessionRepo)
		fallback := new(mockSessionRepo)
		repo := NewFailoverSessionRepository(primary, fallback, &logger)

		session := &models.Session{Token: "tok", UserID: "u1"}
		primary.On("GetSession", ctx, "tok").Return(session, nil).Once()

		got, err := repo.GetSession(ctx, "tok")
		assert.NoError(t, err)
		assert.Equal(t, session, got)
		primary.AssertExpectations(t)
		fallback.AssertNotCalled(t, "GetSession", ctx, "tok")
	})

	t.Run("FallbackOnPrimaryError", func(t *testing.T) {
		primary := new(mockSessionRepo)
		fallback := new(mockSessionRepo)
		repo := NewFailoverSessionRepository(primary, fallback, &logger)

		session := &models.Session{Token: "tok", UserID: "u1"}
		primary.On("GetSession", ctx, "tok").Return(nil, errors.New("connection refused")).Once()
		fallback.On("GetSession", ctx, "tok").Return(session, nil).Once()

		got, err := repo.GetSession(ctx, "tok")
		assert.NoError(t, err)
		assert.Equal(t, session, got)

		// follow-up calls skip the failed primary entirely
		fallback.On("SetSession", ctx, session, time.Hour).Return(nil).Once()
		assert.NoError(t, repo.SetSession(ctx, session, time.Hour))

		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("DeleteClearsBothStores", func(t *testing.T) {
		primary := new(mockSessionRepo)
		fallback := new(mockSessionRepo)
		repo := NewFailoverSessionRepository(primary, fallback, &logger)

		primary.On("DeleteSession", ctx, "tok").Return(nil).Once()
		fallback.On("DeleteSession", ctx, "tok").Return(nil).Once()

		assert.NoError(t, repo.DeleteSession(ctx, "tok"))
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("RateLimitFallback", func(t *testing.T) {
		primary := new(mockSessionRepo)
		fallback := new(mockSessionRepo)
		repo := NewFailoverSessionRepository(primary, fallback, &logger)

		primary.On("CheckRateLimit", ctx, "key", 5, time.Minute).
			Return(false, errors.New("connection refused")).Once()
		fallback.On("CheckRateLimit", ctx, "key", 5, time.Minute).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, "key", 5, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})
}
