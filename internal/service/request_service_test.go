package service

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"eventdesk/internal/database"
	"eventdesk/internal/events"
	"eventdesk/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSyncWorker struct {
	mock.Mock
}

func (m *mockSyncWorker) EnqueueRequestCreated(ctx context.Context, requestType string, payload interface{}) error {
	args := m.Called(ctx, requestType, payload)
	return args.Error(0)
}

func (m *mockSyncWorker) EnqueueStatusChanged(ctx context.Context, requestType, requestID, status string) error {
	args := m.Called(ctx, requestType, requestID, status)
	return args.Error(0)
}

func testLogger() *zerolog.Logger {
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	return &logger
}

func newServiceTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewDB(":memory:", testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSubmitContactRequestPublishesAndEnqueues(t *testing.T) {
	db := newServiceTestDB(t)
	bus := events.NewEventBus()
	worker := new(mockSyncWorker)
	svc := NewRequestService(db, bus, worker, testLogger())
	ctx := context.Background()

	var published []events.RequestEventPayload
	bus.Subscribe(events.EventRequestCreated, func(event *events.Event) error {
		var p events.RequestEventPayload
		require.NoError(t, json.Unmarshal(event.Payload, &p))
		published = append(published, p)
		return nil
	})

	worker.On("EnqueueRequestCreated", ctx, models.RequestTypeContact, mock.Anything).Return(nil).Once()

	req := &models.ContactRequest{Name: "Ana", Email: "ana@x.com", Message: "hello event team"}
	require.NoError(t, svc.SubmitContactRequest(ctx, req))

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, models.StatusNew, req.Status)
	require.Len(t, published, 1)
	assert.Equal(t, req.ID, published[0].RequestID)
	assert.Equal(t, "ana@x.com", published[0].Email)
	worker.AssertExpectations(t)
}

func TestSubmitQuoteRequestScenario(t *testing.T) {
	db := newServiceTestDB(t)
	bus := events.NewEventBus()
	worker := new(mockSyncWorker)
	svc := NewRequestService(db, bus, worker, testLogger())
	notifications := NewNotificationService(db)
	ctx := context.Background()

	worker.On("EnqueueRequestCreated", ctx, models.RequestTypeQuote, mock.Anything).Return(nil).Once()
	worker.On("EnqueueStatusChanged", ctx, models.RequestTypeQuote, mock.Anything, models.StatusApproved).Return(nil).Once()

	user := &models.User{Email: "ana@x.com", Name: "Ana", PasswordHash: "x"}
	require.NoError(t, db.CreateUser(ctx, user))

	guests := int64(80)
	req := &models.QuoteRequest{
		UserID:     &user.ID,
		Name:       "Ana",
		Email:      "ana@x.com",
		EventType:  "Wedding",
		GuestCount: &guests,
	}
	require.NoError(t, svc.SubmitQuoteRequest(ctx, req))
	assert.Equal(t, models.StatusNew, req.Status)

	ref, err := svc.UpdateStatus(ctx, models.RequestTypeQuote, req.ID, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, ref.Status)

	list, unread, err := notifications.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, "Status changed to: Approved.", list[0].Message)
	worker.AssertExpectations(t)
}

func TestUpdateStatusSameStatusSkipsFanout(t *testing.T) {
	db := newServiceTestDB(t)
	bus := events.NewEventBus()
	worker := new(mockSyncWorker)
	svc := NewRequestService(db, bus, worker, testLogger())
	ctx := context.Background()

	worker.On("EnqueueRequestCreated", ctx, models.RequestTypeContact, mock.Anything).Return(nil).Once()
	// exactly one status sync despite two update calls
	worker.On("EnqueueStatusChanged", ctx, models.RequestTypeContact, mock.Anything, models.StatusInReview).Return(nil).Once()

	var statusEvents int
	bus.Subscribe(events.EventRequestStatusChanged, func(event *events.Event) error {
		statusEvents++
		return nil
	})

	req := &models.ContactRequest{Name: "Ana", Email: "ana@x.com", Message: "hello event team"}
	require.NoError(t, svc.SubmitContactRequest(ctx, req))

	ref, err := svc.UpdateStatus(ctx, models.RequestTypeContact, req.ID, models.StatusInReview)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInReview, ref.Status)

	ref, err = svc.UpdateStatus(ctx, models.RequestTypeContact, req.ID, models.StatusInReview)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInReview, ref.Status)

	assert.Equal(t, 1, statusEvents)
	worker.AssertExpectations(t)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	db := newServiceTestDB(t)
	worker := new(mockSyncWorker)
	svc := NewRequestService(db, events.NewEventBus(), worker, testLogger())
	ctx := context.Background()

	worker.On("EnqueueRequestCreated", ctx, models.RequestTypeContact, mock.Anything).Return(nil).Once()
	worker.On("EnqueueStatusChanged", ctx, models.RequestTypeContact, mock.Anything, models.StatusDone).Return(nil).Once()

	req := &models.ContactRequest{Name: "Ana", Email: "ana@x.com", Message: "hello event team"}
	require.NoError(t, svc.SubmitContactRequest(ctx, req))

	_, err := svc.UpdateStatus(ctx, models.RequestTypeContact, req.ID, models.StatusDone)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, models.RequestTypeContact, req.ID, models.StatusInReview)
	assert.ErrorIs(t, err, database.ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, models.RequestTypeContact, "missing", models.StatusDone)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
