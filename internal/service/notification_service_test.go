package service

import (
	"context"
	"testing"

	"eventdesk/internal/database"
	"eventdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationListRerendersFromMetadata(t *testing.T) {
	db := newServiceTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()

	user := &models.User{Email: "ana@x.com", Name: "Ana", PasswordHash: "x"}
	require.NoError(t, db.CreateUser(ctx, user))

	// stored text is stale; metadata identifies the status
	require.NoError(t, db.CreateNotification(ctx, &models.Notification{
		UserID:  user.ID,
		Title:   "old title",
		Message: "old message",
		Metadata: map[string]string{
			models.MetaRequestType: models.RequestTypeContact,
			models.MetaRequestID:   "req-1",
			models.MetaStatus:      models.StatusScheduled,
		},
	}))

	// free-form notification without request metadata stays verbatim
	require.NoError(t, db.CreateNotification(ctx, &models.Notification{
		UserID:  user.ID,
		Title:   "Welcome",
		Message: "Thanks for signing up.",
	}))

	list, unread, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), unread)

	byTitle := map[string]models.Notification{}
	for _, n := range list {
		byTitle[n.Title] = n
	}
	rerendered, ok := byTitle["Update for your contact request"]
	require.True(t, ok)
	assert.Equal(t, "Status changed to: Scheduled.", rerendered.Message)
	assert.Contains(t, byTitle, "Welcome")
}

func TestNotificationMutationsAreScoped(t *testing.T) {
	db := newServiceTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()

	owner := &models.User{Email: "owner@x.com", Name: "O", PasswordHash: "x"}
	require.NoError(t, db.CreateUser(ctx, owner))
	stranger := &models.User{Email: "stranger@x.com", Name: "S", PasswordHash: "x"}
	require.NoError(t, db.CreateUser(ctx, stranger))

	n := &models.Notification{UserID: owner.ID, Title: "t", Message: "m"}
	require.NoError(t, db.CreateNotification(ctx, n))

	assert.ErrorIs(t, svc.MarkRead(ctx, stranger.ID, n.ID), database.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, stranger.ID, n.ID), database.ErrNotFound)

	// delete-all for another user leaves the row alone
	require.NoError(t, svc.DeleteAll(ctx, stranger.ID))
	list, _, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.MarkRead(ctx, owner.ID, n.ID))
	_, unread, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
