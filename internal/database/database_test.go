package database

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func createTestUser(t *testing.T, db *DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: "Test User", PasswordHash: "x", Role: role}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func TestCreateContactRequest(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	req := &models.ContactRequest{
		Name:    "Ana",
		Email:   "ana@example.com",
		Message: "We need help planning a launch event.",
		Subject: strPtr("Product launch"),
	}
	require.NoError(t, db.CreateContactRequest(ctx, req))

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, models.StatusNew, req.Status)

	got, err := db.GetContactRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Nil(t, got.UserID)
	require.NotNil(t, got.Subject)
	assert.Equal(t, "Product launch", *got.Subject)
}

func TestGetContactRequestNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetContactRequest(context.Background(), "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRequestStatusCreatesNotification(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "ana@example.com", models.RoleCustomer)
	req := &models.QuoteRequest{
		UserID:    &user.ID,
		Name:      "Ana",
		Email:     user.Email,
		EventType: "wedding",
	}
	require.NoError(t, db.CreateQuoteRequest(ctx, req))

	ref, changed, err := db.UpdateRequestStatus(ctx, models.RequestTypeQuote, req.ID, models.StatusInReview)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.StatusInReview, ref.Status)

	notifications, unread, err := db.ListNotifications(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, int64(1), unread)

	n := notifications[0]
	assert.Equal(t, "Update for your quote request", n.Title)
	assert.Equal(t, "Status changed to: In review.", n.Message)
	assert.Equal(t, models.NotificationTargetURL, n.TargetURL)
	assert.Equal(t, req.ID, n.Metadata[models.MetaRequestID])
	assert.Equal(t, models.RequestTypeQuote, n.Metadata[models.MetaRequestType])
	assert.Equal(t, models.StatusInReview, n.Metadata[models.MetaStatus])
}

func TestUpdateRequestStatusAnonymousSkipsNotification(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	req := &models.ContactRequest{Name: "Walk-in", Email: "walkin@example.com", Message: "hello there"}
	require.NoError(t, db.CreateContactRequest(ctx, req))

	ref, _, err := db.UpdateRequestStatus(ctx, models.RequestTypeContact, req.ID, models.StatusApproved)
	require.NoError(t, err)
	assert.Nil(t, ref.UserID)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM notifications").Scan(&count))
	assert.Zero(t, count)
}

func TestUpdateRequestStatusInvalidTransition(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	req := &models.ContactRequest{Name: "Ana", Email: "ana@example.com", Message: "short note ok"}
	require.NoError(t, db.CreateContactRequest(ctx, req))

	_, _, err := db.UpdateRequestStatus(ctx, models.RequestTypeContact, req.ID, models.StatusRejected)
	require.NoError(t, err)

	// rejected is terminal
	_, _, err = db.UpdateRequestStatus(ctx, models.RequestTypeContact, req.ID, models.StatusApproved)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// unknown statuses don't reach the database
	_, _, err = db.UpdateRequestStatus(ctx, models.RequestTypeContact, req.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	got, err := db.GetContactRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)
}

func TestUpdateRequestStatusSameStatusNoDuplicateNotification(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "ana@example.com", models.RoleCustomer)
	req := &models.ContactRequest{UserID: &user.ID, Name: "Ana", Email: user.Email, Message: "hello hello"}
	require.NoError(t, db.CreateContactRequest(ctx, req))

	_, changed, err := db.UpdateRequestStatus(ctx, models.RequestTypeContact, req.ID, models.StatusInReview)
	require.NoError(t, err)
	assert.True(t, changed)
	_, changed, err = db.UpdateRequestStatus(ctx, models.RequestTypeContact, req.ID, models.StatusInReview)
	require.NoError(t, err)
	assert.False(t, changed)

	notifications, _, err := db.ListNotifications(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestListRequestsMergedAndFiltered(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	contact := &models.ContactRequest{Name: "Boris", Email: "boris@example.com", Message: "contact body"}
	require.NoError(t, db.CreateContactRequest(ctx, contact))
	quote := &models.QuoteRequest{Name: "Ana", Email: "ana@example.com", EventType: "conference"}
	require.NoError(t, db.CreateQuoteRequest(ctx, quote))

	all, err := db.ListRequests(ctx, RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	quotes, err := db.ListRequests(ctx, RequestFilter{Kind: models.RequestTypeQuote})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "conference", quotes[0].Subject)

	_, _, err = db.UpdateRequestStatus(ctx, models.RequestTypeContact, contact.ID, models.StatusDone)
	require.NoError(t, err)

	done, err := db.ListRequests(ctx, RequestFilter{Status: models.StatusDone})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, contact.ID, done[0].ID)

	byName, err := db.ListRequests(ctx, RequestFilter{Query: "boris"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, models.RequestTypeContact, byName[0].Type)
}

func TestListRequestsQueryMatchesSubject(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	contact := &models.ContactRequest{
		Name:    "Boris",
		Email:   "boris@example.com",
		Subject: strPtr("Corporate retreat"),
		Message: "something offsite in autumn",
	}
	require.NoError(t, db.CreateContactRequest(ctx, contact))
	quote := &models.QuoteRequest{Name: "Ana", Email: "ana@example.com", EventType: "Wedding"}
	require.NoError(t, db.CreateQuoteRequest(ctx, quote))

	byEventType, err := db.ListRequests(ctx, RequestFilter{Query: "wedding"})
	require.NoError(t, err)
	require.Len(t, byEventType, 1)
	assert.Equal(t, quote.ID, byEventType[0].ID)

	bySubject, err := db.ListRequests(ctx, RequestFilter{Query: "corporate"})
	require.NoError(t, err)
	require.Len(t, bySubject, 1)
	assert.Equal(t, contact.ID, bySubject[0].ID)

	// message bodies are not part of the free-text match
	none, err := db.ListRequests(ctx, RequestFilter{Query: "offsite"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListRequestsLimitAppliesPerTable(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		req := &models.ContactRequest{Name: "Bulk", Email: "bulk@example.com", Message: "one of many rows"}
		require.NoError(t, db.CreateContactRequest(ctx, req))
	}
	quote := &models.QuoteRequest{Name: "Ana", Email: "ana@example.com", EventType: "conference"}
	require.NoError(t, db.CreateQuoteRequest(ctx, quote))

	// a flood of contact rows must not push quotes out of the merged list
	merged, err := db.ListRequests(ctx, RequestFilter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, merged, 4)

	var quoteSeen bool
	for _, row := range merged {
		if row.Type == models.RequestTypeQuote {
			quoteSeen = true
		}
	}
	assert.True(t, quoteSeen)
}

func TestNotificationOwnership(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com", models.RoleCustomer)
	other := createTestUser(t, db, "other@example.com", models.RoleCustomer)

	n := &models.Notification{UserID: owner.ID, Title: "t", Message: "m"}
	require.NoError(t, db.CreateNotification(ctx, n))

	// another user cannot see or touch it
	err := db.MarkNotificationRead(ctx, other.ID, n.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	err = db.DeleteNotification(ctx, other.ID, n.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.MarkNotificationRead(ctx, owner.ID, n.ID))
	_, unread, err := db.ListNotifications(ctx, owner.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestMarkAllNotificationsReadIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "user@example.com", models.RoleCustomer)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.CreateNotification(ctx, &models.Notification{
			UserID: user.ID, Title: "t", Message: "m",
		}))
	}

	require.NoError(t, db.MarkAllNotificationsRead(ctx, user.ID))
	require.NoError(t, db.MarkAllNotificationsRead(ctx, user.ID))

	_, unread, err := db.ListNotifications(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	createTestUser(t, db, "dup@example.com", models.RoleCustomer)
	err := db.CreateUser(ctx, &models.User{Email: "dup@example.com", Name: "Again", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateUserRole(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "promote@example.com", models.RoleCustomer)
	require.NoError(t, db.UpdateUserRole(ctx, user.ID, models.RoleAdmin))

	got, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	err = db.UpdateUserRole(ctx, "missing-id", models.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettingsDefaultsAndUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	settings, err := db.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EventDesk", settings.BrandName)
	assert.Empty(t, settings.ContactEmail)

	settings.BrandName = "Nordlys Events"
	settings.ContactEmail = "hello@nordlys.no"
	require.NoError(t, db.UpsertSettings(ctx, settings))

	got, err := db.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nordlys Events", got.BrandName)
	assert.Equal(t, "hello@nordlys.no", got.ContactEmail)

	// second write overwrites
	got.ContactEmail = "post@nordlys.no"
	require.NoError(t, db.UpsertSettings(ctx, got))
	again, err := db.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "post@nordlys.no", again.ContactEmail)
}

func TestCatalogCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	event := &models.Event{
		Title:       "Summer Gala",
		Slug:        "summer-gala",
		Category:    strPtr("gala"),
		IsPublished: true,
	}
	require.NoError(t, db.CreateEvent(ctx, event))

	err := db.CreateEvent(ctx, &models.Event{Title: "Other", Slug: "summer-gala"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	draft := &models.Event{Title: "Draft", Slug: "draft-event"}
	require.NoError(t, db.CreateEvent(ctx, draft))

	public, err := db.ListEvents(ctx, EventFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Summer Gala", public[0].Title)

	byCategory, err := db.ListEvents(ctx, EventFilter{Category: "gala"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	event.IsPublished = false
	require.NoError(t, db.UpdateEvent(ctx, event))
	public, err = db.ListEvents(ctx, EventFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Empty(t, public)

	require.NoError(t, db.DeleteEvent(ctx, event.ID))
	_, err = db.GetEvent(ctx, event.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServicesOrdering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	second := &models.Service{Name: "Catering", SortOrder: 2, IsActive: true}
	first := &models.Service{Name: "Venue scouting", SortOrder: 1, IsActive: true}
	hidden := &models.Service{Name: "Legacy package", SortOrder: 0, IsActive: false}
	for _, svc := range []*models.Service{second, first, hidden} {
		require.NoError(t, db.CreateService(ctx, svc))
	}

	active, err := db.ListServices(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Venue scouting", active[0].Name)

	all, err := db.ListServices(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSyncQueueLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	task := &models.SyncTask{
		TaskType:    "sheets_sync",
		RequestType: models.RequestTypeContact,
		RequestID:   "req-1",
		Payload:     `{"name":"Ana"}`,
	}
	require.NoError(t, db.CreateSyncTask(ctx, task))
	assert.NotZero(t, task.ID)

	pending, err := db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, db.UpdateSyncTaskStatus(ctx, task.ID, "completed", 0, "", nil))
	pending, err = db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
