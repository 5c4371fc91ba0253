package services

import (
	"context"
	"testing"
	"time"

	"hediye.link/models"
	"hediye.link/pkg/linkkey"
	"hediye.link/pkg/queryparams"
	"hediye.link/pkg/requests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventGeneratesInviteKey(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventServiceWith(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)

	event, err := svc.CreateEvent(context.Background(), planner.ID, requests.EventRequest{
		Title:         "Doğum Günü",
		Description:   "30. yaş kutlaması",
		EventDateTime: time.Now().Add(72 * time.Hour),
		Timezone:      "Europe/Istanbul",
		LocationText:  "Kadıköy",
	})
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.True(t, linkkey.IsValid(event.InviteKey))
	assert.True(t, event.IsEnabled)
	assert.Equal(t, "Europe/Istanbul", event.Timezone)
	assert.Nil(t, event.PayoutCompletedAt)

	// Zaman zorunlu.
	_, err = svc.CreateEvent(context.Background(), planner.ID, requests.EventRequest{Title: "Eksik"})
	assert.ErrorIs(t, err, ErrEventInvalidInput)
}

func TestGetEventByInviteKey(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventServiceWith(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))

	found, err := svc.GetEventByInviteKey(context.Background(), event.InviteKey)
	require.NoError(t, err)
	assert.Equal(t, event.ID, found.ID)
	assert.Equal(t, planner.Name, found.Planner.Name)

	// Formatı bozuk anahtar veritabanına gitmeden reddedilir.
	_, err = svc.GetEventByInviteKey(context.Background(), "gecersiz!")
	assert.ErrorIs(t, err, ErrEventNotFound)

	// Var olmayan anahtar.
	key, kerr := linkkey.Generate()
	require.NoError(t, kerr)
	_, err = svc.GetEventByInviteKey(context.Background(), key)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestGetEventByInviteKeyHidesDisabledEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventServiceWith(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", event.ID).
		Update("is_enabled", false).Error)

	// Devre dışı etkinlik anahtarın varlığını dışarı sızdırmaz.
	_, err := svc.GetEventByInviteKey(context.Background(), event.InviteKey)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestGetEventByIDAuthorization(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventServiceWith(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	guest := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	stranger := createTestUser(t, db, "Veli", "veli@example.com", false)
	admin := createTestUser(t, db, "Admin", "admin@example.com", true)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))
	createTestInvitation(t, db, event.ID, guest.ID, models.InvitationStatusPending)

	_, err := svc.GetEventByID(context.Background(), event.ID, planner.ID)
	assert.NoError(t, err)

	// Davetli (henüz yanıtlamamış olsa da) etkinliği görebilir.
	_, err = svc.GetEventByID(context.Background(), event.ID, guest.ID)
	assert.NoError(t, err)

	_, err = svc.GetEventByID(context.Background(), event.ID, admin.ID)
	assert.NoError(t, err)

	_, err = svc.GetEventByID(context.Background(), event.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrEventForbidden)

	_, err = svc.GetEventByID(context.Background(), 999, planner.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUpdateEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventServiceWith(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	stranger := createTestUser(t, db, "Veli", "veli@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))

	disabled := false
	req := requests.EventRequest{
		Title:         "Yeni Başlık",
		EventDateTime: time.Now().Add(96 * time.Hour),
		LocationText:  "Moda Sahili",
		IsEnabled:     &disabled,
	}

	assert.ErrorIs(t, svc.UpdateEvent(context.Background(), event.ID, stranger.ID, req), ErrEventForbidden)

	require.NoError(t, svc.UpdateEvent(context.Background(), event.ID, planner.ID, req))

	var stored models.Event
	require.NoError(t, db.First(&stored, event.ID).Error)
	assert.Equal(t, "Yeni Başlık", stored.Title)
	assert.Equal(t, "Moda Sahili", stored.LocationText)
	assert.False(t, stored.IsEnabled)
	assert.Equal(t, event.InviteKey, stored.InviteKey, "davet anahtarı güncellemeyle değişmez")
}

func TestDeleteEventCascadesToRelatedRecords(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventServiceWith(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	guest := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))
	createTestInvitation(t, db, event.ID, guest.ID, models.InvitationStatusAccepted)
	createTestArticle(t, db, event.ID, 10000, 1)

	require.NoError(t, svc.DeleteEvent(context.Background(), event.ID, planner.ID))

	var events, invitations, articles int64
	require.NoError(t, db.Model(&models.Event{}).Where("deleted_at IS NULL").Count(&events).Error)
	require.NoError(t, db.Model(&models.Invitation{}).Where("deleted_at IS NULL").Count(&invitations).Error)
	require.NoError(t, db.Model(&models.EventArticle{}).Where("deleted_at IS NULL").Count(&articles).Error)
	assert.Zero(t, events)
	assert.Zero(t, invitations)
	assert.Zero(t, articles)

	// Silinen etkinlik tekrar silinemez.
	assert.ErrorIs(t, svc.DeleteEvent(context.Background(), event.ID, planner.ID), ErrEventNotFound)
}

func TestGetEventsForPlannerPaginated(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventServiceWith(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	other := createTestUser(t, db, "Veli", "veli@example.com", false)
	for i := 0; i < 3; i++ {
		createTestEvent(t, db, planner.ID, "Etkinlik", time.Now().Add(24*time.Hour))
	}
	createTestEvent(t, db, other.ID, "Başkasının Etkinliği", time.Now().Add(24*time.Hour))

	result, err := svc.GetEventsForPlanner(context.Background(), planner.ID, queryparams.ListParams{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Meta.TotalItems)
	assert.Equal(t, 2, result.Meta.TotalPages)

	events, ok := result.Data.([]models.Event)
	require.True(t, ok)
	assert.Len(t, events, 2)

	count, err := svc.GetEventCountForPlanner(context.Background(), planner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
