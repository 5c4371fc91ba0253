package services

import (
	"context"
	"testing"
	"time"

	"hediye.link/models"
	"hediye.link/pkg/queryparams"
	"hediye.link/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReportService(db *gorm.DB) IReportService {
	return NewReportServiceWith(
		repositories.NewReportRepositoryTx(db),
		repositories.NewEventRepositoryTx(db),
		repositories.NewMediaRepositoryTx(db),
	)
}

func TestCreateReportForEvent(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	reporter := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))

	report, err := svc.CreateReport(context.Background(), reporter.ID, models.ReportTargetTypeEvent, event.ID, "Uygunsuz içerik")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusOpen, report.Status)
	assert.Equal(t, event.ID, report.TargetID)

	// Hedef yoksa şikayet açılmaz.
	_, err = svc.CreateReport(context.Background(), reporter.ID, models.ReportTargetTypeEvent, 999, "Uygunsuz içerik")
	assert.ErrorIs(t, err, ErrReportTargetNotFound)

	// Sebep zorunlu.
	_, err = svc.CreateReport(context.Background(), reporter.ID, models.ReportTargetTypeEvent, event.ID, "")
	assert.ErrorIs(t, err, ErrReportInvalidInput)

	// Bilinmeyen hedef tipi.
	_, err = svc.CreateReport(context.Background(), reporter.ID, models.ReportTargetType("BILINMEYEN"), event.ID, "x")
	assert.ErrorIs(t, err, ErrReportInvalidInput)
}

func TestCreateReportForMedia(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	reporter := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))

	media := models.Media{
		EventID:        event.ID,
		UploaderUserID: planner.ID,
		Kind:           models.MediaKindImage,
		URL:            "https://cdn.example.com/x.jpg",
		ObjectKey:      "events/gallery/x.jpg",
	}
	require.NoError(t, db.Create(&media).Error)

	report, err := svc.CreateReport(context.Background(), reporter.ID, models.ReportTargetTypeMedia, media.ID, "Telif ihlali")
	require.NoError(t, err)
	assert.Equal(t, models.ReportTargetTypeMedia, report.TargetType)

	_, err = svc.CreateReport(context.Background(), reporter.ID, models.ReportTargetTypeMedia, 999, "Telif ihlali")
	assert.ErrorIs(t, err, ErrReportTargetNotFound)
}

func TestResolveReport(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	reporter := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	admin := createTestUser(t, db, "Admin", "admin@example.com", true)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))

	report, err := svc.CreateReport(context.Background(), reporter.ID, models.ReportTargetTypeEvent, event.ID, "Uygunsuz içerik")
	require.NoError(t, err)

	require.NoError(t, svc.ResolveReport(context.Background(), report.ID, admin.ID))

	stored, err := svc.GetReportByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, stored.Status)
	require.NotNil(t, stored.ResolvedAt)
	require.NotNil(t, stored.ResolvedByUserID)
	assert.Equal(t, admin.ID, *stored.ResolvedByUserID)

	// Çözümlenmiş şikayet tekrar çözümlenemez.
	assert.ErrorIs(t, svc.ResolveReport(context.Background(), report.ID, admin.ID), ErrReportAlreadyResolved)

	assert.ErrorIs(t, svc.ResolveReport(context.Background(), 999, admin.ID), ErrReportNotFound)
}

func TestGetAllReportsPaginatedWithStatusFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newReportService(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	reporter := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	admin := createTestUser(t, db, "Admin", "admin@example.com", true)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))

	first, err := svc.CreateReport(context.Background(), reporter.ID, models.ReportTargetTypeEvent, event.ID, "İlk şikayet")
	require.NoError(t, err)
	_, err = svc.CreateReport(context.Background(), reporter.ID, models.ReportTargetTypeEvent, event.ID, "İkinci şikayet")
	require.NoError(t, err)
	require.NoError(t, svc.ResolveReport(context.Background(), first.ID, admin.ID))

	open, err := svc.GetAllReportsPaginated(context.Background(), queryparams.ListParams{Status: string(models.ReportStatusOpen)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), open.Meta.TotalItems)

	all, err := svc.GetAllReportsPaginated(context.Background(), queryparams.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Meta.TotalItems)
}
