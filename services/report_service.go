package services

import (
	"context"
	"errors"
	"time"

	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/queryparams"
	"hediye.link/repositories"
)

// ReportServiceError özel servis hataları
type ReportServiceError string

func (e ReportServiceError) Error() string { return string(e) }

const (
	ErrReportNotFound        ReportServiceError = "şikayet bulunamadı"
	ErrReportForbidden       ReportServiceError = "bu işlem için yetkiniz yok"
	ErrReportInvalidInput    ReportServiceError = "geçersiz şikayet verisi"
	ErrReportTargetNotFound  ReportServiceError = "şikayet edilen kayıt bulunamadı"
	ErrReportAlreadyResolved ReportServiceError = "şikayet zaten çözümlenmiş"
)

// IReportService şikayet işlemleri için arayüz.
type IReportService interface {
	CreateReport(ctx context.Context, reporterUserID uint, targetType models.ReportTargetType, targetID uint, reason string) (*models.Report, error)
	GetReportByID(ctx context.Context, id uint) (*models.Report, error)
	GetAllReportsPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	ResolveReport(ctx context.Context, reportID, adminUserID uint) error
}

// ReportService IReportService arayüzünü uygular.
type ReportService struct {
	repo      repositories.IReportRepository
	eventRepo repositories.IEventRepository
	mediaRepo repositories.IMediaRepository
}

// NewReportService yeni bir ReportService örneği oluşturur.
func NewReportService() IReportService {
	return &ReportService{
		repo:      repositories.NewReportRepository(),
		eventRepo: repositories.NewEventRepository(),
		mediaRepo: repositories.NewMediaRepository(),
	}
}

// NewReportServiceWith testlerde bağımlılıkları değiştirmek için kullanılır.
func NewReportServiceWith(repo repositories.IReportRepository, eventRepo repositories.IEventRepository, mediaRepo repositories.IMediaRepository) IReportService {
	return &ReportService{repo: repo, eventRepo: eventRepo, mediaRepo: mediaRepo}
}

// targetExists şikayet hedefinin varlığını doğrular.
func (s *ReportService) targetExists(ctx context.Context, targetType models.ReportTargetType, targetID uint) (bool, error) {
	switch targetType {
	case models.ReportTargetTypeEvent:
		_, err := s.eventRepo.FindByID(ctx, targetID)
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return err == nil, err
	case models.ReportTargetTypeMedia:
		_, err := s.mediaRepo.FindByID(ctx, targetID)
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return err == nil, err
	default:
		return false, ErrReportInvalidInput
	}
}

// CreateReport yeni bir şikayet açar. Hedefin varlığı doğrulanır.
func (s *ReportService) CreateReport(ctx context.Context, reporterUserID uint, targetType models.ReportTargetType, targetID uint, reason string) (*models.Report, error) {
	if reporterUserID == 0 || targetID == 0 || reason == "" {
		return nil, ErrReportInvalidInput
	}

	exists, err := s.targetExists(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrReportTargetNotFound
	}

	report := models.Report{
		ReporterUserID: reporterUserID,
		TargetType:     targetType,
		TargetID:       targetID,
		Reason:         reason,
		Status:         models.ReportStatusOpen,
	}
	txCtx := models.ContextWithUserID(ctx, reporterUserID)
	if err := s.repo.Create(txCtx, &report); err != nil {
		return nil, err
	}

	configslog.SLog.Infof("Şikayet açıldı: %s %d (Bildiren: %d)", targetType, targetID, reporterUserID)
	return &report, nil
}

// GetReportByID şikayeti getirir.
func (s *ReportService) GetReportByID(ctx context.Context, id uint) (*models.Report, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// GetAllReportsPaginated şikayetleri sayfalayarak getirir (admin için).
func (s *ReportService) GetAllReportsPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()

	reports, total, err := s.repo.FindAllPaginated(ctx, params)
	if err != nil {
		return nil, err
	}

	return &queryparams.PaginatedResult{
		Data: reports,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page, PerPage: params.PerPage,
			TotalItems: total, TotalPages: queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

// ResolveReport açık şikayeti çözümlenmiş olarak işaretler (admin için).
func (s *ReportService) ResolveReport(ctx context.Context, reportID, adminUserID uint) error {
	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReportNotFound
		}
		return err
	}
	if report.Status == models.ReportStatusResolved {
		return ErrReportAlreadyResolved
	}

	txCtx := models.ContextWithUserID(ctx, adminUserID)
	if err := s.repo.Resolve(txCtx, reportID, adminUserID, time.Now().UTC()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReportAlreadyResolved
		}
		return err
	}

	configslog.SLog.Infof("Şikayet çözümlendi: ID %d (Admin: %d)", reportID, adminUserID)
	return nil
}

var _ IReportService = (*ReportService)(nil)
