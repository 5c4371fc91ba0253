package repositories

import (
	"context"
	"errors"
	"time"

	"hediye.link/configs/configsdatabase"
	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IReportRepository şikayet veritabanı işlemleri için arayüz.
type IReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	FindByID(ctx context.Context, id uint) (*models.Report, error)
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Report, int64, error)
	Resolve(ctx context.Context, id uint, resolvedByUserID uint, resolvedAt time.Time) error
}

// ReportRepository IReportRepository arayüzünü uygular.
type ReportRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.Report]
}

// NewReportRepository yeni bir ReportRepository örneği oluşturur.
func NewReportRepository() IReportRepository {
	return newReportRepository(configsdatabase.GetDB())
}

// NewReportRepositoryTx transaction'lı örnek oluşturur.
func NewReportRepositoryTx(tx *gorm.DB) IReportRepository {
	return newReportRepository(tx)
}

func newReportRepository(db *gorm.DB) *ReportRepository {
	base := NewBaseRepository[models.Report](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "status", "target_type"})
	return &ReportRepository{db: db, base: base}
}

func (r *ReportRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Create yeni bir şikayet kaydı oluşturur.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report == nil || report.ReporterUserID == 0 || report.TargetID == 0 {
		return errors.New("geçersiz şikayet verisi")
	}
	return r.getDB(ctx).Create(report).Error
}

// FindByID şikayeti bildiren kullanıcıyla birlikte getirir.
func (r *ReportRepository) FindByID(ctx context.Context, id uint) (*models.Report, error) {
	if id == 0 {
		return nil, errors.New("geçersiz şikayet ID")
	}
	var report models.Report
	err := r.getDB(ctx).Preload("Reporter").First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ReportRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &report, nil
}

// FindAllPaginated şikayetleri (istenirse duruma göre) sayfalayarak getirir.
func (r *ReportRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Report, int64, error) {
	db := r.getDB(ctx).Model(&models.Report{})
	if params.Status != "" {
		db = db.Where("status = ?", params.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	err := r.base.Paginate(db, params).
		Order(r.base.OrderClause(params, "created_at")).
		Preload("Reporter").
		Find(&reports).Error
	if err != nil {
		configslog.Log.Error("ReportRepository.FindAllPaginated: DB error", zap.Error(err))
		return nil, 0, err
	}
	return reports, total, nil
}

// Resolve şikayeti çözümlenmiş olarak işaretler.
func (r *ReportRepository) Resolve(ctx context.Context, id uint, resolvedByUserID uint, resolvedAt time.Time) error {
	if id == 0 || resolvedByUserID == 0 {
		return errors.New("geçersiz çözümleme isteği")
	}
	result := r.getDB(ctx).Model(&models.Report{}).
		Where("id = ? AND status = ?", id, models.ReportStatusOpen).
		Updates(map[string]any{
			"status":              models.ReportStatusResolved,
			"resolved_by_user_id": resolvedByUserID,
			"resolved_at":         resolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IReportRepository = (*ReportRepository)(nil)
