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

// IContributionRepository katkı veritabanı işlemleri için arayüz.
type IContributionRepository interface {
	Create(ctx context.Context, contribution *models.Contribution) error
	FindByID(ctx context.Context, id uint) (*models.Contribution, error)
	FindAllByArticleID(ctx context.Context, articleID uint) ([]models.Contribution, error)
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Contribution, int64, error)
	FindUnsettledByEventID(ctx context.Context, eventID uint) ([]models.Contribution, error)
	SumByArticleID(ctx context.Context, articleID uint) (int64, error)
	MarkSettled(ctx context.Context, ids []uint, settledAt time.Time) error
	Delete(ctx context.Context, contribution *models.Contribution, deletedByUserID uint) error
}

// ContributionRepository IContributionRepository arayüzünü uygular.
type ContributionRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.Contribution]
}

// NewContributionRepository yeni bir ContributionRepository örneği oluşturur.
func NewContributionRepository() IContributionRepository {
	return newContributionRepository(configsdatabase.GetDB())
}

// NewContributionRepositoryTx transaction'lı örnek oluşturur.
func NewContributionRepositoryTx(tx *gorm.DB) IContributionRepository {
	return newContributionRepository(tx)
}

func newContributionRepository(db *gorm.DB) *ContributionRepository {
	base := NewBaseRepository[models.Contribution](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "contributed_at", "amount_cents"})
	return &ContributionRepository{db: db, base: base}
}

func (r *ContributionRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Create yeni bir katkı kaydı oluşturur.
func (r *ContributionRepository) Create(ctx context.Context, contribution *models.Contribution) error {
	if contribution == nil || contribution.EventArticleID == 0 || contribution.AmountCents <= 0 {
		return errors.New("geçersiz katkı verisi")
	}
	return r.getDB(ctx).Create(contribution).Error
}

// FindByID katkıyı makale ve katkıda bulunanla birlikte getirir.
func (r *ContributionRepository) FindByID(ctx context.Context, id uint) (*models.Contribution, error) {
	if id == 0 {
		return nil, errors.New("geçersiz katkı ID")
	}
	var contribution models.Contribution
	err := r.getDB(ctx).Preload("EventArticle.Item").Preload("Contributor").First(&contribution, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ContributionRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &contribution, nil
}

// FindAllByArticleID makaleye yapılan tüm katkıları getirir.
func (r *ContributionRepository) FindAllByArticleID(ctx context.Context, articleID uint) ([]models.Contribution, error) {
	if articleID == 0 {
		return nil, errors.New("geçersiz makale ID")
	}
	var contributions []models.Contribution
	err := r.getDB(ctx).Where("event_article_id = ?", articleID).
		Preload("Contributor").
		Order("contributed_at asc").
		Find(&contributions).Error
	if err != nil {
		configslog.Log.Error("ContributionRepository.FindAllByArticleID: DB error", zap.Uint("articleID", articleID), zap.Error(err))
		return nil, err
	}
	return contributions, nil
}

// FindAllPaginated tüm katkıları sayfalayarak getirir (yönetim listesi için).
func (r *ContributionRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Contribution, int64, error) {
	db := r.getDB(ctx).Model(&models.Contribution{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contributions []models.Contribution
	err := r.base.Paginate(db, params).
		Order(r.base.OrderClause(params, "created_at")).
		Preload("Contributor").
		Preload("EventArticle.Item").
		Preload("EventArticle.Event").
		Find(&contributions).Error
	if err != nil {
		configslog.Log.Error("ContributionRepository.FindAllPaginated: DB error", zap.Error(err))
		return nil, 0, err
	}
	return contributions, total, nil
}

// FindUnsettledByEventID etkinliğin henüz transfer edilmemiş katkılarını getirir.
func (r *ContributionRepository) FindUnsettledByEventID(ctx context.Context, eventID uint) ([]models.Contribution, error) {
	if eventID == 0 {
		return nil, errors.New("geçersiz etkinlik ID")
	}
	var contributions []models.Contribution
	err := r.getDB(ctx).
		Joins("JOIN event_articles ON event_articles.id = contributions.event_article_id").
		Where("event_articles.event_id = ? AND contributions.settled_at IS NULL", eventID).
		Preload("EventArticle.Item").
		Find(&contributions).Error
	if err != nil {
		configslog.Log.Error("ContributionRepository.FindUnsettledByEventID: DB error", zap.Uint("eventID", eventID), zap.Error(err))
		return nil, err
	}
	return contributions, nil
}

// SumByArticleID makaleye yapılan katkıların toplamını (kuruş) döndürür.
func (r *ContributionRepository) SumByArticleID(ctx context.Context, articleID uint) (int64, error) {
	if articleID == 0 {
		return 0, errors.New("geçersiz makale ID")
	}
	var total int64
	err := r.getDB(ctx).Model(&models.Contribution{}).
		Where("event_article_id = ? AND deleted_at IS NULL", articleID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	if err != nil {
		configslog.Log.Error("ContributionRepository.SumByArticleID: DB error", zap.Uint("articleID", articleID), zap.Error(err))
		return 0, err
	}
	return total, nil
}

// MarkSettled katkıları transfer edilmiş olarak işaretler.
func (r *ContributionRepository) MarkSettled(ctx context.Context, ids []uint, settledAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.getDB(ctx).Model(&models.Contribution{}).
		Where("id IN ?", ids).
		Update("settled_at", settledAt).Error
}

// Delete katkıyı soft delete eder (reddetme/iade aksiyonu; sağlayıcıya iade çağrısı yapılmaz).
func (r *ContributionRepository) Delete(ctx context.Context, contribution *models.Contribution, deletedByUserID uint) error {
	if contribution == nil || contribution.ID == 0 {
		return errors.New("geçersiz katkı")
	}
	now := time.Now().UTC()
	result := r.getDB(ctx).Model(contribution).Where("id = ? AND deleted_at IS NULL", contribution.ID).
		Updates(map[string]any{"deleted_at": now, "deleted_by": &deletedByUserID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var _ IContributionRepository = (*ContributionRepository)(nil)
