package repositories

import (
	"context"
	"errors"
	"time"

	"hediye.link/configs/configsdatabase"
	"hediye.link/configs/configslog"
	"hediye.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IMediaRepository medya veritabanı işlemleri için arayüz.
type IMediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	FindByID(ctx context.Context, id uint) (*models.Media, error)
	FindAllByEventID(ctx context.Context, eventID uint) ([]models.Media, error)
	Delete(ctx context.Context, media *models.Media, deletedByUserID uint) error
}

// MediaRepository IMediaRepository arayüzünü uygular.
type MediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository yeni bir MediaRepository örneği oluşturur.
func NewMediaRepository() IMediaRepository {
	return &MediaRepository{db: configsdatabase.GetDB()}
}

// NewMediaRepositoryTx transaction'lı örnek oluşturur.
func NewMediaRepositoryTx(tx *gorm.DB) IMediaRepository {
	return &MediaRepository{db: tx}
}

func (r *MediaRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Create yeni bir medya kaydı oluşturur.
func (r *MediaRepository) Create(ctx context.Context, media *models.Media) error {
	if media == nil || media.EventID == 0 || media.URL == "" {
		return errors.New("geçersiz medya verisi")
	}
	return r.getDB(ctx).Create(media).Error
}

// FindByID medya kaydını yükleyiciyle birlikte getirir.
func (r *MediaRepository) FindByID(ctx context.Context, id uint) (*models.Media, error) {
	if id == 0 {
		return nil, errors.New("geçersiz medya ID")
	}
	var media models.Media
	err := r.getDB(ctx).Preload("Uploader").Preload("Event").First(&media, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("MediaRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &media, nil
}

// FindAllByEventID etkinliğin galeri kayıtlarını getirir.
func (r *MediaRepository) FindAllByEventID(ctx context.Context, eventID uint) ([]models.Media, error) {
	if eventID == 0 {
		return nil, errors.New("geçersiz etkinlik ID")
	}
	var media []models.Media
	err := r.getDB(ctx).Where("event_id = ?", eventID).
		Preload("Uploader").
		Order("created_at desc").
		Find(&media).Error
	if err != nil {
		configslog.Log.Error("MediaRepository.FindAllByEventID: DB error", zap.Uint("eventID", eventID), zap.Error(err))
		return nil, err
	}
	return media, nil
}

// Delete medya kaydını soft delete eder.
func (r *MediaRepository) Delete(ctx context.Context, media *models.Media, deletedByUserID uint) error {
	if media == nil || media.ID == 0 {
		return errors.New("geçersiz medya")
	}
	now := time.Now().UTC()
	result := r.getDB(ctx).Model(media).Where("id = ? AND deleted_at IS NULL", media.ID).
		Updates(map[string]any{"deleted_at": now, "deleted_by": &deletedByUserID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var _ IMediaRepository = (*MediaRepository)(nil)
