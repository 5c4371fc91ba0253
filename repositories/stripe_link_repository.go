package repositories

import (
	"context"
	"errors"

	"hediye.link/configs/configsdatabase"
	"hediye.link/configs/configslog"
	"hediye.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IStripeLinkRepository ödeme sağlayıcısı muhasebe kayıtları için arayüz.
type IStripeLinkRepository interface {
	Create(ctx context.Context, link *models.StripeLink) error
	FindByProviderRef(ctx context.Context, providerRef string) (*models.StripeLink, error)
	UpdateStatus(ctx context.Context, providerRef string, status models.StripeLinkStatus) error
}

// StripeLinkRepository IStripeLinkRepository arayüzünü uygular.
type StripeLinkRepository struct {
	db *gorm.DB
}

// NewStripeLinkRepository yeni bir StripeLinkRepository örneği oluşturur.
func NewStripeLinkRepository() IStripeLinkRepository {
	return &StripeLinkRepository{db: configsdatabase.GetDB()}
}

// NewStripeLinkRepositoryTx transaction'lı örnek oluşturur.
func NewStripeLinkRepositoryTx(tx *gorm.DB) IStripeLinkRepository {
	return &StripeLinkRepository{db: tx}
}

func (r *StripeLinkRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Create yeni bir muhasebe kaydı oluşturur.
func (r *StripeLinkRepository) Create(ctx context.Context, link *models.StripeLink) error {
	if link == nil || link.ProviderRef == "" {
		return errors.New("geçersiz StripeLink verisi")
	}
	return r.getDB(ctx).Create(link).Error
}

// FindByProviderRef sağlayıcı referansıyla (cs_... / plink_...) kaydı bulur.
func (r *StripeLinkRepository) FindByProviderRef(ctx context.Context, providerRef string) (*models.StripeLink, error) {
	if providerRef == "" {
		return nil, errors.New("geçersiz sağlayıcı referansı")
	}
	var link models.StripeLink
	err := r.getDB(ctx).Where("provider_ref = ?", providerRef).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("StripeLinkRepository.FindByProviderRef: DB error", zap.String("providerRef", providerRef), zap.Error(err))
		return nil, err
	}
	return &link, nil
}

// UpdateStatus kaydın durumunu webhook olayına göre günceller.
func (r *StripeLinkRepository) UpdateStatus(ctx context.Context, providerRef string, status models.StripeLinkStatus) error {
	if providerRef == "" {
		return errors.New("geçersiz sağlayıcı referansı")
	}
	result := r.getDB(ctx).Model(&models.StripeLink{}).
		Where("provider_ref = ?", providerRef).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IStripeLinkRepository = (*StripeLinkRepository)(nil)
