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

// IInvitationRepository davet veritabanı işlemleri için arayüz.
type IInvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	FindByID(ctx context.Context, id uint) (*models.Invitation, error)
	FindByEventAndGuest(ctx context.Context, eventID, guestUserID uint) (*models.Invitation, error)
	FindAllByEventID(ctx context.Context, eventID uint) ([]models.Invitation, error)
	FindAllByGuestPaginated(ctx context.Context, guestUserID uint, params queryparams.ListParams) ([]models.Invitation, int64, error)
	Update(ctx context.Context, invitation *models.Invitation) error
	Delete(ctx context.Context, invitation *models.Invitation, deletedByUserID uint) error
	CountByEvent(ctx context.Context, eventID uint, status models.InvitationStatus) (int64, error)
}

// InvitationRepository IInvitationRepository arayüzünü uygular.
type InvitationRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.Invitation]
}

// NewInvitationRepository yeni bir InvitationRepository örneği oluşturur.
func NewInvitationRepository() IInvitationRepository {
	return newInvitationRepository(configsdatabase.GetDB())
}

// NewInvitationRepositoryTx transaction'lı örnek oluşturur.
func NewInvitationRepositoryTx(tx *gorm.DB) IInvitationRepository {
	return newInvitationRepository(tx)
}

func newInvitationRepository(db *gorm.DB) *InvitationRepository {
	base := NewBaseRepository[models.Invitation](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "status", "responded_at"})
	return &InvitationRepository{db: db, base: base}
}

func (r *InvitationRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Create yeni bir davet kaydı oluşturur.
func (r *InvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	if invitation == nil || invitation.EventID == 0 || invitation.GuestUserID == 0 {
		return errors.New("geçersiz davet verisi")
	}
	return r.getDB(ctx).Create(invitation).Error
}

// FindByID daveti etkinlik ve davetli bilgisiyle getirir.
func (r *InvitationRepository) FindByID(ctx context.Context, id uint) (*models.Invitation, error) {
	if id == 0 {
		return nil, errors.New("geçersiz davet ID")
	}
	var invitation models.Invitation
	err := r.getDB(ctx).Preload("Event").Preload("Guest").First(&invitation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("InvitationRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &invitation, nil
}

// FindByEventAndGuest belirli etkinlik+davetli ikilisinin davetini bulur.
func (r *InvitationRepository) FindByEventAndGuest(ctx context.Context, eventID, guestUserID uint) (*models.Invitation, error) {
	if eventID == 0 || guestUserID == 0 {
		return nil, errors.New("geçersiz ID")
	}
	var invitation models.Invitation
	err := r.getDB(ctx).Where("event_id = ? AND guest_user_id = ?", eventID, guestUserID).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("InvitationRepository.FindByEventAndGuest: DB error",
			zap.Uint("eventID", eventID), zap.Uint("guestUserID", guestUserID), zap.Error(err))
		return nil, err
	}
	return &invitation, nil
}

// FindAllByEventID etkinliğin davet listesini davetli bilgileriyle getirir.
func (r *InvitationRepository) FindAllByEventID(ctx context.Context, eventID uint) ([]models.Invitation, error) {
	if eventID == 0 {
		return nil, errors.New("geçersiz etkinlik ID")
	}
	var invitations []models.Invitation
	err := r.getDB(ctx).Where("event_id = ?", eventID).
		Preload("Guest").
		Order("created_at asc").
		Find(&invitations).Error
	if err != nil {
		configslog.Log.Error("InvitationRepository.FindAllByEventID: DB error", zap.Uint("eventID", eventID), zap.Error(err))
		return nil, err
	}
	return invitations, nil
}

// FindAllByGuestPaginated davetlinin aldığı davetleri sayfalayarak getirir.
func (r *InvitationRepository) FindAllByGuestPaginated(ctx context.Context, guestUserID uint, params queryparams.ListParams) ([]models.Invitation, int64, error) {
	db := r.getDB(ctx).Model(&models.Invitation{}).Where("guest_user_id = ?", guestUserID)
	if params.Status != "" {
		db = db.Where("status = ?", params.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invitations []models.Invitation
	err := r.base.Paginate(db, params).
		Order(r.base.OrderClause(params, "created_at")).
		Preload("Event").
		Find(&invitations).Error
	if err != nil {
		configslog.Log.Error("InvitationRepository.FindAllByGuestPaginated: DB error", zap.Uint("guestUserID", guestUserID), zap.Error(err))
		return nil, 0, err
	}
	return invitations, total, nil
}

// Update davet kaydını kaydeder.
func (r *InvitationRepository) Update(ctx context.Context, invitation *models.Invitation) error {
	if invitation == nil || invitation.ID == 0 {
		return errors.New("geçersiz davet")
	}
	return r.getDB(ctx).Save(invitation).Error
}

// Delete daveti soft delete eder (davetli çıkarma).
func (r *InvitationRepository) Delete(ctx context.Context, invitation *models.Invitation, deletedByUserID uint) error {
	if invitation == nil || invitation.ID == 0 {
		return errors.New("geçersiz davet")
	}
	now := time.Now().UTC()
	result := r.getDB(ctx).Model(invitation).Where("id = ? AND deleted_at IS NULL", invitation.ID).
		Updates(map[string]any{"deleted_at": now, "deleted_by": &deletedByUserID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByEvent etkinlikteki davetleri (istenirse duruma göre) sayar.
func (r *InvitationRepository) CountByEvent(ctx context.Context, eventID uint, status models.InvitationStatus) (int64, error) {
	db := r.getDB(ctx).Model(&models.Invitation{}).Where("event_id = ?", eventID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	var count int64
	err := db.Count(&count).Error
	return count, err
}

var _ IInvitationRepository = (*InvitationRepository)(nil)
