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

// IEventRepository etkinlik veritabanı işlemleri için arayüz.
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	FindByInviteKey(ctx context.Context, key string) (*models.Event, error)
	FindAllByPlannerPaginated(ctx context.Context, plannerUserID uint, params queryparams.ListParams) ([]models.Event, int64, error)
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Event, int64, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, event *models.Event, deletedByUserID uint) error
	CountByPlanner(ctx context.Context, plannerUserID uint) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	FindDueForPayout(ctx context.Context, now time.Time) ([]models.Event, error)
}

// EventRepository IEventRepository arayüzünü uygular.
type EventRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.Event]
}

// NewEventRepository yeni bir EventRepository örneği oluşturur.
func NewEventRepository() IEventRepository {
	return newEventRepository(configsdatabase.GetDB())
}

// NewEventRepositoryTx transaction'lı örnek oluşturur.
func NewEventRepositoryTx(tx *gorm.DB) IEventRepository {
	return newEventRepository(tx)
}

func newEventRepository(db *gorm.DB) *EventRepository {
	base := NewBaseRepository[models.Event](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "title", "event_date_time", "is_enabled"})
	return &EventRepository{db: db, base: base}
}

func (r *EventRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Create yeni bir etkinlik oluşturur.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event == nil || event.PlannerUserID == 0 || event.InviteKey == "" {
		return errors.New("geçersiz etkinlik verisi")
	}
	return r.getDB(ctx).Create(event).Error
}

// FindByID etkinliği planlayıcısıyla birlikte getirir.
func (r *EventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	if id == 0 {
		return nil, errors.New("geçersiz etkinlik ID")
	}
	var event models.Event
	err := r.getDB(ctx).Preload("Planner").First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("EventRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &event, nil
}

// FindByInviteKey public davet anahtarıyla etkinliği, dilek listesiyle getirir.
func (r *EventRepository) FindByInviteKey(ctx context.Context, key string) (*models.Event, error) {
	if key == "" {
		return nil, errors.New("geçersiz davet anahtarı")
	}
	var event models.Event
	err := r.getDB(ctx).
		Preload("Planner").
		Preload("Articles.Item").
		Preload("Media").
		Where("invite_key = ?", key).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("EventRepository.FindByInviteKey: DB error", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) applyFilters(db *gorm.DB, params queryparams.ListParams) *gorm.DB {
	if params.Name != "" {
		db = db.Where("LOWER(title) LIKE LOWER(?)", "%"+params.Name+"%")
	}
	if params.Status != "" {
		db = db.Where("is_enabled = ?", params.Status == "true")
	}
	return db
}

// FindAllByPlannerPaginated planlayıcının etkinliklerini sayfalayarak getirir.
func (r *EventRepository) FindAllByPlannerPaginated(ctx context.Context, plannerUserID uint, params queryparams.ListParams) ([]models.Event, int64, error) {
	db := r.applyFilters(r.getDB(ctx).Model(&models.Event{}).Where("planner_user_id = ?", plannerUserID), params)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	err := r.base.Paginate(db, params).Order(r.base.OrderClause(params, "created_at")).Find(&events).Error
	if err != nil {
		configslog.Log.Error("EventRepository.FindAllByPlannerPaginated: DB error", zap.Uint("plannerUserID", plannerUserID), zap.Error(err))
		return nil, 0, err
	}
	return events, total, nil
}

// FindAllPaginated tüm etkinlikleri sayfalayarak getirir (admin için).
func (r *EventRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Event, int64, error) {
	db := r.applyFilters(r.getDB(ctx).Model(&models.Event{}), params)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	err := r.base.Paginate(db, params).Order(r.base.OrderClause(params, "created_at")).Preload("Planner").Find(&events).Error
	if err != nil {
		configslog.Log.Error("EventRepository.FindAllPaginated: DB error", zap.Error(err))
		return nil, 0, err
	}
	return events, total, nil
}

// Update etkinlik kaydını kaydeder.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	if event == nil || event.ID == 0 {
		return errors.New("geçersiz etkinlik")
	}
	return r.getDB(ctx).Save(event).Error
}

// UpdateFields belirtilen alanları günceller.
func (r *EventRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	if id == 0 || len(fields) == 0 {
		return errors.New("geçersiz güncelleme isteği")
	}
	result := r.getDB(ctx).Model(&models.Event{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete etkinliği soft delete eder ve DeletedBy kolonunu doldurur.
func (r *EventRepository) Delete(ctx context.Context, event *models.Event, deletedByUserID uint) error {
	if event == nil || event.ID == 0 {
		return errors.New("geçersiz etkinlik")
	}
	db := r.getDB(ctx)
	now := time.Now().UTC()
	result := db.Model(event).Where("id = ? AND deleted_at IS NULL", event.ID).
		Updates(map[string]any{"deleted_at": now, "deleted_by": &deletedByUserID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByPlanner planlayıcının etkinlik sayısını döndürür.
func (r *EventRepository) CountByPlanner(ctx context.Context, plannerUserID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Event{}).Where("planner_user_id = ?", plannerUserID).Count(&count).Error
	return count, err
}

// CountAll toplam etkinlik sayısını döndürür.
func (r *EventRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Event{}).Count(&count).Error
	return count, err
}

// FindDueForPayout tarihi geçmiş ve payout'u tamamlanmamış etkinlikleri getirir.
func (r *EventRepository) FindDueForPayout(ctx context.Context, now time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.getDB(ctx).
		Preload("Planner").
		Where("event_date_time < ? AND payout_completed_at IS NULL AND is_enabled = ?", now, true).
		Find(&events).Error
	if err != nil {
		configslog.Log.Error("EventRepository.FindDueForPayout: DB error", zap.Error(err))
		return nil, err
	}
	return events, nil
}

var _ IEventRepository = (*EventRepository)(nil)
