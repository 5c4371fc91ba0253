package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hediye.link/configs/configsdatabase"
	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/linkkey"
	"hediye.link/pkg/queryparams"
	"hediye.link/pkg/requests"
	"hediye.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventServiceError özel servis hataları
type EventServiceError string

func (e EventServiceError) Error() string { return string(e) }

const (
	ErrEventNotFound       EventServiceError = "etkinlik bulunamadı"
	ErrEventCreationFailed EventServiceError = "etkinlik oluşturulamadı"
	ErrEventUpdateFailed   EventServiceError = "etkinlik güncellenemedi"
	ErrEventDeletionFailed EventServiceError = "etkinlik silinemedi"
	ErrEventForbidden      EventServiceError = "bu işlem için yetkiniz yok"
	ErrEventInvalidInput   EventServiceError = "geçersiz etkinlik verisi"
	ErrEventKeyGeneration  EventServiceError = "davet anahtarı üretilemedi"
)

// IEventService etkinlik işlemleri için arayüz.
type IEventService interface {
	CreateEvent(ctx context.Context, plannerUserID uint, req requests.EventRequest) (*models.Event, error)
	GetEventByID(ctx context.Context, id uint, requestingUserID uint) (*models.Event, error)
	GetEventByInviteKey(ctx context.Context, key string) (*models.Event, error)
	GetEventsForPlanner(ctx context.Context, plannerUserID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	GetAllEventsPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UpdateEvent(ctx context.Context, id uint, updatingUserID uint, req requests.EventRequest) error
	SetCoverImage(ctx context.Context, id uint, updatingUserID uint, url string) error
	DeleteEvent(ctx context.Context, id uint, deletingUserID uint) error
	GetEventCountForPlanner(ctx context.Context, plannerUserID uint) (int64, error)
}

// EventService IEventService arayüzünü uygular.
type EventService struct {
	repo     repositories.IEventRepository
	userRepo repositories.IUserRepository
	db       *gorm.DB
}

// NewEventService yeni bir EventService örneği oluşturur.
func NewEventService() IEventService {
	return &EventService{
		repo:     repositories.NewEventRepository(),
		userRepo: repositories.NewUserRepository(),
		db:       configsdatabase.GetDB(),
	}
}

// NewEventServiceWith testlerde bağımlılıkları değiştirmek için kullanılır.
func NewEventServiceWith(db *gorm.DB) IEventService {
	return &EventService{
		repo:     repositories.NewEventRepositoryTx(db),
		userRepo: repositories.NewUserRepositoryTx(db),
		db:       db,
	}
}

// canManage planlayıcı veya admin için true döner.
func (s *EventService) canManage(ctx context.Context, event *models.Event, userID uint) bool {
	if event.PlannerUserID == userID {
		return true
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	return err == nil && user.IsAdmin
}

// CreateEvent yeni bir etkinlik ve benzersiz davet anahtarı oluşturur.
func (s *EventService) CreateEvent(ctx context.Context, plannerUserID uint, req requests.EventRequest) (*models.Event, error) {
	if plannerUserID == 0 {
		return nil, fmt.Errorf("%w: geçersiz planlayıcı ID", ErrEventInvalidInput)
	}
	if req.EventDateTime.IsZero() {
		return nil, fmt.Errorf("%w: etkinlik zamanı zorunludur", ErrEventInvalidInput)
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	var created *models.Event
	txCtx := models.ContextWithUserID(ctx, plannerUserID)

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		repoTx := repositories.NewEventRepositoryTx(tx)

		// Anahtar çakışması pratikte olası değil ama unique index'e karşı
		// birkaç deneme yapılır.
		var lastErr error
		for attempt := 0; attempt < 3; attempt++ {
			key, err := linkkey.Generate()
			if err != nil {
				return ErrEventKeyGeneration
			}
			event := models.Event{
				PlannerUserID: plannerUserID,
				InviteKey:     key,
				Title:         req.Title,
				Description:   req.Description,
				EventDateTime: req.EventDateTime,
				Timezone:      timezone,
				LocationText:  req.LocationText,
				LocationURL:   req.LocationURL,
				IsEnabled:     true,
			}
			if lastErr = repoTx.Create(txCtx, &event); lastErr == nil {
				created = &event
				return nil
			}
		}
		configslog.Log.Error("CreateEvent: etkinlik oluşturulamadı", zap.Uint("plannerUserID", plannerUserID), zap.Error(lastErr))
		return ErrEventCreationFailed
	})
	if txErr != nil {
		return nil, txErr
	}

	configslog.SLog.Infof("Etkinlik oluşturuldu: ID %d, Başlık: %s, Anahtar: %s", created.ID, created.Title, created.InviteKey)
	return created, nil
}

// GetEventByID etkinliği ID ve kullanıcı yetkisine göre getirir.
func (s *EventService) GetEventByID(ctx context.Context, id uint, requestingUserID uint) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !s.canManage(ctx, event, requestingUserID) {
		// Davetli de etkinliği görebilir.
		invRepo := repositories.NewInvitationRepositoryTx(s.db)
		if _, invErr := invRepo.FindByEventAndGuest(ctx, event.ID, requestingUserID); invErr != nil {
			return nil, ErrEventForbidden
		}
	}
	return event, nil
}

// GetEventByInviteKey public davet anahtarıyla etkinliği getirir.
// Devre dışı etkinlikler dışarıya "bulunamadı" olarak görünür.
func (s *EventService) GetEventByInviteKey(ctx context.Context, key string) (*models.Event, error) {
	if !linkkey.IsValid(key) {
		return nil, ErrEventNotFound
	}
	event, err := s.repo.FindByInviteKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !event.IsEnabled {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// GetEventsForPlanner planlayıcının etkinliklerini sayfalayarak getirir.
func (s *EventService) GetEventsForPlanner(ctx context.Context, plannerUserID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if plannerUserID == 0 {
		return nil, fmt.Errorf("%w: geçersiz planlayıcı ID", ErrEventInvalidInput)
	}
	params.Validate()

	events, total, err := s.repo.FindAllByPlannerPaginated(ctx, plannerUserID, params)
	if err != nil {
		return nil, err
	}

	return &queryparams.PaginatedResult{
		Data: events,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page, PerPage: params.PerPage,
			TotalItems: total, TotalPages: queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

// GetAllEventsPaginated tüm etkinlikleri sayfalayarak getirir (admin için).
func (s *EventService) GetAllEventsPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()

	events, total, err := s.repo.FindAllPaginated(ctx, params)
	if err != nil {
		return nil, err
	}

	return &queryparams.PaginatedResult{
		Data: events,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page, PerPage: params.PerPage,
			TotalItems: total, TotalPages: queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

// UpdateEvent etkinlik alanlarını günceller.
func (s *EventService) UpdateEvent(ctx context.Context, id uint, updatingUserID uint, req requests.EventRequest) error {
	if id == 0 || updatingUserID == 0 {
		return fmt.Errorf("%w: geçersiz ID", ErrEventInvalidInput)
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if !s.canManage(ctx, event, updatingUserID) {
		return ErrEventForbidden
	}

	fields := map[string]any{
		"title":           req.Title,
		"description":     req.Description,
		"event_date_time": req.EventDateTime,
		"location_text":   req.LocationText,
		"location_url":    req.LocationURL,
	}
	if req.Timezone != "" {
		fields["timezone"] = req.Timezone
	}
	if req.IsEnabled != nil {
		fields["is_enabled"] = *req.IsEnabled
	}

	txCtx := models.ContextWithUserID(ctx, updatingUserID)
	if err := s.repo.UpdateFields(txCtx, id, fields); err != nil {
		configslog.Log.Error("UpdateEvent: güncelleme başarısız", zap.Uint("id", id), zap.Error(err))
		return ErrEventUpdateFailed
	}

	configslog.SLog.Infof("Etkinlik güncellendi: ID %d (Güncelleyen: %d)", id, updatingUserID)
	return nil
}

// SetCoverImage kapak görselinin URL'ini kaydeder.
func (s *EventService) SetCoverImage(ctx context.Context, id uint, updatingUserID uint, url string) error {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if !s.canManage(ctx, event, updatingUserID) {
		return ErrEventForbidden
	}

	txCtx := models.ContextWithUserID(ctx, updatingUserID)
	if err := s.repo.UpdateFields(txCtx, id, map[string]any{"cover_image_url": url}); err != nil {
		return ErrEventUpdateFailed
	}
	return nil
}

// DeleteEvent etkinliği ve bağlı kayıtlarını tek transaction'da siler.
func (s *EventService) DeleteEvent(ctx context.Context, id uint, deletingUserID uint) error {
	if id == 0 || deletingUserID == 0 {
		return fmt.Errorf("%w: geçersiz ID", ErrEventInvalidInput)
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		repoTx := repositories.NewEventRepositoryTx(tx)

		event, err := repoTx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if !s.canManage(ctx, event, deletingUserID) {
			return ErrEventForbidden
		}

		now := time.Now().UTC()
		deleted := map[string]any{"deleted_at": now, "deleted_by": &deletingUserID}

		// Bağlı kayıtlar: davetler, dilek listesi, medya.
		if err := tx.Model(&models.Invitation{}).
			Where("event_id = ? AND deleted_at IS NULL", id).Updates(deleted).Error; err != nil {
			return ErrEventDeletionFailed
		}
		if err := tx.Model(&models.EventArticle{}).
			Where("event_id = ? AND deleted_at IS NULL", id).Updates(deleted).Error; err != nil {
			return ErrEventDeletionFailed
		}
		if err := tx.Model(&models.Media{}).
			Where("event_id = ? AND deleted_at IS NULL", id).Updates(deleted).Error; err != nil {
			return ErrEventDeletionFailed
		}

		if err := repoTx.Delete(ctx, event, deletingUserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return ErrEventDeletionFailed
		}
		return nil
	})

	if txErr != nil {
		configslog.Log.Error("DeleteEvent transaction failed", zap.Uint("id", id), zap.Uint("userID", deletingUserID), zap.Error(txErr))
		return txErr
	}

	configslog.SLog.Infof("Etkinlik silindi: ID %d (Silen: %d)", id, deletingUserID)
	return nil
}

// GetEventCountForPlanner planlayıcının etkinlik sayısını döndürür.
func (s *EventService) GetEventCountForPlanner(ctx context.Context, plannerUserID uint) (int64, error) {
	return s.repo.CountByPlanner(ctx, plannerUserID)
}

var _ IEventService = (*EventService)(nil)
