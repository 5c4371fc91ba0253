package services

import (
	"context"
	"errors"
	"strings"

	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/storage"
	"hediye.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MediaServiceError özel servis hataları
type MediaServiceError string

func (e MediaServiceError) Error() string { return string(e) }

const (
	ErrMediaNotFound        MediaServiceError = "medya bulunamadı"
	ErrMediaForbidden       MediaServiceError = "bu işlem için yetkiniz yok"
	ErrMediaInvalidInput    MediaServiceError = "geçersiz medya verisi"
	ErrMediaUploadFailed    MediaServiceError = "dosya yüklenemedi"
	ErrMediaUnsupportedType MediaServiceError = "desteklenmeyen dosya türü"

	// 25 MB. Video için de yeterli; daha büyükleri reddedilir.
	MaxUploadBytes = 25 << 20
)

// IMediaService etkinlik galerisi ve görsel yükleme işlemleri için arayüz.
type IMediaService interface {
	UploadEventMedia(ctx context.Context, eventID, uploaderUserID uint, filename, contentType string, data []byte, caption string) (*models.Media, error)
	UploadCoverImage(ctx context.Context, eventID, uploaderUserID uint, filename, contentType string, data []byte) (string, error)
	UploadAvatar(ctx context.Context, userID uint, filename, contentType string, data []byte) (string, error)
	GetGallery(ctx context.Context, eventID, requestingUserID uint) ([]models.Media, error)
	DeleteMedia(ctx context.Context, mediaID, deletingUserID uint) error
}

// MediaService IMediaService arayüzünü uygular.
type MediaService struct {
	repo        repositories.IMediaRepository
	eventRepo   repositories.IEventRepository
	userRepo    repositories.IUserRepository
	invService  IInvitationService
	userService IUserService
	uploader    storage.Uploader
}

// NewMediaService yeni bir MediaService örneği oluşturur.
func NewMediaService(uploader storage.Uploader) IMediaService {
	return &MediaService{
		repo:        repositories.NewMediaRepository(),
		eventRepo:   repositories.NewEventRepository(),
		userRepo:    repositories.NewUserRepository(),
		invService:  NewInvitationService(),
		userService: NewUserService(),
		uploader:    uploader,
	}
}

// NewMediaServiceWith testlerde bağımlılıkları değiştirmek için kullanılır.
func NewMediaServiceWith(db *gorm.DB, uploader storage.Uploader, invService IInvitationService) IMediaService {
	return &MediaService{
		repo:        repositories.NewMediaRepositoryTx(db),
		eventRepo:   repositories.NewEventRepositoryTx(db),
		userRepo:    repositories.NewUserRepositoryTx(db),
		invService:  invService,
		userService: NewUserServiceWith(repositories.NewUserRepositoryTx(db)),
		uploader:    uploader,
	}
}

// kindFromContentType MIME tipinden medya türünü çıkarır; desteklenmeyen tip hata.
func kindFromContentType(contentType string) (models.MediaKind, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaKindImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaKindVideo, nil
	default:
		return "", ErrMediaUnsupportedType
	}
}

func validateUpload(filename, contentType string, data []byte) error {
	if filename == "" || contentType == "" || len(data) == 0 {
		return ErrMediaInvalidInput
	}
	if len(data) > MaxUploadBytes {
		return ErrMediaInvalidInput
	}
	return nil
}

// canContribute planlayıcı, admin veya kabul edilmiş davetli mi?
func (s *MediaService) canContribute(ctx context.Context, event *models.Event, userID uint) (bool, error) {
	if event.PlannerUserID == userID {
		return true, nil
	}
	if user, err := s.userRepo.FindByID(ctx, userID); err == nil && user.IsAdmin {
		return true, nil
	}
	return s.invService.HasAcceptedInvitation(ctx, event.ID, userID)
}

// UploadEventMedia dosyayı depolamaya yükler ve galeri kaydı oluşturur.
// Planlayıcı ve kabul edilmiş davetliler yükleyebilir.
func (s *MediaService) UploadEventMedia(ctx context.Context, eventID, uploaderUserID uint, filename, contentType string, data []byte, caption string) (*models.Media, error) {
	if err := validateUpload(filename, contentType, data); err != nil {
		return nil, err
	}
	kind, err := kindFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	allowed, err := s.canContribute(ctx, event, uploaderUserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrMediaForbidden
	}

	url, key, err := s.uploader.Upload(ctx, "events/gallery", filename, contentType, data)
	if err != nil {
		return nil, ErrMediaUploadFailed
	}

	media := models.Media{
		EventID:        eventID,
		UploaderUserID: uploaderUserID,
		Kind:           kind,
		URL:            url,
		ObjectKey:      key,
		Caption:        caption,
	}
	txCtx := models.ContextWithUserID(ctx, uploaderUserID)
	if err := s.repo.Create(txCtx, &media); err != nil {
		// DB yazılamadıysa yüklenen dosya yetim kalmasın.
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			configslog.Log.Error("Yetim medya dosyası silinemedi", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	configslog.SLog.Infof("Galeriye medya eklendi: Etkinlik %d, %s (%s)", eventID, kind, key)
	return &media, nil
}

// UploadCoverImage etkinlik kapak görselini yükler ve URL'ini etkinliğe yazar.
func (s *MediaService) UploadCoverImage(ctx context.Context, eventID, uploaderUserID uint, filename, contentType string, data []byte) (string, error) {
	if err := validateUpload(filename, contentType, data); err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrMediaUnsupportedType
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrEventNotFound
		}
		return "", err
	}
	if event.PlannerUserID != uploaderUserID {
		user, userErr := s.userRepo.FindByID(ctx, uploaderUserID)
		if userErr != nil || !user.IsAdmin {
			return "", ErrMediaForbidden
		}
	}

	url, _, err := s.uploader.Upload(ctx, "events/covers", filename, contentType, data)
	if err != nil {
		return "", ErrMediaUploadFailed
	}

	txCtx := models.ContextWithUserID(ctx, uploaderUserID)
	if err := s.eventRepo.UpdateFields(txCtx, eventID, map[string]any{"cover_image_url": url}); err != nil {
		return "", err
	}
	return url, nil
}

// UploadAvatar profil fotoğrafını yükler ve kullanıcıya yazar.
func (s *MediaService) UploadAvatar(ctx context.Context, userID uint, filename, contentType string, data []byte) (string, error) {
	if err := validateUpload(filename, contentType, data); err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrMediaUnsupportedType
	}

	url, _, err := s.uploader.Upload(ctx, "users/avatars", filename, contentType, data)
	if err != nil {
		return "", ErrMediaUploadFailed
	}
	if err := s.userService.SetAvatarURL(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}

// GetGallery etkinliğin galerisini getirir. Planlayıcı, admin ve davetliler görebilir.
func (s *MediaService) GetGallery(ctx context.Context, eventID, requestingUserID uint) ([]models.Media, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	allowed, err := s.canContribute(ctx, event, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrMediaForbidden
	}
	return s.repo.FindAllByEventID(ctx, eventID)
}

// DeleteMedia galeri kaydını ve depolamadaki dosyayı siler.
// Yükleyen kendi kaydını, planlayıcı ve admin her kaydı silebilir.
func (s *MediaService) DeleteMedia(ctx context.Context, mediaID, deletingUserID uint) error {
	media, err := s.repo.FindByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMediaNotFound
		}
		return err
	}

	if media.UploaderUserID != deletingUserID && media.Event.PlannerUserID != deletingUserID {
		user, userErr := s.userRepo.FindByID(ctx, deletingUserID)
		if userErr != nil || !user.IsAdmin {
			return ErrMediaForbidden
		}
	}

	if err := s.repo.Delete(ctx, media, deletingUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMediaNotFound
		}
		return err
	}

	// Depolama silme hatası kaydı geri getirmez.
	if media.ObjectKey != "" {
		if delErr := s.uploader.Delete(ctx, media.ObjectKey); delErr != nil {
			configslog.Log.Error("Medya dosyası depolamadan silinemedi",
				zap.String("key", media.ObjectKey), zap.Error(delErr))
		}
	}

	configslog.SLog.Infof("Medya silindi: ID %d (Silen: %d)", mediaID, deletingUserID)
	return nil
}

var _ IMediaService = (*MediaService)(nil)
