package services

import (
	"context"
	"errors"

	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/queryparams"
	"hediye.link/pkg/requests"
	"hediye.link/repositories"

	"go.uber.org/zap"
)

// UserServiceError özel servis hataları
type UserServiceError string

func (e UserServiceError) Error() string { return string(e) }

const (
	ErrUserUpdateFailed UserServiceError = "kullanıcı güncellenemedi"
)

// IUserService kullanıcı profil/yönetim işlemleri için arayüz.
type IUserService interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, req requests.UpdateProfileRequest) (*models.User, error)
	SetAvatarURL(ctx context.Context, userID uint, url string) error
	SetStripeAccount(ctx context.Context, userID uint, accountID string) error
	GetAllUsersPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	SetUserActive(ctx context.Context, adminUserID, targetUserID uint, active bool) error
}

// UserService IUserService arayüzünü uygular.
type UserService struct {
	repo repositories.IUserRepository
}

// NewUserService yeni bir UserService örneği oluşturur.
func NewUserService() IUserService {
	return &UserService{repo: repositories.NewUserRepository()}
}

// NewUserServiceWith testlerde bağımlılıkları değiştirmek için kullanılır.
func NewUserServiceWith(repo repositories.IUserRepository) IUserService {
	return &UserService{repo: repo}
}

// GetUserByID kullanıcıyı getirir.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile profil alanlarını günceller.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req requests.UpdateProfileRequest) (*models.User, error) {
	txCtx := models.ContextWithUserID(ctx, userID)
	fields := map[string]any{"name": req.Name, "bio": req.Bio}
	if err := s.repo.UpdateFields(txCtx, userID, fields); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		configslog.Log.Error("UpdateProfile: güncelleme başarısız", zap.Uint("userID", userID), zap.Error(err))
		return nil, ErrUserUpdateFailed
	}
	return s.GetUserByID(ctx, userID)
}

// SetAvatarURL profil fotoğrafının URL'ini kaydeder.
func (s *UserService) SetAvatarURL(ctx context.Context, userID uint, url string) error {
	txCtx := models.ContextWithUserID(ctx, userID)
	if err := s.repo.UpdateFields(txCtx, userID, map[string]any{"avatar_url": url}); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return ErrUserUpdateFailed
	}
	return nil
}

// SetStripeAccount kullanıcının bağlı ödeme hesabını kaydeder.
func (s *UserService) SetStripeAccount(ctx context.Context, userID uint, accountID string) error {
	txCtx := models.ContextWithUserID(ctx, userID)
	if err := s.repo.UpdateFields(txCtx, userID, map[string]any{"stripe_account_id": accountID}); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return ErrUserUpdateFailed
	}
	configslog.SLog.Infof("Kullanıcı ödeme hesabı bağladı: ID %d", userID)
	return nil
}

// GetAllUsersPaginated tüm kullanıcıları sayfalayarak getirir (admin için).
func (s *UserService) GetAllUsersPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()

	users, total, err := s.repo.FindAllPaginated(ctx, params)
	if err != nil {
		return nil, err
	}

	return &queryparams.PaginatedResult{
		Data: users,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page, PerPage: params.PerPage,
			TotalItems: total, TotalPages: queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

// SetUserActive bir hesabı aktifleştirir/devre dışı bırakır (admin için).
func (s *UserService) SetUserActive(ctx context.Context, adminUserID, targetUserID uint, active bool) error {
	txCtx := models.ContextWithUserID(ctx, adminUserID)
	if err := s.repo.UpdateFields(txCtx, targetUserID, map[string]any{"is_active": active}); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return ErrUserUpdateFailed
	}
	configslog.SLog.Infof("Kullanıcı durumu değişti: ID %d, aktif=%t (Admin: %d)", targetUserID, active, adminUserID)
	return nil
}

var _ IUserService = (*UserService)(nil)
