package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hediye.link/configs/configsapp"
	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/requests"
	"hediye.link/repositories"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceError özel servis hataları
type AuthServiceError string

func (e AuthServiceError) Error() string { return string(e) }

const (
	ErrUserNotFound       AuthServiceError = "kullanıcı bulunamadı"
	ErrInvalidCredentials AuthServiceError = "e-posta veya şifre hatalı"
	ErrEmailTaken         AuthServiceError = "bu e-posta adresi zaten kayıtlı"
	ErrPasswordsDontMatch AuthServiceError = "şifreler eşleşmiyor"
	ErrWrongPassword      AuthServiceError = "mevcut şifre hatalı"
	ErrAccountDisabled    AuthServiceError = "hesap devre dışı bırakılmış"
	ErrTokenInvalid       AuthServiceError = "oturum token'ı geçersiz"
	ErrHashingFailed      AuthServiceError = "şifre oluşturulamadı"
)

// SessionClaims imzalı oturum token'ının içeriği.
type SessionClaims struct {
	UserID  uint   `json:"uid"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"adm"`
	jwt.RegisteredClaims
}

// IAuthService kimlik doğrulama işlemleri için arayüz.
type IAuthService interface {
	Register(ctx context.Context, req requests.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req requests.LoginRequest) (*models.User, string, error)
	IssueToken(user *models.User) (string, error)
	VerifyToken(tokenString string) (*SessionClaims, error)
	ChangePassword(ctx context.Context, userID uint, req requests.ChangePasswordRequest) error
}

// AuthService IAuthService arayüzünü uygular.
type AuthService struct {
	userRepo repositories.IUserRepository
	secret   []byte
	expiry   time.Duration
}

// NewAuthService yeni bir AuthService örneği oluşturur.
func NewAuthService() IAuthService {
	cfg := configsapp.Get()
	return &AuthService{
		userRepo: repositories.NewUserRepository(),
		secret:   []byte(cfg.JWTSecret),
		expiry:   cfg.JWTExpiry,
	}
}

// NewAuthServiceWith testlerde bağımlılıkları değiştirmek için kullanılır.
func NewAuthServiceWith(userRepo repositories.IUserRepository, secret string, expiry time.Duration) IAuthService {
	return &AuthService{userRepo: userRepo, secret: []byte(secret), expiry: expiry}
}

// Register yeni kullanıcı kaydı oluşturur. Şifre uyuşmazlığı ve kayıtlı
// e-posta kontrolleri herhangi bir satır yazılmadan önce yapılır.
func (s *AuthService) Register(ctx context.Context, req requests.RegisterRequest) (*models.User, error) {
	if req.Password != req.PasswordConfirm {
		return nil, ErrPasswordsDontMatch
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		configslog.Log.Error("Register: kullanıcı oluşturulamadı", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	configslog.SLog.Infof("Yeni kullanıcı kaydoldu: %s (ID %d)", user.Email, user.ID)
	return &user, nil
}

// Login kimlik bilgilerini doğrular ve imzalı oturum token'ı üretir.
// Kayıtlı hesapta yanlış şifre, "kullanıcı bulunamadı"dan ayrı bir hatadır.
func (s *AuthService) Login(ctx context.Context, req requests.LoginRequest) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", ErrAccountDisabled
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken kullanıcı için imzalı JWT üretir.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		UserID:  user.ID,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		configslog.Log.Error("IssueToken: token imzalanamadı", zap.Uint("userID", user.ID), zap.Error(err))
		return "", err
	}
	return signed, nil
}

// VerifyToken imzayı ve geçerlilik süresini doğrulayıp claim'leri döndürür.
func (s *AuthService) VerifyToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("beklenmeyen imza yöntemi: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ChangePassword mevcut şifreyi doğrulayıp yenisini yazar.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, req requests.ChangePasswordRequest) error {
	if req.NewPassword != req.NewPasswordConfirm {
		return ErrPasswordsDontMatch
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}

	txCtx := models.ContextWithUserID(ctx, userID)
	if err := s.userRepo.UpdateFields(txCtx, userID, map[string]any{"password_hash": string(hash)}); err != nil {
		configslog.Log.Error("ChangePassword: şifre güncellenemedi", zap.Uint("userID", userID), zap.Error(err))
		return err
	}

	configslog.SLog.Infof("Kullanıcı şifresini değiştirdi: ID %d", userID)
	return nil
}

var _ IAuthService = (*AuthService)(nil)
