package repositories

import (
	"context"
	"errors"

	"hediye.link/configs/configsdatabase"
	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IUserRepository kullanıcı veritabanı işlemleri için arayüz.
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.User, int64, error)
	CountAll(ctx context.Context) (int64, error)
}

// UserRepository IUserRepository arayüzünü uygular.
type UserRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.User]
}

// NewUserRepository yeni bir UserRepository örneği oluşturur.
func NewUserRepository() IUserRepository {
	return newUserRepository(configsdatabase.GetDB())
}

// NewUserRepositoryTx transaction'lı örnek oluşturur.
func NewUserRepositoryTx(tx *gorm.DB) IUserRepository {
	return newUserRepository(tx)
}

func newUserRepository(db *gorm.DB) *UserRepository {
	base := NewBaseRepository[models.User](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "name", "email", "is_active"})
	return &UserRepository{db: db, base: base}
}

func (r *UserRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Create yeni bir kullanıcı kaydı oluşturur.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user == nil || user.Email == "" {
		return errors.New("geçersiz kullanıcı verisi")
	}
	return r.getDB(ctx).Create(user).Error
}

// FindByID belirli bir ID'ye sahip kullanıcıyı bulur.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, errors.New("geçersiz kullanıcı ID")
	}
	var user models.User
	err := r.getDB(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("UserRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// FindByEmail e-posta adresiyle kullanıcıyı bulur.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, errors.New("geçersiz e-posta")
	}
	var user models.User
	err := r.getDB(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("UserRepository.FindByEmail: DB error", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail e-postanın kayıtlı olup olmadığını kontrol eder.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		configslog.Log.Error("UserRepository.ExistsByEmail: DB error", zap.String("email", email), zap.Error(err))
		return false, err
	}
	return count > 0, nil
}

// Update kullanıcı kaydını kaydeder.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if user == nil || user.ID == 0 {
		return errors.New("geçersiz kullanıcı")
	}
	return r.getDB(ctx).Save(user).Error
}

// UpdateFields belirtilen alanları günceller.
func (r *UserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	if id == 0 || len(fields) == 0 {
		return errors.New("geçersiz güncelleme isteği")
	}
	result := r.getDB(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindAllPaginated tüm kullanıcıları sayfalayarak getirir (admin için).
func (r *UserRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.User, int64, error) {
	db := r.getDB(ctx).Model(&models.User{})
	if params.Name != "" {
		pattern := "%" + params.Name + "%"
		db = db.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}
	if params.Status != "" {
		db = db.Where("is_active = ?", params.Status == "true")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := r.base.Paginate(db, params).Order(r.base.OrderClause(params, "created_at")).Find(&users).Error
	if err != nil {
		configslog.Log.Error("UserRepository.FindAllPaginated: DB error", zap.Error(err))
		return nil, 0, err
	}
	return users, total, nil
}

// CountAll toplam kullanıcı sayısını döndürür.
func (r *UserRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

var _ IUserRepository = (*UserRepository)(nil)
