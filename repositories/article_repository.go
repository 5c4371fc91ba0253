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
	"gorm.io/gorm/clause"
)

// IArticleRepository dilek listesi (Item + EventArticle) işlemleri için arayüz.
type IArticleRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	Create(ctx context.Context, article *models.EventArticle) error
	FindByID(ctx context.Context, id uint) (*models.EventArticle, error)
	FindByIDLocked(ctx context.Context, id uint) (*models.EventArticle, error)
	FindAllByEventID(ctx context.Context, eventID uint) ([]models.EventArticle, error)
	Update(ctx context.Context, article *models.EventArticle) error
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, article *models.EventArticle, deletedByUserID uint) error
}

// ArticleRepository IArticleRepository arayüzünü uygular.
type ArticleRepository struct {
	db *gorm.DB
}

// NewArticleRepository yeni bir ArticleRepository örneği oluşturur.
func NewArticleRepository() IArticleRepository {
	return &ArticleRepository{db: configsdatabase.GetDB()}
}

// NewArticleRepositoryTx transaction'lı örnek oluşturur.
func NewArticleRepositoryTx(tx *gorm.DB) IArticleRepository {
	return &ArticleRepository{db: tx}
}

func (r *ArticleRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// CreateItem katalog ürününü oluşturur.
func (r *ArticleRepository) CreateItem(ctx context.Context, item *models.Item) error {
	if item == nil || item.Name == "" || item.PriceCents <= 0 {
		return errors.New("geçersiz ürün verisi")
	}
	return r.getDB(ctx).Create(item).Error
}

// UpdateItem katalog ürününü kaydeder.
func (r *ArticleRepository) UpdateItem(ctx context.Context, item *models.Item) error {
	if item == nil || item.ID == 0 {
		return errors.New("geçersiz ürün")
	}
	return r.getDB(ctx).Save(item).Error
}

// Create ürünü etkinliğin dilek listesine bağlar.
func (r *ArticleRepository) Create(ctx context.Context, article *models.EventArticle) error {
	if article == nil || article.EventID == 0 || article.ItemID == 0 {
		return errors.New("geçersiz dilek listesi kaydı")
	}
	return r.getDB(ctx).Create(article).Error
}

// FindByID makaleyi ürünü ve etkinliğiyle birlikte getirir.
func (r *ArticleRepository) FindByID(ctx context.Context, id uint) (*models.EventArticle, error) {
	if id == 0 {
		return nil, errors.New("geçersiz makale ID")
	}
	var article models.EventArticle
	err := r.getDB(ctx).Preload("Item").Preload("Event").First(&article, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ArticleRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &article, nil
}

// FindByIDLocked makale satırını FOR UPDATE kilidiyle getirir.
// Katkı/karşılanma dizisi bu kilit altında çalışır.
func (r *ArticleRepository) FindByIDLocked(ctx context.Context, id uint) (*models.EventArticle, error) {
	if id == 0 {
		return nil, errors.New("geçersiz makale ID")
	}
	db := r.getDB(ctx)
	// SQLite FOR UPDATE desteklemez; tek yazıcı olduğu için kilide de gerek yok.
	if db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var article models.EventArticle
	err := db.Preload("Item").First(&article, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ArticleRepository.FindByIDLocked: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &article, nil
}

// FindAllByEventID etkinliğin dilek listesini öncelik sırasıyla getirir.
func (r *ArticleRepository) FindAllByEventID(ctx context.Context, eventID uint) ([]models.EventArticle, error) {
	if eventID == 0 {
		return nil, errors.New("geçersiz etkinlik ID")
	}
	var articles []models.EventArticle
	err := r.getDB(ctx).Where("event_id = ?", eventID).
		Preload("Item").
		Joins("JOIN items ON items.id = event_articles.item_id").
		Order("items.priority desc, event_articles.created_at asc").
		Find(&articles).Error
	if err != nil {
		configslog.Log.Error("ArticleRepository.FindAllByEventID: DB error", zap.Uint("eventID", eventID), zap.Error(err))
		return nil, err
	}
	return articles, nil
}

// Update makale kaydını kaydeder.
func (r *ArticleRepository) Update(ctx context.Context, article *models.EventArticle) error {
	if article == nil || article.ID == 0 {
		return errors.New("geçersiz makale")
	}
	return r.getDB(ctx).Save(article).Error
}

// UpdateFields belirtilen alanları günceller (quantity_fulfilled dahil).
func (r *ArticleRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	if id == 0 || len(fields) == 0 {
		return errors.New("geçersiz güncelleme isteği")
	}
	result := r.getDB(ctx).Model(&models.EventArticle{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete makaleyi soft delete eder.
func (r *ArticleRepository) Delete(ctx context.Context, article *models.EventArticle, deletedByUserID uint) error {
	if article == nil || article.ID == 0 {
		return errors.New("geçersiz makale")
	}
	now := time.Now().UTC()
	result := r.getDB(ctx).Model(article).Where("id = ? AND deleted_at IS NULL", article.ID).
		Updates(map[string]any{"deleted_at": now, "deleted_by": &deletedByUserID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var _ IArticleRepository = (*ArticleRepository)(nil)
