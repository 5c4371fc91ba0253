package services

import (
	"context"
	"errors"
	"fmt"

	"hediye.link/configs/configsdatabase"
	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/requests"
	"hediye.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WishlistServiceError özel servis hataları
type WishlistServiceError string

func (e WishlistServiceError) Error() string { return string(e) }

const (
	ErrArticleNotFound         WishlistServiceError = "dilek listesi kaydı bulunamadı"
	ErrArticleCreationFailed   WishlistServiceError = "dilek listesi kaydı oluşturulamadı"
	ErrArticleUpdateFailed     WishlistServiceError = "dilek listesi kaydı güncellenemedi"
	ErrArticleDeletionFailed   WishlistServiceError = "dilek listesi kaydı silinemedi"
	ErrArticleForbidden        WishlistServiceError = "bu işlem için yetkiniz yok"
	ErrArticleInvalidInput     WishlistServiceError = "geçersiz dilek listesi verisi"
	ErrArticleHasContributions WishlistServiceError = "katkı almış bir kayıt silinemez"
)

// IWishlistService dilek listesi işlemleri için arayüz.
type IWishlistService interface {
	AddArticle(ctx context.Context, eventID, plannerUserID uint, req requests.ArticleRequest) (*models.EventArticle, error)
	GetArticleByID(ctx context.Context, id uint) (*models.EventArticle, error)
	GetWishlist(ctx context.Context, eventID uint) ([]models.EventArticle, error)
	UpdateArticle(ctx context.Context, articleID, updatingUserID uint, req requests.ArticleRequest) error
	DeleteArticle(ctx context.Context, articleID, deletingUserID uint) error
}

// WishlistService IWishlistService arayüzünü uygular.
type WishlistService struct {
	repo      repositories.IArticleRepository
	eventRepo repositories.IEventRepository
	userRepo  repositories.IUserRepository
	db        *gorm.DB
}

// NewWishlistService yeni bir WishlistService örneği oluşturur.
func NewWishlistService() IWishlistService {
	return &WishlistService{
		repo:      repositories.NewArticleRepository(),
		eventRepo: repositories.NewEventRepository(),
		userRepo:  repositories.NewUserRepository(),
		db:        configsdatabase.GetDB(),
	}
}

// NewWishlistServiceWith testlerde bağımlılıkları değiştirmek için kullanılır.
func NewWishlistServiceWith(db *gorm.DB) IWishlistService {
	return &WishlistService{
		repo:      repositories.NewArticleRepositoryTx(db),
		eventRepo: repositories.NewEventRepositoryTx(db),
		userRepo:  repositories.NewUserRepositoryTx(db),
		db:        db,
	}
}

func (s *WishlistService) canManage(ctx context.Context, event *models.Event, userID uint) bool {
	if event.PlannerUserID == userID {
		return true
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	return err == nil && user.IsAdmin
}

// AddArticle ürünü ve dilek listesi bağını tek transaction'da oluşturur.
func (s *WishlistService) AddArticle(ctx context.Context, eventID, plannerUserID uint, req requests.ArticleRequest) (*models.EventArticle, error) {
	if eventID == 0 || plannerUserID == 0 {
		return nil, fmt.Errorf("%w: geçersiz ID", ErrArticleInvalidInput)
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !s.canManage(ctx, event, plannerUserID) {
		return nil, ErrArticleForbidden
	}

	var created *models.EventArticle
	txCtx := models.ContextWithUserID(ctx, plannerUserID)

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		repoTx := repositories.NewArticleRepositoryTx(tx)

		item := models.Item{
			Name:        req.Name,
			Description: req.Description,
			PriceCents:  req.PriceCents,
			ImageURL:    req.ImageURL,
			Priority:    req.Priority,
		}
		if err := repoTx.CreateItem(txCtx, &item); err != nil {
			return ErrArticleCreationFailed
		}

		article := models.EventArticle{
			EventID:           eventID,
			ItemID:            item.ID,
			QuantityRequested: req.QuantityRequested,
		}
		if err := repoTx.Create(txCtx, &article); err != nil {
			return ErrArticleCreationFailed
		}

		article.Item = item
		created = &article
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("AddArticle transaction failed", zap.Uint("eventID", eventID), zap.Error(txErr))
		return nil, txErr
	}

	configslog.SLog.Infof("Dilek listesine eklendi: Etkinlik %d, Ürün %s (%d kuruş x %d)",
		eventID, created.Item.Name, created.Item.PriceCents, created.QuantityRequested)
	return created, nil
}

// GetArticleByID kaydı ürünüyle birlikte getirir.
func (s *WishlistService) GetArticleByID(ctx context.Context, id uint) (*models.EventArticle, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return article, nil
}

// GetWishlist etkinliğin dilek listesini getirir.
func (s *WishlistService) GetWishlist(ctx context.Context, eventID uint) ([]models.EventArticle, error) {
	if eventID == 0 {
		return nil, fmt.Errorf("%w: geçersiz etkinlik ID", ErrArticleInvalidInput)
	}
	return s.repo.FindAllByEventID(ctx, eventID)
}

// UpdateArticle ürün ve adet bilgilerini günceller.
func (s *WishlistService) UpdateArticle(ctx context.Context, articleID, updatingUserID uint, req requests.ArticleRequest) error {
	article, err := s.repo.FindByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrArticleNotFound
		}
		return err
	}
	if !s.canManage(ctx, &article.Event, updatingUserID) {
		return ErrArticleForbidden
	}

	txCtx := models.ContextWithUserID(ctx, updatingUserID)
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		repoTx := repositories.NewArticleRepositoryTx(tx)

		item := article.Item
		item.Name = req.Name
		item.Description = req.Description
		item.PriceCents = req.PriceCents
		item.ImageURL = req.ImageURL
		item.Priority = req.Priority
		if err := repoTx.UpdateItem(txCtx, &item); err != nil {
			return ErrArticleUpdateFailed
		}

		if err := repoTx.UpdateFields(txCtx, articleID, map[string]any{
			"quantity_requested": req.QuantityRequested,
		}); err != nil {
			return ErrArticleUpdateFailed
		}
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("UpdateArticle transaction failed", zap.Uint("articleID", articleID), zap.Error(txErr))
		return txErr
	}

	configslog.SLog.Infof("Dilek listesi güncellendi: Kayıt %d (Güncelleyen: %d)", articleID, updatingUserID)
	return nil
}

// DeleteArticle kaydı siler. Katkı almış kayıtlar silinemez.
func (s *WishlistService) DeleteArticle(ctx context.Context, articleID, deletingUserID uint) error {
	article, err := s.repo.FindByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrArticleNotFound
		}
		return err
	}
	if !s.canManage(ctx, &article.Event, deletingUserID) {
		return ErrArticleForbidden
	}

	var contributionCount int64
	if err := s.db.WithContext(ctx).Model(&models.Contribution{}).
		Where("event_article_id = ?", articleID).
		Count(&contributionCount).Error; err != nil {
		return err
	}
	if contributionCount > 0 {
		return ErrArticleHasContributions
	}

	if err := s.repo.Delete(ctx, article, deletingUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArticleNotFound
		}
		return ErrArticleDeletionFailed
	}

	configslog.SLog.Infof("Dilek listesinden silindi: Kayıt %d (Silen: %d)", articleID, deletingUserID)
	return nil
}

var _ IWishlistService = (*WishlistService)(nil)
