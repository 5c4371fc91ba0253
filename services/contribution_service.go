package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hediye.link/configs/configsapp"
	"hediye.link/configs/configsdatabase"
	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/mailer"
	"hediye.link/pkg/paymentgw"
	"hediye.link/pkg/queryparams"
	"hediye.link/pkg/requests"
	"hediye.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContributionServiceError özel servis hataları
type ContributionServiceError string

func (e ContributionServiceError) Error() string { return string(e) }

const (
	ErrContributionNotFound       ContributionServiceError = "katkı bulunamadı"
	ErrContributionForbidden      ContributionServiceError = "bu işlem için yetkiniz yok"
	ErrContributionInvalidInput   ContributionServiceError = "geçersiz katkı verisi"
	ErrContributionNotInvited     ContributionServiceError = "katkı için etkinliğe kabul edilmiş bir davet gerekli"
	ErrCheckoutCreationFailed     ContributionServiceError = "ödeme oturumu oluşturulamadı"
	ErrContributionEventMismatch  ContributionServiceError = "kayıt bu etkinliğe ait değil"
	ErrContributionCreationFailed ContributionServiceError = "katkı kaydedilemedi"
)

// Checkout oturumu metadata anahtarları. Webhook tarafı da bunları okur.
const (
	MetaEventID     = "event_id"
	MetaArticleID   = "event_article_id"
	MetaUserID      = "user_id"
	MetaAmountCents = "amount_cents"
	MetaMessage     = "message"
)

// IContributionService katkı ve ödeme akışı işlemleri için arayüz.
type IContributionService interface {
	RecordContribution(ctx context.Context, contributorUserID, eventID, articleID uint, amountCents int64, message string, contributedAt time.Time) (*models.Contribution, bool, error)
	StartCheckout(ctx context.Context, contributorUserID uint, req requests.CheckoutRequest) (*paymentgw.CheckoutSession, error)
	HandleCheckoutCompleted(ctx context.Context, providerRef string, metadata map[string]string) error
	HandleCheckoutExpired(ctx context.Context, providerRef string) error
	HandlePaymentLinkPaid(ctx context.Context, providerRef string) error
	HandlePaymentLinkExpired(ctx context.Context, providerRef string) error
	GetContributionsForArticle(ctx context.Context, articleID, requestingUserID uint) ([]models.Contribution, error)
	GetAllContributionsPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	RejectContribution(ctx context.Context, contributionID, requestingUserID uint) error
}

// ContributionService IContributionService arayüzünü uygular.
type ContributionService struct {
	repo        repositories.IContributionRepository
	articleRepo repositories.IArticleRepository
	eventRepo   repositories.IEventRepository
	userRepo    repositories.IUserRepository
	linkRepo    repositories.IStripeLinkRepository
	invService  IInvitationService
	gateway     paymentgw.Gateway
	mail        mailer.Mailer
	baseURL     string
	currency    string
	db          *gorm.DB
}

// NewContributionService yeni bir ContributionService örneği oluşturur.
func NewContributionService(gateway paymentgw.Gateway) IContributionService {
	cfg := configsapp.Get()
	return &ContributionService{
		repo:        repositories.NewContributionRepository(),
		articleRepo: repositories.NewArticleRepository(),
		eventRepo:   repositories.NewEventRepository(),
		userRepo:    repositories.NewUserRepository(),
		linkRepo:    repositories.NewStripeLinkRepository(),
		invService:  NewInvitationService(),
		gateway:     gateway,
		mail:        mailer.NewSMTPMailer(),
		baseURL:     cfg.BaseURL,
		currency:    cfg.StripeCurrency,
		db:          configsdatabase.GetDB(),
	}
}

// NewContributionServiceWith testlerde bağımlılıkları değiştirmek için kullanılır.
func NewContributionServiceWith(db *gorm.DB, gateway paymentgw.Gateway, mail mailer.Mailer, baseURL, currency string) IContributionService {
	return &ContributionService{
		repo:        repositories.NewContributionRepositoryTx(db),
		articleRepo: repositories.NewArticleRepositoryTx(db),
		eventRepo:   repositories.NewEventRepositoryTx(db),
		userRepo:    repositories.NewUserRepositoryTx(db),
		linkRepo:    repositories.NewStripeLinkRepositoryTx(db),
		invService:  NewInvitationServiceWith(db, mail, baseURL),
		gateway:     gateway,
		mail:        mail,
		baseURL:     baseURL,
		currency:    currency,
		db:          db,
	}
}

// RecordContribution katkıyı kaydeder ve karşılanma kontrolünü çalıştırır.
// Kayıt, toplam ve quantity_fulfilled güncellemesi tek transaction'da, makale
// satırı kilitliyken yapılır; eşzamanlı katkılar sırayla işlenir.
// Dönen bool, bu katkıyla hedefin karşılanıp karşılanmadığını söyler.
// Eşitlik karşılanma sayılır: toplam >= fiyat x istenen adet.
func (s *ContributionService) RecordContribution(ctx context.Context, contributorUserID, eventID, articleID uint, amountCents int64, message string, contributedAt time.Time) (*models.Contribution, bool, error) {
	if contributorUserID == 0 || articleID == 0 {
		return nil, false, ErrContributionInvalidInput
	}
	if amountCents <= 0 {
		return nil, false, fmt.Errorf("%w: tutar pozitif olmalı", ErrContributionInvalidInput)
	}
	if contributedAt.IsZero() {
		contributedAt = time.Now().UTC()
	}

	var created *models.Contribution
	var fulfilled bool
	txCtx := models.ContextWithUserID(ctx, contributorUserID)

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		articleRepoTx := repositories.NewArticleRepositoryTx(tx)
		contribRepoTx := repositories.NewContributionRepositoryTx(tx)

		// a. Makaleyi kilitli al; yoksa "bulunamadı" (sessiz no-op değil).
		article, err := articleRepoTx.FindByIDLocked(txCtx, articleID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrArticleNotFound
			}
			return err
		}
		if eventID != 0 && article.EventID != eventID {
			return ErrContributionEventMismatch
		}

		// b. Katkıyı yaz.
		contribution := models.Contribution{
			EventArticleID:    articleID,
			ContributorUserID: contributorUserID,
			AmountCents:       amountCents,
			Message:           message,
			ContributedAt:     contributedAt,
		}
		if err := contribRepoTx.Create(txCtx, &contribution); err != nil {
			return ErrContributionCreationFailed
		}

		// c. Topla ve karşılaştır.
		total, err := contribRepoTx.SumByArticleID(txCtx, articleID)
		if err != nil {
			return err
		}

		target := article.TargetCents()
		fulfilled = total >= target

		// d. quantity_fulfilled alanını güncelle.
		fulfilledQty := int(total / article.Item.PriceCents)
		if fulfilledQty > article.QuantityRequested {
			fulfilledQty = article.QuantityRequested
		}
		if fulfilledQty != article.QuantityFulfilled {
			if err := articleRepoTx.UpdateFields(txCtx, articleID, map[string]any{
				"quantity_fulfilled": fulfilledQty,
			}); err != nil {
				return err
			}
		}

		created = &contribution
		return nil
	})
	if txErr != nil {
		return nil, false, txErr
	}

	configslog.SLog.Infof("Katkı kaydedildi: Makale %d, Tutar %d kuruş, Katkıda bulunan %d (karşılandı=%t)",
		articleID, amountCents, contributorUserID, fulfilled)

	s.notifyPlanner(ctx, created)
	return created, fulfilled, nil
}

// notifyPlanner planlayıcıya katkı bildirimi yollar; hata daveti etkilemez.
func (s *ContributionService) notifyPlanner(ctx context.Context, contribution *models.Contribution) {
	article, err := s.articleRepo.FindByID(ctx, contribution.EventArticleID)
	if err != nil {
		return
	}
	event, err := s.eventRepo.FindByID(ctx, article.EventID)
	if err != nil {
		return
	}
	contributor, err := s.userRepo.FindByID(ctx, contribution.ContributorUserID)
	if err != nil {
		return
	}
	if mailErr := s.mail.SendContributionMail(event.Planner.Email, event.Title, contributor.Name, contribution.AmountCents); mailErr != nil {
		configslog.Log.Error("Katkı bildirimi gönderilemedi",
			zap.Uint("eventID", event.ID), zap.Uint("contributionID", contribution.ID), zap.Error(mailErr))
	}
}

// StartCheckout katkı için ödeme oturumu açar ve PENDING StripeLink kaydı yazar.
// Contribution satırı burada değil, webhook tamamlanınca oluşur.
func (s *ContributionService) StartCheckout(ctx context.Context, contributorUserID uint, req requests.CheckoutRequest) (*paymentgw.CheckoutSession, error) {
	if contributorUserID == 0 {
		return nil, ErrContributionInvalidInput
	}

	article, err := s.articleRepo.FindByID(ctx, req.EventArticleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	event, err := s.eventRepo.FindByID(ctx, article.EventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !event.IsEnabled {
		return nil, ErrEventNotFound
	}

	// Planlayıcı dışındakiler için kabul edilmiş davet şartı.
	if event.PlannerUserID != contributorUserID {
		accepted, err := s.invService.HasAcceptedInvitation(ctx, event.ID, contributorUserID)
		if err != nil {
			return nil, err
		}
		if !accepted {
			return nil, ErrContributionNotInvited
		}
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, paymentgw.CheckoutParams{
		AmountCents: req.AmountCents,
		Currency:    s.currency,
		ProductName: fmt.Sprintf("%s - %s", event.Title, article.Item.Name),
		SuccessURL:  fmt.Sprintf("%s/%s?checkout=success", s.baseURL, event.InviteKey),
		CancelURL:   fmt.Sprintf("%s/%s?checkout=cancel", s.baseURL, event.InviteKey),
		Metadata: map[string]string{
			MetaEventID:     strconv.FormatUint(uint64(event.ID), 10),
			MetaArticleID:   strconv.FormatUint(uint64(article.ID), 10),
			MetaUserID:      strconv.FormatUint(uint64(contributorUserID), 10),
			MetaAmountCents: strconv.FormatInt(req.AmountCents, 10),
			MetaMessage:     req.Message,
		},
	})
	if err != nil {
		configslog.Log.Error("StartCheckout: ödeme oturumu açılamadı",
			zap.Uint("articleID", article.ID), zap.Uint("userID", contributorUserID), zap.Error(err))
		return nil, ErrCheckoutCreationFailed
	}

	txCtx := models.ContextWithUserID(ctx, contributorUserID)
	link := models.StripeLink{
		Kind:              models.StripeLinkKindCheckoutSession,
		ProviderRef:       session.ID,
		Status:            models.StripeLinkStatusPending,
		URL:               session.URL,
		EventArticleID:    article.ID,
		ContributorUserID: contributorUserID,
		AmountCents:       req.AmountCents,
		Message:           req.Message,
	}
	if err := s.linkRepo.Create(txCtx, &link); err != nil {
		// Oturum sağlayıcıda açık kaldı; webhook geldiğinde kayıt bulunamazsa loglanır.
		configslog.Log.Error("StartCheckout: StripeLink kaydı yazılamadı",
			zap.String("providerRef", session.ID), zap.Error(err))
		return nil, err
	}

	configslog.SLog.Infof("Ödeme oturumu açıldı: %s (Makale %d, Tutar %d kuruş)", session.ID, article.ID, req.AmountCents)
	return session, nil
}

// HandleCheckoutCompleted checkout.session.completed olayını işler.
// Metadata eksikse katkı oluşturma atlanır; handler çökmez.
// Yerel tekilleştirme yoktur: aynı olayın tekrar teslimi yeni katkı satırı yaratır.
func (s *ContributionService) HandleCheckoutCompleted(ctx context.Context, providerRef string, metadata map[string]string) error {
	if err := s.linkRepo.UpdateStatus(ctx, providerRef, models.StripeLinkStatusAccepted); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			configslog.Log.Warn("Webhook: bilinmeyen checkout oturumu", zap.String("providerRef", providerRef))
		} else {
			return err
		}
	}

	articleID, okArticle := parseUintMeta(metadata[MetaArticleID])
	userID, okUser := parseUintMeta(metadata[MetaUserID])
	amount, okAmount := parseInt64Meta(metadata[MetaAmountCents])
	eventID, _ := parseUintMeta(metadata[MetaEventID])

	if !okArticle || !okUser || !okAmount {
		configslog.Log.Warn("Webhook: eksik metadata, katkı oluşturma atlandı",
			zap.String("providerRef", providerRef), zap.Any("metadata", metadata))
		return nil
	}

	_, _, err := s.RecordContribution(ctx, userID, eventID, articleID, amount, metadata[MetaMessage], time.Now().UTC())
	return err
}

// HandleCheckoutExpired checkout.session.expired olayını işler.
func (s *ContributionService) HandleCheckoutExpired(ctx context.Context, providerRef string) error {
	err := s.linkRepo.UpdateStatus(ctx, providerRef, models.StripeLinkStatusExpired)
	if errors.Is(err, repositories.ErrNotFound) {
		configslog.Log.Warn("Webhook: bilinmeyen checkout oturumu", zap.String("providerRef", providerRef))
		return nil
	}
	return err
}

// HandlePaymentLinkPaid payment_link.paid olayını işler. Katkı bilgileri
// metadata yerine yerel StripeLink kaydından okunur.
func (s *ContributionService) HandlePaymentLinkPaid(ctx context.Context, providerRef string) error {
	link, err := s.linkRepo.FindByProviderRef(ctx, providerRef)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			configslog.Log.Warn("Webhook: bilinmeyen payment link", zap.String("providerRef", providerRef))
			return nil
		}
		return err
	}

	if err := s.linkRepo.UpdateStatus(ctx, providerRef, models.StripeLinkStatusAccepted); err != nil {
		return err
	}

	_, _, err = s.RecordContribution(ctx, link.ContributorUserID, 0, link.EventArticleID, link.AmountCents, link.Message, time.Now().UTC())
	return err
}

// HandlePaymentLinkExpired payment_link.expired olayını işler.
func (s *ContributionService) HandlePaymentLinkExpired(ctx context.Context, providerRef string) error {
	err := s.linkRepo.UpdateStatus(ctx, providerRef, models.StripeLinkStatusExpired)
	if errors.Is(err, repositories.ErrNotFound) {
		configslog.Log.Warn("Webhook: bilinmeyen payment link", zap.String("providerRef", providerRef))
		return nil
	}
	return err
}

// GetContributionsForArticle makaleye yapılan katkıları getirir (planlayıcı/admin).
func (s *ContributionService) GetContributionsForArticle(ctx context.Context, articleID, requestingUserID uint) ([]models.Contribution, error) {
	article, err := s.articleRepo.FindByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	if article.Event.PlannerUserID != requestingUserID {
		user, userErr := s.userRepo.FindByID(ctx, requestingUserID)
		if userErr != nil || !user.IsAdmin {
			return nil, ErrContributionForbidden
		}
	}
	return s.repo.FindAllByArticleID(ctx, articleID)
}

// GetAllContributionsPaginated tüm katkıları sayfalayarak getirir (admin için).
func (s *ContributionService) GetAllContributionsPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()

	contributions, total, err := s.repo.FindAllPaginated(ctx, params)
	if err != nil {
		return nil, err
	}

	return &queryparams.PaginatedResult{
		Data: contributions,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page, PerPage: params.PerPage,
			TotalItems: total, TotalPages: queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

// RejectContribution katkı satırını siler. Sağlayıcıya iade çağrısı yapılmaz;
// ödeme tarafı manuel çözülür.
func (s *ContributionService) RejectContribution(ctx context.Context, contributionID, requestingUserID uint) error {
	contribution, err := s.repo.FindByID(ctx, contributionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrContributionNotFound
		}
		return err
	}

	article, err := s.articleRepo.FindByID(ctx, contribution.EventArticleID)
	if err != nil {
		return err
	}
	if article.Event.PlannerUserID != requestingUserID {
		user, userErr := s.userRepo.FindByID(ctx, requestingUserID)
		if userErr != nil || !user.IsAdmin {
			return ErrContributionForbidden
		}
	}

	if err := s.repo.Delete(ctx, contribution, requestingUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContributionNotFound
		}
		return err
	}

	configslog.SLog.Infof("Katkı reddedildi/silindi: ID %d (İşlemi yapan: %d)", contributionID, requestingUserID)
	return nil
}

func parseUintMeta(v string) (uint, bool) {
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func parseInt64Meta(v string) (int64, bool) {
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

var _ IContributionService = (*ContributionService)(nil)
