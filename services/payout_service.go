package services

import (
	"context"
	"time"

	"hediye.link/configs/configsapp"
	"hediye.link/configs/configsdatabase"
	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/paymentgw"
	"hediye.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IPayoutService biten etkinliklerin katkılarını planlayıcıya aktarır.
type IPayoutService interface {
	ProcessDueEvents(ctx context.Context, now time.Time) error
	RunPoller(ctx context.Context)
}

// PayoutService IPayoutService arayüzünü uygular.
type PayoutService struct {
	eventRepo   repositories.IEventRepository
	contribRepo repositories.IContributionRepository
	userRepo    repositories.IUserRepository
	gateway     paymentgw.Gateway
	currency    string
	interval    time.Duration
	db          *gorm.DB
}

// NewPayoutService yeni bir PayoutService örneği oluşturur.
func NewPayoutService(gateway paymentgw.Gateway) IPayoutService {
	cfg := configsapp.Get()
	return &PayoutService{
		eventRepo:   repositories.NewEventRepository(),
		contribRepo: repositories.NewContributionRepository(),
		userRepo:    repositories.NewUserRepository(),
		gateway:     gateway,
		currency:    cfg.StripeCurrency,
		interval:    cfg.PayoutPollInterval,
		db:          configsdatabase.GetDB(),
	}
}

// NewPayoutServiceWith testlerde bağımlılıkları değiştirmek için kullanılır.
func NewPayoutServiceWith(db *gorm.DB, gateway paymentgw.Gateway, currency string, interval time.Duration) IPayoutService {
	return &PayoutService{
		eventRepo:   repositories.NewEventRepositoryTx(db),
		contribRepo: repositories.NewContributionRepositoryTx(db),
		userRepo:    repositories.NewUserRepositoryTx(db),
		gateway:     gateway,
		currency:    currency,
		interval:    interval,
		db:          db,
	}
}

// RunPoller belirli aralıklarla ProcessDueEvents çalıştırır; ctx iptaliyle durur.
func (s *PayoutService) RunPoller(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	configslog.SLog.Infof("Payout kontrolü başladı (aralık: %s)", s.interval)
	for {
		select {
		case <-ctx.Done():
			configslog.SLog.Info("Payout kontrolü durduruldu")
			return
		case now := <-ticker.C:
			if err := s.ProcessDueEvents(ctx, now.UTC()); err != nil {
				configslog.Log.Error("Payout turu hatayla bitti", zap.Error(err))
			}
		}
	}
}

// ProcessDueEvents tarihi geçmiş ve henüz payout almamış etkinlikleri işler.
// Tek etkinlikteki hata turu durdurmaz; loglanıp sonraki etkinliğe geçilir.
func (s *PayoutService) ProcessDueEvents(ctx context.Context, now time.Time) error {
	events, err := s.eventRepo.FindDueForPayout(ctx, now)
	if err != nil {
		return err
	}

	for i := range events {
		if err := s.processEvent(ctx, &events[i], now); err != nil {
			configslog.Log.Error("Etkinlik payout işlenemedi",
				zap.Uint("eventID", events[i].ID), zap.Error(err))
		}
	}
	return nil
}

// processEvent tek etkinliğin transferini dener. Payout şartları sağlanmıyorsa
// etkinlik işaretlenmeden atlanır; sonraki turda yeniden denenir.
func (s *PayoutService) processEvent(ctx context.Context, event *models.Event, now time.Time) error {
	contributions, err := s.contribRepo.FindUnsettledByEventID(ctx, event.ID)
	if err != nil {
		return err
	}

	// Katkı yoksa transfer yok; etkinlik yine de tamamlandı sayılır.
	if len(contributions) == 0 {
		return s.markCompleted(ctx, event.ID, now)
	}

	planner, err := s.userRepo.FindByID(ctx, event.PlannerUserID)
	if err != nil {
		return err
	}
	if planner.StripeAccountID == "" {
		configslog.SLog.Warnf("Payout atlandı: Etkinlik %d, planlayıcının bağlı hesabı yok", event.ID)
		return nil
	}

	enabled, err := s.gateway.PayoutsEnabled(ctx, planner.StripeAccountID)
	if err != nil {
		return err
	}
	if !enabled {
		configslog.SLog.Warnf("Payout atlandı: Etkinlik %d, hesap %s payout alamıyor", event.ID, planner.StripeAccountID)
		return nil
	}

	var total int64
	ids := make([]uint, 0, len(contributions))
	for _, c := range contributions {
		total += c.AmountCents
		ids = append(ids, c.ID)
	}

	available, err := s.gateway.AvailableBalance(ctx, s.currency)
	if err != nil {
		return err
	}
	if available < total {
		configslog.SLog.Warnf("Payout ertelendi: Etkinlik %d, bakiye yetersiz (%d < %d kuruş)", event.ID, available, total)
		return nil
	}

	transferID, err := s.gateway.CreateTransfer(ctx, total, s.currency, planner.StripeAccountID, event.Title)
	if err != nil {
		return err
	}

	// Transfer sağlayıcıda gerçekleşti; yerel işaretleme hatası tekrar transfer
	// yaratmasın diye loglanır ama geri alınmaz.
	if err := s.contribRepo.MarkSettled(ctx, ids, now); err != nil {
		configslog.Log.Error("Katkılar settled işaretlenemedi",
			zap.Uint("eventID", event.ID), zap.String("transferID", transferID), zap.Error(err))
		return err
	}
	if err := s.markCompleted(ctx, event.ID, now); err != nil {
		return err
	}

	configslog.SLog.Infof("Payout tamamlandı: Etkinlik %d, %d katkı, %d kuruş, transfer %s",
		event.ID, len(ids), total, transferID)
	return nil
}

func (s *PayoutService) markCompleted(ctx context.Context, eventID uint, now time.Time) error {
	return s.eventRepo.UpdateFields(ctx, eventID, map[string]any{
		"payout_completed_at": now,
	})
}

var _ IPayoutService = (*PayoutService)(nil)
