package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hediye.link/configs/configsapp"
	"hediye.link/configs/configsdatabase"
	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/mailer"
	"hediye.link/pkg/queryparams"
	"hediye.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvitationServiceError özel servis hataları
type InvitationServiceError string

func (e InvitationServiceError) Error() string { return string(e) }

const (
	ErrInvitationNotFound      InvitationServiceError = "davet bulunamadı"
	ErrInvitationExists        InvitationServiceError = "bu davetli zaten davet edilmiş"
	ErrInvitationForbidden     InvitationServiceError = "bu işlem için yetkiniz yok"
	ErrInvitationInvalidInput  InvitationServiceError = "geçersiz davet verisi"
	ErrGuestUserNotFound       InvitationServiceError = "bu e-posta ile kayıtlı kullanıcı bulunamadı"
	ErrCannotInviteSelf        InvitationServiceError = "planlayıcı kendini davet edemez"
	ErrInvalidInvitationStatus InvitationServiceError = "geçersiz davet durumu"
)

// IInvitationService davet işlemleri için arayüz.
type IInvitationService interface {
	InviteGuest(ctx context.Context, eventID, plannerUserID uint, guestEmail, message string) (*models.Invitation, error)
	RespondInvitation(ctx context.Context, invitationID, guestUserID uint, status models.InvitationStatus) error
	RemoveGuest(ctx context.Context, invitationID, removingUserID uint) error
	GetGuestList(ctx context.Context, eventID, requestingUserID uint) ([]models.Invitation, error)
	GetInvitationsForGuest(ctx context.Context, guestUserID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	HasAcceptedInvitation(ctx context.Context, eventID, guestUserID uint) (bool, error)
}

// InvitationService IInvitationService arayüzünü uygular.
type InvitationService struct {
	repo      repositories.IInvitationRepository
	eventRepo repositories.IEventRepository
	userRepo  repositories.IUserRepository
	mail      mailer.Mailer
	baseURL   string
	db        *gorm.DB
}

// NewInvitationService yeni bir InvitationService örneği oluşturur.
func NewInvitationService() IInvitationService {
	cfg := configsapp.Get()
	return &InvitationService{
		repo:      repositories.NewInvitationRepository(),
		eventRepo: repositories.NewEventRepository(),
		userRepo:  repositories.NewUserRepository(),
		mail:      mailer.NewSMTPMailer(),
		baseURL:   cfg.BaseURL,
		db:        configsdatabase.GetDB(),
	}
}

// NewInvitationServiceWith testlerde bağımlılıkları değiştirmek için kullanılır.
func NewInvitationServiceWith(db *gorm.DB, mail mailer.Mailer, baseURL string) IInvitationService {
	return &InvitationService{
		repo:      repositories.NewInvitationRepositoryTx(db),
		eventRepo: repositories.NewEventRepositoryTx(db),
		userRepo:  repositories.NewUserRepositoryTx(db),
		mail:      mail,
		baseURL:   baseURL,
		db:        db,
	}
}

// InviteGuest kayıtlı bir kullanıcıyı etkinliğe davet eder ve davet maili yollar.
// Mail hatası daveti geri almaz; loglanır ve işlem devam eder.
func (s *InvitationService) InviteGuest(ctx context.Context, eventID, plannerUserID uint, guestEmail, message string) (*models.Invitation, error) {
	if eventID == 0 || plannerUserID == 0 || guestEmail == "" {
		return nil, ErrInvitationInvalidInput
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.PlannerUserID != plannerUserID {
		return nil, ErrInvitationForbidden
	}

	guest, err := s.userRepo.FindByEmail(ctx, guestEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGuestUserNotFound
		}
		return nil, err
	}
	if guest.ID == plannerUserID {
		return nil, ErrCannotInviteSelf
	}

	if _, err := s.repo.FindByEventAndGuest(ctx, eventID, guest.ID); err == nil {
		return nil, ErrInvitationExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	invitation := models.Invitation{
		EventID:     eventID,
		GuestUserID: guest.ID,
		GuestEmail:  guest.Email,
		Status:      models.InvitationStatusPending,
		Message:     message,
	}
	txCtx := models.ContextWithUserID(ctx, plannerUserID)
	if err := s.repo.Create(txCtx, &invitation); err != nil {
		configslog.Log.Error("InviteGuest: davet oluşturulamadı",
			zap.Uint("eventID", eventID), zap.String("guestEmail", guestEmail), zap.Error(err))
		return nil, err
	}

	inviteURL := fmt.Sprintf("%s/%s", s.baseURL, event.InviteKey)
	if mailErr := s.mail.SendInvitationMail(guest.Email, event.Title, inviteURL, message); mailErr != nil {
		// Yeniden deneme yok; kullanıcı daveti panelinden de görür.
		configslog.Log.Error("InviteGuest: davet maili gönderilemedi",
			zap.String("to", guest.Email), zap.Uint("invitationID", invitation.ID), zap.Error(mailErr))
	}

	configslog.SLog.Infof("Davet gönderildi: Etkinlik %d, Davetli %s", eventID, guest.Email)
	return &invitation, nil
}

// RespondInvitation davetlinin LCV yanıtını işler.
func (s *InvitationService) RespondInvitation(ctx context.Context, invitationID, guestUserID uint, status models.InvitationStatus) error {
	if status != models.InvitationStatusAccepted && status != models.InvitationStatusRejected {
		return ErrInvalidInvitationStatus
	}

	invitation, err := s.repo.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}
	if invitation.GuestUserID != guestUserID {
		return ErrInvitationForbidden
	}

	now := time.Now().UTC()
	invitation.Status = status
	invitation.RespondedAt = &now

	txCtx := models.ContextWithUserID(ctx, guestUserID)
	if err := s.repo.Update(txCtx, invitation); err != nil {
		configslog.Log.Error("RespondInvitation: güncelleme başarısız", zap.Uint("invitationID", invitationID), zap.Error(err))
		return err
	}

	configslog.SLog.Infof("Davet yanıtlandı: ID %d, Durum %s", invitationID, status)
	return nil
}

// RemoveGuest daveti siler. Planlayıcı davetliyi çıkarabilir, davetli kendini çıkarabilir.
func (s *InvitationService) RemoveGuest(ctx context.Context, invitationID, removingUserID uint) error {
	invitation, err := s.repo.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}

	if invitation.GuestUserID != removingUserID && invitation.Event.PlannerUserID != removingUserID {
		return ErrInvitationForbidden
	}

	if err := s.repo.Delete(ctx, invitation, removingUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}

	configslog.SLog.Infof("Davetli çıkarıldı: Davet %d (İşlemi yapan: %d)", invitationID, removingUserID)
	return nil
}

// GetGuestList etkinliğin davet listesini getirir (yalnızca planlayıcı).
func (s *InvitationService) GetGuestList(ctx context.Context, eventID, requestingUserID uint) ([]models.Invitation, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.PlannerUserID != requestingUserID {
		user, userErr := s.userRepo.FindByID(ctx, requestingUserID)
		if userErr != nil || !user.IsAdmin {
			return nil, ErrInvitationForbidden
		}
	}
	return s.repo.FindAllByEventID(ctx, eventID)
}

// GetInvitationsForGuest davetlinin aldığı davetleri sayfalayarak getirir.
func (s *InvitationService) GetInvitationsForGuest(ctx context.Context, guestUserID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()

	invitations, total, err := s.repo.FindAllByGuestPaginated(ctx, guestUserID, params)
	if err != nil {
		return nil, err
	}

	return &queryparams.PaginatedResult{
		Data: invitations,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page, PerPage: params.PerPage,
			TotalItems: total, TotalPages: queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

// HasAcceptedInvitation davetlinin etkinliğe ACCEPTED durumda daveti var mı?
func (s *InvitationService) HasAcceptedInvitation(ctx context.Context, eventID, guestUserID uint) (bool, error) {
	invitation, err := s.repo.FindByEventAndGuest(ctx, eventID, guestUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return invitation.Status == models.InvitationStatusAccepted, nil
}

var _ IInvitationService = (*InvitationService)(nil)
