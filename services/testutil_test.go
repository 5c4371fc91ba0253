package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/linkkey"
	"hediye.link/pkg/paymentgw"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var initLoggerOnce sync.Once

// newTestDB her test için izole bir in-memory SQLite veritabanı açar.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	initLoggerOnce.Do(configslog.InitLogger)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Invitation{},
		&models.Item{},
		&models.EventArticle{},
		&models.Contribution{},
		&models.Media{},
		&models.StripeLink{},
		&models.Report{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string, isAdmin bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("sifre12345"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestEvent(t *testing.T, db *gorm.DB, plannerID uint, title string, eventTime time.Time) *models.Event {
	t.Helper()
	key, err := linkkey.Generate()
	require.NoError(t, err)

	event := models.Event{
		PlannerUserID: plannerID,
		InviteKey:     key,
		Title:         title,
		EventDateTime: eventTime,
		Timezone:      "Europe/Istanbul",
		IsEnabled:     true,
	}
	require.NoError(t, db.Create(&event).Error)
	return &event
}

func createTestArticle(t *testing.T, db *gorm.DB, eventID uint, priceCents int64, quantity int) *models.EventArticle {
	t.Helper()
	item := models.Item{Name: "Kahve Makinesi", PriceCents: priceCents}
	require.NoError(t, db.Create(&item).Error)

	article := models.EventArticle{
		EventID:           eventID,
		ItemID:            item.ID,
		QuantityRequested: quantity,
	}
	require.NoError(t, db.Create(&article).Error)
	article.Item = item
	return &article
}

func createTestInvitation(t *testing.T, db *gorm.DB, eventID, guestID uint, status models.InvitationStatus) *models.Invitation {
	t.Helper()
	invitation := models.Invitation{
		EventID:     eventID,
		GuestUserID: guestID,
		GuestEmail:  fmt.Sprintf("guest%d@example.com", guestID),
		Status:      status,
	}
	require.NoError(t, db.Create(&invitation).Error)
	return &invitation
}

// fakeMailer gönderilen mailleri kaydeder; SMTP'ye çıkmaz.
type fakeMailer struct {
	invitations   []string
	contributions []string
	failNext      bool
}

func (m *fakeMailer) SendInvitationMail(to, eventTitle, inviteURL, message string) error {
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("smtp kapalı")
	}
	m.invitations = append(m.invitations, to)
	return nil
}

func (m *fakeMailer) SendContributionMail(to, eventTitle, contributorName string, amountCents int64) error {
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("smtp kapalı")
	}
	m.contributions = append(m.contributions, to)
	return nil
}

// fakeGateway ödeme sağlayıcısını taklit eder.
type fakeGateway struct {
	sessions       []paymentgw.CheckoutParams
	transfers      []fakeTransfer
	payoutsEnabled bool
	balance        int64
	sessionErr     error
	transferErr    error
	nextSessionID  int
}

type fakeTransfer struct {
	AmountCents int64
	Destination string
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, params paymentgw.CheckoutParams) (*paymentgw.CheckoutSession, error) {
	if g.sessionErr != nil {
		return nil, g.sessionErr
	}
	g.nextSessionID++
	g.sessions = append(g.sessions, params)
	return &paymentgw.CheckoutSession{
		ID:  fmt.Sprintf("cs_test_%d", g.nextSessionID),
		URL: fmt.Sprintf("https://checkout.example.com/%d", g.nextSessionID),
	}, nil
}

func (g *fakeGateway) CreateTransfer(ctx context.Context, amountCents int64, currency, destinationAccountID, description string) (string, error) {
	if g.transferErr != nil {
		return "", g.transferErr
	}
	g.transfers = append(g.transfers, fakeTransfer{AmountCents: amountCents, Destination: destinationAccountID})
	return fmt.Sprintf("tr_test_%d", len(g.transfers)), nil
}

func (g *fakeGateway) PayoutsEnabled(ctx context.Context, accountID string) (bool, error) {
	return g.payoutsEnabled, nil
}

func (g *fakeGateway) AvailableBalance(ctx context.Context, currency string) (int64, error) {
	return g.balance, nil
}

var _ paymentgw.Gateway = (*fakeGateway)(nil)
