package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/pkg/linkkey"
	"hediye.link/pkg/paymentgw"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testWebhookSecret = "whsec_test_secret"

var initLoggerOnce sync.Once

func newWebhookTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
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
		&models.User{}, &models.Event{}, &models.Invitation{},
		&models.Item{}, &models.EventArticle{}, &models.Contribution{},
		&models.Media{}, &models.StripeLink{}, &models.Report{},
	))

	service := services.NewContributionServiceWith(db, &nullGateway{}, &nullMailer{}, "http://localhost:3000", "try")
	handler := NewStripeWebhookHandlerWith(service, testWebhookSecret)

	app := fiber.New()
	app.Post("/webhooks/stripe", handler.Handle)
	return app, db
}

func seedWebhookArticle(t *testing.T, db *gorm.DB) (*models.User, *models.Event, *models.EventArticle) {
	t.Helper()

	planner := models.User{Name: "Ayşe", Email: "ayse@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(&planner).Error)

	key, err := linkkey.Generate()
	require.NoError(t, err)
	event := models.Event{
		PlannerUserID: planner.ID,
		InviteKey:     key,
		Title:         "Doğum Günü",
		EventDateTime: time.Now().Add(24 * time.Hour),
		IsEnabled:     true,
	}
	require.NoError(t, db.Create(&event).Error)

	item := models.Item{Name: "Kahve Makinesi", PriceCents: 10000}
	require.NoError(t, db.Create(&item).Error)
	article := models.EventArticle{EventID: event.ID, ItemID: item.ID, QuantityRequested: 2}
	require.NoError(t, db.Create(&article).Error)

	return &planner, &event, &article
}

// signPayload Stripe imza başlığını üretir: t=<ts>,v1=hmac_sha256(secret, "<ts>.<payload>")
func signPayload(secret string, payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func postEvent(t *testing.T, app *fiber.App, payload []byte, sigHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if sigHeader != "" {
		req.Header.Set("Stripe-Signature", sigHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func checkoutCompletedPayload(sessionID string, eventID, articleID, userID uint, amountCents int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": %q,
				"metadata": {
					"event_id": "%d",
					"event_article_id": "%d",
					"user_id": "%d",
					"amount_cents": "%d",
					"message": "Tebrikler"
				}
			}
		}
	}`, sessionID, eventID, articleID, userID, amountCents))
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	app, db := newWebhookTestApp(t)
	_, event, article := seedWebhookArticle(t, db)

	payload := checkoutCompletedPayload("cs_test_1", event.ID, article.ID, 1, 10000)

	resp := postEvent(t, app, payload, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = postEvent(t, app, payload, signPayload("whsec_yanlis", payload))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Contribution{}).Count(&count).Error)
	assert.Zero(t, count, "imzasız olay katkı oluşturmamalı")
}

func TestWebhookCheckoutCompletedCreatesContribution(t *testing.T) {
	app, db := newWebhookTestApp(t)
	_, event, article := seedWebhookArticle(t, db)

	guest := models.User{Name: "Mehmet", Email: "mehmet@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(&guest).Error)

	payload := checkoutCompletedPayload("cs_test_1", event.ID, article.ID, guest.ID, 10000)
	resp := postEvent(t, app, payload, signPayload(testWebhookSecret, payload))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var contributions []models.Contribution
	require.NoError(t, db.Find(&contributions).Error)
	require.Len(t, contributions, 1)
	assert.Equal(t, int64(10000), contributions[0].AmountCents)
	assert.Equal(t, guest.ID, contributions[0].ContributorUserID)
	assert.Equal(t, "Tebrikler", contributions[0].Message)

	var reloaded models.EventArticle
	require.NoError(t, db.First(&reloaded, article.ID).Error)
	assert.Equal(t, 1, reloaded.QuantityFulfilled)
}

func TestWebhookDuplicateDeliveryCreatesDuplicateRows(t *testing.T) {
	app, db := newWebhookTestApp(t)
	_, event, article := seedWebhookArticle(t, db)

	guest := models.User{Name: "Mehmet", Email: "mehmet@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(&guest).Error)

	payload := checkoutCompletedPayload("cs_test_dup", event.ID, article.ID, guest.ID, 10000)
	for i := 0; i < 2; i++ {
		resp := postEvent(t, app, payload, signPayload(testWebhookSecret, payload))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	var count int64
	require.NoError(t, db.Model(&models.Contribution{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestWebhookMissingMetadataReturnsOKWithoutContribution(t *testing.T) {
	app, db := newWebhookTestApp(t)

	payload := []byte(`{
		"id": "evt_test_2",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_bos", "metadata": {}}}
	}`)
	resp := postEvent(t, app, payload, signPayload(testWebhookSecret, payload))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Contribution{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWebhookCheckoutExpiredMarksLink(t *testing.T) {
	app, db := newWebhookTestApp(t)
	_, _, article := seedWebhookArticle(t, db)

	guest := models.User{Name: "Mehmet", Email: "mehmet@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(&guest).Error)

	link := models.StripeLink{
		Kind:              models.StripeLinkKindCheckoutSession,
		ProviderRef:       "cs_test_exp",
		Status:            models.StripeLinkStatusPending,
		EventArticleID:    article.ID,
		ContributorUserID: guest.ID,
		AmountCents:       5000,
	}
	require.NoError(t, db.Create(&link).Error)

	payload := []byte(`{
		"id": "evt_test_3",
		"type": "checkout.session.expired",
		"data": {"object": {"id": "cs_test_exp"}}
	}`)
	resp := postEvent(t, app, payload, signPayload(testWebhookSecret, payload))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stored models.StripeLink
	require.NoError(t, db.Where("provider_ref = ?", "cs_test_exp").First(&stored).Error)
	assert.Equal(t, models.StripeLinkStatusExpired, stored.Status)
}

func TestWebhookUnhandledEventTypeReturnsOK(t *testing.T) {
	app, db := newWebhookTestApp(t)

	payload := []byte(`{
		"id": "evt_test_4",
		"type": "invoice.created",
		"data": {"object": {"id": "in_test_1"}}
	}`)
	resp := postEvent(t, app, payload, signPayload(testWebhookSecret, payload))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Contribution{}).Count(&count).Error)
	assert.Zero(t, count)
}

// nullGateway webhook testlerinde dışarı çağrı yapılmadığını garanti eder.
type nullGateway struct{}

func (nullGateway) CreateCheckoutSession(ctx context.Context, params paymentgw.CheckoutParams) (*paymentgw.CheckoutSession, error) {
	return nil, fmt.Errorf("webhook testinde checkout beklenmiyor")
}

func (nullGateway) CreateTransfer(ctx context.Context, amountCents int64, currency, destinationAccountID, description string) (string, error) {
	return "", fmt.Errorf("webhook testinde transfer beklenmiyor")
}

func (nullGateway) PayoutsEnabled(ctx context.Context, accountID string) (bool, error) {
	return false, nil
}

func (nullGateway) AvailableBalance(ctx context.Context, currency string) (int64, error) {
	return 0, nil
}

type nullMailer struct{}

func (nullMailer) SendInvitationMail(to, eventTitle, inviteURL, message string) error { return nil }

func (nullMailer) SendContributionMail(to, eventTitle, contributorName string, amountCents int64) error {
	return nil
}

var _ paymentgw.Gateway = nullGateway{}
