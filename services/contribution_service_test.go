package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"hediye.link/models"
	"hediye.link/pkg/queryparams"
	"hediye.link/pkg/requests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordContributionFulfillsAtExactTarget(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	svc := NewContributionServiceWith(db, gateway, &fakeMailer{}, "http://localhost:3000", "try")

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	guest := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(48*time.Hour))
	article := createTestArticle(t, db, event.ID, 20000, 2) // hedef 40000

	ctx := context.Background()

	_, fulfilled, err := svc.RecordContribution(ctx, guest.ID, event.ID, article.ID, 20000, "ilk", time.Now())
	require.NoError(t, err)
	assert.False(t, fulfilled)

	var reloaded models.EventArticle
	require.NoError(t, db.First(&reloaded, article.ID).Error)
	assert.Equal(t, 1, reloaded.QuantityFulfilled)

	_, fulfilled, err = svc.RecordContribution(ctx, guest.ID, event.ID, article.ID, 20000, "ikinci", time.Now())
	require.NoError(t, err)
	assert.True(t, fulfilled, "toplam tam hedefe ulaştığında karşılanmış sayılmalı")

	require.NoError(t, db.First(&reloaded, article.ID).Error)
	assert.Equal(t, 2, reloaded.QuantityFulfilled)
	assert.True(t, reloaded.IsFulfilled())
}

func TestRecordContributionOneCentBelowTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewContributionServiceWith(db, &fakeGateway{}, &fakeMailer{}, "http://localhost:3000", "try")

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	guest := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Yılbaşı", time.Now().Add(24*time.Hour))
	article := createTestArticle(t, db, event.ID, 10000, 1)

	ctx := context.Background()

	_, fulfilled, err := svc.RecordContribution(ctx, guest.ID, event.ID, article.ID, 9999, "", time.Now())
	require.NoError(t, err)
	assert.False(t, fulfilled, "bir kuruş eksik toplam karşılanma tetiklememeli")

	_, fulfilled, err = svc.RecordContribution(ctx, guest.ID, event.ID, article.ID, 1, "", time.Now())
	require.NoError(t, err)
	assert.True(t, fulfilled)
}

func TestRecordContributionOvershootCapsQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := NewContributionServiceWith(db, &fakeGateway{}, &fakeMailer{}, "http://localhost:3000", "try")

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	guest := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Mezuniyet", time.Now().Add(24*time.Hour))
	article := createTestArticle(t, db, event.ID, 10000, 1)

	_, fulfilled, err := svc.RecordContribution(context.Background(), guest.ID, event.ID, article.ID, 25000, "", time.Now())
	require.NoError(t, err)
	assert.True(t, fulfilled)

	var reloaded models.EventArticle
	require.NoError(t, db.First(&reloaded, article.ID).Error)
	assert.Equal(t, 1, reloaded.QuantityFulfilled, "karşılanan adet istenen adedi aşmamalı")
}

func TestRecordContributionUnknownArticleFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewContributionServiceWith(db, &fakeGateway{}, &fakeMailer{}, "http://localhost:3000", "try")

	guest := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)

	_, _, err := svc.RecordContribution(context.Background(), guest.ID, 0, 999, 5000, "", time.Now())
	assert.ErrorIs(t, err, ErrArticleNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Contribution{}).Count(&count).Error)
	assert.Zero(t, count, "başarısız katkı satır bırakmamalı")
}

func TestRecordContributionEventMismatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewContributionServiceWith(db, &fakeGateway{}, &fakeMailer{}, "http://localhost:3000", "try")

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	guest := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))
	other := createTestEvent(t, db, planner.ID, "Başka Etkinlik", time.Now().Add(24*time.Hour))
	article := createTestArticle(t, db, event.ID, 10000, 1)

	_, _, err := svc.RecordContribution(context.Background(), guest.ID, other.ID, article.ID, 5000, "", time.Now())
	assert.ErrorIs(t, err, ErrContributionEventMismatch)
}

func TestStartCheckoutRequiresAcceptedInvitation(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	svc := NewContributionServiceWith(db, gateway, &fakeMailer{}, "http://localhost:3000", "try")

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	stranger := createTestUser(t, db, "Veli", "veli@example.com", false)
	pendingGuest := createTestUser(t, db, "Zeynep", "zeynep@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))
	article := createTestArticle(t, db, event.ID, 10000, 1)
	createTestInvitation(t, db, event.ID, pendingGuest.ID, models.InvitationStatusPending)

	req := requests.CheckoutRequest{EventArticleID: article.ID, AmountCents: 5000}

	_, err := svc.StartCheckout(context.Background(), stranger.ID, req)
	assert.ErrorIs(t, err, ErrContributionNotInvited)

	_, err = svc.StartCheckout(context.Background(), pendingGuest.ID, req)
	assert.ErrorIs(t, err, ErrContributionNotInvited, "PENDING davet katkı için yeterli değil")

	assert.Empty(t, gateway.sessions, "yetkisiz denemeler ödeme oturumu açmamalı")
}

func TestStartCheckoutCreatesSessionAndPendingLink(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	svc := NewContributionServiceWith(db, gateway, &fakeMailer{}, "http://localhost:3000", "try")

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	guest := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))
	article := createTestArticle(t, db, event.ID, 10000, 1)
	createTestInvitation(t, db, event.ID, guest.ID, models.InvitationStatusAccepted)

	session, err := svc.StartCheckout(context.Background(), guest.ID, requests.CheckoutRequest{
		EventArticleID: article.ID,
		AmountCents:    7500,
		Message:        "Nice günlere",
	})
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.URL)

	require.Len(t, gateway.sessions, 1)
	meta := gateway.sessions[0].Metadata
	assert.Equal(t, strconv.Itoa(int(event.ID)), meta[MetaEventID])
	assert.Equal(t, strconv.Itoa(int(article.ID)), meta[MetaArticleID])
	assert.Equal(t, strconv.Itoa(int(guest.ID)), meta[MetaUserID])
	assert.Equal(t, "7500", meta[MetaAmountCents])

	var link models.StripeLink
	require.NoError(t, db.Where("provider_ref = ?", session.ID).First(&link).Error)
	assert.Equal(t, models.StripeLinkStatusPending, link.Status)
	assert.Equal(t, int64(7500), link.AmountCents)

	// Katkı satırı webhook gelmeden oluşmaz.
	var count int64
	require.NoError(t, db.Model(&models.Contribution{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestStartCheckoutPlannerDoesNotNeedInvitation(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	svc := NewContributionServiceWith(db, gateway, &fakeMailer{}, "http://localhost:3000", "try")

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))
	article := createTestArticle(t, db, event.ID, 10000, 1)

	_, err := svc.StartCheckout(context.Background(), planner.ID, requests.CheckoutRequest{
		EventArticleID: article.ID,
		AmountCents:    5000,
	})
	require.NoError(t, err)
	assert.Len(t, gateway.sessions, 1)
}

func TestHandleCheckoutCompletedCreatesContribution(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	svc := NewContributionServiceWith(db, gateway, &fakeMailer{}, "http://localhost:3000", "try")

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	guest := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))
	article := createTestArticle(t, db, event.ID, 10000, 1)
	createTestInvitation(t, db, event.ID, guest.ID, models.InvitationStatusAccepted)

	session, err := svc.StartCheckout(context.Background(), guest.ID, requests.CheckoutRequest{
		EventArticleID: article.ID,
		AmountCents:    10000,
		Message:        "Tebrikler",
	})
	require.NoError(t, err)

	metadata := map[string]string{
		MetaEventID:     strconv.Itoa(int(event.ID)),
		MetaArticleID:   strconv.Itoa(int(article.ID)),
		MetaUserID:      strconv.Itoa(int(guest.ID)),
		MetaAmountCents: "10000",
		MetaMessage:     "Tebrikler",
	}
	require.NoError(t, svc.HandleCheckoutCompleted(context.Background(), session.ID, metadata))

	var contributions []models.Contribution
	require.NoError(t, db.Find(&contributions).Error)
	require.Len(t, contributions, 1)
	assert.Equal(t, int64(10000), contributions[0].AmountCents)
	assert.Equal(t, guest.ID, contributions[0].ContributorUserID)
	assert.Equal(t, "Tebrikler", contributions[0].Message)

	var link models.StripeLink
	require.NoError(t, db.Where("provider_ref = ?", session.ID).First(&link).Error)
	assert.Equal(t, models.StripeLinkStatusAccepted, link.Status)

	var reloaded models.EventArticle
	require.NoError(t, db.First(&reloaded, article.ID).Error)
	assert.Equal(t, 1, reloaded.QuantityFulfilled)
}

func TestHandleCheckoutCompletedMissingMetadataSkipsContribution(t *testing.T) {
	db := newTestDB(t)
	svc := NewContributionServiceWith(db, &fakeGateway{}, &fakeMailer{}, "http://localhost:3000", "try")

	// Eksik metadata handler'ı düşürmemeli; katkı da oluşmamalı.
	err := svc.HandleCheckoutCompleted(context.Background(), "cs_test_unknown", map[string]string{
		MetaEventID: "1",
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Contribution{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHandleCheckoutCompletedDuplicateDeliveryDuplicatesRows(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	svc := NewContributionServiceWith(db, gateway, &fakeMailer{}, "http://localhost:3000", "try")

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	guest := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))
	article := createTestArticle(t, db, event.ID, 10000, 2)

	metadata := map[string]string{
		MetaEventID:     strconv.Itoa(int(event.ID)),
		MetaArticleID:   strconv.Itoa(int(article.ID)),
		MetaUserID:      strconv.Itoa(int(guest.ID)),
		MetaAmountCents: "10000",
	}

	// Tekilleştirme yok: aynı olayın iki teslimi iki satır üretir.
	require.NoError(t, svc.HandleCheckoutCompleted(context.Background(), "cs_test_dup", metadata))
	require.NoError(t, svc.HandleCheckoutCompleted(context.Background(), "cs_test_dup", metadata))

	var count int64
	require.NoError(t, db.Model(&models.Contribution{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestHandleCheckoutExpiredMarksLink(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeGateway{}
	svc := NewContributionServiceWith(db, gateway, &fakeMailer{}, "http://localhost:3000", "try")

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))
	article := createTestArticle(t, db, event.ID, 10000, 1)

	session, err := svc.StartCheckout(context.Background(), planner.ID, requests.CheckoutRequest{
		EventArticleID: article.ID,
		AmountCents:    5000,
	})
	require.NoError(t, err)

	require.NoError(t, svc.HandleCheckoutExpired(context.Background(), session.ID))

	var link models.StripeLink
	require.NoError(t, db.Where("provider_ref = ?", session.ID).First(&link).Error)
	assert.Equal(t, models.StripeLinkStatusExpired, link.Status)

	// Bilinmeyen oturum hata üretmez.
	assert.NoError(t, svc.HandleCheckoutExpired(context.Background(), "cs_test_unknown"))
}

func TestHandlePaymentLinkPaidUsesLocalRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewContributionServiceWith(db, &fakeGateway{}, &fakeMailer{}, "http://localhost:3000", "try")

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	guest := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))
	article := createTestArticle(t, db, event.ID, 10000, 1)

	link := models.StripeLink{
		Kind:              models.StripeLinkKindPaymentLink,
		ProviderRef:       "plink_test_1",
		Status:            models.StripeLinkStatusPending,
		URL:               "https://pay.example.com/plink_test_1",
		EventArticleID:    article.ID,
		ContributorUserID: guest.ID,
		AmountCents:       10000,
		Message:           "Sevgilerle",
	}
	require.NoError(t, db.Create(&link).Error)

	require.NoError(t, svc.HandlePaymentLinkPaid(context.Background(), "plink_test_1"))

	var contributions []models.Contribution
	require.NoError(t, db.Find(&contributions).Error)
	require.Len(t, contributions, 1)
	assert.Equal(t, int64(10000), contributions[0].AmountCents)
	assert.Equal(t, "Sevgilerle", contributions[0].Message)
}

func TestRejectContributionAuthorization(t *testing.T) {
	db := newTestDB(t)
	svc := NewContributionServiceWith(db, &fakeGateway{}, &fakeMailer{}, "http://localhost:3000", "try")

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	guest := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	stranger := createTestUser(t, db, "Veli", "veli@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))
	article := createTestArticle(t, db, event.ID, 10000, 1)

	contribution, _, err := svc.RecordContribution(context.Background(), guest.ID, event.ID, article.ID, 5000, "", time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RejectContribution(context.Background(), contribution.ID, stranger.ID), ErrContributionForbidden)
	require.NoError(t, svc.RejectContribution(context.Background(), contribution.ID, planner.ID))

	var count int64
	require.NoError(t, db.Model(&models.Contribution{}).Where("deleted_at IS NULL").Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetAllContributionsPaginated(t *testing.T) {
	db := newTestDB(t)
	svc := NewContributionServiceWith(db, &fakeGateway{}, &fakeMailer{}, "http://localhost:3000", "try")

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	guest := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(48*time.Hour))
	article := createTestArticle(t, db, event.ID, 50000, 3)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, _, err := svc.RecordContribution(ctx, guest.ID, event.ID, article.ID, 5000, "katkı "+strconv.Itoa(i), time.Now())
		require.NoError(t, err)
	}

	result, err := svc.GetAllContributionsPaginated(ctx, queryparams.ListParams{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Meta.TotalItems)
	assert.Equal(t, 2, result.Meta.TotalPages)

	contributions, ok := result.Data.([]models.Contribution)
	require.True(t, ok)
	require.Len(t, contributions, 2)
	assert.Equal(t, guest.Email, contributions[0].Contributor.Email)
	assert.Equal(t, event.Title, contributions[0].EventArticle.Event.Title)
}
