package services

import (
	"context"
	"testing"
	"time"

	"hediye.link/models"
	"hediye.link/pkg/requests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddArticleCreatesItemAndLink(t *testing.T) {
	db := newTestDB(t)
	svc := NewWishlistServiceWith(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))

	article, err := svc.AddArticle(context.Background(), event.ID, planner.ID, requests.ArticleRequest{
		Name:              "Espresso Makinesi",
		Description:       "Öğütücülü model",
		PriceCents:        450000,
		Priority:          5,
		QuantityRequested: 1,
	})
	require.NoError(t, err)
	assert.NotZero(t, article.ID)
	assert.NotZero(t, article.Item.ID)
	assert.Equal(t, int64(450000), article.Item.PriceCents)
	assert.Equal(t, int64(450000), article.TargetCents())
	assert.Zero(t, article.QuantityFulfilled)

	wishlist, err := svc.GetWishlist(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, wishlist, 1)
	assert.Equal(t, "Espresso Makinesi", wishlist[0].Item.Name)
}

func TestAddArticleAuthorization(t *testing.T) {
	db := newTestDB(t)
	svc := NewWishlistServiceWith(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	stranger := createTestUser(t, db, "Veli", "veli@example.com", false)
	admin := createTestUser(t, db, "Admin", "admin@example.com", true)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))

	req := requests.ArticleRequest{Name: "Kitap", PriceCents: 15000, QuantityRequested: 1}

	_, err := svc.AddArticle(context.Background(), event.ID, stranger.ID, req)
	assert.ErrorIs(t, err, ErrArticleForbidden)

	// Admin her etkinliğin listesini yönetebilir.
	_, err = svc.AddArticle(context.Background(), event.ID, admin.ID, req)
	assert.NoError(t, err)
}

func TestWishlistOrderedByPriority(t *testing.T) {
	db := newTestDB(t)
	svc := NewWishlistServiceWith(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))

	_, err := svc.AddArticle(context.Background(), event.ID, planner.ID, requests.ArticleRequest{
		Name: "Düşük Öncelik", PriceCents: 10000, Priority: 1, QuantityRequested: 1,
	})
	require.NoError(t, err)
	_, err = svc.AddArticle(context.Background(), event.ID, planner.ID, requests.ArticleRequest{
		Name: "Yüksek Öncelik", PriceCents: 10000, Priority: 9, QuantityRequested: 1,
	})
	require.NoError(t, err)

	wishlist, err := svc.GetWishlist(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, wishlist, 2)
	assert.Equal(t, "Yüksek Öncelik", wishlist[0].Item.Name)
	assert.Equal(t, "Düşük Öncelik", wishlist[1].Item.Name)
}

func TestUpdateArticle(t *testing.T) {
	db := newTestDB(t)
	svc := NewWishlistServiceWith(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	stranger := createTestUser(t, db, "Veli", "veli@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))
	article := createTestArticle(t, db, event.ID, 20000, 1)

	req := requests.ArticleRequest{Name: "Filtre Kahve Makinesi", PriceCents: 25000, QuantityRequested: 2}

	assert.ErrorIs(t, svc.UpdateArticle(context.Background(), article.ID, stranger.ID, req), ErrArticleForbidden)

	require.NoError(t, svc.UpdateArticle(context.Background(), article.ID, planner.ID, req))

	updated, err := svc.GetArticleByID(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, "Filtre Kahve Makinesi", updated.Item.Name)
	assert.Equal(t, int64(25000), updated.Item.PriceCents)
	assert.Equal(t, 2, updated.QuantityRequested)
}

func TestDeleteArticleBlockedByContributions(t *testing.T) {
	db := newTestDB(t)
	svc := NewWishlistServiceWith(db)
	contribSvc := NewContributionServiceWith(db, &fakeGateway{}, &fakeMailer{}, "http://localhost:3000", "try")

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)
	guest := createTestUser(t, db, "Mehmet", "mehmet@example.com", false)
	event := createTestEvent(t, db, planner.ID, "Doğum Günü", time.Now().Add(24*time.Hour))
	article := createTestArticle(t, db, event.ID, 10000, 1)

	_, _, err := contribSvc.RecordContribution(context.Background(), guest.ID, event.ID, article.ID, 5000, "", time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteArticle(context.Background(), article.ID, planner.ID), ErrArticleHasContributions)

	// Katkısız kayıt silinebilir.
	empty := createTestArticle(t, db, event.ID, 10000, 1)
	require.NoError(t, svc.DeleteArticle(context.Background(), empty.ID, planner.ID))

	var count int64
	require.NoError(t, db.Model(&models.EventArticle{}).Where("deleted_at IS NULL").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteArticleUnknown(t *testing.T) {
	db := newTestDB(t)
	svc := NewWishlistServiceWith(db)

	planner := createTestUser(t, db, "Ayşe", "ayse@example.com", false)

	assert.ErrorIs(t, svc.DeleteArticle(context.Background(), 999, planner.ID), ErrArticleNotFound)
}
