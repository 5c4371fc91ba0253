package handlers

import (
	"errors"
	"fmt"

	"hediye.link/configs/configslog"
	"hediye.link/middlewares"
	"hediye.link/pkg/flashmessages"
	"hediye.link/pkg/requests"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WishlistHandler dilek listesi yönetimi için handler (Panel).
type WishlistHandler struct {
	service services.IWishlistService
}

// NewWishlistHandler yeni bir WishlistHandler örneği oluşturur.
func NewWishlistHandler() *WishlistHandler {
	return &WishlistHandler{service: services.NewWishlistService()}
}

// AddArticle etkinliğin dilek listesine kayıt ekler.
func (h *WishlistHandler) AddArticle(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}
	redirectPath := fmt.Sprintf("/panel/events/%d", eventID)

	var req requests.ArticleRequest
	if err := requests.Parse(c, &req); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		_ = flashmessages.SetFlashFormData(c, req)
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	if _, err := h.service.AddArticle(c.UserContext(), eventID, userID, req); err != nil {
		if !errors.Is(err, services.ErrEventNotFound) && !errors.Is(err, services.ErrArticleForbidden) {
			configslog.Log.Error("Panel - AddArticle Error", zap.Uint("eventID", eventID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		_ = flashmessages.SetFlashFormData(c, req)
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Dilek listesine eklendi.")
	return c.Redirect(redirectPath, fiber.StatusSeeOther)
}

// UpdateArticle dilek listesi kaydını günceller.
func (h *WishlistHandler) UpdateArticle(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	articleID, err := parseIDParam(c, "articleId")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}

	var req requests.ArticleRequest
	if err := requests.Parse(c, &req); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(c.Get("Referer", "/panel/events"), fiber.StatusSeeOther)
	}

	if err := h.service.UpdateArticle(c.UserContext(), articleID, userID, req); err != nil {
		if !errors.Is(err, services.ErrArticleNotFound) && !errors.Is(err, services.ErrArticleForbidden) {
			configslog.Log.Error("Panel - UpdateArticle Error", zap.Uint("articleID", articleID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Kayıt güncellendi.")
	}
	return c.Redirect(c.Get("Referer", "/panel/events"), fiber.StatusSeeOther)
}

// DeleteArticle dilek listesi kaydını siler. Katkı almış kayıtlar silinemez.
func (h *WishlistHandler) DeleteArticle(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	articleID, err := parseIDParam(c, "articleId")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}

	if err := h.service.DeleteArticle(c.UserContext(), articleID, userID); err != nil {
		if !errors.Is(err, services.ErrArticleNotFound) && !errors.Is(err, services.ErrArticleForbidden) &&
			!errors.Is(err, services.ErrArticleHasContributions) {
			configslog.Log.Error("Panel - DeleteArticle Error", zap.Uint("articleID", articleID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Kayıt silindi.")
	}
	return c.Redirect(c.Get("Referer", "/panel/events"), fiber.StatusSeeOther)
}
