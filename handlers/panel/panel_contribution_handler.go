package handlers

import (
	"errors"

	"hediye.link/configs/configslog"
	"hediye.link/middlewares"
	"hediye.link/pkg/flashmessages"
	"hediye.link/pkg/renderer"
	"hediye.link/pkg/requests"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ContributionHandler katkı ve ödeme akışı için handler (Panel).
type ContributionHandler struct {
	service     services.IContributionService
	wishService services.IWishlistService
}

// NewContributionHandler yeni bir ContributionHandler örneği oluşturur.
func NewContributionHandler(service services.IContributionService) *ContributionHandler {
	return &ContributionHandler{
		service:     service,
		wishService: services.NewWishlistService(),
	}
}

// StartCheckout ödeme oturumu açar ve kullanıcıyı sağlayıcı sayfasına yönlendirir.
func (h *ContributionHandler) StartCheckout(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)

	var req requests.CheckoutRequest
	if err := requests.Parse(c, &req); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(c.Get("Referer", "/panel/invitations"), fiber.StatusSeeOther)
	}

	session, err := h.service.StartCheckout(c.UserContext(), userID, req)
	if err != nil {
		if !errors.Is(err, services.ErrArticleNotFound) && !errors.Is(err, services.ErrEventNotFound) &&
			!errors.Is(err, services.ErrContributionNotInvited) {
			configslog.Log.Error("Panel - StartCheckout Error",
				zap.Uint("articleID", req.EventArticleID), zap.Uint("userID", userID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(c.Get("Referer", "/panel/invitations"), fiber.StatusSeeOther)
	}

	// Ödeme sağlayıcının barındırdığı sayfaya yönlendirilir.
	return c.Redirect(session.URL, fiber.StatusSeeOther)
}

// ListArticleContributions makaleye yapılan katkıları gösterir (planlayıcı).
func (h *ContributionHandler) ListArticleContributions(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	articleID, err := parseIDParam(c, "articleId")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}

	article, err := h.wishService.GetArticleByID(c.UserContext(), articleID)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Kayıt bulunamadı.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}

	contributions, err := h.service.GetContributionsForArticle(c.UserContext(), articleID, userID)
	if err != nil {
		if !errors.Is(err, services.ErrContributionForbidden) {
			configslog.Log.Error("Panel - ListArticleContributions Error", zap.Uint("articleID", articleID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}

	flashData, _ := flashmessages.GetFlashMessages(c)
	renderData := fiber.Map{
		"Title":         "Katkılar - " + article.Item.Name,
		"Article":       article,
		"Contributions": contributions,
	}
	renderer.SetFlashMessages(renderData, flashData)
	return renderer.Render(c, "panel/contributions/list", "layouts/panel_layout", renderData)
}

// RejectContribution katkıyı reddeder/siler (planlayıcı veya admin).
func (h *ContributionHandler) RejectContribution(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	contributionID, err := parseIDParam(c, "contributionId")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}

	if err := h.service.RejectContribution(c.UserContext(), contributionID, userID); err != nil {
		if !errors.Is(err, services.ErrContributionNotFound) && !errors.Is(err, services.ErrContributionForbidden) {
			configslog.Log.Error("Panel - RejectContribution Error", zap.Uint("contributionID", contributionID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Katkı reddedildi.")
	}
	return c.Redirect(c.Get("Referer", "/panel/events"), fiber.StatusSeeOther)
}
