package handlers

import (
	"errors"

	"hediye.link/configs/configslog"
	"hediye.link/pkg/linkkey"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PublicEventHandler davet linki isteklerini yönetir.
type PublicEventHandler struct {
	eventService services.IEventService
	wishService  services.IWishlistService
}

// NewPublicEventHandler yeni bir PublicEventHandler örneği oluşturur.
func NewPublicEventHandler() *PublicEventHandler {
	return &PublicEventHandler{
		eventService: services.NewEventService(),
		wishService:  services.NewWishlistService(),
	}
}

// HandleInviteKey gelen :key parametresine göre etkinlik sayfasını gösterir.
// Kapalı veya silinmiş etkinlikler için de 404 döner; key varlığı sızdırılmaz.
func (h *PublicEventHandler) HandleInviteKey(c *fiber.Ctx) error {
	key := c.Params("key")
	if !linkkey.IsValid(key) {
		configslog.SLog.Warnf("Geçersiz formatta davet anahtarı denendi: %s", key)
		return h.renderNotFound(c, "Geçersiz Link")
	}

	ctx := c.UserContext()
	event, err := h.eventService.GetEventByInviteKey(ctx, key)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return h.renderNotFound(c, "Etkinlik Bulunamadı")
		}
		configslog.Log.Error("HandleInviteKey: GetEventByInviteKey error", zap.String("key", key), zap.Error(err))
		return h.renderError(c, "Etkinlik yüklenirken bir sorun oluştu.")
	}

	wishlist, err := h.wishService.GetWishlist(ctx, event.ID)
	if err != nil {
		configslog.Log.Error("HandleInviteKey: GetWishlist error", zap.Uint("eventID", event.ID), zap.Error(err))
		wishlist = nil
	}

	return c.Render("public/event", fiber.Map{
		"Title":    event.Title,
		"Event":    event,
		"Wishlist": wishlist,
		"Checkout": c.Query("checkout"),
	}, "layouts/public_layout")
}

// renderNotFound standart 404 sayfasını render eder.
func (h *PublicEventHandler) renderNotFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{
		"Title":   "Bulunamadı",
		"Message": message,
	}, "layouts/error_layout")
}

// renderError standart 500 hata sayfasını render eder.
func (h *PublicEventHandler) renderError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{
		"Title":   "Sunucu Hatası",
		"Message": message,
	}, "layouts/error_layout")
}
