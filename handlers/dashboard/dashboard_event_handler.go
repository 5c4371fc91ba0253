package handlers

import (
	"errors"
	"net/http"

	"hediye.link/configs/configslog"
	"hediye.link/middlewares"
	"hediye.link/pkg/flashmessages"
	"hediye.link/pkg/queryparams"
	"hediye.link/pkg/renderer"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EventHandler etkinlik yönetimi için handler (Dashboard).
type EventHandler struct {
	service services.IEventService
}

// NewEventHandler yeni bir EventHandler örneği oluşturur.
func NewEventHandler() *EventHandler {
	return &EventHandler{service: services.NewEventService()}
}

// ListEvents tüm etkinlikleri listeler (Admin için).
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.GetAllEventsPaginated(c.UserContext(), params)

	renderData := fiber.Map{
		"Title":  "Tüm Etkinlikler",
		"Result": result,
		"Params": params,
	}
	renderer.SetFlashMessages(renderData, flashData)

	if err != nil {
		renderData[renderer.FlashErrorKeyView] = "Etkinlikler listelenirken bir hata oluştu."
		renderData["Result"] = &queryparams.PaginatedResult{}
		configslog.Log.Error("Dashboard - ListEvents Error", zap.Error(err))
	}
	return renderer.Render(c, "dashboard/events/list", "layouts/dashboard_layout", renderData, http.StatusOK)
}

// DeleteEvent bir etkinliği siler (Admin yetkisiyle).
func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	adminUserID := middlewares.CurrentUserID(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/dashboard/events", fiber.StatusSeeOther)
	}
	eventID := uint(id)

	if err := h.service.DeleteEvent(c.UserContext(), eventID, adminUserID); err != nil {
		if !errors.Is(err, services.ErrEventNotFound) {
			configslog.Log.Error("Dashboard - DeleteEvent Error",
				zap.Uint("eventID", eventID), zap.Uint("adminUserID", adminUserID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Silme hatası: "+err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Etkinlik silindi.")
	}
	return c.Redirect("/dashboard/events", fiber.StatusSeeOther)
}
