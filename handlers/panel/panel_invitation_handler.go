package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"hediye.link/configs/configslog"
	"hediye.link/middlewares"
	"hediye.link/models"
	"hediye.link/pkg/flashmessages"
	"hediye.link/pkg/queryparams"
	"hediye.link/pkg/renderer"
	"hediye.link/pkg/requests"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// InvitationHandler davet yönetimi için handler (Panel).
type InvitationHandler struct {
	service services.IInvitationService
}

// NewInvitationHandler yeni bir InvitationHandler örneği oluşturur.
func NewInvitationHandler() *InvitationHandler {
	return &InvitationHandler{service: services.NewInvitationService()}
}

// InviteGuest etkinliğe davetli ekler.
func (h *InvitationHandler) InviteGuest(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}
	redirectPath := fmt.Sprintf("/panel/events/%d", eventID)

	var req requests.InviteGuestRequest
	if err := requests.Parse(c, &req); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	if _, err := h.service.InviteGuest(c.UserContext(), eventID, userID, req.Email, req.Message); err != nil {
		if !errors.Is(err, services.ErrGuestUserNotFound) && !errors.Is(err, services.ErrInvitationExists) &&
			!errors.Is(err, services.ErrCannotInviteSelf) && !errors.Is(err, services.ErrInvitationForbidden) {
			configslog.Log.Error("Panel - InviteGuest Error", zap.Uint("eventID", eventID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Davet gönderildi.")
	return c.Redirect(redirectPath, fiber.StatusSeeOther)
}

// RemoveGuest davetliyi etkinlikten çıkarır.
func (h *InvitationHandler) RemoveGuest(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	invitationID, err := parseIDParam(c, "invitationId")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}

	if err := h.service.RemoveGuest(c.UserContext(), invitationID, userID); err != nil {
		if !errors.Is(err, services.ErrInvitationNotFound) && !errors.Is(err, services.ErrInvitationForbidden) {
			configslog.Log.Error("Panel - RemoveGuest Error", zap.Uint("invitationID", invitationID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Davetli çıkarıldı.")
	}

	referer := c.Get("Referer", "/panel/events")
	return c.Redirect(referer, fiber.StatusSeeOther)
}

// ListMyInvitations davetlinin aldığı davetleri listeler.
func (h *InvitationHandler) ListMyInvitations(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	flashData, _ := flashmessages.GetFlashMessages(c)

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.GetInvitationsForGuest(c.UserContext(), userID, params)

	renderData := fiber.Map{
		"Title":  "Davetlerim",
		"Result": result,
		"Params": params,
	}
	renderer.SetFlashMessages(renderData, flashData)

	if err != nil {
		renderData[renderer.FlashErrorKeyView] = "Davetler listelenirken bir hata oluştu."
		renderData["Result"] = &queryparams.PaginatedResult{}
		configslog.Log.Error("Panel - ListMyInvitations Error", zap.Uint("userID", userID), zap.Error(err))
	}
	return renderer.Render(c, "panel/invitations/list", "layouts/panel_layout", renderData, http.StatusOK)
}

// RespondInvitation davetlinin LCV yanıtını kaydeder.
func (h *InvitationHandler) RespondInvitation(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	invitationID, err := parseIDParam(c, "id")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel/invitations", fiber.StatusSeeOther)
	}

	var req requests.RespondInvitationRequest
	if err := requests.Parse(c, &req); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations", fiber.StatusSeeOther)
	}

	status := models.InvitationStatus(req.Status)
	if err := h.service.RespondInvitation(c.UserContext(), invitationID, userID, status); err != nil {
		if !errors.Is(err, services.ErrInvitationNotFound) && !errors.Is(err, services.ErrInvitationForbidden) &&
			!errors.Is(err, services.ErrInvalidInvitationStatus) {
			configslog.Log.Error("Panel - RespondInvitation Error", zap.Uint("invitationID", invitationID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations", fiber.StatusSeeOther)
	}

	msg := "Davet reddedildi."
	if status == models.InvitationStatusAccepted {
		msg = "Davet kabul edildi."
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, msg)
	return c.Redirect("/panel/invitations", fiber.StatusSeeOther)
}
