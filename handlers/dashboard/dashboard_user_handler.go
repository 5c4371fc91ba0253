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

// UserHandler kullanıcı yönetimi için handler (Dashboard).
type UserHandler struct {
	service services.IUserService
}

// NewUserHandler yeni bir UserHandler örneği oluşturur.
func NewUserHandler() *UserHandler {
	return &UserHandler{service: services.NewUserService()}
}

// ListUsers tüm kullanıcıları listeler (Admin için).
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.GetAllUsersPaginated(c.UserContext(), params)

	renderData := fiber.Map{
		"Title":  "Kullanıcılar",
		"Result": result,
		"Params": params,
	}
	renderer.SetFlashMessages(renderData, flashData)

	if err != nil {
		renderData[renderer.FlashErrorKeyView] = "Kullanıcılar listelenirken bir hata oluştu."
		renderData["Result"] = &queryparams.PaginatedResult{}
		configslog.Log.Error("Dashboard - ListUsers Error", zap.Error(err))
	}
	return renderer.Render(c, "dashboard/users/list", "layouts/dashboard_layout", renderData, http.StatusOK)
}

// SetUserActive bir hesabı aktifleştirir/devre dışı bırakır (Admin için).
func (h *UserHandler) SetUserActive(c *fiber.Ctx) error {
	adminUserID := middlewares.CurrentUserID(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/dashboard/users", fiber.StatusSeeOther)
	}
	targetUserID := uint(id)

	activeStr := c.FormValue("active", "false")
	active := activeStr == "true" || activeStr == "on"

	if err := h.service.SetUserActive(c.UserContext(), adminUserID, targetUserID, active); err != nil {
		if !errors.Is(err, services.ErrUserNotFound) {
			configslog.Log.Error("Dashboard - SetUserActive Error",
				zap.Uint("targetUserID", targetUserID), zap.Uint("adminUserID", adminUserID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Kullanıcı durumu güncellendi.")
	}
	return c.Redirect("/dashboard/users", fiber.StatusSeeOther)
}
