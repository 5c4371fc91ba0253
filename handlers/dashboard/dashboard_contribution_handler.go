package handlers

import (
	"net/http"

	"hediye.link/configs/configslog"
	"hediye.link/pkg/flashmessages"
	"hediye.link/pkg/queryparams"
	"hediye.link/pkg/renderer"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ContributionHandler katkı yönetimi için handler (Dashboard).
type ContributionHandler struct {
	service services.IContributionService
}

// NewContributionHandler yeni bir ContributionHandler örneği oluşturur.
func NewContributionHandler(service services.IContributionService) *ContributionHandler {
	return &ContributionHandler{service: service}
}

// ListContributions tüm katkıları listeler (Admin için).
func (h *ContributionHandler) ListContributions(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.GetAllContributionsPaginated(c.UserContext(), params)

	renderData := fiber.Map{
		"Title":  "Katkılar",
		"Result": result,
		"Params": params,
	}
	renderer.SetFlashMessages(renderData, flashData)

	if err != nil {
		renderData[renderer.FlashErrorKeyView] = "Katkılar listelenirken bir hata oluştu."
		renderData["Result"] = &queryparams.PaginatedResult{}
		configslog.Log.Error("Dashboard - ListContributions Error", zap.Error(err))
	}
	return renderer.Render(c, "dashboard/contributions/list", "layouts/dashboard_layout", renderData, http.StatusOK)
}
