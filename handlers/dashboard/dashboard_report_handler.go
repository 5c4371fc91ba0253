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

// ReportHandler şikayet yönetimi için handler (Dashboard).
type ReportHandler struct {
	service services.IReportService
}

// NewReportHandler yeni bir ReportHandler örneği oluşturur.
func NewReportHandler() *ReportHandler {
	return &ReportHandler{service: services.NewReportService()}
}

// ListReports şikayetleri listeler (Admin için). ?status=OPEN ile filtrelenir.
func (h *ReportHandler) ListReports(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.GetAllReportsPaginated(c.UserContext(), params)

	renderData := fiber.Map{
		"Title":  "Şikayetler",
		"Result": result,
		"Params": params,
	}
	renderer.SetFlashMessages(renderData, flashData)

	if err != nil {
		renderData[renderer.FlashErrorKeyView] = "Şikayetler listelenirken bir hata oluştu."
		renderData["Result"] = &queryparams.PaginatedResult{}
		configslog.Log.Error("Dashboard - ListReports Error", zap.Error(err))
	}
	return renderer.Render(c, "dashboard/reports/list", "layouts/dashboard_layout", renderData, http.StatusOK)
}

// ResolveReport şikayeti çözümlenmiş olarak işaretler (Admin için).
func (h *ReportHandler) ResolveReport(c *fiber.Ctx) error {
	adminUserID := middlewares.CurrentUserID(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/dashboard/reports", fiber.StatusSeeOther)
	}
	reportID := uint(id)

	if err := h.service.ResolveReport(c.UserContext(), reportID, adminUserID); err != nil {
		if !errors.Is(err, services.ErrReportNotFound) && !errors.Is(err, services.ErrReportAlreadyResolved) {
			configslog.Log.Error("Dashboard - ResolveReport Error",
				zap.Uint("reportID", reportID), zap.Uint("adminUserID", adminUserID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Şikayet çözümlendi.")
	}
	return c.Redirect("/dashboard/reports", fiber.StatusSeeOther)
}
