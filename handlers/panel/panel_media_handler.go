package handlers

import (
	"errors"
	"fmt"

	"hediye.link/configs/configslog"
	"hediye.link/middlewares"
	"hediye.link/models"
	"hediye.link/pkg/flashmessages"
	"hediye.link/pkg/requests"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MediaHandler etkinlik galerisi ve şikayet işlemleri için handler (Panel).
type MediaHandler struct {
	service       services.IMediaService
	reportService services.IReportService
}

// NewMediaHandler yeni bir MediaHandler örneği oluşturur.
func NewMediaHandler(service services.IMediaService) *MediaHandler {
	return &MediaHandler{
		service:       service,
		reportService: services.NewReportService(),
	}
}

// UploadMedia etkinlik galerisine fotoğraf/video ekler.
func (h *MediaHandler) UploadMedia(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}
	redirectPath := fmt.Sprintf("/panel/events/%d", eventID)

	fileHeader, err := c.FormFile("media")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Dosya seçilmedi.")
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	var captionReq requests.MediaCaptionRequest
	_ = c.BodyParser(&captionReq)

	data, contentType, err := readUpload(fileHeader)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Dosya okunamadı.")
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	if _, err := h.service.UploadEventMedia(c.UserContext(), eventID, userID, fileHeader.Filename, contentType, data, captionReq.Caption); err != nil {
		if !errors.Is(err, services.ErrMediaForbidden) && !errors.Is(err, services.ErrMediaUnsupportedType) &&
			!errors.Is(err, services.ErrMediaInvalidInput) {
			configslog.Log.Error("Panel - UploadMedia Error", zap.Uint("eventID", eventID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Galeriye eklendi.")
	return c.Redirect(redirectPath, fiber.StatusSeeOther)
}

// DeleteMedia galeri kaydını siler.
func (h *MediaHandler) DeleteMedia(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	mediaID, err := parseIDParam(c, "mediaId")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}

	if err := h.service.DeleteMedia(c.UserContext(), mediaID, userID); err != nil {
		if !errors.Is(err, services.ErrMediaNotFound) && !errors.Is(err, services.ErrMediaForbidden) {
			configslog.Log.Error("Panel - DeleteMedia Error", zap.Uint("mediaID", mediaID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Medya silindi.")
	}
	return c.Redirect(c.Get("Referer", "/panel/events"), fiber.StatusSeeOther)
}

// CreateReport etkinlik veya medya için şikayet açar.
func (h *MediaHandler) CreateReport(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)

	var req requests.ReportRequest
	if err := requests.Parse(c, &req); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(c.Get("Referer", "/panel/invitations"), fiber.StatusSeeOther)
	}

	targetType := models.ReportTargetType(req.TargetType)
	if _, err := h.reportService.CreateReport(c.UserContext(), userID, targetType, req.TargetID, req.Reason); err != nil {
		if !errors.Is(err, services.ErrReportTargetNotFound) && !errors.Is(err, services.ErrReportInvalidInput) {
			configslog.Log.Error("Panel - CreateReport Error", zap.Uint("targetID", req.TargetID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Şikayetiniz alındı.")
	}
	return c.Redirect(c.Get("Referer", "/panel/invitations"), fiber.StatusSeeOther)
}
