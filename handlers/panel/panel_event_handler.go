package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"hediye.link/configs/configslog"
	"hediye.link/middlewares"
	"hediye.link/pkg/flashmessages"
	"hediye.link/pkg/queryparams"
	"hediye.link/pkg/renderer"
	"hediye.link/pkg/requests"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EventHandler planlayıcının etkinlik yönetimi için handler (Panel).
type EventHandler struct {
	service      services.IEventService
	invService   services.IInvitationService
	wishService  services.IWishlistService
	mediaService services.IMediaService
}

// NewEventHandler yeni bir EventHandler örneği oluşturur.
func NewEventHandler(mediaService services.IMediaService) *EventHandler {
	return &EventHandler{
		service:      services.NewEventService(),
		invService:   services.NewInvitationService(),
		wishService:  services.NewWishlistService(),
		mediaService: mediaService,
	}
}

// ListEvents planlayıcının etkinliklerini listeler.
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	flashData, _ := flashmessages.GetFlashMessages(c)

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.GetEventsForPlanner(c.UserContext(), userID, params)

	renderData := fiber.Map{
		"Title":  "Etkinliklerim",
		"Result": result,
		"Params": params,
	}
	renderer.SetFlashMessages(renderData, flashData)

	if err != nil {
		renderData[renderer.FlashErrorKeyView] = "Etkinlikler listelenirken bir hata oluştu."
		renderData["Result"] = &queryparams.PaginatedResult{}
		configslog.Log.Error("Panel - ListEvents Error", zap.Uint("userID", userID), zap.Error(err))
	}
	return renderer.Render(c, "panel/events/list", "layouts/panel_layout", renderData, http.StatusOK)
}

// ShowCreateEvent etkinlik oluşturma formunu gösterir.
func (h *EventHandler) ShowCreateEvent(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	renderData := fiber.Map{
		"Title":    "Yeni Etkinlik",
		"FormData": flashmessages.GetFlashFormData(c),
	}
	renderer.SetFlashMessages(renderData, flashData)
	return renderer.Render(c, "panel/events/create", "layouts/panel_layout", renderData)
}

// CreateEvent yeni etkinlik oluşturur.
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)

	var req requests.EventRequest
	if err := requests.Parse(c, &req); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		_ = flashmessages.SetFlashFormData(c, req)
		return c.Redirect("/panel/events/create", fiber.StatusSeeOther)
	}

	event, err := h.service.CreateEvent(c.UserContext(), userID, req)
	if err != nil {
		configslog.Log.Error("Panel - CreateEvent Error", zap.Uint("userID", userID), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Etkinlik oluşturulamadı: "+err.Error())
		_ = flashmessages.SetFlashFormData(c, req)
		return c.Redirect("/panel/events/create", fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Etkinlik oluşturuldu.")
	return c.Redirect(fmt.Sprintf("/panel/events/%d", event.ID), fiber.StatusSeeOther)
}

// ShowEvent etkinlik detay sayfasını gösterir (davetliler, dilek listesi, galeri).
func (h *EventHandler) ShowEvent(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}

	event, err := h.service.GetEventByID(c.UserContext(), eventID, userID)
	if err != nil {
		errMsg := "Etkinlik bulunamadı."
		if !errors.Is(err, services.ErrEventNotFound) && !errors.Is(err, services.ErrEventForbidden) {
			errMsg = "Etkinlik bilgileri alınırken hata oluştu."
			configslog.Log.Error("Panel - ShowEvent Error", zap.Uint("id", eventID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, errMsg)
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}

	guests, _ := h.invService.GetGuestList(c.UserContext(), eventID, userID)
	wishlist, _ := h.wishService.GetWishlist(c.UserContext(), eventID)
	gallery, _ := h.mediaService.GetGallery(c.UserContext(), eventID, userID)

	flashData, _ := flashmessages.GetFlashMessages(c)
	renderData := fiber.Map{
		"Title":     event.Title,
		"Event":     event,
		"Guests":    guests,
		"Wishlist":  wishlist,
		"Gallery":   gallery,
		"IsPlanner": event.PlannerUserID == userID,
		"FormData":  flashmessages.GetFlashFormData(c),
	}
	renderer.SetFlashMessages(renderData, flashData)
	return renderer.Render(c, "panel/events/show", "layouts/panel_layout", renderData)
}

// UpdateEvent etkinlik bilgilerini günceller.
func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}
	redirectPath := fmt.Sprintf("/panel/events/%d", eventID)

	var req requests.EventRequest
	if err := requests.Parse(c, &req); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		_ = flashmessages.SetFlashFormData(c, req)
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	if err := h.service.UpdateEvent(c.UserContext(), eventID, userID, req); err != nil {
		if !errors.Is(err, services.ErrEventNotFound) && !errors.Is(err, services.ErrEventForbidden) {
			configslog.Log.Error("Panel - UpdateEvent Error", zap.Uint("id", eventID), zap.Uint("userID", userID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Güncelleme hatası: "+err.Error())
		_ = flashmessages.SetFlashFormData(c, req)
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Etkinlik güncellendi.")
	return c.Redirect(redirectPath, fiber.StatusSeeOther)
}

// DeleteEvent etkinliği ve bağlı kayıtlarını siler.
func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}

	if err := h.service.DeleteEvent(c.UserContext(), eventID, userID); err != nil {
		if !errors.Is(err, services.ErrEventNotFound) {
			configslog.Log.Error("Panel - DeleteEvent Error", zap.Uint("id", eventID), zap.Uint("userID", userID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Silme hatası: "+err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Etkinlik silindi.")
	}
	return c.Redirect("/panel/events", fiber.StatusSeeOther)
}

// UploadCover etkinlik kapak görselini yükler.
func (h *EventHandler) UploadCover(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel/events", fiber.StatusSeeOther)
	}
	redirectPath := fmt.Sprintf("/panel/events/%d", eventID)

	fileHeader, err := c.FormFile("cover")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Dosya seçilmedi.")
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	data, contentType, err := readUpload(fileHeader)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Dosya okunamadı.")
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	if _, err := h.mediaService.UploadCoverImage(c.UserContext(), eventID, userID, fileHeader.Filename, contentType, data); err != nil {
		configslog.Log.Error("Panel - UploadCover Error", zap.Uint("id", eventID), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Kapak görseli güncellendi.")
	return c.Redirect(redirectPath, fiber.StatusSeeOther)
}

// parseIDParam :id benzeri path parametresini uint'e çevirir.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, errors.New("geçersiz ID parametresi")
	}
	return uint(id), nil
}

// readUpload multipart dosyayı belleğe okur ve content type'ını döndürür.
func readUpload(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}
