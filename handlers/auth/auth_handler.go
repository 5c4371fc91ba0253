package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"hediye.link/configs/configsapp"
	"hediye.link/configs/configslog"
	"hediye.link/middlewares"
	"hediye.link/pkg/flashmessages"
	"hediye.link/pkg/renderer"
	"hediye.link/pkg/requests"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler kayıt, giriş ve profil isteklerini yönetir.
type AuthHandler struct {
	authService  services.IAuthService
	userService  services.IUserService
	mediaService services.IMediaService
}

// NewAuthHandler yeni bir AuthHandler örneği oluşturur.
func NewAuthHandler(mediaService services.IMediaService) *AuthHandler {
	return &AuthHandler{
		authService:  services.NewAuthService(),
		userService:  services.NewUserService(),
		mediaService: mediaService,
	}
}

// ShowRegister kayıt formunu gösterir.
func (h *AuthHandler) ShowRegister(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	renderData := fiber.Map{
		"Title":    "Kayıt Ol",
		"FormData": flashmessages.GetFlashFormData(c),
	}
	renderer.SetFlashMessages(renderData, flashData)
	return renderer.Render(c, "auth/register", "layouts/auth_layout", renderData)
}

// Register yeni kullanıcı kaydı oluşturur ve oturum açar.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req requests.RegisterRequest
	if err := requests.Parse(c, &req); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		_ = flashmessages.SetFlashFormData(c, req)
		return c.Redirect("/auth/register", fiber.StatusSeeOther)
	}

	user, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		if !errors.Is(err, services.ErrEmailTaken) && !errors.Is(err, services.ErrPasswordsDontMatch) {
			configslog.Log.Error("Register Error", zap.String("email", req.Email), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		_ = flashmessages.SetFlashFormData(c, req)
		return c.Redirect("/auth/register", fiber.StatusSeeOther)
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Kayıt tamamlandı, lütfen giriş yapın.")
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
	h.setSessionCookie(c, token)
	return c.Redirect("/panel", fiber.StatusSeeOther)
}

// ShowLogin giriş formunu gösterir.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	renderData := fiber.Map{"Title": "Giriş Yap"}
	renderer.SetFlashMessages(renderData, flashData)
	return renderer.Render(c, "auth/login", "layouts/auth_layout", renderData)
}

// Login kimlik doğrular, oturum cookie'sini yazar ve panele yönlendirir.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req requests.LoginRequest
	if err := requests.Parse(c, &req); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}

	_, token, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		if !errors.Is(err, services.ErrUserNotFound) && !errors.Is(err, services.ErrInvalidCredentials) &&
			!errors.Is(err, services.ErrAccountDisabled) {
			configslog.Log.Error("Login Error", zap.String("email", req.Email), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}

	h.setSessionCookie(c, token)
	return c.Redirect("/panel", fiber.StatusSeeOther)
}

// Logout oturum cookie'sini temizler.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	cfg := configsapp.Get()
	c.Cookie(&fiber.Cookie{
		Name: cfg.SessionCookie, Value: "", Path: "/", MaxAge: -1,
		HTTPOnly: true, SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect("/auth/login", fiber.StatusSeeOther)
}

// ShowProfile profil sayfasını gösterir.
func (h *AuthHandler) ShowProfile(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)
	user, err := h.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}

	flashData, _ := flashmessages.GetFlashMessages(c)
	renderData := fiber.Map{
		"Title": "Profilim",
		"User":  user,
	}
	renderer.SetFlashMessages(renderData, flashData)
	return renderer.Render(c, "panel/profile", "layouts/panel_layout", renderData)
}

// UpdateProfile ad/bio alanlarını günceller.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)

	var req requests.UpdateProfileRequest
	if err := requests.Parse(c, &req); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/profile", fiber.StatusSeeOther)
	}

	if _, err := h.userService.UpdateProfile(c.UserContext(), userID, req); err != nil {
		configslog.Log.Error("UpdateProfile Error", zap.Uint("userID", userID), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Profil güncellenemedi.")
		return c.Redirect("/panel/profile", fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Profil güncellendi.")
	return c.Redirect("/panel/profile", fiber.StatusSeeOther)
}

// ChangePassword şifre değiştirme formunu işler.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)

	var req requests.ChangePasswordRequest
	if err := requests.Parse(c, &req); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/profile", fiber.StatusSeeOther)
	}

	if err := h.authService.ChangePassword(c.UserContext(), userID, req); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/profile", fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Şifre değiştirildi.")
	return c.Redirect("/panel/profile", fiber.StatusSeeOther)
}

// UploadAvatar profil fotoğrafını yükler.
func (h *AuthHandler) UploadAvatar(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Dosya seçilmedi.")
		return c.Redirect("/panel/profile", fiber.StatusSeeOther)
	}

	data, contentType, err := readUpload(fileHeader)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Dosya okunamadı.")
		return c.Redirect("/panel/profile", fiber.StatusSeeOther)
	}

	if _, err := h.mediaService.UploadAvatar(c.UserContext(), userID, fileHeader.Filename, contentType, data); err != nil {
		configslog.Log.Error("UploadAvatar Error", zap.Uint("userID", userID), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/profile", fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Profil fotoğrafı güncellendi.")
	return c.Redirect("/panel/profile", fiber.StatusSeeOther)
}

// ConnectStripeAccount bağlı ödeme hesabı ID'sini kaydeder.
func (h *AuthHandler) ConnectStripeAccount(c *fiber.Ctx) error {
	userID := middlewares.CurrentUserID(c)

	accountID := c.FormValue("stripe_account_id")
	if accountID == "" {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Hesap ID boş olamaz.")
		return c.Redirect("/panel/profile", fiber.StatusSeeOther)
	}

	if err := h.userService.SetStripeAccount(c.UserContext(), userID, accountID); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Hesap bağlanamadı.")
		return c.Redirect("/panel/profile", fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Ödeme hesabı bağlandı.")
	return c.Redirect("/panel/profile", fiber.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	cfg := configsapp.Get()
	c.Cookie(&fiber.Cookie{
		Name:     cfg.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.JWTExpiry.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   cfg.AppEnv == "production",
	})
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
