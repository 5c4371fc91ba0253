package flashmessages

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// Flash mesaj cookie anahtarları.
const (
	FlashSuccessKey  = "flash_success"
	FlashErrorKey    = "flash_error"
	flashFormDataKey = "flash_form_data"
)

// FlashData bir sonraki istekte gösterilecek mesajlar.
type FlashData struct {
	Success string
	Error   string
}

// SetFlashMessage mesajı kısa ömürlü bir cookie'ye yazar.
func SetFlashMessage(c *fiber.Ctx, key, message string) error {
	c.Cookie(&fiber.Cookie{
		Name:     key,
		Value:    message,
		Path:     "/",
		MaxAge:   60,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// GetFlashMessages mesajları okur ve cookie'leri temizler.
func GetFlashMessages(c *fiber.Ctx) (FlashData, error) {
	data := FlashData{
		Success: c.Cookies(FlashSuccessKey),
		Error:   c.Cookies(FlashErrorKey),
	}
	if data.Success != "" {
		clearCookie(c, FlashSuccessKey)
	}
	if data.Error != "" {
		clearCookie(c, FlashErrorKey)
	}
	return data, nil
}

// SetFlashFormData hatalı formu tekrar doldurmak için veriyi cookie'ye yazar.
func SetFlashFormData(c *fiber.Ctx, form any) error {
	payload, err := json.Marshal(form)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashFormDataKey,
		Value:    string(payload),
		Path:     "/",
		MaxAge:   60,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// GetFlashFormData kaydedilmiş form verisini okur ve cookie'yi temizler.
func GetFlashFormData(c *fiber.Ctx) map[string]any {
	raw := c.Cookies(flashFormDataKey)
	if raw == "" {
		return nil
	}
	clearCookie(c, flashFormDataKey)

	var form map[string]any
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		return nil
	}
	return form
}

func clearCookie(c *fiber.Ctx, key string) {
	c.Cookie(&fiber.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
