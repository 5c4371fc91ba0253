package middlewares

import (
	"hediye.link/configs/configsapp"
	"hediye.link/models"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
)

// Locals anahtarları. Handler'lar oturum bilgisine bu anahtarlarla ulaşır.
const (
	LocalUserID   = "userID"
	LocalUserName = "userName"
	LocalIsAdmin  = "isAdmin"
)

// AuthMiddleware oturum cookie'sindeki token'ı doğrular ve locals'a yazar.
// Token yok veya geçersizse login sayfasına yönlendirir.
func AuthMiddleware(authService services.IAuthService) fiber.Handler {
	cookieName := configsapp.Get().SessionCookie
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			return c.Redirect("/auth/login", fiber.StatusSeeOther)
		}

		claims, err := authService.VerifyToken(token)
		if err != nil {
			// Bozuk/süresi dolmuş cookie temizlenir.
			c.Cookie(&fiber.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1, HTTPOnly: true})
			return c.Redirect("/auth/login", fiber.StatusSeeOther)
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserName, claims.Name)
		c.Locals(LocalIsAdmin, claims.IsAdmin)

		// Audit kolonları için kullanıcı ID'si istek context'ine taşınır.
		c.SetUserContext(models.ContextWithUserID(c.UserContext(), claims.UserID))
		return c.Next()
	}
}

// GuestMiddleware oturumu açık kullanıcıyı auth sayfalarından panele yönlendirir.
func GuestMiddleware(authService services.IAuthService) fiber.Handler {
	cookieName := configsapp.Get().SessionCookie
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token != "" {
			if _, err := authService.VerifyToken(token); err == nil {
				return c.Redirect("/panel", fiber.StatusSeeOther)
			}
		}
		return c.Next()
	}
}

// RequireAdmin yalnızca admin oturumlarını geçirir. AuthMiddleware'den sonra çalışmalı.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, ok := c.Locals(LocalIsAdmin).(bool)
		if !ok || !isAdmin {
			return c.Status(fiber.StatusForbidden).Render("errors/404", fiber.Map{
				"Title":   "Yetkisiz",
				"Message": "Bu sayfaya erişim yetkiniz yok.",
			}, "layouts/error_layout")
		}
		return c.Next()
	}
}

// CurrentUserID locals'taki kullanıcı ID'sini döndürür; yoksa 0.
func CurrentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}
