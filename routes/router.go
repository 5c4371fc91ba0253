package routes

import (
	"hediye.link/configs/configsapp"
	"hediye.link/pkg/paymentgw"
	"hediye.link/pkg/storage"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes tüm uygulama rotalarını ve genel middleware'leri ayarlar.
// Dış bağımlılıklar (ödeme, depolama) main.go'da kurulup buraya verilir.
func SetupRoutes(app *fiber.App, gateway paymentgw.Gateway, uploader storage.Uploader) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())

	authService := services.NewAuthService()
	mediaService := services.NewMediaService(uploader)
	contributionService := services.NewContributionService(gateway)

	registerAuthRoutes(app, authService, mediaService)
	registerDashboardRoutes(app, authService, contributionService)
	registerPanelRoutes(app, authService, mediaService, contributionService)
	registerWebhookRoutes(app, contributionService)

	// Kök URL yönlendirmesi public :key rotasından önce tanımlanmalı.
	app.Get("/", rootRedirector(authService))

	// Public davet rotası özel gruplardan sonra gelir; kalan tek segmentli
	// yollar davet anahtarı olarak denenir.
	registerPublicRoutes(app)

	app.Use(notFoundHandler)
}

// rootRedirector oturum durumuna göre panel veya login sayfasına yönlendirir.
func rootRedirector(authService services.IAuthService) fiber.Handler {
	cookieName := configsapp.Get().SessionCookie
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			return c.Redirect("/auth/login", fiber.StatusTemporaryRedirect)
		}
		claims, err := authService.VerifyToken(token)
		if err != nil {
			return c.Redirect("/auth/login", fiber.StatusTemporaryRedirect)
		}
		if claims.IsAdmin {
			return c.Redirect("/dashboard/events", fiber.StatusFound)
		}
		return c.Redirect("/panel/events", fiber.StatusFound)
	}
}

// notFoundHandler eşleşmeyen tüm rotaları yakalar.
func notFoundHandler(c *fiber.Ctx) error {
	accepts := c.Accepts("application/json", "text/html")
	switch accepts {
	case "application/json":
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Kaynak bulunamadı"})
	default:
		return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "Sayfa Bulunamadı"}, "layouts/error_layout")
	}
}
