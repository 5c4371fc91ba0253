package routes

import (
	handlers "hediye.link/handlers/webhook"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
)

// registerWebhookRoutes ödeme sağlayıcısının olay teslim rotasını tanımlar.
// Oturum middleware'i uygulanmaz; kimlik imza başlığıyla doğrulanır.
func registerWebhookRoutes(app *fiber.App, contributionService services.IContributionService) {
	webhookHandler := handlers.NewStripeWebhookHandler(contributionService)
	app.Post("/webhooks/stripe", webhookHandler.Handle)
}
