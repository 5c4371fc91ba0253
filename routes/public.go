package routes

import (
	handlers "hediye.link/handlers/public"

	"github.com/gofiber/fiber/v2"
)

// registerPublicRoutes davet anahtarı rotasını tanımlar.
// Bu rota diğer özel rotalardan SONRA tanımlanmalı.
func registerPublicRoutes(app *fiber.App) {
	publicHandler := handlers.NewPublicEventHandler()
	app.Get("/:key", publicHandler.HandleInviteKey)
}
