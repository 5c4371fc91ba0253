package routes

import (
	handlers "hediye.link/handlers/dashboard"
	"hediye.link/middlewares"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
)

// registerDashboardRoutes /dashboard altındaki rotaları tanımlar.
// Sadece admin kullanıcılar erişebilir.
func registerDashboardRoutes(app *fiber.App, authService services.IAuthService, contributionService services.IContributionService) {
	userHandler := handlers.NewUserHandler()
	eventHandler := handlers.NewEventHandler()
	contributionHandler := handlers.NewContributionHandler(contributionService)
	reportHandler := handlers.NewReportHandler()

	dashboardGroup := app.Group("/dashboard")
	dashboardGroup.Use(
		middlewares.AuthMiddleware(authService),
		middlewares.RequireAdmin(),
	)

	// --- Kullanıcı Yönetimi ---
	dashboardGroup.Get("/users", userHandler.ListUsers)
	dashboardGroup.Post("/users/:id/active", userHandler.SetUserActive)

	// --- Etkinlik Yönetimi ---
	dashboardGroup.Get("/events", eventHandler.ListEvents)
	dashboardGroup.Post("/events/:id/delete", eventHandler.DeleteEvent)
	dashboardGroup.Delete("/events/:id/delete", eventHandler.DeleteEvent)

	// --- Katkı Yönetimi ---
	dashboardGroup.Get("/contributions", contributionHandler.ListContributions)

	// --- Şikayet Yönetimi ---
	dashboardGroup.Get("/reports", reportHandler.ListReports)
	dashboardGroup.Post("/reports/:id/resolve", reportHandler.ResolveReport)
}
