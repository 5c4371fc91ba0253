package routes

import (
	auth_handlers "hediye.link/handlers/auth"
	panel_handlers "hediye.link/handlers/panel"
	"hediye.link/middlewares"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
)

// registerPanelRoutes /panel altındaki rotaları ve middleware'leri tanımlar.
func registerPanelRoutes(app *fiber.App, authService services.IAuthService, mediaService services.IMediaService, contributionService services.IContributionService) {
	eventHandler := panel_handlers.NewEventHandler(mediaService)
	invitationHandler := panel_handlers.NewInvitationHandler()
	wishlistHandler := panel_handlers.NewWishlistHandler()
	contributionHandler := panel_handlers.NewContributionHandler(contributionService)
	mediaHandler := panel_handlers.NewMediaHandler(mediaService)
	profileHandler := auth_handlers.NewAuthHandler(mediaService)

	panelGroup := app.Group("/panel")
	panelGroup.Use(middlewares.AuthMiddleware(authService))

	// --- Etkinlikler ---
	panelGroup.Get("/events", eventHandler.ListEvents)
	panelGroup.Get("/events/create", eventHandler.ShowCreateEvent)
	panelGroup.Post("/events/create", eventHandler.CreateEvent)
	panelGroup.Get("/events/:id", eventHandler.ShowEvent)
	panelGroup.Post("/events/:id", eventHandler.UpdateEvent)
	panelGroup.Post("/events/:id/delete", eventHandler.DeleteEvent)
	panelGroup.Delete("/events/:id/delete", eventHandler.DeleteEvent)
	panelGroup.Post("/events/:id/cover", eventHandler.UploadCover)

	// --- Davetliler ---
	panelGroup.Post("/events/:id/guests", invitationHandler.InviteGuest)
	panelGroup.Post("/guests/:invitationId/remove", invitationHandler.RemoveGuest)
	panelGroup.Delete("/guests/:invitationId/remove", invitationHandler.RemoveGuest)

	// --- Davetlerim (LCV) ---
	panelGroup.Get("/invitations", invitationHandler.ListMyInvitations)
	panelGroup.Post("/invitations/:id/respond", invitationHandler.RespondInvitation)

	// --- Dilek Listesi ---
	panelGroup.Post("/events/:id/articles", wishlistHandler.AddArticle)
	panelGroup.Post("/articles/:articleId", wishlistHandler.UpdateArticle)
	panelGroup.Post("/articles/:articleId/delete", wishlistHandler.DeleteArticle)
	panelGroup.Delete("/articles/:articleId/delete", wishlistHandler.DeleteArticle)

	// --- Katkılar ---
	panelGroup.Post("/checkout", contributionHandler.StartCheckout)
	panelGroup.Get("/articles/:articleId/contributions", contributionHandler.ListArticleContributions)
	panelGroup.Post("/contributions/:contributionId/reject", contributionHandler.RejectContribution)

	// --- Galeri ---
	panelGroup.Post("/events/:id/media", mediaHandler.UploadMedia)
	panelGroup.Post("/media/:mediaId/delete", mediaHandler.DeleteMedia)
	panelGroup.Delete("/media/:mediaId/delete", mediaHandler.DeleteMedia)

	// --- Şikayet ---
	panelGroup.Post("/reports", mediaHandler.CreateReport)

	// --- Profil ---
	panelGroup.Get("/profile", profileHandler.ShowProfile)
	panelGroup.Post("/profile", profileHandler.UpdateProfile)
	panelGroup.Post("/profile/password", profileHandler.ChangePassword)
	panelGroup.Post("/profile/avatar", profileHandler.UploadAvatar)
	panelGroup.Post("/profile/stripe", profileHandler.ConnectStripeAccount)
}
