package routes

import (
	auth_handlers "hediye.link/handlers/auth"
	"hediye.link/middlewares"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
)

func registerAuthRoutes(app *fiber.App, authService services.IAuthService, mediaService services.IMediaService) {
	authHandler := auth_handlers.NewAuthHandler(mediaService)
	authGroup := app.Group("/auth")

	guestRoutes := authGroup.Group("")
	guestRoutes.Use(middlewares.GuestMiddleware(authService))
	guestRoutes.Get("/login", authHandler.ShowLogin)
	guestRoutes.Post("/login", authHandler.Login)
	guestRoutes.Get("/register", authHandler.ShowRegister)
	guestRoutes.Post("/register", authHandler.Register)

	userRoutes := authGroup.Group("")
	userRoutes.Use(middlewares.AuthMiddleware(authService))
	userRoutes.Get("/logout", authHandler.Logout)
	userRoutes.Post("/logout", authHandler.Logout)
}
