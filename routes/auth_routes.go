package routes

import (
	"fiber-wms/config"
	"fiber-wms/controllers"
	"fiber-wms/database"
	"fiber-wms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	controller := &controllers.AuthController{}
	api := app.Group(config.MAIN_ROUTES)
	api.Use(database.InjectDBMiddleware(controller))
	api.Post("/login", controller.Login)
	api.Get("/logout", controller.Logout)
	api.Get("/isLoggedIn", middleware.AuthMiddleware, controller.IsLoggedIn)
}
