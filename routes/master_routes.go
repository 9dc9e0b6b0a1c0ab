package routes

import (
	"fiber-wms/config"
	"fiber-wms/controllers"
	"fiber-wms/database"
	"fiber-wms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupWarehouseRoutes(app *fiber.App) {
	controller := &controllers.WarehouseController{}
	api := app.Group(config.MAIN_ROUTES+"/warehouses", middleware.AuthMiddleware)
	api.Use(database.InjectDBMiddleware(controller))
	api.Get("/", controller.GetAllWarehouses)
	api.Post("/", controller.CreateWarehouse)
	api.Post("/:code/deactivate", controller.DeactivateWarehouse)
}

func SetupItemRoutes(app *fiber.App) {
	controller := &controllers.ItemController{}
	api := app.Group(config.MAIN_ROUTES+"/items", middleware.AuthMiddleware)
	api.Use(database.InjectDBMiddleware(controller))
	api.Get("/", controller.GetAllItems)
	api.Post("/", controller.CreateItem)
}

func SetupUomRoutes(app *fiber.App) {
	controller := &controllers.UomController{}
	api := app.Group(config.MAIN_ROUTES+"/uoms", middleware.AuthMiddleware)
	api.Use(database.InjectDBMiddleware(controller))
	api.Get("/", controller.GetAllUoms)
	api.Post("/", controller.CreateUom)
	api.Post("/conversions", controller.CreateConversion)
	api.Get("/convert", controller.ConvertQty)
}

func SetupPartnerRoutes(app *fiber.App) {
	controller := &controllers.PartnerController{}
	api := app.Group(config.MAIN_ROUTES+"/partners", middleware.AuthMiddleware)
	api.Use(database.InjectDBMiddleware(controller))
	api.Get("/", controller.GetAllPartners)
	api.Post("/", controller.CreatePartner)
}

func SetupLocationRoutes(app *fiber.App) {
	controller := &controllers.LocationController{}
	api := app.Group(config.MAIN_ROUTES+"/locations", middleware.AuthMiddleware)
	api.Use(database.InjectDBMiddleware(controller))
	api.Get("/", controller.GetAllLocations)
	api.Post("/", controller.CreateLocation)
}
