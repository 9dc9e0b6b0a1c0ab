package routes

import (
	"fiber-wms/config"
	"fiber-wms/controllers"
	"fiber-wms/database"
	"fiber-wms/middleware"
	"fiber-wms/models"

	"github.com/gofiber/fiber/v2"
)

func SetupCountRoutes(app *fiber.App) {
	controller := &controllers.CountController{}
	api := app.Group(config.MAIN_ROUTES+"/counts", middleware.AuthMiddleware)
	api.Use(database.InjectDBMiddleware(controller))

	api.Get("/", controller.GetAllCounts)
	api.Post("/", middleware.RequireRole(models.RoleReviewer, models.RoleApprover), controller.CreateCount)
	api.Get("/:id", controller.GetCountByID)
	api.Get("/:id/progress", controller.GetProgress)
	api.Get("/:id/audit", controller.GetAuditTrail)
	api.Get("/:id/report", controller.GetVarianceReport)
	api.Get("/:id/report/xlsx", controller.ExportVarianceXLSX)

	api.Post("/:id/start", controller.StartCounting)
	api.Post("/:id/details", controller.RecordDetail)
	api.Post("/:id/zero-confirm", controller.ConfirmZero)
	api.Post("/:id/submit", controller.SubmitCount)
	api.Post("/:id/complete", middleware.RequireRole(models.RoleReviewer, models.RoleApprover), controller.CompleteCount)
	api.Post("/:id/reopen", middleware.RequireRole(models.RoleReviewer, models.RoleApprover), controller.ReopenCount)
	api.Post("/:id/cancel", middleware.RequireRole(models.RoleReviewer, models.RoleApprover), controller.CancelCount)
}
