package routes

import (
	"fiber-wms/config"
	"fiber-wms/controllers"
	"fiber-wms/database"
	"fiber-wms/middleware"
	"fiber-wms/models"

	"github.com/gofiber/fiber/v2"
)

func SetupReceiptRoutes(app *fiber.App) {
	controller := &controllers.ReceiptController{}
	api := app.Group(config.MAIN_ROUTES+"/receipts", middleware.AuthMiddleware)
	api.Use(database.InjectDBMiddleware(controller))

	api.Get("/", controller.GetAllReceipts)
	api.Post("/", controller.CreateReceipt)
	api.Post("/import", controller.ImportReceipt)
	api.Get("/:id", controller.GetReceiptByID)
	api.Get("/:id/export", controller.ExportReceipt)
	api.Get("/:id/warnings", controller.GetWarnings)
	api.Get("/:id/progress", controller.GetProgress)
	api.Get("/:id/audit", controller.GetAuditTrail)
	api.Get("/:id/report", controller.GetVarianceReport)
	api.Get("/:id/report/xlsx", controller.ExportVarianceXLSX)

	api.Post("/:id/begin", controller.BeginReceiving)
	api.Post("/:id/lines/:lineId/actuals", controller.RecordActual)
	api.Post("/:id/submit", controller.SubmitReceipt)

	// only approvers decide submitted receipts
	api.Post("/:id/approve", middleware.RequireRole(models.RoleApprover), controller.ApproveReceipt)
	api.Post("/:id/reject", middleware.RequireRole(models.RoleApprover), controller.RejectReceipt)
}
