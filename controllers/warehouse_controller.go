package controllers

import (
	"fiber-wms/models"
	"fiber-wms/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WarehouseController struct {
	DB *gorm.DB
}

func NewWarehouseController(DB *gorm.DB) *WarehouseController {
	return &WarehouseController{DB: DB}
}

func (c *WarehouseController) GetAllWarehouses(ctx *fiber.Ctx) error {
	var warehouses []models.Warehouse
	if err := c.DB.Find(&warehouses).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    warehouses,
	})
}

func (c *WarehouseController) CreateWarehouse(ctx *fiber.Ctx) error {
	var input struct {
		Code    string `json:"code" validate:"required"`
		Name    string `json:"name" validate:"required"`
		Address string `json:"address"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	warehouse := models.Warehouse{
		Code:      input.Code,
		Name:      input.Name,
		Address:   input.Address,
		IsActive:  true,
		CreatedBy: actorFromCtx(ctx).ID,
	}
	if err := c.DB.Create(&warehouse).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Warehouse created successfully",
		"data":    warehouse,
	})
}

// DeactivateWarehouse refuses while open receipts or counts still reference
// the warehouse.
func (c *WarehouseController) DeactivateWarehouse(ctx *fiber.Ctx) error {
	code := ctx.Params("code")

	master := repositories.NewMasterRepository(c.DB)
	if err := master.DeactivateWarehouse(code, actorFromCtx(ctx).ID); err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Warehouse deactivated",
	})
}
