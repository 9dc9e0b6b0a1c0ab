package controllers

import (
	"fiber-wms/models"
	"fiber-wms/wms/tracking"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ItemController struct {
	DB *gorm.DB
}

func NewItemController(DB *gorm.DB) *ItemController {
	return &ItemController{DB: DB}
}

func (c *ItemController) GetAllItems(ctx *fiber.Ctx) error {
	var items []models.Item
	if err := c.DB.Find(&items).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    items,
	})
}

func (c *ItemController) CreateItem(ctx *fiber.Ctx) error {
	var input struct {
		ItemCode     string `json:"item_code" validate:"required"`
		ItemName     string `json:"item_name" validate:"required"`
		Barcode      string `json:"barcode"`
		Uom          string `json:"uom" validate:"required"`
		TrackingType string `json:"tracking_type"`
		Group        string `json:"group"`
		Category     string `json:"category"`
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

	if input.TrackingType == "" {
		input.TrackingType = tracking.TypeNone.String()
	}
	if !tracking.Type(input.TrackingType).IsValid() {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "tracking_type must be serial, lot or none",
		})
	}

	item := models.Item{
		ItemCode:     input.ItemCode,
		ItemName:     input.ItemName,
		Barcode:      input.Barcode,
		Uom:          input.Uom,
		TrackingType: input.TrackingType,
		Group:        input.Group,
		Category:     input.Category,
		IsActive:     true,
		CreatedBy:    actorFromCtx(ctx).ID,
	}
	if err := c.DB.Create(&item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Item created successfully",
		"data":    item,
	})
}
