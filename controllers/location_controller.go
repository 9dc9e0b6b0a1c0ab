package controllers

import (
	"fiber-wms/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LocationController struct {
	DB *gorm.DB
}

func NewLocationController(DB *gorm.DB) *LocationController {
	return &LocationController{DB: DB}
}

func (c *LocationController) GetAllLocations(ctx *fiber.Ctx) error {
	var locations []models.Location
	query := c.DB
	if whs := ctx.Query("whs_code"); whs != "" {
		query = query.Where("whs_code = ?", whs)
	}
	if err := query.Find(&locations).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    locations,
	})
}

func (c *LocationController) CreateLocation(ctx *fiber.Ctx) error {
	var input struct {
		WhsCode      string `json:"whs_code" validate:"required"`
		LocationCode string `json:"location_code" validate:"required"`
		Row          string `json:"row"`
		Bay          string `json:"bay"`
		Level        string `json:"level"`
		Bin          string `json:"bin"`
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

	location := models.Location{
		WhsCode:      input.WhsCode,
		LocationCode: input.LocationCode,
		Row:          input.Row,
		Bay:          input.Bay,
		Level:        input.Level,
		Bin:          input.Bin,
		IsActive:     true,
		CreatedBy:    actorFromCtx(ctx).ID,
	}
	if err := c.DB.Create(&location).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Location created successfully",
		"data":    location,
	})
}
