package controllers

import (
	"fiber-wms/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PartnerController struct {
	DB *gorm.DB
}

func NewPartnerController(DB *gorm.DB) *PartnerController {
	return &PartnerController{DB: DB}
}

func (c *PartnerController) GetAllPartners(ctx *fiber.Ctx) error {
	var partners []models.Partner
	if err := c.DB.Find(&partners).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    partners,
	})
}

func (c *PartnerController) CreatePartner(ctx *fiber.Ctx) error {
	var input struct {
		Code    string `json:"code" validate:"required"`
		Name    string `json:"name" validate:"required"`
		Type    string `json:"type" validate:"required"`
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

	partner := models.Partner{
		Code:      input.Code,
		Name:      input.Name,
		Type:      input.Type,
		Address:   input.Address,
		IsActive:  true,
		CreatedBy: actorFromCtx(ctx).ID,
	}
	if err := c.DB.Create(&partner).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Partner created successfully",
		"data":    partner,
	})
}
