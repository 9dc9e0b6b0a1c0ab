package controllers

import (
	"strconv"

	"fiber-wms/models"
	"fiber-wms/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UomController struct {
	DB *gorm.DB
}

func NewUomController(DB *gorm.DB) *UomController {
	return &UomController{DB: DB}
}

func (c *UomController) GetAllUoms(ctx *fiber.Ctx) error {
	var uoms []models.Uom
	if err := c.DB.Find(&uoms).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    uoms,
	})
}

func (c *UomController) CreateUom(ctx *fiber.Ctx) error {
	var input struct {
		Code string `json:"code" validate:"required"`
		Name string `json:"name" validate:"required"`
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

	uom := models.Uom{
		Code:      input.Code,
		Name:      input.Name,
		IsActive:  true,
		CreatedBy: actorFromCtx(ctx).ID,
	}
	if err := c.DB.Create(&uom).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "UoM created successfully",
		"data":    uom,
	})
}

func (c *UomController) CreateConversion(ctx *fiber.Ctx) error {
	var input struct {
		ItemCode       string  `json:"item_code" validate:"required"`
		FromUom        string  `json:"from_uom" validate:"required"`
		ToUom          string  `json:"to_uom" validate:"required"`
		ConversionRate float64 `json:"conversion_rate" validate:"required"`
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
	if input.ConversionRate <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "conversion_rate must be positive",
		})
	}

	conversion := models.UomConversion{
		ItemCode:       input.ItemCode,
		FromUom:        input.FromUom,
		ToUom:          input.ToUom,
		ConversionRate: input.ConversionRate,
		CreatedBy:      actorFromCtx(ctx).ID,
	}
	if err := c.DB.Create(&conversion).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Conversion created successfully",
		"data":    conversion,
	})
}

// ConvertQty converts a quantity to the item's base UoM, deriving the
// inverse rate when only the forward rule is stored.
func (c *UomController) ConvertQty(ctx *fiber.Ctx) error {
	itemCode := ctx.Query("item_code")
	fromUom := ctx.Query("from_uom")
	qty, err := strconv.Atoi(ctx.Query("qty", "1"))
	if err != nil || itemCode == "" || fromUom == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "item_code, from_uom and numeric qty are required",
		})
	}

	repo := repositories.NewUomRepository(c.DB)
	result, err := repo.ConversionQty(itemCode, qty, fromUom)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}
