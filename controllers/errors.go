package controllers

import (
	"errors"

	"fiber-wms/wms/audit"
	"fiber-wms/wms/wmserr"

	"github.com/gofiber/fiber/v2"
)

// actorFromCtx builds the audit actor from the token claims set by the auth
// middleware.
func actorFromCtx(ctx *fiber.Ctx) audit.Actor {
	actor := audit.Actor{}
	if userID, ok := ctx.Locals("userID").(float64); ok {
		actor.ID = int(userID)
	}
	if role, ok := ctx.Locals("role").(string); ok {
		actor.Role = role
	}
	return actor
}

// errorJSON maps domain errors to HTTP responses in the standard envelope.
func errorJSON(ctx *fiber.Ctx, err error) error {
	var validation *wmserr.ValidationError
	var transition *wmserr.StateTransitionError
	var notFound *wmserr.NotFoundError
	var duplicate *wmserr.DuplicateSerialError
	var blocked *wmserr.ApprovalBlockedError
	var zero *wmserr.ZeroIncompleteError
	var conflict *wmserr.ConcurrencyConflictError

	switch {
	case errors.As(err, &validation):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": validation.Message,
			"field":   validation.Field,
		})
	case errors.As(err, &notFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": notFound.Error(),
		})
	case errors.As(err, &transition):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": transition.Error(),
		})
	case errors.As(err, &duplicate):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": duplicate.Error(),
		})
	case errors.As(err, &conflict):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": conflict.Error(),
		})
	case errors.As(err, &blocked):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success":  false,
			"message":  blocked.Error(),
			"warnings": blocked.Warnings,
		})
	case errors.As(err, &zero):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success":           false,
			"message":           zero.Error(),
			"missing_locations": zero.MissingLocations,
		})
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
