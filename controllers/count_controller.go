package controllers

import (
	"bytes"
	"fmt"
	"strconv"

	"fiber-wms/models"
	"fiber-wms/repositories"
	"fiber-wms/services"
	"fiber-wms/wms/audit"
	"fiber-wms/wms/counting"
	"fiber-wms/wms/report"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CountController struct {
	DB *gorm.DB
}

func NewCountController(DB *gorm.DB) *CountController {
	return &CountController{DB: DB}
}

func (c *CountController) engine() (*counting.Engine, *repositories.CountRepository) {
	repo := repositories.NewCountRepository(c.DB)
	trail := audit.NewRecorder(repositories.NewAuditRepository(c.DB))
	return counting.NewEngine(repo, trail), repo
}

func countID(ctx *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(ctx.Params("id"), 10, 64)
}

func roleFromCtx(ctx *fiber.Ctx) string {
	role, _ := ctx.Locals("role").(string)
	return role
}

func (c *CountController) CreateCount(ctx *fiber.Ctx) error {
	var input counting.ScopeInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	engine, _ := c.engine()
	doc, err := engine.CreateFromScope(actorFromCtx(ctx), input)
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Count created successfully",
		"data":    counting.ViewFor(doc, roleFromCtx(ctx)),
	})
}

func (c *CountController) GetAllCounts(ctx *fiber.Ctx) error {
	repo := repositories.NewCountRepository(c.DB)
	counts, err := repo.GetAllCounts()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    counts,
	})
}

// GetCountByID renders the document for the caller's role. Counters never
// see system or variance quantities on blind counts.
func (c *CountController) GetCountByID(ctx *fiber.Ctx) error {
	id, err := countID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count ID"})
	}

	repo := repositories.NewCountRepository(c.DB)
	doc, err := repo.GetByID(id)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    counting.ViewFor(doc, roleFromCtx(ctx)),
	})
}

func (c *CountController) StartCounting(ctx *fiber.Ctx) error {
	id, err := countID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count ID"})
	}

	engine, _ := c.engine()
	doc, err := engine.StartCounting(actorFromCtx(ctx), id)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Counting started",
		"data":    counting.ViewFor(doc, roleFromCtx(ctx)),
	})
}

func (c *CountController) RecordDetail(ctx *fiber.Ctx) error {
	id, err := countID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count ID"})
	}

	var input counting.DetailInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	engine, _ := c.engine()
	detail, err := engine.RecordDetail(actorFromCtx(ctx), id, input)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Detail recorded",
		"data":    detail,
	})
}

func (c *CountController) ConfirmZero(ctx *fiber.Ctx) error {
	id, err := countID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count ID"})
	}

	var input struct {
		Location string `json:"location"`
	}
	if err := ctx.BodyParser(&input); err != nil || input.Location == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "location is required",
		})
	}

	engine, _ := c.engine()
	if err := engine.ConfirmZero(actorFromCtx(ctx), id, input.Location); err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Location confirmed empty",
	})
}

func (c *CountController) SubmitCount(ctx *fiber.Ctx) error {
	id, err := countID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count ID"})
	}

	var input struct {
		Note string `json:"note"`
	}
	ctx.BodyParser(&input)

	engine, _ := c.engine()
	doc, err := engine.Submit(actorFromCtx(ctx), id, input.Note)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Count submitted",
		"data":    counting.ViewFor(doc, roleFromCtx(ctx)),
	})
}

func (c *CountController) CompleteCount(ctx *fiber.Ctx) error {
	id, err := countID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count ID"})
	}

	var input struct {
		Note string `json:"note"`
	}
	ctx.BodyParser(&input)

	engine, _ := c.engine()
	doc, err := engine.Complete(actorFromCtx(ctx), id, input.Note)
	if err != nil {
		return errorJSON(ctx, err)
	}

	services.NewNotifier().NotifyAsync(audit.DocTypeCount, doc.CountNo, "completed", input.Note)

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Count completed",
		"data":    counting.ViewFor(doc, roleFromCtx(ctx)),
	})
}

func (c *CountController) ReopenCount(ctx *fiber.Ctx) error {
	id, err := countID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count ID"})
	}

	var input struct {
		Reason string `json:"reason"`
	}
	ctx.BodyParser(&input)

	engine, _ := c.engine()
	doc, err := engine.Reopen(actorFromCtx(ctx), id, input.Reason)
	if err != nil {
		return errorJSON(ctx, err)
	}

	services.NewNotifier().NotifyAsync(audit.DocTypeCount, doc.CountNo, "reopened", input.Reason)

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Count reopened",
		"data":    counting.ViewFor(doc, roleFromCtx(ctx)),
	})
}

func (c *CountController) CancelCount(ctx *fiber.Ctx) error {
	id, err := countID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count ID"})
	}

	var input struct {
		Reason string `json:"reason"`
	}
	ctx.BodyParser(&input)

	engine, _ := c.engine()
	doc, err := engine.Cancel(actorFromCtx(ctx), id, input.Reason)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Count cancelled",
		"data":    counting.ViewFor(doc, roleFromCtx(ctx)),
	})
}

func (c *CountController) GetProgress(ctx *fiber.Ctx) error {
	id, err := countID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count ID"})
	}

	repo := repositories.NewCountRepository(c.DB)
	progress, err := repo.GetProgressByCountID(id)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    progress,
	})
}

func (c *CountController) GetAuditTrail(ctx *fiber.Ctx) error {
	id, err := countID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count ID"})
	}

	trail := audit.NewRecorder(repositories.NewAuditRepository(c.DB))
	events, err := trail.Trail(audit.DocTypeCount, id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    events,
	})
}

func (c *CountController) varianceReport(ctx *fiber.Ctx) (*report.Report, error) {
	id, err := countID(ctx)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid count ID")
	}

	repo := repositories.NewCountRepository(c.DB)
	doc, err := repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.CountStatusCompleted {
		return nil, fiber.NewError(fiber.StatusConflict, "Variance report is only available for completed counts")
	}
	if doc.BlindMode && !counting.CanSeeVariance(roleFromCtx(ctx)) {
		return nil, fiber.NewError(fiber.StatusForbidden, "Your role may not read variances on a blind count")
	}

	return report.FromCount(doc), nil
}

func (c *CountController) GetVarianceReport(ctx *fiber.Ctx) error {
	rep, err := c.varianceReport(ctx)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(fiber.Map{"success": false, "message": fe.Message})
		}
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    rep,
	})
}

func (c *CountController) ExportVarianceXLSX(ctx *fiber.Ctx) error {
	rep, err := c.varianceReport(ctx)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(fiber.Map{"success": false, "message": fe.Message})
		}
		return errorJSON(ctx, err)
	}

	f, err := rep.ToXLSX()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", rep.Reference))
	return ctx.Send(buf.Bytes())
}
