package controllers

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"fiber-wms/models"
	"fiber-wms/repositories"
	"fiber-wms/services"
	"fiber-wms/wms/audit"
	"fiber-wms/wms/receiving"
	"fiber-wms/wms/report"
	"fiber-wms/wms/warning"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReceiptController struct {
	DB *gorm.DB
}

func NewReceiptController(DB *gorm.DB) *ReceiptController {
	return &ReceiptController{DB: DB}
}

var validate = validator.New()

func (c *ReceiptController) workflow() (*receiving.Workflow, *repositories.ReceiptRepository, *audit.Recorder) {
	repo := repositories.NewReceiptRepository(c.DB)
	master := repositories.NewMasterRepository(c.DB)
	trail := audit.NewRecorder(repositories.NewAuditRepository(c.DB))
	classifier := warning.NewClassifier(master)
	return receiving.NewWorkflow(repo, master, classifier, trail), repo, trail
}

func receiptID(ctx *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(ctx.Params("id"), 10, 64)
}

func (c *ReceiptController) CreateReceipt(ctx *fiber.Ctx) error {
	var input receiving.DraftInput
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

	wf, _, _ := c.workflow()
	doc, err := wf.CreateDraft(actorFromCtx(ctx), input)
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Receipt created successfully",
		"data":    doc,
	})
}

func (c *ReceiptController) GetAllReceipts(ctx *fiber.Ctx) error {
	repo := repositories.NewReceiptRepository(c.DB)
	receipts, err := repo.GetAllReceipts()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    receipts,
	})
}

func (c *ReceiptController) GetReceiptByID(ctx *fiber.Ctx) error {
	id, err := receiptID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	repo := repositories.NewReceiptRepository(c.DB)
	doc, err := repo.GetByID(id)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    doc,
	})
}

func (c *ReceiptController) BeginReceiving(ctx *fiber.Ctx) error {
	id, err := receiptID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	wf, _, _ := c.workflow()
	doc, err := wf.BeginReceiving(actorFromCtx(ctx), id)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Receiving started",
		"data":    doc,
	})
}

func (c *ReceiptController) RecordActual(ctx *fiber.Ctx) error {
	id, err := receiptID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}
	lineID, err := strconv.ParseUint(ctx.Params("lineId"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid line ID"})
	}

	var input receiving.ActualInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	wf, _, _ := c.workflow()
	line, err := wf.RecordActual(actorFromCtx(ctx), id, uint(lineID), input)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Actual recorded",
		"data":    line,
	})
}

func (c *ReceiptController) GetWarnings(ctx *fiber.Ctx) error {
	id, err := receiptID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	wf, repo, _ := c.workflow()
	doc, err := repo.GetByID(id)
	if err != nil {
		return errorJSON(ctx, err)
	}

	warnings := wf.Warnings(doc)
	return ctx.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"warnings":     warnings,
			"has_blocking": warning.HasBlocking(warnings),
		},
	})
}

func (c *ReceiptController) SubmitReceipt(ctx *fiber.Ctx) error {
	id, err := receiptID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	var input struct {
		Note string `json:"note"`
	}
	ctx.BodyParser(&input)

	wf, _, _ := c.workflow()
	warnings, err := wf.Submit(actorFromCtx(ctx), id, input.Note)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Receipt submitted",
		"data": fiber.Map{
			"warnings":     warnings,
			"has_blocking": warning.HasBlocking(warnings),
		},
	})
}

func (c *ReceiptController) ApproveReceipt(ctx *fiber.Ctx) error {
	id, err := receiptID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	var input struct {
		Note string `json:"note"`
	}
	ctx.BodyParser(&input)

	wf, _, _ := c.workflow()
	doc, err := wf.Approve(actorFromCtx(ctx), id, input.Note)
	if err != nil {
		return errorJSON(ctx, err)
	}

	services.NewNotifier().NotifyAsync(audit.DocTypeReceipt, doc.ReceiptNo, "approved", input.Note)

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Receipt approved",
		"data":    doc,
	})
}

func (c *ReceiptController) RejectReceipt(ctx *fiber.Ctx) error {
	id, err := receiptID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	var input struct {
		Reason string `json:"reason"`
	}
	ctx.BodyParser(&input)

	wf, _, _ := c.workflow()
	doc, err := wf.Reject(actorFromCtx(ctx), id, input.Reason)
	if err != nil {
		return errorJSON(ctx, err)
	}

	services.NewNotifier().NotifyAsync(audit.DocTypeReceipt, doc.ReceiptNo, "rejected", input.Reason)

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Receipt rejected",
		"data":    doc,
	})
}

func (c *ReceiptController) GetProgress(ctx *fiber.Ctx) error {
	id, err := receiptID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	repo := repositories.NewReceiptRepository(c.DB)
	progress, err := repo.GetProgressByReceiptID(id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    progress,
	})
}

func (c *ReceiptController) GetAuditTrail(ctx *fiber.Ctx) error {
	id, err := receiptID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	trail := audit.NewRecorder(repositories.NewAuditRepository(c.DB))
	events, err := trail.Trail(audit.DocTypeReceipt, id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    events,
	})
}

// ImportReceipt creates a draft from an uploaded line file (CSV or XLSX,
// same columns) plus header form fields. Rows with unknown codes are dropped
// and reported back.
func (c *ReceiptController) ImportReceipt(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Missing line file",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	defer file.Close()

	master := repositories.NewMasterRepository(c.DB)
	var lines []receiving.LineInput
	var dropped []string
	if strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		lines, dropped, err = receiving.ImportLinesXLSX(file, master)
	} else {
		lines, dropped, err = receiving.ImportLinesCSV(file, master)
	}
	if err != nil {
		return errorJSON(ctx, err)
	}

	input := receiving.DraftInput{
		Type:          ctx.FormValue("type"),
		WhsCode:       ctx.FormValue("whs_code"),
		PartnerCode:   ctx.FormValue("partner_code"),
		SourceWhsCode: ctx.FormValue("source_whs_code"),
		RefNo:         ctx.FormValue("ref_no"),
		ExpectedDate:  ctx.FormValue("expected_date"),
		Remarks:       ctx.FormValue("remarks"),
		Lines:         lines,
	}

	wf, _, _ := c.workflow()
	doc, err := wf.CreateDraft(actorFromCtx(ctx), input)
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Receipt imported successfully",
		"data": fiber.Map{
			"receipt":      doc,
			"dropped_rows": dropped,
		},
	})
}

// ExportReceipt streams the planned lines back out in the interchange
// schema; importing the result reproduces the same planned lines.
func (c *ReceiptController) ExportReceipt(ctx *fiber.Ctx) error {
	id, err := receiptID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	repo := repositories.NewReceiptRepository(c.DB)
	doc, err := repo.GetByID(id)
	if err != nil {
		return errorJSON(ctx, err)
	}

	var buf bytes.Buffer
	if err := receiving.ExportLinesCSV(&buf, doc.Lines); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", "text/csv")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", doc.ReceiptNo))
	return ctx.Send(buf.Bytes())
}

func (c *ReceiptController) GetVarianceReport(ctx *fiber.Ctx) error {
	id, err := receiptID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	repo := repositories.NewReceiptRepository(c.DB)
	doc, err := repo.GetByID(id)
	if err != nil {
		return errorJSON(ctx, err)
	}
	if doc.Status != models.ReceiptStatusCompleted {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Variance report is only available for completed receipts",
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    report.FromReceipt(doc),
	})
}

func (c *ReceiptController) ExportVarianceXLSX(ctx *fiber.Ctx) error {
	id, err := receiptID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	repo := repositories.NewReceiptRepository(c.DB)
	doc, err := repo.GetByID(id)
	if err != nil {
		return errorJSON(ctx, err)
	}
	if doc.Status != models.ReceiptStatusCompleted {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Variance report is only available for completed receipts",
		})
	}

	f, err := report.FromReceipt(doc).ToXLSX()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=VR-%s.xlsx", doc.ReceiptNo))
	return ctx.Send(buf.Bytes())
}
