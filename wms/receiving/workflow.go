package receiving

import (
	"fmt"

	"fiber-wms/models"
	"fiber-wms/wms/audit"
	"fiber-wms/wms/doclock"
	"fiber-wms/wms/tracking"
	"fiber-wms/wms/warning"
	"fiber-wms/wms/wmserr"
)

// allowed transitions; submit never blocks, only approve does.
var transitions = map[string][]string{
	models.ReceiptStatusDraft:     {models.ReceiptStatusReceiving},
	models.ReceiptStatusReceiving: {models.ReceiptStatusSubmitted},
	models.ReceiptStatusSubmitted: {models.ReceiptStatusCompleted, models.ReceiptStatusRejected},
	models.ReceiptStatusRejected:  {models.ReceiptStatusReceiving},
}

// CanTransition reports whether a receipt may move between two statuses.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Repository is the persistence port for receipt aggregates. Save and status
// updates must be atomic; UpdateStatusIf must fail with
// ConcurrencyConflictError when the expected status no longer holds.
type Repository interface {
	Create(doc *models.ReceiptHeader) error
	GetByID(id int64) (*models.ReceiptHeader, error)
	GetByReceiptNo(receiptNo string) (*models.ReceiptHeader, error)
	CreateActual(a *models.ReceiptActual) error
	SaveLine(l *models.ReceiptLine) error
	UpdateStatusIf(doc *models.ReceiptHeader, expected, next string, actor int) error
}

// MasterData is the external master-data lookup boundary. Lookups return
// active records only.
type MasterData interface {
	ItemByCode(code string) (*models.Item, error)
	UomByCode(code string) (*models.Uom, error)
	WarehouseByCode(code string) (*models.Warehouse, error)
	PartnerByCode(code string) (*models.Partner, error)
}

type LineInput struct {
	ItemCode   string   `json:"item_code" validate:"required"`
	UomCode    string   `json:"uom_code" validate:"required"`
	QtyPlanned int      `json:"qty_planned" validate:"required,min=1"`
	Location   string   `json:"location"`
	Note       string   `json:"note"`
	SerialList []string `json:"serial_list"`
	LotNumber  string   `json:"lot_no"`
	MfgDate    string   `json:"mfg_date"`
	ExpDate    string   `json:"exp_date"`
}

type DraftInput struct {
	Type          string      `json:"type" validate:"required"`
	WhsCode       string      `json:"whs_code" validate:"required"`
	PartnerCode   string      `json:"partner_code"`
	SourceWhsCode string      `json:"source_whs_code"`
	RefNo         string      `json:"ref_no"`
	ExpectedDate  string      `json:"expected_date"`
	Remarks       string      `json:"remarks"`
	Lines         []LineInput `json:"lines"`
}

type ActualInput struct {
	Quantity     int    `json:"quantity"`
	Location     string `json:"location"`
	SerialNumber string `json:"serial_number"`
	LotNumber    string `json:"lot_no"`
	MfgDate      string `json:"mfg_date"`
	ExpDate      string `json:"exp_date"`
	Notes        string `json:"notes"`
}

// Workflow drives receipt documents through
// draft -> receiving -> submitted -> completed/rejected. It never touches
// stock; the finalized document is handed to the ledger collaborator by the
// caller.
type Workflow struct {
	repo       Repository
	master     MasterData
	classifier *warning.Classifier
	trail      *audit.Recorder
	locks      *doclock.Locker
}

func NewWorkflow(repo Repository, master MasterData, classifier *warning.Classifier, trail *audit.Recorder) *Workflow {
	return &Workflow{
		repo:       repo,
		master:     master,
		classifier: classifier,
		trail:      trail,
		locks:      nil,
	}
}

func (w *Workflow) lock(docID int64) func() {
	key := doclock.Key(audit.DocTypeReceipt, docID)
	if w.locks != nil {
		return w.locks.Lock(key)
	}
	return doclock.Lock(key)
}

// WithLocker overrides the process-wide locker; used by tests.
func (w *Workflow) WithLocker(l *doclock.Locker) *Workflow {
	w.locks = l
	return w
}

func validateHeader(in DraftInput) error {
	switch in.Type {
	case models.ReceiptTypePO, models.ReceiptTypeReturn:
		if in.PartnerCode == "" || in.RefNo == "" {
			return wmserr.NewValidation("partner_code", fmt.Sprintf("%s receipts require a partner and reference", in.Type))
		}
		if in.SourceWhsCode != "" {
			return wmserr.NewValidation("source_whs_code", fmt.Sprintf("%s receipts must not carry a source warehouse", in.Type))
		}
	case models.ReceiptTypeTransfer:
		if in.SourceWhsCode == "" || in.RefNo == "" {
			return wmserr.NewValidation("source_whs_code", "transfer receipts require a source warehouse and reference")
		}
		if in.PartnerCode != "" {
			return wmserr.NewValidation("partner_code", "transfer receipts must not carry a partner")
		}
	case models.ReceiptTypeManual:
		if in.PartnerCode != "" || in.SourceWhsCode != "" || in.RefNo != "" {
			return wmserr.NewValidation("type", "manual receipts must not carry a partner, source warehouse or reference")
		}
	default:
		return wmserr.NewValidation("type", fmt.Sprintf("unknown receipt type %q", in.Type))
	}
	if len(in.Lines) == 0 {
		return wmserr.NewValidation("lines", "a receipt needs at least one line")
	}
	return nil
}

// CreateDraft validates the header invariants and builds the aggregate. The
// receipt number is assigned by the repository on first persistence, not
// here.
func (w *Workflow) CreateDraft(actor audit.Actor, in DraftInput) (*models.ReceiptHeader, error) {
	if err := validateHeader(in); err != nil {
		return nil, err
	}

	if _, err := w.master.WarehouseByCode(in.WhsCode); err != nil {
		return nil, err
	}

	doc := &models.ReceiptHeader{
		Type:          in.Type,
		WhsCode:       in.WhsCode,
		PartnerCode:   in.PartnerCode,
		SourceWhsCode: in.SourceWhsCode,
		RefNo:         in.RefNo,
		ExpectedDate:  in.ExpectedDate,
		Remarks:       in.Remarks,
		Status:        models.ReceiptStatusDraft,
		CreatedBy:     actor.ID,
		UpdatedBy:     actor.ID,
	}

	switch in.Type {
	case models.ReceiptTypePO, models.ReceiptTypeReturn:
		partner, err := w.master.PartnerByCode(in.PartnerCode)
		if err != nil {
			return nil, err
		}
		doc.PartnerId = int(partner.ID)
	case models.ReceiptTypeTransfer:
		if _, err := w.master.WarehouseByCode(in.SourceWhsCode); err != nil {
			return nil, err
		}
	}

	for _, li := range in.Lines {
		line, err := w.buildLine(actor, li)
		if err != nil {
			return nil, err
		}
		doc.Lines = append(doc.Lines, *line)
	}

	if err := w.repo.Create(doc); err != nil {
		return nil, err
	}

	if err := w.trail.Transition(audit.DocTypeReceipt, doc.ID, doc.ReceiptNo, "created", "", models.ReceiptStatusDraft, actor, in.Remarks); err != nil {
		return nil, err
	}

	return doc, nil
}

func (w *Workflow) buildLine(actor audit.Actor, in LineInput) (*models.ReceiptLine, error) {
	if in.QtyPlanned <= 0 {
		return nil, wmserr.NewValidation("qty_planned", "planned quantity must be positive")
	}

	item, err := w.master.ItemByCode(in.ItemCode)
	if err != nil {
		return nil, err
	}
	uom, err := w.master.UomByCode(in.UomCode)
	if err != nil {
		return nil, err
	}

	// tracking type is inherited from the item here and frozen
	return &models.ReceiptLine{
		ItemId:       int(item.ID),
		ItemCode:     item.ItemCode,
		Uom:          uom.Code,
		TrackingType: item.TrackingType,
		QtyPlanned:   in.QtyPlanned,
		QtyRemaining: in.QtyPlanned,
		Location:     in.Location,
		Remarks:      in.Note,
		SerialList:   joinSerials(in.SerialList),
		LotNumber:    in.LotNumber,
		MfgDate:      in.MfgDate,
		ExpDate:      in.ExpDate,
		CreatedBy:    actor.ID,
		UpdatedBy:    actor.ID,
	}, nil
}

// BeginReceiving moves draft -> receiving. No other side effects.
func (w *Workflow) BeginReceiving(actor audit.Actor, receiptID int64) (*models.ReceiptHeader, error) {
	unlock := w.lock(receiptID)
	defer unlock()

	doc, err := w.repo.GetByID(receiptID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.ReceiptStatusDraft {
		return nil, wmserr.NewStateTransition(doc.ReceiptNo, doc.Status, "begin_receiving")
	}

	if err := w.repo.UpdateStatusIf(doc, models.ReceiptStatusDraft, models.ReceiptStatusReceiving, actor.ID); err != nil {
		return nil, err
	}
	if err := w.trail.Transition(audit.DocTypeReceipt, doc.ID, doc.ReceiptNo, "begin_receiving", models.ReceiptStatusDraft, models.ReceiptStatusReceiving, actor, ""); err != nil {
		return nil, err
	}
	doc.Status = models.ReceiptStatusReceiving
	return doc, nil
}

// RecordActual appends one capture event to a line and recomputes the line's
// received and remaining quantities from the full capture set.
func (w *Workflow) RecordActual(actor audit.Actor, receiptID int64, lineID uint, in ActualInput) (*models.ReceiptLine, error) {
	unlock := w.lock(receiptID)
	defer unlock()

	doc, err := w.repo.GetByID(receiptID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.ReceiptStatusReceiving {
		return nil, wmserr.NewStateTransition(doc.ReceiptNo, doc.Status, "record_actual")
	}

	var line *models.ReceiptLine
	for i := range doc.Lines {
		if doc.Lines[i].ID == lineID {
			line = &doc.Lines[i]
			break
		}
	}
	if line == nil {
		return nil, wmserr.NewNotFound("receipt line", fmt.Sprintf("%d", lineID))
	}

	trackingType, err := tracking.Parse(line.TrackingType)
	if err != nil {
		return nil, err
	}
	if err := tracking.Validate(trackingType, tracking.Capture{
		Quantity:     in.Quantity,
		SerialNumber: in.SerialNumber,
		LotNumber:    in.LotNumber,
		MfgDate:      in.MfgDate,
		ExpDate:      in.ExpDate,
	}); err != nil {
		return nil, err
	}

	// serial uniqueness is document-wide, not per line
	if trackingType == tracking.TypeSerial {
		for i := range doc.Lines {
			for _, a := range doc.Lines[i].Actuals {
				if a.SerialNumber == in.SerialNumber {
					return nil, &wmserr.DuplicateSerialError{SerialNumber: in.SerialNumber}
				}
			}
		}
	}

	actual := &models.ReceiptActual{
		ReceiptId:     doc.ID,
		ReceiptLineId: line.ID,
		ItemCode:      line.ItemCode,
		Quantity:      in.Quantity,
		Location:      in.Location,
		SerialNumber:  in.SerialNumber,
		LotNumber:     in.LotNumber,
		MfgDate:       in.MfgDate,
		ExpDate:       in.ExpDate,
		Notes:         in.Notes,
		CreatedBy:     actor.ID,
	}
	if err := w.repo.CreateActual(actual); err != nil {
		return nil, err
	}
	line.Actuals = append(line.Actuals, *actual)

	received := 0
	for _, a := range line.Actuals {
		received += a.Quantity
	}
	line.QtyReceived = received
	line.QtyRemaining = line.QtyPlanned - received
	if line.QtyRemaining < 0 {
		line.QtyRemaining = 0
	}
	line.UpdatedBy = actor.ID

	if err := w.repo.SaveLine(line); err != nil {
		return nil, err
	}
	if err := w.trail.Transition(audit.DocTypeReceipt, doc.ID, doc.ReceiptNo, "actual_recorded", doc.Status, doc.Status, actor,
		fmt.Sprintf("%s qty %d", line.ItemCode, in.Quantity)); err != nil {
		return nil, err
	}

	return line, nil
}

// Warnings classifies the document's current line state.
func (w *Workflow) Warnings(doc *models.ReceiptHeader) []warning.Warning {
	return w.classifier.Classify(doc.WhsCode, lineStates(doc))
}

// Submit moves receiving -> submitted. Submission itself is never blocked;
// blocking warnings are returned so they can be shown at approval time.
func (w *Workflow) Submit(actor audit.Actor, receiptID int64, note string) ([]warning.Warning, error) {
	unlock := w.lock(receiptID)
	defer unlock()

	doc, err := w.repo.GetByID(receiptID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.ReceiptStatusReceiving {
		return nil, wmserr.NewStateTransition(doc.ReceiptNo, doc.Status, "submit")
	}

	warnings := w.Warnings(doc)

	if err := w.repo.UpdateStatusIf(doc, models.ReceiptStatusReceiving, models.ReceiptStatusSubmitted, actor.ID); err != nil {
		return nil, err
	}
	if err := w.trail.Transition(audit.DocTypeReceipt, doc.ID, doc.ReceiptNo, "submitted", models.ReceiptStatusReceiving, models.ReceiptStatusSubmitted, actor, note); err != nil {
		return nil, err
	}
	doc.Status = models.ReceiptStatusSubmitted
	return warnings, nil
}

// Approve moves submitted -> completed. Fails with ApprovalBlockedError while
// any blocking warning is present. The approved document is final; applying
// it to stock is the ledger collaborator's job.
func (w *Workflow) Approve(actor audit.Actor, receiptID int64, note string) (*models.ReceiptHeader, error) {
	unlock := w.lock(receiptID)
	defer unlock()

	doc, err := w.repo.GetByID(receiptID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.ReceiptStatusSubmitted {
		return nil, wmserr.NewStateTransition(doc.ReceiptNo, doc.Status, "approve")
	}

	if blocking := warning.Blocking(w.Warnings(doc)); len(blocking) > 0 {
		blocked := make([]wmserr.BlockedWarning, 0, len(blocking))
		for _, b := range blocking {
			blocked = append(blocked, wmserr.BlockedWarning{
				Type:     b.Type,
				LineID:   b.LineID,
				ItemCode: b.ItemCode,
				Message:  b.Message,
			})
		}
		return nil, &wmserr.ApprovalBlockedError{DocNo: doc.ReceiptNo, Warnings: blocked}
	}

	if err := w.repo.UpdateStatusIf(doc, models.ReceiptStatusSubmitted, models.ReceiptStatusCompleted, actor.ID); err != nil {
		return nil, err
	}
	if err := w.trail.Transition(audit.DocTypeReceipt, doc.ID, doc.ReceiptNo, "approved", models.ReceiptStatusSubmitted, models.ReceiptStatusCompleted, actor, note); err != nil {
		return nil, err
	}
	doc.Status = models.ReceiptStatusCompleted
	return doc, nil
}

// Reject returns a submitted receipt to receiving for correction. A reason
// is mandatory.
func (w *Workflow) Reject(actor audit.Actor, receiptID int64, reason string) (*models.ReceiptHeader, error) {
	if reason == "" {
		return nil, wmserr.NewValidation("reason", "a rejection reason is required")
	}

	unlock := w.lock(receiptID)
	defer unlock()

	doc, err := w.repo.GetByID(receiptID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.ReceiptStatusSubmitted {
		return nil, wmserr.NewStateTransition(doc.ReceiptNo, doc.Status, "reject")
	}

	if err := w.repo.UpdateStatusIf(doc, models.ReceiptStatusSubmitted, models.ReceiptStatusReceiving, actor.ID); err != nil {
		return nil, err
	}
	if err := w.trail.Transition(audit.DocTypeReceipt, doc.ID, doc.ReceiptNo, "rejected", models.ReceiptStatusSubmitted, models.ReceiptStatusReceiving, actor, reason); err != nil {
		return nil, err
	}
	doc.Status = models.ReceiptStatusReceiving
	return doc, nil
}

func lineStates(doc *models.ReceiptHeader) []warning.LineState {
	states := make([]warning.LineState, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		state := warning.LineState{
			LineID:       line.ID,
			ItemCode:     line.ItemCode,
			TrackingType: tracking.Type(line.TrackingType),
			Location:     line.Location,
			QtyPlanned:   line.QtyPlanned,
			QtyReceived:  line.QtyReceived,
		}
		for _, a := range line.Actuals {
			state.Captures = append(state.Captures, warning.Capture{
				Quantity:     a.Quantity,
				Location:     a.Location,
				SerialNumber: a.SerialNumber,
				LotNumber:    a.LotNumber,
				MfgDate:      a.MfgDate,
				ExpDate:      a.ExpDate,
			})
		}
		states = append(states, state)
	}
	return states
}
