package counting

import (
	"fmt"
	"time"

	"fiber-wms/models"
	"fiber-wms/wms/audit"
	"fiber-wms/wms/doclock"
	"fiber-wms/wms/tracking"
	"fiber-wms/wms/wmserr"
)

// Repository is the persistence port for count aggregates. Snapshot must be
// one consistent read: the system quantities and the snapshot timestamp are
// a single logical operation.
type Repository interface {
	Create(doc *models.CountHeader) error
	GetByID(id int64) (*models.CountHeader, error)
	GetByCountNo(countNo string) (*models.CountHeader, error)
	Snapshot(in ScopeInput) ([]models.CountLine, []models.CountZeroLocation, error)
	CreateDetail(d *models.CountDetail) error
	CreateLine(l *models.CountLine) error
	SaveLine(l *models.CountLine) error
	ConfirmZero(countID int64, location string, actor int, at time.Time) (bool, error)
	UpdateStatusIf(doc *models.CountHeader, expected, next string, actor int) error
	SetVarianceRef(countID int64, ref string) error
}

type ScopeInput struct {
	WhsCode   string   `json:"whs_code" validate:"required"`
	ScopeType string   `json:"scope_type" validate:"required"`
	Locations []string `json:"locations"`
	ItemCodes []string `json:"item_codes"`
	BlindMode bool     `json:"blind_mode"`
	Remarks   string   `json:"remarks"`
}

type DetailInput struct {
	LineID       uint   `json:"line_id"`
	ItemCode     string `json:"item_code"`
	Location     string `json:"location"`
	Quantity     int    `json:"quantity"`
	SerialNumber string `json:"serial_number"`
	LotNumber    string `json:"lot_no"`
	Notes        string `json:"notes"`
}

// Engine drives cycle counts through
// draft -> counting -> submitted -> completed, with reopen back to counting
// and cancel from any non-completed state. System quantities are frozen at
// snapshot time; completing a count only produces a variance artifact, never
// a stock mutation.
type Engine struct {
	repo  Repository
	trail *audit.Recorder
	locks *doclock.Locker
	now   func() time.Time
}

func NewEngine(repo Repository, trail *audit.Recorder) *Engine {
	return &Engine{repo: repo, trail: trail, now: time.Now}
}

// WithLocker overrides the process-wide locker; used by tests.
func (e *Engine) WithLocker(l *doclock.Locker) *Engine {
	e.locks = l
	return e
}

// WithClock overrides the snapshot clock; used by tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

func (e *Engine) lock(countID int64) func() {
	key := doclock.Key(audit.DocTypeCount, countID)
	if e.locks != nil {
		return e.locks.Lock(key)
	}
	return doclock.Lock(key)
}

func validScope(s string) bool {
	switch s {
	case models.CountScopeWarehouse, models.CountScopeLocation, models.CountScopeModel:
		return true
	}
	return false
}

// CreateFromScope resolves the scope, freezes the system-quantity snapshot
// and computes the zero-required location set (every scoped location).
func (e *Engine) CreateFromScope(actor audit.Actor, in ScopeInput) (*models.CountHeader, error) {
	if !validScope(in.ScopeType) {
		return nil, wmserr.NewValidation("scope_type", fmt.Sprintf("unknown scope type %q", in.ScopeType))
	}
	if in.ScopeType == models.CountScopeLocation && len(in.Locations) == 0 {
		return nil, wmserr.NewValidation("locations", "location scope requires at least one location")
	}
	if in.ScopeType == models.CountScopeModel && len(in.ItemCodes) == 0 {
		return nil, wmserr.NewValidation("item_codes", "model scope requires at least one item code")
	}

	lines, zeroLocations, err := e.repo.Snapshot(in)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 && len(zeroLocations) == 0 {
		return nil, wmserr.NewValidation("scope", "scope resolved to no locations or stock")
	}

	snapshotAt := e.now()
	doc := &models.CountHeader{
		WhsCode:       in.WhsCode,
		ScopeType:     in.ScopeType,
		BlindMode:     in.BlindMode,
		Status:        models.CountStatusDraft,
		SnapshotAt:    &snapshotAt,
		Remarks:       in.Remarks,
		CreatedBy:     actor.ID,
		UpdatedBy:     actor.ID,
		Lines:         lines,
		ZeroLocations: zeroLocations,
	}

	if err := e.repo.Create(doc); err != nil {
		return nil, err
	}
	if err := e.trail.Transition(audit.DocTypeCount, doc.ID, doc.CountNo, "created", "", models.CountStatusDraft, actor, in.Remarks); err != nil {
		return nil, err
	}
	return doc, nil
}

// StartCounting moves draft -> counting.
func (e *Engine) StartCounting(actor audit.Actor, countID int64) (*models.CountHeader, error) {
	unlock := e.lock(countID)
	defer unlock()

	doc, err := e.repo.GetByID(countID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.CountStatusDraft {
		return nil, wmserr.NewStateTransition(doc.CountNo, doc.Status, "start_counting")
	}

	if err := e.repo.UpdateStatusIf(doc, models.CountStatusDraft, models.CountStatusCounting, actor.ID); err != nil {
		return nil, err
	}
	if err := e.trail.Transition(audit.DocTypeCount, doc.ID, doc.CountNo, "counting_started", models.CountStatusDraft, models.CountStatusCounting, actor, ""); err != nil {
		return nil, err
	}
	doc.Status = models.CountStatusCounting
	return doc, nil
}

// RecordDetail appends one capture event and recomputes the owning line's
// counted aggregate. Serial uniqueness is enforced per count, not per line.
// A lot that does not belong to the line's item+location is captured anyway
// and flagged unlisted: counts record reality, including surprises.
func (e *Engine) RecordDetail(actor audit.Actor, countID int64, in DetailInput) (*models.CountDetail, error) {
	unlock := e.lock(countID)
	defer unlock()

	doc, err := e.repo.GetByID(countID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.CountStatusCounting {
		return nil, wmserr.NewStateTransition(doc.CountNo, doc.Status, "record_detail")
	}

	if in.Quantity <= 0 {
		return nil, wmserr.NewValidation("quantity", "quantity must be positive")
	}
	if in.SerialNumber != "" && in.LotNumber != "" {
		return nil, wmserr.NewValidation("serial_number", "a detail carries a serial or a lot, not both")
	}

	if in.SerialNumber != "" {
		if in.Quantity != 1 {
			return nil, wmserr.NewValidation("quantity", "serial captures must have quantity 1")
		}
		for _, d := range doc.Details {
			if d.SerialNumber == in.SerialNumber {
				return nil, &wmserr.DuplicateSerialError{SerialNumber: in.SerialNumber}
			}
		}
	}

	line, unlisted := e.resolveLine(doc, in)
	if line == nil {
		// stock found outside the original scope: record it on a fresh
		// unlisted line instead of rejecting the capture
		line = &models.CountLine{
			CountId:      doc.ID,
			ItemCode:     in.ItemCode,
			Location:     in.Location,
			TrackingType: trackingTypeForDetail(in),
			SystemQty:    0,
			IsUnlisted:   true,
			CreatedBy:    actor.ID,
			UpdatedBy:    actor.ID,
		}
		if err := e.repo.CreateLine(line); err != nil {
			return nil, err
		}
		doc.Lines = append(doc.Lines, *line)
		line = &doc.Lines[len(doc.Lines)-1]
		unlisted = true
	}

	detail := &models.CountDetail{
		CountId:      doc.ID,
		CountLineId:  line.ID,
		ItemCode:     line.ItemCode,
		Location:     in.Location,
		Quantity:     in.Quantity,
		SerialNumber: in.SerialNumber,
		LotNumber:    in.LotNumber,
		IsUnlisted:   unlisted,
		Notes:        in.Notes,
		CreatedBy:    actor.ID,
	}
	if err := e.repo.CreateDetail(detail); err != nil {
		return nil, err
	}
	doc.Details = append(doc.Details, *detail)

	counted := 0
	for _, d := range doc.Details {
		if d.CountLineId == line.ID {
			counted += d.Quantity
		}
	}
	line.CountedQty = counted
	line.DiffQty = counted - line.SystemQty
	line.Counted = true
	line.Zeroed = counted == 0
	line.UpdatedBy = actor.ID
	if err := e.repo.SaveLine(line); err != nil {
		return nil, err
	}

	if err := e.trail.Transition(audit.DocTypeCount, doc.ID, doc.CountNo, "detail_recorded", doc.Status, doc.Status, actor,
		fmt.Sprintf("%s @ %s qty %d", detail.ItemCode, detail.Location, detail.Quantity)); err != nil {
		return nil, err
	}

	return detail, nil
}

// resolveLine finds the owning line for a detail. The second return reports
// whether the capture mismatched the line's item+location (lot surprises).
func (e *Engine) resolveLine(doc *models.CountHeader, in DetailInput) (*models.CountLine, bool) {
	if in.LineID > 0 {
		for i := range doc.Lines {
			if doc.Lines[i].ID == in.LineID {
				line := &doc.Lines[i]
				if in.LotNumber != "" && (in.ItemCode != line.ItemCode || (in.Location != "" && in.Location != line.Location)) {
					return line, true
				}
				return line, false
			}
		}
		return nil, false
	}
	for i := range doc.Lines {
		if doc.Lines[i].ItemCode == in.ItemCode && doc.Lines[i].Location == in.Location {
			return &doc.Lines[i], false
		}
	}
	return nil, false
}

func trackingTypeForDetail(in DetailInput) string {
	switch {
	case in.SerialNumber != "":
		return tracking.TypeSerial.String()
	case in.LotNumber != "":
		return tracking.TypeLot.String()
	}
	return tracking.TypeNone.String()
}

// ConfirmZero attests that a scoped location holds nothing beyond what was
// captured. Idempotent: confirming twice is a no-op, not an error.
func (e *Engine) ConfirmZero(actor audit.Actor, countID int64, location string) error {
	unlock := e.lock(countID)
	defer unlock()

	doc, err := e.repo.GetByID(countID)
	if err != nil {
		return err
	}
	if doc.Status != models.CountStatusCounting {
		return wmserr.NewStateTransition(doc.CountNo, doc.Status, "confirm_zero")
	}

	found := false
	for _, z := range doc.ZeroLocations {
		if z.Location == location {
			found = true
			break
		}
	}
	if !found {
		return wmserr.NewNotFound("scoped location", location)
	}

	changed, err := e.repo.ConfirmZero(doc.ID, location, actor.ID, e.now())
	if err != nil {
		return err
	}
	if changed {
		if err := e.trail.Transition(audit.DocTypeCount, doc.ID, doc.CountNo, "zero_confirmed", doc.Status, doc.Status, actor, location); err != nil {
			return err
		}
	}
	return nil
}

// Submit moves counting -> submitted once every scoped location is
// zero-confirmed.
func (e *Engine) Submit(actor audit.Actor, countID int64, note string) (*models.CountHeader, error) {
	unlock := e.lock(countID)
	defer unlock()

	doc, err := e.repo.GetByID(countID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.CountStatusCounting {
		return nil, wmserr.NewStateTransition(doc.CountNo, doc.Status, "submit")
	}

	var missing []string
	for _, z := range doc.ZeroLocations {
		if !z.Confirmed {
			missing = append(missing, z.Location)
		}
	}
	if len(missing) > 0 {
		return nil, &wmserr.ZeroIncompleteError{DocNo: doc.CountNo, MissingLocations: missing}
	}

	if err := e.repo.UpdateStatusIf(doc, models.CountStatusCounting, models.CountStatusSubmitted, actor.ID); err != nil {
		return nil, err
	}
	if err := e.trail.Transition(audit.DocTypeCount, doc.ID, doc.CountNo, "submitted", models.CountStatusCounting, models.CountStatusSubmitted, actor, note); err != nil {
		return nil, err
	}
	doc.Status = models.CountStatusSubmitted
	return doc, nil
}

// Complete moves submitted -> completed and stamps the variance report
// reference. The variance is reported for a separate adjustment workflow;
// system stock is not touched.
func (e *Engine) Complete(actor audit.Actor, countID int64, note string) (*models.CountHeader, error) {
	unlock := e.lock(countID)
	defer unlock()

	doc, err := e.repo.GetByID(countID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.CountStatusSubmitted {
		return nil, wmserr.NewStateTransition(doc.CountNo, doc.Status, "complete")
	}

	ref := "VR-" + doc.CountNo
	if err := e.repo.SetVarianceRef(doc.ID, ref); err != nil {
		return nil, err
	}
	if err := e.repo.UpdateStatusIf(doc, models.CountStatusSubmitted, models.CountStatusCompleted, actor.ID); err != nil {
		return nil, err
	}
	if err := e.trail.Transition(audit.DocTypeCount, doc.ID, doc.CountNo, "completed", models.CountStatusSubmitted, models.CountStatusCompleted, actor, note); err != nil {
		return nil, err
	}
	doc.Status = models.CountStatusCompleted
	doc.VarianceRef = ref
	return doc, nil
}

// Reopen returns a submitted or completed count to counting.
func (e *Engine) Reopen(actor audit.Actor, countID int64, reason string) (*models.CountHeader, error) {
	if reason == "" {
		return nil, wmserr.NewValidation("reason", "a reopen reason is required")
	}

	unlock := e.lock(countID)
	defer unlock()

	doc, err := e.repo.GetByID(countID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.CountStatusSubmitted && doc.Status != models.CountStatusCompleted {
		return nil, wmserr.NewStateTransition(doc.CountNo, doc.Status, "reopen")
	}

	from := doc.Status
	if err := e.repo.UpdateStatusIf(doc, from, models.CountStatusCounting, actor.ID); err != nil {
		return nil, err
	}
	if err := e.trail.Transition(audit.DocTypeCount, doc.ID, doc.CountNo, "reopened", from, models.CountStatusCounting, actor, reason); err != nil {
		return nil, err
	}
	doc.Status = models.CountStatusCounting
	return doc, nil
}

// Cancel moves any non-completed count to cancelled. Irreversible.
func (e *Engine) Cancel(actor audit.Actor, countID int64, reason string) (*models.CountHeader, error) {
	if reason == "" {
		return nil, wmserr.NewValidation("reason", "a cancellation reason is required")
	}

	unlock := e.lock(countID)
	defer unlock()

	doc, err := e.repo.GetByID(countID)
	if err != nil {
		return nil, err
	}
	if doc.Status == models.CountStatusCompleted || doc.Status == models.CountStatusCancelled {
		return nil, wmserr.NewStateTransition(doc.CountNo, doc.Status, "cancel")
	}

	from := doc.Status
	if err := e.repo.UpdateStatusIf(doc, from, models.CountStatusCancelled, actor.ID); err != nil {
		return nil, err
	}
	if err := e.trail.Transition(audit.DocTypeCount, doc.ID, doc.CountNo, "cancelled", from, models.CountStatusCancelled, actor, reason); err != nil {
		return nil, err
	}
	doc.Status = models.CountStatusCancelled
	return doc, nil
}
