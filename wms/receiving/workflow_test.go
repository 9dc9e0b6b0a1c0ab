package receiving

import (
	"fmt"
	"testing"

	"fiber-wms/models"
	"fiber-wms/wms/audit"
	"fiber-wms/wms/warning"
	"fiber-wms/wms/wmserr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	docs     map[int64]*models.ReceiptHeader
	nextID   int64
	nextLine uint
	seq      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: map[int64]*models.ReceiptHeader{}, nextID: 1, nextLine: 1}
}

func (r *fakeRepo) Create(doc *models.ReceiptHeader) error {
	r.seq++
	doc.ID = r.nextID
	r.nextID++
	doc.ReceiptNo = fmt.Sprintf("GR-%s-202609-%06d", doc.WhsCode, r.seq)
	for i := range doc.Lines {
		doc.Lines[i].ID = r.nextLine
		r.nextLine++
		doc.Lines[i].ReceiptId = doc.ID
	}
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeRepo) GetByID(id int64) (*models.ReceiptHeader, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, wmserr.NewNotFound("receipt", fmt.Sprintf("%d", id))
	}
	return doc, nil
}

func (r *fakeRepo) GetByReceiptNo(receiptNo string) (*models.ReceiptHeader, error) {
	for _, doc := range r.docs {
		if doc.ReceiptNo == receiptNo {
			return doc, nil
		}
	}
	return nil, wmserr.NewNotFound("receipt", receiptNo)
}

func (r *fakeRepo) CreateActual(a *models.ReceiptActual) error { return nil }

func (r *fakeRepo) SaveLine(l *models.ReceiptLine) error { return nil }

func (r *fakeRepo) UpdateStatusIf(doc *models.ReceiptHeader, expected, next string, actor int) error {
	stored, ok := r.docs[doc.ID]
	if !ok || stored.Status != expected {
		return &wmserr.ConcurrencyConflictError{DocNo: doc.ReceiptNo, Expected: expected}
	}
	stored.Status = next
	return nil
}

type fakeMaster struct{}

func (fakeMaster) ItemByCode(code string) (*models.Item, error) {
	items := map[string]string{
		"ITEM-SER": "serial",
		"ITEM-LOT": "lot",
		"ITEM-STD": "none",
	}
	tt, ok := items[code]
	if !ok {
		return nil, wmserr.NewNotFound("item", code)
	}
	item := &models.Item{ItemCode: code, Uom: "PCS", TrackingType: tt, IsActive: true}
	item.ID = 1
	return item, nil
}

func (fakeMaster) UomByCode(code string) (*models.Uom, error) {
	if code != "PCS" {
		return nil, wmserr.NewNotFound("uom", code)
	}
	return &models.Uom{Code: "PCS", Name: "Pieces", IsActive: true}, nil
}

func (fakeMaster) WarehouseByCode(code string) (*models.Warehouse, error) {
	if code != "WH1" && code != "WH2" {
		return nil, wmserr.NewNotFound("warehouse", code)
	}
	return &models.Warehouse{Code: code, IsActive: true}, nil
}

func (fakeMaster) PartnerByCode(code string) (*models.Partner, error) {
	if code != "SUP-01" {
		return nil, wmserr.NewNotFound("partner", code)
	}
	partner := &models.Partner{Code: code, IsActive: true}
	partner.ID = 9
	return partner, nil
}

func (fakeMaster) LocationActive(whsCode, location string) bool {
	return location == "A-01-01" || location == "A-01-02"
}

func newTestWorkflow(t *testing.T) (*Workflow, *fakeRepo, *audit.MemoryStore) {
	t.Helper()
	repo := newFakeRepo()
	store := audit.NewMemoryStore()
	master := fakeMaster{}
	wf := NewWorkflow(repo, master, warning.NewClassifier(master), audit.NewRecorder(store))
	return wf, repo, store
}

var tester = audit.Actor{ID: 1, Role: "approver"}

func draftInput(docType string, lines ...LineInput) DraftInput {
	in := DraftInput{Type: docType, WhsCode: "WH1", Lines: lines}
	switch docType {
	case models.ReceiptTypePO, models.ReceiptTypeReturn:
		in.PartnerCode = "SUP-01"
		in.RefNo = "PO-123"
	case models.ReceiptTypeTransfer:
		in.SourceWhsCode = "WH2"
		in.RefNo = "TR-123"
	}
	return in
}

func stdLine(qty int) LineInput {
	return LineInput{ItemCode: "ITEM-STD", UomCode: "PCS", QtyPlanned: qty, Location: "A-01-01"}
}

func TestCreateDraftHeaderInvariants(t *testing.T) {
	wf, _, _ := newTestWorkflow(t)

	t.Run("po requires partner and reference", func(t *testing.T) {
		in := draftInput(models.ReceiptTypePO, stdLine(10))
		in.PartnerCode = ""
		_, err := wf.CreateDraft(tester, in)
		assert.Error(t, err)
	})

	t.Run("transfer must not carry partner", func(t *testing.T) {
		in := draftInput(models.ReceiptTypeTransfer, stdLine(10))
		in.PartnerCode = "SUP-01"
		_, err := wf.CreateDraft(tester, in)
		assert.Error(t, err)
	})

	t.Run("manual forbids partner source and reference", func(t *testing.T) {
		in := draftInput(models.ReceiptTypeManual, stdLine(10))
		in.RefNo = "X"
		_, err := wf.CreateDraft(tester, in)
		assert.Error(t, err)
	})

	t.Run("at least one line", func(t *testing.T) {
		_, err := wf.CreateDraft(tester, draftInput(models.ReceiptTypeManual))
		assert.Error(t, err)
	})

	t.Run("valid manual draft", func(t *testing.T) {
		doc, err := wf.CreateDraft(tester, draftInput(models.ReceiptTypeManual, stdLine(10)))
		require.NoError(t, err)
		assert.Equal(t, models.ReceiptStatusDraft, doc.Status)
		assert.Regexp(t, `^GR-WH1-\d{6}-\d{6}$`, doc.ReceiptNo)
		require.Len(t, doc.Lines, 1)
		assert.Equal(t, "none", doc.Lines[0].TrackingType)
		assert.Equal(t, 10, doc.Lines[0].QtyRemaining)
	})
}

func TestRecordActualRemainingFloor(t *testing.T) {
	wf, _, _ := newTestWorkflow(t)

	doc, err := wf.CreateDraft(tester, draftInput(models.ReceiptTypeManual, stdLine(10)))
	require.NoError(t, err)
	_, err = wf.BeginReceiving(tester, doc.ID)
	require.NoError(t, err)

	line, err := wf.RecordActual(tester, doc.ID, doc.Lines[0].ID, ActualInput{Quantity: 6, Location: "A-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 6, line.QtyReceived)
	assert.Equal(t, 4, line.QtyRemaining)

	// over-receipt: remaining clamps to zero, it never goes negative
	line, err = wf.RecordActual(tester, doc.ID, doc.Lines[0].ID, ActualInput{Quantity: 9, Location: "A-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 15, line.QtyReceived)
	assert.Equal(t, 0, line.QtyRemaining)
}

func TestRecordActualTrackingRules(t *testing.T) {
	wf, _, _ := newTestWorkflow(t)

	doc, err := wf.CreateDraft(tester, draftInput(models.ReceiptTypeManual,
		LineInput{ItemCode: "ITEM-SER", UomCode: "PCS", QtyPlanned: 2, Location: "A-01-01"}))
	require.NoError(t, err)
	_, err = wf.BeginReceiving(tester, doc.ID)
	require.NoError(t, err)
	lineID := doc.Lines[0].ID

	t.Run("serial capture needs serial number", func(t *testing.T) {
		_, err := wf.RecordActual(tester, doc.ID, lineID, ActualInput{Quantity: 1})
		assert.Error(t, err)
	})

	t.Run("duplicate serial within document fails", func(t *testing.T) {
		_, err := wf.RecordActual(tester, doc.ID, lineID, ActualInput{Quantity: 1, SerialNumber: "SN-1"})
		require.NoError(t, err)
		_, err = wf.RecordActual(tester, doc.ID, lineID, ActualInput{Quantity: 1, SerialNumber: "SN-1"})
		var dup *wmserr.DuplicateSerialError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "SN-1", dup.SerialNumber)
	})

	t.Run("rejected outside receiving status", func(t *testing.T) {
		other, err := wf.CreateDraft(tester, draftInput(models.ReceiptTypeManual, stdLine(1)))
		require.NoError(t, err)
		_, err = wf.RecordActual(tester, other.ID, other.Lines[0].ID, ActualInput{Quantity: 1})
		var st *wmserr.StateTransitionError
		assert.ErrorAs(t, err, &st)
	})
}

func TestApprovalBlocking(t *testing.T) {
	t.Run("blocking warning refuses approval", func(t *testing.T) {
		wf, _, _ := newTestWorkflow(t)

		// lot capture without dates leaves a blocking missing_lot_info warning
		doc, err := wf.CreateDraft(tester, draftInput(models.ReceiptTypeManual,
			LineInput{ItemCode: "ITEM-LOT", UomCode: "PCS", QtyPlanned: 5, Location: "A-01-01"}))
		require.NoError(t, err)
		_, err = wf.BeginReceiving(tester, doc.ID)
		require.NoError(t, err)
		_, err = wf.RecordActual(tester, doc.ID, doc.Lines[0].ID, ActualInput{Quantity: 5, LotNumber: "L1"})
		require.NoError(t, err)

		warnings, err := wf.Submit(tester, doc.ID, "")
		require.NoError(t, err)
		assert.True(t, warning.HasBlocking(warnings))

		_, err = wf.Approve(tester, doc.ID, "")
		var blocked *wmserr.ApprovalBlockedError
		require.ErrorAs(t, err, &blocked)
		assert.NotEmpty(t, blocked.Warnings)
	})

	t.Run("massive over-receipt alone never blocks approval", func(t *testing.T) {
		wf, _, _ := newTestWorkflow(t)

		doc, err := wf.CreateDraft(tester, draftInput(models.ReceiptTypeManual, stdLine(1)))
		require.NoError(t, err)
		_, err = wf.BeginReceiving(tester, doc.ID)
		require.NoError(t, err)
		_, err = wf.RecordActual(tester, doc.ID, doc.Lines[0].ID, ActualInput{Quantity: 10000, Location: "A-01-01"})
		require.NoError(t, err)

		_, err = wf.Submit(tester, doc.ID, "")
		require.NoError(t, err)
		approved, err := wf.Approve(tester, doc.ID, "")
		require.NoError(t, err)
		assert.Equal(t, models.ReceiptStatusCompleted, approved.Status)
	})
}

func TestUnderReceiptEndToEnd(t *testing.T) {
	wf, _, store := newTestWorkflow(t)

	doc, err := wf.CreateDraft(tester, draftInput(models.ReceiptTypePO, stdLine(50)))
	require.NoError(t, err)
	_, err = wf.BeginReceiving(tester, doc.ID)
	require.NoError(t, err)
	_, err = wf.RecordActual(tester, doc.ID, doc.Lines[0].ID, ActualInput{Quantity: 45, Location: "A-01-01"})
	require.NoError(t, err)

	warnings, err := wf.Submit(tester, doc.ID, "short delivery")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, warning.TypeUnderReceipt, warnings[0].Type)
	assert.False(t, warnings[0].Blocking)

	approved, err := wf.Approve(tester, doc.ID, "accepted short")
	require.NoError(t, err)
	assert.Equal(t, models.ReceiptStatusCompleted, approved.Status)

	events, err := audit.NewRecorder(store).Trail(audit.DocTypeReceipt, doc.ID)
	require.NoError(t, err)
	actions := make([]string, 0, len(events))
	for _, ev := range events {
		actions = append(actions, ev.Action)
	}
	assert.Equal(t, []string{"created", "begin_receiving", "actual_recorded", "submitted", "approved"}, actions)
}

func TestReject(t *testing.T) {
	wf, _, _ := newTestWorkflow(t)

	doc, err := wf.CreateDraft(tester, draftInput(models.ReceiptTypeManual, stdLine(5)))
	require.NoError(t, err)
	_, err = wf.BeginReceiving(tester, doc.ID)
	require.NoError(t, err)
	_, err = wf.Submit(tester, doc.ID, "")
	require.NoError(t, err)

	t.Run("reason is mandatory", func(t *testing.T) {
		_, err := wf.Reject(tester, doc.ID, "")
		assert.Error(t, err)
	})

	t.Run("rejected receipt returns to receiving and can resubmit", func(t *testing.T) {
		rejected, err := wf.Reject(tester, doc.ID, "wrong bin")
		require.NoError(t, err)
		assert.Equal(t, models.ReceiptStatusReceiving, rejected.Status)

		_, err = wf.Submit(tester, doc.ID, "fixed")
		require.NoError(t, err)
	})
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.ReceiptStatusDraft, models.ReceiptStatusReceiving))
	assert.True(t, CanTransition(models.ReceiptStatusSubmitted, models.ReceiptStatusCompleted))
	assert.True(t, CanTransition(models.ReceiptStatusSubmitted, models.ReceiptStatusRejected))
	assert.False(t, CanTransition(models.ReceiptStatusDraft, models.ReceiptStatusCompleted))
	assert.False(t, CanTransition(models.ReceiptStatusCompleted, models.ReceiptStatusReceiving))
}
