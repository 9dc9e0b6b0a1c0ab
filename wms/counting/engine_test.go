package counting

import (
	"fmt"
	"testing"
	"time"

	"fiber-wms/models"
	"fiber-wms/wms/audit"
	"fiber-wms/wms/wmserr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockRow struct {
	itemCode string
	location string
	tracking string
	qty      int
}

type fakeCountRepo struct {
	stock     []stockRow
	locations []string
	docs      map[int64]*models.CountHeader
	nextID    int64
	nextLine  uint
	seq       int
}

func newFakeCountRepo() *fakeCountRepo {
	return &fakeCountRepo{
		stock: []stockRow{
			{itemCode: "ITEM-STD", location: "A-01-01", tracking: "none", qty: 100},
			{itemCode: "ITEM-SER", location: "A-01-02", tracking: "serial", qty: 3},
		},
		locations: []string{"A-01-01", "A-01-02", "B-01-01"},
		docs:      map[int64]*models.CountHeader{},
		nextID:    1,
		nextLine:  1,
	}
}

func (r *fakeCountRepo) Create(doc *models.CountHeader) error {
	r.seq++
	doc.ID = r.nextID
	r.nextID++
	doc.CountNo = fmt.Sprintf("IC-%s-%03d", doc.WhsCode, r.seq)
	for i := range doc.Lines {
		doc.Lines[i].ID = r.nextLine
		r.nextLine++
		doc.Lines[i].CountId = doc.ID
	}
	for i := range doc.ZeroLocations {
		doc.ZeroLocations[i].CountId = doc.ID
	}
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeCountRepo) GetByID(id int64) (*models.CountHeader, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, wmserr.NewNotFound("count", fmt.Sprintf("%d", id))
	}
	return doc, nil
}

func (r *fakeCountRepo) GetByCountNo(countNo string) (*models.CountHeader, error) {
	for _, doc := range r.docs {
		if doc.CountNo == countNo {
			return doc, nil
		}
	}
	return nil, wmserr.NewNotFound("count", countNo)
}

func (r *fakeCountRepo) Snapshot(in ScopeInput) ([]models.CountLine, []models.CountZeroLocation, error) {
	inScope := func(row stockRow) bool {
		switch in.ScopeType {
		case models.CountScopeLocation:
			for _, loc := range in.Locations {
				if row.location == loc {
					return true
				}
			}
			return false
		case models.CountScopeModel:
			for _, code := range in.ItemCodes {
				if row.itemCode == code {
					return true
				}
			}
			return false
		}
		return true
	}

	var lines []models.CountLine
	for _, row := range r.stock {
		if !inScope(row) {
			continue
		}
		lines = append(lines, models.CountLine{
			ItemCode:     row.itemCode,
			Location:     row.location,
			Uom:          "PCS",
			TrackingType: row.tracking,
			SystemQty:    row.qty,
		})
	}

	var zeroLocations []models.CountZeroLocation
	switch in.ScopeType {
	case models.CountScopeLocation:
		for _, loc := range in.Locations {
			zeroLocations = append(zeroLocations, models.CountZeroLocation{Location: loc})
		}
	case models.CountScopeModel:
		for _, line := range lines {
			zeroLocations = append(zeroLocations, models.CountZeroLocation{Location: line.Location})
		}
	default:
		for _, loc := range r.locations {
			zeroLocations = append(zeroLocations, models.CountZeroLocation{Location: loc})
		}
	}
	return lines, zeroLocations, nil
}

func (r *fakeCountRepo) CreateDetail(d *models.CountDetail) error { return nil }

func (r *fakeCountRepo) CreateLine(l *models.CountLine) error {
	l.ID = r.nextLine
	r.nextLine++
	return nil
}

func (r *fakeCountRepo) SaveLine(l *models.CountLine) error { return nil }

func (r *fakeCountRepo) ConfirmZero(countID int64, location string, actor int, at time.Time) (bool, error) {
	doc, ok := r.docs[countID]
	if !ok {
		return false, wmserr.NewNotFound("count", fmt.Sprintf("%d", countID))
	}
	for i := range doc.ZeroLocations {
		if doc.ZeroLocations[i].Location == location {
			if doc.ZeroLocations[i].Confirmed {
				return false, nil
			}
			doc.ZeroLocations[i].Confirmed = true
			doc.ZeroLocations[i].ConfirmedBy = actor
			doc.ZeroLocations[i].ConfirmedAt = &at
			return true, nil
		}
	}
	return false, wmserr.NewNotFound("scoped location", location)
}

func (r *fakeCountRepo) UpdateStatusIf(doc *models.CountHeader, expected, next string, actor int) error {
	stored, ok := r.docs[doc.ID]
	if !ok || stored.Status != expected {
		return &wmserr.ConcurrencyConflictError{DocNo: doc.CountNo, Expected: expected}
	}
	stored.Status = next
	return nil
}

func (r *fakeCountRepo) SetVarianceRef(countID int64, ref string) error {
	doc, ok := r.docs[countID]
	if !ok {
		return wmserr.NewNotFound("count", fmt.Sprintf("%d", countID))
	}
	doc.VarianceRef = ref
	return nil
}

var counter = audit.Actor{ID: 2, Role: "counter"}

func newTestEngine(t *testing.T) (*Engine, *fakeCountRepo) {
	t.Helper()
	repo := newFakeCountRepo()
	return NewEngine(repo, audit.NewRecorder(audit.NewMemoryStore())), repo
}

func locationScope(locations ...string) ScopeInput {
	return ScopeInput{WhsCode: "WH1", ScopeType: models.CountScopeLocation, Locations: locations}
}

func TestCreateFromScope(t *testing.T) {
	engine, repo := newTestEngine(t)

	t.Run("scope validation", func(t *testing.T) {
		_, err := engine.CreateFromScope(counter, ScopeInput{WhsCode: "WH1", ScopeType: "aisle"})
		assert.Error(t, err)

		_, err = engine.CreateFromScope(counter, ScopeInput{WhsCode: "WH1", ScopeType: models.CountScopeLocation})
		assert.Error(t, err)

		_, err = engine.CreateFromScope(counter, ScopeInput{WhsCode: "WH1", ScopeType: models.CountScopeModel})
		assert.Error(t, err)
	})

	t.Run("snapshot freezes system quantities", func(t *testing.T) {
		doc, err := engine.CreateFromScope(counter, locationScope("A-01-01"))
		require.NoError(t, err)
		assert.Regexp(t, `^IC-WH1-\d{3}$`, doc.CountNo)
		assert.NotNil(t, doc.SnapshotAt)
		require.Len(t, doc.Lines, 1)
		assert.Equal(t, 100, doc.Lines[0].SystemQty)

		// stock moves after the snapshot; the frozen line must not follow
		repo.stock[0].qty = 250
		stored, err := repo.GetByID(doc.ID)
		require.NoError(t, err)
		assert.Equal(t, 100, stored.Lines[0].SystemQty)
	})

	t.Run("warehouse scope requires zero confirmation everywhere", func(t *testing.T) {
		doc, err := engine.CreateFromScope(counter, ScopeInput{WhsCode: "WH1", ScopeType: models.CountScopeWarehouse})
		require.NoError(t, err)
		assert.Len(t, doc.ZeroLocations, 3)
	})
}

func TestRecordDetailAggregation(t *testing.T) {
	engine, _ := newTestEngine(t)

	doc, err := engine.CreateFromScope(counter, locationScope("A-01-01"))
	require.NoError(t, err)
	_, err = engine.StartCounting(counter, doc.ID)
	require.NoError(t, err)
	lineID := doc.Lines[0].ID

	_, err = engine.RecordDetail(counter, doc.ID, DetailInput{LineID: lineID, ItemCode: "ITEM-STD", Location: "A-01-01", Quantity: 60})
	require.NoError(t, err)
	_, err = engine.RecordDetail(counter, doc.ID, DetailInput{LineID: lineID, ItemCode: "ITEM-STD", Location: "A-01-01", Quantity: 30})
	require.NoError(t, err)

	line := doc.Lines[0]
	assert.Equal(t, 90, line.CountedQty)
	assert.Equal(t, -10, line.DiffQty)
	assert.Equal(t, 100, line.SystemQty)
	assert.True(t, line.Counted)
}

func TestRecordDetailSerialUniqueness(t *testing.T) {
	engine, _ := newTestEngine(t)

	first, err := engine.CreateFromScope(counter, locationScope("A-01-02"))
	require.NoError(t, err)
	_, err = engine.StartCounting(counter, first.ID)
	require.NoError(t, err)

	_, err = engine.RecordDetail(counter, first.ID, DetailInput{LineID: first.Lines[0].ID, ItemCode: "ITEM-SER", Location: "A-01-02", Quantity: 1, SerialNumber: "SN-9"})
	require.NoError(t, err)

	t.Run("same serial twice in one count fails", func(t *testing.T) {
		_, err := engine.RecordDetail(counter, first.ID, DetailInput{LineID: first.Lines[0].ID, ItemCode: "ITEM-SER", Location: "A-01-02", Quantity: 1, SerialNumber: "SN-9"})
		var dup *wmserr.DuplicateSerialError
		assert.ErrorAs(t, err, &dup)
	})

	t.Run("serial quantity must be one", func(t *testing.T) {
		_, err := engine.RecordDetail(counter, first.ID, DetailInput{LineID: first.Lines[0].ID, ItemCode: "ITEM-SER", Location: "A-01-02", Quantity: 2, SerialNumber: "SN-10"})
		assert.Error(t, err)
	})

	t.Run("same serial in a different count is allowed", func(t *testing.T) {
		second, err := engine.CreateFromScope(counter, locationScope("A-01-02"))
		require.NoError(t, err)
		_, err = engine.StartCounting(counter, second.ID)
		require.NoError(t, err)
		_, err = engine.RecordDetail(counter, second.ID, DetailInput{LineID: second.Lines[0].ID, ItemCode: "ITEM-SER", Location: "A-01-02", Quantity: 1, SerialNumber: "SN-9"})
		assert.NoError(t, err)
	})
}

func TestRecordDetailUnlistedFinds(t *testing.T) {
	engine, _ := newTestEngine(t)

	doc, err := engine.CreateFromScope(counter, locationScope("A-01-01"))
	require.NoError(t, err)
	_, err = engine.StartCounting(counter, doc.ID)
	require.NoError(t, err)

	// stock found that the snapshot never listed
	detail, err := engine.RecordDetail(counter, doc.ID, DetailInput{ItemCode: "ITEM-SURPRISE", Location: "A-01-01", Quantity: 4})
	require.NoError(t, err)
	assert.True(t, detail.IsUnlisted)

	require.Len(t, doc.Lines, 2)
	unlisted := doc.Lines[1]
	assert.True(t, unlisted.IsUnlisted)
	assert.Equal(t, 0, unlisted.SystemQty)
	assert.Equal(t, 4, unlisted.CountedQty)
	assert.Equal(t, 4, unlisted.DiffQty)
}

func TestZeroConfirmationGatesSubmit(t *testing.T) {
	engine, _ := newTestEngine(t)

	doc, err := engine.CreateFromScope(counter, locationScope("A-01-01", "B-01-01"))
	require.NoError(t, err)
	_, err = engine.StartCounting(counter, doc.ID)
	require.NoError(t, err)

	t.Run("submit fails while a location is unconfirmed", func(t *testing.T) {
		require.NoError(t, engine.ConfirmZero(counter, doc.ID, "A-01-01"))

		_, err := engine.Submit(counter, doc.ID, "")
		var zero *wmserr.ZeroIncompleteError
		require.ErrorAs(t, err, &zero)
		assert.Equal(t, []string{"B-01-01"}, zero.MissingLocations)
	})

	t.Run("confirming is idempotent", func(t *testing.T) {
		assert.NoError(t, engine.ConfirmZero(counter, doc.ID, "A-01-01"))
	})

	t.Run("unknown location is rejected", func(t *testing.T) {
		err := engine.ConfirmZero(counter, doc.ID, "Z-99-99")
		var nf *wmserr.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})

	t.Run("submit succeeds once all locations confirm", func(t *testing.T) {
		require.NoError(t, engine.ConfirmZero(counter, doc.ID, "B-01-01"))
		submitted, err := engine.Submit(counter, doc.ID, "")
		require.NoError(t, err)
		assert.Equal(t, models.CountStatusSubmitted, submitted.Status)
	})
}

func TestCompleteReopenCancel(t *testing.T) {
	engine, repo := newTestEngine(t)

	submit := func(t *testing.T) *models.CountHeader {
		t.Helper()
		doc, err := engine.CreateFromScope(counter, locationScope("A-01-01"))
		require.NoError(t, err)
		_, err = engine.StartCounting(counter, doc.ID)
		require.NoError(t, err)
		require.NoError(t, engine.ConfirmZero(counter, doc.ID, "A-01-01"))
		_, err = engine.Submit(counter, doc.ID, "")
		require.NoError(t, err)
		return doc
	}

	t.Run("complete stamps variance ref and freezes the document", func(t *testing.T) {
		doc := submit(t)
		completed, err := engine.Complete(counter, doc.ID, "")
		require.NoError(t, err)
		assert.Equal(t, models.CountStatusCompleted, completed.Status)
		assert.Equal(t, "VR-"+doc.CountNo, completed.VarianceRef)

		_, err = engine.Cancel(counter, doc.ID, "too late")
		assert.Error(t, err)
	})

	t.Run("reopen requires a reason and returns to counting", func(t *testing.T) {
		doc := submit(t)
		_, err := engine.Reopen(counter, doc.ID, "")
		assert.Error(t, err)

		reopened, err := engine.Reopen(counter, doc.ID, "recount aisle A")
		require.NoError(t, err)
		assert.Equal(t, models.CountStatusCounting, reopened.Status)
	})

	t.Run("cancel requires a reason", func(t *testing.T) {
		doc, err := engine.CreateFromScope(counter, locationScope("A-01-01"))
		require.NoError(t, err)

		_, err = engine.Cancel(counter, doc.ID, "")
		assert.Error(t, err)

		cancelled, err := engine.Cancel(counter, doc.ID, "duplicate count")
		require.NoError(t, err)
		assert.Equal(t, models.CountStatusCancelled, cancelled.Status)

		stored, err := repo.GetByID(doc.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CountStatusCancelled, stored.Status)
	})
}
