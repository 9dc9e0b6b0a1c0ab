package report

import (
	"testing"

	"fiber-wms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromReceipt(t *testing.T) {
	doc := &models.ReceiptHeader{
		ReceiptNo: "GR-WH1-202609-000007",
		WhsCode:   "WH1",
		Status:    models.ReceiptStatusCompleted,
		Lines: []models.ReceiptLine{
			{ItemCode: "ITEM-STD", Uom: "PCS", TrackingType: "none", QtyPlanned: 50, QtyReceived: 45},
			{ItemCode: "ITEM-SER", Uom: "PCS", TrackingType: "serial", QtyPlanned: 3, QtyReceived: 3},
		},
	}

	r := FromReceipt(doc)

	assert.Equal(t, "VR-GR-WH1-202609-000007", r.Reference)
	assert.Equal(t, "receipt", r.DocType)
	assert.Equal(t, "WH1", r.WhsCode)
	require.Len(t, r.Lines, 2)

	assert.Equal(t, -5, r.Lines[0].Variance)
	assert.Equal(t, 0, r.Lines[1].Variance)

	assert.Equal(t, 53, r.TotalExpected)
	assert.Equal(t, 48, r.TotalActual)
	assert.Equal(t, -5, r.TotalVariance)
	assert.Equal(t, 1, r.VarianceLines)
}

func TestFromCount(t *testing.T) {
	doc := &models.CountHeader{
		CountNo:     "IC-WH1-004",
		WhsCode:     "WH1",
		Status:      models.CountStatusCompleted,
		VarianceRef: "VR-IC-WH1-004",
		Lines: []models.CountLine{
			{ItemCode: "ITEM-STD", Location: "A-01-01", Uom: "PCS", SystemQty: 100, CountedQty: 90, DiffQty: -10, Counted: true},
			{ItemCode: "ITEM-LOT", Location: "A-01-02", Uom: "PCS", SystemQty: 20, CountedQty: 20, Counted: true},
			{ItemCode: "ITEM-SURPRISE", Location: "B-01-01", Uom: "PCS", SystemQty: 0, CountedQty: 4, DiffQty: 4, Counted: true, IsUnlisted: true},
		},
	}

	r := FromCount(doc)

	t.Run("reuses the stamped variance reference", func(t *testing.T) {
		assert.Equal(t, "VR-IC-WH1-004", r.Reference)
	})

	t.Run("unlisted finds are reported against a zero baseline", func(t *testing.T) {
		require.Len(t, r.Lines, 3)
		assert.True(t, r.Lines[2].IsUnlisted)
		assert.Equal(t, 0, r.Lines[2].Expected)
		assert.Equal(t, 4, r.Lines[2].Variance)
	})

	t.Run("totals aggregate every line", func(t *testing.T) {
		assert.Equal(t, 120, r.TotalExpected)
		assert.Equal(t, 114, r.TotalActual)
		assert.Equal(t, -6, r.TotalVariance)
		assert.Equal(t, 2, r.VarianceLines)
	})
}

func TestFromCountDerivesReference(t *testing.T) {
	doc := &models.CountHeader{CountNo: "IC-WH2-001", WhsCode: "WH2"}
	assert.Equal(t, "VR-IC-WH2-001", FromCount(doc).Reference)
}
