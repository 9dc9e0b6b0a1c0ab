package warning

import (
	"testing"

	"fiber-wms/wms/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocations struct {
	active map[string]bool
}

func (f fakeLocations) LocationActive(whsCode, location string) bool {
	return f.active[location]
}

func newTestClassifier() *Classifier {
	return NewClassifier(fakeLocations{active: map[string]bool{
		"A-01-01": true,
		"A-01-02": true,
	}})
}

func TestQuantityVariancesAreAdvisory(t *testing.T) {
	c := newTestClassifier()

	t.Run("over receipt never blocks regardless of magnitude", func(t *testing.T) {
		warnings := c.Classify("WH1", []LineState{
			{LineID: 1, ItemCode: "ITEM-STD", TrackingType: tracking.TypeNone, QtyPlanned: 10, QtyReceived: 10000},
		})
		require.Len(t, warnings, 1)
		assert.Equal(t, TypeOverReceipt, warnings[0].Type)
		assert.False(t, warnings[0].Blocking)
	})

	t.Run("under receipt is advisory", func(t *testing.T) {
		warnings := c.Classify("WH1", []LineState{
			{LineID: 1, ItemCode: "ITEM-STD", TrackingType: tracking.TypeNone, QtyPlanned: 50, QtyReceived: 45},
		})
		require.Len(t, warnings, 1)
		assert.Equal(t, TypeUnderReceipt, warnings[0].Type)
		assert.False(t, warnings[0].Blocking)
		assert.False(t, HasBlocking(warnings))
	})

	t.Run("exact receipt raises nothing", func(t *testing.T) {
		warnings := c.Classify("WH1", []LineState{
			{LineID: 1, ItemCode: "ITEM-STD", TrackingType: tracking.TypeNone, QtyPlanned: 10, QtyReceived: 10},
		})
		assert.Empty(t, warnings)
	})
}

func TestDuplicateSerialBlocksAcrossLines(t *testing.T) {
	c := newTestClassifier()

	warnings := c.Classify("WH1", []LineState{
		{
			LineID: 1, ItemCode: "ITEM-SER", TrackingType: tracking.TypeSerial,
			QtyPlanned: 2, QtyReceived: 2,
			Captures: []Capture{{Quantity: 1, SerialNumber: "SN-001"}, {Quantity: 1, SerialNumber: "SN-002"}},
		},
		{
			LineID: 2, ItemCode: "ITEM-SER2", TrackingType: tracking.TypeSerial,
			QtyPlanned: 1, QtyReceived: 1,
			Captures: []Capture{{Quantity: 1, SerialNumber: "SN-001"}},
		},
	})

	blocking := Blocking(warnings)
	require.Len(t, blocking, 1)
	assert.Equal(t, TypeDuplicateBarcode, blocking[0].Type)
	assert.Equal(t, uint(2), blocking[0].LineID)
}

func TestMissingLotInfoBlocks(t *testing.T) {
	c := newTestClassifier()

	warnings := c.Classify("WH1", []LineState{
		{
			LineID: 1, ItemCode: "ITEM-LOT", TrackingType: tracking.TypeLot,
			QtyPlanned: 10, QtyReceived: 10,
			Captures: []Capture{{Quantity: 10, LotNumber: "L1"}},
		},
	})

	require.Len(t, warnings, 1)
	assert.Equal(t, TypeMissingLotInfo, warnings[0].Type)
	assert.True(t, warnings[0].Blocking)
}

func TestInvalidBinBlocks(t *testing.T) {
	c := newTestClassifier()

	t.Run("line location", func(t *testing.T) {
		warnings := c.Classify("WH1", []LineState{
			{LineID: 1, ItemCode: "ITEM-STD", TrackingType: tracking.TypeNone, Location: "Z-99-99", QtyPlanned: 5, QtyReceived: 5},
		})
		require.Len(t, warnings, 1)
		assert.Equal(t, TypeInvalidBin, warnings[0].Type)
		assert.True(t, warnings[0].Blocking)
	})

	t.Run("capture location", func(t *testing.T) {
		warnings := c.Classify("WH1", []LineState{
			{
				LineID: 1, ItemCode: "ITEM-STD", TrackingType: tracking.TypeNone,
				Location: "A-01-01", QtyPlanned: 5, QtyReceived: 5,
				Captures: []Capture{{Quantity: 5, Location: "Z-99-99"}},
			},
		})
		require.Len(t, warnings, 1)
		assert.Equal(t, TypeInvalidBin, warnings[0].Type)
	})
}
