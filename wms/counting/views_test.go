package counting

import (
	"testing"

	"fiber-wms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blindDoc() *models.CountHeader {
	return &models.CountHeader{
		ID:        1,
		CountNo:   "IC-WH1-001",
		WhsCode:   "WH1",
		ScopeType: models.CountScopeLocation,
		BlindMode: true,
		Status:    models.CountStatusCounting,
		Lines: []models.CountLine{
			{ItemCode: "ITEM-STD", Location: "A-01-01", SystemQty: 100, CountedQty: 90, DiffQty: -10, Counted: true},
			{ItemCode: "ITEM-SER", Location: "A-01-02", SystemQty: 3},
		},
	}
}

func TestViewForBlindCount(t *testing.T) {
	t.Run("counter never sees system or diff quantities", func(t *testing.T) {
		view := ViewFor(blindDoc(), models.RoleCounter)
		require.Len(t, view.Lines, 2)

		assert.Nil(t, view.Lines[0].SystemQty)
		assert.Nil(t, view.Lines[0].DiffQty)
		require.NotNil(t, view.Lines[0].CountedQty)
		assert.Equal(t, 90, *view.Lines[0].CountedQty)
	})

	t.Run("counted quantity hidden until the line is counted", func(t *testing.T) {
		view := ViewFor(blindDoc(), models.RoleCounter)
		assert.Nil(t, view.Lines[1].CountedQty)
	})

	t.Run("reviewer sees everything", func(t *testing.T) {
		view := ViewFor(blindDoc(), models.RoleReviewer)

		require.NotNil(t, view.Lines[0].SystemQty)
		assert.Equal(t, 100, *view.Lines[0].SystemQty)
		require.NotNil(t, view.Lines[0].DiffQty)
		assert.Equal(t, -10, *view.Lines[0].DiffQty)

		// uncounted line shows its system quantity but no diff yet
		require.NotNil(t, view.Lines[1].SystemQty)
		assert.Nil(t, view.Lines[1].DiffQty)
	})
}

func TestViewForOpenCount(t *testing.T) {
	doc := blindDoc()
	doc.BlindMode = false

	view := ViewFor(doc, models.RoleCounter)
	require.NotNil(t, view.Lines[0].SystemQty)
	assert.Equal(t, 100, *view.Lines[0].SystemQty)
}

func TestCanSeeVariance(t *testing.T) {
	assert.False(t, CanSeeVariance(models.RoleCounter))
	assert.True(t, CanSeeVariance(models.RoleReviewer))
	assert.True(t, CanSeeVariance(models.RoleApprover))
	assert.True(t, CanSeeVariance(models.RoleAdmin))
}
