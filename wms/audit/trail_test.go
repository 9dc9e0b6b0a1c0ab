package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderTrail(t *testing.T) {
	store := NewMemoryStore()
	rec := NewRecorder(store)
	actor := Actor{ID: 7, Role: "approver"}

	require.NoError(t, rec.Transition(DocTypeReceipt, 1, "GR-WH1-202609-000001", "created", "", "draft", actor, ""))
	require.NoError(t, rec.Transition(DocTypeReceipt, 1, "GR-WH1-202609-000001", "begin_receiving", "draft", "receiving", actor, ""))
	require.NoError(t, rec.Transition(DocTypeCount, 1, "IC-WH1-001", "created", "", "draft", actor, ""))

	t.Run("events are scoped per document", func(t *testing.T) {
		events, err := rec.Trail(DocTypeReceipt, 1)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "created", events[0].Action)
		assert.Equal(t, "begin_receiving", events[1].Action)
	})

	t.Run("entries capture actor and statuses", func(t *testing.T) {
		events, err := rec.Trail(DocTypeReceipt, 1)
		require.NoError(t, err)
		assert.Equal(t, 7, events[1].Actor)
		assert.Equal(t, "approver", events[1].Role)
		assert.Equal(t, "draft", events[1].FromStatus)
		assert.Equal(t, "receiving", events[1].ToStatus)
	})

	t.Run("unknown document has empty trail", func(t *testing.T) {
		events, err := rec.Trail(DocTypeReceipt, 99)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}
