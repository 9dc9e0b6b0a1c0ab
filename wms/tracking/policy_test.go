package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("accepts known types", func(t *testing.T) {
		for _, s := range []string{"serial", "lot", "none"} {
			typ, err := Parse(s)
			require.NoError(t, err)
			assert.Equal(t, s, typ.String())
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := Parse("batch")
		assert.Error(t, err)
	})
}

func TestSerialPolicy(t *testing.T) {
	t.Run("valid capture", func(t *testing.T) {
		err := Validate(TypeSerial, Capture{Quantity: 1, SerialNumber: "SN-001"})
		assert.NoError(t, err)
	})

	t.Run("requires serial number", func(t *testing.T) {
		err := Validate(TypeSerial, Capture{Quantity: 1})
		assert.Error(t, err)
	})

	t.Run("rejects lot fields", func(t *testing.T) {
		err := Validate(TypeSerial, Capture{Quantity: 1, SerialNumber: "SN-001", LotNumber: "L1"})
		assert.Error(t, err)
	})

	t.Run("quantity must be exactly one", func(t *testing.T) {
		err := Validate(TypeSerial, Capture{Quantity: 2, SerialNumber: "SN-001"})
		assert.Error(t, err)
	})
}

func TestLotPolicy(t *testing.T) {
	t.Run("valid capture", func(t *testing.T) {
		err := Validate(TypeLot, Capture{Quantity: 10, LotNumber: "L1", MfgDate: "2026-01-01", ExpDate: "2027-01-01"})
		assert.NoError(t, err)
	})

	t.Run("dates are optional at capture time", func(t *testing.T) {
		// missing mfg/exp dates block approval later, not the capture itself
		err := Validate(TypeLot, Capture{Quantity: 10, LotNumber: "L1"})
		assert.NoError(t, err)
	})

	t.Run("requires lot number", func(t *testing.T) {
		err := Validate(TypeLot, Capture{Quantity: 10})
		assert.Error(t, err)
	})

	t.Run("rejects serial number", func(t *testing.T) {
		err := Validate(TypeLot, Capture{Quantity: 10, LotNumber: "L1", SerialNumber: "SN-001"})
		assert.Error(t, err)
	})
}

func TestNonePolicy(t *testing.T) {
	t.Run("valid capture", func(t *testing.T) {
		err := Validate(TypeNone, Capture{Quantity: 5})
		assert.NoError(t, err)
	})

	t.Run("rejects identity fields", func(t *testing.T) {
		assert.Error(t, Validate(TypeNone, Capture{Quantity: 5, SerialNumber: "SN-001"}))
		assert.Error(t, Validate(TypeNone, Capture{Quantity: 5, LotNumber: "L1"}))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		assert.Error(t, Validate(TypeNone, Capture{Quantity: 0}))
	})
}
