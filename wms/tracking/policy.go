package tracking

import (
	"fiber-wms/wms/wmserr"
	"fmt"
)

// Type is the per-item tracking policy. It is copied onto document lines
// when the line is created and never edited afterwards.
type Type string

const (
	TypeSerial Type = "serial"
	TypeLot    Type = "lot"
	TypeNone   Type = "none"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeSerial, TypeLot, TypeNone:
		return true
	}
	return false
}

func (t Type) String() string {
	return string(t)
}

// Parse normalizes a boundary string into a Type.
func Parse(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", wmserr.NewValidation("tracking_type", fmt.Sprintf("unknown tracking type %q", s))
	}
	return t, nil
}

// Capture is one physical unit capture. Exactly one identity payload is
// allowed per tracking type: serial number, lot number (+ dates), or nothing.
type Capture struct {
	Quantity     int
	SerialNumber string
	LotNumber    string
	MfgDate      string
	ExpDate      string
}

type Policy interface {
	Validate(c Capture) error
}

type serialPolicy struct{}

func (serialPolicy) Validate(c Capture) error {
	if c.SerialNumber == "" {
		return wmserr.NewValidation("serial_number", "serial number is required for serial-tracked items")
	}
	if c.LotNumber != "" || c.MfgDate != "" || c.ExpDate != "" {
		return wmserr.NewValidation("lot_no", "lot fields are not allowed for serial-tracked items")
	}
	if c.Quantity != 1 {
		return wmserr.NewValidation("quantity", "serial-tracked captures must have quantity 1")
	}
	return nil
}

type lotPolicy struct{}

func (lotPolicy) Validate(c Capture) error {
	if c.LotNumber == "" {
		return wmserr.NewValidation("lot_no", "lot number is required for lot-tracked items")
	}
	if c.SerialNumber != "" {
		return wmserr.NewValidation("serial_number", "serial number is not allowed for lot-tracked items")
	}
	if c.Quantity < 1 {
		return wmserr.NewValidation("quantity", "quantity must be positive")
	}
	return nil
}

type nonePolicy struct{}

func (nonePolicy) Validate(c Capture) error {
	if c.SerialNumber != "" || c.LotNumber != "" || c.MfgDate != "" || c.ExpDate != "" {
		return wmserr.NewValidation("tracking_type", "identity fields are not allowed for untracked items")
	}
	if c.Quantity < 1 {
		return wmserr.NewValidation("quantity", "quantity must be positive")
	}
	return nil
}

var policies = map[Type]Policy{
	TypeSerial: serialPolicy{},
	TypeLot:    lotPolicy{},
	TypeNone:   nonePolicy{},
}

// PolicyFor returns the capture policy for a tracking type.
func PolicyFor(t Type) (Policy, error) {
	p, ok := policies[t]
	if !ok {
		return nil, wmserr.NewValidation("tracking_type", fmt.Sprintf("unknown tracking type %q", t))
	}
	return p, nil
}

// Validate dispatches a capture to the policy of the given tracking type.
func Validate(t Type, c Capture) error {
	p, err := PolicyFor(t)
	if err != nil {
		return err
	}
	return p.Validate(c)
}
