// Package param is the parameter store the surface drives.
//
// Store is the narrow contract the surface needs: describe a parameter,
// read and write its value as a normalized float, a menu index or a
// boolean, and fire pulses. Memory is an in-process implementation loaded
// from a YAML table.
package param

import (
	"github.com/pkg/errors"

	"github.com/from-vacuum/basic-touch/layout"
)

var (
	// ErrNotFound is returned for a name the store does not hold.
	ErrNotFound = errors.New("param: no such parameter")
	// ErrKind is returned when a read or write does not suit the kind.
	ErrKind = errors.New("param: operation does not match parameter kind")
	// ErrRange is returned for NaN numbers and menu indexes past the end.
	ErrRange = errors.New("param: value out of range")
)

// Kind is how a parameter's value is read and written.
type Kind string

const (
	KindNumber    Kind = "number"
	KindMenu      Kind = "menu"
	KindPulse     Kind = "pulse"
	KindToggle    Kind = "toggle"
	KindMomentary Kind = "momentary"
	KindOther     Kind = "other"
)

// KindOf maps a style to its kind.
func KindOf(style layout.Style) Kind {
	switch style {
	case layout.StyleFloat, layout.StyleInt, layout.StyleXY, layout.StyleXYZ,
		layout.StyleXYZW, layout.StyleRGB, layout.StyleRGBA:
		return KindNumber
	case layout.StyleMenu, layout.StyleStrMenu:
		return KindMenu
	case layout.StylePulse:
		return KindPulse
	case layout.StyleToggle:
		return KindToggle
	case layout.StyleMomentary:
		return KindMomentary
	default:
		return KindOther
	}
}

// Binding modes.
const (
	ModeConstant   = "constant"
	ModeExpression = "expression"
	ModeExport     = "export"
	ModeBind       = "bind"
)

// Descriptor is the static and binding state of one parameter.
type Descriptor struct {
	Name     string       `json:"name"`
	Label    string       `json:"label"`
	Style    layout.Style `json:"style"`
	Kind     Kind         `json:"kind"`
	Mode     string       `json:"mode"`
	ReadOnly bool         `json:"read_only"`
	Enabled  bool         `json:"enabled"`
	// Group lists the members of the parameter's tuple in order, including
	// the parameter itself. A scalar has a group of one.
	Group      []string `json:"group"`
	MenuLabels []string `json:"menu_labels,omitempty"`
}

// Store reads and writes parameter values. Writes notify the store's
// change listeners synchronously.
type Store interface {
	Describe(name string) (Descriptor, bool)

	Norm(name string) (float64, error)
	SetNorm(name string, v float64) error

	MenuIndex(name string) (int, error)
	SetMenuIndex(name string, i int) error

	Bool(name string) (bool, error)
	SetBool(name string, v bool) error

	Pulse(name string) error
}
