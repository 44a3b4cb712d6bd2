package layout

import (
	"strconv"
	"strings"
)

// Style is the host's parameter style, lower-cased.
type Style string

const (
	StyleFloat     Style = "float"
	StyleInt       Style = "int"
	StylePulse     Style = "pulse"
	StyleToggle    Style = "toggle"
	StyleMomentary Style = "momentary"
	StyleRGB       Style = "rgb"
	StyleRGBA      Style = "rgba"
	StyleMenu      Style = "menu"
	StyleStrMenu   Style = "strmenu"
	StyleXY        Style = "xy"
	StyleXYZ       Style = "xyz"
	StyleXYZW      Style = "xyzw"
)

var supportedStyles = map[Style]bool{
	StyleFloat: true, StyleInt: true, StylePulse: true, StyleToggle: true,
	StyleMomentary: true, StyleRGB: true, StyleRGBA: true, StyleMenu: true,
	StyleStrMenu: true, StyleXY: true, StyleXYZ: true, StyleXYZW: true,
}

// ParseStyle normalizes s and reports whether it is a supported style.
func ParseStyle(s string) (Style, bool) {
	style := Style(strings.ToLower(strings.TrimSpace(s)))
	return style, supportedStyles[style]
}

// ControlType names a widget family on the remote surface. It is also the
// address prefix of its widgets.
type ControlType string

const (
	Fader  ControlType = "fader"
	Button ControlType = "button"
	Color  ControlType = "color"
	Radio  ControlType = "radio"
	XY     ControlType = "xy"

	Label   ControlType = "label"
	PLabel  ControlType = "plabel"
	PButton ControlType = "pbutton"
)

// Limits is the number of widgets of each type the surface template provides.
type Limits map[ControlType]int

// DefaultLimits matches the stock surface template.
func DefaultLimits() Limits {
	return Limits{
		Label:   24,
		Fader:   16,
		Button:  16,
		Color:   3,
		Radio:   4,
		XY:      4,
		PLabel:  10,
		PButton: 10,
	}
}

// groupSize is the number of consecutive rows sharing one index.
func groupSize(ct ControlType) int {
	switch ct {
	case XY:
		return 2
	case Color:
		return 3
	default:
		return 1
	}
}

// Address returns the wire address of a control, e.g. "/fader1".
func Address(ct ControlType, index int) string {
	return "/" + string(ct) + strconv.Itoa(index)
}

// DeriveMode returns the mode a control is published with. Read-only,
// disabled and expression-bound parameters are read-only on the surface;
// any other mode passes through lower-cased.
func DeriveMode(mode string, readOnly, enabled bool) string {
	mode = strings.ToLower(mode)
	if readOnly || !enabled || mode == "expression" {
		return "readonly"
	}
	return mode
}
