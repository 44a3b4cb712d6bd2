package layout

// Param is one row of the parameter table, in table order.
type Param struct {
	Name  string `yaml:"name" json:"name"`
	Label string `yaml:"label" json:"label"`
	Style Style  `yaml:"style" json:"style"`
	// Size is the number of consecutive rows forming one logical control.
	Size int `yaml:"size" json:"size"`
}

// FilterSupported splits params into rows with a supported style and rows
// that are dropped before layout. Styles are normalized to lower case.
func FilterSupported(params []Param) (kept, dropped []Param) {
	kept = make([]Param, 0, len(params))
	for _, p := range params {
		style, ok := ParseStyle(string(p.Style))
		if !ok {
			dropped = append(dropped, p)
			continue
		}
		p.Style = style
		kept = append(kept, p)
	}
	return kept, dropped
}

// Classify returns the control type of params[i]. An empty result means the
// row has no widget.
//
// A numeric style with size 3 is either a fader split into three components
// or an xyz control. The two are told apart by comparing the row's label
// with the label two rows earlier: equal labels mean fader.
func Classify(params []Param, i int) ControlType {
	p := params[i]
	switch p.Style {
	case StyleFloat, StyleInt, StyleXY, StyleXYZW:
		switch p.Size {
		case 1:
			return Fader
		case 2:
			return XY
		case 3:
			if i >= 2 && params[i-2].Label == p.Label {
				return Fader
			}
			return XY
		}
	case StylePulse, StyleToggle, StyleMomentary:
		return Button
	case StyleRGB, StyleRGBA:
		return Color
	case StyleMenu, StyleStrMenu:
		return Radio
	}
	return ""
}

// indexer hands out per-type control indices. Grouped types share one
// index across all members of a group.
type indexer struct {
	index   map[ControlType]int
	members map[ControlType]int
}

func newIndexer() *indexer {
	return &indexer{
		index:   make(map[ControlType]int),
		members: make(map[ControlType]int),
	}
}

func (x *indexer) next(ct ControlType) int {
	x.members[ct]++
	if x.members[ct]%groupSize(ct) == 1%groupSize(ct) {
		x.index[ct]++
	}
	return x.index[ct]
}
