package layout

import (
	"math"
)

// Rect is a position in document pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Geometry describes the surface document.
type Geometry struct {
	DocWidth         float64
	DocHeight        float64
	Padding          float64
	TabBarHeight     float64
	MinControlHeight float64
	// ScaleHeight stretches rows to fill the document height.
	ScaleHeight bool
}

// ContentWidth is the document width less padding on both sides.
func (g Geometry) ContentWidth() float64 {
	return g.DocWidth - 2*g.Padding
}

// ControlHeight returns the nominal row height for n controls.
func (g Geometry) ControlHeight(n int) float64 {
	if !g.ScaleHeight || n <= 0 {
		return g.MinControlHeight
	}
	h := math.Floor((g.DocHeight - g.Padding*float64(n+1)) / float64(n))
	return math.Max(g.MinControlHeight, h)
}

// XYSide is the edge length of a square xy pad.
func (g Geometry) XYSide() float64 {
	return g.DocWidth/2 - 2*g.Padding
}

const maxButtonRun = 5

// Layout assigns a Rect to every classified row with a single forward
// scan. When the cursor passes the tab bar the control just placed is
// kept, every following row is removed and an *OverflowError is returned.
func (r *Registry) Layout(g Geometry) error {
	for i := range r.rows {
		r.rows[i].Rect = Rect{}
		r.rows[i].Placed = false
	}

	h := g.ControlHeight(r.Controls())
	limit := g.DocHeight - g.TabBarHeight
	y := g.Padding
	pairOpen := false

	for i := 0; i < len(r.rows); {
		ct := r.rows[i].ControlType
		if ct == "" {
			i++
			continue
		}

		switch ct {
		case Button:
			i = r.placeButtons(i, y, h, g)
			y += h + g.Padding
			pairOpen = false
		case XY:
			side := g.XYSide()
			rect := Rect{X: g.Padding, Y: y, Width: side, Height: side}
			if pairOpen && r.rows[i-1].ControlType == XY {
				prev := r.rows[i-1].Rect
				rect.X, rect.Y = prev.X+side+g.Padding, prev.Y
				pairOpen = false
			} else {
				y += side + g.Padding
				pairOpen = true
			}
			i = r.placeGroup(i, rect, 2)
		case Color:
			i = r.placeGroup(i, Rect{X: g.Padding, Y: y, Width: g.ContentWidth(), Height: h}, 3)
			y += h + g.Padding
			pairOpen = false
		default:
			i = r.placeGroup(i, Rect{X: g.Padding, Y: y, Width: g.ContentWidth(), Height: h}, 1)
			y += h + g.Padding
			pairOpen = false
		}

		if y > limit {
			removed := len(r.rows) - i
			r.rows = r.rows[:i]
			return &OverflowError{Placed: i, Removed: removed, Y: y, Limit: limit}
		}
	}
	return nil
}

// placeGroup gives rect to row i and to up to size-1 following rows of the
// same control, returning the next unplaced row.
func (r *Registry) placeGroup(i int, rect Rect, size int) int {
	first := r.rows[i]
	end := i + 1
	for end < len(r.rows) && end-i < size {
		next := r.rows[end]
		if next.ControlType != first.ControlType || next.Index != first.Index {
			break
		}
		end++
	}
	for j := i; j < end; j++ {
		r.rows[j].Rect = rect
		r.rows[j].Placed = true
	}
	return end
}

// placeButtons splits one line between a run of consecutive buttons.
func (r *Registry) placeButtons(i int, y, h float64, g Geometry) int {
	end := i + 1
	for end < len(r.rows) && end-i < maxButtonRun && r.rows[end].ControlType == Button {
		end++
	}
	count := float64(end - i)
	w := (g.DocWidth - g.Padding*(count+1)) / count
	for j := i; j < end; j++ {
		x := g.Padding + float64(j-i)*(w+g.Padding)
		r.rows[j].Rect = Rect{X: x, Y: y, Width: w, Height: h}
		r.rows[j].Placed = true
	}
	return end
}

// GridPositions lays total cells of width by height out left to right,
// top to bottom, cols to a line.
func GridPositions(total, cols int, width, height, padding float64) []Rect {
	if total <= 0 || cols <= 0 {
		return nil
	}
	rects := make([]Rect, 0, total)
	for i := 0; i < total; i++ {
		col, row := i%cols, i/cols
		rects = append(rects, Rect{
			X:      padding + float64(col)*(width+padding),
			Y:      padding + float64(row)*(height+padding),
			Width:  width,
			Height: height,
		})
	}
	return rects
}
