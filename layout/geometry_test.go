package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGeometry = Geometry{
	DocWidth:         400,
	DocHeight:        800,
	Padding:          10,
	TabBarHeight:     40,
	MinControlHeight: 40,
}

func loadAndLayout(t *testing.T, g Geometry, params []Param) (*Registry, error) {
	t.Helper()
	reg := NewRegistry(nil)
	require.NoError(t, reg.Load(params, nil))
	return reg, reg.Layout(g)
}

func TestLayout_Gain(t *testing.T) {
	reg, err := loadAndLayout(t, testGeometry, []Param{{Name: "Gain", Label: "Gain", Style: StyleFloat, Size: 1}})
	require.NoError(t, err)

	row := reg.At(0)
	assert.True(t, row.Placed)
	assert.Equal(t, Rect{X: 10, Y: 10, Width: 380, Height: 40}, row.Rect)
}

func TestLayout_Faders(t *testing.T) {
	reg, err := loadAndLayout(t, testGeometry, append(rows(StyleFloat, 1, 2), rows(StyleMenu, 1, 1)...))
	require.NoError(t, err)

	assert.Equal(t, Rect{X: 10, Y: 10, Width: 380, Height: 40}, reg.At(0).Rect)
	assert.Equal(t, Rect{X: 10, Y: 60, Width: 380, Height: 40}, reg.At(1).Rect)
	assert.Equal(t, Rect{X: 10, Y: 110, Width: 380, Height: 40}, reg.At(2).Rect)
}

func TestLayout_ButtonRuns(t *testing.T) {
	reg, err := loadAndLayout(t, testGeometry, rows(StylePulse, 1, 7))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.Equal(t, Rect{X: 10 + float64(i)*78, Y: 10, Width: 68, Height: 40}, reg.At(i).Rect, "button %d", i+1)
	}
	assert.Equal(t, Rect{X: 10, Y: 60, Width: 185, Height: 40}, reg.At(5).Rect)
	assert.Equal(t, Rect{X: 205, Y: 60, Width: 185, Height: 40}, reg.At(6).Rect)
}

func TestLayout_ButtonRunBrokenByFader(t *testing.T) {
	params := append(rows(StyleToggle, 1, 2), Param{Name: "Gain", Label: "Gain", Style: StyleFloat, Size: 1})
	reg, err := loadAndLayout(t, testGeometry, params)
	require.NoError(t, err)

	assert.Equal(t, Rect{X: 10, Y: 10, Width: 185, Height: 40}, reg.At(0).Rect)
	assert.Equal(t, Rect{X: 205, Y: 10, Width: 185, Height: 40}, reg.At(1).Rect)
	assert.Equal(t, Rect{X: 10, Y: 60, Width: 380, Height: 40}, reg.At(2).Rect)
}

func TestLayout_XYPairs(t *testing.T) {
	params := append(rows(StyleXY, 2, 6), Param{Name: "Gain", Label: "Gain", Style: StyleFloat, Size: 1})
	reg, err := loadAndLayout(t, testGeometry, params)
	require.NoError(t, err)

	first := Rect{X: 10, Y: 10, Width: 180, Height: 180}
	second := Rect{X: 200, Y: 10, Width: 180, Height: 180}
	third := Rect{X: 10, Y: 200, Width: 180, Height: 180}

	assert.Equal(t, first, reg.At(0).Rect)
	assert.Equal(t, first, reg.At(1).Rect)
	assert.Equal(t, second, reg.At(2).Rect)
	assert.Equal(t, second, reg.At(3).Rect)
	assert.Equal(t, third, reg.At(4).Rect)
	assert.Equal(t, third, reg.At(5).Rect)
	assert.Equal(t, Rect{X: 10, Y: 390, Width: 380, Height: 40}, reg.At(6).Rect)
}

func TestLayout_ColorGroups(t *testing.T) {
	params := append(rows(StyleRGB, 3, 6), Param{Name: "Gain", Label: "Gain", Style: StyleFloat, Size: 1})
	reg, err := loadAndLayout(t, testGeometry, params)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, Rect{X: 10, Y: 10, Width: 380, Height: 40}, reg.At(i).Rect)
	}
	for i := 3; i < 6; i++ {
		assert.Equal(t, Rect{X: 10, Y: 60, Width: 380, Height: 40}, reg.At(i).Rect)
	}
	assert.Equal(t, float64(110), reg.At(6).Rect.Y)
}

func TestLayout_SkipsUnclassified(t *testing.T) {
	reg, err := loadAndLayout(t, testGeometry, []Param{
		{Name: "Quad", Label: "Quad", Style: StyleFloat, Size: 4},
		{Name: "Gain", Label: "Gain", Style: StyleFloat, Size: 1},
	})
	require.NoError(t, err)

	assert.False(t, reg.At(0).Placed)
	assert.Equal(t, Rect{}, reg.At(0).Rect)
	assert.Equal(t, Rect{X: 10, Y: 10, Width: 380, Height: 40}, reg.At(1).Rect)
}

func TestLayout_Overflow(t *testing.T) {
	g := testGeometry
	g.DocHeight = 200

	reg, err := loadAndLayout(t, g, rows(StyleFloat, 1, 6))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLayoutOverflow))

	var overflow *OverflowError
	require.True(t, errors.As(err, &overflow))
	assert.Equal(t, 4, overflow.Placed)
	assert.Equal(t, 2, overflow.Removed)
	assert.Equal(t, float64(210), overflow.Y)
	assert.Equal(t, float64(160), overflow.Limit)

	require.Equal(t, 4, reg.Len())
	assert.True(t, reg.At(3).Placed)
	assert.Equal(t, float64(160), reg.At(3).Rect.Y)
	_, ok := reg.Find(Fader, 5)
	assert.False(t, ok)
}

func TestLayout_FitsExactly(t *testing.T) {
	g := testGeometry
	g.DocHeight = 200

	reg, err := loadAndLayout(t, g, rows(StyleFloat, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())
}

func TestLayout_ScaledHeight(t *testing.T) {
	g := testGeometry
	g.DocHeight = 400
	g.ScaleHeight = true

	// Scaled rows fill the document, so the cursor always ends past the
	// tab bar and the pass reports an overflow with nothing removed.
	reg, err := loadAndLayout(t, g, rows(StyleFloat, 1, 3))
	require.True(t, errors.Is(err, ErrLayoutOverflow), "got %v", err)
	var overflow *OverflowError
	require.True(t, errors.As(err, &overflow))
	assert.Equal(t, 0, overflow.Removed)
	assert.Equal(t, float64(400), overflow.Y)
	assert.Equal(t, float64(360), overflow.Limit)

	require.Equal(t, 3, reg.Len())
	assert.Equal(t, Rect{X: 10, Y: 10, Width: 380, Height: 120}, reg.At(0).Rect)
	assert.Equal(t, Rect{X: 10, Y: 140, Width: 380, Height: 120}, reg.At(1).Rect)
}

func TestGeometry_ControlHeight(t *testing.T) {
	g := Geometry{DocHeight: 400, Padding: 10, MinControlHeight: 40}
	assert.Equal(t, float64(40), g.ControlHeight(3))

	g.ScaleHeight = true
	tests := []struct {
		n    int
		want float64
	}{
		{0, 40},
		{1, 380},
		{3, 120},
		{7, 45},
		{20, 40},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.ControlHeight(tt.n), "n=%d", tt.n)
	}
}

func TestGridPositions(t *testing.T) {
	got := GridPositions(3, 2, 100, 50, 10)
	assert.Equal(t, []Rect{
		{X: 10, Y: 10, Width: 100, Height: 50},
		{X: 120, Y: 10, Width: 100, Height: 50},
		{X: 10, Y: 70, Width: 100, Height: 50},
	}, got)

	assert.Nil(t, GridPositions(0, 2, 100, 50, 10))
	assert.Nil(t, GridPositions(3, 0, 100, 50, 10))
}
