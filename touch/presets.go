package touch

import (
	"time"

	"github.com/pkg/errors"

	"github.com/from-vacuum/basic-touch/layout"
)

const (
	presetCols = 2
	presetRows = 4
	// presetReserve keeps room for the tab bar and the fade time fader.
	presetReserve = 120
)

// presetGrid shrinks the default grid to fit n presets.
func presetGrid(n int) (cols, rows int) {
	if n < presetCols*presetRows && n <= presetCols {
		return n, 1
	}
	return presetCols, (n + presetCols - 1) / presetCols
}

// publishPresets sends one button per preset and the fade time fader.
func (s *Surface) publishPresets() {
	names := s.opts.Presets.Names()
	n := len(names)
	if n == 0 {
		s.log.Debug("no presets found")
		return
	}
	if n > s.opts.MaxPresets {
		s.metrics.LayoutWarnings.WithLabelValues("presets").Inc()
		s.log.Warnf("%d presets, but only %d can be displayed; some presets will not be accessible through the interface",
			n, s.opts.MaxPresets)
		n = s.opts.MaxPresets
	}

	g := s.opts.Geometry
	cols, rows := presetGrid(n)
	width := (g.DocWidth - g.Padding*float64(cols+1)) / float64(cols)
	height := (g.DocHeight - g.Padding*float64(rows+1) - presetReserve) / float64(rows)

	for i, r := range layout.GridPositions(n, cols, width, height, g.Padding) {
		s.send("/add_preset", append([]interface{}{i + 1, names[i], r.X, r.Y, r.Width, r.Height}, s.color()...)...)
		s.log.Debugf("added preset %s at (%v, %v)", names[i], r.X, r.Y)
	}

	s.send(FadeTimeAddress, s.FadeTime()/10)
	s.send("/color_control", append([]interface{}{"fadeTimeFader", 1}, s.color()...)...)
}

// RecallPreset recalls the preset on button index, counted from 1, with
// the current fade time.
func (s *Surface) RecallPreset(index int) error {
	if s.opts.Presets == nil {
		return errors.New("no preset bank")
	}
	names := s.opts.Presets.Names()
	if index < 1 || index > len(names) {
		return errors.Wrapf(ErrUnresolvedAddress, "preset %d of %d", index, len(names))
	}

	name := names[index-1]
	fade := time.Duration(s.FadeTime() * float64(time.Second))
	s.log.Debugf("recalling preset %s", name)
	return s.opts.Presets.Recall(name, fade)
}
