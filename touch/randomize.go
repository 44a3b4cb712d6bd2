package touch

import (
	"github.com/pkg/errors"

	"github.com/from-vacuum/basic-touch/layout"
	"github.com/from-vacuum/basic-touch/param"
)

// randomButton is one button of the randomize page. A negative degree uses
// the random amount fader.
type randomButton struct {
	name   string
	degree float64
	only   layout.ControlType
}

var randomButtons = []randomButton{
	{"1%", 0.01, ""},
	{"5%", 0.05, ""},
	{"30%", 0.3, ""},
	{"100%", 1, ""},
	{"Fader", -1, layout.Fader},
	{"Button", -1, layout.Button},
	{"Menu", -1, layout.Radio},
	{"XY(Z)", -1, layout.XY},
}

const (
	randomCols = 2
	randomRows = 4
)

// publishRandomize sends the randomize buttons and the amount fader.
func (s *Surface) publishRandomize() {
	g := s.opts.Geometry
	width := (g.DocWidth - g.Padding*(randomCols+1) - 80) / randomCols
	height := (g.DocHeight - g.Padding*(randomRows+1) - 40) / randomRows

	positions := layout.GridPositions(len(randomButtons), randomCols, width, height, g.Padding)
	for i, b := range randomButtons {
		r := positions[i]
		s.send("/add_random", append([]interface{}{i + 1, b.name, r.X, r.Y, r.Width, r.Height}, s.color()...)...)
	}

	s.send("/modify_control", "RandomAmount", 1, g.DocWidth-70, 0, 50, g.DocHeight-80, param.ModeConstant)
	s.send(RandomAmountAddress, s.RandomAmount())
	s.send("/color_control", append([]interface{}{"RandomAmount", 1}, s.color()...)...)
}

// RandomizeButton runs the randomize button at index, counted from 1.
func (s *Surface) RandomizeButton(index int) error {
	if index < 1 || index > len(randomButtons) {
		return errors.Wrapf(ErrUnresolvedAddress, "randomize button %d", index)
	}
	b := randomButtons[index-1]
	degree := b.degree
	if degree < 0 {
		degree = s.RandomAmount()
	}
	s.Randomize(degree, b.only)
	return nil
}

// Randomize moves constant-mode parameters toward random values. Numbers
// blend toward a random value by degree; pulses, toggles and menus change
// with probability degree. An empty only randomizes every row.
func (s *Surface) Randomize(degree float64, only layout.ControlType) {
	s.log.Debugf("randomizing controls of type %q with degree %v", only, degree)

	for _, row := range s.Rows() {
		if only != "" && row.ControlType != only {
			continue
		}
		d, ok := s.store.Describe(row.Name)
		if !ok || d.Mode != param.ModeConstant {
			continue
		}

		var err error
		switch d.Kind {
		case param.KindNumber:
			var cur float64
			if cur, err = s.store.Norm(d.Name); err == nil {
				v := cur + (s.randFloat()-cur)*degree
				err = s.store.SetNorm(d.Name, clamp01(v))
			}
		case param.KindPulse:
			if s.randFloat() < degree {
				err = s.store.Pulse(d.Name)
			}
		case param.KindToggle:
			if s.randFloat() < degree {
				err = s.store.SetBool(d.Name, s.randIntn(2) == 1)
			}
		case param.KindMenu:
			if s.randFloat() < degree && len(d.MenuLabels) > 0 {
				err = s.store.SetMenuIndex(d.Name, s.randIntn(len(d.MenuLabels)))
			}
		}
		if err != nil {
			s.log.WithError(err).WithField("param", d.Name).Warn("randomize")
		}
	}
}

func (s *Surface) randFloat() float64 {
	s.vmu.Lock()
	defer s.vmu.Unlock()
	return s.rnd.Float64()
}

func (s *Surface) randIntn(n int) int {
	s.vmu.Lock()
	defer s.vmu.Unlock()
	return s.rnd.Intn(n)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
