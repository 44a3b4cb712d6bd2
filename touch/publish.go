package touch

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/from-vacuum/basic-touch/layout"
	"github.com/from-vacuum/basic-touch/param"
)

const maxMenuLabels = 20

// Start rebuilds the layout from params and publishes it: every control
// slot is hidden, each placed control is configured, labelled, given its
// current value and tinted, then the randomize and preset pages follow.
//
// Layout warnings do not stop publication. They are logged and returned
// joined, together with the context error if ctx ends first.
func (s *Surface) Start(ctx context.Context, params []layout.Param) error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	kept, dropped := layout.FilterSupported(params)
	for _, p := range dropped {
		s.log.WithField("param", p.Name).Debugf("skipping parameter with unsupported style %q", p.Style)
	}

	s.mu.Lock()
	loadErr := s.registry.Load(kept, s.mode)
	layoutErr := s.registry.Layout(s.opts.Geometry)
	rows := s.registry.Rows()
	controls := s.registry.Controls()
	s.mu.Unlock()

	s.metrics.Controls.Set(float64(controls))
	warnings := errors.Join(loadErr, layoutErr)
	s.warn(warnings)

	s.hideControls()
	if err := s.publishControls(ctx, rows); err != nil {
		return errors.Join(warnings, err)
	}
	s.publishRandomize()
	if s.opts.Presets != nil {
		s.publishPresets()
	}
	s.send("/tabs", s.opts.FontSize, s.opts.Geometry.MinControlHeight)

	return warnings
}

// warn logs each layout warning in err.
func (s *Surface) warn(err error) {
	for _, e := range flatten(err) {
		var (
			capErr   *layout.CapacityError
			overflow *layout.OverflowError
		)
		switch {
		case errors.As(e, &capErr):
			s.metrics.LayoutWarnings.WithLabelValues("capacity").Inc()
			s.log.WithField("param", capErr.Name).Warn(capErr.Error())
		case errors.As(e, &overflow):
			s.metrics.LayoutWarnings.WithLabelValues("overflow").Inc()
			s.log.Warn(overflow.Error())
		default:
			s.log.WithError(e).Warn("layout")
		}
	}
}

func flatten(err error) []error {
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, flatten(e)...)
	}
	return out
}

// mode derives the publication mode from the store.
func (s *Surface) mode(name string) string {
	d, ok := s.store.Describe(name)
	if !ok {
		return ""
	}
	return layout.DeriveMode(d.Mode, d.ReadOnly, d.Enabled)
}

var controlOrder = []layout.ControlType{
	layout.Label, layout.Fader, layout.Button, layout.Color,
	layout.Radio, layout.XY, layout.PLabel, layout.PButton,
}

// hideControls hides every slot of every control type.
func (s *Surface) hideControls() {
	known := make(map[layout.ControlType]bool, len(controlOrder))
	types := append([]layout.ControlType(nil), controlOrder...)
	for _, ct := range controlOrder {
		known[ct] = true
	}
	var extra []layout.ControlType
	for ct := range s.opts.Limits {
		if !known[ct] {
			extra = append(extra, ct)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	types = append(types, extra...)

	for _, ct := range types {
		for i := 1; i <= s.opts.Limits[ct]; i++ {
			s.send("/hide_control", string(ct), i)
		}
	}
}

func (s *Surface) publishControls(ctx context.Context, rows []layout.Row) error {
	done := make(map[string]bool)
	labels := s.opts.Limits[layout.Label]

	for pos, row := range rows {
		if row.ControlType == "" || done[row.Address] {
			continue
		}
		done[row.Address] = true

		d, ok := s.store.Describe(row.Name)
		if !ok {
			s.log.WithField("param", row.Name).Debug("parameter not found in store")
			continue
		}
		if !row.Placed {
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		r := row.Rect
		s.send("/modify_control", string(row.ControlType), row.Index,
			r.X, r.Y, r.Width, r.Height, row.Mode, menuLabels(d))

		if row.ControlType != layout.Radio {
			if n := pos + 1; n <= labels {
				s.send("/modify_control", string(layout.Label), n,
					r.X, r.Y, r.Width, r.Height, "expression", []interface{}{})
				s.send("/label"+strconv.Itoa(n), d.Label)
			} else {
				s.log.WithField("param", row.Name).Debugf("no label slot for row %d", n)
			}
		}

		s.OnValueChange(row.Name)
		s.send("/color_control", append([]interface{}{string(row.ControlType), row.Index}, s.color()...)...)

		s.log.WithField("control", row.Address).Debugf("created control for %s", row.Name)
	}
	return nil
}

// menuLabels returns up to 20 menu labels, shortened for long menus.
func menuLabels(d param.Descriptor) []string {
	if d.Kind != param.KindMenu {
		return []string{}
	}
	labels := d.MenuLabels
	if len(labels) > maxMenuLabels {
		labels = labels[:maxMenuLabels]
	}

	limit := menuLabelLimit(len(d.MenuLabels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if limit > 0 {
			if r := []rune(l); len(r) > limit {
				l = string(r[:limit])
			}
		}
		out = append(out, l)
	}
	return out
}

func menuLabelLimit(count int) int {
	switch {
	case count >= 15:
		return 3
	case count >= 11:
		return 4
	case count >= 8:
		return 5
	default:
		return 0
	}
}
