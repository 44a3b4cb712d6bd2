package param

import (
	"math"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/from-vacuum/basic-touch/layout"
)

// Listener is called with the name of a parameter after it changed.
type Listener func(name string)

type entry struct {
	desc     Descriptor
	min, max float64
	norm     float64
	index    int
	on       bool
	pulses   int
}

func (e *entry) value() float64 {
	return e.min + e.norm*(e.max-e.min)
}

// Memory is a Store held in process memory. It is safe for concurrent use;
// listeners run on the writing goroutine after the store is unlocked.
type Memory struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*entry

	lmu      sync.RWMutex
	onChange []Listener
	onMode   []Listener
}

var _ Store = (*Memory)(nil)

// NewMemory builds a store holding every parameter of t at its initial value.
func NewMemory(t *Table) *Memory {
	m := &Memory{entries: make(map[string]*entry, len(t.Parameters))}
	groups := t.groups()

	for _, p := range t.Parameters {
		style := layout.Style(strings.ToLower(p.Style))
		e := &entry{
			desc: Descriptor{
				Name:       p.Name,
				Label:      p.Label,
				Style:      style,
				Kind:       KindOf(style),
				Mode:       strings.ToLower(p.Mode),
				ReadOnly:   p.ReadOnly,
				Enabled:    p.Enabled == nil || *p.Enabled,
				Group:      groups[p.Name],
				MenuLabels: append([]string(nil), p.Menu...),
			},
			min: p.Min,
			max: p.Max,
		}
		if e.max == e.min {
			e.max = e.min + 1
		}

		switch e.desc.Kind {
		case KindNumber:
			e.norm = clamp01((p.Value - e.min) / (e.max - e.min))
		case KindMenu:
			if i := int(p.Value); i >= 0 && i < len(p.Menu) {
				e.index = i
			}
		default:
			e.on = p.Value != 0
		}

		m.order = append(m.order, p.Name)
		m.entries[p.Name] = e
	}
	return m
}

// OnChange registers fn to run after every value change.
func (m *Memory) OnChange(fn Listener) {
	m.lmu.Lock()
	m.onChange = append(m.onChange, fn)
	m.lmu.Unlock()
}

// OnModeChange registers fn to run after a mode or enable change.
func (m *Memory) OnModeChange(fn Listener) {
	m.lmu.Lock()
	m.onMode = append(m.onMode, fn)
	m.lmu.Unlock()
}

func (m *Memory) notify(listeners *[]Listener, name string) {
	m.lmu.RLock()
	fns := *listeners
	m.lmu.RUnlock()
	for _, fn := range fns {
		fn(name)
	}
}

// Names returns the parameter names in table order.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// Describe returns a copy of the named parameter's descriptor.
func (m *Memory) Describe(name string) (Descriptor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[name]
	if !ok {
		return Descriptor{}, false
	}
	d := e.desc
	d.Group = append([]string(nil), d.Group...)
	d.MenuLabels = append([]string(nil), d.MenuLabels...)
	return d, true
}

func (m *Memory) read(name string, fn func(e *entry) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[name]
	if !ok {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	if err := fn(e); err != nil {
		return errors.Wrapf(err, "%q", name)
	}
	return nil
}

// write applies fn under the lock and notifies listeners when fn reports
// a change.
func (m *Memory) write(name string, listeners *[]Listener, fn func(e *entry) (bool, error)) error {
	m.mu.Lock()
	e, ok := m.entries[name]
	if !ok {
		m.mu.Unlock()
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	changed, err := fn(e)
	m.mu.Unlock()

	if err != nil {
		return errors.Wrapf(err, "%q", name)
	}
	if changed {
		m.notify(listeners, name)
	}
	return nil
}

// Norm returns a number normalized to [0, 1].
func (m *Memory) Norm(name string) (v float64, err error) {
	err = m.read(name, func(e *entry) error {
		if e.desc.Kind != KindNumber {
			return ErrKind
		}
		v = e.norm
		return nil
	})
	return v, err
}

// SetNorm sets a number, clamped to [0, 1].
func (m *Memory) SetNorm(name string, v float64) error {
	return m.write(name, &m.onChange, func(e *entry) (bool, error) {
		if e.desc.Kind != KindNumber {
			return false, ErrKind
		}
		if math.IsNaN(v) {
			return false, ErrRange
		}
		v = clamp01(v)
		changed := e.norm != v
		e.norm = v
		return changed, nil
	})
}

// Value returns a number in its own units.
func (m *Memory) Value(name string) (v float64, err error) {
	err = m.read(name, func(e *entry) error {
		if e.desc.Kind != KindNumber {
			return ErrKind
		}
		v = e.value()
		return nil
	})
	return v, err
}

// MenuIndex returns the selected entry of a menu.
func (m *Memory) MenuIndex(name string) (i int, err error) {
	err = m.read(name, func(e *entry) error {
		if e.desc.Kind != KindMenu {
			return ErrKind
		}
		i = e.index
		return nil
	})
	return i, err
}

// SetMenuIndex selects a menu entry. Indexes past the end fail with ErrRange.
func (m *Memory) SetMenuIndex(name string, i int) error {
	return m.write(name, &m.onChange, func(e *entry) (bool, error) {
		if e.desc.Kind != KindMenu {
			return false, ErrKind
		}
		if i < 0 || i >= len(e.desc.MenuLabels) {
			return false, errors.Wrapf(ErrRange, "menu index %d of %d", i, len(e.desc.MenuLabels))
		}
		changed := e.index != i
		e.index = i
		return changed, nil
	})
}

// Bool reads a switch. Pulses always read false.
func (m *Memory) Bool(name string) (on bool, err error) {
	err = m.read(name, func(e *entry) error {
		switch e.desc.Kind {
		case KindNumber, KindMenu:
			return ErrKind
		}
		on = e.on
		return nil
	})
	return on, err
}

// SetBool sets a toggle or momentary switch.
func (m *Memory) SetBool(name string, on bool) error {
	return m.write(name, &m.onChange, func(e *entry) (bool, error) {
		switch e.desc.Kind {
		case KindToggle, KindMomentary, KindOther:
		default:
			return false, ErrKind
		}
		changed := e.on != on
		e.on = on
		return changed, nil
	})
}

// Pulse fires a pulse parameter. Listeners run on every pulse.
func (m *Memory) Pulse(name string) error {
	return m.write(name, &m.onChange, func(e *entry) (bool, error) {
		if e.desc.Kind != KindPulse {
			return false, ErrKind
		}
		e.pulses++
		return true, nil
	})
}

// Pulses returns how many times a pulse parameter fired.
func (m *Memory) Pulses(name string) (n int, err error) {
	err = m.read(name, func(e *entry) error {
		n = e.pulses
		return nil
	})
	return n, err
}

// SetMode changes a parameter's binding mode.
func (m *Memory) SetMode(name, mode string) error {
	mode = strings.ToLower(mode)
	return m.write(name, &m.onMode, func(e *entry) (bool, error) {
		changed := e.desc.Mode != mode
		e.desc.Mode = mode
		return changed, nil
	})
}

// SetEnabled enables or disables a parameter.
func (m *Memory) SetEnabled(name string, enabled bool) error {
	return m.write(name, &m.onMode, func(e *entry) (bool, error) {
		changed := e.desc.Enabled != enabled
		e.desc.Enabled = enabled
		return changed, nil
	})
}

// Snapshot is the state of one parameter.
type Snapshot struct {
	Descriptor
	Norm  float64 `json:"norm"`
	Value float64 `json:"value"`
	Index int     `json:"index"`
	On    bool    `json:"on"`
}

// Snapshot returns every parameter in table order.
func (m *Memory) Snapshot() []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Snapshot, 0, len(m.order))
	for _, name := range m.order {
		e := m.entries[name]
		s := Snapshot{Descriptor: e.desc, Index: e.index, On: e.on}
		if e.desc.Kind == KindNumber {
			s.Norm, s.Value = e.norm, e.value()
		}
		out = append(out, s)
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
