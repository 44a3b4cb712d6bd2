package touch

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/from-vacuum/basic-touch/layout"
	"github.com/from-vacuum/basic-touch/osc"
	"github.com/from-vacuum/basic-touch/param"
)

// OnValueChange sends the current value of the named parameter to its
// control. Nothing is sent while an inbound update is being applied, for
// parameters without a control, or for expression-bound parameters.
func (s *Surface) OnValueChange(name string) {
	if s.guard.active() {
		s.metrics.EchoSuppressed.Inc()
		return
	}

	row, _, ok := s.lookup(name)
	if !ok || row.Address == "" {
		s.log.WithField("param", name).Debug("parameter not mapped to a control")
		return
	}
	d, ok := s.store.Describe(name)
	if !ok || d.Mode == param.ModeExpression {
		return
	}

	args, err := s.value(d)
	if err != nil {
		s.log.WithError(err).WithField("param", name).Warn("read parameter value")
		return
	}
	s.send(row.Address, args...)
	s.log.WithField("control", row.Address).Debugf("parameter %s changed to %v", name, args)
}

// value returns the arguments describing a parameter's value: normalized
// values of every group member, a lone normalized value, a menu index, or
// 1 or 0 for switches. The z member of an xyz group sends its own value.
func (s *Surface) value(d param.Descriptor) ([]interface{}, error) {
	if len(d.Group) > 1 {
		if d.Style == layout.StyleXYZ && len(d.Group) == 3 && d.Group[2] == d.Name {
			v, err := s.store.Norm(d.Name)
			return []interface{}{v}, err
		}
		args := make([]interface{}, 0, len(d.Group))
		for _, member := range d.Group {
			v, err := s.store.Norm(member)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		return args, nil
	}

	switch d.Kind {
	case param.KindNumber:
		v, err := s.store.Norm(d.Name)
		return []interface{}{v}, err
	case param.KindMenu:
		i, err := s.store.MenuIndex(d.Name)
		return []interface{}{i}, err
	default:
		on, err := s.store.Bool(d.Name)
		if on {
			return []interface{}{1}, err
		}
		return []interface{}{0}, err
	}
}

// OnModeChange republishes the mode of the named parameter's control when
// its derived mode changed.
func (s *Surface) OnModeChange(name string) {
	row, _, ok := s.lookup(name)
	if !ok || row.ControlType == "" {
		return
	}
	mode := s.mode(name)
	if mode == row.Mode {
		return
	}

	s.log.WithField("param", name).Debugf("mode changed to %s from %s", mode, row.Mode)
	s.send("/mode_changed_control", string(row.ControlType), row.Index, mode)

	s.mu.Lock()
	s.registry.SetMode(name, mode)
	s.mu.Unlock()
}

// OnEnableChange is OnModeChange: disabled parameters publish as read-only.
func (s *Surface) OnEnableChange(name string) {
	s.OnModeChange(name)
}

// Apply writes inbound control arguments to the named parameter. The echo
// guard is held while writing so the change is not sent back.
//
// For a group, a single argument on a three member group sets the third
// member; otherwise members are set in order. Scalars take the first
// argument as a normalized value, a pulse trigger, a switch state or a
// menu index by kind.
func (s *Surface) Apply(name string, args []interface{}) error {
	d, ok := s.store.Describe(name)
	if !ok {
		return errors.Wrapf(ErrUnresolvedAddress, "parameter %q", name)
	}
	if len(args) == 0 {
		return errors.Errorf("no value for parameter %q", name)
	}

	defer s.guard.hold()()

	if len(d.Group) > 1 {
		if len(d.Group) == 3 && len(args) == 1 {
			v, err := toFloat(args[0])
			if err != nil {
				return err
			}
			return s.store.SetNorm(d.Group[2], v)
		}
		for i, member := range d.Group {
			if i >= len(args) {
				break
			}
			v, err := toFloat(args[i])
			if err != nil {
				return err
			}
			if err := s.store.SetNorm(member, v); err != nil {
				return err
			}
		}
		return nil
	}

	v, err := toFloat(args[0])
	if err != nil {
		return err
	}
	switch d.Kind {
	case param.KindNumber:
		return s.store.SetNorm(name, v)
	case param.KindPulse:
		return s.store.Pulse(name)
	case param.KindToggle, param.KindMomentary:
		return s.store.SetBool(name, v != 0)
	case param.KindMenu:
		return s.store.SetMenuIndex(name, int(v))
	}
	return nil
}

func toFloat(arg interface{}) (float64, error) {
	switch v := arg.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, errors.Wrapf(err, "argument %q", v)
	default:
		return 0, errors.Errorf("argument %v (%T) is not a number", arg, arg)
	}
}

// handleControl routes a control message: preset and randomize triggers
// go to their pages, everything else to the parameter its control maps to.
func (s *Surface) handleControl(msg *osc.Message) {
	log := s.log.WithField("address", msg.Address)

	addr, err := ParseAddress(msg.Address)
	if err != nil {
		s.unresolved(msg, err)
		return
	}

	switch addr.Prefix {
	case PresetButtons:
		if err := s.RecallPreset(addr.Index); err != nil {
			log.WithError(err).Warn("recall preset")
		}
		return
	case RandomButtons:
		log.Debugf("randomize button %d pressed", addr.Index)
		if err := s.RandomizeButton(addr.Index); err != nil {
			log.WithError(err).Warn("randomize")
		}
		return
	}

	name, ok := s.find(layout.ControlType(addr.Prefix), addr.Index)
	if !ok {
		s.unresolved(msg, errors.Wrapf(ErrUnresolvedAddress, "no parameter for control %s", addr.Name))
		return
	}
	if err := s.Apply(name, msg.Arguments); err != nil {
		if errors.Is(err, ErrUnresolvedAddress) {
			s.unresolved(msg, err)
			return
		}
		log.WithError(err).Warn("update parameter")
		return
	}
	log.Debugf("updated %s to %v", name, msg.Arguments)
}

func (s *Surface) unresolved(msg *osc.Message, err error) {
	s.metrics.UnresolvedAddresses.Inc()
	s.log.WithError(err).WithField("address", msg.Address).Debug("ignoring message")
}

func (s *Surface) handleFadeTime(msg *osc.Message) {
	v, err := firstFloat(msg)
	if err != nil {
		s.log.WithError(err).WithField("address", msg.Address).Warn("fade time")
		return
	}
	s.vmu.Lock()
	s.fadeTime = v * 10
	s.vmu.Unlock()
	s.log.Debugf("fade time changed to %v", v)
}

func (s *Surface) handleRandomAmount(msg *osc.Message) {
	v, err := firstFloat(msg)
	if err != nil {
		s.log.WithError(err).WithField("address", msg.Address).Warn("random amount")
		return
	}
	s.vmu.Lock()
	s.randomAmount = v
	s.vmu.Unlock()
	s.log.Debugf("random amount changed to %v", v)
}

func firstFloat(msg *osc.Message) (float64, error) {
	if len(msg.Arguments) == 0 {
		return 0, errors.New("missing argument")
	}
	return toFloat(msg.Arguments[0])
}
