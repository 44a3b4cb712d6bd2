package param

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultFadeStep is the interval between fade updates.
const DefaultFadeStep = time.Second / 60

// Presets recalls stored parameter values, fading numbers over time.
type Presets struct {
	store  Store
	names  []string
	values map[string]map[string]float64
	step   time.Duration
	log    logrus.FieldLogger

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewPresets returns a bank of the given presets applied to store.
func NewPresets(store Store, entries []PresetEntry, logger logrus.FieldLogger) *Presets {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	p := &Presets{
		store:  store,
		values: make(map[string]map[string]float64, len(entries)),
		step:   DefaultFadeStep,
		log:    logger,
	}
	for _, e := range entries {
		if _, dup := p.values[e.Name]; !dup {
			p.names = append(p.names, e.Name)
		}
		p.values[e.Name] = e.Values
	}
	return p
}

// Names returns the preset names in table order.
func (p *Presets) Names() []string {
	return append([]string(nil), p.names...)
}

type fadeTarget struct {
	name     string
	from, to float64
}

// Recall applies the named preset. Menus and switches change at once;
// numbers move linearly to their stored value over fade. A new recall
// stops a fade in progress.
func (p *Presets) Recall(name string, fade time.Duration) error {
	values, ok := p.values[name]
	if !ok {
		return errors.Wrapf(ErrNotFound, "preset %q", name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopFade()

	var targets []fadeTarget
	for param, v := range values {
		d, ok := p.store.Describe(param)
		if !ok {
			p.log.WithField("preset", name).Warnf("preset parameter %s is gone", param)
			continue
		}

		var err error
		switch d.Kind {
		case KindNumber:
			if fade <= 0 {
				err = p.store.SetNorm(param, v)
				break
			}
			var from float64
			from, err = p.store.Norm(param)
			targets = append(targets, fadeTarget{name: param, from: from, to: v})
		case KindMenu:
			err = p.store.SetMenuIndex(param, int(v))
		case KindPulse:
			if v != 0 {
				err = p.store.Pulse(param)
			}
		default:
			err = p.store.SetBool(param, v != 0)
		}
		if err != nil {
			p.log.WithField("preset", name).WithError(err).Warn("preset value not applied")
		}
	}

	if len(targets) > 0 {
		p.stop = make(chan struct{})
		p.wg.Add(1)
		go p.fade(targets, fade, p.stop)
	}
	return nil
}

func (p *Presets) fade(targets []fadeTarget, d time.Duration, stop <-chan struct{}) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.step)
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			t := float64(now.Sub(start)) / float64(d)
			if t > 1 {
				t = 1
			}
			for _, target := range targets {
				v := target.from + (target.to-target.from)*t
				if err := p.store.SetNorm(target.name, v); err != nil {
					p.log.WithError(err).Debug("fade step")
				}
			}
			if t == 1 {
				return
			}
		}
	}
}

// stopFade ends a running fade and waits for it. Callers hold mu.
func (p *Presets) stopFade() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
	p.wg.Wait()
}

// Close stops a running fade.
func (p *Presets) Close() {
	p.mu.Lock()
	p.stopFade()
	p.mu.Unlock()
}
