// Package touch drives a remote touch surface over OSC.
//
// A Surface lays the parameter table out with the layout registry,
// publishes the resulting controls, echoes parameter changes to the
// surface, and applies inbound control messages back to the parameter
// store. Preset recall and randomize pages are published alongside the
// controls.
package touch

import (
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/from-vacuum/basic-touch/layout"
	"github.com/from-vacuum/basic-touch/osc"
	"github.com/from-vacuum/basic-touch/param"
)

// Special inbound addresses.
const (
	FadeTimeAddress     = "/fadeTimeFader1"
	RandomAmountAddress = "/Randomize/RandomAmount1"
)

// PresetBank recalls named presets.
type PresetBank interface {
	Names() []string
	Recall(name string, fade time.Duration) error
}

// Options configures a Surface. Zero values fall back to the defaults of
// DefaultOptions.
type Options struct {
	Geometry layout.Geometry
	Limits   layout.Limits
	FontSize int
	// Color is the RGB tint of every published control.
	Color [3]float64

	// EchoDelay is how long inbound updates suppress outbound echoes.
	EchoDelay time.Duration
	// PublishInterval paces control publication in Start.
	PublishInterval time.Duration

	// FadeTime is the initial preset fade in seconds.
	FadeTime   float64
	MaxPresets int
	// RandomAmount is the initial degree of the typed randomize buttons.
	RandomAmount float64

	Presets PresetBank
	Rand    *rand.Rand
	Logger  logrus.FieldLogger
	Metrics *Metrics
}

// DefaultOptions matches the stock surface template.
func DefaultOptions() Options {
	return Options{
		Geometry: layout.Geometry{
			DocWidth:         1024,
			DocHeight:        1366,
			Padding:          10,
			TabBarHeight:     50,
			MinControlHeight: 60,
		},
		Limits:          layout.DefaultLimits(),
		FontSize:        18,
		Color:           [3]float64{0.25, 0.5, 1},
		EchoDelay:       4 * time.Second / 60,
		PublishInterval: 10 * time.Millisecond,
		FadeTime:        1,
		MaxPresets:      10,
		RandomAmount:    0.5,
	}
}

// Surface is the bridge between a parameter store and a remote surface.
// Its methods are safe for concurrent use.
type Surface struct {
	opts    Options
	store   param.Store
	sender  Sender
	log     logrus.FieldLogger
	metrics *Metrics
	limiter *rate.Limiter
	guard   echoGuard

	startMu sync.Mutex

	mu       sync.RWMutex
	registry *layout.Registry

	vmu          sync.Mutex
	fadeTime     float64
	randomAmount float64
	rnd          *rand.Rand
}

// New returns a surface writing to store and sending through sender.
func New(store param.Store, sender Sender, opts Options) *Surface {
	def := DefaultOptions()
	if opts.Geometry == (layout.Geometry{}) {
		opts.Geometry = def.Geometry
	}
	if opts.Limits == nil {
		opts.Limits = def.Limits
	}
	if opts.FontSize == 0 {
		opts.FontSize = def.FontSize
	}
	if opts.EchoDelay == 0 {
		opts.EchoDelay = def.EchoDelay
	}
	if opts.MaxPresets == 0 {
		opts.MaxPresets = def.MaxPresets
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	limit := rate.Inf
	if opts.PublishInterval > 0 {
		limit = rate.Every(opts.PublishInterval)
	}

	return &Surface{
		opts:         opts,
		store:        store,
		sender:       sender,
		log:          opts.Logger,
		metrics:      opts.Metrics,
		limiter:      rate.NewLimiter(limit, 1),
		guard:        echoGuard{delay: opts.EchoDelay},
		registry:     layout.NewRegistry(opts.Limits),
		fadeTime:     opts.FadeTime,
		randomAmount: opts.RandomAmount,
		rnd:          opts.Rand,
	}
}

// Register installs the surface's handlers on d: the fade time and random
// amount faders, and a fallback for every control address.
func (s *Surface) Register(d *osc.Dispatcher) error {
	if err := d.AddMethodFunc(FadeTimeAddress, s.handleFadeTime); err != nil {
		return err
	}
	if err := d.AddMethodFunc(RandomAmountAddress, s.handleRandomAmount); err != nil {
		return err
	}
	d.SetFallback(osc.MethodFunc(s.handleControl))
	return nil
}

// Rows returns the current layout table.
func (s *Surface) Rows() []layout.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Rows()
}

// FadeTime returns the preset fade in seconds.
func (s *Surface) FadeTime() float64 {
	s.vmu.Lock()
	defer s.vmu.Unlock()
	return s.fadeTime
}

// RandomAmount returns the degree used by the typed randomize buttons.
func (s *Surface) RandomAmount() float64 {
	s.vmu.Lock()
	defer s.vmu.Unlock()
	return s.randomAmount
}

// send is fire-and-forget: failures are logged and counted only.
func (s *Surface) send(addr string, args ...interface{}) {
	if err := s.sender.Send(addr, args...); err != nil {
		s.log.WithError(err).WithField("address", addr).Error("send failed")
	}
}

func (s *Surface) lookup(name string) (layout.Row, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Lookup(name)
}

func (s *Surface) find(ct layout.ControlType, index int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Find(ct, index)
}

func (s *Surface) color() []interface{} {
	c := s.opts.Color
	return []interface{}{c[0], c[1], c[2]}
}
