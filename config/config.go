// Package config loads the basictouch process configuration from YAML.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/from-vacuum/basic-touch/layout"
	"github.com/from-vacuum/basic-touch/touch"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the complete process configuration.
type Config struct {
	Surface    SurfaceConfig   `yaml:"surface" json:"surface"`
	Limits     map[string]int  `yaml:"limits" json:"limits"`
	Transport  TransportConfig `yaml:"transport" json:"transport"`
	Timing     TimingConfig    `yaml:"timing" json:"timing"`
	Presets    PresetsConfig   `yaml:"presets" json:"presets"`
	Admin      AdminConfig     `yaml:"admin" json:"admin"`
	Parameters string          `yaml:"parameters" json:"parameters"`
}

// SurfaceConfig describes the remote template.
type SurfaceConfig struct {
	DocWidth         float64    `yaml:"doc_width" json:"doc_width"`
	DocHeight        float64    `yaml:"doc_height" json:"doc_height"`
	Padding          float64    `yaml:"padding" json:"padding"`
	TabBarHeight     float64    `yaml:"tab_bar_height" json:"tab_bar_height"`
	MinControlHeight float64    `yaml:"min_control_height" json:"min_control_height"`
	ScaleHeight      bool       `yaml:"scale_height" json:"scale_height"`
	FontSize         int        `yaml:"font_size" json:"font_size"`
	Color            [3]float64 `yaml:"color" json:"color"`
}

// TransportConfig selects the send path and the addresses in use.
type TransportConfig struct {
	// Mode is udp or tcp.
	Mode string `yaml:"mode" json:"mode"`
	// Send is the surface's host:port.
	Send string `yaml:"send" json:"send"`
	// Listen is the local UDP address for inbound datagrams. Empty
	// disables the datagram server.
	Listen string `yaml:"listen" json:"listen"`
}

// TimingConfig holds echo suppression and publication pacing.
type TimingConfig struct {
	// EchoFrames is at least 1.
	EchoFrames      int           `yaml:"echo_frames" json:"echo_frames"`
	FrameRate       float64       `yaml:"frame_rate" json:"frame_rate"`
	PublishInterval time.Duration `yaml:"publish_interval" json:"publish_interval"`
}

// EchoDelay is how long inbound updates suppress outbound echoes.
func (t TimingConfig) EchoDelay() time.Duration {
	return time.Duration(float64(t.EchoFrames) / t.FrameRate * float64(time.Second))
}

// PresetsConfig holds the preset and randomize page settings.
type PresetsConfig struct {
	Max          int     `yaml:"max" json:"max"`
	FadeTime     float64 `yaml:"fade_time" json:"fade_time"`
	RandomAmount float64 `yaml:"random_amount" json:"random_amount"`
}

// AdminConfig configures the HTTP admin API. An empty Listen disables it.
type AdminConfig struct {
	Listen string `yaml:"listen" json:"listen"`
}

// Default returns the stock configuration.
func Default() *Config {
	opts := touch.DefaultOptions()
	g := opts.Geometry

	limits := make(map[string]int, len(opts.Limits))
	for ct, n := range opts.Limits {
		limits[string(ct)] = n
	}

	return &Config{
		Surface: SurfaceConfig{
			DocWidth:         g.DocWidth,
			DocHeight:        g.DocHeight,
			Padding:          g.Padding,
			TabBarHeight:     g.TabBarHeight,
			MinControlHeight: g.MinControlHeight,
			ScaleHeight:      g.ScaleHeight,
			FontSize:         opts.FontSize,
			Color:            opts.Color,
		},
		Limits: limits,
		Transport: TransportConfig{
			Mode:   string(touch.ModeUDP),
			Send:   "127.0.0.1:9000",
			Listen: ":8000",
		},
		Timing: TimingConfig{
			EchoFrames:      4,
			FrameRate:       60,
			PublishInterval: opts.PublishInterval,
		},
		Presets: PresetsConfig{
			Max:          opts.MaxPresets,
			FadeTime:     opts.FadeTime,
			RandomAmount: opts.RandomAmount,
		},
		Admin: AdminConfig{
			Listen: "127.0.0.1:8080",
		},
		Parameters: "parameters.yaml",
	}
}

// Load reads the file at path over the defaults and validates the result.
// A relative parameters path is resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	if cfg.Parameters != "" && !filepath.IsAbs(cfg.Parameters) {
		cfg.Parameters = filepath.Join(filepath.Dir(path), cfg.Parameters)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Limits
// given in data replace the default for their control type only.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	defaults := cfg.Limits
	cfg.Limits = nil

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	for ct, n := range cfg.Limits {
		defaults[ct] = n
	}
	cfg.Limits = defaults

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the surface cannot use.
func (c *Config) Validate() error {
	s := c.Surface
	switch {
	case s.DocWidth <= 0 || s.DocHeight <= 0:
		return errors.Wrap(ErrInvalid, "surface document size must be positive")
	case s.Padding < 0:
		return errors.Wrap(ErrInvalid, "surface padding must not be negative")
	case s.TabBarHeight < 0:
		return errors.Wrap(ErrInvalid, "surface tab bar height must not be negative")
	case s.MinControlHeight <= 0:
		return errors.Wrap(ErrInvalid, "surface min control height must be positive")
	case s.FontSize <= 0:
		return errors.Wrap(ErrInvalid, "surface font size must be positive")
	}
	for i, v := range s.Color {
		if v < 0 || v > 1 {
			return errors.Wrapf(ErrInvalid, "surface color component %d out of [0,1]", i)
		}
	}

	known := layout.DefaultLimits()
	for ct, n := range c.Limits {
		if _, ok := known[layout.ControlType(ct)]; !ok {
			return errors.Wrapf(ErrInvalid, "unknown control type %q in limits", ct)
		}
		if n < 0 {
			return errors.Wrapf(ErrInvalid, "limit for %s must not be negative", ct)
		}
	}

	if _, err := touch.ParseMode(c.Transport.Mode); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if c.Transport.Send == "" {
		return errors.Wrap(ErrInvalid, "transport send address is required")
	}

	t := c.Timing
	switch {
	case t.EchoFrames < 1:
		return errors.Wrap(ErrInvalid, "echo frames must be at least 1")
	case t.FrameRate <= 0:
		return errors.Wrap(ErrInvalid, "frame rate must be positive")
	case t.PublishInterval < 0:
		return errors.Wrap(ErrInvalid, "publish interval must not be negative")
	}

	p := c.Presets
	switch {
	case p.Max < 1:
		return errors.Wrap(ErrInvalid, "presets max must be at least 1")
	case p.FadeTime < 0:
		return errors.Wrap(ErrInvalid, "preset fade time must not be negative")
	case p.RandomAmount < 0 || p.RandomAmount > 1:
		return errors.Wrap(ErrInvalid, "random amount out of [0,1]")
	}

	if c.Parameters == "" {
		return errors.Wrap(ErrInvalid, "parameters file is required")
	}
	return nil
}

// Options converts the configuration to surface options. The caller adds
// the preset bank.
func (c *Config) Options(logger logrus.FieldLogger, metrics *touch.Metrics) touch.Options {
	limits := make(layout.Limits, len(c.Limits))
	for ct, n := range c.Limits {
		limits[layout.ControlType(ct)] = n
	}

	return touch.Options{
		Geometry: layout.Geometry{
			DocWidth:         c.Surface.DocWidth,
			DocHeight:        c.Surface.DocHeight,
			Padding:          c.Surface.Padding,
			TabBarHeight:     c.Surface.TabBarHeight,
			MinControlHeight: c.Surface.MinControlHeight,
			ScaleHeight:      c.Surface.ScaleHeight,
		},
		Limits:          limits,
		FontSize:        c.Surface.FontSize,
		Color:           c.Surface.Color,
		EchoDelay:       c.Timing.EchoDelay(),
		PublishInterval: c.Timing.PublishInterval,
		FadeTime:        c.Presets.FadeTime,
		MaxPresets:      c.Presets.Max,
		RandomAmount:    c.Presets.RandomAmount,
		Logger:          logger,
		Metrics:         metrics,
	}
}
