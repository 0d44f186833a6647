package config

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/engine"
	"github.com/san-kum/orbitsim/internal/physics"
)

const (
	DefaultDt          = 3600.0
	DefaultSteps       = 1000
	DefaultTimeScale   = 1.0
	DefaultPreset      = "default"
	DefaultFPS         = 60
	DefaultSampleEvery = 10
	DefaultAddr        = ":8080"
	DefaultRecordEvery = 60
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Model       string           `yaml:"model"`
	Integrator  string           `yaml:"integrator"`
	Dt          float64          `yaml:"dt"`
	Steps       int              `yaml:"steps"`
	TimeScale   float64          `yaml:"time_scale"`
	G           float64          `yaml:"gravitational_constant"`
	Preset      string           `yaml:"preset"`
	SystemFile  string           `yaml:"system_file,omitempty"`
	TrailLength int              `yaml:"trail_length"`
	FPS         int              `yaml:"fps"`
	SampleEvery int              `yaml:"sample_every"`
	Seed        int64            `yaml:"seed"`
	Theta       float64          `yaml:"barnes_hut_theta"`
	Relativity  RelativityConfig `yaml:"relativity"`
	Server      ServerConfig     `yaml:"server"`
}

type RelativityConfig struct {
	TimeDilation  bool `yaml:"time_dilation"`
	FrameDragging bool `yaml:"frame_dragging"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	RecordEvery int    `yaml:"record_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:       string(engine.ModelNewtonian),
		Integrator:  string(engine.IntegratorVerlet),
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		TimeScale:   DefaultTimeScale,
		G:           celestial.G,
		Preset:      DefaultPreset,
		TrailLength: celestial.DefaultTrailLength,
		FPS:         DefaultFPS,
		SampleEvery: DefaultSampleEvery,
		Theta:       physics.DefaultTheta,
		Relativity: RelativityConfig{
			TimeDilation: true,
		},
		Server: ServerConfig{
			Addr:        DefaultAddr,
			RecordEvery: DefaultRecordEvery,
		},
	}
}

// Load reads a YAML file over the defaults; keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case !(c.Dt > 0):
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	case c.Steps < 0:
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalid, c.Steps)
	case !(c.TimeScale >= 0):
		return fmt.Errorf("%w: time_scale must not be negative, got %g", ErrInvalid, c.TimeScale)
	case !(c.G > 0):
		return fmt.Errorf("%w: gravitational_constant must be positive, got %g", ErrInvalid, c.G)
	case c.TrailLength < 1:
		return fmt.Errorf("%w: trail_length must be at least 1, got %d", ErrInvalid, c.TrailLength)
	case c.FPS < 1:
		return fmt.Errorf("%w: fps must be at least 1, got %d", ErrInvalid, c.FPS)
	case !(c.Theta >= 0) || math.IsInf(c.Theta, 0):
		return fmt.Errorf("%w: barnes_hut_theta must be a finite non-negative number, got %g", ErrInvalid, c.Theta)
	case c.SampleEvery < 1:
		return fmt.Errorf("%w: sample_every must be at least 1, got %d", ErrInvalid, c.SampleEvery)
	}
	return nil
}

// Rand returns the generator used for orbit placement. Seed 0 means a
// time-based seed.
func (c *Config) Rand() *rand.Rand {
	if c.Seed == 0 {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(c.Seed))
}

// Apply pushes the configuration into e. It stops at the first rejected
// value, so e may be partially configured on error.
func (c *Config) Apply(e *engine.Engine) error {
	if err := c.Validate(); err != nil {
		return err
	}
	e.SetRand(c.Rand())
	if err := e.SetGravitationalConstant(c.G); err != nil {
		return err
	}
	if err := e.SetForceModel(engine.ModelKey(c.Model)); err != nil {
		return err
	}
	if err := e.SetIntegrator(engine.IntegratorKey(c.Integrator)); err != nil {
		return err
	}
	if err := e.SetTimeScale(c.TimeScale); err != nil {
		return err
	}
	if m, ok := e.Model(engine.ModelRelativistic); ok {
		if rel, ok := m.(*physics.Relativistic); ok {
			rel.EnableTimeDilation = c.Relativity.TimeDilation
			rel.EnableFrameDragging = c.Relativity.FrameDragging
		}
	}
	if m, ok := e.Model(engine.ModelBarnesHut); ok {
		if bh, ok := m.(*physics.BarnesHut); ok {
			bh.Theta = c.Theta
		}
	}
	return nil
}

// System loads SystemFile when set, otherwise builds Preset through e. Every
// body's trail is resized to TrailLength.
func (c *Config) System(e *engine.Engine) (*celestial.System, error) {
	var (
		sys *celestial.System
		err error
	)
	if c.SystemFile != "" {
		sys, err = celestial.LoadFile(c.SystemFile)
	} else {
		sys, err = Build(c.Preset, e)
	}
	if err != nil {
		return nil, err
	}
	for _, b := range sys.Bodies {
		b.Trail().SetCap(c.TrailLength)
	}
	return sys, nil
}
