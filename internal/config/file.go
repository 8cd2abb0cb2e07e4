package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Render backends.
const (
	BackendWindow   = "window"
	BackendTerminal = "terminal"
)

// Blend modes of the window surface.
const (
	BlendAlpha    = "alpha"
	BlendAdditive = "additive"
)

// Config holds the demo configuration.
type Config struct {
	Animation AnimationConfig `yaml:"animation"`
	Render    RenderConfig    `yaml:"render"`
	Audio     AudioConfig     `yaml:"audio"`
	Log       LogConfig       `yaml:"log"`
}

// AnimationConfig tunes the particle effect.
type AnimationConfig struct {
	Particles     int           `yaml:"particles"`
	FadeRate      float64       `yaml:"fade_rate"`
	TeardownDelay time.Duration `yaml:"teardown_delay"`
	AlphaScale    float64       `yaml:"alpha_scale"`
	Workers       int           `yaml:"workers"` // 0 = one per CPU
}

// RenderConfig selects and sizes the drawing surface.
type RenderConfig struct {
	Backend string `yaml:"backend"` // window, terminal
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Blend   string `yaml:"blend"` // alpha, additive
	FPS     int    `yaml:"fps"`   // terminal refresh rate
}

// AudioConfig configures playback.
type AudioConfig struct {
	File   string        `yaml:"file"`
	Loop   bool          `yaml:"loop"`
	Buffer time.Duration `yaml:"buffer"`
	Volume float64       `yaml:"volume"` // log2 gain, 0 = unchanged
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Animation: AnimationConfig{
			Particles:     15000,
			FadeRate:      0.1,
			TeardownDelay: 500 * time.Millisecond,
			AlphaScale:    0.56,
		},
		Render: RenderConfig{
			Backend: BackendWindow,
			Width:   WindowWidth,
			Height:  WindowHeight,
			Blend:   BlendAlpha,
			FPS:     30,
		},
		Audio: AudioConfig{
			Loop:   true,
			Buffer: 50 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config on top of the defaults. A missing file yields
// the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PARTICLE_DEMO_BACKEND"); v != "" {
		c.Render.Backend = v
	}
	if v := os.Getenv("PARTICLE_DEMO_PARTICLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PARTICLE_DEMO_PARTICLES: %w", err)
		}
		c.Animation.Particles = n
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error

	if c.Animation.Particles <= 0 {
		errs = append(errs, fmt.Errorf("animation.particles must be positive, got %d", c.Animation.Particles))
	}
	if c.Animation.FadeRate <= 0 || c.Animation.FadeRate > 1 {
		errs = append(errs, fmt.Errorf("animation.fade_rate must be in (0,1], got %v", c.Animation.FadeRate))
	}
	if c.Animation.TeardownDelay <= 0 {
		errs = append(errs, fmt.Errorf("animation.teardown_delay must be positive, got %v", c.Animation.TeardownDelay))
	}
	if c.Animation.AlphaScale <= 0 {
		errs = append(errs, fmt.Errorf("animation.alpha_scale must be positive"))
	}
	switch c.Render.Backend {
	case BackendWindow, BackendTerminal:
	default:
		errs = append(errs, fmt.Errorf("render.backend: unknown backend %q", c.Render.Backend))
	}
	switch c.Render.Blend {
	case BlendAlpha, BlendAdditive:
	default:
		errs = append(errs, fmt.Errorf("render.blend: unknown blend %q", c.Render.Blend))
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.FPS <= 0 {
		errs = append(errs, fmt.Errorf("render.fps must be positive"))
	}
	if c.Audio.Buffer <= 0 {
		errs = append(errs, fmt.Errorf("audio.buffer must be positive"))
	}
	if c.Audio.Volume < VolumeMin || c.Audio.Volume > VolumeMax {
		errs = append(errs, fmt.Errorf("audio.volume must be in [%v,%v]", VolumeMin, VolumeMax))
	}

	return errors.Join(errs...)
}
