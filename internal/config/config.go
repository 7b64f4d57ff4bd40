package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/solarsim/internal/bodies"
	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/scene"
)

const (
	DefaultWidth         = 1280
	DefaultHeight        = 720
	DefaultFPS           = 60
	DefaultTitle         = "solarsim"
	DefaultMaxFrameDelta = 0.25
	DefaultTheme         = "dark"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

var (
	ErrInvalidWindow = errors.New("config: window size and fps must be positive")
	ErrInvalidCamera = errors.New("config: invalid camera limits")
	ErrInvalidSpeed  = errors.New("config: invalid speed")
	ErrInvalidTheme  = errors.New("config: theme must be light or dark")
)

type Config struct {
	Window  WindowConfig       `yaml:"window"`
	Engine  EngineConfig       `yaml:"engine"`
	Camera  CameraConfig       `yaml:"camera"`
	Speeds  map[string]float64 `yaml:"speeds,omitempty"`
	Theme   string             `yaml:"theme"`
	Log     LogConfig          `yaml:"log"`
	Metrics MetricsConfig      `yaml:"metrics"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Title  string `yaml:"title"`
}

type EngineConfig struct {
	StarCount     int     `yaml:"star_count"`
	Seed          int64   `yaml:"seed"`
	MaxFrameDelta float64 `yaml:"max_frame_delta"`
	ShowLabels    bool    `yaml:"show_labels"`
}

type CameraConfig struct {
	MinRadius   float64 `yaml:"min_radius"`
	MaxRadius   float64 `yaml:"max_radius"`
	Epsilon     float64 `yaml:"epsilon"`
	RotateSpeed float64 `yaml:"rotate_speed"`
	ZoomSpeed   float64 `yaml:"zoom_speed"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

func DefaultConfig() *Config {
	limits := camera.DefaultLimits()
	return &Config{
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
			Title:  DefaultTitle,
		},
		Engine: EngineConfig{
			StarCount:     scene.DefaultStarCount,
			Seed:          1,
			MaxFrameDelta: DefaultMaxFrameDelta,
			ShowLabels:    true,
		},
		Camera: CameraConfig{
			MinRadius:   limits.MinRadius,
			MaxRadius:   limits.MaxRadius,
			Epsilon:     limits.Epsilon,
			RotateSpeed: limits.RotateSpeed,
			ZoomSpeed:   limits.ZoomSpeed,
		},
		Theme: DefaultTheme,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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

// Validate rejects values the engine would refuse at runtime.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 || c.Window.FPS <= 0 {
		return ErrInvalidWindow
	}
	if c.Engine.StarCount < 0 {
		return fmt.Errorf("config: star_count must be non-negative, got %d", c.Engine.StarCount)
	}
	if c.Engine.MaxFrameDelta < 0 {
		return fmt.Errorf("config: max_frame_delta must be non-negative, got %v", c.Engine.MaxFrameDelta)
	}
	cam := c.Camera
	if cam.MinRadius <= 0 || cam.MaxRadius < cam.MinRadius {
		return fmt.Errorf("%w: radius [%v, %v]", ErrInvalidCamera, cam.MinRadius, cam.MaxRadius)
	}
	if cam.Epsilon <= 0 || cam.Epsilon >= 1.5 {
		return fmt.Errorf("%w: epsilon %v", ErrInvalidCamera, cam.Epsilon)
	}
	for name, m := range c.Speeds {
		if _, ok := bodies.Lookup(name); !ok {
			return fmt.Errorf("%w: unknown body %q", ErrInvalidSpeed, name)
		}
		if m < 0 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidSpeed, name, m)
		}
	}
	if c.Theme != "light" && c.Theme != "dark" {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, c.Theme)
	}
	return nil
}

func (c *Config) CameraLimits() camera.Limits {
	return camera.Limits{
		MinRadius:   c.Camera.MinRadius,
		MaxRadius:   c.Camera.MaxRadius,
		Epsilon:     c.Camera.Epsilon,
		RotateSpeed: c.Camera.RotateSpeed,
		ZoomSpeed:   c.Camera.ZoomSpeed,
	}
}

func (c *Config) SceneOptions() scene.Options {
	return scene.Options{
		StarCount:  c.Engine.StarCount,
		StarSpread: scene.DefaultStarSpread,
		Seed:       c.Engine.Seed,
	}
}

// ApplyPreset overlays a preset's speeds onto c. Explicit entries already in
// c.Speeds win.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("config: unknown preset %q", name)
	}
	merged := make(map[string]float64, len(p.Speeds)+len(c.Speeds))
	for k, v := range p.Speeds {
		merged[k] = v
	}
	for k, v := range c.Speeds {
		merged[k] = v
	}
	c.Speeds = merged
	return nil
}
