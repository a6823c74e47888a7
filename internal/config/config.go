package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultModel    = "gimbal"
	DefaultSensor   = "zoomcam"
	DefaultHfov     = 2.0
	DefaultFocal    = 1.0
	DefaultMaxZoom  = 10.0
	DefaultDt       = 0.02
	DefaultDuration = 10.0
)

type Config struct {
	Camera     CameraConfig    `yaml:"camera"`
	Zoom       ZoomConfig      `yaml:"zoom"`
	Run        RunConfig       `yaml:"run"`
	Renderer   RendererConfig  `yaml:"renderer"`
	Commands   []CommandConfig `yaml:"commands"`
	Script     string          `yaml:"script"`
	ScriptText string          `yaml:"script_text"`
	ScriptRate float64         `yaml:"script_rate"`
}

type CameraConfig struct {
	Model         string  `yaml:"model"`
	Sensor        string  `yaml:"sensor"`
	HorizontalFov float64 `yaml:"horizontal_fov"`
	FocalLength   float64 `yaml:"focal_length"`
}

type ZoomConfig struct {
	MaxZoom       float64 `yaml:"max_zoom"`
	SlewRate      float64 `yaml:"slew_rate"`
	ReferenceHfov float64 `yaml:"reference_hfov"`
	Topic         string  `yaml:"topic"`
}

type RunConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
}

type RendererConfig struct {
	ReadyAt float64 `yaml:"ready_at"`
}

// CommandConfig is one timed action in a scenario: publish a zoom factor
// at a simulated time, or tear rendering down at that time.
type CommandConfig struct {
	At       float64 `yaml:"at"`
	Zoom     float64 `yaml:"zoom"`
	Teardown bool    `yaml:"teardown"`
}

func DefaultConfig() *Config {
	return &Config{
		Camera: CameraConfig{
			Model:         DefaultModel,
			Sensor:        DefaultSensor,
			HorizontalFov: DefaultHfov,
			FocalLength:   DefaultFocal,
		},
		Zoom: ZoomConfig{
			MaxZoom:  DefaultMaxZoom,
			SlewRate: math.Inf(1),
		},
		Run: RunConfig{
			Dt:       DefaultDt,
			Duration: DefaultDuration,
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

// ReferenceHfov returns the field of view that corresponds to zoom
// factor 1.0: the explicit reference when set, otherwise the camera's
// configured field of view.
func (c *Config) ReferenceHfov() float64 {
	if c.Zoom.ReferenceHfov > 0 {
		return c.Zoom.ReferenceHfov
	}
	return c.Camera.HorizontalFov
}

// Validate rejects configurations the controller cannot run with. It is
// called once after loading; the controller itself trusts its inputs.
func (c *Config) Validate() error {
	if c.Camera.Model == "" {
		return fmt.Errorf("config: camera.model must not be empty")
	}
	if c.Camera.Sensor == "" {
		return fmt.Errorf("config: camera.sensor must not be empty")
	}
	if c.Camera.HorizontalFov <= 0 || c.Camera.HorizontalFov >= math.Pi {
		return fmt.Errorf("config: camera.horizontal_fov must be in (0, pi), got %v", c.Camera.HorizontalFov)
	}
	if c.Camera.FocalLength <= 0 || !finite(c.Camera.FocalLength) {
		return fmt.Errorf("config: camera.focal_length must be positive and finite, got %v", c.Camera.FocalLength)
	}
	if c.Zoom.MaxZoom < 1 {
		return fmt.Errorf("config: zoom.max_zoom must be at least 1, got %v", c.Zoom.MaxZoom)
	}
	if c.Zoom.SlewRate < 0 || math.IsNaN(c.Zoom.SlewRate) {
		return fmt.Errorf("config: zoom.slew_rate must not be negative, got %v", c.Zoom.SlewRate)
	}
	if ref := c.Zoom.ReferenceHfov; ref < 0 || ref >= math.Pi {
		return fmt.Errorf("config: zoom.reference_hfov must be 0 or in (0, pi), got %v", ref)
	}
	if c.Run.Dt <= 0 || !finite(c.Run.Dt) {
		return fmt.Errorf("config: run.dt must be positive and finite, got %v", c.Run.Dt)
	}
	if c.Run.Duration < 0 || !finite(c.Run.Duration) {
		return fmt.Errorf("config: run.duration must not be negative, got %v", c.Run.Duration)
	}
	if c.Renderer.ReadyAt < 0 {
		return fmt.Errorf("config: renderer.ready_at must not be negative, got %v", c.Renderer.ReadyAt)
	}
	if c.ScriptRate < 0 || math.IsNaN(c.ScriptRate) {
		return fmt.Errorf("config: script_rate must not be negative, got %v", c.ScriptRate)
	}
	for i, cmd := range c.Commands {
		if cmd.At < 0 || !finite(cmd.At) {
			return fmt.Errorf("config: commands[%d].at must not be negative, got %v", i, cmd.At)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
