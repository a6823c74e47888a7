package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Camera.Model != "gimbal" {
		t.Errorf("expected model gimbal, got %s", cfg.Camera.Model)
	}
	if cfg.Camera.Sensor != "zoomcam" {
		t.Errorf("expected sensor zoomcam, got %s", cfg.Camera.Sensor)
	}
	if !math.IsInf(cfg.Zoom.SlewRate, 1) {
		t.Errorf("expected unbounded slew rate, got %v", cfg.Zoom.SlewRate)
	}
	if cfg.Run.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestReferenceHfovFallsBackToCamera(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ReferenceHfov() != cfg.Camera.HorizontalFov {
		t.Errorf("expected fallback to camera fov, got %v", cfg.ReferenceHfov())
	}

	cfg.Zoom.ReferenceHfov = 1.5
	if cfg.ReferenceHfov() != 1.5 {
		t.Errorf("expected explicit reference, got %v", cfg.ReferenceHfov())
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model", func(c *Config) { c.Camera.Model = "" }},
		{"empty sensor", func(c *Config) { c.Camera.Sensor = "" }},
		{"zero fov", func(c *Config) { c.Camera.HorizontalFov = 0 }},
		{"fov at pi", func(c *Config) { c.Camera.HorizontalFov = math.Pi }},
		{"negative focal", func(c *Config) { c.Camera.FocalLength = -1 }},
		{"max zoom below one", func(c *Config) { c.Zoom.MaxZoom = 0.5 }},
		{"negative slew", func(c *Config) { c.Zoom.SlewRate = -0.1 }},
		{"nan slew", func(c *Config) { c.Zoom.SlewRate = math.NaN() }},
		{"reference out of range", func(c *Config) { c.Zoom.ReferenceHfov = 4.0 }},
		{"zero dt", func(c *Config) { c.Run.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Run.Duration = -1 }},
		{"negative ready_at", func(c *Config) { c.Renderer.ReadyAt = -1 }},
		{"negative command time", func(c *Config) { c.Commands = []CommandConfig{{At: -1, Zoom: 2}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zoom.yaml")
	data := []byte("zoom:\n  max_zoom: 4\n  slew_rate: 0.25\nrun:\n  duration: 3\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Zoom.MaxZoom != 4 {
		t.Errorf("expected max_zoom 4, got %v", cfg.Zoom.MaxZoom)
	}
	if cfg.Zoom.SlewRate != 0.25 {
		t.Errorf("expected slew_rate 0.25, got %v", cfg.Zoom.SlewRate)
	}
	if cfg.Run.Duration != 3 {
		t.Errorf("expected duration 3, got %v", cfg.Run.Duration)
	}

	// Untouched keys keep their defaults.
	if cfg.Camera.Model != DefaultModel {
		t.Errorf("expected default model, got %s", cfg.Camera.Model)
	}
	if cfg.Run.Dt != DefaultDt {
		t.Errorf("expected default dt, got %v", cfg.Run.Dt)
	}
}

func TestLoadParsesInfiniteSlew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zoom.yaml")
	data := []byte("zoom:\n  slew_rate: .inf\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !math.IsInf(cfg.Zoom.SlewRate, 1) {
		t.Errorf("expected .inf to parse as +Inf, got %v", cfg.Zoom.SlewRate)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zoom.yaml")

	cfg := DefaultConfig()
	cfg.Zoom.MaxZoom = 6
	cfg.Commands = []CommandConfig{{At: 1.5, Zoom: 3}, {At: 4.0, Teardown: true}}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Zoom.MaxZoom != 6 {
		t.Errorf("expected max_zoom 6, got %v", loaded.Zoom.MaxZoom)
	}
	if len(loaded.Commands) != 2 || !loaded.Commands[1].Teardown {
		t.Errorf("expected commands to survive the round trip, got %+v", loaded.Commands)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("smooth")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Zoom.SlewRate != 0.1 {
		t.Errorf("expected slew 0.1, got %v", cfg.Zoom.SlewRate)
	}
	if cfg.Camera.Model != DefaultModel {
		t.Errorf("expected camera defaults filled in, got %s", cfg.Camera.Model)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate, got %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}

	seen := make(map[string]bool)
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"instant", "smooth", "clamped", "teardown"} {
		if !seen[want] {
			t.Errorf("expected preset %q in listing", want)
		}
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %q vanished", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q should validate, got %v", name, err)
		}
	}
}
