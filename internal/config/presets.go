package config

import (
	"math"
	"sort"
)

// Presets are ready-to-run scenarios. Each inherits the defaults for any
// field it leaves zero, the same way a loaded file would.
var Presets = map[string]*Config{
	"instant": {
		Zoom: ZoomConfig{MaxZoom: 10.0, SlewRate: math.Inf(1)},
		Run:  RunConfig{Dt: 0.02, Duration: 5.0},
		Commands: []CommandConfig{
			{At: 1.0, Zoom: 5.0},
			{At: 3.0, Zoom: 1.0},
		},
	},
	"smooth": {
		Zoom: ZoomConfig{MaxZoom: 10.0, SlewRate: 0.1},
		Run:  RunConfig{Dt: 0.02, Duration: 30.0},
		Commands: []CommandConfig{
			{At: 1.0, Zoom: 5.0},
		},
	},
	"clamped": {
		Zoom: ZoomConfig{MaxZoom: 10.0, SlewRate: math.Inf(1)},
		Run:  RunConfig{Dt: 0.02, Duration: 6.0},
		Commands: []CommandConfig{
			{At: 1.0, Zoom: 25.0},
			{At: 3.0, Zoom: 0.1},
		},
	},
	"creep": {
		Zoom: ZoomConfig{MaxZoom: 10.0, SlewRate: 0.02},
		Run:  RunConfig{Dt: 0.02, Duration: 150.0},
		Commands: []CommandConfig{
			{At: 0.5, Zoom: 10.0},
		},
	},
	"sine": {
		Zoom:       ZoomConfig{MaxZoom: 10.0, SlewRate: 0.5},
		Run:        RunConfig{Dt: 0.02, Duration: 30.0},
		ScriptRate: 2.0,
		ScriptText: "math := import(\"math\")\nzoom := 5.5 + 4.5*math.sin(t/2.0)\n",
	},
	"teardown": {
		Zoom:     ZoomConfig{MaxZoom: 10.0, SlewRate: math.Inf(1)},
		Run:      RunConfig{Dt: 0.02, Duration: 6.0},
		Renderer: RendererConfig{ReadyAt: 0.2},
		Commands: []CommandConfig{
			{At: 1.0, Zoom: 5.0},
			{At: 2.0, Teardown: true},
			{At: 3.0, Zoom: 8.0},
		},
	},
	"idle": {
		Zoom: ZoomConfig{MaxZoom: 10.0, SlewRate: math.Inf(1)},
		Run:  RunConfig{Dt: 0.02, Duration: 2.0},
	},
}

// GetPreset returns a full config for the named preset, or nil when the
// name is unknown. Camera fields and other zero values are filled from
// the defaults.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Zoom = p.Zoom
	cfg.Run = p.Run
	cfg.Renderer = p.Renderer
	cfg.Commands = p.Commands
	cfg.Script = p.Script
	cfg.ScriptText = p.ScriptText
	cfg.ScriptRate = p.ScriptRate
	if p.Camera.Model != "" {
		cfg.Camera = p.Camera
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
