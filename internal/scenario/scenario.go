// Package scenario assembles a full zoom run from a config: the world
// and camera rig, the rendering side, the controller, a command player,
// and a recorder. A scenario either runs to completion or is stepped
// tick by tick from a live view.
package scenario

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dirksavage88/camzoom/internal/config"
	"github.com/dirksavage88/camzoom/internal/metrics"
	"github.com/dirksavage88/camzoom/internal/rendering"
	"github.com/dirksavage88/camzoom/internal/sim"
	"github.com/dirksavage88/camzoom/internal/transport"
	"github.com/dirksavage88/camzoom/internal/zoom"
)

type Result struct {
	Samples []metrics.Sample
	Values  map[string]float64
}

type Scenario struct {
	cfg      *config.Config
	world    *sim.World
	events   *sim.Events
	runner   *sim.Runner
	node     *transport.Node
	camera   *rendering.BasicCamera
	rig      sim.Rig
	system   *zoom.System
	player   *Player
	recorder *Recorder
}

func New(cfg *config.Config) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := sim.NewWorld()
	rig := sim.NewRig(w, cfg.Camera.Model, "base_link", cfg.Camera.Sensor, sim.Camera{
		HorizontalFov: cfg.Camera.HorizontalFov,
		FocalLength:   cfg.Camera.FocalLength,
	})

	events := sim.NewEvents()
	runner := sim.NewRunner(w, events)
	node := transport.NewNode()

	scoped := sim.RemoveParentScope(w.ScopedName(rig.Sensor, "::"), "::")
	camera := rendering.NewBasicCamera(scoped, cfg.Camera.HorizontalFov)
	scene := rendering.NewScene()
	scene.AddSensor(camera)
	scene.SetInitialized()
	engine := rendering.NewEngine()
	engine.SetScene(scene)
	registry := rendering.NewRegistry()

	system := zoom.NewSystem(node, registry, zoom.Config{
		MaxZoom:  cfg.Zoom.MaxZoom,
		SlewRate: cfg.Zoom.SlewRate,
		RefHfov:  cfg.ReferenceHfov(),
		Topic:    cfg.Zoom.Topic,
	})

	readyAt := time.Duration(cfg.Renderer.ReadyAt * float64(time.Second))
	player := NewPlayer(node, events, registry, engine, readyAt)
	player.SetActions(buildActions(cfg))
	if err := installScript(player, cfg); err != nil {
		return nil, err
	}

	// The player steps first so commands due at time t reach the
	// controller within the same tick.
	if err := runner.AddSystem(player, sim.Null); err != nil {
		return nil, err
	}
	if err := runner.AddSystem(system, rig.Sensor); err != nil {
		return nil, err
	}
	player.topic = system.Topic()

	recorder := NewRecorder(rig.Sensor, system, cfg.ReferenceHfov(), metrics.Standard())
	runner.AddObserver(recorder)

	return &Scenario{
		cfg:      cfg,
		world:    w,
		events:   events,
		runner:   runner,
		node:     node,
		camera:   camera,
		rig:      rig,
		system:   system,
		player:   player,
		recorder: recorder,
	}, nil
}

// Run steps the scenario to its configured duration and returns the
// recorded trajectory with its metrics.
func (s *Scenario) Run(ctx context.Context) (*Result, error) {
	if err := s.runner.Run(ctx, s.Duration(), s.Dt()); err != nil {
		return nil, err
	}
	return &Result{Samples: s.recorder.Samples(), Values: s.recorder.Values()}, nil
}

// Step advances a single tick. Live views drive the scenario this way.
func (s *Scenario) Step() { s.runner.Step(s.Dt()) }

func (s *Scenario) Dt() time.Duration {
	return time.Duration(s.cfg.Run.Dt * float64(time.Second))
}

func (s *Scenario) Duration() time.Duration {
	return time.Duration(s.cfg.Run.Duration * float64(time.Second))
}

func (s *Scenario) SimTime() time.Duration { return s.runner.SimTime() }

func (s *Scenario) Done() bool { return s.runner.SimTime() >= s.Duration() }

func (s *Scenario) Config() *config.Config { return s.cfg }

func (s *Scenario) System() *zoom.System { return s.system }

func (s *Scenario) Camera() *rendering.BasicCamera { return s.camera }

// CameraComponent returns the lens state the controller writes.
func (s *Scenario) CameraComponent() *sim.Camera {
	return s.world.CameraOf(s.rig.Sensor)
}

func (s *Scenario) Recorder() *Recorder { return s.recorder }

// Sensor returns the camera sensor entity.
func (s *Scenario) Sensor() sim.Entity { return s.rig.Sensor }

// Observe registers an extra observer on the underlying runner.
func (s *Scenario) Observe(o sim.Observer) { s.runner.AddObserver(o) }

// Publish sends a zoom command on the controller's resolved topic, the
// same way a timed action would.
func (s *Scenario) Publish(zoomFactor float64) {
	s.node.Publish(s.system.Topic(), zoomFactor)
}

// Teardown emits the render teardown event by hand.
func (s *Scenario) Teardown() {
	s.events.Emit(sim.EventRenderTeardown)
}

// LoadEngine makes the render scene available right away; the live
// view's engine key uses this to cut a deferred ready time short.
func (s *Scenario) LoadEngine() { s.player.LoadNow() }

// Reload swaps in the timed actions and script from cfg without
// touching the controller or camera state. Actions already in the past
// are skipped rather than replayed.
func (s *Scenario) Reload(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.player.SetActions(buildActions(cfg))
	s.player.SkipElapsed(s.runner.SimTime())
	if err := installScript(s.player, cfg); err != nil {
		return err
	}
	s.cfg.Commands = append([]config.CommandConfig(nil), cfg.Commands...)
	s.cfg.Script = cfg.Script
	s.cfg.ScriptText = cfg.ScriptText
	s.cfg.ScriptRate = cfg.ScriptRate
	return nil
}

func buildActions(cfg *config.Config) []Action {
	actions := make([]Action, 0, len(cfg.Commands))
	for _, c := range cfg.Commands {
		actions = append(actions, Action{
			At:       time.Duration(c.At * float64(time.Second)),
			Zoom:     c.Zoom,
			Teardown: c.Teardown,
		})
	}
	return actions
}

func installScript(p *Player, cfg *config.Config) error {
	src := cfg.ScriptText
	if src == "" && cfg.Script != "" {
		data, err := os.ReadFile(cfg.Script)
		if err != nil {
			return fmt.Errorf("scenario: read script: %w", err)
		}
		src = string(data)
	}
	if src == "" {
		p.SetScript(nil, 0)
		return nil
	}
	script, err := CompileScript(src)
	if err != nil {
		return err
	}
	var every time.Duration
	if cfg.ScriptRate > 0 {
		every = time.Duration(float64(time.Second) / cfg.ScriptRate)
	}
	p.SetScript(script, every)
	return nil
}
