package zoom

import (
	"fmt"
	"math"

	"github.com/dirksavage88/camzoom/internal/diag"
	"github.com/dirksavage88/camzoom/internal/optics"
	"github.com/dirksavage88/camzoom/internal/rendering"
	"github.com/dirksavage88/camzoom/internal/sim"
	"github.com/dirksavage88/camzoom/internal/transport"
)

// MinZoom is the lower bound of the zoom factor range; 1.0 is no zoom.
const MinZoom = 1.0

// epsilon is the double-precision machine epsilon, used for the at-goal
// comparison and the clamp report threshold.
var epsilon = math.Nextafter(1, 2) - 1

// Phase is the tick driver's lifecycle state.
type Phase int

const (
	// PhaseUninitialized means no rendering handle is held; each tick
	// attempts acquisition.
	PhaseUninitialized Phase = iota

	// PhaseActive means the handle is held and the full per-tick
	// sequence runs.
	PhaseActive

	// PhaseTornDown means handles were released by a teardown event; the
	// next tick returns to PhaseUninitialized.
	PhaseTornDown
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseActive:
		return "active"
	case PhaseTornDown:
		return "torn down"
	}
	return "unknown"
}

// Config is the controller's immutable setup.
type Config struct {
	// MaxZoom bounds the commanded zoom factor from above. Must be at
	// least MinZoom.
	MaxZoom float64

	// SlewRate bounds focal length change in meters per second. +Inf
	// makes zoom changes instant; 0 freezes the lens.
	SlewRate float64

	// RefHfov is the horizontal field of view at zoom factor 1.0, in
	// radians, strictly inside (0, pi).
	RefHfov float64

	// Topic overrides the derived command topic when non-empty.
	Topic string
}

// System is the zoom controller. It subscribes to a command topic during
// Configure, polls the latch once per PreUpdate, and converges the
// camera's FOV toward the goal under the slew limit.
type System struct {
	node     *transport.Node
	registry *rendering.Registry
	cfg      Config
	limiter  Limiter
	latch    Latch

	sensor      sim.Entity
	parentModel sim.Entity
	world       sim.Entity
	cameraName  string
	topic       string

	scene  *rendering.Scene
	camera rendering.Camera

	phase         Phase
	valid         bool
	goalHfov      float64
	warnedScene   bool
	warnedMissing bool
	warnedMath    bool
}

func NewSystem(node *transport.Node, registry *rendering.Registry, cfg Config) *System {
	return &System{
		node:     node,
		registry: registry,
		cfg:      cfg,
		limiter:  Limiter{Rate: cfg.SlewRate},
		goalHfov: cfg.RefHfov,
	}
}

// Phase returns the lifecycle state. Tick-context owned; call from the
// stepping goroutine.
func (s *System) Phase() Phase { return s.phase }

// GoalHfov returns the FOV the controller is converging toward.
func (s *System) GoalHfov() float64 { return s.goalHfov }

// Topic returns the resolved command topic after Configure.
func (s *System) Topic() string { return s.topic }

// CameraName returns the scoped sensor name once PostUpdate captured it.
func (s *System) CameraName() string { return s.cameraName }

// Valid reports whether configuration succeeded.
func (s *System) Valid() bool { return s.valid }

// OnZoom receives a zoom factor from the command topic. It runs on the
// publisher's goroutine and only touches the latch.
func (s *System) OnZoom(value float64) {
	s.latch.Submit(value)
}

// Configure validates the world graph around entity, resolves the command
// topic, subscribes, and connects the render teardown handler. On error
// the controller stays inert.
func (s *System) Configure(entity sim.Entity, w *sim.World, events *sim.Events) error {
	s.sensor = entity
	if !w.IsSensor(entity) {
		return fmt.Errorf("%w, got entity %v", ErrNotSensor, entity)
	}

	name, ok := w.Name(entity)
	if !ok || name == "" {
		return fmt.Errorf("%w: entity %v", ErrNoName, entity)
	}
	diag.Debugf("camera zoom attached to sensor [%s]", name)

	s.parentModel = w.ParentModel(entity)
	if s.parentModel == sim.Null {
		return fmt.Errorf("%w: sensor [%s]", ErrNoModel, name)
	}

	s.world = w.WorldEntity()
	if s.world == sim.Null {
		return fmt.Errorf("%w: sensor [%s]", ErrNoWorld, name)
	}

	var topics []string
	if s.cfg.Topic != "" {
		topics = append(topics, s.cfg.Topic)
	}
	modelName, _ := w.Name(s.parentModel)
	topics = append(topics, modelName+"/"+name+"/zoom-command")

	topic, err := transport.ValidTopic(topics)
	if err != nil {
		return fmt.Errorf("zoom: resolve command topic: %w", err)
	}
	s.topic = topic

	if err := s.node.Subscribe(s.topic, s.OnZoom); err != nil {
		return fmt.Errorf("zoom: %w", err)
	}
	diag.Debugf("camera zoom subscribing to messages on [%s]", s.topic)

	events.Connect(sim.EventRenderTeardown, s.onRenderTeardown)

	s.valid = true
	return nil
}

// PreUpdate runs the per-tick sequence. It always returns normally;
// failures degrade to diagnostics or retries.
func (s *System) PreUpdate(info sim.UpdateInfo, w *sim.World) {
	if !s.valid {
		return
	}

	switch s.phase {
	case PhaseTornDown:
		s.phase = PhaseUninitialized
		return
	case PhaseUninitialized:
		s.acquireCamera()
		return
	}

	comp := w.CameraOf(s.sensor)
	if comp == nil {
		return
	}

	if value, ok := s.latch.Take(); ok {
		s.resolveGoal(value)
	}

	oldHfov := comp.HorizontalFov

	// Goal is achieved, nothing to update.
	if math.Abs(s.goalHfov-oldHfov) < epsilon {
		return
	}

	curFocalLength := comp.FocalLength

	// Held constant within the tick so the conversions agree.
	sensorWidth := optics.SensorWidth(curFocalLength, oldHfov)
	goalFocalLength := optics.FocalLengthFromFov(sensorWidth, s.goalHfov)

	newFocalLength := s.limiter.Advance(curFocalLength, goalFocalLength, info.Dt.Seconds())
	newHfov := optics.FovFromFocalLength(sensorWidth, newFocalLength)

	if !isFinite(newHfov) || newHfov <= 0 || newHfov >= math.Pi {
		if !s.warnedMath {
			diag.Warnf("skipping zoom update, degenerate fov %v for goal %v", newHfov, s.goalHfov)
			s.warnedMath = true
		}
		return
	}

	comp.HorizontalFov = newHfov
	w.MarkChanged(s.sensor, sim.OneTimeChange)

	s.camera.SetHorizontalFov(newHfov)
}

// PostUpdate captures the camera's scoped name once the world graph is
// populated. The name only needs resolving once.
func (s *System) PostUpdate(info sim.UpdateInfo, w *sim.World) {
	if s.cameraName != "" {
		return
	}

	s.cameraName = sim.RemoveParentScope(w.ScopedName(s.sensor, "::"), "::")
	if s.cameraName != "" {
		diag.Debugf("camera name: [%s]", s.cameraName)
	}
}

// resolveGoal recomputes the goal FOV from a taken command. It runs only
// when the latch was dirty, so the goal is a pure function of the latest
// command, never of the moving current FOV.
func (s *System) resolveGoal(requested float64) {
	if !isFinite(requested) {
		diag.Warnf("ignoring non-finite zoom command %v", requested)
		return
	}

	clamped := math.Min(math.Max(requested, MinZoom), s.cfg.MaxZoom)
	if math.Abs(requested-clamped) > epsilon {
		diag.Warnf("requested zoom command of %v has been clamped to %v", requested, clamped)
	}
	s.goalHfov = s.cfg.RefHfov / clamped
}

// acquireCamera resolves the rendering handles once the engine, scene,
// and named sensor all exist. Failures leave the phase unchanged so the
// next tick retries.
func (s *System) acquireCamera() {
	// The scoped name arrives in PostUpdate of the first tick.
	if s.cameraName == "" {
		return
	}

	// Wait for a render engine to be available.
	if s.registry.EngineCount() == 0 {
		return
	}

	if s.scene == nil {
		s.scene = s.registry.SceneFromFirstEngine()
	}
	if s.scene == nil || !s.scene.IsInitialized() || s.scene.SensorCount() == 0 {
		if !s.warnedScene {
			diag.Warnf("no scene or camera sensors available")
			s.warnedScene = true
		}
		return
	}

	sensor := s.scene.SensorByName(s.cameraName)
	if sensor == nil {
		if !s.warnedMissing {
			diag.Errorf("unable to find sensor [%s]", s.cameraName)
			s.warnedMissing = true
		}
		return
	}

	camera, ok := rendering.AsCamera(sensor)
	if !ok {
		diag.Errorf("[%s] is not a camera", s.cameraName)
		s.valid = false
		return
	}

	s.camera = camera
	s.phase = PhaseActive
	s.warnedScene = false
	s.warnedMissing = false
}

func (s *System) onRenderTeardown() {
	diag.Debugf("camera zoom disabled, rendering handles released")
	s.camera = nil
	s.scene = nil
	s.phase = PhaseTornDown
	s.warnedScene = false
	s.warnedMissing = false
}
