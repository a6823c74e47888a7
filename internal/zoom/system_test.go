package zoom

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dirksavage88/camzoom/internal/diag"
	"github.com/dirksavage88/camzoom/internal/optics"
	"github.com/dirksavage88/camzoom/internal/rendering"
	"github.com/dirksavage88/camzoom/internal/sim"
	"github.com/dirksavage88/camzoom/internal/transport"
)

const tick = 20 * time.Millisecond

type fixture struct {
	world    *sim.World
	events   *sim.Events
	runner   *sim.Runner
	node     *transport.Node
	registry *rendering.Registry
	scene    *rendering.Scene
	camera   *rendering.BasicCamera
	rig      sim.Rig
	system   *System
	comp     *sim.Camera
}

// newFixture builds a ready-to-activate rig: engine and scene loaded, the
// camera registered under its scoped name.
func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	w := sim.NewWorld()
	rig := sim.NewRig(w, "gimbal", "pitch_link", "zoomcam",
		sim.Camera{HorizontalFov: cfg.RefHfov, FocalLength: 1.0})

	f := &fixture{
		world:    w,
		events:   sim.NewEvents(),
		node:     transport.NewNode(),
		registry: rendering.NewRegistry(),
		rig:      rig,
		comp:     w.CameraOf(rig.Sensor),
	}
	f.runner = sim.NewRunner(w, f.events)

	scoped := sim.RemoveParentScope(w.ScopedName(rig.Sensor, "::"), "::")
	f.camera = rendering.NewBasicCamera(scoped, cfg.RefHfov)
	f.scene = rendering.NewScene()
	f.scene.AddSensor(f.camera)
	f.scene.SetInitialized()

	engine := rendering.NewEngine()
	engine.SetScene(f.scene)
	f.registry.Load(engine)

	f.system = NewSystem(f.node, f.registry, cfg)
	if err := f.runner.AddSystem(f.system, rig.Sensor); err != nil {
		t.Fatalf("configure failed: %v", err)
	}
	return f
}

func (f *fixture) step(dt time.Duration) { f.runner.Step(dt) }

// activate runs the name-capture tick and the acquisition tick.
func (f *fixture) activate(t *testing.T) {
	t.Helper()
	f.step(tick)
	f.step(tick)
	if f.system.Phase() != PhaseActive {
		t.Fatalf("expected active phase after two ticks, got %v", f.system.Phase())
	}
}

func instantCfg() Config {
	return Config{MaxZoom: 10.0, SlewRate: math.Inf(1), RefHfov: 2.0}
}

func TestConfigureDerivedTopic(t *testing.T) {
	f := newFixture(t, instantCfg())
	if f.system.Topic() != "gimbal/zoomcam/zoom-command" {
		t.Errorf("expected derived topic, got %q", f.system.Topic())
	}
}

func TestConfigureExplicitTopic(t *testing.T) {
	cfg := instantCfg()
	cfg.Topic = "payload/zoom"
	f := newFixture(t, cfg)
	if f.system.Topic() != "payload/zoom" {
		t.Errorf("expected explicit topic, got %q", f.system.Topic())
	}
}

func TestConfigureNotASensor(t *testing.T) {
	w := sim.NewWorld()
	rig := sim.NewRig(w, "gimbal", "pitch_link", "zoomcam", sim.Camera{})
	r := sim.NewRunner(w, sim.NewEvents())

	sys := NewSystem(transport.NewNode(), rendering.NewRegistry(), instantCfg())
	err := r.AddSystem(sys, rig.Link)
	if !errors.Is(err, ErrNotSensor) {
		t.Errorf("expected ErrNotSensor, got %v", err)
	}
	if sys.Valid() {
		t.Error("expected invalid system")
	}
}

func TestConfigureUnnamedSensor(t *testing.T) {
	w := sim.NewWorld()
	rig := sim.NewRig(w, "gimbal", "pitch_link", "zoomcam", sim.Camera{})
	w.SetName(rig.Sensor, "")
	r := sim.NewRunner(w, sim.NewEvents())

	sys := NewSystem(transport.NewNode(), rendering.NewRegistry(), instantCfg())
	if err := r.AddSystem(sys, rig.Sensor); !errors.Is(err, ErrNoName) {
		t.Errorf("expected ErrNoName, got %v", err)
	}
}

func TestConfigureNoParentModel(t *testing.T) {
	w := sim.NewWorld()
	world := w.CreateEntity()
	w.TagWorld(world)

	sensor := w.CreateEntity()
	w.TagSensor(sensor)
	w.SetName(sensor, "zoomcam")
	w.SetParent(sensor, world)

	r := sim.NewRunner(w, sim.NewEvents())
	sys := NewSystem(transport.NewNode(), rendering.NewRegistry(), instantCfg())
	if err := r.AddSystem(sys, sensor); !errors.Is(err, ErrNoModel) {
		t.Errorf("expected ErrNoModel, got %v", err)
	}
}

func TestConfigureNoWorld(t *testing.T) {
	w := sim.NewWorld()

	model := w.CreateEntity()
	w.TagModel(model)
	w.SetName(model, "gimbal")

	link := w.CreateEntity()
	w.TagLink(link)
	w.SetParent(link, model)

	sensor := w.CreateEntity()
	w.TagSensor(sensor)
	w.SetName(sensor, "zoomcam")
	w.SetParent(sensor, link)

	r := sim.NewRunner(w, sim.NewEvents())
	sys := NewSystem(transport.NewNode(), rendering.NewRegistry(), instantCfg())
	if err := r.AddSystem(sys, sensor); !errors.Is(err, ErrNoWorld) {
		t.Errorf("expected ErrNoWorld, got %v", err)
	}
}

func TestInertAfterConfigureFailure(t *testing.T) {
	w := sim.NewWorld()
	rig := sim.NewRig(w, "gimbal", "pitch_link", "zoomcam",
		sim.Camera{HorizontalFov: 2.0, FocalLength: 1.0})
	r := sim.NewRunner(w, sim.NewEvents())

	sys := NewSystem(transport.NewNode(), rendering.NewRegistry(), instantCfg())
	if err := r.AddSystem(sys, rig.Link); err == nil {
		t.Fatal("expected configure error")
	}

	for i := 0; i < 5; i++ {
		r.Step(tick)
	}
	if sys.Phase() != PhaseUninitialized {
		t.Errorf("expected inert system to stay uninitialized, got %v", sys.Phase())
	}
	if len(w.TakeChanged()) != 0 {
		t.Error("expected no component changes from inert system")
	}
}

func TestActivationSequence(t *testing.T) {
	f := newFixture(t, instantCfg())

	if f.system.Phase() != PhaseUninitialized {
		t.Fatalf("expected uninitialized before ticks, got %v", f.system.Phase())
	}

	f.step(tick)
	if f.system.Phase() != PhaseUninitialized {
		t.Fatalf("expected uninitialized while name resolves, got %v", f.system.Phase())
	}
	if f.system.CameraName() != "pitch_link::zoomcam" {
		t.Fatalf("expected scoped camera name, got %q", f.system.CameraName())
	}

	f.step(tick)
	if f.system.Phase() != PhaseActive {
		t.Errorf("expected active after acquisition tick, got %v", f.system.Phase())
	}
}

func TestInstantZoomOneTick(t *testing.T) {
	f := newFixture(t, instantCfg())
	f.activate(t)

	f.node.Publish(f.system.Topic(), 2.0)
	f.step(tick)

	if math.Abs(f.system.GoalHfov()-1.0) > 1e-12 {
		t.Errorf("expected goal 1.0, got %v", f.system.GoalHfov())
	}
	if math.Abs(f.comp.HorizontalFov-1.0) > 1e-9 {
		t.Errorf("expected component fov 1.0, got %v", f.comp.HorizontalFov)
	}
	if math.Abs(f.camera.HorizontalFov()-1.0) > 1e-9 {
		t.Errorf("expected rendering fov 1.0, got %v", f.camera.HorizontalFov())
	}
	if f.world.Changed(f.rig.Sensor) != sim.OneTimeChange {
		t.Error("expected one-time change mark on write")
	}
}

func TestFocalLengthNeverWrittenBack(t *testing.T) {
	f := newFixture(t, instantCfg())
	f.activate(t)

	f.node.Publish(f.system.Topic(), 4.0)
	f.step(tick)

	if f.comp.FocalLength != 1.0 {
		t.Errorf("expected stored focal length untouched, got %v", f.comp.FocalLength)
	}
}

func TestRateLimitBoundsFocalStep(t *testing.T) {
	cfg := Config{MaxZoom: 10.0, SlewRate: 0.1, RefHfov: 2.0}
	f := newFixture(t, cfg)
	f.activate(t)

	f.node.Publish(f.system.Topic(), 5.0)

	before := f.comp.HorizontalFov
	width := optics.SensorWidth(f.comp.FocalLength, before)

	f.step(500 * time.Millisecond)

	after := f.comp.HorizontalFov
	focalBefore := optics.FocalLengthFromFov(width, before)
	focalAfter := optics.FocalLengthFromFov(width, after)

	if delta := math.Abs(focalAfter - focalBefore); delta > 0.05+1e-9 {
		t.Errorf("focal length moved %v m in one tick, limit 0.05", delta)
	}
	if after >= before {
		t.Errorf("expected fov to shrink toward goal, got %v -> %v", before, after)
	}
}

func TestMonotonicConvergenceNoOvershoot(t *testing.T) {
	cfg := Config{MaxZoom: 10.0, SlewRate: 0.5, RefHfov: 2.0}
	f := newFixture(t, cfg)
	f.activate(t)

	f.node.Publish(f.system.Topic(), 4.0)
	goal := 0.5

	prev := f.comp.HorizontalFov
	for i := 0; i < 400; i++ {
		f.step(100 * time.Millisecond)
		cur := f.comp.HorizontalFov
		if cur > prev+1e-15 {
			t.Fatalf("tick %d moved away from goal: %v -> %v", i, prev, cur)
		}
		if cur < goal-1e-9 {
			t.Fatalf("tick %d overshot goal %v: %v", i, goal, cur)
		}
		prev = cur
	}

	if math.Abs(f.comp.HorizontalFov-goal) > 1e-9 {
		t.Errorf("expected convergence to %v, got %v", goal, f.comp.HorizontalFov)
	}
}

func TestNoCommandNoWrites(t *testing.T) {
	f := newFixture(t, instantCfg())
	f.activate(t)
	f.world.TakeChanged()

	for i := 0; i < 50; i++ {
		f.step(tick)
	}

	if f.comp.HorizontalFov != 2.0 {
		t.Errorf("expected fov to hold at reference, got %v", f.comp.HorizontalFov)
	}
	if len(f.world.TakeChanged()) != 0 {
		t.Error("expected no change marks without commands")
	}
}

func TestLastCommandWinsWithinTick(t *testing.T) {
	f := newFixture(t, instantCfg())
	f.activate(t)

	f.node.Publish(f.system.Topic(), 2.0)
	f.node.Publish(f.system.Topic(), 8.0)
	f.step(tick)

	if math.Abs(f.system.GoalHfov()-0.25) > 1e-12 {
		t.Errorf("expected goal from latest command, got %v", f.system.GoalHfov())
	}
}

func TestClampEmitsWarning(t *testing.T) {
	var buf bytes.Buffer
	diag.SetOutput(&buf)
	defer diag.SetOutput(os.Stderr)

	f := newFixture(t, instantCfg())
	f.activate(t)

	f.node.Publish(f.system.Topic(), 20.0)
	f.step(tick)

	if !strings.Contains(buf.String(), "clamped to 10") {
		t.Errorf("expected clamp warning, got %q", buf.String())
	}
	if math.Abs(f.system.GoalHfov()-0.2) > 1e-12 {
		t.Errorf("expected goal ref/maxZoom, got %v", f.system.GoalHfov())
	}
}

func TestBelowMinimumClampsUp(t *testing.T) {
	diag.SetOutput(io.Discard)
	defer diag.SetOutput(os.Stderr)

	f := newFixture(t, instantCfg())
	f.activate(t)

	f.node.Publish(f.system.Topic(), 0.25)
	f.step(tick)

	if math.Abs(f.system.GoalHfov()-2.0) > 1e-12 {
		t.Errorf("expected goal at reference for clamped-up command, got %v", f.system.GoalHfov())
	}
}

func TestTeardownThenReacquire(t *testing.T) {
	f := newFixture(t, instantCfg())
	f.activate(t)

	f.node.Publish(f.system.Topic(), 2.0)
	f.step(tick)

	f.events.Emit(sim.EventRenderTeardown)
	if f.system.Phase() != PhaseTornDown {
		t.Fatalf("expected torn down after event, got %v", f.system.Phase())
	}

	f.step(tick)
	if f.system.Phase() != PhaseUninitialized {
		t.Fatalf("expected uninitialized one tick after teardown, got %v", f.system.Phase())
	}

	f.step(tick)
	if f.system.Phase() != PhaseActive {
		t.Fatalf("expected reacquisition, got %v", f.system.Phase())
	}

	// The controller still converges after the round trip.
	f.node.Publish(f.system.Topic(), 4.0)
	f.step(tick)
	if math.Abs(f.comp.HorizontalFov-0.5) > 1e-9 {
		t.Errorf("expected fov 0.5 after reacquired zoom, got %v", f.comp.HorizontalFov)
	}
}

func TestDeferredEngineQuietRetry(t *testing.T) {
	var buf bytes.Buffer
	diag.SetOutput(&buf)
	defer diag.SetOutput(os.Stderr)

	w := sim.NewWorld()
	rig := sim.NewRig(w, "gimbal", "pitch_link", "zoomcam",
		sim.Camera{HorizontalFov: 2.0, FocalLength: 1.0})
	events := sim.NewEvents()
	runner := sim.NewRunner(w, events)
	node := transport.NewNode()
	registry := rendering.NewRegistry()

	sys := NewSystem(node, registry, instantCfg())
	if err := runner.AddSystem(sys, rig.Sensor); err != nil {
		t.Fatalf("configure failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		runner.Step(tick)
	}
	if sys.Phase() != PhaseUninitialized {
		t.Fatalf("expected quiet retry without engine, got %v", sys.Phase())
	}
	if buf.Len() != 0 {
		t.Errorf("expected no diagnostics while engine absent, got %q", buf.String())
	}

	// Engine appears with an unready scene: a single warning.
	scene := rendering.NewScene()
	engine := rendering.NewEngine()
	engine.SetScene(scene)
	registry.Load(engine)

	for i := 0; i < 10; i++ {
		runner.Step(tick)
	}
	if got := strings.Count(buf.String(), "no scene or camera sensors"); got != 1 {
		t.Errorf("expected one not-ready warning, got %d in %q", got, buf.String())
	}

	// Scene readies and the controller activates.
	scoped := sim.RemoveParentScope(w.ScopedName(rig.Sensor, "::"), "::")
	scene.AddSensor(rendering.NewBasicCamera(scoped, 2.0))
	scene.SetInitialized()

	runner.Step(tick)
	if sys.Phase() != PhaseActive {
		t.Errorf("expected activation once scene ready, got %v", sys.Phase())
	}
}

func TestNotACameraGoesInert(t *testing.T) {
	var buf bytes.Buffer
	diag.SetOutput(&buf)
	defer diag.SetOutput(os.Stderr)
	diag.SetLevel(diag.LevelError)
	defer diag.SetLevel(diag.LevelWarn)

	w := sim.NewWorld()
	rig := sim.NewRig(w, "gimbal", "pitch_link", "zoomcam", sim.Camera{HorizontalFov: 2.0, FocalLength: 1.0})
	runner := sim.NewRunner(w, sim.NewEvents())
	registry := rendering.NewRegistry()

	scoped := sim.RemoveParentScope(w.ScopedName(rig.Sensor, "::"), "::")
	scene := rendering.NewScene()
	scene.AddSensor(rendering.NewRaySensor(scoped))
	scene.SetInitialized()
	engine := rendering.NewEngine()
	engine.SetScene(scene)
	registry.Load(engine)

	sys := NewSystem(transport.NewNode(), registry, instantCfg())
	if err := runner.AddSystem(sys, rig.Sensor); err != nil {
		t.Fatalf("configure failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		runner.Step(tick)
	}

	if sys.Valid() {
		t.Error("expected inert controller for non-camera sensor")
	}
	if got := strings.Count(buf.String(), "is not a camera"); got != 1 {
		t.Errorf("expected one capability error, got %d", got)
	}
}

func TestZeroDtTickHoldsFocal(t *testing.T) {
	cfg := Config{MaxZoom: 10.0, SlewRate: 0.1, RefHfov: 2.0}
	f := newFixture(t, cfg)
	f.activate(t)

	f.node.Publish(f.system.Topic(), 5.0)
	before := f.comp.HorizontalFov

	f.step(0)

	if math.Abs(f.comp.HorizontalFov-before) > 1e-12 {
		t.Errorf("expected fov unchanged on zero-dt tick, got %v -> %v", before, f.comp.HorizontalFov)
	}
}

func TestZeroSlewRateNeverMoves(t *testing.T) {
	cfg := Config{MaxZoom: 10.0, SlewRate: 0.0, RefHfov: 2.0}
	f := newFixture(t, cfg)
	f.activate(t)

	f.node.Publish(f.system.Topic(), 5.0)
	for i := 0; i < 100; i++ {
		f.step(tick)
	}

	if math.Abs(f.comp.HorizontalFov-2.0) > 1e-9 {
		t.Errorf("expected frozen lens at reference fov, got %v", f.comp.HorizontalFov)
	}
	if math.Abs(f.system.GoalHfov()-0.4) > 1e-12 {
		t.Errorf("expected goal still resolved, got %v", f.system.GoalHfov())
	}
}

func TestEffectiveZoomStaysInRange(t *testing.T) {
	diag.SetOutput(io.Discard)
	defer diag.SetOutput(os.Stderr)

	f := newFixture(t, instantCfg())
	f.activate(t)

	for _, cmd := range []float64{-3.0, 0.0, 0.5, 1.0, 3.0, 10.0, 25.0, 1000.0} {
		f.node.Publish(f.system.Topic(), cmd)
		f.step(tick)

		effective := 2.0 / f.comp.HorizontalFov
		if effective < 1.0-1e-9 || effective > 10.0+1e-9 {
			t.Errorf("command %v produced effective zoom %v outside [1, 10]", cmd, effective)
		}
	}
}
