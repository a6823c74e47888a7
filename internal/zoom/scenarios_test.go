package zoom_test

import (
	"math"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dirksavage88/camzoom/internal/diag"
	"github.com/dirksavage88/camzoom/internal/optics"
	"github.com/dirksavage88/camzoom/internal/rendering"
	"github.com/dirksavage88/camzoom/internal/sim"
	"github.com/dirksavage88/camzoom/internal/transport"
	"github.com/dirksavage88/camzoom/internal/zoom"
)

// stack is the full controller assembly a scenario drives: world, runner,
// transport node, rendering registry, and the controller itself.
type stack struct {
	world  *sim.World
	events *sim.Events
	runner *sim.Runner
	node   *transport.Node
	scene  *rendering.Scene
	camera *rendering.BasicCamera
	rig    sim.Rig
	system *zoom.System
	comp   *sim.Camera
}

func buildStack(cfg zoom.Config) *stack {
	w := sim.NewWorld()
	rig := sim.NewRig(w, "gimbal", "pitch_link", "zoomcam",
		sim.Camera{HorizontalFov: cfg.RefHfov, FocalLength: 1.0})

	s := &stack{
		world:  w,
		events: sim.NewEvents(),
		node:   transport.NewNode(),
		rig:    rig,
		comp:   w.CameraOf(rig.Sensor),
	}
	s.runner = sim.NewRunner(w, s.events)

	scoped := sim.RemoveParentScope(w.ScopedName(rig.Sensor, "::"), "::")
	s.camera = rendering.NewBasicCamera(scoped, cfg.RefHfov)
	s.scene = rendering.NewScene()
	s.scene.AddSensor(s.camera)
	s.scene.SetInitialized()

	engine := rendering.NewEngine()
	engine.SetScene(s.scene)
	registry := rendering.NewRegistry()
	registry.Load(engine)

	s.system = zoom.NewSystem(s.node, registry, cfg)
	Expect(s.runner.AddSystem(s.system, rig.Sensor)).To(Succeed())

	// Name capture tick, then acquisition tick.
	s.runner.Step(20 * time.Millisecond)
	s.runner.Step(20 * time.Millisecond)
	Expect(s.system.Phase()).To(Equal(zoom.PhaseActive))
	return s
}

var _ = Describe("Camera zoom controller", func() {
	BeforeEach(func() {
		diag.SetOutput(GinkgoWriter)
		DeferCleanup(diag.SetOutput, os.Stderr)
	})

	Context("with an unbounded slew rate", func() {
		var s *stack

		BeforeEach(func() {
			s = buildStack(zoom.Config{MaxZoom: 10.0, SlewRate: math.Inf(1), RefHfov: 2.0})
		})

		It("reaches the commanded field of view in a single tick", func() {
			s.node.Publish(s.system.Topic(), 2.0)
			s.runner.Step(20 * time.Millisecond)

			Expect(s.comp.HorizontalFov).To(BeNumerically("~", 1.0, 1e-9))
			Expect(s.camera.HorizontalFov()).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("clamps commands beyond the zoom range to its edges", func() {
			s.node.Publish(s.system.Topic(), 25.0)
			s.runner.Step(20 * time.Millisecond)
			Expect(s.comp.HorizontalFov).To(BeNumerically("~", 0.2, 1e-9))

			s.node.Publish(s.system.Topic(), 0.1)
			s.runner.Step(20 * time.Millisecond)
			Expect(s.comp.HorizontalFov).To(BeNumerically("~", 2.0, 1e-9))
		})

		It("applies only the latest of several commands in one tick", func() {
			s.node.Publish(s.system.Topic(), 2.0)
			s.node.Publish(s.system.Topic(), 4.0)
			s.node.Publish(s.system.Topic(), 8.0)
			s.runner.Step(20 * time.Millisecond)

			Expect(s.comp.HorizontalFov).To(BeNumerically("~", 0.25, 1e-9))
		})

		It("holds the goal when a non-finite command arrives", func() {
			s.node.Publish(s.system.Topic(), 4.0)
			s.runner.Step(20 * time.Millisecond)

			s.node.Publish(s.system.Topic(), math.NaN())
			s.runner.Step(20 * time.Millisecond)

			Expect(s.system.GoalHfov()).To(BeNumerically("~", 0.5, 1e-12))
			Expect(s.comp.HorizontalFov).To(BeNumerically("~", 0.5, 1e-9))
		})
	})

	Context("with a finite slew rate", func() {
		var s *stack

		BeforeEach(func() {
			s = buildStack(zoom.Config{MaxZoom: 10.0, SlewRate: 0.1, RefHfov: 2.0})
		})

		It("never moves the implied focal length faster than the limit", func() {
			s.node.Publish(s.system.Topic(), 5.0)

			for i := 0; i < 200; i++ {
				before := s.comp.HorizontalFov
				width := optics.SensorWidth(s.comp.FocalLength, before)

				s.runner.Step(500 * time.Millisecond)

				after := s.comp.HorizontalFov
				step := math.Abs(optics.FocalLengthFromFov(width, after) -
					optics.FocalLengthFromFov(width, before))
				Expect(step).To(BeNumerically("<=", 0.05+1e-9))
			}
		})

		It("converges monotonically without overshooting", func() {
			s.node.Publish(s.system.Topic(), 5.0)
			goal := 0.4

			prev := s.comp.HorizontalFov
			for i := 0; i < 400; i++ {
				s.runner.Step(500 * time.Millisecond)
				cur := s.comp.HorizontalFov
				Expect(cur).To(BeNumerically("<=", prev+1e-15))
				Expect(cur).To(BeNumerically(">=", goal-1e-9))
				prev = cur
			}
			Expect(s.comp.HorizontalFov).To(BeNumerically("~", goal, 1e-9))
		})

		It("retargets mid-flight when a new command arrives", func() {
			s.node.Publish(s.system.Topic(), 5.0)
			for i := 0; i < 5; i++ {
				s.runner.Step(500 * time.Millisecond)
			}
			midway := s.comp.HorizontalFov
			Expect(midway).To(BeNumerically("<", 2.0))
			Expect(midway).To(BeNumerically(">", 0.4))

			// Back out to no zoom; the fov widens again from wherever
			// the lens currently is.
			s.node.Publish(s.system.Topic(), 1.0)
			s.runner.Step(500 * time.Millisecond)
			Expect(s.comp.HorizontalFov).To(BeNumerically(">", midway))

			for i := 0; i < 400; i++ {
				s.runner.Step(500 * time.Millisecond)
			}
			Expect(s.comp.HorizontalFov).To(BeNumerically("~", 2.0, 1e-9))
		})
	})

	Context("when rendering tears down mid-flight", func() {
		It("drops its handles and reacquires them next cycle", func() {
			s := buildStack(zoom.Config{MaxZoom: 10.0, SlewRate: 0.1, RefHfov: 2.0})

			s.node.Publish(s.system.Topic(), 5.0)
			for i := 0; i < 3; i++ {
				s.runner.Step(500 * time.Millisecond)
			}
			midway := s.comp.HorizontalFov

			s.events.Emit(sim.EventRenderTeardown)
			Expect(s.system.Phase()).To(Equal(zoom.PhaseTornDown))

			// One tick to reset, one to reacquire.
			s.runner.Step(500 * time.Millisecond)
			Expect(s.comp.HorizontalFov).To(Equal(midway))
			s.runner.Step(500 * time.Millisecond)
			Expect(s.system.Phase()).To(Equal(zoom.PhaseActive))

			for i := 0; i < 400; i++ {
				s.runner.Step(500 * time.Millisecond)
			}
			Expect(s.comp.HorizontalFov).To(BeNumerically("~", 0.4, 1e-9))
		})
	})

	Context("before any command arrives", func() {
		It("leaves the camera untouched", func() {
			s := buildStack(zoom.Config{MaxZoom: 10.0, SlewRate: math.Inf(1), RefHfov: 2.0})
			s.world.TakeChanged()

			for i := 0; i < 100; i++ {
				s.runner.Step(20 * time.Millisecond)
			}

			Expect(s.comp.HorizontalFov).To(Equal(2.0))
			Expect(s.world.TakeChanged()).To(BeEmpty())
		})
	})
})
