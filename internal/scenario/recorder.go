package scenario

import (
	"github.com/dirksavage88/camzoom/internal/metrics"
	"github.com/dirksavage88/camzoom/internal/sim"
	"github.com/dirksavage88/camzoom/internal/zoom"
)

// Recorder samples the camera component after every tick and feeds the
// metric set. It drains the world's change marks, so it must be the only
// observer doing that.
type Recorder struct {
	sensor  sim.Entity
	system  *zoom.System
	refHfov float64
	set     []metrics.Metric
	samples []metrics.Sample
}

func NewRecorder(sensor sim.Entity, system *zoom.System, refHfov float64, set []metrics.Metric) *Recorder {
	return &Recorder{
		sensor:  sensor,
		system:  system,
		refHfov: refHfov,
		set:     set,
	}
}

func (r *Recorder) OnStep(info sim.UpdateInfo, w *sim.World) {
	comp := w.CameraOf(r.sensor)
	if comp == nil {
		return
	}
	changed := w.TakeChanged()[r.sensor] != sim.NoChange

	s := metrics.Sample{
		T:           info.SimTime.Seconds(),
		Hfov:        comp.HorizontalFov,
		FocalLength: comp.FocalLength,
		GoalHfov:    r.system.GoalHfov(),
		Zoom:        r.refHfov / comp.HorizontalFov,
		Changed:     changed,
	}
	r.samples = append(r.samples, s)
	for _, m := range r.set {
		m.Observe(s)
	}
}

func (r *Recorder) Samples() []metrics.Sample { return r.samples }

// Values snapshots every metric by name.
func (r *Recorder) Values() map[string]float64 {
	out := make(map[string]float64, len(r.set))
	for _, m := range r.set {
		out[m.Name()] = m.Value()
	}
	return out
}
