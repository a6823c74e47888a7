package metrics

import (
	"math"

	"github.com/dirksavage88/camzoom/internal/optics"
)

// SlewPeak is the largest focal-length rate the controller produced, in
// meters per simulated second. It repeats the controller's own per-tick
// conversion: the sensor width is derived from the stored focal length
// and the previous tick's field of view.
type SlewPeak struct {
	name     string
	peak     float64
	prevT    float64
	prevHfov float64
	samples  int
}

func NewSlewPeak() *SlewPeak {
	return &SlewPeak{
		name: "slew_peak",
	}
}

func (s *SlewPeak) Name() string { return s.name }

func (s *SlewPeak) Observe(smp Sample) {
	defer func() {
		s.prevT = smp.T
		s.prevHfov = smp.Hfov
		s.samples++
	}()

	if s.samples == 0 {
		return
	}
	dt := smp.T - s.prevT
	if dt <= 0 {
		return
	}

	width := optics.SensorWidth(smp.FocalLength, s.prevHfov)
	prevFocal := optics.FocalLengthFromFov(width, s.prevHfov)
	curFocal := optics.FocalLengthFromFov(width, smp.Hfov)

	rate := math.Abs(curFocal-prevFocal) / dt
	s.peak = math.Max(s.peak, rate)
}

func (s *SlewPeak) Value() float64 {
	return s.peak
}

func (s *SlewPeak) Reset() {
	s.peak = 0
	s.prevT = 0
	s.prevHfov = 0
	s.samples = 0
}

// WriteCount counts the ticks on which the controller actually wrote the
// component, as opposed to holding at the goal.
type WriteCount struct {
	name  string
	count int
}

func NewWriteCount() *WriteCount {
	return &WriteCount{
		name: "write_count",
	}
}

func (w *WriteCount) Name() string { return w.name }

func (w *WriteCount) Observe(smp Sample) {
	if smp.Changed {
		w.count++
	}
}

func (w *WriteCount) Value() float64 {
	return float64(w.count)
}

func (w *WriteCount) Reset() {
	w.count = 0
}
