package metrics

import "math"

// SettlingTime reports the simulated time at which the field of view
// entered the tolerance band around the goal and stayed there. -1 means
// it never settled.
type SettlingTime struct {
	name      string
	tolerance float64
	settled   bool
	settledAt float64
}

func NewSettlingTime(tolerance float64) *SettlingTime {
	return &SettlingTime{
		name:      "settling_time",
		tolerance: tolerance,
	}
}

func (s *SettlingTime) Name() string { return s.name }

func (s *SettlingTime) Observe(smp Sample) {
	if math.Abs(smp.Hfov-smp.GoalHfov) > s.tolerance {
		s.settled = false
		return
	}
	if !s.settled {
		s.settled = true
		s.settledAt = smp.T
	}
}

func (s *SettlingTime) Value() float64 {
	if !s.settled {
		return -1
	}
	return s.settledAt
}

func (s *SettlingTime) Reset() {
	s.settled = false
	s.settledAt = 0
}

// FinalError is the distance between field of view and goal at the last
// observed sample, in radians.
type FinalError struct {
	name string
	last float64
}

func NewFinalError() *FinalError {
	return &FinalError{
		name: "final_error",
	}
}

func (f *FinalError) Name() string { return f.name }

func (f *FinalError) Observe(smp Sample) {
	f.last = math.Abs(smp.Hfov - smp.GoalHfov)
}

func (f *FinalError) Value() float64 {
	return f.last
}

func (f *FinalError) Reset() {
	f.last = 0
}
