package analysis

import (
	"math"

	"github.com/dirksavage88/camzoom/internal/metrics"
)

// StepInfo characterizes the response to the first goal change in a
// recorded trajectory.
type StepInfo struct {
	At        float64 // time the goal was resolved
	From      float64 // hfov before the step
	To        float64 // goal hfov
	RiseTime  float64 // 10% to 90% of the step, -1 if the response never finished rising
	Overshoot float64 // worst excursion past the goal, as a fraction of the step size
}

// stepIndex locates the first goal change that actually moves the
// camera, skipping the at-rest goal a run starts with.
func stepIndex(samples []metrics.Sample) (int, float64, bool) {
	const eps = 1e-12

	prevGoal := 0.0
	for i, smp := range samples {
		if smp.GoalHfov > 0 && smp.GoalHfov != prevGoal {
			from := samples[0].Hfov
			if i > 0 {
				from = samples[i-1].Hfov
			}
			if math.Abs(smp.GoalHfov-from) >= eps {
				return i, from, true
			}
		}
		prevGoal = smp.GoalHfov
	}
	return -1, 0, false
}

// Step measures the response to the first goal change that moves the
// camera. The second return is false when the trajectory holds no such
// step.
func Step(samples []metrics.Sample) (StepInfo, bool) {
	i0, from, ok := stepIndex(samples)
	if !ok {
		return StepInfo{}, false
	}

	to := samples[i0].GoalHfov
	step := to - from

	info := StepInfo{At: samples[i0].T, From: from, To: to, RiseTime: -1}

	t10, t90 := -1.0, -1.0
	for _, smp := range samples[i0:] {
		if smp.GoalHfov != to {
			break
		}
		p := (smp.Hfov - from) / step
		if t10 < 0 && p >= 0.1 {
			t10 = smp.T
		}
		if t90 < 0 && p >= 0.9 {
			t90 = smp.T
		}
		if over := (smp.Hfov - to) / step; over > info.Overshoot {
			info.Overshoot = over
		}
	}
	if t10 >= 0 && t90 >= 0 {
		info.RiseTime = t90 - t10
	}
	return info, true
}

// TimeConstant fits an exponential to the decay of the FOV error after
// the first goal change that moves the camera and returns the time
// constant in seconds, or -1 when the trajectory gives nothing to fit.
// Errors at or below tol are left out of the fit.
func TimeConstant(samples []metrics.Sample, tol float64) float64 {
	i0, _, ok := stepIndex(samples)
	if !ok {
		return -1
	}

	goal := samples[i0].GoalHfov

	// Least squares of ln|err| against time.
	var n, sumT, sumY, sumTT, sumTY float64
	for _, smp := range samples[i0:] {
		if smp.GoalHfov != goal {
			break
		}
		err := math.Abs(smp.Hfov - goal)
		if err <= tol {
			continue
		}
		y := math.Log(err)
		n++
		sumT += smp.T
		sumY += y
		sumTT += smp.T * smp.T
		sumTY += smp.T * y
	}
	if n < 2 {
		return -1
	}

	den := n*sumTT - sumT*sumT
	if den == 0 {
		return -1
	}
	slope := (n*sumTY - sumT*sumY) / den
	if slope >= 0 {
		return -1
	}
	return -1 / slope
}
