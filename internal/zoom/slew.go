package zoom

import "math"

// Limiter bounds how fast a focal length may change, in meters per
// simulated second. A non-finite rate applies changes instantly; a zero
// rate freezes the value in place.
type Limiter struct {
	Rate float64
}

// Advance returns current moved toward goal by at most Rate*dt meters,
// never overshooting. dt is seconds and must not be negative.
func (l Limiter) Advance(current, goal, dt float64) float64 {
	if !isFinite(l.Rate) {
		return goal
	}

	maxDelta := l.Rate * dt
	delta := math.Min(maxDelta, math.Abs(current-goal))
	if goal > current {
		return current + delta
	}
	return current - delta
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
