package metrics

// Sample is one tick of the controller's observable state.
type Sample struct {
	T           float64
	Hfov        float64
	FocalLength float64
	GoalHfov    float64
	Zoom        float64
	Changed     bool
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Standard returns the metric set every recorded run carries.
func Standard() []Metric {
	return []Metric{
		NewSettlingTime(1e-6),
		NewFinalError(),
		NewSlewPeak(),
		NewWriteCount(),
	}
}
