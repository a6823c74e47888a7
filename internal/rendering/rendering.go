// Package rendering models the render-engine side of the simulation:
// engines that load asynchronously, scenes holding sensors, and camera
// handles with an adjustable field of view.
package rendering

import "sync"

// Sensor is a handle to a rendering-side sensor.
type Sensor interface {
	Name() string
}

// Camera is a sensor with an adjustable horizontal field of view, in
// radians.
type Camera interface {
	Sensor
	HorizontalFov() float64
	SetHorizontalFov(rad float64)
}

// AsCamera performs the capability check from generic sensor to camera.
// It fails cleanly when the underlying sensor has no lens.
func AsCamera(s Sensor) (Camera, bool) {
	c, ok := s.(Camera)
	return c, ok
}

// BasicCamera is an in-memory camera handle standing in for a render
// engine's camera. The field of view is mutex-guarded because viewers
// read it while the tick context writes.
type BasicCamera struct {
	mu   sync.Mutex
	name string
	hfov float64
}

func NewBasicCamera(name string, hfov float64) *BasicCamera {
	return &BasicCamera{name: name, hfov: hfov}
}

func (c *BasicCamera) Name() string { return c.name }

func (c *BasicCamera) HorizontalFov() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hfov
}

func (c *BasicCamera) SetHorizontalFov(rad float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hfov = rad
}

// RaySensor is a rendering sensor with no camera capability.
type RaySensor struct {
	name string
}

func NewRaySensor(name string) *RaySensor {
	return &RaySensor{name: name}
}

func (s *RaySensor) Name() string { return s.name }
