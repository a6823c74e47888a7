package zoom

import "errors"

// Configuration errors. Any of these leaves the controller inert: it
// stays registered with the runner but every tick is a no-op.
var (
	// ErrNotSensor indicates the controller was attached to an entity
	// that is not a camera sensor.
	ErrNotSensor = errors.New("zoom: must be attached to a camera sensor")

	// ErrNoName indicates the sensor entity has no usable name.
	ErrNoName = errors.New("zoom: camera sensor has no name")

	// ErrNoModel indicates the sensor's parent model could not be
	// resolved through its link.
	ErrNoModel = errors.New("zoom: parent model not found")

	// ErrNoWorld indicates no world root entity exists.
	ErrNoWorld = errors.New("zoom: world not found")
)
