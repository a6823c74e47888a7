package optics

import "math"

// FovFromFocalLength returns the horizontal field of view in radians for a
// lens of the given focal length projecting onto a sensor of the given
// width. Units cancel; width and focal length only need to agree.
func FovFromFocalLength(sensorWidth, focalLength float64) float64 {
	return 2.0 * math.Atan2(sensorWidth, 2.0*focalLength)
}

// FocalLengthFromFov returns the focal length producing the given
// horizontal field of view on a sensor of the given width. The result is
// unusable for fov at or beyond pi, where tan(fov/2) blows up.
func FocalLengthFromFov(sensorWidth, fov float64) float64 {
	return sensorWidth / (2.0 * math.Tan(fov/2.0))
}

// SensorWidth returns the sensor width implied by a focal length and the
// horizontal field of view it currently produces.
func SensorWidth(focalLength, fov float64) float64 {
	return 2.0 * math.Tan(fov/2.0) * focalLength
}
