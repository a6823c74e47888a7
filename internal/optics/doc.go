// Package optics provides conversions between horizontal field of view,
// focal length, and sensor width for a rectilinear lens.
//
// The three quantities are related by the pinhole projection:
//
//	fov         = 2*atan2(sensorWidth, 2*focalLength)
//	focalLength = sensorWidth / (2*tan(fov/2))
//	sensorWidth = 2*tan(fov/2) * focalLength
//
// The functions are exact inverses of one another for fov in (0, pi) and
// focalLength > 0. FocalLengthFromFov is singular as fov approaches pi;
// callers must keep fov inside the open interval.
package optics
