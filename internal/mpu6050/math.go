package mpu6050

import "math"

// RawToCelsius converts a raw temperature word to °C using the datasheet
// formula.
func RawToCelsius(raw int16) float64 {
	return 36.53 + float64(raw)/340.0
}

// Pitch computes the forward/backward tilt angle in degrees [-180, 180]
// from an acceleration vector. The -ax sign makes forward tilt positive;
// callers depend on that convention.
func Pitch(ax, ay, az float64) float64 {
	return math.Atan2(-ax, math.Sqrt(ay*ay+az*az)) * 180.0 / math.Pi
}

// Roll computes the sideways tilt angle in degrees [-180, 180] from an
// acceleration vector.
func Roll(ax, ay, az float64) float64 {
	return math.Atan2(ay, az) * 180.0 / math.Pi
}

// Magnitude returns the Euclidean norm of a 3-D vector.
func Magnitude(x, y, z float64) float64 {
	return math.Sqrt(x*x + y*y + z*z)
}
