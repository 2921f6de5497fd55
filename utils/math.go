package utils

import (
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Square returns n*n. Math.pow( x, 2 ) is slow, this is faster.
func Square(n float64) float64 {
	return n * n
}

// WrapTo2Pi returns a given angle in the [0, 2pi) range.
func WrapTo2Pi(theta float64) float64 {
	wrapped := theta - 2*math.Pi*math.Floor(theta/(2*math.Pi))
	if wrapped >= 2*math.Pi {
		return 0
	}
	return wrapped
}

// WrapToPi returns a given angle in the (-pi, pi] range. Both pi and -pi map to pi.
func WrapToPi(theta float64) float64 {
	wrapped := math.Pi - WrapTo2Pi(math.Pi-theta)
	if wrapped <= -math.Pi {
		return math.Pi
	}
	return wrapped
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
