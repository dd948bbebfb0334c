package isoptic

import "math"

const (
	pi  = math.Pi
	tau = 2 * pi
	// DefaultAngle is the visual angle of the isoptic surface when none is given.
	DefaultAngle = pi / 2
	// DefaultScaling is the factor the mesh bounding box is scaled by
	// to obtain the sampling domain.
	DefaultScaling = 2.5
	// DefaultResolution is the number of samples per axis of the sampling grid.
	DefaultResolution = 30
)

// DtoR converts degrees to radians
func DtoR(degrees float64) float64 {
	return (pi / 180) * degrees
}

// RtoD converts radians to degrees
func RtoD(radians float64) float64 {
	return (180 / pi) * radians
}

// Clamp x between a and b, assume a <= b
func Clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

// acos is math.Acos with its argument clamped to [-1, 1]. Dot products of
// unit vectors drift slightly outside this range due to rounding.
func acos(cos float64) float64 {
	return math.Acos(Clamp(cos, -1, 1))
}
