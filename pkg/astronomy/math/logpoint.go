package math

import "math"

// LogPoint places a body in (log10 mass, log10 radius) space, where
// nearest-neighbour distances compare orders of magnitude instead of raw values.
type LogPoint struct {
	LogMass, LogRadius float64
}

// NewLogPoint builds a point from a mass in kg and a radius in km.
func NewLogPoint(mass, radius float64) LogPoint {
	return LogPoint{
		LogMass:   math.Log10(mass),
		LogRadius: math.Log10(radius),
	}
}

// Sub returns the difference between two points
func (p LogPoint) Sub(other LogPoint) LogPoint {
	return LogPoint{
		LogMass:   p.LogMass - other.LogMass,
		LogRadius: p.LogRadius - other.LogRadius,
	}
}

// Magnitude returns the Euclidean norm
func (p LogPoint) Magnitude() float64 {
	return math.Hypot(p.LogMass, p.LogRadius)
}

// Distance returns the number of decades separating two points
func (p LogPoint) Distance(other LogPoint) float64 {
	return p.Sub(other).Magnitude()
}

// Ratios returns mass and radius ratios p/other, saturating at
// math.MaxFloat64 when the decades between the points exceed float64.
func (p LogPoint) Ratios(other LogPoint) (mass, radius float64) {
	d := p.Sub(other)
	return pow10(d.LogMass), pow10(d.LogRadius)
}

func pow10(x float64) float64 {
	return math.Min(math.Pow(10, x), math.MaxFloat64)
}
