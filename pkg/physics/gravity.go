package physics

import (
	"math"
)

// Regime classifies how strongly a body curves spacetime at its surface.
type Regime string

const (
	RegimeBlackHole     Regime = "black_hole"
	RegimeNearBlackHole Regime = "near_black_hole"
	RegimeExtreme       Regime = "extreme"
	RegimeStrong        Regime = "strong"
	RegimeModerate      Regime = "moderate"
	RegimeWeak          Regime = "weak"
)

// SchwarzschildRadius returns 2GM/c² in km.
func SchwarzschildRadius(mass float64) float64 {
	c := SpeedOfLight * metresPerKm
	return (2 * GravitationalConstant * mass) / (c * c) / metresPerKm
}

// DilationAtSurface returns dτ/dt for a static observer at radius r (exterior metric).
func DilationAtSurface(mass, radius float64) float64 {
	rs := SchwarzschildRadius(mass)

	factor := 1 - rs/radius
	if factor <= 0 {
		return 0
	}
	return math.Sqrt(factor)
}

// DilationAtCenter returns dτ/dt at the centre of a uniform-density sphere
// (interior Schwarzschild solution). Zero inside the horizon and past the
// Buchdahl bound.
func DilationAtCenter(mass, radius float64) float64 {
	rs := SchwarzschildRadius(mass)

	factor := 1 - rs/radius
	if factor <= 0 {
		return 0
	}

	f := 1.5*math.Sqrt(factor) - 0.5
	return math.Max(f, 0)
}

// DilationAtDistance returns dτ/dt at distance r from the centre of a body of
// the given mass and radius: interior solution for r <= R, exterior beyond.
func DilationAtDistance(mass, radius, distance float64) float64 {
	if distance > radius {
		return DilationAtSurface(mass, distance)
	}

	rs := SchwarzschildRadius(mass)
	surface := 1 - rs/radius
	if surface <= 0 {
		return 0
	}

	ratio := distance / radius
	inner := 1 - (rs*ratio*ratio)/radius
	if inner < 0 {
		inner = 0
	}

	f := 1.5*math.Sqrt(surface) - 0.5*math.Sqrt(inner)
	return math.Max(f, 0)
}

// Density returns the mean density in kg/m³.
func Density(mass, radius float64) float64 {
	r := radius * metresPerKm
	volume := (4.0 / 3.0) * math.Pi * r * r * r
	return mass / volume
}

// Compacity returns Rs/R.
func Compacity(mass, radius float64) float64 {
	if radius <= 0 {
		return math.Inf(1)
	}
	return SchwarzschildRadius(mass) / radius
}

// IsBlackHole reports whether the body lies inside its own Schwarzschild radius.
func IsBlackHole(mass, radius float64) bool {
	return radius <= SchwarzschildRadius(mass)
}

// Classify buckets a body by its radius expressed in Schwarzschild radii.
func Classify(mass, radius float64) Regime {
	rs := SchwarzschildRadius(mass)
	if radius <= rs {
		return RegimeBlackHole
	}
	if radius < 1.5*rs {
		return RegimeNearBlackHole
	}

	ratio := radius / rs
	switch {
	case ratio < 2:
		return RegimeExtreme
	case ratio < 5:
		return RegimeStrong
	case ratio < 10:
		return RegimeModerate
	default:
		return RegimeWeak
	}
}

// CheckBody validates a mass/radius pair. Besides positive finite inputs it
// requires the derived Schwarzschild radius, density and R/Rs to stay finite
// and non-zero, so every report built from the pair is representable.
func CheckBody(mass, radius float64) error {
	if err := checkMass(mass); err != nil {
		return err
	}
	if err := checkRadius(radius); err != nil {
		return err
	}

	rs := SchwarzschildRadius(mass)
	derived := []struct {
		name  string
		value float64
	}{
		{"schwarzschild radius", rs},
		{"density", Density(mass, radius)},
		{"compacity", rs / radius},
		{"radius ratio", radius / rs},
	}
	for _, d := range derived {
		if !isNormal(d.value) {
			return ErrBodyOutOfRange.Wrapf("mass %g kg, radius %g km: %s is %g", mass, radius, d.name, d.value)
		}
	}
	return nil
}

func checkMass(mass float64) error {
	if math.IsNaN(mass) || math.IsInf(mass, 0) || mass <= 0 {
		return ErrInvalidMass.Wrapf("mass %g kg", mass)
	}
	return nil
}

func checkRadius(radius float64) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return ErrInvalidRadius.Wrapf("radius %g km", radius)
	}
	return nil
}

// isNormal reports a finite, strictly positive value.
func isNormal(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// BeyondBuchdahl reports whether a static uniform-density body of this
// compacity would need infinite central pressure.
func BeyondBuchdahl(mass, radius float64) bool {
	return Compacity(mass, radius) >= buchdahlCompacity
}
