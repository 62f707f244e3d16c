package physics

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultSeriesPoints is the resolution of the velocity/gamma curves.
const DefaultSeriesPoints = 1000

// DataPoint is one sample of a curve.
type DataPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Gamma returns the Lorentz factor for a velocity in km/s, capped at MaxGamma.
func Gamma(velocity float64) float64 {
	beta := velocity / SpeedOfLight
	if beta >= 1 {
		return MaxGamma
	}
	if beta <= 0 {
		return 1
	}

	gamma := 1 / math.Sqrt(1-beta*beta)
	return math.Min(gamma, MaxGamma)
}

// Velocity inverts Gamma and returns a velocity in km/s.
func Velocity(gamma float64) float64 {
	if gamma <= 1 {
		return 0
	}
	if gamma >= MaxGamma {
		return SpeedOfLight * VelocityCapFraction
	}

	beta := math.Sqrt(1 - 1/(gamma*gamma))
	return beta * SpeedOfLight
}

// ProperTime returns the time elapsed on a moving clock while coordinateSeconds
// elapse for the stationary observer.
func ProperTime(coordinateSeconds, gamma float64) float64 {
	if gamma < 1 {
		gamma = 1
	}
	return coordinateSeconds / gamma
}

// VelocityToGammaSeries samples gamma over [0, c] with points+1 samples.
func VelocityToGammaSeries(points int) []DataPoint {
	if points <= 0 {
		points = DefaultSeriesPoints
	}

	velocities := floats.Span(make([]float64, points+1), 0, SpeedOfLight)
	data := make([]DataPoint, len(velocities))
	for i, v := range velocities {
		data[i] = DataPoint{X: v, Y: Gamma(v)}
	}
	return data
}

// GammaToVelocitySeries samples velocity over gamma in [1, MaxGamma].
func GammaToVelocitySeries(points int) []DataPoint {
	if points <= 0 {
		points = DefaultSeriesPoints
	}

	gammas := floats.Span(make([]float64, points+1), 1, MaxGamma)
	data := make([]DataPoint, len(gammas))
	for i, g := range gammas {
		data[i] = DataPoint{X: g, Y: Velocity(g)}
	}
	return data
}

// CheckVelocity validates a velocity in km/s.
func CheckVelocity(velocity float64) error {
	if math.IsNaN(velocity) || math.IsInf(velocity, 0) || velocity < 0 {
		return ErrInvalidVelocity.Wrapf("velocity %g km/s", velocity)
	}
	return nil
}

// CheckGamma validates a Lorentz factor.
func CheckGamma(gamma float64) error {
	if math.IsNaN(gamma) || math.IsInf(gamma, 0) || gamma < 1 {
		return ErrInvalidGamma.Wrapf("gamma %g", gamma)
	}
	return nil
}
