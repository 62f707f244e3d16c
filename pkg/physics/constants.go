// Package physics implements the closed-form relativity formulas used by the
// univers explorer: Lorentz factor, Schwarzschild radius, interior and exterior
// gravitational time dilation, densities and the bounded inversions built on them.
//
// Distances are kilometres and masses kilograms unless a name says otherwise.
package physics

const (
	SpeedOfLight          = 299792.458  // km/s
	GravitationalConstant = 6.67430e-11 // m³ kg⁻¹ s⁻²

	SolarMass   = 1.989e30 // kg
	SolarRadius = 695700.0 // km
	EarthMass   = 5.972e24 // kg
	EarthRadius = 6371.0   // km

	JupiterMass   = 1.898e27 // kg
	JupiterRadius = 69911.0  // km

	// MaxGamma caps the Lorentz factor; beyond it the curves are flat.
	MaxGamma = 320.0

	// VelocityCapFraction is the fraction of c reported once gamma reaches MaxGamma.
	VelocityCapFraction = 0.99999

	metresPerKm = 1000.0
)

// Reference durations offered by the observer comparison, in seconds.
const (
	Hour  = 3600.0
	Day   = 86400.0
	Month = 2592000.0  // 30 days
	Year  = 31536000.0 // 365 days
)

// NegligibleThreshold is the dilation factor above which effects are not worth reporting.
const NegligibleThreshold = 0.999

// buchdahlCompacity is Rs/R at which the uniform-density interior solution
// reaches zero at the centre.
const buchdahlCompacity = 8.0 / 9.0
