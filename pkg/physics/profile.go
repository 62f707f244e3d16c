package physics

import (
	"math"
)

const (
	DefaultProfilePoints = 200
	DefaultProfileRadii  = 5.0
)

// DilationProfile samples dτ/dt from the centre out to maxRadii body radii.
// X is the distance in body radii. The origin, non-positive factors and, for
// black holes, the whole interior are left out.
func DilationProfile(mass, radius float64, points int, maxRadii float64) []DataPoint {
	if points <= 0 {
		points = DefaultProfilePoints
	}
	if maxRadii <= 0 {
		maxRadii = DefaultProfileRadii
	}

	blackHole := IsBlackHole(mass, radius)
	maxDistance := radius * maxRadii

	data := make([]DataPoint, 0, points)
	for i := 0; i <= points; i++ {
		distance := float64(i) / float64(points) * maxDistance
		if distance == 0 {
			continue
		}

		var factor float64
		switch {
		case distance <= radius && !blackHole:
			factor = DilationAtDistance(mass, radius, distance)
		case distance > radius:
			factor = DilationAtSurface(mass, distance)
		}

		if factor > 0 && !math.IsInf(factor, 0) && !math.IsNaN(factor) {
			data = append(data, DataPoint{X: distance / radius, Y: factor})
		}
	}
	return data
}

// ObserverComparison is the proper time elapsed for three static observers
// while Reference seconds elapse far from the body.
type ObserverComparison struct {
	Reference       float64 `json:"reference_seconds"`
	SurfaceFactor   float64 `json:"surface_factor"`
	CenterFactor    float64 `json:"center_factor"`
	AtInfinity      float64 `json:"at_infinity_seconds"`
	AtSurface       float64 `json:"at_surface_seconds"`
	AtCenter        float64 `json:"at_center_seconds"`
	InfinitySurface float64 `json:"infinity_surface_seconds"`
	InfinityCenter  float64 `json:"infinity_center_seconds"`
	SurfaceCenter   float64 `json:"surface_center_seconds"`
	BlackHole       bool    `json:"black_hole"`
	Negligible      bool    `json:"negligible"`
}

// CompareObservers computes the observer comparison. A non-positive reference
// falls back to one day. For a black hole only the flag is set.
func CompareObservers(mass, radius, reference float64) ObserverComparison {
	if reference <= 0 || math.IsNaN(reference) || math.IsInf(reference, 0) {
		reference = Day
	}

	cmp := ObserverComparison{
		Reference:  reference,
		AtInfinity: reference,
		BlackHole:  IsBlackHole(mass, radius),
	}
	if cmp.BlackHole {
		return cmp
	}

	cmp.SurfaceFactor = DilationAtSurface(mass, radius)
	cmp.CenterFactor = DilationAtCenter(mass, radius)
	cmp.AtSurface = reference * cmp.SurfaceFactor
	cmp.AtCenter = reference * cmp.CenterFactor
	cmp.InfinitySurface = cmp.AtInfinity - cmp.AtSurface
	cmp.InfinityCenter = cmp.AtInfinity - cmp.AtCenter
	cmp.SurfaceCenter = cmp.AtSurface - cmp.AtCenter
	cmp.Negligible = cmp.SurfaceFactor > NegligibleThreshold && cmp.CenterFactor > NegligibleThreshold

	return cmp
}
