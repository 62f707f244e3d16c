package physics

import (
	"math"
	"strings"
)

// Position selects which observer a target dilation factor refers to.
type Position string

const (
	PositionSurface Position = "surface"
	PositionCenter  Position = "center"
)

// ParsePosition accepts "surface", "center" and "centre"; empty means surface.
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "surface":
		return PositionSurface, nil
	case "center", "centre":
		return PositionCenter, nil
	default:
		return "", ErrInvalidPosition.Wrapf("%q (use: surface, center)", s)
	}
}

// Factor returns dτ/dt for the observer at p.
func (p Position) Factor(mass, radius float64) float64 {
	if p == PositionCenter {
		return DilationAtCenter(mass, radius)
	}
	return DilationAtSurface(mass, radius)
}

// Default iteration caps for the bracketed bisection.
const (
	DefaultOuterIterations = 50
	DefaultInnerIterations = 200
	DefaultTolerance       = 1e-12
)

// Solver inverts the dilation formulas by bisection in log space. The outer
// loop widens the bracket one decade per side and per iteration; the inner
// loop bisects. Both are capped.
//
// Close to the horizon the surface factor behaves like √(R/Rs − 1), so targets
// below about 1e-8 need R/Rs closer to 1 than float64 can resolve. Such
// solves still return the closest value found, with Converged false.
type Solver struct {
	OuterIterations int
	InnerIterations int
	Tolerance       float64 // width of the bracket in log10 units
}

// SolveResult is the outcome of an inversion.
type SolveResult struct {
	Value           float64  `json:"value"`
	Factor          float64  `json:"factor"`
	Target          float64  `json:"target"`
	Position        Position `json:"position"`
	OuterIterations int      `json:"outer_iterations"`
	InnerIterations int      `json:"inner_iterations"`
	// Residual is |Factor − Target| / Target.
	Residual  float64 `json:"residual"`
	Converged bool    `json:"converged"`
}

// MaxResidual is the relative residual above which a solve is reported as
// not converged.
const MaxResidual = 1e-6

// NewSolver returns a solver with the default caps.
func NewSolver() *Solver {
	return &Solver{
		OuterIterations: DefaultOuterIterations,
		InnerIterations: DefaultInnerIterations,
		Tolerance:       DefaultTolerance,
	}
}

// SolveMass finds the mass (kg) that gives the target factor at the chosen
// position for a body of the given radius (km).
func (s *Solver) SolveMass(radius, target float64, pos Position) (SolveResult, error) {
	if err := checkRadius(radius); err != nil {
		return SolveResult{}, err
	}
	if err := checkTarget(target); err != nil {
		return SolveResult{}, err
	}

	// Dilation falls with mass; the horizon mass is an upper bound.
	critical := math.Log10(criticalMass(radius))
	g := func(x float64) float64 { return pos.Factor(math.Pow(10, x), radius) }

	res, err := s.bisect(g, critical-1, critical, target, false)
	if err != nil {
		return SolveResult{}, err
	}
	res.Position = pos
	return res, nil
}

// SolveRadius finds the radius (km) that gives the target factor at the chosen
// position for a body of the given mass (kg).
func (s *Solver) SolveRadius(mass, target float64, pos Position) (SolveResult, error) {
	if err := checkMass(mass); err != nil {
		return SolveResult{}, err
	}
	if rs := SchwarzschildRadius(mass); !isNormal(rs) {
		return SolveResult{}, ErrBodyOutOfRange.Wrapf("mass %g kg: schwarzschild radius is %g", mass, rs)
	}
	if err := checkTarget(target); err != nil {
		return SolveResult{}, err
	}

	// Dilation rises with radius; the horizon radius is a lower bound.
	critical := math.Log10(SchwarzschildRadius(mass))
	g := func(x float64) float64 { return pos.Factor(mass, math.Pow(10, x)) }

	res, err := s.bisect(g, critical, critical+1, target, true)
	if err != nil {
		return SolveResult{}, err
	}
	res.Position = pos
	return res, nil
}

// bisect solves g(x) = target on a monotone g. increasing tells the direction.
func (s *Solver) bisect(g func(float64) float64, lo, hi, target float64, increasing bool) (SolveResult, error) {
	outerCap, innerCap, tol := s.caps()

	// below reports whether x sits on the side of the root where g < target
	// for an increasing g (or g > target for a decreasing one).
	below := func(x float64) bool {
		if increasing {
			return g(x) < target
		}
		return g(x) > target
	}

	outer := 0
	for ; outer < outerCap; outer++ {
		loOK, hiOK := below(lo), !below(hi)
		if loOK && hiOK {
			break
		}
		if !loOK {
			lo--
		}
		if !hiOK {
			hi++
		}
	}
	if !below(lo) || below(hi) {
		return SolveResult{}, ErrNotBracketed.Wrapf("target %g after %d expansions", target, outer)
	}

	inner := 0
	for ; inner < innerCap; inner++ {
		if hi-lo < tol {
			break
		}
		mid := (lo + hi) / 2
		if below(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}

	x := (lo + hi) / 2
	factor := g(x)
	residual := math.Abs(factor-target) / target
	return SolveResult{
		Value:           math.Pow(10, x),
		Factor:          factor,
		Target:          target,
		OuterIterations: outer,
		InnerIterations: inner,
		Residual:        residual,
		Converged:       residual <= MaxResidual,
	}, nil
}

func (s *Solver) caps() (int, int, float64) {
	outer, inner, tol := s.OuterIterations, s.InnerIterations, s.Tolerance
	if outer <= 0 {
		outer = DefaultOuterIterations
	}
	if inner <= 0 {
		inner = DefaultInnerIterations
	}
	if tol <= 0 {
		tol = DefaultTolerance
	}
	return outer, inner, tol
}

// criticalMass is the mass whose Schwarzschild radius equals radius (km).
func criticalMass(radius float64) float64 {
	c := SpeedOfLight * metresPerKm
	return radius * metresPerKm * c * c / (2 * GravitationalConstant)
}

func checkTarget(target float64) error {
	if math.IsNaN(target) || target <= 0 || target >= 1 {
		return ErrTargetOutOfRange.Wrapf("%g (must be in (0, 1))", target)
	}
	return nil
}

var defaultSolver = NewSolver()

// SolveMass runs the default solver.
func SolveMass(radius, target float64, pos Position) (SolveResult, error) {
	return defaultSolver.SolveMass(radius, target, pos)
}

// SolveRadius runs the default solver.
func SolveRadius(mass, target float64, pos Position) (SolveResult, error) {
	return defaultSolver.SolveRadius(mass, target, pos)
}
