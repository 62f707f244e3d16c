package analysis

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/oxygene76/univers-client/internal/types"
	"github.com/oxygene76/univers-client/pkg/astronomy/catalog"
	"github.com/oxygene76/univers-client/pkg/physics"
)

// Unknown selects which quantity an inversion solves for.
type Unknown string

const (
	UnknownMass   Unknown = "mass"
	UnknownRadius Unknown = "radius"
)

// ParseUnknown accepts "mass" or "radius".
func ParseUnknown(s string) (Unknown, error) {
	switch Unknown(s) {
	case UnknownMass, UnknownRadius:
		return Unknown(s), nil
	default:
		return "", fmt.Errorf("unknown quantity %q (use: mass, radius)", s)
	}
}

// Options are the experiment defaults a Manager falls back on.
type Options struct {
	Lang          physics.Lang
	Reference     float64
	ProfilePoints int
	ProfileRadii  float64
	Solver        *physics.Solver
}

// DefaultOptions mirrors the defaults of the web experiment.
func DefaultOptions() Options {
	return Options{
		Lang:          physics.LangFR,
		Reference:     physics.Day,
		ProfilePoints: physics.DefaultProfilePoints,
		ProfileRadii:  physics.DefaultProfileRadii,
		Solver:        physics.NewSolver(),
	}
}

// Manager handles all analysis operations
type Manager struct {
	logger  *zap.Logger
	catalog *catalog.Catalog
	format  physics.Formatter
	opts    Options
}

// NewManager creates a new analysis manager
func NewManager(logger *zap.Logger, cat *catalog.Catalog, opts Options) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	defaults := DefaultOptions()
	if opts.Reference <= 0 {
		opts.Reference = defaults.Reference
	}
	if opts.ProfilePoints <= 0 {
		opts.ProfilePoints = defaults.ProfilePoints
	}
	if opts.ProfileRadii <= 0 {
		opts.ProfileRadii = defaults.ProfileRadii
	}
	if opts.Solver == nil {
		opts.Solver = defaults.Solver
	}
	format := physics.NewFormatter(opts.Lang)
	opts.Lang = format.Lang

	return &Manager{
		logger:  logger,
		catalog: cat,
		format:  format,
		opts:    opts,
	}
}

// WithLang returns a copy of the manager rendering text in lang.
func (m *Manager) WithLang(lang physics.Lang) *Manager {
	cp := *m
	cp.format = physics.NewFormatter(lang)
	cp.opts.Lang = cp.format.Lang
	return &cp
}

// Catalog returns the catalogue used for matches.
func (m *Manager) Catalog() *catalog.Catalog {
	return m.catalog
}

// Options returns the effective defaults.
func (m *Manager) Options() Options {
	return m.opts
}

// Formatter returns the formatter used for text fields.
func (m *Manager) Formatter() physics.Formatter {
	return m.format
}

// AnalyzeBody reports on a mass (kg) and radius (km). A non-positive
// reference uses the configured default duration.
func (m *Manager) AnalyzeBody(name string, mass, radius, reference float64) (*types.BodyReport, error) {
	if err := physics.CheckBody(mass, radius); err != nil {
		return nil, err
	}
	if reference <= 0 {
		reference = m.opts.Reference
	}

	rs := physics.SchwarzschildRadius(mass)
	density := physics.Density(mass, radius)
	regime := physics.Classify(mass, radius)

	report := &types.BodyReport{
		Name:                name,
		Mass:                mass,
		Radius:              radius,
		SchwarzschildRadius: rs,
		Density:             density,
		Compacity:           physics.Compacity(mass, radius),
		RadiusRatio:         radius / rs,
		Regime:              regime,
		BlackHole:           regime == physics.RegimeBlackHole,
		NearBlackHole:       regime == physics.RegimeNearBlackHole,
		BeyondBuchdahl:      physics.BeyondBuchdahl(mass, radius),
		SurfaceFactor:       physics.DilationAtSurface(mass, radius),
		CenterFactor:        physics.DilationAtCenter(mass, radius),
		Observers:           m.observerTimes(physics.CompareObservers(mass, radius, reference)),
		Formatted: types.BodyFormatted{
			Mass:                m.format.Mass(mass),
			Radius:              m.format.Radius(radius),
			SchwarzschildRadius: m.format.SchwarzschildRadius(rs),
			Density:             m.format.Density(density),
		},
		Lang: m.opts.Lang,
	}

	match, err := m.catalog.Nearest(mass, radius)
	if err != nil {
		m.logger.Debug("no catalogue match", zap.Error(err))
	} else {
		mr := m.describe(match)
		report.Nearest = &mr
	}

	m.logger.Debug("body analysed",
		zap.String("name", name),
		zap.Float64("mass_kg", mass),
		zap.Float64("radius_km", radius),
		zap.String("regime", string(regime)),
	)
	return report, nil
}

// AnalyzePreset reports on one of the experiment presets.
func (m *Manager) AnalyzePreset(name string, reference float64) (*types.BodyReport, error) {
	p, err := catalog.PresetByName(name)
	if err != nil {
		return nil, err
	}
	return m.AnalyzeBody(p.Name(m.opts.Lang), p.Mass, p.Radius, reference)
}

func (m *Manager) observerTimes(cmp physics.ObserverComparison) types.ObserverTimes {
	out := types.ObserverTimes{
		ObserverComparison: cmp,
		ReferenceText:      m.format.Duration(cmp.Reference),
	}
	if cmp.BlackHole {
		return out
	}
	out.AtSurfaceText = m.format.Duration(cmp.AtSurface)
	out.AtCenterText = m.format.Duration(cmp.AtCenter)
	out.InfinitySurfaceText = m.format.Duration(cmp.InfinitySurface)
	out.InfinityCenterText = m.format.Duration(cmp.InfinityCenter)
	out.SurfaceCenterText = m.format.Duration(cmp.SurfaceCenter)
	return out
}

// AnalyzeVelocity reports the Lorentz factor and proper time for a velocity in km/s.
func (m *Manager) AnalyzeVelocity(velocity, reference float64) (*types.RelativityReport, error) {
	if err := physics.CheckVelocity(velocity); err != nil {
		return nil, err
	}
	gamma := physics.Gamma(velocity)
	return m.relativity(math.Min(velocity, physics.SpeedOfLight), gamma, reference), nil
}

// AnalyzeGamma reports the velocity and proper time for a Lorentz factor.
func (m *Manager) AnalyzeGamma(gamma, reference float64) (*types.RelativityReport, error) {
	if err := physics.CheckGamma(gamma); err != nil {
		return nil, err
	}
	gamma = math.Min(gamma, physics.MaxGamma)
	return m.relativity(physics.Velocity(gamma), gamma, reference), nil
}

func (m *Manager) relativity(velocity, gamma, reference float64) *types.RelativityReport {
	if reference <= 0 {
		reference = m.opts.Reference
	}
	proper := physics.ProperTime(reference, gamma)

	return &types.RelativityReport{
		Velocity:       velocity,
		Beta:           velocity / physics.SpeedOfLight,
		Gamma:          gamma,
		Capped:         gamma >= physics.MaxGamma,
		Reference:      reference,
		ProperTime:     proper,
		VelocityText:   m.format.VelocityKmS(velocity, gamma) + " km/s",
		FractionText:   m.format.VelocityFraction(velocity),
		ReferenceText:  m.format.Duration(reference),
		ProperTimeText: m.format.Duration(proper),
		Lang:           m.opts.Lang,
	}
}

// Profile samples dτ/dt from the centre of a body outwards. Zero values
// fall back to the configured resolution and extent.
func (m *Manager) Profile(mass, radius float64, points int, maxRadii float64) (*types.ProfileReport, error) {
	if err := physics.CheckBody(mass, radius); err != nil {
		return nil, err
	}
	if points <= 0 {
		points = m.opts.ProfilePoints
	}
	if maxRadii <= 0 {
		maxRadii = m.opts.ProfileRadii
	}

	data := physics.DilationProfile(mass, radius, points, maxRadii)
	report := &types.ProfileReport{
		Mass:          mass,
		Radius:        radius,
		MaxRadii:      maxRadii,
		Points:        data,
		SurfaceFactor: physics.DilationAtSurface(mass, radius),
		BlackHole:     physics.IsBlackHole(mass, radius),
	}
	if len(data) > 0 {
		report.MinFactor = data[0].Y
		for _, p := range data[1:] {
			report.MinFactor = math.Min(report.MinFactor, p.Y)
		}
	}

	m.logger.Debug("profile sampled", zap.Int("points", len(data)), zap.Float64("max_radii", maxRadii))
	return report, nil
}

// Solve inverts the dilation formula for the unknown quantity. fixed is the
// radius (km) when solving for mass and the mass (kg) when solving for radius.
func (m *Manager) Solve(unknown Unknown, fixed, target float64, pos physics.Position) (*types.SolveReport, error) {
	start := time.Now()

	var (
		res          physics.SolveResult
		err          error
		mass, radius float64
	)
	switch unknown {
	case UnknownMass:
		res, err = m.opts.Solver.SolveMass(fixed, target, pos)
		mass, radius = res.Value, fixed
	case UnknownRadius:
		res, err = m.opts.Solver.SolveRadius(fixed, target, pos)
		mass, radius = fixed, res.Value
	default:
		_, err = ParseUnknown(string(unknown))
	}
	if err != nil {
		return nil, fmt.Errorf("solve %s: %w", unknown, err)
	}

	body, err := m.AnalyzeBody("", mass, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("solve %s: %w", unknown, err)
	}

	m.logger.Info("inversion converged",
		zap.String("unknown", string(unknown)),
		zap.Float64("target", target),
		zap.Float64("value", res.Value),
		zap.Int("outer_iterations", res.OuterIterations),
		zap.Int("inner_iterations", res.InnerIterations),
		zap.Duration("duration", time.Since(start)),
	)
	report := &types.SolveReport{
		Unknown: string(unknown),
		Fixed:   fixed,
		Result:  res,
		Body:    *body,
	}
	if !res.Converged {
		m.logger.Warn("inversion stopped above the residual limit",
			zap.Float64("target", target),
			zap.Float64("factor", res.Factor),
			zap.Float64("residual", res.Residual),
		)
		achieved := physics.Exponential(res.Factor, 3)
		if m.opts.Lang == physics.LangEN {
			report.Warning = fmt.Sprintf("target out of float64 reach: closest factor is %s", achieved)
		} else {
			report.Warning = fmt.Sprintf("cible hors de portée de la précision double : facteur le plus proche %s", achieved)
		}
	}
	return report, nil
}

// Match returns the n catalogue bodies closest to a mass/radius pair.
func (m *Manager) Match(mass, radius float64, n int, kinds ...catalog.Kind) ([]types.MatchReport, error) {
	matches, err := m.catalog.NearestN(mass, radius, n, kinds...)
	if err != nil {
		return nil, err
	}
	out := make([]types.MatchReport, len(matches))
	for i, match := range matches {
		out[i] = m.describe(match)
	}
	return out, nil
}

func (m *Manager) describe(match catalog.Match) types.MatchReport {
	kind := match.Body.Kind.Label(m.opts.Lang)
	mass := m.format.Number(match.MassRatio, 2)
	radius := m.format.Number(match.RadiusRatio, 2)

	var desc string
	if m.opts.Lang == physics.LangEN {
		desc = fmt.Sprintf("closest to %s (%s): mass ×%s, radius ×%s", match.Body.Name, kind, mass, radius)
	} else {
		desc = fmt.Sprintf("proche de %s (%s) : masse ×%s, rayon ×%s", match.Body.Name, kind, mass, radius)
	}
	return types.MatchReport{Match: match, Description: desc}
}
