package analysis

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oxygene76/univers-client/internal/types"
	"github.com/oxygene76/univers-client/pkg/astronomy/catalog"
	"github.com/oxygene76/univers-client/pkg/physics"
)

func newTestManager(lang physics.Lang) *Manager {
	opts := DefaultOptions()
	opts.Lang = lang
	return NewManager(zap.NewNop(), catalog.Default(), opts)
}

func TestAnalyzeBodyEarth(t *testing.T) {
	m := newTestManager(physics.LangEN)

	r, err := m.AnalyzeBody("Earth", physics.EarthMass, physics.EarthRadius, 0)
	require.NoError(t, err)

	assert.Equal(t, physics.RegimeWeak, r.Regime)
	assert.False(t, r.BlackHole)
	assert.True(t, r.Observers.Negligible)
	assert.Equal(t, physics.Day, r.Observers.Reference)
	assert.Equal(t, "1 day 0 hours", r.Observers.ReferenceText)

	want := types.BodyFormatted{
		Mass:                "1.00 Earth masses",
		Radius:              "1.00 Earth radii",
		SchwarzschildRadius: "0.000 km",
		Density:             "5.51 × 10³ kg/m³",
	}
	if diff := cmp.Diff(want, r.Formatted); diff != "" {
		t.Errorf("formatted mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, r.Nearest)
	assert.Equal(t, "Earth", r.Nearest.Body.Name)
	assert.True(t, strings.HasPrefix(r.Nearest.Description, "closest to Earth (planet)"))
}

func TestAnalyzePresetNeutronStar(t *testing.T) {
	m := newTestManager(physics.LangFR)

	r, err := m.AnalyzePreset("etoile a neutrons", physics.Hour)
	require.NoError(t, err)

	assert.Equal(t, "Étoile à Neutrons", r.Name)
	assert.Equal(t, physics.RegimeStrong, r.Regime)
	assert.InDelta(t, 0.765782137616, r.SurfaceFactor, 1e-9)
	assert.InDelta(t, physics.Hour*0.648673206424, r.Observers.AtCenter, 1e-6)
	assert.NotEmpty(t, r.Observers.SurfaceCenterText)
	assert.Equal(t, "1.40 masses solaires", r.Formatted.Mass)

	_, err = m.AnalyzePreset("Vulcain", 0)
	assert.True(t, errors.Is(err, catalog.ErrUnknownPreset))
}

func TestAnalyzeBodyBlackHole(t *testing.T) {
	m := newTestManager(physics.LangFR)
	rs := physics.SchwarzschildRadius(10 * physics.SolarMass)

	r, err := m.AnalyzeBody("", 10*physics.SolarMass, rs*0.9, physics.Year)
	require.NoError(t, err)

	assert.True(t, r.BlackHole)
	assert.True(t, r.Observers.BlackHole)
	assert.Empty(t, r.Observers.AtSurfaceText)
	assert.Equal(t, 0.0, r.SurfaceFactor)
	require.NotNil(t, r.Nearest)
	assert.Equal(t, catalog.KindBlackHole, r.Nearest.Body.Kind)

	_, err = m.AnalyzeBody("", -1, 10, 0)
	assert.True(t, errors.Is(err, physics.ErrInvalidMass))
}

func TestAnalyzeVelocityAndGamma(t *testing.T) {
	m := newTestManager(physics.LangFR)

	r, err := m.AnalyzeVelocity(0.6*physics.SpeedOfLight, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, r.Gamma, 1e-12)
	assert.InDelta(t, 69120, r.ProperTime, 1e-6)
	assert.Equal(t, "19 heures 12 minutes", r.ProperTimeText)
	assert.Equal(t, "60.0000%", r.FractionText)
	assert.False(t, r.Capped)

	r, err = m.AnalyzeGamma(1000, physics.Year)
	require.NoError(t, err)
	assert.True(t, r.Capped)
	assert.Equal(t, physics.MaxGamma, r.Gamma)
	assert.Equal(t, physics.SpeedOfLight*physics.VelocityCapFraction, r.Velocity)
	assert.Equal(t, "299\u202f792 km/s", r.VelocityText)

	_, err = m.AnalyzeVelocity(-3, 0)
	assert.True(t, errors.Is(err, physics.ErrInvalidVelocity))
	_, err = m.AnalyzeGamma(0.5, 0)
	assert.True(t, errors.Is(err, physics.ErrInvalidGamma))
}

func TestProfile(t *testing.T) {
	m := newTestManager(physics.LangEN)

	r, err := m.Profile(physics.EarthMass, physics.EarthRadius, 0, 0)
	require.NoError(t, err)
	assert.Len(t, r.Points, physics.DefaultProfilePoints)
	assert.Equal(t, physics.DefaultProfileRadii, r.MaxRadii)
	assert.Equal(t, r.Points[0].Y, r.MinFactor)
	assert.Less(t, r.MinFactor, r.SurfaceFactor)

	r, err = m.Profile(physics.SolarMass, 1, 50, 3)
	require.NoError(t, err)
	assert.True(t, r.BlackHole)
	for _, p := range r.Points {
		assert.Greater(t, p.X, 1.0)
	}
}

func TestSolve(t *testing.T) {
	m := newTestManager(physics.LangEN)

	r, err := m.Solve(UnknownRadius, physics.SolarMass, 0.5, physics.PositionSurface)
	require.NoError(t, err)
	assert.Equal(t, "radius", r.Unknown)
	assert.InDelta(t, 3.93883540674, r.Result.Value, 1e-8)
	assert.InDelta(t, 0.5, r.Body.SurfaceFactor, 1e-9)
	assert.Equal(t, physics.SolarMass, r.Body.Mass)
	assert.Empty(t, r.Warning)

	r, err = m.Solve(UnknownRadius, physics.SolarMass, 1e-9, physics.PositionSurface)
	require.NoError(t, err)
	assert.False(t, r.Result.Converged)
	assert.Contains(t, r.Warning, "closest factor")

	r, err = m.Solve(UnknownMass, 10, 0.5, physics.PositionCenter)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, r.Body.CenterFactor, 1e-8)
	assert.Equal(t, 10.0, r.Body.Radius)

	_, err = m.Solve(UnknownMass, physics.EarthRadius, 1.2, physics.PositionSurface)
	assert.True(t, errors.Is(err, physics.ErrTargetOutOfRange))

	_, err = m.Solve(Unknown("density"), 1, 0.5, physics.PositionSurface)
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	m := newTestManager(physics.LangFR)

	matches, err := m.Match(physics.JupiterMass, physics.JupiterRadius, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "Jupiter", matches[0].Body.Name)
	assert.Equal(t, "proche de Jupiter (planète) : masse ×1.00, rayon ×1.00", matches[0].Description)

	matches, err = m.Match(physics.JupiterMass, physics.JupiterRadius, 1, catalog.KindExoplanet)
	require.NoError(t, err)
	assert.Equal(t, catalog.KindExoplanet, matches[0].Body.Kind)
}

func TestWithLang(t *testing.T) {
	fr := newTestManager(physics.LangFR)
	en := fr.WithLang(physics.LangEN)

	assert.Equal(t, physics.LangFR, fr.Options().Lang)
	assert.Equal(t, physics.LangEN, en.Options().Lang)
	assert.Same(t, fr.Catalog(), en.Catalog())
}

func TestParseUnknown(t *testing.T) {
	u, err := ParseUnknown("mass")
	require.NoError(t, err)
	assert.Equal(t, UnknownMass, u)

	_, err = ParseUnknown("volume")
	assert.Error(t, err)
}
