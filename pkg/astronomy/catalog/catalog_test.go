package catalog

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygene76/univers-client/pkg/physics"
)

func TestReferenceTable(t *testing.T) {
	c := Default()
	assert.GreaterOrEqual(t, c.Len(), 150)

	for _, kind := range Kinds {
		assert.NotEmpty(t, c.ByKind(kind), "kind %s", kind)
	}
	for _, b := range c.ByKind(KindBlackHole) {
		assert.True(t, physics.IsBlackHole(b.Mass, b.Radius), b.Name)
	}
	for _, b := range c.ByKind(KindNeutronStar) {
		assert.Equal(t, physics.RegimeStrong, physics.Classify(b.Mass, b.Radius), b.Name)
	}
}

func TestFind(t *testing.T) {
	c := Default()

	earth, err := c.Find("  EARTH ")
	require.NoError(t, err)
	assert.Equal(t, physics.EarthMass, earth.Mass)
	assert.Equal(t, KindPlanet, earth.Kind)

	sgr, err := c.Find("sagittarius a*")
	require.NoError(t, err)
	assert.Equal(t, KindBlackHole, sgr.Kind)

	_, err = c.Find("Vulcan")
	assert.True(t, errors.Is(err, ErrUnknownBody))
}

func TestAddRemove(t *testing.T) {
	c := Default()
	n := c.Len()

	err := c.Add(Body{Name: "Planète X", Kind: KindPlanet, Mass: 3 * physics.EarthMass, Radius: 9000})
	require.NoError(t, err)
	assert.Equal(t, n+1, c.Len())

	got, err := c.Find("planete x")
	require.NoError(t, err)
	assert.True(t, got.Custom)

	err = c.Add(Body{Name: "PLANETE X", Kind: KindPlanet, Mass: 1, Radius: 1})
	assert.True(t, errors.Is(err, ErrDuplicateBody))

	err = c.Add(Body{Name: "Nothing", Kind: KindPlanet, Mass: 0, Radius: 1})
	assert.True(t, errors.Is(err, ErrInvalidBody))

	err = c.Add(Body{Name: "Odd", Kind: "comet", Mass: 1, Radius: 1})
	assert.True(t, errors.Is(err, ErrUnknownKind))

	assert.True(t, errors.Is(c.Remove("Earth"), ErrReadOnlyBody))
	require.NoError(t, c.Remove("Planète X"))
	assert.Equal(t, n, c.Len())
	assert.True(t, errors.Is(c.Remove("Planète X"), ErrUnknownBody))

	// index is rebuilt after removal
	_, err = c.Find("TON 618")
	require.NoError(t, err)
}

func TestNewWithCustomBodies(t *testing.T) {
	c, err := New(Body{Name: "Dyson Sphere", Kind: KindStar, Mass: physics.SolarMass, Radius: 1.5e8})
	require.NoError(t, err)

	b, err := c.Find("dyson sphere")
	require.NoError(t, err)
	assert.True(t, b.Custom)

	_, err = New(Body{Name: "Sun", Kind: KindStar, Mass: 1, Radius: 1})
	assert.True(t, errors.Is(err, ErrDuplicateBody))
}

func TestNearest(t *testing.T) {
	c := Default()

	m, err := c.Nearest(physics.EarthMass, physics.EarthRadius)
	require.NoError(t, err)
	assert.Equal(t, "Earth", m.Body.Name)
	assert.InDelta(t, 0, m.Distance, 1e-12)
	assert.InDelta(t, 1, m.MassRatio, 1e-12)

	m, err = c.Nearest(1.4*physics.SolarMass, 10)
	require.NoError(t, err)
	assert.Equal(t, "Crab Pulsar", m.Body.Name)

	m, err = c.Nearest(2*physics.EarthMass, physics.EarthRadius, KindMoon)
	require.NoError(t, err)
	assert.Equal(t, KindMoon, m.Body.Kind)
	assert.Greater(t, m.MassRatio, 1.0)
}

func TestNearestExtremeRatios(t *testing.T) {
	c, err := New(Body{Name: "Speck", Kind: KindAsteroid, Mass: 1e-20, Radius: 1e-5})
	require.NoError(t, err)

	matches, err := c.NearestN(1e308, 1e90, c.Len())
	require.NoError(t, err)
	require.Len(t, matches, c.Len())

	for _, m := range matches {
		assert.False(t, math.IsInf(m.MassRatio, 0), m.Body.Name)
		assert.False(t, math.IsInf(m.RadiusRatio, 0), m.Body.Name)
	}
	_, err = json.Marshal(matches)
	assert.NoError(t, err)
}

func TestNearestN(t *testing.T) {
	c := Default()

	matches, err := c.NearestN(physics.SolarMass, physics.SolarRadius, 5)
	require.NoError(t, err)
	require.Len(t, matches, 5)
	assert.Equal(t, "Sun", matches[0].Body.Name)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i].Distance, matches[i-1].Distance)
	}

	_, err = c.NearestN(0, 1, 3)
	assert.True(t, errors.Is(err, physics.ErrInvalidMass))

	_, err = c.Nearest(1, 1, Kind("nothing"))
	assert.True(t, errors.Is(err, ErrEmptyCatalog))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Neutron-Star")
	require.NoError(t, err)
	assert.Equal(t, KindNeutronStar, k)

	k, err = ParseKind("black hole")
	require.NoError(t, err)
	assert.Equal(t, KindBlackHole, k)

	_, err = ParseKind("quasar")
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestPresets(t *testing.T) {
	ps := Presets()
	require.Len(t, ps, 5)
	assert.Equal(t, PresetEarth, ps[0].ID)

	for _, name := range []string{"Étoile à Neutrons", "etoile a neutrons", "neutron star", "neutron_star"} {
		p, err := PresetByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, PresetNeutronStar, p.ID)
		assert.Equal(t, 10.0, p.Radius)
	}

	wd, err := PresetByName("Naine Blanche")
	require.NoError(t, err)
	assert.Equal(t, 0.6*physics.SolarMass, wd.Mass)
	assert.Equal(t, "White dwarf", wd.Name(physics.LangEN))
	assert.Equal(t, KindWhiteDwarf, wd.Body(physics.LangFR).Kind)

	_, err = PresetByName("Planet Nine")
	assert.True(t, errors.Is(err, ErrUnknownPreset))
}

func TestStats(t *testing.T) {
	stats := Default().Stats()
	require.Len(t, stats, len(Kinds))

	byKind := make(map[Kind]KindStats, len(stats))
	for _, s := range stats {
		byKind[s.Kind] = s
	}

	planets := byKind[KindPlanet]
	assert.Equal(t, 8, planets.Count)
	assert.InDelta(t, 3.38, planets.MeanLogDensity, 0.1)
	assert.Greater(t, planets.StdLogDensity, 0.0)
	assert.Less(t, planets.MinDensity, planets.MaxDensity)

	assert.Greater(t, byKind[KindNeutronStar].MeanLogDensity, byKind[KindWhiteDwarf].MeanLogDensity)
	assert.InDelta(t, 1, byKind[KindBlackHole].MeanCompacity, 1e-9)
}
