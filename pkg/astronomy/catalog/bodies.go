package catalog

import (
	"github.com/oxygene76/univers-client/pkg/physics"
)

// Unit helpers for the reference table. Values are mean radii and best
// published masses; stellar remnants use km, black holes their horizon.
func earthUnits(name string, kind Kind, mass, radius float64) Body {
	return Body{Name: name, Kind: kind, Mass: mass * physics.EarthMass, Radius: radius * physics.EarthRadius}
}

func jupiterUnits(name string, mass, radius float64) Body {
	return Body{Name: name, Kind: KindExoplanet, Mass: mass * physics.JupiterMass, Radius: radius * physics.JupiterRadius}
}

func solarUnits(name string, kind Kind, mass, radius float64) Body {
	return Body{Name: name, Kind: kind, Mass: mass * physics.SolarMass, Radius: radius * physics.SolarRadius}
}

func remnant(name string, kind Kind, solarMasses, radiusKm float64) Body {
	return Body{Name: name, Kind: kind, Mass: solarMasses * physics.SolarMass, Radius: radiusKm}
}

func blackHole(name string, solarMasses float64) Body {
	m := solarMasses * physics.SolarMass
	return Body{Name: name, Kind: KindBlackHole, Mass: m, Radius: physics.SchwarzschildRadius(m)}
}

var referenceBodies = []Body{
	// Planets
	{Name: "Mercury", Kind: KindPlanet, Mass: 3.3011e23, Radius: 2439.7},
	{Name: "Venus", Kind: KindPlanet, Mass: 4.8675e24, Radius: 6051.8},
	{Name: "Earth", Kind: KindPlanet, Mass: physics.EarthMass, Radius: physics.EarthRadius},
	{Name: "Mars", Kind: KindPlanet, Mass: 6.4171e23, Radius: 3389.5},
	{Name: "Jupiter", Kind: KindPlanet, Mass: physics.JupiterMass, Radius: physics.JupiterRadius},
	{Name: "Saturn", Kind: KindPlanet, Mass: 5.6834e26, Radius: 58232},
	{Name: "Uranus", Kind: KindPlanet, Mass: 8.6810e25, Radius: 25362},
	{Name: "Neptune", Kind: KindPlanet, Mass: 1.02413e26, Radius: 24622},

	// Dwarf planets
	{Name: "Pluto", Kind: KindDwarfPlanet, Mass: 1.303e22, Radius: 1188.3},
	{Name: "Eris", Kind: KindDwarfPlanet, Mass: 1.6466e22, Radius: 1163},
	{Name: "Haumea", Kind: KindDwarfPlanet, Mass: 4.006e21, Radius: 780},
	{Name: "Makemake", Kind: KindDwarfPlanet, Mass: 3.1e21, Radius: 715},
	{Name: "Gonggong", Kind: KindDwarfPlanet, Mass: 1.75e21, Radius: 615},
	{Name: "Quaoar", Kind: KindDwarfPlanet, Mass: 1.2e21, Radius: 555},
	{Name: "Ceres", Kind: KindDwarfPlanet, Mass: 9.3839e20, Radius: 469.7},
	{Name: "Orcus", Kind: KindDwarfPlanet, Mass: 6.348e20, Radius: 455},

	// Moons
	{Name: "Moon", Kind: KindMoon, Mass: 7.342e22, Radius: 1737.4},
	{Name: "Phobos", Kind: KindMoon, Mass: 1.0659e16, Radius: 11.267},
	{Name: "Deimos", Kind: KindMoon, Mass: 1.4762e15, Radius: 6.2},
	{Name: "Io", Kind: KindMoon, Mass: 8.9319e22, Radius: 1821.6},
	{Name: "Europa", Kind: KindMoon, Mass: 4.7998e22, Radius: 1560.8},
	{Name: "Ganymede", Kind: KindMoon, Mass: 1.4819e23, Radius: 2634.1},
	{Name: "Callisto", Kind: KindMoon, Mass: 1.0759e23, Radius: 2410.3},
	{Name: "Amalthea", Kind: KindMoon, Mass: 2.08e18, Radius: 83.5},
	{Name: "Himalia", Kind: KindMoon, Mass: 4.2e18, Radius: 69.8},
	{Name: "Titan", Kind: KindMoon, Mass: 1.3452e23, Radius: 2574.7},
	{Name: "Rhea", Kind: KindMoon, Mass: 2.3065e21, Radius: 763.8},
	{Name: "Iapetus", Kind: KindMoon, Mass: 1.8056e21, Radius: 734.5},
	{Name: "Dione", Kind: KindMoon, Mass: 1.0955e21, Radius: 561.4},
	{Name: "Tethys", Kind: KindMoon, Mass: 6.1745e20, Radius: 531.1},
	{Name: "Enceladus", Kind: KindMoon, Mass: 1.0802e20, Radius: 252.1},
	{Name: "Mimas", Kind: KindMoon, Mass: 3.7493e19, Radius: 198.2},
	{Name: "Hyperion", Kind: KindMoon, Mass: 5.62e18, Radius: 135},
	{Name: "Phoebe", Kind: KindMoon, Mass: 8.292e18, Radius: 106.5},
	{Name: "Titania", Kind: KindMoon, Mass: 3.455e21, Radius: 788.4},
	{Name: "Oberon", Kind: KindMoon, Mass: 3.076e21, Radius: 761.4},
	{Name: "Umbriel", Kind: KindMoon, Mass: 1.28e21, Radius: 584.7},
	{Name: "Ariel", Kind: KindMoon, Mass: 1.251e21, Radius: 578.9},
	{Name: "Miranda", Kind: KindMoon, Mass: 6.4e19, Radius: 235.8},
	{Name: "Triton", Kind: KindMoon, Mass: 2.139e22, Radius: 1353.4},
	{Name: "Proteus", Kind: KindMoon, Mass: 4.4e19, Radius: 210},
	{Name: "Nereid", Kind: KindMoon, Mass: 3.1e19, Radius: 170},
	{Name: "Charon", Kind: KindMoon, Mass: 1.586e21, Radius: 606},

	// Asteroids and comets
	{Name: "Vesta", Kind: KindAsteroid, Mass: 2.59076e20, Radius: 262.7},
	{Name: "Pallas", Kind: KindAsteroid, Mass: 2.04e20, Radius: 256},
	{Name: "Hygiea", Kind: KindAsteroid, Mass: 8.32e19, Radius: 216.5},
	{Name: "Interamnia", Kind: KindAsteroid, Mass: 3.5e19, Radius: 166},
	{Name: "52 Europa", Kind: KindAsteroid, Mass: 2.4e19, Radius: 157.5},
	{Name: "Davida", Kind: KindAsteroid, Mass: 2.7e19, Radius: 150},
	{Name: "Juno", Kind: KindAsteroid, Mass: 2.67e19, Radius: 127},
	{Name: "Psyche", Kind: KindAsteroid, Mass: 2.29e19, Radius: 111},
	{Name: "Ida", Kind: KindAsteroid, Mass: 4.2e16, Radius: 15.7},
	{Name: "Eros", Kind: KindAsteroid, Mass: 6.687e15, Radius: 8.42},
	{Name: "Gaspra", Kind: KindAsteroid, Mass: 2.5e15, Radius: 6.1},
	{Name: "Didymos", Kind: KindAsteroid, Mass: 5.4e11, Radius: 0.39},
	{Name: "Ryugu", Kind: KindAsteroid, Mass: 4.5e11, Radius: 0.448},
	{Name: "Bennu", Kind: KindAsteroid, Mass: 7.329e10, Radius: 0.245},
	{Name: "Apophis", Kind: KindAsteroid, Mass: 6.1e10, Radius: 0.17},
	{Name: "Itokawa", Kind: KindAsteroid, Mass: 3.51e10, Radius: 0.165},
	{Name: "Halley's Comet", Kind: KindAsteroid, Mass: 2.2e14, Radius: 5.5},
	{Name: "67P/Churyumov-Gerasimenko", Kind: KindAsteroid, Mass: 1.0e13, Radius: 2.0},

	// Exoplanets
	earthUnits("TRAPPIST-1b", KindExoplanet, 1.374, 1.116),
	earthUnits("TRAPPIST-1e", KindExoplanet, 0.692, 0.920),
	earthUnits("Kepler-10b", KindExoplanet, 3.72, 1.47),
	earthUnits("LHS 1140 b", KindExoplanet, 5.6, 1.73),
	earthUnits("55 Cancri e", KindExoplanet, 8.8, 1.88),
	earthUnits("GJ 1214 b", KindExoplanet, 8.17, 2.742),
	earthUnits("K2-18 b", KindExoplanet, 8.63, 2.61),
	jupiterUnits("HD 209458 b", 0.73, 1.39),
	jupiterUnits("HD 189733 b", 1.13, 1.13),
	jupiterUnits("WASP-12b", 1.47, 1.9),
	jupiterUnits("WASP-17b", 0.512, 1.99),
	jupiterUnits("KELT-9b", 2.88, 1.891),

	// Brown dwarfs
	{Name: "Luhman 16 A", Kind: KindBrownDwarf, Mass: 35.4 * physics.JupiterMass, Radius: 0.85 * physics.JupiterRadius},
	{Name: "Gliese 229 B", Kind: KindBrownDwarf, Mass: 71.4 * physics.JupiterMass, Radius: 1.05 * physics.JupiterRadius},
	{Name: "WISE 1049-5319 B", Kind: KindBrownDwarf, Mass: 29.4 * physics.JupiterMass, Radius: 0.87 * physics.JupiterRadius},

	// Stars
	solarUnits("Sun", KindStar, 1, 1),
	solarUnits("Proxima Centauri", KindStar, 0.1221, 0.1542),
	solarUnits("Alpha Centauri A", KindStar, 1.0788, 1.2175),
	solarUnits("Alpha Centauri B", KindStar, 0.9092, 0.8591),
	solarUnits("Barnard's Star", KindStar, 0.162, 0.187),
	solarUnits("Wolf 359", KindStar, 0.11, 0.16),
	solarUnits("Lalande 21185", KindStar, 0.39, 0.392),
	solarUnits("TRAPPIST-1", KindStar, 0.0898, 0.1192),
	solarUnits("Gliese 581", KindStar, 0.311, 0.299),
	solarUnits("Epsilon Eridani", KindStar, 0.82, 0.735),
	solarUnits("61 Cygni A", KindStar, 0.70, 0.665),
	solarUnits("Tau Ceti", KindStar, 0.783, 0.793),
	solarUnits("18 Scorpii", KindStar, 1.02, 1.02),
	solarUnits("Kepler-452", KindStar, 1.04, 1.11),
	solarUnits("HD 209458", KindStar, 1.148, 1.162),
	solarUnits("Sirius A", KindStar, 2.063, 1.711),
	solarUnits("Procyon A", KindStar, 1.499, 2.048),
	solarUnits("Altair", KindStar, 1.86, 1.79),
	solarUnits("Vega", KindStar, 2.135, 2.36),
	solarUnits("Fomalhaut", KindStar, 1.92, 1.842),
	solarUnits("Castor A", KindStar, 2.76, 2.4),
	solarUnits("Regulus", KindStar, 3.8, 3.22),
	solarUnits("Bellatrix", KindStar, 7.7, 5.75),
	solarUnits("Spica A", KindStar, 11.43, 7.47),
	solarUnits("Achernar", KindStar, 6.7, 9.16),
	solarUnits("Pollux", KindStar, 1.91, 9.06),
	solarUnits("Capella Aa", KindStar, 2.5687, 11.98),
	solarUnits("Arcturus", KindStar, 1.08, 25.4),
	solarUnits("Polaris", KindStar, 5.4, 37.5),
	solarUnits("Aldebaran", KindStar, 1.16, 45.1),
	solarUnits("Alnilam", KindStar, 40, 42),
	solarUnits("R136a1", KindStar, 196, 39.2),
	solarUnits("Mirfak", KindStar, 8.5, 68),
	solarUnits("Canopus", KindStar, 8.0, 71),
	solarUnits("Rigel", KindStar, 21, 78.9),
	solarUnits("Deneb", KindStar, 19, 203),
	solarUnits("Eta Carinae A", KindStar, 100, 240),
	solarUnits("Mira", KindStar, 1.2, 332),
	solarUnits("Antares", KindStar, 12, 680),
	solarUnits("Betelgeuse", KindStar, 16.5, 764),
	solarUnits("Mu Cephei", KindStar, 19.2, 972),
	solarUnits("VY Canis Majoris", KindStar, 17, 1420),

	// White dwarfs
	remnant("Sirius B", KindWhiteDwarf, 1.018, 5840),
	remnant("Procyon B", KindWhiteDwarf, 0.592, 8600),
	remnant("40 Eridani B", KindWhiteDwarf, 0.573, 9460),
	remnant("Van Maanen 2", KindWhiteDwarf, 0.68, 7650),
	remnant("Stein 2051 B", KindWhiteDwarf, 0.675, 7930),
	remnant("IK Pegasi B", KindWhiteDwarf, 1.15, 4170),
	remnant("LP 40-365", KindWhiteDwarf, 0.37, 12500),
	remnant("ZTF J1901+1458", KindWhiteDwarf, 1.35, 2140),

	// Neutron stars
	remnant("PSR J0740+6620", KindNeutronStar, 2.08, 12.39),
	remnant("PSR J0030+0451", KindNeutronStar, 1.44, 13.02),
	remnant("PSR J0437-4715", KindNeutronStar, 1.418, 11.36),
	remnant("PSR J0348+0432", KindNeutronStar, 2.01, 13.0),
	remnant("PSR J0952-0607", KindNeutronStar, 2.35, 14.0),
	remnant("PSR B1913+16", KindNeutronStar, 1.438, 11.9),
	remnant("Crab Pulsar", KindNeutronStar, 1.4, 10),
	remnant("SGR 1806-20", KindNeutronStar, 1.6, 11),

	// Black holes
	blackHole("A0620-00", 6.6),
	blackHole("V404 Cygni", 9),
	blackHole("Gaia BH1", 9.62),
	blackHole("GRS 1915+105", 12.4),
	blackHole("M33 X-7", 15.65),
	blackHole("Cygnus X-1", 21.2),
	blackHole("Gaia BH3", 33),
	blackHole("GW150914 remnant", 62),
	blackHole("GW190521 remnant", 142),
	blackHole("Sagittarius A*", 4.297e6),
	blackHole("M31*", 1.4e8),
	blackHole("3C 273", 8.9e8),
	blackHole("M87*", 6.5e9),
	blackHole("NGC 1277", 1.7e10),
	blackHole("NGC 4889", 2.1e10),
	blackHole("Holm 15A*", 4.0e10),
	blackHole("TON 618", 4.07e10),
}
