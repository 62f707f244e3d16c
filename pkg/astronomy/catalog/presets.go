package catalog

import (
	"github.com/oxygene76/univers-client/pkg/physics"
)

// PresetID identifies one of the quick-pick bodies of the experiment.
type PresetID string

const (
	PresetEarth       PresetID = "earth"
	PresetJupiter     PresetID = "jupiter"
	PresetSun         PresetID = "sun"
	PresetWhiteDwarf  PresetID = "white_dwarf"
	PresetNeutronStar PresetID = "neutron_star"
)

// Preset is a body with display names in both supported languages.
type Preset struct {
	ID     PresetID `json:"id"`
	NameFR string   `json:"name_fr"`
	NameEN string   `json:"name_en"`
	Mass   float64  `json:"mass_kg"`
	Radius float64  `json:"radius_km"`
}

// Name returns the display name for lang.
func (p Preset) Name(lang physics.Lang) string {
	if lang == physics.LangEN {
		return p.NameEN
	}
	return p.NameFR
}

// Body converts the preset to a catalogue body.
func (p Preset) Body(lang physics.Lang) Body {
	kind := KindStar
	switch p.ID {
	case PresetEarth:
		kind = KindPlanet
	case PresetJupiter:
		kind = KindPlanet
	case PresetWhiteDwarf:
		kind = KindWhiteDwarf
	case PresetNeutronStar:
		kind = KindNeutronStar
	}
	return Body{Name: p.Name(lang), Kind: kind, Mass: p.Mass, Radius: p.Radius}
}

var presets = []Preset{
	{ID: PresetEarth, NameFR: "Terre", NameEN: "Earth", Mass: physics.EarthMass, Radius: physics.EarthRadius},
	{ID: PresetJupiter, NameFR: "Jupiter", NameEN: "Jupiter", Mass: physics.JupiterMass, Radius: physics.JupiterRadius},
	{ID: PresetSun, NameFR: "Soleil", NameEN: "Sun", Mass: physics.SolarMass, Radius: physics.SolarRadius},
	{ID: PresetWhiteDwarf, NameFR: "Naine Blanche", NameEN: "White dwarf", Mass: 0.6 * physics.SolarMass, Radius: 5000},
	{ID: PresetNeutronStar, NameFR: "Étoile à Neutrons", NameEN: "Neutron star", Mass: 1.4 * physics.SolarMass, Radius: 10},
}

// Presets returns the quick-pick bodies in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByName resolves a preset by id or by its French or English name.
func PresetByName(name string) (Preset, error) {
	key := foldName(name)
	for _, p := range presets {
		if key == foldName(string(p.ID)) || key == foldName(p.NameFR) || key == foldName(p.NameEN) {
			return p, nil
		}
	}
	return Preset{}, ErrUnknownPreset.Wrapf("%q", name)
}
